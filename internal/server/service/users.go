package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
)

// UsersService — CRUD пользователей без аутентификации.
type UsersService struct {
	users UsersRepo
}

func NewUsersService(users UsersRepo) *UsersService {
	return &UsersService{users: users}
}

// Create создаёт пользователя без пароля. Занятый email: ErrEmailTaken.
func (s *UsersService) Create(ctx context.Context, name, email string) (models.User, error) {
	email = normalizeEmail(email)

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return models.User{}, serr.ErrEmailTaken
	case !errors.Is(err, serr.ErrNotFound):
		return models.User{}, err
	}

	u, err := s.users.Create(ctx, name, email, nil)
	return u, userErr(err)
}

// List — страница пользователей, новые первыми.
func (s *UsersService) List(ctx context.Context, page models.PageRequest) (models.Page[models.User], error) {
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return models.Page[models.User]{}, err
	}
	return models.NewPage(users, total, page), nil
}

func (s *UsersService) Get(ctx context.Context, id uuid.UUID) (models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	return u, userErr(err)
}

// Update меняет name и/или email. Пустой patch: ErrNothingToUpdate.
func (s *UsersService) Update(ctx context.Context, id uuid.UUID, patch models.UserPatch) (models.User, error) {
	if patch.Empty() {
		return models.User{}, serr.ErrNothingToUpdate
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		patch.Email = &email
	}

	u, err := s.users.Update(ctx, id, patch)
	return u, userErr(err)
}

// Delete удаляет пользователя вместе с его задачами.
func (s *UsersService) Delete(ctx context.Context, id uuid.UUID) error {
	return userErr(s.users.Delete(ctx, id))
}

// userErr уточняет ошибки репозитория для ресурса "пользователь".
func userErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, serr.ErrNotFound):
		return serr.ErrUserNotFound
	case errors.Is(err, serr.ErrAlreadyExists):
		return serr.ErrEmailTaken
	default:
		return err
	}
}
