package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
)

// AuthService реализует регистрацию и вход по email/паролю.
//
// Токен не хранится: это подписанный JWT, сервер только проверяет подпись и срок.
type AuthService struct {
	users  UsersRepo
	hasher crypto.PasswordHasher
	jwt    crypto.JWTConfig
}

// NewAuthService создаёт AuthService.
func NewAuthService(users UsersRepo, hasher crypto.PasswordHasher, jwt crypto.JWTConfig) *AuthService {
	return &AuthService{users: users, hasher: hasher, jwt: jwt}
}

// Register регистрирует нового пользователя.
//
// Входные данные уже проверены слоем валидации; email нормализуется здесь.
//
// Ошибки:
//   - ErrEmailTaken, если email уже зарегистрирован
//   - ErrInternal при сбое хэширования или БД
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	email = normalizeEmail(email)

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return models.User{}, serr.ErrEmailTaken
	case !errors.Is(err, serr.ErrNotFound):
		return models.User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}

	u, err := s.users.Create(ctx, name, email, &hash)
	if err != nil {
		// гонка двух регистраций: проверка прошла у обеих, уникальный индекс остановил вторую
		if errors.Is(err, serr.ErrAlreadyExists) {
			return models.User{}, serr.ErrEmailTaken
		}
		return models.User{}, err
	}
	return u, nil
}

// Login проверяет пароль и выдаёт access-токен (sub = id, name = имя пользователя).
//
// Неизвестный email и неверный пароль неразличимы: оба дают ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		// не палим существование email
		if errors.Is(err, serr.ErrNotFound) {
			return "", serr.ErrInvalidCredentials
		}
		return "", err
	}

	// пользователи из POST /users пароля не имеют и войти не могут
	if u.PasswordHash == "" {
		return "", serr.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}
	if !ok {
		return "", serr.ErrInvalidCredentials
	}

	token, err := crypto.NewAccessToken(u.ID.String(), u.Name, s.jwt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}
	return token, nil
}
