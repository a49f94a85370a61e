// Package service содержит бизнес-логику приложения (taskboard).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/config"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/models"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users  UsersRepo
	Tasks  TasksRepo
	Health HealthRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth   *AuthService
	Users  *UsersService
	Tasks  *TasksService
	Health HealthRepo
}

// NewServices собирает все сервисы приложения.
// cfg нужен AuthService (параметры выпуска токена).
func NewServices(repos Repositories, hasher crypto.PasswordHasher, cfg *config.Config) *Services {
	return &Services{
		Auth:   NewAuthService(repos.Users, hasher, crypto.JWTConfigFrom(cfg.Auth)),
		Users:  NewUsersService(repos.Users),
		Tasks:  NewTasksService(repos.Tasks),
		Health: repos.Health,
	}
}

// HealthRepo — минимально нужное для health-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// UsersRepo — репозиторий пользователей.
type UsersRepo interface {
	Create(ctx context.Context, name, email string, passwordHash *string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	List(ctx context.Context, page models.PageRequest) ([]models.User, int, error)
	Update(ctx context.Context, id uuid.UUID, patch models.UserPatch) (models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TasksRepo — репозиторий задач. Всё, кроме Create, ограничено владельцем.
type TasksRepo interface {
	Create(ctx context.Context, userID uuid.UUID, title, description string) (models.Task, error)
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error)
	Update(ctx context.Context, id, userID uuid.UUID, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// normalizeEmail — email хранится и ищется в нижнем регистре без пробелов по краям.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
