// Package models содержит wire-модели HTTP API, общие для сервера и taskctl.
//
// Запросы несут теги validate (go-playground/validator): сервер проверяет их
// в слое валидации, клиент просто сериализует.
package models

import (
	"time"

	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
)

// Допустимые статусы задачи.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// TaskStatuses — закрытый набор статусов, в том же порядке что и в CHECK на таблице tasks.
var TaskStatuses = []string{TaskStatusPending, TaskStatusInProgress, TaskStatusDone}

// RegisterRequest — тело POST /user/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest — тело POST /user/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse — ответ успешного логина.
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateUserRequest — тело POST /users (вариант без пароля).
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,min=3"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateUserRequest — тело PUT /users/{id}. Лишние поля запрещены.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=3"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// ListUsersQuery — query GET /users.
type ListUsersQuery struct {
	Page     int `query:"page" default:"1" validate:"min=1"`
	PageSize int `query:"pageSize" default:"10" validate:"min=1,max=100"`
}

// CreateTaskRequest — тело POST /task.
//
// description обязателен как поле, но может быть пустой строкой.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=3"`
	Description *string `json:"description" validate:"required"`
}

// UpdateTaskRequest — тело PUT /task/{id}, все поля опциональны.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=3"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress done"`
}

// ListTasksQuery — query GET /task.
type ListTasksQuery struct {
	Page     int    `query:"page" default:"1" validate:"min=1"`
	PageSize int    `query:"pageSize" default:"10" validate:"min=1,max=50"`
	Search   string `query:"search"`
	Status   string `query:"status" validate:"omitempty,oneof=pending in_progress done"`
}

// Pagination — метаданные страницы списка.
type Pagination struct {
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
}

// NewPagination считает метаданные: totalPages = ceil(totalItems / pageSize).
func NewPagination(totalItems, page, pageSize int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}
	return Pagination{
		TotalItems:  totalItems,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
	}
}

// Task — задача в том виде, как её отдаёт API.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// User — пользователь в том виде, как его отдаёт API (без пароля).
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskList — ответ GET /task.
type TaskList struct {
	Items      []Task     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// UserList — ответ GET /users.
type UserList struct {
	Items      []User     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ErrorResponse — стандартный формат ошибки API.
type ErrorResponse struct {
	Message string       `json:"message"`
	Issues  []serr.Issue `json:"issues,omitempty"`
}
