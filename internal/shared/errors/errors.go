// Package errors содержит общие доменные ошибки приложения
// и утилиты для error wrapping.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Неверные учётные данные
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неавторизован
	ErrUnauthorized = errors.New("unauthorized: token is missing, invalid or expired")
	// Ресурс уже существует (например email уже занят)
	ErrAlreadyExists = errors.New("already exists")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// Слишком много запросов с одного ключа
	ErrTooManyRequests = errors.New("too many requests")
)

// уточнённые ошибки, errors.Is работает и по базовой
var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrTaskNotFound    = fmt.Errorf("task %w or not yours", ErrNotFound)
	ErrEmailTaken      = fmt.Errorf("email %w", ErrAlreadyExists)
	ErrNothingToUpdate = fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	ErrUserIDEmpty     = errors.New("user id cannot be empty")
)

// Issue — одно нарушение правила валидации.
type Issue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError возвращается слоем валидации, когда вход не прошёл схему.
//
// Unwrap отдаёт ErrInvalidInput, поэтому errors.Is(err, ErrInvalidInput) == true.
type ValidationError struct {
	Issues []Issue
}

// NewValidationError собирает ошибку из списка нарушений.
func NewValidationError(issues ...Issue) *ValidationError {
	return &ValidationError{Issues: issues}
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+": "+is.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
