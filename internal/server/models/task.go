package models

import (
	"math"
	"time"

	"github.com/google/uuid"

	sm "github.com/IvanChernomyrdin/go-taskboard/internal/shared/models"
)

// Task — запись таблицы tasks.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	UserID      uuid.UUID `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskPatch — частичное обновление задачи, nil означает "не трогать".
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
}

// TaskFilter — условия выборки задач одного пользователя.
type TaskFilter struct {
	UserID uuid.UUID
	// Search — подстрока заголовка без учёта регистра; пусто — без фильтра.
	Search string
	// Status — точное совпадение статуса; пусто — без фильтра.
	Status string
	PageRequest
}

// PageRequest — номер страницы (с 1) и её размер.
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset — сколько записей пропустить. При переполнении int упирается в math.MaxInt:
// такая страница заведомо за концом списка и будет пустой.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Page — страница списка в формате ответа API.
type Page[T any] struct {
	Items      []T           `json:"items"`
	Pagination sm.Pagination `json:"pagination"`
}

// NewPage собирает страницу; items никогда не nil, чтобы в JSON был [].
func NewPage[T any](items []T, total int, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Pagination: sm.NewPagination(total, req.Page, req.PageSize),
	}
}
