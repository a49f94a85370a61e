package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
)

// TasksService — задачи аутентифицированного пользователя.
//
// userID всегда берётся из токена, поэтому чужая задача для сервиса просто не существует.
type TasksService struct {
	tasks TasksRepo
}

func NewTasksService(tasks TasksRepo) *TasksService {
	return &TasksService{tasks: tasks}
}

// Create создаёт задачу со статусом по умолчанию.
//
// Владелец из токена уже удалён: ErrUnauthorized.
func (s *TasksService) Create(ctx context.Context, userID uuid.UUID, title, description string) (models.Task, error) {
	if userID == uuid.Nil {
		return models.Task{}, serr.ErrUserIDEmpty
	}
	t, err := s.tasks.Create(ctx, userID, title, description)
	if errors.Is(err, serr.ErrNotFound) {
		return models.Task{}, serr.ErrUnauthorized
	}
	return t, err
}

// List — страница задач пользователя с поиском по заголовку и фильтром по статусу.
func (s *TasksService) List(ctx context.Context, filter models.TaskFilter) (models.Page[models.Task], error) {
	if filter.UserID == uuid.Nil {
		return models.Page[models.Task]{}, serr.ErrUserIDEmpty
	}
	tasks, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return models.Page[models.Task]{}, err
	}
	return models.NewPage(tasks, total, filter.PageRequest), nil
}

// Update меняет переданные поля. Пустой patch только обновляет updatedAt.
//
// Задачи нет или она чужая: ErrTaskNotFound.
func (s *TasksService) Update(ctx context.Context, id, userID uuid.UUID, patch models.TaskPatch) (models.Task, error) {
	if userID == uuid.Nil {
		return models.Task{}, serr.ErrUserIDEmpty
	}
	t, err := s.tasks.Update(ctx, id, userID, patch)
	return t, taskErr(err)
}

// Delete удаляет задачу. Задачи нет или она чужая: ErrTaskNotFound.
func (s *TasksService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return serr.ErrUserIDEmpty
	}
	return taskErr(s.tasks.Delete(ctx, id, userID))
}

func taskErr(err error) error {
	if errors.Is(err, serr.ErrNotFound) {
		return serr.ErrTaskNotFound
	}
	return err
}
