package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/models"
)

const taskColumns = `id, title, description, status, user_id, created_at, updated_at`

// TasksRepository — таблица tasks. Все операции, кроме Create, ограничены владельцем.
type TasksRepository struct {
	db *sql.DB
}

func NewTasksRepository(db *sql.DB) *TasksRepository {
	return &TasksRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create добавляет задачу; статус проставляет БД (pending).
//
// Владелец не существует: ErrNotFound (FK).
func (r *TasksRepository) Create(ctx context.Context, userID uuid.UUID, title, description string) (models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (title, description, user_id)
		 VALUES ($1,$2,$3)
		 RETURNING `+taskColumns,
		title, description, userID,
	))
	if err != nil {
		return models.Task{}, mapError(err)
	}
	return t, nil
}

// List возвращает страницу задач пользователя и число всех подходящих под фильтр.
//
// Count и выборка идут в одной read-only транзакции repeatable read.
// Порядок: created_at DESC, id.
func (r *TasksRepository) List(ctx context.Context, f models.TaskFilter) ([]models.Task, int, error) {
	where := []string{"user_id = $1"}
	args := []any{f.UserID}

	if f.Search != "" {
		args = append(args, containsPattern(f.Search))
		where = append(where, fmt.Sprintf(`title ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var (
		tasks []models.Task
		total int
	)

	err := withTx(ctx, r.db, readSnapshot, func(ctx context.Context, tx dbtx) error {
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM tasks WHERE `+cond, args...).Scan(&total); err != nil {
			return err
		}
		// страница за концом списка: второй запрос не нужен
		if f.Offset() >= total {
			return nil
		}

		pageArgs := append(append([]any{}, args...), f.PageSize, f.Offset())
		rows, err := tx.QueryContext(ctx,
			fmt.Sprintf(`SELECT %s FROM tasks WHERE %s
			 ORDER BY created_at DESC, id
			 LIMIT $%d OFFSET $%d`, taskColumns, cond, len(args)+1, len(args)+2),
			pageArgs...,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return err
			}
			tasks = append(tasks, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, mapError(err)
	}
	return tasks, total, nil
}

// Update меняет переданные поля задачи владельца и обновляет updated_at.
//
// Проверка владельца и запись — один оператор, поэтому между ними нет окна.
// Задачи нет или она чужая: ErrNotFound.
func (r *TasksRepository) Update(ctx context.Context, id, userID uuid.UUID, patch models.TaskPatch) (models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx,
		`UPDATE tasks
		 SET title = COALESCE($3, title),
		     description = COALESCE($4, description),
		     status = COALESCE($5, status),
		     updated_at = now()
		 WHERE id=$1 AND user_id=$2
		 RETURNING `+taskColumns,
		id, userID, patch.Title, patch.Description, patch.Status,
	))
	if err != nil {
		return models.Task{}, mapError(err)
	}
	return t, nil
}

// Delete удаляет задачу владельца. Задачи нет или она чужая: ErrNotFound.
func (r *TasksRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return mapError(sql.ErrNoRows)
	}
	return nil
}
