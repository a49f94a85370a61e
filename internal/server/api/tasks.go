package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/models"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/validation"
	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
	sm "github.com/IvanChernomyrdin/go-taskboard/internal/shared/models"
)

// currentUser — id пользователя из токена (кладёт AuthMiddleware).
func currentUser(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, serr.ErrUnauthorized
	}
	return id, nil
}

// CreateTask создаёт задачу текущего пользователя.
//
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body sm.CreateTaskRequest true "Create task request"
// @Success      201 {object} sm.Task
// @Failure      400 {object} sm.ErrorResponse
// @Failure      401 {object} sm.ErrorResponse "Unauthorized"
// @Router       /task [post]
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req sm.CreateTaskRequest
	if err := validation.DecodeJSON(w, r, &req, h.MaxBodyBytes, false); err != nil {
		h.fail(w, r, err)
		return
	}

	t, err := h.Svc.Tasks.Create(r.Context(), userID, req.Title, *req.Description)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// ListTasks возвращает страницу задач текущего пользователя.
//
// search — подстрока заголовка без учёта регистра, status — точное совпадение.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        page     query int    false "Page, from 1"     default(1)
// @Param        pageSize query int    false "Page size, 1..50" default(10)
// @Param        search   query string false "Title substring, case-insensitive"
// @Param        status   query string false "pending | in_progress | done"
// @Success      200 {object} sm.TaskList
// @Failure      400 {object} sm.ErrorResponse
// @Failure      401 {object} sm.ErrorResponse "Unauthorized"
// @Router       /task [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var q sm.ListTasksQuery
	if err := validation.Query(r, &q); err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.Svc.Tasks.List(r.Context(), models.TaskFilter{
		UserID:      userID,
		Search:      q.Search,
		Status:      q.Status,
		PageRequest: models.PageRequest{Page: q.Page, PageSize: q.PageSize},
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// UpdateTask меняет переданные поля задачи. Чужая задача неотличима от несуществующей.
//
// @Summary      Update task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string               true "Task ID (uuid)"
// @Param        request body sm.UpdateTaskRequest true "Fields to change"
// @Success      200 {object} sm.Task
// @Failure      400 {object} sm.ErrorResponse
// @Failure      401 {object} sm.ErrorResponse "Unauthorized"
// @Failure      404 {object} sm.ErrorResponse "Task not found or not yours"
// @Router       /task/{id} [put]
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := validation.UUID("id", chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req sm.UpdateTaskRequest
	if err := validation.DecodeJSON(w, r, &req, h.MaxBodyBytes, false); err != nil {
		h.fail(w, r, err)
		return
	}

	t, err := h.Svc.Tasks.Update(r.Context(), id, userID, models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTask удаляет задачу текущего пользователя.
//
// @Summary      Delete task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id path string true "Task ID (uuid)"
// @Success      204
// @Failure      400 {object} sm.ErrorResponse
// @Failure      401 {object} sm.ErrorResponse "Unauthorized"
// @Failure      404 {object} sm.ErrorResponse "Task not found or not yours"
// @Router       /task/{id} [delete]
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := validation.UUID("id", chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.Svc.Tasks.Delete(r.Context(), id, userID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
