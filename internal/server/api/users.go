package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/models"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/validation"
	sm "github.com/IvanChernomyrdin/go-taskboard/internal/shared/models"
)

// CreateUser — POST /users, пользователь без пароля.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body sm.CreateUserRequest true "Create user request"
// @Success      201 {object} sm.User
// @Failure      400 {object} sm.ErrorResponse
// @Failure      409 {object} sm.ErrorResponse "Email already exists"
// @Router       /users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req sm.CreateUserRequest
	if err := validation.DecodeJSON(w, r, &req, h.MaxBodyBytes, false); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.Svc.Users.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// ListUsers — GET /users?page&pageSize, новые первыми.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page     query int false "Page, from 1"      default(1)
// @Param        pageSize query int false "Page size, 1..100" default(10)
// @Success      200 {object} sm.UserList
// @Failure      400 {object} sm.ErrorResponse
// @Router       /users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var q sm.ListUsersQuery
	if err := validation.Query(r, &q); err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.Svc.Users.List(r.Context(), models.PageRequest{Page: q.Page, PageSize: q.PageSize})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetUser — GET /users/{id}.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID (uuid)"
// @Success      200 {object} sm.User
// @Failure      400 {object} sm.ErrorResponse
// @Failure      404 {object} sm.ErrorResponse "User not found"
// @Router       /users/{id} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := validation.UUID("id", chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.Svc.Users.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateUser — PUT /users/{id}. Лишние поля в теле запрещены, пустое тело — 400.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path string               true "User ID (uuid)"
// @Param        request body sm.UpdateUserRequest true "Fields to change"
// @Success      200 {object} sm.User
// @Failure      400 {object} sm.ErrorResponse
// @Failure      404 {object} sm.ErrorResponse "User not found"
// @Failure      409 {object} sm.ErrorResponse "Email already exists"
// @Router       /users/{id} [put]
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := validation.UUID("id", chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req sm.UpdateUserRequest
	if err := validation.DecodeJSON(w, r, &req, h.MaxBodyBytes, true); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.Svc.Users.Update(r.Context(), id, models.UserPatch{Name: req.Name, Email: req.Email})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeleteUser — DELETE /users/{id}, задачи пользователя удаляются вместе с ним.
//
// @Summary      Delete user
// @Tags         users
// @Param        id path string true "User ID (uuid)"
// @Success      204
// @Failure      400 {object} sm.ErrorResponse
// @Failure      404 {object} sm.ErrorResponse "User not found"
// @Router       /users/{id} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := validation.UUID("id", chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.Svc.Users.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
