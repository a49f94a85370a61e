// HTTP-хендлеры регистрации и логина
package api

import (
	"net/http"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/validation"
	sm "github.com/IvanChernomyrdin/go-taskboard/internal/shared/models"
)

// Register обрабатывает регистрацию пользователя.
//
// Ответы:
//   - 201 Created: регистрация успешна, в теле пользователь без пароля;
//   - 400 Bad Request: неверный JSON или невалидные входные данные;
//   - 409 Conflict: email уже зарегистрирован;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Register
// @Description  Creates a user with a password. Email is stored lowercased.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body sm.RegisterRequest true "Register request"
// @Success      201 {object} sm.User
// @Failure      400 {object} sm.ErrorResponse "Invalid input or bad JSON"
// @Failure      409 {object} sm.ErrorResponse "Email already exists"
// @Failure      500 {object} sm.ErrorResponse "Internal server error"
// @Router       /user/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req sm.RegisterRequest
	if err := validation.DecodeJSON(w, r, &req, h.MaxBodyBytes, false); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.Svc.Auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// Login обрабатывает вход пользователя и выдачу access-токена.
//
// Ответы:
//   - 200 OK: {"token": "..."} со сроком жизни auth.access_ttl;
//   - 400 Bad Request: неверный JSON или невалидные входные данные;
//   - 401 Unauthorized: неверные учётные данные (одинаково для неизвестного email и неверного пароля);
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body sm.LoginRequest true "Login request"
// @Success      200 {object} sm.LoginResponse
// @Failure      400 {object} sm.ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} sm.ErrorResponse "Invalid credentials"
// @Failure      500 {object} sm.ErrorResponse "Internal server error"
// @Router       /user/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req sm.LoginRequest
	if err := validation.DecodeJSON(w, r, &req, h.MaxBodyBytes, false); err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.Svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sm.LoginResponse{Token: token})
}
