package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/api"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/service"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/service/mocks"
	"github.com/IvanChernomyrdin/go-taskboard/internal/shared/logger"
	sm "github.com/IvanChernomyrdin/go-taskboard/internal/shared/models"
)

var testJWT = crypto.JWTConfig{
	Issuer:     "taskboard",
	SigningKey: "supersecretkeysupersecretkey123456",
	AccessTTL:  time.Hour,
}

var testHasher = crypto.BcryptHasher{Cost: bcrypt.MinCost}

type repoMocks struct {
	users  *mocks.MockUsersRepo
	tasks  *mocks.MockTasksRepo
	health *mocks.MockHealthRepo
}

// newTestHandler собирает Handler на настоящих сервисах поверх моков репозиториев.
func newTestHandler(t *testing.T) (*api.Handler, repoMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := repoMocks{
		users:  mocks.NewMockUsersRepo(ctrl),
		tasks:  mocks.NewMockTasksRepo(ctrl),
		health: mocks.NewMockHealthRepo(ctrl),
	}

	svc := &service.Services{
		Auth:   service.NewAuthService(m.users, testHasher, testJWT),
		Users:  service.NewUsersService(m.users),
		Tasks:  service.NewTasksService(m.tasks),
		Health: m.health,
	}

	h := api.NewHandler(svc, logger.Nop(), middleware.NewJWTVerifier(testJWT), 1<<20)
	return h, m
}

// routes — минимальный chi-роутер, чтобы работали URL-параметры.
func routes(h *api.Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/user/register", h.Register)
	r.Post("/user/login", h.Login)
	r.Get("/healthz", h.Health)

	r.Post("/users", h.CreateUser)
	r.Get("/users", h.ListUsers)
	r.Get("/users/{id}", h.GetUser)
	r.Put("/users/{id}", h.UpdateUser)
	r.Delete("/users/{id}", h.DeleteUser)

	r.Group(func(r chi.Router) {
		r.Use(h.Verifier.AuthMiddleware())
		r.Post("/task", h.CreateTask)
		r.Get("/task", h.ListTasks)
		r.Put("/task/{id}", h.UpdateTask)
		r.Delete("/task/{id}", h.DeleteTask)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(api.ContentType, api.JsonContentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := crypto.NewAccessToken(userID.String(), "Alice", testJWT)
	require.NoError(t, err)
	return tok
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) sm.ErrorResponse {
	t.Helper()
	var body sm.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func requireIssue(t *testing.T, body sm.ErrorResponse, field, rule string) {
	t.Helper()
	require.Equal(t, "validation error", body.Message)
	for _, is := range body.Issues {
		if is.Field == field && is.Rule == rule {
			return
		}
	}
	t.Fatalf("issue %s/%s not found in %+v", field, rule, body.Issues)
}
