// Package http реализует маршрутизацию HTTP-слоя сервера taskboard.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - порядок middleware: request id, real ip, recover, логирование, rate limit;
//   - закрытие группы /task проверкой JWT access-токена.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/api"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/config"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/middleware"
)

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// limiter == nil или security.rate_limit.enabled = false — без ограничения частоты.
func NewRouter(h *api.Handler, cfg *config.Config, limiter middleware.Limiter) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	// X-Forwarded-For / X-Real-IP доверяем только за своим прокси
	if cfg.Server.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Recoverer(h.Log))
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))

	if rl := cfg.Security.RateLimit; rl.Enabled && limiter != nil {
		keyFn := middleware.KeyByIP
		if rl.Key == "user" {
			keyFn = middleware.KeyByUser(h.Verifier)
		}
		r.Use(middleware.RateLimit(limiter, keyFn, h.Log))
	}

	r.Get("/healthz", h.Health)
	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	if p := cfg.Observability.Pprof; p.Enabled {
		r.Mount(p.PathPrefix, chimw.Profiler())
	}

	// Публичные пути
	r.Route("/user", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	// CRUD пользователей без авторизации
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})

	// защищены пути
	r.Group(func(r chi.Router) {
		// проверка access токена
		r.Use(h.Verifier.AuthMiddleware())

		r.Post("/task", h.CreateTask)
		r.Post("/task/", h.CreateTask)
		r.Get("/task", h.ListTasks)
		r.Get("/task/", h.ListTasks)
		r.Put("/task/{id}", h.UpdateTask)
		r.Delete("/task/{id}", h.DeleteTask)
	})

	return r
}
