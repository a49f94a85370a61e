package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-taskboard/internal/shared/logger"
)

// Recoverer перехватывает панику в handler, пишет её в лог со стеком
// и отвечает 500 {"message":"internal error"}.
func Recoverer(log *logger.HTTPLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				// net/http сам обрабатывает обрыв соединения
				if p == http.ErrAbortHandler {
					panic(p)
				}

				log.Error("panic recovered",
					zap.Any("panic", p),
					zap.String("method", r.Method),
					zap.String("uri", r.RequestURI),
					zap.String("request_id", chimw.GetReqID(r.Context())),
					zap.Stack("stack"),
				)
				writeError(w, http.StatusInternalServerError, serr.ErrInternal.Error())
			}()

			next.ServeHTTP(w, r)
		})
	}
}
