// Логирование HTTP-запросов
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/IvanChernomyrdin/go-taskboard/internal/shared/logger"
)

// ResponseWriter запоминает статус и размер ответа для access-лога.
type ResponseWriter struct {
	http.ResponseWriter
	Status int
	Size   int
}

func (w *ResponseWriter) WriteHeader(status int) {
	if w.Status == 0 {
		w.Status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if w.Status == 0 {
		w.Status = http.StatusOK
	}
	size, err := w.ResponseWriter.Write(b)
	w.Size += size
	return size, err
}

// Unwrap нужен http.ResponseController (Flush, SetDeadline и т.п.).
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// LoggerMiddleware пишет access-лог: метод, uri, request id, статус, размер и длительность в мс.
func LoggerMiddleware(log *logger.HTTPLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wr := &ResponseWriter{ResponseWriter: w}
			next.ServeHTTP(wr, r)

			if wr.Status == 0 {
				wr.Status = http.StatusOK
			}
			duration := time.Since(start).Seconds() * 1000
			log.LogRequest(r.Method, r.RequestURI, chimw.GetReqID(r.Context()), wr.Status, wr.Size, duration)
		})
	}
}
