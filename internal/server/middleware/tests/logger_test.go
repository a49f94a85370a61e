package tests

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-taskboard/internal/shared/logger"
)

// Статус по умолчанию и размер
func TestResponseWriter_Write_DefaultStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &middleware.ResponseWriter{ResponseWriter: rr}

	body := []byte("hello")
	n, err := w.Write(body)

	require.NoError(t, err)
	require.Equal(t, len(body), n)
	require.Equal(t, http.StatusOK, w.Status)
	require.Equal(t, len(body), w.Size)
}

// вспомогательная функция
func testHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

// статус и тело проходят через мидлу, в лог попадает request id
func TestLoggerMiddleware(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "http.log")
	log, err := logger.New(logger.Options{Format: "json", File: logPath})
	require.NoError(t, err)

	handler := chimw.RequestID(middleware.LoggerMiddleware(log)(testHandler(http.StatusTeapot, "tea")))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-42")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	_ = log.Sync()

	require.Equal(t, http.StatusTeapot, rr.Code)
	require.Equal(t, "tea", rr.Body.String())

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(b), `"status":418`)
	require.Contains(t, string(b), `"request_id":"req-42"`)
	require.Contains(t, string(b), `"uri":"/test"`)
}
