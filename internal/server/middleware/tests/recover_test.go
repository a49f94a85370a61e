package tests

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-taskboard/internal/shared/logger"
)

func TestRecoverer_PanicBecomes500(t *testing.T) {
	handler := middleware.Recoverer(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.JSONEq(t, `{"message":"internal error"}`, rr.Body.String())
}

func TestRecoverer_PassThrough(t *testing.T) {
	handler := middleware.Recoverer(logger.Nop())(testHandler(http.StatusCreated, "ok"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}

func TestRecoverer_AbortHandlerRepanics(t *testing.T) {
	handler := middleware.Recoverer(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
