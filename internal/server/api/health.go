package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthResponse — ответ /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health проверяет доступность БД.
//
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Svc.Health.Ping(ctx); err != nil {
		h.Log.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
