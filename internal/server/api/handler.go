// Package api реализует HTTP-слой сервера taskboard.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - проверку входа через слой validation;
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-taskboard/internal/shared/logger"
	sm "github.com/IvanChernomyrdin/go-taskboard/internal/shared/models"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json; charset=utf-8"
	ContentType     string = "Content-Type"
)

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: компонент проверки JWT и middleware авторизации;
//   - MaxBodyBytes: лимит размера тела запроса (0 — без лимита).
type Handler struct {
	Svc          *service.Services
	Log          *logger.HTTPLogger
	Verifier     *middleware.JWTVerifier
	MaxBodyBytes int64
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, verifier *middleware.JWTVerifier, maxBodyBytes int64) *Handler {
	return &Handler{
		Svc:          svc,
		Log:          log,
		Verifier:     verifier,
		MaxBodyBytes: maxBodyBytes,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail — единственное место, где ошибка превращается в HTTP-ответ.
//
// Всё, что не распознано, считается внутренней ошибкой: пишется в лог,
// клиенту уходит 500 {"message":"internal error"} без подробностей.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *serr.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, sm.ErrorResponse{Message: "validation error", Issues: verr.Issues})
	case errors.Is(err, serr.ErrBadJSON):
		writeJSON(w, http.StatusBadRequest, sm.ErrorResponse{Message: serr.ErrBadJSON.Error()})
	case errors.Is(err, serr.ErrNothingToUpdate):
		writeJSON(w, http.StatusBadRequest, sm.ErrorResponse{Message: "nothing to update"})
	case errors.Is(err, serr.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, sm.ErrorResponse{Message: serr.ErrInvalidInput.Error()})

	case errors.Is(err, serr.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, sm.ErrorResponse{Message: serr.ErrInvalidCredentials.Error()})
	case errors.Is(err, serr.ErrUnauthorized), errors.Is(err, serr.ErrUserIDEmpty):
		writeJSON(w, http.StatusUnauthorized, sm.ErrorResponse{Message: serr.ErrUnauthorized.Error()})

	case errors.Is(err, serr.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, sm.ErrorResponse{Message: serr.ErrUserNotFound.Error()})
	case errors.Is(err, serr.ErrTaskNotFound):
		writeJSON(w, http.StatusNotFound, sm.ErrorResponse{Message: serr.ErrTaskNotFound.Error()})
	case errors.Is(err, serr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, sm.ErrorResponse{Message: serr.ErrNotFound.Error()})

	case errors.Is(err, serr.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, sm.ErrorResponse{Message: serr.ErrEmailTaken.Error()})
	case errors.Is(err, serr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, sm.ErrorResponse{Message: serr.ErrAlreadyExists.Error()})

	case errors.Is(err, serr.ErrTooManyRequests):
		writeJSON(w, http.StatusTooManyRequests, sm.ErrorResponse{Message: serr.ErrTooManyRequests.Error()})

	default:
		h.Log.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
		writeJSON(w, http.StatusInternalServerError, sm.ErrorResponse{Message: serr.ErrInternal.Error()})
	}
}
