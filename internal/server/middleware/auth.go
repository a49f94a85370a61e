// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/crypto"
	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
	sm "github.com/IvanChernomyrdin/go-taskboard/internal/shared/models"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

const (
	// userIDKey — ID аутентифицированного пользователя (uuid.UUID).
	userIDKey ctxKey = "user_id"
	// claimsKey — разобранные claims токена (*crypto.Claims).
	claimsKey ctxKey = "claims"
)

// JWTVerifier проверяет access-токены в заголовке Authorization.
type JWTVerifier struct {
	cfg crypto.JWTConfig
}

// NewJWTVerifier создаёт JWTVerifier. Issuer/Audience в cfg проверяются, только если заданы.
func NewJWTVerifier(cfg crypto.JWTConfig) *JWTVerifier {
	return &JWTVerifier{cfg: cfg}
}

// Verify разбирает заголовок Authorization и возвращает claims и id пользователя.
func (v *JWTVerifier) Verify(header string) (*crypto.Claims, uuid.UUID, error) {
	tokenStr := ExtractBearer(header)
	if tokenStr == "" {
		return nil, uuid.Nil, serr.ErrUnauthorized
	}

	claims, err := crypto.ParseAccessToken(tokenStr, v.cfg)
	if err != nil {
		return nil, uuid.Nil, serr.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, uuid.Nil, serr.ErrUnauthorized
	}
	return claims, userID, nil
}

// AuthMiddleware возвращает HTTP middleware для проверки JWT access-токенов.
//
// Middleware:
//   - ожидает заголовок Authorization: Bearer <token>
//   - проверяет подпись (HS256), срок действия, iss/aud если настроены
//   - кладёт claims и userID (subject) в context.Context
//
// На любой ошибке отвечает 401 с одним и тем же сообщением, следующий handler не вызывается.
func (v *JWTVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, userID, err := v.Verify(r.Header.Get("Authorization"))
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer`)
				writeError(w, http.StatusUnauthorized, serr.ErrUnauthorized.Error())
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = ContextWithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContextWithUserID кладёт id пользователя в контекст.
func ContextWithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext извлекает userID аутентифицированного пользователя из контекста.
//
// Возвращает:
//   - userID
//   - false, если пользователь не аутентифицирован
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// ClaimsFromContext возвращает claims токена, положенные AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*crypto.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*crypto.Claims)
	return c, ok
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(sm.ErrorResponse{Message: msg})
}
