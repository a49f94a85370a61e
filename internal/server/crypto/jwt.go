// Package crypto содержит криптографические примитивы сервера:
//   - выпуск и проверку JWT access-токенов (HS256);
//   - хэширование паролей (bcrypt или argon2id).
package crypto

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/config"
)

// ErrInvalidToken возвращается ParseAccessToken на любой проблеме с токеном.
var ErrInvalidToken = errors.New("invalid token")

// JWTConfig описывает параметры генерации и проверки JWT access-токена.
type JWTConfig struct {
	// Issuer — значение поля iss. Пусто — iss не ставится и не проверяется.
	Issuer string
	// Audience — значение поля aud. Пусто — aud не ставится и не проверяется.
	Audience string
	// SigningKey — секретный ключ для подписи токена (HS256).
	SigningKey string
	// AccessTTL — срок жизни access-токена.
	AccessTTL time.Duration
}

// JWTConfigFrom собирает JWTConfig из секции auth конфига сервера.
func JWTConfigFrom(cfg config.AuthConfig) JWTConfig {
	return JWTConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		SigningKey: cfg.JWT.SigningKey,
		AccessTTL:  cfg.AccessTTL,
	}
}

// Claims — содержимое access-токена: sub (id пользователя), name, iat, exp.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// NewAccessToken создаёт и подписывает JWT access-токен для пользователя.
//
// subject — id пользователя, name — его имя. exp = iat + cfg.AccessTTL.
func NewAccessToken(subject, name string, cfg JWTConfig) (string, error) {
	now := time.Now()

	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTTL)),
		},
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(cfg.SigningKey))
}

// ParseAccessToken проверяет подпись (только HS256), срок действия и,
// если заданы, iss/aud. Возвращает claims либо ErrInvalidToken.
func ParseAccessToken(token string, cfg JWTConfig) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claims := &Claims{}
	parsed, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.SigningKey), nil
	})
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(ErrInvalidToken, jwt.ErrTokenExpired)
		}
		return nil, ErrInvalidToken
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
