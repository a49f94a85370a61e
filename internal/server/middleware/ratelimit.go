// Ограничение частоты запросов
package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-taskboard/internal/shared/logger"
)

// Limiter решает, пропустить ли очередной запрос с ключом key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// KeyFunc вычисляет ключ лимита для запроса. Пустой ключ — запрос не лимитируется.
type KeyFunc func(r *http.Request) string

// visitor — token bucket одного ключа
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter — token bucket на ключ в памяти процесса.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// NewMemoryLimiter создаёт лимитер: rps запросов в секунду, всплеск до burst.
func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

// Cleanup раз в every удаляет ключи, не виденные дольше idle. Работает до отмены ctx.
func (l *MemoryLimiter) Cleanup(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evict(idle)
		}
	}
}

func (l *MemoryLimiter) evict(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > idle {
			delete(l.visitors, key)
		}
	}
}

// Len — число отслеживаемых ключей.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RedisLimiter — фиксированное окно в одну секунду в Redis, общий лимит для всех реплик.
//
// В окне пропускается не больше limit запросов на ключ.
type RedisLimiter struct {
	client redis.Cmdable
	limit  int64
	prefix string
	now    func() time.Time
}

// NewRedisLimiter создаёт лимитер с лимитом max(ceil(rps), burst) запросов в секунду.
func NewRedisLimiter(client redis.Cmdable, rps float64, burst int) *RedisLimiter {
	limit := int64(rps)
	if float64(limit) < rps {
		limit++
	}
	if int64(burst) > limit {
		limit = int64(burst)
	}
	return &RedisLimiter{client: client, limit: limit, prefix: "taskboard:ratelimit:", now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := l.prefix + key + ":" + strconv.FormatInt(l.now().Unix(), 10)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, 2*time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	return incr.Val() <= l.limit, nil
}

// RateLimit — middleware: на превышение отвечает 429 {"message":"too many requests"}.
//
// Если хранилище лимитов недоступно, запрос пропускается, а ошибка пишется в лог.
func RateLimit(l Limiter, keyFn KeyFunc, log *logger.HTTPLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ok, err := l.Allow(r.Context(), key)
			if err != nil {
				log.Warn("rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, serr.ErrTooManyRequests.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// KeyByIP — ключ по адресу клиента. За доверенным прокси адрес уже подменён chi RealIP.
func KeyByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// KeyByUser — ключ по пользователю из валидного токена, иначе по IP.
func KeyByUser(v *JWTVerifier) KeyFunc {
	return func(r *http.Request) string {
		if _, userID, err := v.Verify(r.Header.Get("Authorization")); err == nil {
			return "user:" + userID.String()
		}
		return KeyByIP(r)
	}
}
