package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
)

const (
	msgRateLimited        = "слишком много запросов, попробуйте позже"
	msgLimiterUnavailable = "сервис временно недоступен"

	defaultLimit     = 60
	defaultWindow    = time.Minute
	defaultKeyPrefix = "rl"
)

// Limiter решает, можно ли пропустить очередной запрос клиента
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit ограничивает частоту запросов по клиенту
// При ошибке лимитера failOpen пропускает запрос, иначе отвечает 503
func RateLimit(limiter Limiter, keys *ClientKeys, failOpen bool, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keys.Key(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("RateLimit: limiter error for client=%s: %v", key, err)
				if failOpen {
					next.ServeHTTP(w, r)
					return
				}
				handlers.RespondError(w, http.StatusServiceUnavailable, msgLimiterUnavailable)
				return
			}

			if !allowed {
				w.Header().Set("Retry-After", "1")
				handlers.RespondTooManyRequests(w, msgRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientKeys вычисляет ключ клиента для лимитера
// X-Forwarded-For учитывается только для запросов от доверенных прокси
type ClientKeys struct {
	trusted []netip.Prefix
}

// NewClientKeys принимает адреса и подсети доверенных прокси ("10.0.0.1", "10.0.0.0/8")
func NewClientKeys(trustedProxies []string) (*ClientKeys, error) {
	keys := &ClientKeys{trusted: make([]netip.Prefix, 0, len(trustedProxies))}
	for _, raw := range trustedProxies {
		raw = strings.TrimSpace(raw)
		if strings.Contains(raw, "/") {
			prefix, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
			}
			keys.trusted = append(keys.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		keys.trusted = append(keys.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return keys, nil
}

// Key аутентифицированный пользователь считается по ID, аноним по IP
// Цепочка X-Forwarded-For разбирается справа налево, пока адреса принадлежат доверенным прокси
func (k *ClientKeys) Key(r *http.Request) string {
	if userID := r.Header.Get(UserIDHeader); userID != "" {
		return "user:" + userID
	}

	remote := remoteHost(r.RemoteAddr)
	addr, err := netip.ParseAddr(remote)
	if err != nil || !k.isTrusted(addr) {
		return "ip:" + remote
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		if !k.isTrusted(hop) {
			return "ip:" + hop.Unmap().String()
		}
	}

	return "ip:" + remote
}

func (k *ClientKeys) isTrusted(addr netip.Addr) bool {
	if k == nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range k.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// RedisLimiter фиксированное окно в Redis, общее для всех инстансов сервиса
type RedisLimiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix string
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// NewRedisLimiter создает лимитер поверх Redis
func NewRedisLimiter(rdb redis.Scripter, limit int, window time.Duration, prefix string) *RedisLimiter {
	if limit <= 0 {
		limit = defaultLimit
	}
	if window <= 0 {
		window = defaultWindow
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &RedisLimiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// Allow увеличивает счётчик окна и сравнивает его с лимитом
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return false, fmt.Errorf("redis limiter: %w", err)
	}

	count, err := toInt64(res)
	if err != nil {
		return false, err
	}

	return count <= int64(l.limit), nil
}

func toInt64(res interface{}) (int64, error) {
	switch v := res.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("redis limiter: parse counter: %w", err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("redis limiter: unexpected script result type %T", res)
	}
}

// LocalLimiter token bucket на клиента в памяти процесса
// Используется, когда Redis выключен
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter limit запросов за window, с burst равным limit
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	if limit <= 0 {
		limit = defaultLimit
	}
	if window <= 0 {
		window = defaultWindow
	}

	return &LocalLimiter{
		limiters: make(map[string]*visitor),
		limit:    rate.Limit(float64(limit) / window.Seconds()),
		burst:    limit,
		ttl:      window * 3,
		now:      time.Now,
	}
}

// Allow никогда не возвращает ошибку
func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	v, ok := l.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1), nil
}

// evict удаляет клиентов, которые давно не приходили
func (l *LocalLimiter) evict(now time.Time) {
	for key, v := range l.limiters {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.limiters, key)
		}
	}
}
