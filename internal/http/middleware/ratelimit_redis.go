package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window limiter. With a Redis client the counters are
// shared across instances (INCR/EXPIRE); without one they live in process.
// Redis errors fail open.
type RateLimiter struct {
	client *redis.Client

	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

type window struct {
	start time.Time
	count int64
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client, windows: make(map[string]*window), now: time.Now}
}

// Limit allows max requests per window for each caller. Authenticated
// callers are keyed by user id, everyone else by client IP. A non-positive
// max disables the limit.
// key format: rl:<scope>:<window_seconds>:<identifier>
func (l *RateLimiter) Limit(scope string, max int, win time.Duration) gin.HandlerFunc {
	if max <= 0 || win <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	secs := strconv.FormatInt(int64(win.Seconds()), 10)
	return func(c *gin.Context) {
		ident := "ip:" + c.ClientIP()
		if u, ok := CurrentUser(c); ok {
			ident = "user:" + strconv.FormatInt(u.ID, 10)
		}
		key := "rl:" + scope + ":" + secs + ":" + ident

		n, err := l.incr(c.Request.Context(), key, win)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("rate limiter unavailable", "scope", scope, "error", err)
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining(int64(max), n), 10))

		if n > int64(max) {
			RLBlocked.WithLabelValues(scope).Inc()
			c.Header("Retry-After", secs)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Demasiadas solicitudes, intente más tarde"})
			return
		}

		RLRequests.WithLabelValues(scope).Inc()
		c.Next()
	}
}

func (l *RateLimiter) incr(ctx context.Context, key string, win time.Duration) (int64, error) {
	if l.client == nil {
		return l.incrLocal(key, win), nil
	}

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	val, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		// first increment, set expiry
		l.client.Expire(ctx, key, win)
	}
	return val, nil
}

func (l *RateLimiter) incrLocal(key string, win time.Duration) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= win {
		if len(l.windows) > 10000 {
			l.sweep(now, win)
		}
		w = &window{start: now}
		l.windows[key] = w
	}
	w.count++
	return w.count
}

// sweep drops expired windows. Caller holds l.mu.
func (l *RateLimiter) sweep(now time.Time, win time.Duration) {
	for k, w := range l.windows {
		if now.Sub(w.start) >= win {
			delete(l.windows, k)
		}
	}
}

func remaining(max, used int64) int64 {
	if used >= max {
		return 0
	}
	return max - used
}
