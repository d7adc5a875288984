package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/syncup/syncup/utils"
)

const limiterIdleTTL = 5 * time.Minute

type clientLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// RateLimiter applies a per-IP token bucket.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter allows perMinute requests per client IP, bursting to half of that.
// It returns nil when perMinute is not positive, which disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &RateLimiter{
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     max(perMinute/2, 1),
		limiters:  map[string]*clientLimiter{},
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Middleware returns the gin handler. A nil RateLimiter lets everything through.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if l == nil {
			ctx.Next()
			return
		}
		if !l.allow(ctx.ClientIP()) {
			utils.Error(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	// idle entries are dropped at most once per TTL
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		for k, c := range l.limiters {
			if now.After(c.expires) {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.limiters[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = c
	}
	c.expires = now.Add(limiterIdleTTL)
	return c.limiter.AllowN(now, 1)
}
