package middleware

import (
	"strconv"
	"sync"
	"time"

	reqctx "attendance-lms/internal/global/context"
	"attendance-lms/internal/global/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter keeps one token bucket per caller. Callers idle for longer
// than idleTTL are dropped on the next sweep.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
	idleTTL time.Duration
	swept   time.Time
	now     func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		idleTTL: 3 * time.Minute,
		now:     time.Now,
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.swept) > time.Minute {
		for k, c := range rl.clients {
			if now.Sub(c.seen) > rl.idleTTL {
				delete(rl.clients, k)
			}
		}
		rl.swept = now
	}

	if c, ok := rl.clients[key]; ok {
		c.seen = now
		return c.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[key] = &client{lim: l, seen: now}
	return l
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.get(key).AllowN(rl.now(), 1)
}

// RateLimit keys on the logged-in user, falling back to the client IP.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if user, ok := reqctx.GetLoginUser(c); ok {
			key = "user:" + strconv.FormatUint(uint64(user.LmsUserID), 10)
		}
		if !rl.Allow(key) {
			response.Fail(c, response.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
