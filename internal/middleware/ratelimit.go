package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type windowCount struct {
	start time.Time
	n     int
}

// RateLimiter caps requests per key over a fixed window. Counters reset when
// the window rolls over, so a burst can span at most two windows.
type RateLimiter struct {
	mu     sync.Mutex
	counts map[string]*windowCount
	limit  int
	window time.Duration
	lastGC time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counts: make(map[string]*windowCount),
		limit:  limit,
		window: window,
		lastGC: time.Now(),
	}
}

func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if now.Sub(r.lastGC) > r.window {
		for k, w := range r.counts {
			if now.Sub(w.start) > r.window {
				delete(r.counts, k)
			}
		}
		r.lastGC = now
	}
	w := r.counts[key]
	if w == nil || now.Sub(w.start) > r.window {
		r.counts[key] = &windowCount{start: now, n: 1}
		return true
	}
	if w.n >= r.limit {
		return false
	}
	w.n++
	return true
}

// RateLimit returns a middleware that limits by client IP.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
