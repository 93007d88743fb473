package middleware

import (
	"DuoPlay/utils"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Each client IP gets its own limiter. lastSeen is used to forget idle IPs.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter allows `requests` per `window` to every IP, with the whole
// window available as burst.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	requests int
	window   time.Duration
	ttl      time.Duration
	now      func() time.Time
}

func NewIPRateLimiter(requests int, window time.Duration) *IPRateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		requests: requests,
		window:   window,
		ttl:      2 * window,
		now:      time.Now,
	}
}

func (rl *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.visitors[ip]; ok {
		v.lastSeen = rl.now()
		return v.limiter
	}

	every := rl.window / time.Duration(rl.requests)
	limiter := rate.NewLimiter(rate.Every(every), rl.requests)
	rl.visitors[ip] = &visitor{limiter: limiter, lastSeen: rl.now()}
	return limiter
}

// Cleanup drops the limiters of IPs idle for longer than twice the window
func (rl *IPRateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, v := range rl.visitors {
		if rl.now().Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, ip)
			removed++
		}
	}
	return removed
}

// RunCleanup calls Cleanup every window until stop is closed
func (rl *IPRateLimiter) RunCleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.Cleanup()
		case <-stop:
			return
		}
	}
}

// RateLimitByIP rejects with RATE_LIMITED once the client IP runs out of tokens
func RateLimitByIP(rl *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getLimiter(c.ClientIP())
		if !limiter.Allow() {
			retryAfter := rl.window / time.Duration(rl.requests)
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			c.Error(utils.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
