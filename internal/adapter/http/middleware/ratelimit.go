package middleware

import (
	"net"
	"net/http"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/time/rate"
)

// RateLimiter implements per-IP rate limiting
type RateLimiter struct {
	limiters *xsync.Map[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
	onLimit  func(route string)
}

// NewRateLimiter creates a new rate limiter
// rate: requests per second
// burst: max burst size
func NewRateLimiter(r float64, b int) *RateLimiter {
	return &RateLimiter{
		limiters: xsync.NewMap[string, *rate.Limiter](),
		rate:     rate.Limit(r),
		burst:    b,
		onLimit:  func(string) {},
	}
}

// OnLimit registers a hook called with the path of every rejected request.
func (rl *RateLimiter) OnLimit(fn func(route string)) *RateLimiter {
	if fn != nil {
		rl.onLimit = fn
	}
	return rl
}

// getLimiter returns a rate limiter for the given IP
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(ip); ok {
		return limiter
	}
	limiter, _ := rl.limiters.LoadOrStore(ip, rate.NewLimiter(rl.rate, rl.burst))
	return limiter
}

// Limit is a middleware that enforces rate limiting per IP
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.getLimiter(clientIP(r)).Allow() {
			rl.onLimit(routePattern(r))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr. chi's RealIP middleware has
// already applied X-Forwarded-For / X-Real-IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CleanupLimiters drops all limiters. Called periodically to bound memory.
func (rl *RateLimiter) CleanupLimiters() {
	rl.limiters.Clear()
}
