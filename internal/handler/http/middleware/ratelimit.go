package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/gifting-backend-go/internal/handler/http/response"
)

// Counter increments a counter that expires window after its first increment;
// *cache.Redis satisfies it
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimiter is a fixed-window limiter keyed by client IP
type RateLimiter struct {
	counter Counter
	prefix  string
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewLoginRateLimiter allows limit login attempts per IP per minute. A zero
// limit or nil counter disables limiting.
func NewLoginRateLimiter(counter Counter, limit int) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		prefix:  "ratelimit:login:",
		limit:   limit,
		window:  time.Minute,
		now:     time.Now,
	}
}

func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.counter == nil || l.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		windowStart := l.now().Truncate(l.window).Unix()
		key := l.prefix + clientIP(r) + ":" + strconv.FormatInt(windowStart, 10)

		count, err := l.counter.Incr(r.Context(), key, l.window)
		if err != nil {
			// fail open
			slog.Warn("Rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		remaining := int64(l.limit) - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(l.limit) {
			retryAfter := time.Unix(windowStart, 0).Add(l.window).Sub(l.now())
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			response.HandleError(w, auth.ErrTooManyLoginAttempts)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
