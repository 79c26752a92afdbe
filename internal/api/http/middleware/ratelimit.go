package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dtroode/contactbook-server/internal/api/http/response"
	"github.com/dtroode/contactbook-server/internal/apierror"
	"github.com/dtroode/contactbook-server/internal/clock"
	"github.com/dtroode/contactbook-server/internal/logger"
)

const (
	rateLimitWindow  = time.Minute
	limiterIdleSweep = 5 * time.Minute
)

// window is one client's fixed rate-limit window. A zero-rate limiter never
// refills, so its burst is the number of requests left until the window ends.
type window struct {
	start   time.Time
	limiter *rate.Limiter
}

// RateLimit allows at most perMinute requests per client IP in each fixed
// one-minute window, starting at the client's first request.
type RateLimit struct {
	mu        sync.Mutex
	windows   map[string]*window
	perMinute int
	lastSweep time.Time
	clock     clock.Clock
	logger    *logger.Logger
}

// NewRateLimit creates a limiter. perMinute <= 0 disables limiting.
func NewRateLimit(perMinute int, clk clock.Clock, logger *logger.Logger) *RateLimit {
	return &RateLimit{
		windows:   make(map[string]*window),
		perMinute: perMinute,
		lastSweep: clk.Now(),
		clock:     clk,
		logger:    logger,
	}
}

func (rl *RateLimit) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.perMinute <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := clientIP(r)
		allowed, retryAfter := rl.allow(key)
		if !allowed {
			rl.logger.Warn("RateLimit middleware: limit exceeded",
				"client_ip", key,
				"path", routePath(r))

			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(retryAfter)))
			response.JSON(w, http.StatusTooManyRequests, map[string]string{
				"error": apierror.NewErrTooManyRequests().Message,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow reports whether the request fits in the client's window and, if not,
// how long until the window resets.
func (rl *RateLimit) allow(key string) (bool, time.Duration) {
	now := rl.clock.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	win, ok := rl.windows[key]
	if !ok || !now.Before(win.start.Add(rateLimitWindow)) {
		rl.sweep(now)
		win = &window{start: now, limiter: rate.NewLimiter(0, rl.perMinute)}
		rl.windows[key] = win
	}

	if win.limiter.AllowN(now, 1) {
		return true, 0
	}
	return false, win.start.Add(rateLimitWindow).Sub(now)
}

// sweep drops windows that have already ended.
func (rl *RateLimit) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < limiterIdleSweep {
		return
	}
	rl.lastSweep = now

	for key, win := range rl.windows {
		if !now.Before(win.start.Add(rateLimitWindow)) {
			delete(rl.windows, key)
		}
	}
}

func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	return max(secs, 1)
}

// clientIP uses RemoteAddr, which chi's RealIP middleware rewrites from
// proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
