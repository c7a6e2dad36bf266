package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	visitorTTL      = 3 * time.Minute
	cleanupInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// RateLimiter is a per-client token bucket keyed by remote IP.
type RateLimiter struct {
	rps      rate.Limit
	burst    int
	visitors sync.Map // 🛡️ Thread-safe map for high-concurrency scaling
}

// NewRateLimiter starts the idle-visitor sweeper; it stops with ctx.
func NewRateLimiter(ctx context.Context, rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		rps:   rate.Limit(rps),
		burst: burst,
	}
	go rl.cleanupVisitors(ctx)
	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, _ := rl.visitors.LoadOrStore(clientIP(r), &visitor{
			limiter: rate.NewLimiter(rl.rps, rl.burst),
		})

		vis := v.(*visitor)
		vis.lastSeen.Store(time.Now().UnixNano())

		if !vis.limiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"message": "Rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) cleanupVisitors(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep(time.Now())
		}
	}
}

func (rl *RateLimiter) sweep(now time.Time) {
	rl.visitors.Range(func(key, value any) bool {
		if now.Sub(time.Unix(0, value.(*visitor).lastSeen.Load())) > visitorTTL {
			rl.visitors.Delete(key)
		}
		return true
	})
}

// clientIP relies on chi's RealIP having already rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
