package httpapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	limiters sync.Map // ip -> *ipEntry
	rate     rate.Limit
	burst    int
	idle     time.Duration
	lastGC   time.Time
	gcMu     sync.Mutex
}

type ipEntry struct {
	lim  *rate.Limiter
	seen time.Time
	mu   sync.Mutex
}

// limiter is nil when rate limiting is disabled.
var limiter *ipRateLimiter

// SetRateLimit enables a per-client-IP limit of rps requests per second with
// the given burst on POST /predict. rps <= 0 disables it. Call before NewMux.
func SetRateLimit(rps float64, burst int) {
	if rps <= 0 {
		limiter = nil
		return
	}
	if burst <= 0 {
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}
	limiter = &ipRateLimiter{rate: rate.Limit(rps), burst: burst, idle: 10 * time.Minute, lastGC: time.Now()}
}

func (l *ipRateLimiter) allow(ip string, now time.Time) bool {
	v, ok := l.limiters.Load(ip)
	if !ok {
		v, _ = l.limiters.LoadOrStore(ip, &ipEntry{lim: rate.NewLimiter(l.rate, l.burst)})
	}
	e := v.(*ipEntry)
	e.mu.Lock()
	e.seen = now
	e.mu.Unlock()
	l.sweep(now)
	return e.lim.AllowN(now, 1)
}

// sweep drops buckets that have been idle for a while.
func (l *ipRateLimiter) sweep(now time.Time) {
	l.gcMu.Lock()
	if now.Sub(l.lastGC) < l.idle {
		l.gcMu.Unlock()
		return
	}
	l.lastGC = now
	l.gcMu.Unlock()
	l.limiters.Range(func(k, v any) bool {
		e := v.(*ipEntry)
		e.mu.Lock()
		stale := now.Sub(e.seen) > l.idle
		e.mu.Unlock()
		if stale {
			l.limiters.Delete(k)
		}
		return true
	})
}

// middleware rejects requests over the limit with 429. RealIP runs earlier, so
// RemoteAddr already reflects X-Forwarded-For / X-Real-IP.
func (l *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		if !l.allow(ip, time.Now()) {
			IncrementBackpressure("rate_limit")
			countPrediction(outcomeBusy)
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
