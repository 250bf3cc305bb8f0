package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/utils"
)

// RateLimitConfig configures the per-client token bucket guarding writes.
type RateLimitConfig struct {
	Burst      int // bucket size
	PerMinute  int // refill rate
	MaxClients int // tracked clients before idle buckets are evicted, 0 = unbounded
	IdleTTL    time.Duration
	TrustProxy bool

	now func() time.Time
}

type bucket struct {
	tokens   float64
	refilled time.Time
}

type limiter struct {
	mu        sync.Mutex
	cfg       RateLimitConfig
	perSec    float64
	buckets   map[string]*bucket
	lastEvict time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	cfg.Burst = max(cfg.Burst, 1)
	cfg.PerMinute = max(cfg.PerMinute, 1)
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	return &limiter{
		cfg:       cfg,
		perSec:    float64(cfg.PerMinute) / 60,
		buckets:   make(map[string]*bucket),
		lastEvict: cfg.now(),
	}
}

// take consumes one token for client. When empty it returns how long to
// wait for the next one.
func (l *limiter) take(client string) (remaining int, wait time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.cfg.now()
	l.evictLocked(now)

	b, ok := l.buckets[client]
	if !ok {
		b = &bucket{tokens: float64(l.cfg.Burst), refilled: now}
		l.buckets[client] = b
	}
	if elapsed := now.Sub(b.refilled).Seconds(); elapsed > 0 {
		b.tokens = math.Min(float64(l.cfg.Burst), b.tokens+elapsed*l.perSec)
		b.refilled = now
	}

	if b.tokens < 1 {
		secs := math.Ceil((1 - b.tokens) / l.perSec)
		return 0, time.Duration(max(secs, 1)) * time.Second
	}
	b.tokens--
	return int(b.tokens), 0
}

func (l *limiter) evictLocked(now time.Time) {
	full := l.cfg.MaxClients > 0 && len(l.buckets) >= l.cfg.MaxClients
	if !full && now.Sub(l.lastEvict) < time.Minute {
		return
	}
	for client, b := range l.buckets {
		if now.Sub(b.refilled) > l.cfg.IdleTTL {
			delete(l.buckets, client)
		}
	}
	l.lastEvict = now
}

// RateLimit answers 429 with Retry-After once a client has spent its burst.
// One instance is meant to be shared by every mutating route.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newLimiter(cfg)
	limit := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, wait := l.take(utils.ClientIP(r, l.cfg.TrustProxy))

			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if wait > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(wait/time.Second)))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
