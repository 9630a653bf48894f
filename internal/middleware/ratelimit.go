package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const defaultMaxClients = 100_000

// RateLimiter is per-client token bucket rate limiting. Every route spends
// one token per request; routes that trigger chain traffic can spend more
// through Weighted.
type RateLimiter struct {
	mu         sync.Mutex
	clients    map[string]*tokenBucket
	rate       float64
	burst      float64
	maxClients int
	now        func() time.Time
}

type tokenBucket struct {
	tokens  float64
	updated time.Time
}

// NewRateLimiter creates a limiter refilling rate tokens per second up to burst.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients:    make(map[string]*tokenBucket),
		rate:       rate,
		burst:      float64(burst),
		maxClients: defaultMaxClients,
		now:        time.Now,
	}
}

// Handler is middleware spending one token per request.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return rl.Weighted(1)(next)
}

// Weighted returns middleware spending cost tokens per request.
func (rl *RateLimiter) Weighted(cost float64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, wait, ok := rl.take(clientIP(r), cost)

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// take spends cost tokens for key.
func (rl *RateLimiter) take(key string, cost float64) (remaining int, wait time.Duration, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, exists := rl.clients[key]
	if !exists {
		if len(rl.clients) >= rl.maxClients {
			return 0, rl.refillTime(cost), false
		}
		b = &tokenBucket{tokens: rl.burst, updated: now}
		rl.clients[key] = b
	}

	b.tokens = math.Min(rl.burst, b.tokens+now.Sub(b.updated).Seconds()*rl.rate)
	b.updated = now

	if b.tokens < cost {
		return 0, rl.refillTime(cost - b.tokens), false
	}
	b.tokens -= cost
	return int(b.tokens), 0, true
}

func (rl *RateLimiter) refillTime(tokens float64) time.Duration {
	if rl.rate <= 0 {
		return time.Second
	}
	return time.Duration(tokens / rl.rate * float64(time.Second))
}

// StartCleanup removes clients idle for longer than maxIdle every interval
// until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.cleanup(maxIdle)
			}
		}
	}()
}

func (rl *RateLimiter) cleanup(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-maxIdle)
	for key, b := range rl.clients {
		if b.updated.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// clientIP extracts the host part of RemoteAddr. Proxy headers are resolved
// upstream by chi's RealIP middleware when the deployment opts in.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
