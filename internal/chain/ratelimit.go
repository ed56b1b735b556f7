package chain

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Operation keys used with RateLimiter.
const (
	OpBalance = "balance"
	OpName    = "name"
)

// RateLimiter throttles ledger queries with one token bucket per operation,
// so a large name batch cannot starve the funding poll.
type RateLimiter struct {
	limiters   map[string]*rate.Limiter
	mu         sync.RWMutex
	rateLimit  rate.Limit
	burstLimit int
}

// NewRateLimiter creates a rate limiter allowing ratePerSecond queries per
// operation with the given burst. A non-positive rate disables limiting.
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	limit := rate.Limit(ratePerSecond)
	if ratePerSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters:   make(map[string]*rate.Limiter),
		rateLimit:  limit,
		burstLimit: burst,
	}
}

// DefaultRateLimiter returns a rate limiter allowing 5 queries per second with a burst of 10.
func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(5, 10)
}

// Allow reports whether a query for op may proceed now.
func (r *RateLimiter) Allow(op string) bool {
	return r.getLimiter(op).Allow()
}

// Wait blocks until a query for op is allowed or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context, op string) error {
	return r.getLimiter(op).Wait(ctx)
}

// getLimiter returns the limiter for op, creating one if needed.
func (r *RateLimiter) getLimiter(op string) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[op]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if limiter, exists = r.limiters[op]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(r.rateLimit, r.burstLimit)
	r.limiters[op] = limiter
	return limiter
}
