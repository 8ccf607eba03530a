// Package throttle provides the outbound-call budget primitives shared by all
// callers of the enrichment API: a token-bucket rate limiter and a
// concurrency-limited caller composing the two.
package throttle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter is a token bucket. Tokens refill continuously at the configured
// rate up to the bucket capacity, so bursts up to capacity pass immediately
// after an idle period while long-run throughput converges to perSecond.
//
// The refill computation and the decrement happen under the same mutex, so
// concurrent callers never lose updates. Consume never fails on its own;
// callers only ever wait longer, or observe context cancellation.
type RateLimiter struct {
	mu             sync.Mutex
	tokens         float64
	capacity       float64
	refillInterval time.Duration
	last           time.Time

	now func() time.Time // injectable for tests
}

// NewRateLimiter creates a limiter permitting perSecond sustained calls with
// bursts up to capacity. A capacity of 1 forces strict serialization at the
// configured rate.
func NewRateLimiter(capacity int, perSecond float64) (*RateLimiter, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("rate limiter capacity must be >= 1, got %d", capacity)
	}
	if perSecond <= 0 {
		return nil, fmt.Errorf("rate limiter rate must be positive, got %g", perSecond)
	}
	l := &RateLimiter{
		tokens:         float64(capacity),
		capacity:       float64(capacity),
		refillInterval: time.Duration(float64(time.Second) / perSecond),
		now:            time.Now,
	}
	l.last = l.now()
	return l, nil
}

// Consume takes one token, suspending the caller in refill-interval steps
// until a token is available or the context is cancelled.
func (l *RateLimiter) Consume(ctx context.Context) error {
	for {
		if l.tryConsume() {
			return nil
		}
		timer := time.NewTimer(l.refillInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *RateLimiter) tryConsume() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	elapsed := now.Sub(l.last)
	l.last = now

	l.tokens += float64(elapsed) / float64(l.refillInterval)
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}

	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}
