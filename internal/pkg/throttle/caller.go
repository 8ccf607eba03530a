package throttle

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Caller bounds calls to an external service by simultaneous in-flight count
// and by initiation rate. A new call first waits for an in-flight slot, then
// for a rate token, then runs. Failures propagate to the caller unchanged and
// always release the slot, so a failing call never leaks budget.
type Caller struct {
	slots    *semaphore.Weighted
	limiter  *RateLimiter
	inFlight atomic.Int64
}

// NewCaller creates a caller allowing at most maxSimultaneous calls in flight
// and at most maxPerSecond calls initiated per second, enforced together.
func NewCaller(maxSimultaneous int64, maxPerSecond float64) (*Caller, error) {
	limiter, err := NewRateLimiter(1, maxPerSecond)
	if err != nil {
		return nil, err
	}
	return &Caller{
		slots:   semaphore.NewWeighted(maxSimultaneous),
		limiter: limiter,
	}, nil
}

// InFlight reports the number of currently executing calls.
func (c *Caller) InFlight() int64 {
	return c.inFlight.Load()
}

func (c *Caller) acquire(ctx context.Context) error {
	if err := c.slots.Acquire(ctx, 1); err != nil {
		return err
	}
	if err := c.limiter.Consume(ctx); err != nil {
		c.slots.Release(1)
		return err
	}
	c.inFlight.Add(1)
	return nil
}

func (c *Caller) release() {
	c.inFlight.Add(-1)
	c.slots.Release(1)
}

// Call runs fn through the caller's concurrency and rate budget. It is a
// package function rather than a method so the result type can be generic
// while one Caller is shared by callers with different result types.
func Call[T any](ctx context.Context, c *Caller, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := c.acquire(ctx); err != nil {
		return zero, err
	}
	defer c.release()
	return fn(ctx)
}
