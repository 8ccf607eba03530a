package throttle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRateLimiter_Validation(t *testing.T) {
	if _, err := NewRateLimiter(0, 10); err == nil {
		t.Error("expected error for zero capacity")
	}
	if _, err := NewRateLimiter(1, 0); err == nil {
		t.Error("expected error for zero rate")
	}
	if _, err := NewRateLimiter(5, 2.5); err != nil {
		t.Errorf("valid config err=%v", err)
	}
}

func TestRateLimiter_BurstUpToCapacity(t *testing.T) {
	limiter, err := NewRateLimiter(3, 1) // slow refill so only the burst passes
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	for i := 0; i < 3; i++ {
		if err := limiter.Consume(ctx); err != nil {
			t.Fatalf("burst consume %d err=%v", i, err)
		}
	}

	// Bucket drained: the next consume must block until cancellation.
	if err := limiter.Consume(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v, want DeadlineExceeded on empty bucket", err)
	}
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	limiter, err := NewRateLimiter(1, 1000)
	if err != nil {
		t.Fatal(err)
	}

	// Control the clock so the refill amount is exact.
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	limiter.last = now

	if err := limiter.Consume(context.Background()); err != nil {
		t.Fatalf("first consume err=%v", err)
	}
	if limiter.tryConsume() {
		t.Fatal("bucket should be empty immediately after consume")
	}

	now = now.Add(time.Millisecond) // one refill interval at 1000/s
	if !limiter.tryConsume() {
		t.Fatal("expected token after one refill interval")
	}
}

func TestRateLimiter_CapacityCapsRefill(t *testing.T) {
	limiter, err := NewRateLimiter(2, 1000)
	if err != nil {
		t.Fatal(err)
	}

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	limiter.last = now

	// A long idle period refills at most to capacity, not beyond.
	now = now.Add(time.Hour)
	for i := 0; i < 2; i++ {
		if !limiter.tryConsume() {
			t.Fatalf("consume %d should succeed after idle", i)
		}
	}
	if limiter.tryConsume() {
		t.Fatal("idle refill must not exceed capacity")
	}
}

func TestRateLimiter_SustainedRateBound(t *testing.T) {
	// With capacity C and rate N, M calls admit the first C immediately and
	// then pace the rest, so total waiting converges to (M-C)/N seconds.
	const (
		capacity  = 2
		perSecond = 100.0
		calls     = 10
	)
	limiter, err := NewRateLimiter(capacity, perSecond)
	if err != nil {
		t.Fatal(err)
	}

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	limiter.last = now

	var waited time.Duration
	for i := 0; i < calls; i++ {
		for !limiter.tryConsume() {
			now = now.Add(limiter.refillInterval)
			waited += limiter.refillInterval
		}
	}

	minWait := time.Duration(float64(calls-capacity) / perSecond * float64(time.Second))
	if waited < minWait {
		t.Errorf("%d calls waited %v in total, throughput bound requires >= %v",
			calls, waited, minWait)
	}
	// The bucket never over-admits: exactly one token per refill interval
	// once the burst is spent.
	if waited != minWait {
		t.Errorf("total wait = %v, want exactly %v at a steady stepped clock",
			waited, minWait)
	}
}
