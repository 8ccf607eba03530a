package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func testConfig() Config {
	return Config{
		Name:             "test-circuit",
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          20 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

func TestNew(t *testing.T) {
	cb := New(testConfig())

	if cb == nil {
		t.Fatal("expected circuit breaker, got nil")
	}
	if cb.Name() != "test-circuit" {
		t.Errorf("expected name='test-circuit', got %q", cb.Name())
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected initial state=Closed, got %v", cb.State())
	}
}

func TestCircuitBreaker_Execute_Success(t *testing.T) {
	cb := New(testConfig())

	result, err := cb.Execute(func() (interface{}, error) {
		return "success", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected result='success', got %v", result)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected state=Closed after success, got %v", cb.State())
	}
}

func TestCircuitBreaker_Execute_Failure(t *testing.T) {
	cb := New(testConfig())

	testErr := errors.New("test error")
	result, err := cb.Execute(func() (interface{}, error) {
		return nil, testErr
	})

	if err != testErr {
		t.Errorf("expected error=%v, got %v", testErr, err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %v", result)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("one failure should not trip the circuit, got %v", cb.State())
	}
}

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	cb := New(testConfig())

	testErr := errors.New("api down")
	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, testErr
		})
	}

	if cb.State() != gobreaker.StateOpen {
		t.Errorf("expected state=Open after repeated failures, got %v", cb.State())
	}

	// Open circuit rejects without invoking the function.
	called := false
	_, err := cb.Execute(func() (interface{}, error) {
		called = true
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if called {
		t.Error("function must not be invoked while the circuit is open")
	}
}

func TestCircuitBreaker_StaysClosedBelowMinRequests(t *testing.T) {
	cb := New(testConfig())

	testErr := errors.New("api down")
	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, testErr
		})
	}

	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected state=Closed below MinRequests, got %v", cb.State())
	}
}

func TestEnrichmentAPIConfig(t *testing.T) {
	cfg := EnrichmentAPIConfig("claude-api")

	if cfg.Name != "claude-api" {
		t.Errorf("expected name='claude-api', got %q", cfg.Name)
	}
	if cfg.FailureThreshold <= 0 || cfg.FailureThreshold > 1 {
		t.Errorf("failure threshold %v outside (0, 1]", cfg.FailureThreshold)
	}
	if cfg.MinRequests == 0 {
		t.Error("MinRequests must be positive")
	}
}
