package config

import (
	"testing"
	"time"
)

func TestLoadEnvWithFallback(t *testing.T) {
	t.Run("valid value passes", func(t *testing.T) {
		t.Setenv("TEST_URL", "wss://jetstream.example/subscribe")
		result := LoadEnvWithFallback("TEST_URL", "wss://default", ValidateWebsocketURL)
		if result.FallbackApplied {
			t.Fatalf("unexpected fallback: %v", result.Warnings)
		}
		if result.Value.(string) != "wss://jetstream.example/subscribe" {
			t.Errorf("value = %v", result.Value)
		}
	})

	t.Run("invalid value falls back with warning", func(t *testing.T) {
		t.Setenv("TEST_URL", "https://not-a-websocket")
		result := LoadEnvWithFallback("TEST_URL", "wss://default", ValidateWebsocketURL)
		if !result.FallbackApplied {
			t.Fatal("expected fallback")
		}
		if result.Value.(string) != "wss://default" {
			t.Errorf("value = %v, want default", result.Value)
		}
		if len(result.Warnings) != 1 {
			t.Errorf("warnings = %v, want exactly one", result.Warnings)
		}
	})

	t.Run("unset uses default without fallback flag", func(t *testing.T) {
		result := LoadEnvWithFallback("TEST_URL_UNSET", "wss://default", ValidateWebsocketURL)
		if result.FallbackApplied {
			t.Error("unset variable must not count as a fallback")
		}
		if result.Value.(string) != "wss://default" {
			t.Errorf("value = %v", result.Value)
		}
	})
}

func TestLoadEnvInt(t *testing.T) {
	rangeValidator := func(v int) error { return ValidateIntRange(v, 1024, 65535) }

	t.Run("valid", func(t *testing.T) {
		t.Setenv("TEST_PORT", "9091")
		result := LoadEnvInt("TEST_PORT", 8080, rangeValidator)
		if result.FallbackApplied || result.Value.(int) != 9091 {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("not an integer", func(t *testing.T) {
		t.Setenv("TEST_PORT", "ninety")
		result := LoadEnvInt("TEST_PORT", 8080, rangeValidator)
		if !result.FallbackApplied || result.Value.(int) != 8080 {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		t.Setenv("TEST_PORT", "80")
		result := LoadEnvInt("TEST_PORT", 8080, rangeValidator)
		if !result.FallbackApplied || result.Value.(int) != 8080 {
			t.Errorf("result = %+v", result)
		}
	})
}

func TestLoadEnvDuration(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		t.Setenv("TEST_INTERVAL", "45s")
		result := LoadEnvDuration("TEST_INTERVAL", time.Minute, ValidatePositiveDuration)
		if result.FallbackApplied || result.Value.(time.Duration) != 45*time.Second {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("unparsable", func(t *testing.T) {
		t.Setenv("TEST_INTERVAL", "soon")
		result := LoadEnvDuration("TEST_INTERVAL", time.Minute, ValidatePositiveDuration)
		if !result.FallbackApplied || result.Value.(time.Duration) != time.Minute {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("rejected by validator", func(t *testing.T) {
		t.Setenv("TEST_INTERVAL", "-10s")
		result := LoadEnvDuration("TEST_INTERVAL", time.Minute, ValidatePositiveDuration)
		if !result.FallbackApplied || result.Value.(time.Duration) != time.Minute {
			t.Errorf("result = %+v", result)
		}
	})
}
