package worker

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return DefaultConfig()
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad firehose scheme", func(c *Config) { c.FirehoseURL = "https://jetstream.example" }},
		{"refresh interval too short", func(c *Config) { c.RefreshInterval = time.Second }},
		{"refresh interval too long", func(c *Config) { c.RefreshInterval = 2 * time.Hour }},
		{"privileged health port", func(c *Config) { c.HealthPort = 80 }},
		{"metrics port out of range", func(c *Config) { c.MetricsPort = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigValidate_AggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.FirehoseURL = "not-a-url"
	cfg.HealthPort = 1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"firehose url", "health port"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}
