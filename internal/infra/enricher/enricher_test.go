package enricher

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "lowercases and splits lines",
			raw:  "Bluesky\nAT Protocol\nFederated republic",
			want: []string{"bluesky", "at protocol", "federated republic"},
		},
		{
			name: "trims whitespace",
			raw:  "  distributed systems  \n\tgo programming\t",
			want: []string{"distributed systems", "go programming"},
		},
		{
			name: "drops short and blank lines",
			raw:  "ai\n\nml\nmachine learning\n  \ngo",
			want: []string{"machine learning"},
		},
		{
			name: "empty input",
			raw:  "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseKeywords(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseKeywords mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNoOp_ExtractKeywords(t *testing.T) {
	ext := NewNoOp()

	got, err := ext.ExtractKeywords(context.Background(), "any profile text")
	if err != nil {
		t.Fatalf("ExtractKeywords err=%v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want no keywords", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Model:           "some-model",
		MaxTokens:       256,
		Timeout:         60 * time.Second,
		MaxSimultaneous: 3,
		MaxPerSecond:    10,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config err=%v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model", func(c *Config) { c.Model = "" }},
		{"zero simultaneous", func(c *Config) { c.MaxSimultaneous = 0 }},
		{"zero rate", func(c *Config) { c.MaxPerSecond = 0 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("default-model")
	if err != nil {
		t.Fatalf("LoadConfig err=%v", err)
	}
	if cfg.Model != "default-model" {
		t.Errorf("model=%q", cfg.Model)
	}
	if cfg.MaxSimultaneous != 3 {
		t.Errorf("maxSimultaneous=%d, want 3", cfg.MaxSimultaneous)
	}
	if cfg.MaxPerSecond != 10 {
		t.Errorf("maxPerSecond=%g, want 10", cfg.MaxPerSecond)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ENRICHER_MODEL", "custom-model")
	t.Setenv("ENRICHER_MAX_CONCURRENT", "5")
	t.Setenv("ENRICHER_TIMEOUT", "30s")

	cfg, err := LoadConfig("default-model")
	if err != nil {
		t.Fatalf("LoadConfig err=%v", err)
	}
	if cfg.Model != "custom-model" {
		t.Errorf("model=%q", cfg.Model)
	}
	if cfg.MaxSimultaneous != 5 {
		t.Errorf("maxSimultaneous=%d, want 5", cfg.MaxSimultaneous)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("timeout=%v, want 30s", cfg.Timeout)
	}
}
