package config

import (
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	tests := []struct {
		name string
		set  string
		want string
	}{
		{"unset uses default", "", "fallback"},
		{"set value wins", "custom", "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set != "" {
				t.Setenv("TEST_STRING", tt.set)
			}
			if got := GetEnvString("TEST_STRING", "fallback"); got != tt.want {
				t.Errorf("GetEnvString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name string
		set  string
		want int
	}{
		{"unset uses default", "", 42},
		{"valid value", "7", 7},
		{"negative value", "-3", -3},
		{"unparseable falls back", "seven", 42},
		{"trailing garbage falls back", "7x", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set != "" {
				t.Setenv("TEST_INT", tt.set)
			}
			if got := GetEnvInt("TEST_INT", 42); got != tt.want {
				t.Errorf("GetEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name string
		set  string
		want time.Duration
	}{
		{"unset uses default", "", 30 * time.Second},
		{"valid value", "1m30s", 90 * time.Second},
		{"unparseable falls back", "soon", 30 * time.Second},
		{"bare number falls back", "15", 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set != "" {
				t.Setenv("TEST_DURATION", tt.set)
			}
			if got := GetEnvDuration("TEST_DURATION", 30*time.Second); got != tt.want {
				t.Errorf("GetEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}
