// Package config provides validated environment-variable loading with a
// fail-open strategy: an invalid value never aborts startup, it falls back to
// the default, logs a warning, and is counted in metrics so an operator can
// notice the misconfiguration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadResult is the outcome of loading one configuration value. Value holds
// the loaded value or the default if validation failed; Warnings carries one
// message per fallback applied.
type LoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvWithFallback loads a string value and validates it. On validation
// failure the default is returned with a warning. A nil validator accepts
// everything.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) LoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return LoadResult{Value: defaultValue}
	}
	if validator != nil {
		if err := validator(value); err != nil {
			return LoadResult{
				Value:           defaultValue,
				FallbackApplied: true,
				Warnings: []string{
					fmt.Sprintf("%s=%q is invalid (%v), using default %q", envKey, value, err, defaultValue),
				},
			}
		}
	}
	return LoadResult{Value: value}
}

// LoadEnvInt loads an integer value with optional validation. Unparsable or
// invalid values fall back to the default with a warning.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult{Value: defaultValue}
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return LoadResult{
			Value:           defaultValue,
			FallbackApplied: true,
			Warnings: []string{
				fmt.Sprintf("%s=%q is not an integer, using default %d", envKey, raw, defaultValue),
			},
		}
	}
	if validator != nil {
		if err := validator(value); err != nil {
			return LoadResult{
				Value:           defaultValue,
				FallbackApplied: true,
				Warnings: []string{
					fmt.Sprintf("%s=%d is invalid (%v), using default %d", envKey, value, err, defaultValue),
				},
			}
		}
	}
	return LoadResult{Value: value}
}

// LoadEnvDuration loads a time.Duration value ("30s", "5m", ...) with
// optional validation. Unparsable or invalid values fall back to the default
// with a warning.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult{Value: defaultValue}
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return LoadResult{
			Value:           defaultValue,
			FallbackApplied: true,
			Warnings: []string{
				fmt.Sprintf("%s=%q is not a duration, using default %v", envKey, raw, defaultValue),
			},
		}
	}
	if validator != nil {
		if err := validator(value); err != nil {
			return LoadResult{
				Value:           defaultValue,
				FallbackApplied: true,
				Warnings: []string{
					fmt.Sprintf("%s=%v is invalid (%v), using default %v", envKey, value, err, defaultValue),
				},
			}
		}
	}
	return LoadResult{Value: value}
}
