package enricher

import (
	"fmt"
	"time"

	pkgConfig "interest-feed/internal/pkg/config"
	"interest-feed/pkg/config"
)

// Config holds the shared configuration for keyword extractors.
// The call budget (MaxSimultaneous, MaxPerSecond) is enforced by the shared
// throttled caller, not by the individual API adapters.
type Config struct {
	// Model is the API model identifier to use for extraction.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Timeout is the maximum duration for a single extraction API call.
	Timeout time.Duration

	// MaxSimultaneous caps the number of extraction calls in flight at once.
	MaxSimultaneous int

	// MaxPerSecond caps how many extraction calls may be initiated per second.
	MaxPerSecond float64
}

// LoadConfig loads extractor configuration from environment variables with
// fallback to defaults. The defaults match the original call budget of the
// feed: at most 3 simultaneous calls, at most 10 per second.
//
// Environment variables:
//   - ENRICHER_MODEL: API model identifier (default depends on extractor type)
//   - ENRICHER_MAX_CONCURRENT: in-flight call cap (default: 3)
//   - ENRICHER_MAX_PER_SECOND: call initiation rate cap (default: 10)
//   - ENRICHER_TIMEOUT: per-call timeout (default: 60s)
func LoadConfig(defaultModel string) (Config, error) {
	cfg := Config{
		Model:           config.GetEnvString("ENRICHER_MODEL", defaultModel),
		MaxTokens:       256,
		Timeout:         config.GetEnvDuration("ENRICHER_TIMEOUT", 60*time.Second),
		MaxSimultaneous: config.GetEnvInt("ENRICHER_MAX_CONCURRENT", 3),
		MaxPerSecond:    float64(config.GetEnvInt("ENRICHER_MAX_PER_SECOND", 10)),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the throttled caller cannot
// operate with.
func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxSimultaneous < 1 {
		return fmt.Errorf("max simultaneous calls must be >= 1, got %d", c.MaxSimultaneous)
	}
	if c.MaxPerSecond <= 0 {
		return fmt.Errorf("max calls per second must be positive, got %g", c.MaxPerSecond)
	}
	if err := pkgConfig.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
