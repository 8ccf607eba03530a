// Package worker holds process-level infrastructure for the background
// worker: its configuration and the health check endpoints.
package worker

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"interest-feed/internal/pkg/config"
)

// Config controls the worker process: the firehose it subscribes to, how
// often the keyword refresher runs, and the operational ports.
type Config struct {
	// FirehoseURL is the Jetstream websocket endpoint to subscribe to.
	FirehoseURL string

	// RefreshInterval is how often the keyword refresher scans for stale
	// users.
	RefreshInterval time.Duration

	// HealthPort serves the liveness and readiness probes.
	HealthPort int

	// MetricsPort serves the Prometheus scrape endpoint.
	MetricsPort int
}

// DefaultConfig returns production-ready defaults. The firehose default is
// the public us-east Jetstream instance.
func DefaultConfig() Config {
	return Config{
		FirehoseURL:     "wss://jetstream2.us-east.bsky.network/subscribe",
		RefreshInterval: 30 * time.Second,
		HealthPort:      9091,
		MetricsPort:     9090,
	}
}

// Validate checks the configuration. All failures are aggregated so an
// operator sees every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if err := config.ValidateWebsocketURL(c.FirehoseURL); err != nil {
		errs = append(errs, fmt.Errorf("firehose url: %w", err))
	}
	if err := config.ValidateDuration(c.RefreshInterval, 5*time.Second, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("refresh interval: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with a fail-open strategy: invalid values fall back to defaults with a
// warning and a metric, so a typo degrades instead of preventing startup.
//
// Environment variables:
//   - FIREHOSE_URL: Jetstream websocket URL
//   - REFRESH_INTERVAL: refresher cadence, 5s-1h (default: 30s)
//   - WORKER_HEALTH_PORT: probe port 1024-65535 (default: 9091)
//   - WORKER_METRICS_PORT: scrape port 1024-65535 (default: 9090)
func LoadConfigFromEnv(logger *slog.Logger, metrics *config.Metrics) *Config {
	cfg := DefaultConfig()
	fallbackApplied := false

	load := func(field string, result config.LoadResult, assign func(config.LoadResult)) {
		assign(result)
		if result.FallbackApplied {
			fallbackApplied = true
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field)
			logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", strings.Join(result.Warnings, "; ")))
		}
	}

	load("firehose_url",
		config.LoadEnvWithFallback("FIREHOSE_URL", cfg.FirehoseURL, config.ValidateWebsocketURL),
		func(r config.LoadResult) { cfg.FirehoseURL = r.Value.(string) })

	load("refresh_interval",
		config.LoadEnvDuration("REFRESH_INTERVAL", cfg.RefreshInterval, func(d time.Duration) error {
			return config.ValidateDuration(d, 5*time.Second, time.Hour)
		}),
		func(r config.LoadResult) { cfg.RefreshInterval = r.Value.(time.Duration) })

	load("health_port",
		config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
			return config.ValidateIntRange(v, 1024, 65535)
		}),
		func(r config.LoadResult) { cfg.HealthPort = r.Value.(int) })

	load("metrics_port",
		config.LoadEnvInt("WORKER_METRICS_PORT", cfg.MetricsPort, func(v int) error {
			return config.ValidateIntRange(v, 1024, 65535)
		}),
		func(r config.LoadResult) { cfg.MetricsPort = r.Value.(int) })

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()
	return &cfg
}
