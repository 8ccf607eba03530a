package enrich

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder abstracts refresher metrics recording.
type MetricsRecorder interface {
	// RecordCycle records a completed refresh cycle with its outcome
	// ("success" or "error") and duration.
	RecordCycle(status string, duration time.Duration)

	// RecordUsers records how many users one cycle enriched and failed.
	RecordUsers(enriched, failed int)
}

// NoopMetrics discards all recordings.
type NoopMetrics struct{}

func (NoopMetrics) RecordCycle(string, time.Duration) {}
func (NoopMetrics) RecordUsers(int, int)              {}

// PrometheusMetrics implements MetricsRecorder on Prometheus collectors.
type PrometheusMetrics struct {
	cyclesTotal   *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	lastCycleTime prometheus.Gauge
	usersEnriched prometheus.Counter
	usersFailed   prometheus.Counter
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusMetrics returns the process-wide Prometheus recorder for the
// refresher. Singleton to avoid duplicate registration.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			cyclesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "refresher_cycles_total",
				Help: "Refresh cycles by outcome (success/error)",
			}, []string{"status"}),

			cycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "refresher_cycle_duration_seconds",
				Help:    "Duration of refresh cycles in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
			}),

			lastCycleTime: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "refresher_last_cycle_completed_timestamp_seconds",
				Help: "Unix timestamp of the last completed refresh cycle",
			}),

			usersEnriched: promauto.NewCounter(prometheus.CounterOpts{
				Name: "refresher_users_enriched_total",
				Help: "Users whose keywords were refreshed",
			}),

			usersFailed: promauto.NewCounter(prometheus.CounterOpts{
				Name: "refresher_users_failed_total",
				Help: "Users whose enrichment attempt failed",
			}),
		}
	})
	return prometheusMetricsInstance
}

func (m *PrometheusMetrics) RecordCycle(status string, duration time.Duration) {
	m.cyclesTotal.WithLabelValues(status).Inc()
	m.cycleDuration.Observe(duration.Seconds())
	if status == "success" {
		m.lastCycleTime.SetToCurrentTime()
	}
}

func (m *PrometheusMetrics) RecordUsers(enriched, failed int) {
	m.usersEnriched.Add(float64(enriched))
	m.usersFailed.Add(float64(failed))
}
