package enricher

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder abstracts metrics recording so tests can inject a mock and
// both API adapters share one implementation.
type MetricsRecorder interface {
	// RecordRequest records an extraction API call with its outcome
	// ("success" or "error") and duration.
	RecordRequest(status string, duration time.Duration)

	// RecordKeywords records how many phrases a successful extraction produced.
	RecordKeywords(count int)
}

// PrometheusMetrics implements MetricsRecorder on Prometheus collectors.
type PrometheusMetrics struct {
	requestsTotal     *prometheus.CounterVec
	durationHistogram prometheus.Histogram
	keywordsHistogram prometheus.Histogram
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusMetrics returns the process-wide Prometheus recorder. Both
// extractor adapters report into the same collectors, so the instance is a
// singleton to avoid duplicate registration.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "enricher_requests_total",
				Help: "Total keyword extraction API calls by status (success/error)",
			}, []string{"status"}),

			durationHistogram: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "enricher_request_duration_seconds",
				Help:    "Duration of keyword extraction API calls in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			}),

			keywordsHistogram: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "enricher_keywords_extracted",
				Help:    "Number of keyword phrases produced per successful extraction",
				Buckets: []float64{1, 5, 10, 15, 20, 30, 50},
			}),
		}
	})
	return prometheusMetricsInstance
}

func (m *PrometheusMetrics) RecordRequest(status string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(status).Inc()
	m.durationHistogram.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordKeywords(count int) {
	m.keywordsHistogram.Observe(float64(count))
}
