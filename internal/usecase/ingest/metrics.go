package ingest

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder abstracts match-engine metrics so tests can run without a
// Prometheus registry.
type MetricsRecorder interface {
	RecordPostsCreated(n int)
	RecordPostsDeleted(n int)
	RecordMatch()
}

// NoopMetrics discards all recordings.
type NoopMetrics struct{}

func (NoopMetrics) RecordPostsCreated(int) {}
func (NoopMetrics) RecordPostsDeleted(int) {}
func (NoopMetrics) RecordMatch()           {}

// PrometheusMetrics implements MetricsRecorder on Prometheus collectors.
type PrometheusMetrics struct {
	postsCreated prometheus.Counter
	postsDeleted prometheus.Counter
	matchesTotal prometheus.Counter
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusMetrics returns the process-wide Prometheus recorder for the
// match engine. Singleton to avoid duplicate registration.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			postsCreated: promauto.NewCounter(prometheus.CounterOpts{
				Name: "ingest_posts_created_total",
				Help: "Posts inserted from firehose create ops",
			}),
			postsDeleted: promauto.NewCounter(prometheus.CounterOpts{
				Name: "ingest_posts_deleted_total",
				Help: "Post URIs removed from firehose delete ops",
			}),
			matchesTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "ingest_matches_total",
				Help: "Match records written for feed users",
			}),
		}
	})
	return prometheusMetricsInstance
}

func (m *PrometheusMetrics) RecordPostsCreated(n int) { m.postsCreated.Add(float64(n)) }
func (m *PrometheusMetrics) RecordPostsDeleted(n int) { m.postsDeleted.Add(float64(n)) }
func (m *PrometheusMetrics) RecordMatch()             { m.matchesTotal.Inc() }
