package firehose

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks firehose consumption for dashboards and alerting.
type Metrics struct {
	EventsTotal  prometheus.Counter
	CommitsTotal prometheus.Counter
	DecodeErrors prometheus.Counter
	BatchesTotal *prometheus.CounterVec
	Reconnects   prometheus.Counter
	CursorSaved  prometheus.Gauge
}

// NewMetrics creates and registers the firehose metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		EventsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "firehose_events_total",
			Help: "Total events received from the firehose",
		}),
		CommitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "firehose_commits_total",
			Help: "Total commit events received from the firehose",
		}),
		DecodeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "firehose_decode_errors_total",
			Help: "Total events skipped because they could not be decoded",
		}),
		BatchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "firehose_batches_total",
			Help: "Total classified batches handed to the match engine by status (success/failure)",
		}, []string{"status"}),
		Reconnects: promauto.NewCounter(prometheus.CounterOpts{
			Name: "firehose_reconnects_total",
			Help: "Total websocket reconnections",
		}),
		CursorSaved: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "firehose_cursor_saved",
			Help: "Last firehose cursor persisted to storage (time_us)",
		}),
	}
}
