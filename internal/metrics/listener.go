// Package metrics provides Prometheus instrumentation for the reconciler pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	listenerPollTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackbuddy",
		Subsystem: "listener",
		Name:      "poll_total",
		Help:      "Count of indexer poll attempts.",
	}, []string{"status"})

	listenerPollDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trackbuddy",
		Subsystem: "listener",
		Name:      "poll_duration_seconds",
		Help:      "Duration of indexer polls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	listenerPollBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trackbuddy",
		Subsystem: "listener",
		Name:      "poll_batch_size",
		Help:      "Number of transactions returned per poll.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
)

// Listener tracks metrics for the ledger listener.
type Listener struct{}

// NewListener constructs a Listener metrics recorder.
func NewListener() *Listener {
	return &Listener{}
}

// ObservePoll records a poll outcome, batch size and duration.
func (m Listener) ObservePoll(err error, txCount int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	listenerPollTotal.WithLabelValues(status).Inc()
	listenerPollDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	if err == nil {
		listenerPollBatchSize.Observe(float64(txCount))
	}
}
