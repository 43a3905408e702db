package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reconcilerHandleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackbuddy",
		Subsystem: "reconciler",
		Name:      "handle_total",
		Help:      "Count of contract events dispatched per method.",
	}, []string{"method", "status"})

	reconcilerHandleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trackbuddy",
		Subsystem: "reconciler",
		Name:      "handle_duration_seconds",
		Help:      "Duration of reconciliation handler invocations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})
)

// Reconciler tracks metrics for event reconciliation handlers.
type Reconciler struct{}

// NewReconciler constructs a Reconciler metrics recorder.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// ObserveHandle records a handler invocation outcome and duration.
func (m Reconciler) ObserveHandle(method string, err error, started time.Time) {
	if method == "" {
		method = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	reconcilerHandleTotal.WithLabelValues(method, status).Inc()
	reconcilerHandleDuration.WithLabelValues(method, status).Observe(time.Since(started).Seconds())
}
