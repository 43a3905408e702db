package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	repositoryQueryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackbuddy",
		Subsystem: "repository",
		Name:      "query_total",
		Help:      "Count of repository operations.",
	}, []string{"operation", "status"})

	repositoryQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trackbuddy",
		Subsystem: "repository",
		Name:      "query_duration_seconds",
		Help:      "Duration of repository operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// Repository tracks metrics for relational store operations.
type Repository struct{}

// NewRepository constructs a Repository metrics recorder.
func NewRepository() *Repository {
	return &Repository{}
}

// Observe records a repository operation outcome and duration.
func (m Repository) Observe(operation string, err error, started time.Time) {
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	repositoryQueryTotal.WithLabelValues(operation, status).Inc()
	repositoryQueryDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
