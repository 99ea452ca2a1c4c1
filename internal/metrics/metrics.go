// Package metrics defines the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// ClassifierRuns counts completed classification runs
	ClassifierRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daulingo_classifier_runs_total",
		Help: "Total number of completed classification runs",
	})

	// StateRowsWritten counts committed user-state rows
	StateRowsWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daulingo_state_rows_written_total",
		Help: "Total number of user state rows committed",
	})

	// ClassifierUserFailures counts per-user timeline integrity failures
	ClassifierUserFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daulingo_classifier_user_failures_total",
		Help: "Total number of user timelines aborted by integrity errors",
	})

	// ClassifierRunDuration observes run durations in seconds
	ClassifierRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "daulingo_classifier_run_duration_seconds",
		Help:    "Duration of classification runs in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	// ActivityEventsIngested counts ingested activity facts
	ActivityEventsIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daulingo_activity_events_ingested_total",
		Help: "Total number of activity facts ingested",
	})
)

// NewRegistry returns a registry with all application and runtime collectors
// registered
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ClassifierRuns,
		StateRowsWritten,
		ClassifierUserFailures,
		ClassifierRunDuration,
		ActivityEventsIngested,
	)
	return registry
}
