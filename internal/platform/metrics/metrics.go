// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RunsStarted   prometheus.Counter
	RunsSucceeded prometheus.Counter
	RunsFailed    prometheus.Counter
	RunDuration   prometheus.Histogram
	Discrepancies *prometheus.CounterVec
}

// New creates and registers all collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		RunsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cohortcompare_runs_started_total",
			Help: "Total reconciliation runs started.",
		}),
		RunsSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cohortcompare_runs_succeeded_total",
			Help: "Total reconciliation runs that completed successfully.",
		}),
		RunsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cohortcompare_runs_failed_total",
			Help: "Total reconciliation runs that aborted with an error.",
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cohortcompare_run_duration_seconds",
			Help:    "Wall-clock duration of reconciliation runs.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		Discrepancies: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cohortcompare_discrepancies_total",
			Help: "Classified discrepancies by registry side and category.",
		}, []string{"source", "category"}),
	}
}
