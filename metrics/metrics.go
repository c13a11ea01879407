// Package metrics provides Prometheus metrics for the aides pipelines.
// It exports four metrics:
//   - aides_repair_attempts_total: Counter with stage and outcome labels
//   - aides_records_converted_total: Counter with a schema label
//   - aides_pages_fetched_total: Counter of perimeter pages received
//   - aides_fetch_request_duration_seconds: Histogram of page request latency
//
// All metrics are registered with the Prometheus default registry during
// package initialization. The tools are short lived, so instead of being
// scraped the registry can be dumped to a node_exporter textfile at exit.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RepairAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aides_repair_attempts_total",
			Help: "JSON loading attempts by cascade stage and outcome",
		},
		[]string{"stage", "outcome"},
	)

	RecordsConverted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aides_records_converted_total",
			Help: "Records written to CSV",
		},
		[]string{"schema"},
	)

	PagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aides_pages_fetched_total",
			Help: "Pages received from the perimeters API",
		},
	)

	FetchRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aides_fetch_request_duration_seconds",
			Help:    "Perimeters API request latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)
)

func init() {
	prometheus.MustRegister(RepairAttempts)
	prometheus.MustRegister(RecordsConverted)
	prometheus.MustRegister(PagesFetched)
	prometheus.MustRegister(FetchRequestDuration)
}

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ObserveAttempt counts one loader attempt
func ObserveAttempt(stage string, ok bool) {
	outcome := OutcomeFailure
	if ok {
		outcome = OutcomeSuccess
	}
	RepairAttempts.WithLabelValues(stage, outcome).Inc()
}

// WriteTextfile dumps the default registry in the Prometheus text format.
// Nothing is written when path is empty.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
