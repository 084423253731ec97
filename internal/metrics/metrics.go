// Package metrics holds the Prometheus collectors for a store build run.
//
// The builder is a batch job, so nothing is scraped: at the end of a run
// the registry is written to a node_exporter textfile collector file.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is separate from the default registry so the textfile only
// carries run metrics, not Go runtime collectors.
var Registry = prometheus.NewRegistry()

var (
	SourceRecords = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "plainrecalls_source_records",
			Help: "Raw records loaded per source in the last run",
		},
		[]string{"source"},
	)

	StageRecords = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "plainrecalls_stage_records",
			Help: "Records leaving each pipeline stage in the last run",
		},
		[]string{"stage"}, // "normalized", "deduplicated", "manufacturers"
	)

	StageDuration = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "plainrecalls_stage_duration_seconds",
			Help: "Wall time of each pipeline stage in the last run",
		},
		[]string{"stage"},
	)

	RunFailures = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "plainrecalls_run_failures_total",
			Help: "Runs aborted by a store write failure",
		},
	)

	LastSuccess = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "plainrecalls_last_success_timestamp_seconds",
			Help: "Unix time of the last run that replaced the store",
		},
	)
)

// ObserveStage records how long a stage took, starting at start.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Set(time.Since(start).Seconds())
}

// WriteTextfile writes the registry to path atomically. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
