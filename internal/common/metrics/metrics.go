// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds only the pipeline metrics, so a batch run can flush them
// to a node-exporter textfile without Go runtime noise.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	UtterancesProcessed = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_etl_utterances_total",
			Help: "Utterances processed, by extraction outcome",
		},
		[]string{"outcome"},
	)

	OptionKeysDropped = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_etl_option_keys_dropped_total",
			Help: "Option keys removed by normalization or capability filtering",
		},
		[]string{"stage"},
	)

	ValidationProblems = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_etl_validation_problems_total",
			Help: "Artifact validation findings, by phase",
		},
		[]string{"phase"},
	)

	AliasConflicts = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "order_etl_alias_conflicts_total",
			Help: "Alias terms remapped to a different sku",
		},
	)

	StageDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_etl_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
		[]string{"stage"},
	)
)

// Outcome labels.
const (
	OutcomeDraft    = "order_draft"
	OutcomeAsk      = "ask"
	OutcomeExcluded = "excluded"
)

// Validation phase labels.
const (
	PhaseSchema   = "schema"
	PhaseSemantic = "semantic"
)

// ObserveStage records the elapsed time since start for a stage.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// WriteTextfile writes the registry in text exposition format. An empty
// path disables the flush.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
