// Package metrics exposes Prometheus instrumentation for the command
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "castaway"

// Metrics holds the counters and histograms the assistant updates.
type Metrics struct {
	CommandsTotal     *prometheus.CounterVec
	UnrecognizedTotal prometheus.Counter
	FallbackTotal     prometheus.Counter
	FallbackErrors    prometheus.Counter
	MatchScore        prometheus.Histogram
	UnresolvedTargets prometheus.Counter
}

// New registers all metrics against reg. Tests pass a private registry
// to avoid duplicate-registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands handled, by parsed intent kind",
		}, []string{"kind"}),
		UnrecognizedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unrecognized_total",
			Help:      "Inputs the rule grammar could not classify",
		}),
		FallbackTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_total",
			Help:      "Escalations to the tier-2 interpreter",
		}),
		FallbackErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_errors_total",
			Help:      "Tier-2 interpreter calls that failed",
		}),
		MatchScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_score",
			Help:      "Fuzzy match scores for resolved free-text targets",
			Buckets:   prometheus.LinearBuckets(0.5, 0.05, 11),
		}),
		UnresolvedTargets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_targets_total",
			Help:      "Free-text targets that failed fuzzy resolution",
		}),
	}
}
