// Package metrics instruments the engine with Prometheus collectors. The
// core exposes a *prometheus.Registry only — wiring it to an HTTP listener
// is an outer-layer concern, same as the stdio transport (spec.md §1
// "out of scope").
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector groups every metric the dispatcher and matcher update during
// one run.
type Collector struct {
	Registry *prometheus.Registry

	ComparisonsCreated  prometheus.Counter
	FunctionsByType     *prometheus.CounterVec
	TEDDuration         prometheus.Histogram
	GreedyFallbackCount prometheus.Counter
	ParseWarnings       prometheus.Counter
}

// New builds a Collector with a private registry (never the global
// default, so multiple engines in one process never collide).
func New() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		Registry: reg,
		ComparisonsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semdiff",
			Name:      "comparisons_created_total",
			Help:      "Number of comparisons sealed by the store.",
		}),
		FunctionsByType: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semdiff",
			Name:      "functions_by_change_type_total",
			Help:      "Functions classified, labeled by change type.",
		}, []string{"change_type"}),
		TEDDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "semdiff",
			Name:      "ted_duration_seconds",
			Help:      "Wall time of individual tree edit distance calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		GreedyFallbackCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semdiff",
			Name:      "greedy_fallback_activations_total",
			Help:      "Times the matcher fell back to greedy assignment (n > 500).",
		}),
		ParseWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semdiff",
			Name:      "parse_warnings_total",
			Help:      "Non-fatal per-file parse warnings recorded across all comparisons.",
		}),
	}

	reg.MustRegister(c.ComparisonsCreated, c.FunctionsByType, c.TEDDuration, c.GreedyFallbackCount, c.ParseWarnings)
	return c
}
