// Package metrics wraps a Prometheus registry with the counters and
// histograms a batch `gocoro` run over many files wants: how many rewrites
// ran, how large their CFGs got, and how much the state optimizer folded
// away.
//
// Adapted from the teacher's graph/metrics.go (PrometheusMetrics), which
// instruments a running workflow engine's concurrency and latency; gocoro's
// analogue instruments a compile-time codegen sweep instead, so gauges like
// "inflight nodes" become histograms like "CFG nodes per rewrite."
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes gocoro's rewrite counters and histograms, all namespaced
// "gocoro_".
type Metrics struct {
	RewritesTotal           prometheus.Counter
	RewriteErrorsTotal      *prometheus.CounterVec
	CFGNodesHistogram       prometheus.Histogram
	StatesAssignedHistogram prometheus.Histogram
	StatesEliminatedTotal   prometheus.Counter
	RewriteDurationSeconds  prometheus.Histogram
}

// New registers gocoro's metrics against reg and returns the handle used to
// record them. Pass prometheus.NewRegistry() in tests to avoid colliding
// with the default global registry.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RewritesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "gocoro_rewrites_total",
			Help: "Total number of generator functions rewritten.",
		}),
		RewriteErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gocoro_rewrite_errors_total",
			Help: "Total number of rewrite failures, labeled by error kind.",
		}, []string{"kind"}),
		CFGNodesHistogram: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gocoro_cfg_nodes",
			Help:    "Number of CFG nodes built per rewritten function.",
			Buckets: []float64{2, 5, 10, 25, 50, 100, 250, 500},
		}),
		StatesAssignedHistogram: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gocoro_states_assigned",
			Help:    "Number of resumption states assigned before optimization.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		StatesEliminatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "gocoro_states_eliminated_total",
			Help: "Total number of sentinel-only states folded away by the optimizer.",
		}),
		RewriteDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gocoro_rewrite_duration_seconds",
			Help:    "Wall-clock time to rewrite one generator function.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveRewrite records one completed rewrite's CFG size, state counts,
// and duration.
func (m *Metrics) ObserveRewrite(nodes, statesAssigned, statesFinal int, d time.Duration) {
	m.RewritesTotal.Inc()
	m.CFGNodesHistogram.Observe(float64(nodes))
	m.StatesAssignedHistogram.Observe(float64(statesAssigned))
	m.StatesEliminatedTotal.Add(float64(statesAssigned - statesFinal))
	m.RewriteDurationSeconds.Observe(d.Seconds())
}

// ObserveError records a failed rewrite, labeled by its error kind.
func (m *Metrics) ObserveError(kind string) {
	m.RewriteErrorsTotal.WithLabelValues(kind).Inc()
}
