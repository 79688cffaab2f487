// Package metrics exposes solver activity as Prometheus metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/katalvlaran/zonealloc/alloc"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "zonealloc"

// Outcome label values.
const (
	OutcomeOptimal    = "optimal"
	OutcomeBestEffort = "best_effort"
	OutcomeError      = "error"
)

// Metrics groups the solver collectors.
type Metrics struct {
	Solves       *prometheus.CounterVec
	Errors       *prometheus.CounterVec
	Nodes        prometheus.Counter
	LPIterations prometheus.Counter
	Duration     prometheus.Histogram
	LastCost     prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Solve calls by outcome.",
		}, []string{"outcome"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solve_errors_total",
			Help:      "Failed solve calls by reason.",
		}, []string{"reason"}),
		Nodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bnb_nodes_total",
			Help:      "Branch-and-bound relaxations solved.",
		}),
		LPIterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lp_iterations_total",
			Help:      "Simplex pivots over all relaxations.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall-clock time per solve call.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		LastCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_total_cost",
			Help:      "Total cost of the most recent successful solve.",
		}),
	}
	for _, c := range []prometheus.Collector{m.Solves, m.Errors, m.Nodes, m.LPIterations, m.Duration, m.LastCost} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Observe records one solve call.
func (m *Metrics) Observe(sol alloc.Solution, err error, elapsed time.Duration) {
	m.Duration.Observe(elapsed.Seconds())
	m.Nodes.Add(float64(sol.Stats.Nodes))
	m.LPIterations.Add(float64(sol.Stats.LPIterations))

	if err != nil {
		m.Solves.WithLabelValues(OutcomeError).Inc()
		m.Errors.WithLabelValues(Reason(err)).Inc()

		return
	}
	if sol.Status == alloc.BestEffort {
		m.Solves.WithLabelValues(OutcomeBestEffort).Inc()
	} else {
		m.Solves.WithLabelValues(OutcomeOptimal).Inc()
	}
	m.LastCost.Set(sol.TotalCost)
}

// Reason classifies a solve error for the reason label.
func Reason(err error) string {
	switch {
	case errors.Is(err, alloc.ErrInfeasible):
		return "infeasible"
	case errors.Is(err, alloc.ErrLimitReached):
		return "limit"
	case errors.Is(err, alloc.ErrNumericalInstability):
		return "numerical"
	case errors.Is(err, alloc.ErrAssignmentAmbiguous), errors.Is(err, alloc.ErrVerificationFailed):
		return "verification"
	case errors.Is(err, alloc.ErrDimensionMismatch), errors.Is(err, alloc.ErrInvalidCapacity),
		errors.Is(err, alloc.ErrInvalidCost), errors.Is(err, alloc.ErrInvalidOptions):
		return "invalid_input"
	default:
		return "other"
	}
}

// WriteTextfile writes everything g gathers in the text exposition format,
// for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
