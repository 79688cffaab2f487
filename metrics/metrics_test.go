package metrics_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/katalvlaran/zonealloc/alloc"
	"github.com/katalvlaran/zonealloc/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	sol := alloc.Solution{TotalCost: 4, Status: alloc.Optimal, Stats: alloc.Stats{Nodes: 3, LPIterations: 10}}
	m.Observe(sol, nil, 20*time.Millisecond)
	sol.Status = alloc.BestEffort
	m.Observe(sol, nil, time.Millisecond)
	m.Observe(alloc.Solution{}, fmt.Errorf("wrapped: %w", alloc.ErrLimitReached), time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Solves.WithLabelValues(metrics.OutcomeOptimal)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Solves.WithLabelValues(metrics.OutcomeBestEffort)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Solves.WithLabelValues(metrics.OutcomeError)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("limit")))
	require.Equal(t, 6.0, testutil.ToFloat64(m.Nodes))
	require.Equal(t, 20.0, testutil.ToFloat64(m.LPIterations))
	require.Equal(t, 4.0, testutil.ToFloat64(m.LastCost))
	require.Equal(t, 1, testutil.CollectAndCount(m.Duration))

	expected := `
# HELP zonealloc_bnb_nodes_total Branch-and-bound relaxations solved.
# TYPE zonealloc_bnb_nodes_total counter
zonealloc_bnb_nodes_total 6
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "zonealloc_bnb_nodes_total"))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)
	_, err = metrics.New(reg)
	require.Error(t, err)
}

func TestReason(t *testing.T) {
	cases := map[error]string{
		alloc.ErrInfeasible:           "infeasible",
		alloc.ErrLimitReached:         "limit",
		alloc.ErrNumericalInstability: "numerical",
		alloc.ErrVerificationFailed:   "verification",
		alloc.ErrAssignmentAmbiguous:  "verification",
		alloc.ErrInvalidCost:          "invalid_input",
		alloc.ErrInvalidOptions:       "invalid_input",
		errors.New("disk on fire"):    "other",
	}
	for err, want := range cases {
		require.Equal(t, want, metrics.Reason(fmt.Errorf("ctx: %w", err)), err.Error())
	}
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	m.Observe(alloc.Solution{TotalCost: 12.5}, nil, time.Millisecond)

	path := filepath.Join(t.TempDir(), "zonealloc.prom")
	require.NoError(t, metrics.WriteTextfile(path, reg))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "zonealloc_last_total_cost 12.5")
	require.Contains(t, string(data), `zonealloc_solves_total{outcome="optimal"} 1`)
}
