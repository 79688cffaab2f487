package alloc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/katalvlaran/zonealloc/bnb"
	"github.com/katalvlaran/zonealloc/model"
	"github.com/katalvlaran/zonealloc/relax"
	"github.com/katalvlaran/zonealloc/simplex"
	"github.com/stretchr/testify/require"
)

func TestSearchError(t *testing.T) {
	lp := fmt.Errorf("bnb: relaxation at depth 3: %w", fmt.Errorf("%w: %w", relax.ErrNumerical, simplex.ErrIterationLimit))
	err := searchError(lp)
	require.ErrorIs(t, err, ErrNumericalInstability)
	require.ErrorIs(t, err, simplex.ErrIterationLimit)

	err = searchError(fmt.Errorf("%w: %w", relax.ErrNumerical, simplex.ErrUnbounded))
	require.ErrorIs(t, err, ErrNumericalInstability)

	err = searchError(bnb.ErrInfeasible)
	require.ErrorIs(t, err, ErrInfeasible)

	err = searchError(fmt.Errorf("%w: node limit", bnb.ErrLimitReached))
	require.ErrorIs(t, err, ErrLimitReached)
	require.False(t, errors.Is(err, ErrNumericalInstability))

	err = searchError(bnb.ErrInvalidConfig)
	require.ErrorIs(t, err, ErrInvalidOptions)
}

func TestSearchConfig(t *testing.T) {
	o := DefaultOptions()
	o.Backend = Gonum
	o.Workers = 3
	cfg := o.searchConfig()
	require.IsType(t, relax.Gonum{}, cfg.Relaxer)
	require.Equal(t, 3, cfg.Workers)

	require.IsType(t, relax.Simplex{}, Options{}.searchConfig().Relaxer)
	require.Equal(t, bnb.DefaultTolerance, Options{}.searchConfig().Tolerance)
}

// skewRelaxer reports an objective offset from the point it returns.
type skewRelaxer struct {
	inner relax.Relaxer
	skew  float64
}

func (r skewRelaxer) Relax(m *model.Model, fixes []relax.Fix) (relax.Relaxation, error) {
	rel, err := r.inner.Relax(m, fixes)
	rel.Objective += r.skew

	return rel, err
}

// spreadRelaxer spreads each undecided resource evenly over its allowed
// zones at the cost of its cheapest one. Capacities are only checked once
// every resource is placed, so the search dives one resource per level.
type spreadRelaxer struct{}

func (spreadRelaxer) Relax(m *model.Model, fixes []relax.Fix) (relax.Relaxation, error) {
	lower, upper, err := relax.Bounds(m, fixes)
	if err != nil {
		return relax.Relaxation{}, err
	}
	var (
		x        = make([]float64, m.Vars())
		counts   = make([]int, m.Zones())
		obj      float64
		integral = true
		i, j     int
	)
	for i = 0; i < m.Resources(); i++ {
		var allowed []int
		for j = 0; j < m.Zones(); j++ {
			k := m.Index(i, j)
			if lower[k] >= 1 {
				allowed = []int{j}
				break
			}
			if upper[k] > 0 {
				allowed = append(allowed, j)
			}
		}
		best := math.Inf(1)
		for _, j = range allowed {
			x[m.Index(i, j)] = 1 / float64(len(allowed))
			best = math.Min(best, m.Cost(i, j))
		}
		obj += best
		if len(allowed) == 1 {
			counts[allowed[0]]++
		} else {
			integral = false
		}
	}
	if integral {
		for j = range counts {
			if counts[j] < m.Capacity(j) {
				return relax.Relaxation{}, relax.ErrInfeasible
			}
		}
	}

	return relax.Relaxation{Objective: obj, X: x}, nil
}

func TestSolveModel_ObjectiveMismatch(t *testing.T) {
	m, err := model.New([][]float64{{1, 4}, {2, 3}, {5, 1}}, []int{1, 1})
	require.NoError(t, err)

	o := DefaultOptions()
	o.lp = skewRelaxer{inner: relax.Simplex{}, skew: 10}
	_, err = SolveModel(context.Background(), m, o)
	require.ErrorIs(t, err, ErrVerificationFailed)

	// An offset inside the integrality slack is accepted.
	o.lp = skewRelaxer{inner: relax.Simplex{}, skew: 1e-7}
	sol, err := SolveModel(context.Background(), m, o)
	require.NoError(t, err)
	require.InDelta(t, 4, sol.TotalCost, 1e-12)
}

func TestCheckObjective(t *testing.T) {
	m, err := model.New([][]float64{{1, 4}, {2, 3}}, []int{1, 1})
	require.NoError(t, err)
	pairs := []Pair{{0, 0}, {1, 1}}

	require.NoError(t, checkObjective(m, pairs, 4, 0))
	require.NoError(t, checkObjective(m, pairs, 4+5e-6, 1e-6)) // Σcost·tol = 1e-5
	require.ErrorIs(t, checkObjective(m, pairs, 4.01, 1e-6), ErrVerificationFailed)
	require.ErrorIs(t, checkObjective(m, pairs, math.NaN(), 1e-6), ErrVerificationFailed)
}

func TestSolveModel_BestEffort(t *testing.T) {
	// No capacities: the spread relaxation dives one resource per level and
	// finds its first assignment at depth 4 after 5 relaxations.
	m, err := model.New([][]float64{{3, 1}, {2, 5}, {4, 4}, {1, 6}}, []int{0, 0})
	require.NoError(t, err)

	o := DefaultOptions()
	o.lp = spreadRelaxer{}
	o.NodeLimit = 5
	sol, err := SolveModel(context.Background(), m, o)
	require.NoError(t, err)
	require.Equal(t, BestEffort, sol.Status)
	require.Len(t, sol.Assignment, 4)
	require.NoError(t, Verify(m, sol))
	require.Equal(t, 5, sol.Stats.Nodes)

	// Without a budget the same relaxation proves the optimum.
	o.NodeLimit = 0
	sol, err = SolveModel(context.Background(), m, o)
	require.NoError(t, err)
	require.Equal(t, Optimal, sol.Status)
	require.InDelta(t, 1+2+4+1, sol.TotalCost, 1e-9)

	// Stopped before any assignment exists.
	o.NodeLimit = 1
	_, err = SolveModel(context.Background(), m, o)
	require.ErrorIs(t, err, ErrLimitReached)
}
