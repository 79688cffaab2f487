package bnb_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/katalvlaran/zonealloc/bnb"
	"github.com/katalvlaran/zonealloc/model"
	"github.com/katalvlaran/zonealloc/relax"
	"github.com/stretchr/testify/require"
)

// boundRelaxer is a weak but valid relaxation: every resource spreads
// uniformly over its allowed zones and contributes its cheapest allowed cost,
// ignoring capacities until the point is integral. It makes the search
// branch deeply, which the exact LP rarely does on this problem.
type boundRelaxer struct {
	delay time.Duration
}

func (r boundRelaxer) Relax(m *model.Model, fixes []relax.Fix) (relax.Relaxation, error) {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	lower, upper, err := relax.Bounds(m, fixes)
	if err != nil {
		return relax.Relaxation{}, err
	}
	var (
		x        = make([]float64, m.Vars())
		obj      float64
		integral = true
		counts   = make([]int, m.Zones())
	)
	for i := 0; i < m.Resources(); i++ {
		var allowed []int
		forced := -1
		for j := 0; j < m.Zones(); j++ {
			k := m.Index(i, j)
			if lower[k] >= 1 {
				forced = j
			}
			if upper[k] > 0 {
				allowed = append(allowed, j)
			}
		}
		if forced >= 0 {
			allowed = []int{forced}
		}
		best := math.Inf(1)
		for _, j := range allowed {
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
		for j, c := range counts {
			if c < m.Capacity(j) {
				return relax.Relaxation{}, relax.ErrInfeasible
			}
		}
	}

	return relax.Relaxation{Objective: obj, X: x}, nil
}

type failingRelaxer struct{ err error }

func (r failingRelaxer) Relax(*model.Model, []relax.Fix) (relax.Relaxation, error) {
	return relax.Relaxation{}, r.err
}

// bruteForce enumerates every assignment.
func bruteForce(m *model.Model) float64 {
	var (
		best   = math.Inf(1)
		assign = make([]int, m.Resources())
		rec    func(i int, cost float64)
	)
	rec = func(i int, cost float64) {
		if i == m.Resources() {
			counts := make([]int, m.Zones())
			for _, j := range assign {
				counts[j]++
			}
			for j, c := range counts {
				if c < m.Capacity(j) {
					return
				}
			}
			best = math.Min(best, cost)

			return
		}
		for j := 0; j < m.Zones(); j++ {
			assign[i] = j
			rec(i+1, cost+m.Cost(i, j))
		}
	}
	rec(0, 0)

	return best
}

func randomModel(t *testing.T, rng *rand.Rand, maxI, maxJ int) *model.Model {
	t.Helper()
	nI := 1 + rng.Intn(maxI)
	nJ := 1 + rng.Intn(maxJ)
	cost := make([][]float64, nI)
	for i := range cost {
		cost[i] = make([]float64, nJ)
		for j := range cost[i] {
			cost[i][j] = float64(rng.Intn(50))
		}
	}
	capacity := make([]int, nJ)
	left := nI
	for j := range capacity {
		capacity[j] = rng.Intn(left/nJ + 2)
		if capacity[j] > left {
			capacity[j] = left
		}
		left -= capacity[j]
	}
	m, err := model.New(cost, capacity)
	require.NoError(t, err)

	return m
}

// objectiveOf evaluates x as an integral assignment.
func objectiveOf(m *model.Model, x []float64) float64 {
	var sum float64
	for k, v := range x {
		if v > 0.5 {
			i, j := m.Cell(k)
			sum += m.Cost(i, j)
		}
	}

	return sum
}

func TestSearch_Regression(t *testing.T) {
	m, err := model.New([][]float64{{1, 4}, {2, 3}, {5, 1}}, []int{1, 1})
	require.NoError(t, err)

	for _, r := range []relax.Relaxer{relax.Simplex{}, relax.Gonum{}, boundRelaxer{}} {
		out, err := bnb.Search(context.Background(), m, bnb.Config{Relaxer: r})
		require.NoError(t, err)
		require.Equal(t, bnb.Optimal, out.Status)
		require.InDelta(t, 4, out.Objective, 1e-9)
		require.InDelta(t, 4, objectiveOf(m, out.X), 1e-9)
		require.GreaterOrEqual(t, out.Stats.Nodes, 1)
	}
}

func TestSearch_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var trial int
	for trial = 0; trial < 40; trial++ {
		m := randomModel(t, rng, 6, 3)
		want := bruteForce(m)
		for _, workers := range []int{1, 4} {
			for _, rule := range []bnb.Branching{bnb.MostFractional, bnb.FirstFractional} {
				cfg := bnb.Config{Relaxer: boundRelaxer{}, Workers: workers, Branching: rule}
				out, err := bnb.Search(context.Background(), m, cfg)
				require.NoError(t, err, "trial %d", trial)
				require.Equal(t, bnb.Optimal, out.Status)
				require.InDelta(t, want, out.Objective, 1e-9, "trial %d workers %d %s", trial, workers, rule)
				require.InDelta(t, want, objectiveOf(m, out.X), 1e-9)
			}
		}
	}
}

func TestSearch_LPBackendsMatchBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var trial int
	for trial = 0; trial < 25; trial++ {
		m := randomModel(t, rng, 7, 3)
		want := bruteForce(m)
		for _, r := range []relax.Relaxer{relax.Simplex{}, relax.Gonum{}} {
			out, err := bnb.Search(context.Background(), m, bnb.Config{Relaxer: r, Workers: 2})
			require.NoError(t, err, "trial %d", trial)
			require.InDelta(t, want, objectiveOf(m, out.X), 1e-6, "trial %d", trial)
			require.LessOrEqual(t, out.Stats.RootBound, want+1e-6)
		}
	}
}

func TestSearch_Infeasible(t *testing.T) {
	m, err := model.New([][]float64{{1}}, []int{1})
	require.NoError(t, err)
	out, err := bnb.Search(context.Background(), m, bnb.Config{Relaxer: failingRelaxer{err: relax.ErrInfeasible}})
	require.ErrorIs(t, err, bnb.ErrInfeasible)
	require.Equal(t, 1, out.Stats.Infeasible)
}

func TestSearch_RelaxerFailure(t *testing.T) {
	m, err := model.New([][]float64{{1}}, []int{1})
	require.NoError(t, err)
	boom := errors.New("boom")
	_, err = bnb.Search(context.Background(), m, bnb.Config{
		Relaxer: failingRelaxer{err: boom},
		Workers: 3,
	})
	require.ErrorIs(t, err, boom)
}

// chainModel has no capacities, so the weak relaxation dives one resource
// per level before reaching an integral point at depth I.
func chainModel(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.New([][]float64{{3, 1}, {2, 5}, {4, 4}, {1, 6}}, []int{0, 0})
	require.NoError(t, err)

	return m
}

func TestSearch_NodeLimit(t *testing.T) {
	m := chainModel(t)

	// The root alone is fractional.
	_, err := bnb.Search(context.Background(), m, bnb.Config{Relaxer: boundRelaxer{}, NodeLimit: 1})
	require.ErrorIs(t, err, bnb.ErrLimitReached)

	// The first dive ends at depth 4 with an incumbent; siblings stay open.
	out, err := bnb.Search(context.Background(), m, bnb.Config{Relaxer: boundRelaxer{}, NodeLimit: 5})
	require.NoError(t, err)
	require.Equal(t, bnb.BestEffort, out.Status)
	require.Equal(t, 5, out.Stats.Nodes)
	require.Equal(t, 4, out.Stats.MaxDepth)
	require.Equal(t, 1, out.Stats.Incumbents)

	// Unlimited, the same instance is solved to optimality.
	out, err = bnb.Search(context.Background(), m, bnb.Config{Relaxer: boundRelaxer{}})
	require.NoError(t, err)
	require.Equal(t, bnb.Optimal, out.Status)
	require.InDelta(t, bruteForce(m), out.Objective, 1e-9)
}

func TestSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := bnb.Search(ctx, chainModel(t), bnb.Config{Relaxer: boundRelaxer{}})
	require.ErrorIs(t, err, bnb.ErrLimitReached)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSearch_TimeLimit(t *testing.T) {
	_, err := bnb.Search(context.Background(), chainModel(t), bnb.Config{
		Relaxer:   boundRelaxer{delay: 20 * time.Millisecond},
		TimeLimit: time.Millisecond,
	})
	require.ErrorIs(t, err, bnb.ErrLimitReached)
}

func TestSearch_InvalidConfig(t *testing.T) {
	_, err := bnb.Search(context.Background(), chainModel(t), bnb.Config{Tolerance: 0.9})
	require.ErrorIs(t, err, bnb.ErrInvalidConfig)
}

func TestSearch_DeterministicSingleWorker(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := randomModel(t, rng, 6, 3)
	cfg := bnb.Config{Relaxer: boundRelaxer{}}
	first, err := bnb.Search(context.Background(), m, cfg)
	require.NoError(t, err)
	again, err := bnb.Search(context.Background(), m, cfg)
	require.NoError(t, err)
	require.Equal(t, first.X, again.X)
	require.Equal(t, first.Stats.Nodes, again.Stats.Nodes)
}
