package relax_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/zonealloc/model"
	"github.com/katalvlaran/zonealloc/relax"
	"github.com/katalvlaran/zonealloc/simplex"
	"github.com/stretchr/testify/require"
)

const tol = 1e-7

func backends() map[string]relax.Relaxer {
	return map[string]relax.Relaxer{
		"simplex": relax.Simplex{},
		"gonum":   relax.Gonum{},
	}
}

func regressionModel(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.New([][]float64{{1, 4}, {2, 3}, {5, 1}}, []int{1, 1})
	require.NoError(t, err)

	return m
}

// checkRows asserts the partition and zone rows hold for x.
func checkRows(t *testing.T, m *model.Model, x []float64) {
	t.Helper()
	var (
		i, j int
		sum  float64
	)
	for i = 0; i < m.Resources(); i++ {
		sum = 0
		for j = 0; j < m.Zones(); j++ {
			require.GreaterOrEqual(t, x[m.Index(i, j)], -tol)
			sum += x[m.Index(i, j)]
		}
		require.InDelta(t, 1, sum, tol, "resource %d", i)
	}
	for j = 0; j < m.Zones(); j++ {
		sum = 0
		for i = 0; i < m.Resources(); i++ {
			sum += x[m.Index(i, j)]
		}
		require.GreaterOrEqual(t, sum, float64(m.Capacity(j))-tol, "zone %d", j)
	}
}

func TestRelax_Root(t *testing.T) {
	m := regressionModel(t)
	for name, r := range backends() {
		t.Run(name, func(t *testing.T) {
			res, err := r.Relax(m, nil)
			require.NoError(t, err)
			require.InDelta(t, 4, res.Objective, tol)
			require.Len(t, res.X, m.Vars())
			checkRows(t, m, res.X)
		})
	}
}

func TestRelax_Fixes(t *testing.T) {
	m := regressionModel(t)
	cases := []struct {
		name  string
		fixes []relax.Fix
		want  float64
	}{
		{"forbid R2 in Z1", []relax.Fix{relax.FixZero(2, 1)}, 9},
		{"force R0 into Z1", []relax.Fix{relax.FixOne(0, 1)}, 7},
		{"narrow R0 in Z0", []relax.Fix{{Resource: 0, Zone: 0, Lower: 0, Upper: 0.5}}, 5.5},
		{"later fix narrows", []relax.Fix{{Resource: 2, Zone: 1, Lower: 0, Upper: 1}, relax.FixZero(2, 1)}, 9},
	}
	for name, r := range backends() {
		for _, tc := range cases {
			t.Run(name+"/"+tc.name, func(t *testing.T) {
				res, err := r.Relax(m, tc.fixes)
				require.NoError(t, err)
				require.InDelta(t, tc.want, res.Objective, tol)
				checkRows(t, m, res.X)
				for _, f := range tc.fixes {
					v := res.X[m.Index(f.Resource, f.Zone)]
					require.GreaterOrEqual(t, v, f.Lower-tol)
				}
			})
		}
	}
}

func TestRelax_Infeasible(t *testing.T) {
	m := regressionModel(t)
	cases := map[string][]relax.Fix{
		"resource has no zone":  {relax.FixZero(0, 0), relax.FixZero(0, 1)},
		"resource in two zones": {relax.FixOne(1, 0), relax.FixOne(1, 1)},
		"zone unreachable":      {relax.FixZero(0, 1), relax.FixZero(1, 1), relax.FixZero(2, 1)},
		"crossed interval":      {relax.FixOne(0, 0), relax.FixZero(0, 0)},
	}
	for name, r := range backends() {
		for cname, fixes := range cases {
			t.Run(name+"/"+cname, func(t *testing.T) {
				_, err := r.Relax(m, fixes)
				require.ErrorIs(t, err, relax.ErrInfeasible)
			})
		}
	}
}

func TestRelax_InvalidFix(t *testing.T) {
	m := regressionModel(t)
	for _, f := range []relax.Fix{
		{Resource: 3, Zone: 0, Upper: 1},
		{Resource: 0, Zone: -1, Upper: 1},
		{Resource: 0, Zone: 0, Lower: math.NaN(), Upper: 1},
	} {
		_, err := relax.Simplex{}.Relax(m, []relax.Fix{f})
		require.ErrorIs(t, err, relax.ErrInvalidFix)
	}
}

func TestRelax_Empty(t *testing.T) {
	m, err := model.New(nil, []int{0, 0})
	require.NoError(t, err)
	for name, r := range backends() {
		res, err := r.Relax(m, nil)
		require.NoError(t, err, name)
		require.Zero(t, res.Objective, name)
		require.Empty(t, res.X, name)
	}
}

func TestRelax_IterationLimitIsNumerical(t *testing.T) {
	m := regressionModel(t)
	opts := simplex.DefaultOptions()
	opts.MaxIterations = 1
	_, err := relax.Simplex{Options: opts}.Relax(m, nil)
	require.ErrorIs(t, err, relax.ErrNumerical)
	require.ErrorIs(t, err, simplex.ErrIterationLimit)
}

func TestProblem_Shape(t *testing.T) {
	m, err := model.New([][]float64{{1, 2, 3}, {4, 5, 6}}, []int{1, 0, 1})
	require.NoError(t, err)
	lower, upper, err := relax.Bounds(m, []relax.Fix{relax.FixOne(0, 0), {Resource: 1, Zone: 1, Upper: 0.25}})
	require.NoError(t, err)

	p := relax.Problem(m, lower, upper)
	require.Len(t, p.Rows, 2+2) // two partition rows, zero-capacity zone skipped
	require.Equal(t, m.CostVector(), p.Objective)
	require.Equal(t, 1.0, p.Upper[0]) // fixed stays fixed
	require.Equal(t, 0.25, p.Upper[m.Index(1, 1)])
	require.True(t, math.IsInf(p.Upper[m.Index(1, 2)], 1))
}

// TestRelax_BackendsAgree cross-checks both LP engines on random instances
// and random single-variable fixings.
func TestRelax_BackendsAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var trial int
	for trial = 0; trial < 60; trial++ {
		nI := 1 + rng.Intn(6)
		nJ := 1 + rng.Intn(3)
		cost := make([][]float64, nI)
		for i := range cost {
			cost[i] = make([]float64, nJ)
			for j := range cost[i] {
				cost[i][j] = float64(rng.Intn(20))
			}
		}
		capacity := make([]int, nJ)
		left := nI
		for j := range capacity {
			capacity[j] = rng.Intn(left/nJ + 1)
			left -= capacity[j]
		}
		m, err := model.New(cost, capacity)
		require.NoError(t, err)

		var fixes []relax.Fix
		for f := rng.Intn(3); f > 0; f-- {
			i, j := rng.Intn(nI), rng.Intn(nJ)
			if rng.Intn(2) == 0 {
				fixes = append(fixes, relax.FixZero(i, j))
			} else {
				fixes = append(fixes, relax.FixOne(i, j))
			}
		}

		a, errA := relax.Simplex{}.Relax(m, fixes)
		b, errB := relax.Gonum{}.Relax(m, fixes)
		if errA != nil || errB != nil {
			require.ErrorIs(t, errA, relax.ErrInfeasible, "trial %d", trial)
			require.ErrorIs(t, errB, relax.ErrInfeasible, "trial %d", trial)

			continue
		}
		require.InDelta(t, a.Objective, b.Objective, 1e-6, "trial %d", trial)
		checkRows(t, m, a.X)
		checkRows(t, m, b.X)
	}
}
