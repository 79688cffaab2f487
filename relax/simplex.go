package relax

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/zonealloc/model"
	"github.com/katalvlaran/zonealloc/simplex"
)

// Simplex is the default Relaxer backed by the in-module dense simplex.
// The zero value uses simplex.DefaultOptions.
type Simplex struct {
	Options simplex.Options
}

// Relax implements Relaxer.
func (s Simplex) Relax(m *model.Model, fixes []Fix) (Relaxation, error) {
	lower, upper, err := Bounds(m, fixes)
	if err != nil {
		return Relaxation{}, err
	}
	if m.Vars() == 0 {
		return Relaxation{X: []float64{}}, nil
	}

	opts := s.Options
	if opts == (simplex.Options{}) {
		opts = simplex.DefaultOptions()
	}

	res, err := simplex.Solve(Problem(m, lower, upper), opts)
	if err != nil {
		if errors.Is(err, simplex.ErrInfeasible) {
			return Relaxation{}, ErrInfeasible
		}

		return Relaxation{}, fmt.Errorf("%w: %w", ErrNumerical, err)
	}

	return Relaxation{
		Objective:  objective(m, res.X),
		X:          res.X,
		Iterations: res.Iterations,
	}, nil
}

// Problem builds the LP over variables i*J+j: one "= 1" row per resource
// and one "≥ capacity" row per zone with positive capacity. Upper bounds
// of 1 or more are dropped (implied by the partition row) unless the
// variable is fixed.
//
// Complexity: O(I·J).
func Problem(m *model.Model, lower, upper []float64) simplex.Problem {
	var (
		nI, nJ = m.Resources(), m.Zones()
		ub     = make([]float64, m.Vars())
		rows   = make([]simplex.Row, 0, nI+nJ)
		i, j   int
		k      int
		terms  []simplex.Term
	)
	for k = range ub {
		ub[k] = upper[k]
		if upper[k] >= 1 && lower[k] < upper[k] {
			ub[k] = math.Inf(1)
		}
	}

	for i = 0; i < nI; i++ {
		terms = make([]simplex.Term, nJ)
		for j = 0; j < nJ; j++ {
			terms[j] = simplex.Term{Var: m.Index(i, j), Coeff: 1}
		}
		rows = append(rows, simplex.Row{Terms: terms, Sense: simplex.Equal, RHS: 1})
	}
	for j = 0; j < nJ; j++ {
		if m.Capacity(j) == 0 {
			continue
		}
		terms = make([]simplex.Term, nI)
		for i = 0; i < nI; i++ {
			terms[i] = simplex.Term{Var: m.Index(i, j), Coeff: 1}
		}
		rows = append(rows, simplex.Row{Terms: terms, Sense: simplex.GreaterEqual, RHS: float64(m.Capacity(j))})
	}

	lb := make([]float64, len(lower))
	copy(lb, lower)

	return simplex.Problem{
		Objective: m.CostVector(),
		Lower:     lb,
		Upper:     ub,
		Rows:      rows,
	}
}
