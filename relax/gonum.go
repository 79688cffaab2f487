package relax

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/zonealloc/model"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Gonum is a Relaxer that hands the relaxation to gonum's lp.Simplex after
// converting it to standard form (A·x = b, x ≥ 0).
//
// Fixed variables are substituted out and the remaining ones shifted by
// their lower bound. Each zone row gets a surplus column and each narrowed
// upper bound a slack column, which keeps A at full row rank.
type Gonum struct {
	// Tol is forwarded to lp.Simplex. 0 selects gonum's default.
	Tol float64
}

// Relax implements Relaxer.
//
// Complexity: dominated by lp.Simplex on an (I+J'+U)×(F+J'+U) matrix, where F
// is the number of free variables, J' the zones with positive capacity and U
// the narrowed upper bounds.
func (g Gonum) Relax(m *model.Model, fixes []Fix) (Relaxation, error) {
	lower, upper, err := Bounds(m, fixes)
	if err != nil {
		return Relaxation{}, err
	}

	var (
		n      = m.Vars()
		nI     = m.Resources()
		nJ     = m.Zones()
		col    = make([]int, n)
		free   []int
		capped []int
		k      int
	)
	for k = 0; k < n; k++ {
		col[k] = -1
		if upper[k] > lower[k] {
			col[k] = len(free)
			free = append(free, k)
			if upper[k] < 1 {
				capped = append(capped, k)
			}
		}
	}

	x := make([]float64, n)
	copy(x, lower)
	if len(free) == 0 {
		return Relaxation{Objective: objective(m, x), X: x}, nil
	}

	var (
		i, j    int
		zones   []int
		rows    []int // resources with at least one free variable
		hasFree bool
	)
	for i = 0; i < nI; i++ {
		hasFree = false
		for j = 0; j < nJ; j++ {
			if col[m.Index(i, j)] >= 0 {
				hasFree = true

				break
			}
		}
		if hasFree {
			rows = append(rows, i)
		}
	}
	for j = 0; j < nJ; j++ {
		if m.Capacity(j) > 0 {
			zones = append(zones, j)
		}
	}

	var (
		nFree  = len(free)
		nRows  = len(rows) + len(zones) + len(capped)
		nCols  = nFree + len(zones) + len(capped)
		A      = mat.NewDense(nRows, nCols, nil)
		b      = make([]float64, nRows)
		c      = make([]float64, nCols)
		r      int
		rhs    float64
		zi, ci int
	)
	for ci, k = range free {
		i, j = m.Cell(k)
		c[ci] = m.Cost(i, j)
	}

	// Partition rows: Σⱼ x'ᵢⱼ = 1 − Σⱼ lbᵢⱼ.
	for r, i = range rows {
		rhs = 1
		for j = 0; j < nJ; j++ {
			k = m.Index(i, j)
			rhs -= lower[k]
			if col[k] >= 0 {
				A.Set(r, col[k], 1)
			}
		}
		b[r] = rhs
	}

	// Zone rows: Σᵢ x'ᵢⱼ − sⱼ = capacity[j] − Σᵢ lbᵢⱼ.
	for zi, j = range zones {
		r = len(rows) + zi
		rhs = float64(m.Capacity(j))
		for i = 0; i < nI; i++ {
			k = m.Index(i, j)
			rhs -= lower[k]
			if col[k] >= 0 {
				A.Set(r, col[k], 1)
			}
		}
		A.Set(r, nFree+zi, -1)
		b[r] = rhs
	}

	// Upper-bound rows: x'ₖ + tₖ = ubₖ − lbₖ.
	for ci, k = range capped {
		r = len(rows) + len(zones) + ci
		A.Set(r, col[k], 1)
		A.Set(r, nFree+len(zones)+ci, 1)
		b[r] = upper[k] - lower[k]
	}

	// lp.Simplex expects b ≥ 0.
	for r = 0; r < nRows; r++ {
		if b[r] < 0 {
			b[r] = -b[r]
			for ci = 0; ci < nCols; ci++ {
				A.Set(r, ci, -A.At(r, ci))
			}
		}
	}

	_, sol, err := lp.Simplex(c, A, b, g.Tol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return Relaxation{}, ErrInfeasible
		}

		return Relaxation{}, fmt.Errorf("%w: gonum: %w", ErrNumerical, err)
	}
	for ci, k = range free {
		x[k] = lower[k] + sol[ci]
	}

	return Relaxation{Objective: objective(m, x), X: x}, nil
}
