package relax

import (
	"errors"
	"math"

	"github.com/katalvlaran/zonealloc/model"
)

var (
	// ErrInfeasible is returned when no fractional point satisfies the model
	// rows under the given overrides.
	ErrInfeasible = errors.New("relax: relaxation infeasible")

	// ErrNumerical wraps LP engine failures other than infeasibility
	// (iteration limit, unboundedness, singular bases).
	ErrNumerical = errors.New("relax: LP engine failure")

	// ErrInvalidFix is returned for out-of-range cells or NaN bounds.
	ErrInvalidFix = errors.New("relax: invalid bound override")
)

// boundTol is the slack allowed when comparing bound sums against row
// right-hand sides in the pre-checks.
const boundTol = 1e-9

// Fix narrows the interval of x[Resource][Zone] to [Lower, Upper].
type Fix struct {
	Resource int
	Zone     int
	Lower    float64
	Upper    float64
}

// FixZero forbids resource i in zone j.
func FixZero(i, j int) Fix { return Fix{Resource: i, Zone: j, Lower: 0, Upper: 0} }

// FixOne forces resource i into zone j.
func FixOne(i, j int) Fix { return Fix{Resource: i, Zone: j, Lower: 1, Upper: 1} }

// Relaxation is an optimal vertex of the LP relaxation.
type Relaxation struct {
	// Objective is a lower bound on every integer completion of the subproblem.
	Objective float64

	// X is indexed like model.Index(i, j).
	X []float64

	// Iterations reports the LP engine's pivot count (0 when unknown).
	Iterations int
}

// Relaxer solves the relaxation of m under fixes.
// Implementations must be safe for concurrent use on a shared *model.Model.
type Relaxer interface {
	Relax(m *model.Model, fixes []Fix) (Relaxation, error)
}

// Bounds resolves fixes into per-variable lower/upper slices and runs cheap
// row pre-checks. It returns ErrInfeasible when an override already breaks a
// partition row, a zone minimum, or its own interval.
//
// Complexity: O(I·J + len(fixes)).
func Bounds(m *model.Model, fixes []Fix) ([]float64, []float64, error) {
	var (
		n     = m.Vars()
		lower = make([]float64, n)
		upper = make([]float64, n)
		k     int
		f     Fix
	)
	for k = 0; k < n; k++ {
		upper[k] = 1
	}
	for _, f = range fixes {
		if f.Resource < 0 || f.Resource >= m.Resources() || f.Zone < 0 || f.Zone >= m.Zones() ||
			math.IsNaN(f.Lower) || math.IsNaN(f.Upper) {
			return nil, nil, ErrInvalidFix
		}
		k = m.Index(f.Resource, f.Zone)
		lower[k] = math.Max(lower[k], f.Lower)
		upper[k] = math.Min(upper[k], f.Upper)
		if lower[k] > upper[k]+boundTol {
			return nil, nil, ErrInfeasible
		}
		if lower[k] > upper[k] {
			upper[k] = lower[k]
		}
	}

	var (
		i, j     int
		sumL     float64
		sumU     float64
		nI, nJ   = m.Resources(), m.Zones()
		zoneUpps = make([]float64, nJ)
	)
	for i = 0; i < nI; i++ {
		sumL, sumU = 0, 0
		for j = 0; j < nJ; j++ {
			k = m.Index(i, j)
			sumL += lower[k]
			sumU += upper[k]
			zoneUpps[j] += upper[k]
		}
		if sumL > 1+boundTol || sumU < 1-boundTol {
			return nil, nil, ErrInfeasible
		}
	}
	for j = 0; j < nJ; j++ {
		if zoneUpps[j] < float64(m.Capacity(j))-boundTol {
			return nil, nil, ErrInfeasible
		}
	}

	return lower, upper, nil
}

// objective evaluates Σ cost·x.
func objective(m *model.Model, x []float64) float64 {
	var (
		sum float64
		k   int
		i   int
		j   int
	)
	for k = range x {
		i, j = m.Cell(k)
		sum += m.Cost(i, j) * x[k]
	}

	return sum
}
