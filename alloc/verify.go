package alloc

import (
	"fmt"
	"math"

	"github.com/katalvlaran/zonealloc/model"
)

// costTol is the relative tolerance Verify allows on TotalCost.
const costTol = 1e-9

// Extract converts a near-integral point into one Pair per resource.
// For each resource exactly one zone must satisfy x ≥ 1−tol and every other
// zone x ≤ tol; anything else yields ErrAssignmentAmbiguous.
//
// Complexity: O(I·J).
func Extract(m *model.Model, x []float64, tol float64) ([]Pair, error) {
	if len(x) != m.Vars() {
		return nil, fmt.Errorf("%w: point has %d entries, want %d", ErrAssignmentAmbiguous, len(x), m.Vars())
	}

	var (
		pairs = make([]Pair, 0, m.Resources())
		i, j  int
		zone  int
		v     float64
	)
	for i = 0; i < m.Resources(); i++ {
		zone = -1
		for j = 0; j < m.Zones(); j++ {
			v = x[m.Index(i, j)]
			switch {
			case v >= 1-tol:
				if zone >= 0 {
					return nil, fmt.Errorf("%w: resource %d selects zones %d and %d", ErrAssignmentAmbiguous, i, zone, j)
				}
				zone = j
			case v > tol:
				return nil, fmt.Errorf("%w: x[%d][%d] = %v", ErrAssignmentAmbiguous, i, j, v)
			}
		}
		if zone < 0 {
			return nil, fmt.Errorf("%w: resource %d selects no zone", ErrAssignmentAmbiguous, i)
		}
		pairs = append(pairs, Pair{Resource: i, Zone: zone})
	}

	return pairs, nil
}

// Cost sums cost[p.Resource][p.Zone] over pairs. Pairs must be in range.
func Cost(m *model.Model, pairs []Pair) float64 {
	var sum float64
	for _, p := range pairs {
		sum += m.Cost(p.Resource, p.Zone)
	}

	return sum
}

// Verify checks that sol assigns every resource of m exactly once to a valid
// zone, that every zone meets its capacity, and that TotalCost matches the
// recomputed sum within a relative 1e-9. Failures wrap ErrVerificationFailed.
//
// Complexity: O(I + J).
func Verify(m *model.Model, sol Solution) error {
	if len(sol.Assignment) != m.Resources() {
		return fmt.Errorf("%w: %d pairs for %d resources", ErrVerificationFailed, len(sol.Assignment), m.Resources())
	}

	var (
		seen   = make([]bool, m.Resources())
		counts = make([]int, m.Zones())
		p      Pair
		j      int
	)
	for _, p = range sol.Assignment {
		if p.Resource < 0 || p.Resource >= m.Resources() {
			return fmt.Errorf("%w: resource %d out of range", ErrVerificationFailed, p.Resource)
		}
		if p.Zone < 0 || p.Zone >= m.Zones() {
			return fmt.Errorf("%w: resource %d assigned to unknown zone %d", ErrVerificationFailed, p.Resource, p.Zone)
		}
		if seen[p.Resource] {
			return fmt.Errorf("%w: resource %d assigned twice", ErrVerificationFailed, p.Resource)
		}
		seen[p.Resource] = true
		counts[p.Zone]++
	}
	for j = 0; j < m.Zones(); j++ {
		if counts[j] < m.Capacity(j) {
			return fmt.Errorf("%w: zone %d has %d resources, needs %d", ErrVerificationFailed, j, counts[j], m.Capacity(j))
		}
	}

	want := Cost(m, sol.Assignment)
	if math.Abs(sol.TotalCost-want) > costTol*math.Max(1, math.Abs(want)) {
		return fmt.Errorf("%w: total cost %v, recomputed %v", ErrVerificationFailed, sol.TotalCost, want)
	}

	return nil
}
