package bnb

import "math"

// branchVariable returns the index of the variable to branch on, or -1 when
// every entry of x lies within tol of 0 or 1.
//
// MostFractional minimises |x−0.5| (first index wins ties);
// FirstFractional returns the first fractional index.
//
// Complexity: O(len(x)).
func branchVariable(x []float64, tol float64, rule Branching) int {
	var (
		best     = -1
		bestDist = math.Inf(1)
		k        int
		v, d     float64
	)
	for k, v = range x {
		if v <= tol || v >= 1-tol {
			continue
		}
		if rule == FirstFractional {
			return k
		}
		d = math.Abs(v - 0.5)
		if d < bestDist {
			best, bestDist = k, d
		}
	}

	return best
}
