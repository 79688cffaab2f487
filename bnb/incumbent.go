package bnb

import (
	"math"
	"sync"
)

// gapTol is the relative gap below which a bound is considered to reach the
// incumbent.
const gapTol = 1e-9

// Incumbent is the best integral point found so far.
// It starts at +Inf and is replaced only on strict improvement.
type Incumbent struct {
	mu    sync.Mutex
	value float64
	x     []float64
	found bool
}

// NewIncumbent returns an empty incumbent with value +Inf.
func NewIncumbent() *Incumbent {
	return &Incumbent{value: math.Inf(1)}
}

// Offer installs (objective, x) if objective is strictly below the current
// value. x is copied. It reports whether the incumbent changed.
func (in *Incumbent) Offer(objective float64, x []float64) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	if !(objective < in.value) {
		return false
	}
	in.value = objective
	in.x = append(in.x[:0:0], x...)
	in.found = true

	return true
}

// Value returns the current objective (+Inf when empty).
func (in *Incumbent) Value() float64 {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.value
}

// Prunes reports whether a subproblem with lower bound bound cannot strictly
// improve on the incumbent.
func (in *Incumbent) Prunes(bound float64) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	if !in.found {
		return false
	}

	return bound >= in.value-gapTol*math.Max(1, math.Abs(in.value))
}

// Snapshot returns a copy of the incumbent state.
func (in *Incumbent) Snapshot() (float64, []float64, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.value, append([]float64(nil), in.x...), in.found
}
