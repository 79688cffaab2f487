package model

import (
	"fmt"
	"math"
)

// Model is the validated, immutable assignment instance.
type Model struct {
	resources int       // I
	zones     int       // J
	cost      []float64 // row-major I×J
	capacity  []int     // len J
	total     int       // sum(capacity)
}

// New validates cost and capacity and returns a Model holding deep copies.
//
// Contract:
//   - len(capacity) = J ≥ 1 and every cost row has length J (ErrDimensionMismatch);
//   - every cost entry is finite and ≥ 0 (ErrInvalidCost);
//   - every capacity is ≥ 0 and sum(capacity) ≤ len(cost) (ErrInvalidCapacity;
//     the sum violation additionally matches ErrInfeasible).
//
// Zero resources are allowed as long as every capacity is zero.
//
// Complexity: O(I·J).
func New(cost [][]float64, capacity []int) (*Model, error) {
	var (
		nI = len(cost)
		nJ = len(capacity)
	)
	if nJ == 0 {
		return nil, fmt.Errorf("%w: no zones", ErrDimensionMismatch)
	}

	m := &Model{
		resources: nI,
		zones:     nJ,
		cost:      make([]float64, nI*nJ),
		capacity:  make([]int, nJ),
	}

	var (
		i, j int
		c    float64
	)
	for i = 0; i < nI; i++ {
		if len(cost[i]) != nJ {
			return nil, fmt.Errorf("%w: cost row %d has %d entries, want %d",
				ErrDimensionMismatch, i, len(cost[i]), nJ)
		}
		for j = 0; j < nJ; j++ {
			c = cost[i][j]
			if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
				return nil, fmt.Errorf("%w: cost[%d][%d] = %v", ErrInvalidCost, i, j, c)
			}
			m.cost[i*nJ+j] = c
		}
	}

	for j = 0; j < nJ; j++ {
		if capacity[j] < 0 {
			return nil, fmt.Errorf("%w: capacity[%d] = %d", ErrInvalidCapacity, j, capacity[j])
		}
		m.capacity[j] = capacity[j]
		m.total += capacity[j]
	}
	if m.total > nI {
		return nil, fmt.Errorf("%w: total capacity %d exceeds %d resources (%w)",
			ErrInvalidCapacity, m.total, nI, ErrInfeasible)
	}

	return m, nil
}

// Resources returns I, the number of resources (cost rows).
func (m *Model) Resources() int { return m.resources }

// Zones returns J, the number of zones (cost columns).
func (m *Model) Zones() int { return m.zones }

// Vars returns I·J, the number of decision variables.
func (m *Model) Vars() int { return m.resources * m.zones }

// Cost returns cost[i][j]. It panics on out-of-range indices like a slice would.
func (m *Model) Cost(i, j int) float64 { return m.cost[i*m.zones+j] }

// Capacity returns the minimum number of resources zone j must receive.
func (m *Model) Capacity(j int) int { return m.capacity[j] }

// TotalCapacity returns sum(capacity).
func (m *Model) TotalCapacity() int { return m.total }

// Index maps (i, j) to the flat variable index i*J + j.
func (m *Model) Index(i, j int) int { return i*m.zones + j }

// Cell maps a flat variable index back to (resource, zone).
func (m *Model) Cell(k int) (int, int) { return k / m.zones, k % m.zones }

// CostVector returns a copy of the row-major cost vector (the LP objective).
func (m *Model) CostVector() []float64 {
	out := make([]float64, len(m.cost))
	copy(out, m.cost)

	return out
}

// Slack returns I − sum(capacity): how many resources are free to go to
// whichever zone is cheapest once every minimum is met.
func (m *Model) Slack() int { return m.resources - m.total }
