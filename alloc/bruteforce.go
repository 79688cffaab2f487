package alloc

import (
	"fmt"
	"math"

	"github.com/katalvlaran/zonealloc/model"
)

// MaxBruteForceStates bounds J^I for BruteForce.
const MaxBruteForceStates = 1 << 22

// BruteForce enumerates every assignment of m in lexicographic order and
// returns the cheapest feasible one (the first found on ties). Branches that
// can no longer meet the remaining zone minimums are cut.
//
// It returns ErrTooLarge when J^I exceeds MaxBruteForceStates.
//
// Complexity: O(J^I) time, O(I+J) memory.
func BruteForce(m *model.Model) (Solution, error) {
	var (
		nI, nJ = m.Resources(), m.Zones()
		states = 1
		i      int
	)
	for i = 0; i < nI; i++ {
		if states > MaxBruteForceStates/nJ {
			return Solution{}, fmt.Errorf("%w: %d zones ^ %d resources", ErrTooLarge, nJ, nI)
		}
		states *= nJ
	}

	var (
		assign  = make([]int, nI)
		best    = make([]int, nI)
		bestVal = math.Inf(1)
		counts  = make([]int, nJ)
		deficit = m.TotalCapacity() // Σ max(0, capacity[j] − counts[j])
		rec     func(i int, cost float64)
	)
	rec = func(i int, cost float64) {
		if deficit > nI-i || cost >= bestVal {
			return
		}
		if i == nI {
			bestVal = cost
			copy(best, assign)

			return
		}
		var j int
		for j = 0; j < nJ; j++ {
			assign[i] = j
			counts[j]++
			if counts[j] <= m.Capacity(j) {
				deficit--
			}
			rec(i+1, cost+m.Cost(i, j))
			if counts[j] <= m.Capacity(j) {
				deficit++
			}
			counts[j]--
		}
	}
	rec(0, 0)

	if math.IsInf(bestVal, 1) {
		return Solution{}, ErrInfeasible
	}

	sol := Solution{Assignment: make([]Pair, nI), Status: Optimal}
	for i = 0; i < nI; i++ {
		sol.Assignment[i] = Pair{Resource: i, Zone: best[i]}
	}
	sol.TotalCost = Cost(m, sol.Assignment)

	return sol, nil
}
