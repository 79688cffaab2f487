package alloc

import "github.com/katalvlaran/zonealloc/bnb"

// Status re-exports bnb.Status.
type Status = bnb.Status

// Solution statuses.
const (
	Optimal    = bnb.Optimal
	BestEffort = bnb.BestEffort
)

// Stats re-exports bnb.Stats.
type Stats = bnb.Stats

// Pair assigns one resource to one zone.
type Pair struct {
	Resource int `json:"resource"`
	Zone     int `json:"zone"`
}

// Solution is a verified allocation.
type Solution struct {
	// Assignment holds one Pair per resource, ordered by Resource.
	Assignment []Pair `json:"assignment"`

	// TotalCost is Σ cost[Resource][Zone] over Assignment.
	TotalCost float64 `json:"total_cost"`

	Status Status `json:"status"`
	Stats  Stats  `json:"stats"`
}

// Zones returns the zone of every resource, indexed by resource.
func (s Solution) Zones() []int {
	out := make([]int, len(s.Assignment))
	for _, p := range s.Assignment {
		if p.Resource >= 0 && p.Resource < len(out) {
			out[p.Resource] = p.Zone
		}
	}

	return out
}
