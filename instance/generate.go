package instance

import (
	"errors"
	"fmt"
	"math"
)

// ErrGenerate is returned for unusable GenerateOptions.
var ErrGenerate = errors.New("instance: invalid generator options")

// GenerateOptions shapes a random instance.
type GenerateOptions struct {
	Resources int   // I ≥ 0
	Zones     int   // J ≥ 1
	Seed      int64 // 0 selects a fixed default

	// MaxCost bounds costs, drawn uniformly from [0, MaxCost] and rounded to
	// two decimals. 0 selects 100.
	MaxCost float64

	// Fill is the share of resources reserved by zone minimums, in [0, 1].
	// The reserved total is spread over zones at random.
	Fill float64

	// Named gives resources and zones generated names instead of R<i>/Z<j>.
	Named bool
}

// DefaultGenerateOptions returns a 12×3 instance reserving half the resources.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{Resources: 12, Zones: 3, MaxCost: 100, Fill: 0.5}
}

var zoneWords = []string{"north", "south", "east", "west", "central", "harbor", "airport", "uptown"}

// Generate builds a deterministic random instance: the same options always
// yield the same instance.
//
// Complexity: O(I·J).
func Generate(opts GenerateOptions) (*Instance, error) {
	if opts.Resources < 0 || opts.Zones < 1 || opts.MaxCost < 0 ||
		math.IsNaN(opts.Fill) || opts.Fill < 0 || opts.Fill > 1 || math.IsInf(opts.MaxCost, 0) {
		return nil, fmt.Errorf("%w: %+v", ErrGenerate, opts)
	}
	maxCost := opts.MaxCost
	if maxCost == 0 {
		maxCost = 100
	}

	var (
		nI, nJ = opts.Resources, opts.Zones
		in     = &Instance{
			Name:     fmt.Sprintf("gen-%dx%d-s%d", nI, nJ, opts.Seed),
			Cost:     make([][]float64, nI),
			Capacity: make([]int, nJ),
		}
		costRNG = streamRNG(opts.Seed, streamCost)
		capRNG  = streamRNG(opts.Seed, streamCapacity)
		i, j    int
	)
	for i = 0; i < nI; i++ {
		in.Cost[i] = make([]float64, nJ)
		for j = 0; j < nJ; j++ {
			in.Cost[i][j] = math.Round(costRNG.Float64()*maxCost*100) / 100
		}
	}

	reserved := int(math.Floor(opts.Fill * float64(nI)))
	for reserved > 0 {
		in.Capacity[capRNG.Intn(nJ)]++
		reserved--
	}

	if opts.Named {
		nameRNG := streamRNG(opts.Seed, streamNames)
		in.Resources = make([]string, nI)
		for i = 0; i < nI; i++ {
			in.Resources[i] = fmt.Sprintf("res-%03d", i)
		}
		in.Zones = make([]string, nJ)
		perm := nameRNG.Perm(len(zoneWords))
		for j = 0; j < nJ; j++ {
			if j < len(perm) {
				in.Zones[j] = zoneWords[perm[j]]
			} else {
				in.Zones[j] = fmt.Sprintf("zone-%d", j)
			}
		}
	}

	return in, nil
}
