package instance

import "math/rand"

// defaultSeed replaces a zero seed so that the zero GenerateOptions is
// still reproducible.
const defaultSeed int64 = 1

// Stream identifiers for independent draws from one seed.
const (
	streamCost uint64 = iota + 1
	streamCapacity
	streamNames
)

// streamRNG returns the deterministic generator for one stream of seed.
// Streams are decorrelated with a SplitMix64 finaliser, so adding draws to
// one stream never shifts another.
//
// Complexity: O(1).
func streamRNG(seed int64, stream uint64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	var x uint64
	x = uint64(seed) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return rand.New(rand.NewSource(int64(x)))
}
