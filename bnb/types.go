// SPDX-License-Identifier: MIT

package bnb

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/katalvlaran/zonealloc/relax"
)

var (
	// ErrInfeasible is returned when the search space holds no integral point.
	ErrInfeasible = errors.New("bnb: no integer-feasible assignment")

	// ErrLimitReached is returned when a limit or cancellation stops the search
	// before any integral point was found.
	ErrLimitReached = errors.New("bnb: search stopped before an incumbent was found")

	// ErrInvalidConfig is returned for negative limits or an out-of-range tolerance.
	ErrInvalidConfig = errors.New("bnb: invalid config")
)

// DefaultTolerance is the integrality tolerance.
const DefaultTolerance = 1e-6

// Branching selects the fractional variable to branch on.
type Branching int

const (
	// MostFractional picks the variable closest to 0.5 (smallest index on ties).
	MostFractional Branching = iota
	// FirstFractional picks the fractional variable with the smallest index.
	FirstFractional
)

// String implements fmt.Stringer.
func (b Branching) String() string {
	switch b {
	case MostFractional:
		return "most-fractional"
	case FirstFractional:
		return "first-fractional"
	default:
		return fmt.Sprintf("Branching(%d)", int(b))
	}
}

// ParseBranching is the inverse of Branching.String.
func ParseBranching(s string) (Branching, error) {
	switch s {
	case "most-fractional", "":
		return MostFractional, nil
	case "first-fractional":
		return FirstFractional, nil
	default:
		return 0, fmt.Errorf("%w: unknown branching rule %q", ErrInvalidConfig, s)
	}
}

// Config tunes the search. The zero value of every field selects its default.
type Config struct {
	// Relaxer solves node relaxations. nil selects relax.Simplex{}.
	Relaxer relax.Relaxer

	// Branching is the variable selection rule.
	Branching Branching

	// Tolerance is the integrality tolerance: x is integral when it lies
	// within Tolerance of 0 or 1. 0 selects DefaultTolerance.
	Tolerance float64

	// Workers is the number of goroutines expanding nodes. 0 selects 1.
	Workers int

	// TimeLimit bounds wall-clock search time. 0 means unlimited.
	TimeLimit time.Duration

	// NodeLimit bounds the number of relaxations solved. 0 means unlimited.
	NodeLimit int

	// Logger receives search events. The zero value discards them.
	Logger logr.Logger
}

// DefaultConfig returns a single-worker, unlimited search on relax.Simplex.
func DefaultConfig() Config {
	return Config{
		Relaxer:   relax.Simplex{},
		Branching: MostFractional,
		Tolerance: DefaultTolerance,
		Workers:   1,
		Logger:    logr.Discard(),
	}
}

// normalize validates c and fills defaults.
func (c Config) normalize() (Config, error) {
	if c.Tolerance < 0 || c.Tolerance >= 0.5 {
		return c, fmt.Errorf("%w: tolerance %v outside [0, 0.5)", ErrInvalidConfig, c.Tolerance)
	}
	if c.Workers < 0 || c.NodeLimit < 0 || c.TimeLimit < 0 {
		return c, fmt.Errorf("%w: negative workers, node limit or time limit", ErrInvalidConfig)
	}
	if c.Branching != MostFractional && c.Branching != FirstFractional {
		return c, fmt.Errorf("%w: %s", ErrInvalidConfig, c.Branching)
	}
	if c.Relaxer == nil {
		c.Relaxer = relax.Simplex{}
	}
	if c.Tolerance == 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.Logger.GetSink() == nil {
		c.Logger = logr.Discard()
	}

	return c, nil
}

// Status labels how an Outcome was obtained.
type Status int

const (
	// Optimal means the frontier was exhausted: the incumbent is proven optimal.
	Optimal Status = iota
	// BestEffort means a limit or cancellation stopped the search early.
	BestEffort
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case BestEffort:
		return "best-effort"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText lets Status serialise as its name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText is the inverse of MarshalText.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "optimal":
		*s = Optimal
	case "best-effort":
		*s = BestEffort
	default:
		return fmt.Errorf("bnb: unknown status %q", b)
	}

	return nil
}

// Stats summarises one search.
type Stats struct {
	Nodes        int           `json:"nodes"`         // relaxations solved
	Pruned       int           `json:"pruned"`        // nodes cut by bound (with or without an LP)
	Infeasible   int           `json:"infeasible"`    // relaxations reported infeasible
	Integral     int           `json:"integral"`      // integral relaxations reached
	Branched     int           `json:"branched"`      // nodes split into two children
	Incumbents   int           `json:"incumbents"`    // strict incumbent improvements
	MaxDepth     int           `json:"max_depth"`     // deepest node solved
	LPIterations int           `json:"lp_iterations"` // simplex pivots over all nodes
	PeakFrontier int           `json:"peak_frontier"` // largest number of queued nodes
	RootBound    float64       `json:"root_bound"`    // objective of the root relaxation
	Elapsed      time.Duration `json:"elapsed"`
}

// Outcome is the result of a successful search.
type Outcome struct {
	// X is the incumbent point, indexed like model.Index(i, j).
	X []float64

	// Objective is the incumbent's relaxation objective.
	Objective float64

	Status Status
	Stats  Stats
}
