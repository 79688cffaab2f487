package alloc

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/katalvlaran/zonealloc/bnb"
	"github.com/katalvlaran/zonealloc/relax"
)

// Branching re-exports bnb.Branching.
type Branching = bnb.Branching

// Branching rules.
const (
	MostFractional  = bnb.MostFractional
	FirstFractional = bnb.FirstFractional
)

// Backend selects the LP engine used for node relaxations.
type Backend int

const (
	// Simplex is the built-in dense two-phase simplex.
	Simplex Backend = iota
	// Gonum is gonum's optimize/convex/lp.Simplex.
	Gonum
)

// String implements fmt.Stringer.
func (b Backend) String() string {
	switch b {
	case Simplex:
		return "simplex"
	case Gonum:
		return "gonum"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend is the inverse of Backend.String (case-insensitive).
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(s) {
	case "simplex", "":
		return Simplex, nil
	case "gonum":
		return Gonum, nil
	default:
		return 0, fmt.Errorf("%w: unknown backend %q", ErrInvalidOptions, s)
	}
}

// Options configures Solve.
type Options struct {
	// TimeLimit bounds the search. 0 means unlimited.
	TimeLimit time.Duration

	// NodeLimit bounds the number of relaxations. 0 means unlimited.
	NodeLimit int

	// Tolerance is the integrality tolerance used by the search and Extract.
	Tolerance float64

	// Branching is the variable selection rule.
	Branching Branching

	// Workers is the number of search goroutines.
	Workers int

	// Backend selects the LP engine.
	Backend Backend

	// Logger receives solver events. The zero value discards them.
	Logger logr.Logger

	// lp replaces the Backend relaxer when set; used by tests.
	lp relax.Relaxer
}

// DefaultOptions returns an unlimited single-worker search on the built-in
// simplex with integrality tolerance 1e-6.
func DefaultOptions() Options {
	return Options{
		Tolerance: bnb.DefaultTolerance,
		Branching: MostFractional,
		Workers:   1,
		Backend:   Simplex,
		Logger:    logr.Discard(),
	}
}

// Validate reports malformed options.
func (o Options) Validate() error {
	switch {
	case o.TimeLimit < 0:
		return fmt.Errorf("%w: negative time limit %s", ErrInvalidOptions, o.TimeLimit)
	case o.NodeLimit < 0:
		return fmt.Errorf("%w: negative node limit %d", ErrInvalidOptions, o.NodeLimit)
	case o.Tolerance < 0 || o.Tolerance >= 0.5:
		return fmt.Errorf("%w: tolerance %v outside [0, 0.5)", ErrInvalidOptions, o.Tolerance)
	case o.Workers < 0:
		return fmt.Errorf("%w: negative workers %d", ErrInvalidOptions, o.Workers)
	case o.Backend != Simplex && o.Backend != Gonum:
		return fmt.Errorf("%w: %s", ErrInvalidOptions, o.Backend)
	case o.Branching != MostFractional && o.Branching != FirstFractional:
		return fmt.Errorf("%w: %s", ErrInvalidOptions, o.Branching)
	}

	return nil
}

// relaxer returns the Relaxer for o.Backend.
func (o Options) relaxer() relax.Relaxer {
	if o.lp != nil {
		return o.lp
	}
	if o.Backend == Gonum {
		return relax.Gonum{}
	}

	return relax.Simplex{}
}

// searchConfig translates o into a bnb.Config.
func (o Options) searchConfig() bnb.Config {
	return bnb.Config{
		Relaxer:   o.relaxer(),
		Branching: o.Branching,
		Tolerance: o.tolerance(),
		Workers:   o.Workers,
		TimeLimit: o.TimeLimit,
		NodeLimit: o.NodeLimit,
		Logger:    o.Logger,
	}
}

func (o Options) tolerance() float64 {
	if o.Tolerance == 0 {
		return bnb.DefaultTolerance
	}

	return o.Tolerance
}
