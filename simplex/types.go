package simplex

import "errors"

var (
	// ErrInfeasible is returned when no point satisfies rows and bounds.
	ErrInfeasible = errors.New("simplex: problem is infeasible")

	// ErrUnbounded is returned when the objective decreases without limit.
	ErrUnbounded = errors.New("simplex: problem is unbounded")

	// ErrIterationLimit is returned when the pivot budget is exhausted.
	ErrIterationLimit = errors.New("simplex: iteration limit reached")

	// ErrDimensionMismatch is returned for bound slices or term indices that
	// disagree with len(Objective).
	ErrDimensionMismatch = errors.New("simplex: dimension mismatch")

	// ErrInvalidBounds is returned for NaN bounds or a non-finite lower bound.
	ErrInvalidBounds = errors.New("simplex: invalid variable bounds")

	// ErrInvalidProblem is returned for NaN/Inf coefficients or an unknown Sense.
	ErrInvalidProblem = errors.New("simplex: invalid problem")
)

// Sense is the relation of a constraint row to its right-hand side.
type Sense int

const (
	// LessEqual is aᵣ·x ≤ bᵣ.
	LessEqual Sense = iota
	// Equal is aᵣ·x = bᵣ.
	Equal
	// GreaterEqual is aᵣ·x ≥ bᵣ.
	GreaterEqual
)

// String implements fmt.Stringer.
func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case Equal:
		return "="
	case GreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// Term is one non-zero coefficient of a row. Repeated Var entries are summed.
type Term struct {
	Var   int
	Coeff float64
}

// Row is a sparse linear constraint.
type Row struct {
	Terms []Term
	Sense Sense
	RHS   float64
}

// Problem is a minimisation LP. Lower == nil means all zeros,
// Upper == nil means all +Inf.
type Problem struct {
	Objective []float64
	Lower     []float64
	Upper     []float64
	Rows      []Row
}

// Options tunes numerical tolerances and the pivot budget.
type Options struct {
	// PivotTol is the magnitude below which a tableau entry or reduced cost
	// is treated as zero.
	PivotTol float64

	// FeasTol is the primal feasibility tolerance (bounds, phase-1 residual).
	FeasTol float64

	// MaxIterations caps the total number of pivots over both phases.
	// 0 selects max(10000, 50·(rows+cols)).
	MaxIterations int

	// Bland forces Bland's rule from the first pivot.
	Bland bool

	// DegenerateRun is the number of consecutive degenerate pivots after which
	// Dantzig pricing is abandoned for Bland's rule. 0 selects 50.
	DegenerateRun int
}

// Default tolerances.
const (
	DefaultPivotTol      = 1e-9
	DefaultFeasTol       = 1e-7
	DefaultDegenerateRun = 50
)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		PivotTol:      DefaultPivotTol,
		FeasTol:       DefaultFeasTol,
		DegenerateRun: DefaultDegenerateRun,
	}
}

// Result is an optimal vertex of the LP.
type Result struct {
	// Objective is cᵀx evaluated on X.
	Objective float64

	// X has len(Objective) entries, in the original variable space.
	X []float64

	// Iterations is the number of pivots performed over both phases.
	Iterations int
}
