// Package simplex is a small, deterministic dense linear-programming engine.
//
// It solves
//
//	minimize    cᵀx
//	subject to  aᵣ·x {≤, =, ≥} bᵣ   for every row r
//	            lⱼ ≤ xⱼ ≤ uⱼ        (lⱼ finite, uⱼ may be +Inf)
//
// with a two-phase primal simplex over a dense tableau:
//
//   - lower bounds are shifted to zero and fixed variables (uⱼ − lⱼ ≤ FeasTol)
//     are substituted out before the tableau is built;
//   - a finite upper bound becomes an explicit "≤" row;
//   - phase 1 minimises the sum of artificial variables, phase 2 the real
//     objective with the artificial columns blocked;
//   - pricing is Dantzig's rule (most negative reduced cost) until a run of
//     degenerate pivots is observed, after which Bland's rule (smallest
//     eligible index for entering and leaving) takes over for good. Bland's
//     rule cannot cycle, so every solve terminates; Options.Bland forces it
//     from the first pivot.
//
// The tableau lives in a gonum mat.Dense and row operations use gonum/floats.
//
// Errors: ErrInfeasible, ErrUnbounded, ErrIterationLimit plus input
// sentinels (ErrDimensionMismatch, ErrInvalidBounds, ErrInvalidProblem).
//
// Complexity: O(m·n) memory for m rows and n columns; each pivot is O(m·n).
// Intended for problems with up to a few thousand columns.
package simplex
