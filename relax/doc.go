// Package relax builds and solves the linear relaxation of the capacitated
// assignment problem for a model plus a list of per-variable bound overrides:
//
//	minimize   Σᵢⱼ cost[i][j]·x[i][j]
//	subject to Σⱼ x[i][j]  = 1            for each resource i
//	           Σᵢ x[i][j] ≥ capacity[j]   for each zone j
//	           lb[i][j] ≤ x[i][j] ≤ ub[i][j]   (default [0, 1])
//
// Overrides (Fix) are applied in order and intersect the current interval,
// so a later fix can only narrow what an earlier one allowed.
//
// The unit upper bound is implied by the partition row together with x ≥ 0,
// so only overrides that narrow it below 1 reach the LP as explicit rows.
//
// Two interchangeable Relaxer backends are provided:
//
//   - Simplex: the in-module dense two-phase simplex (package simplex);
//   - Gonum:   gonum's optimize/convex/lp.Simplex on the equivalent
//     standard-form program.
//
// Both report ErrInfeasible when the overrides leave no fractional point;
// any other failure is an LP engine error and is wrapped with ErrNumerical.
package relax
