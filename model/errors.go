// SPDX-License-Identifier: MIT
// Package model: sentinel error set.
// Every message is prefixed with "model: ...". Callers match with errors.Is;
// context is added with fmt.Errorf("...: %w", ErrX) at the boundary.

package model

import "errors"

var (
	// ErrDimensionMismatch is returned when the capacity vector length differs
	// from the number of cost columns, or when there are no zones at all.
	ErrDimensionMismatch = errors.New("model: dimension mismatch")

	// ErrInvalidCapacity is returned for a negative capacity or when the total
	// required capacity exceeds the number of resources.
	ErrInvalidCapacity = errors.New("model: invalid capacity")

	// ErrInvalidCost is returned for NaN, ±Inf or negative cost entries.
	ErrInvalidCost = errors.New("model: invalid cost")

	// ErrInfeasible marks an instance for which no assignment satisfies every
	// constraint. It is shared by the solver packages so that a structural
	// rejection and a search-proven one match the same sentinel.
	ErrInfeasible = errors.New("model: infeasible")
)
