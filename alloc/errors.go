// SPDX-License-Identifier: MIT

package alloc

import (
	"errors"

	"github.com/katalvlaran/zonealloc/bnb"
	"github.com/katalvlaran/zonealloc/model"
)

// Input errors, re-exported from package model.
var (
	ErrDimensionMismatch = model.ErrDimensionMismatch
	ErrInvalidCapacity   = model.ErrInvalidCapacity
	ErrInvalidCost       = model.ErrInvalidCost
	ErrInfeasible        = model.ErrInfeasible
)

var (
	// ErrLimitReached is returned when a limit or cancellation stopped the
	// search before any feasible allocation was found.
	ErrLimitReached = bnb.ErrLimitReached

	// ErrNumericalInstability wraps LP engine failures: an exhausted pivot
	// budget or an unexpected unbounded relaxation.
	ErrNumericalInstability = errors.New("alloc: numerical instability")

	// ErrAssignmentAmbiguous is returned when a resource's values are neither
	// clearly 0 nor clearly 1 in the final point.
	ErrAssignmentAmbiguous = errors.New("alloc: assignment ambiguous")

	// ErrVerificationFailed is returned when an allocation breaks a constraint
	// or its reported cost.
	ErrVerificationFailed = errors.New("alloc: verification failed")

	// ErrInvalidOptions is returned for malformed Options.
	ErrInvalidOptions = errors.New("alloc: invalid options")

	// ErrTooLarge is returned by BruteForce when J^I exceeds MaxBruteForceStates.
	ErrTooLarge = errors.New("alloc: instance too large for exhaustive search")
)
