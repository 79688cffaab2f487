package alloc

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/zonealloc/bnb"
	"github.com/katalvlaran/zonealloc/model"
)

// Solve builds the model from cost and capacity and solves it.
// See SolveModel for the result contract.
func Solve(ctx context.Context, cost [][]float64, capacity []int, opts Options) (Solution, error) {
	m, err := model.New(cost, capacity)
	if err != nil {
		return Solution{}, err
	}

	return SolveModel(ctx, m, opts)
}

// SolveModel runs branch-and-bound on m, extracts the incumbent and verifies
// it before returning.
//
// Errors:
//   - ErrInvalidOptions for malformed opts;
//   - ErrInfeasible when no assignment exists;
//   - ErrLimitReached when stopped before any assignment was found;
//   - ErrNumericalInstability for LP engine failures;
//   - ErrAssignmentAmbiguous or ErrVerificationFailed when the incumbent does
//     not survive extraction or verification.
func SolveModel(ctx context.Context, m *model.Model, opts Options) (Solution, error) {
	if err := opts.Validate(); err != nil {
		return Solution{}, err
	}
	log := opts.Logger.WithName("alloc")

	if m.Resources() == 0 {
		return Solution{Assignment: []Pair{}, Status: Optimal}, nil
	}

	out, err := bnb.Search(ctx, m, opts.searchConfig())
	if err != nil {
		return Solution{Stats: out.Stats}, searchError(err)
	}

	pairs, err := Extract(m, out.X, opts.tolerance())
	if err != nil {
		return Solution{Stats: out.Stats}, err
	}
	if err = checkObjective(m, pairs, out.Objective, opts.tolerance()); err != nil {
		return Solution{Stats: out.Stats}, err
	}
	sol := Solution{
		Assignment: pairs,
		TotalCost:  Cost(m, pairs),
		Status:     out.Status,
		Stats:      out.Stats,
	}
	if err = Verify(m, sol); err != nil {
		return Solution{Stats: out.Stats}, err
	}

	log.V(1).Info("solved",
		"resources", m.Resources(), "zones", m.Zones(), "slack", m.Slack(), "status", sol.Status,
		"totalCost", sol.TotalCost, "nodes", sol.Stats.Nodes, "elapsed", sol.Stats.Elapsed)

	return sol, nil
}

// checkObjective compares the search objective with the cost of the rounded
// assignment. Every variable may sit up to tol away from its rounded value,
// so the two may differ by at most tol·Σcost on top of the relative costTol.
func checkObjective(m *model.Model, pairs []Pair, objective, tol float64) error {
	var (
		got   = Cost(m, pairs)
		slack = costTol * math.Max(1, math.Abs(got))
	)
	for _, c := range m.CostVector() {
		slack += tol * c
	}
	if math.IsNaN(objective) || math.Abs(got-objective) > slack {
		return fmt.Errorf("%w: search objective %v, assignment cost %v", ErrVerificationFailed, objective, got)
	}

	return nil
}

// searchError maps bnb failures onto the alloc sentinels.
func searchError(err error) error {
	switch {
	case errors.Is(err, bnb.ErrLimitReached):
		return err
	case errors.Is(err, bnb.ErrInfeasible):
		return fmt.Errorf("%w: %w", ErrInfeasible, err)
	case errors.Is(err, bnb.ErrInvalidConfig):
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	default:
		return fmt.Errorf("%w: %w", ErrNumericalInstability, err)
	}
}
