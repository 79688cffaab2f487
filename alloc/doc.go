// Package alloc is the public entry point of zonealloc: it solves the
// capacitated assignment problem exactly and returns a verified allocation.
//
// Given I resources, J zones, a cost matrix cost[i][j] ≥ 0 and per-zone
// minimums capacity[j] with Σ capacity ≤ I, Solve assigns every resource to
// exactly one zone so that each zone j receives at least capacity[j]
// resources, minimising Σ cost[i][zone(i)]. Resources beyond the minimums go
// wherever they are cheapest.
//
// Pipeline:
//
//	model.New → bnb.Search (relax.Relaxer per node) → Extract → Verify
//
// Every returned Solution has passed Verify. A Solution with Status
// BestEffort is feasible but not proven optimal: a limit or cancellation
// stopped the search. Errors are sentinels matched with errors.Is; the
// model errors are re-exported here for convenience.
//
// BruteForce is an exhaustive reference solver for small instances.
package alloc
