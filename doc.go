// Package zonealloc assigns every resource to exactly one zone at minimum
// total cost while each zone receives at least its required number of
// resources, and proves the result optimal.
//
// What is inside?
//
//	A pure-Go capacitated assignment solver built from small layers:
//		• model/    — validated, immutable cost matrix + zone minimums
//		• simplex/  — dense two-phase bounded simplex on gonum matrices
//		• relax/    — LP relaxation of a model under variable fixings
//		              (own simplex or gonum's lp.Simplex)
//		• bnb/      — parallel depth-first branch and bound with a shared incumbent
//		• alloc/    — Solve, Verify, BruteForce: the public entry points
//		• instance/ — YAML/JSON/CSV instance files and a seeded generator
//		• report/   — tables and JSON reports with per-zone summaries
//		• metrics/  — Prometheus collectors for solve outcomes
//		• config/   — viper settings (flags > ZONEALLOC_* env > file > defaults)
//
// The command cmd/zonealloc wraps all of it: solve, generate, serve.
//
// The problem, for I resources and J zones:
//
//	minimise    Σ cost[i][j]·x[i][j]
//	subject to  Σ_j x[i][j] = 1          for every resource i
//	            Σ_i x[i][j] ≥ capacity[j] for every zone j
//	            x[i][j] ∈ {0, 1}
//
// Quick example:
//
//	         north  south
//	alice      1      4
//	bob        2      3
//	carol      5      1      capacity: north ≥ 1, south ≥ 1
//
//	sol, _ := alloc.Solve(ctx, cost, []int{1, 1}, alloc.DefaultOptions())
//	// alice→north, bob→north, carol→south, total cost 4, status optimal
//
//	go get github.com/katalvlaran/zonealloc
package zonealloc
