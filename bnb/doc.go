// Package bnb is the branch-and-bound search over LP relaxations of the
// capacitated assignment problem.
//
// A node is a subproblem: the root model plus an incremental list of
// relax.Fix overrides, its depth, and the relaxation bound of its parent.
// Search repeatedly:
//
//  1. pops a node from the frontier (deeper first, then lower parent
//     bound, then insertion order);
//  2. prunes it if its inherited bound already reaches the incumbent;
//  3. solves its relaxation, pruning on infeasibility or bound;
//  4. offers integral points to the Incumbent (strict improvement only);
//  5. otherwise branches on one fractional variable, pushing the x=0 and
//     x=1 children with the child nearer the LP value popped first.
//
// Every branch fixes one more binary variable, so depth never exceeds I·J
// and the search terminates.
//
// Concurrency:
//   - Config.Workers goroutines share one frontier (mutex + sync.Cond) and
//     run under an errgroup; the search ends when the frontier is empty and
//     no worker is expanding a node.
//   - The Incumbent is the only other shared mutable state.
//   - Cancellation, Config.TimeLimit and Config.NodeLimit are checked
//     between node expansions. A stopped search returns its incumbent with
//     Status BestEffort, or ErrLimitReached when it has none.
//
// Logging goes through logr: V(1) for incumbent updates and the final
// summary, V(2) for per-node events.
package bnb
