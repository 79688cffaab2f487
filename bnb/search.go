package bnb

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/katalvlaran/zonealloc/model"
	"github.com/katalvlaran/zonealloc/relax"
	"golang.org/x/sync/errgroup"
)

// counters back Stats while workers run.
type counters struct {
	nodes        atomic.Int64
	pruned       atomic.Int64
	infeasible   atomic.Int64
	integral     atomic.Int64
	branched     atomic.Int64
	incumbents   atomic.Int64
	maxDepth     atomic.Int64
	lpIterations atomic.Int64
}

// observeDepth raises maxDepth to d.
func (c *counters) observeDepth(d int64) {
	for {
		cur := c.maxDepth.Load()
		if d <= cur || c.maxDepth.CompareAndSwap(cur, d) {
			return
		}
	}
}

// engine holds the state shared by all workers of one Search call.
type engine struct {
	m        *model.Model
	cfg      Config
	log      logr.Logger
	inc      *Incumbent
	front    *frontier
	ctrs     counters
	deadline time.Time

	rootBound float64 // written once by the worker that solves the root

	stopOnce sync.Once
	stopped  atomic.Bool
	reason   string
}

// Search runs branch-and-bound on m and returns the best integral point.
//
// Errors:
//   - ErrInvalidConfig for a malformed cfg;
//   - ErrInfeasible when no integral point exists;
//   - ErrLimitReached (wrapping ctx.Err() on cancellation) when stopped with
//     no incumbent;
//   - any relaxation failure other than relax.ErrInfeasible, wrapped.
//
// Complexity: exponential in I·J in the worst case; each node costs one LP.
func Search(ctx context.Context, m *model.Model, cfg Config) (Outcome, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return Outcome{}, err
	}

	var (
		start = time.Now()
		e     = &engine{
			m:         m,
			cfg:       cfg,
			log:       cfg.Logger.WithName("bnb"),
			inc:       NewIncumbent(),
			front:     newFrontier(),
			rootBound: math.Inf(-1),
		}
	)
	if cfg.TimeLimit > 0 {
		e.deadline = start.Add(cfg.TimeLimit)
	}
	e.front.push(&node{bound: math.Inf(-1)})

	g, gctx := errgroup.WithContext(ctx)
	var w int
	for w = 0; w < cfg.Workers; w++ {
		id := w
		g.Go(func() error { return e.work(gctx, id) })
	}
	err = g.Wait()

	st := e.stats()
	st.Elapsed = time.Since(start)
	if err != nil {
		return Outcome{Stats: st}, err
	}

	obj, x, found := e.inc.Snapshot()
	e.log.V(1).Info("search finished",
		"found", found, "objective", obj, "stopped", e.stopped.Load(),
		"nodes", st.Nodes, "pruned", st.Pruned, "maxDepth", st.MaxDepth, "elapsed", st.Elapsed)

	if e.stopped.Load() {
		if !found {
			if cerr := ctx.Err(); cerr != nil {
				return Outcome{Stats: st}, fmt.Errorf("%w: %w", ErrLimitReached, cerr)
			}

			return Outcome{Stats: st}, fmt.Errorf("%w: %s", ErrLimitReached, e.reason)
		}

		return Outcome{X: x, Objective: obj, Status: BestEffort, Stats: st}, nil
	}
	if !found {
		return Outcome{Stats: st}, ErrInfeasible
	}

	return Outcome{X: x, Objective: obj, Status: Optimal, Stats: st}, nil
}

// work pops and expands nodes until the frontier is exhausted or closed.
func (e *engine) work(ctx context.Context, id int) error {
	var (
		log = e.log.WithValues("worker", id)
		nd  *node
		ok  bool
		err error
	)
	for {
		if nd, ok = e.front.pop(); !ok {
			return nil
		}
		if reason := e.limit(ctx); reason != "" {
			e.halt(reason, log)
			e.front.done()

			return nil
		}
		err = e.expand(nd, log)
		e.front.done()
		if err != nil {
			e.front.close()

			return err
		}
	}
}

// limit returns a non-empty reason when the search must stop.
func (e *engine) limit(ctx context.Context) string {
	if ctx.Err() != nil {
		return "cancelled"
	}
	if !e.deadline.IsZero() && time.Now().After(e.deadline) {
		return "time limit"
	}
	if e.cfg.NodeLimit > 0 && e.ctrs.nodes.Load() >= int64(e.cfg.NodeLimit) {
		return "node limit"
	}

	return ""
}

// halt records the first stop reason and closes the frontier.
func (e *engine) halt(reason string, log logr.Logger) {
	e.stopOnce.Do(func() {
		e.reason = reason
		e.stopped.Store(true)
		log.V(1).Info("search stopped", "reason", reason, "open", e.front.size()+1)
	})
	e.front.close()
}

// expand processes one node: prune, relax, accept or branch.
func (e *engine) expand(nd *node, log logr.Logger) error {
	if e.inc.Prunes(nd.bound) {
		e.ctrs.pruned.Add(1)
		log.V(2).Info("pruned by parent bound", "depth", nd.depth, "bound", nd.bound)

		return nil
	}

	rel, err := e.cfg.Relaxer.Relax(e.m, nd.fixes)
	e.ctrs.nodes.Add(1)
	if err != nil {
		if errors.Is(err, relax.ErrInfeasible) {
			e.ctrs.infeasible.Add(1)
			log.V(2).Info("infeasible", "depth", nd.depth)

			return nil
		}

		return fmt.Errorf("bnb: relaxation at depth %d: %w", nd.depth, err)
	}
	e.ctrs.lpIterations.Add(int64(rel.Iterations))
	e.ctrs.observeDepth(int64(nd.depth))
	if nd.depth == 0 {
		e.rootBound = rel.Objective
	}

	if e.inc.Prunes(rel.Objective) {
		e.ctrs.pruned.Add(1)
		log.V(2).Info("pruned by bound", "depth", nd.depth, "bound", rel.Objective)

		return nil
	}

	k := branchVariable(rel.X, e.cfg.Tolerance, e.cfg.Branching)
	if k < 0 {
		e.ctrs.integral.Add(1)
		if e.inc.Offer(rel.Objective, rel.X) {
			e.ctrs.incumbents.Add(1)
			log.V(1).Info("incumbent improved", "objective", rel.Objective, "depth", nd.depth)
		}

		return nil
	}

	i, j := e.m.Cell(k)
	zero := nd.child(relax.FixZero(i, j), rel.Objective)
	one := nd.child(relax.FixOne(i, j), rel.Objective)
	if rel.X[k] >= 0.5 {
		e.front.push(one, zero)
	} else {
		e.front.push(zero, one)
	}
	e.ctrs.branched.Add(1)
	log.V(2).Info("branched", "depth", nd.depth, "bound", rel.Objective,
		"resource", i, "zone", j, "value", rel.X[k])

	return nil
}

// stats snapshots the counters.
func (e *engine) stats() Stats {
	e.front.mu.Lock()
	peak := e.front.peak
	e.front.mu.Unlock()

	return Stats{
		Nodes:        int(e.ctrs.nodes.Load()),
		Pruned:       int(e.ctrs.pruned.Load()),
		Infeasible:   int(e.ctrs.infeasible.Load()),
		Integral:     int(e.ctrs.integral.Load()),
		Branched:     int(e.ctrs.branched.Load()),
		Incumbents:   int(e.ctrs.incumbents.Load()),
		MaxDepth:     int(e.ctrs.maxDepth.Load()),
		LPIterations: int(e.ctrs.lpIterations.Load()),
		PeakFrontier: peak,
		RootBound:    e.rootBound,
	}
}
