package bnb

import (
	"container/heap"
	"sync"

	"github.com/katalvlaran/zonealloc/relax"
)

// node is a pending subproblem.
type node struct {
	fixes []relax.Fix // owned; children copy before appending
	depth int
	bound float64 // parent's relaxation objective (-Inf at the root)
	seq   uint64  // insertion order
}

// child returns a node one level deeper with f appended to n's overrides.
func (n *node) child(f relax.Fix, bound float64) *node {
	fixes := make([]relax.Fix, len(n.fixes), len(n.fixes)+1)
	copy(fixes, n.fixes)

	return &node{fixes: append(fixes, f), depth: n.depth + 1, bound: bound}
}

// nodeHeap orders nodes deeper first, then by lower parent bound, then by
// insertion order. It implements heap.Interface.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(a, b int) bool {
	x, y := h[a], h[b]
	if x.depth != y.depth {
		return x.depth > y.depth
	}
	if x.bound != y.bound {
		return x.bound < y.bound
	}

	return x.seq < y.seq
}
func (h nodeHeap) Swap(a, b int) { h[a], h[b] = h[b], h[a] }
func (h *nodeHeap) Push(v any)   { *h = append(*h, v.(*node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return v
}

// frontier is the shared work queue. busy counts nodes handed out by pop and
// not yet reported through done; the search is over once the queue is
// empty and busy is zero, or once close was called.
type frontier struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  nodeHeap
	busy   int
	seq    uint64
	closed bool
	peak   int
}

func newFrontier() *frontier {
	f := &frontier{}
	f.cond = sync.NewCond(&f.mu)

	return f
}

// push enqueues nodes in order; earlier arguments pop first among equals.
func (f *frontier) push(nodes ...*node) {
	f.mu.Lock()
	for _, n := range nodes {
		n.seq = f.seq
		f.seq++
		heap.Push(&f.items, n)
	}
	if len(f.items) > f.peak {
		f.peak = len(f.items)
	}
	f.mu.Unlock()
	f.cond.Broadcast()
}

// pop blocks until a node is available or the search is over.
// A successful pop must be paired with done.
func (f *frontier) pop() (*node, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.items) == 0 && f.busy > 0 && !f.closed {
		f.cond.Wait()
	}
	if f.closed || len(f.items) == 0 {
		return nil, false
	}
	f.busy++

	return heap.Pop(&f.items).(*node), true
}

// done marks one popped node as fully expanded.
func (f *frontier) done() {
	f.mu.Lock()
	f.busy--
	idle := f.busy == 0 && len(f.items) == 0
	f.mu.Unlock()
	if idle {
		f.cond.Broadcast()
	}
}

// close wakes every waiter and makes further pops fail.
func (f *frontier) close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cond.Broadcast()
}

// size returns the number of queued nodes.
func (f *frontier) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.items)
}
