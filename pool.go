package kiwi

import "golang.org/x/sync/errgroup"

// workerPool is the fixed-size pool AnalyzeAsync submits closures to:
// golang.org/x/sync/errgroup's SetLimit already gives a bounded-
// concurrency "queue of closures, N workers" shape, so there is no need
// to hand-roll a channel-based pool here.
type workerPool struct {
	g *errgroup.Group
}

// newWorkerPool builds a pool capped at numThreads concurrent closures.
// numThreads <= 1 returns a pool with no errgroup, on which submit runs
// each closure synchronously on the caller's goroutine (single-threaded
// mode).
func newWorkerPool(numThreads int) *workerPool {
	if numThreads <= 1 {
		return &workerPool{}
	}
	g := &errgroup.Group{}
	g.SetLimit(numThreads)
	return &workerPool{g: g}
}

// submit runs fn on the pool, blocking the caller only long enough to
// acquire a slot (errgroup.Group.Go blocks once SetLimit's cap is
// reached), never the closure's own duration. On a synchronous pool it
// runs fn directly and returns when fn does.
func (p *workerPool) submit(fn func()) {
	if p == nil || p.g == nil {
		fn()
		return
	}
	p.g.Go(func() error {
		fn()
		return nil
	})
}
