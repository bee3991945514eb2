package engine

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"heron-engine/heronmg"
)

// ParallelSearcher fans a search out over several workers in the lazy-SMP
// style: every worker runs the full iterative deepening loop on its own copy
// of the board, killers and history stay private, and the transposition
// table is shared so discoveries propagate. The deepest finished worker
// answers.
type ParallelSearcher struct {
	workers []*Searcher
	stop    atomic.Bool
}

// NewParallelSearcher builds numWorkers searchers over one shared table.
// Worker count is clamped to at least one.
func NewParallelSearcher(eval Evaluator, opts Options, numWorkers int) *ParallelSearcher {
	numWorkers = max(numWorkers, 1)
	if opts.TTSizeMB <= 0 {
		opts.TTSizeMB = 64
	}
	ps := &ParallelSearcher{}

	var shared *TransTable
	if !opts.DisableTT {
		shared = NewTransTable(opts.TTSizeMB)
	}
	for i := 0; i < numWorkers; i++ {
		w := &Searcher{eval: eval, opts: opts, tt: shared, stop: &ps.stop}
		ps.workers = append(ps.workers, w)
	}
	return ps
}

// Stop aborts the search on every worker.
func (ps *ParallelSearcher) Stop() { ps.stop.Store(true) }

// SetInfo installs a per-iteration callback on the first worker only, so
// deepening reports arrive as one ordered stream.
func (ps *ParallelSearcher) SetInfo(fn func(IterationInfo)) {
	ps.workers[0].Info = fn
}

// ClearState resets the shared table and every worker's heuristics.
func (ps *ParallelSearcher) ClearState() {
	if ps.workers[0].tt != nil {
		ps.workers[0].tt.Clear()
	}
	for _, w := range ps.workers {
		w.killers.clear()
		w.history.clear()
		w.counters.clear()
	}
}

// Search runs all workers on board copies until the limits or ctx end,
// then returns the result of the worker that completed the greatest depth.
// Node counts are summed across workers.
func (ps *ParallelSearcher) Search(ctx context.Context, b *heronmg.Board, lim Limits, gameHistory []uint64) Result {
	if status := b.GameStatus(); status.IsTerminal() {
		res := Result{Status: status}
		if status == heronmg.Checkmate {
			res.Score = -MaxScore
		}
		return res
	}

	ps.stop.Store(false)
	var totalNodes uint64

	results := make([]Result, len(ps.workers))
	g, ctx := errgroup.WithContext(ctx)

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			ps.stop.Store(true)
		case <-done:
		}
	}()

	for i, w := range ps.workers {
		i, w := i, w
		w.totalNodes = &totalNodes
		w.limitNodes = lim.Nodes
		board := b.Copy()
		g.Go(func() error {
			results[i] = w.Search(board, lim, gameHistory)
			return nil
		})
	}
	g.Wait()
	close(done)

	best := results[0]
	for _, r := range results[1:] {
		if r.Depth > best.Depth {
			best = r
		}
	}
	best.Nodes = atomic.LoadUint64(&totalNodes)
	return best
}
