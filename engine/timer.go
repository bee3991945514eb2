package engine

import (
	"sync/atomic"
	"time"

	"heron-engine/heronmg"
)

// nodeCheckMask gates the deadline poll: the clock is read once every 4096
// nodes, the stop flag on every node.
const nodeCheckMask = 4095

// timeManager converts a game clock or a fixed move time into soft and hard
// deadlines. The soft deadline stops starting new iterations; the hard
// deadline aborts the search mid-iteration, whose partial result is then
// discarded.
type timeManager struct {
	start    time.Time
	softStop time.Time
	hardStop time.Time
	infinite bool
}

func newTimeManager(lim Limits, stm heronmg.Color, now time.Time) timeManager {
	tm := timeManager{start: now}
	switch {
	case lim.MoveTime > 0:
		tm.softStop = now.Add(lim.MoveTime)
		tm.hardStop = now.Add(lim.MoveTime)
	case lim.WhiteTime > 0 || lim.BlackTime > 0:
		budget := clockBudget(lim, stm)
		tm.softStop = now.Add(budget)
		tm.hardStop = now.Add(min(budget*3, budget+2*time.Second))
	default:
		tm.infinite = true
	}
	return tm
}

// clockBudget allots a slice of the remaining clock, assuming around forty
// moves left and banking most of the increment.
func clockBudget(lim Limits, stm heronmg.Color) time.Duration {
	remaining, inc := lim.WhiteTime, lim.WhiteInc
	if stm == heronmg.Black {
		remaining, inc = lim.BlackTime, lim.BlackInc
	}
	if remaining <= 0 {
		return 5 * time.Millisecond
	}
	budget := remaining/40 + inc*3/4
	return clamp(budget, 5*time.Millisecond, remaining/2)
}

func (tm *timeManager) softExpired(now time.Time) bool {
	return !tm.infinite && now.After(tm.softStop)
}

func (tm *timeManager) hardExpired(now time.Time) bool {
	return !tm.infinite && now.After(tm.hardStop)
}

// checkAbort is called once per node. It reads the wall clock only on the
// node-count mask and latches the stop flag so every worker halts.
func (s *Searcher) checkAbort() bool {
	if s.stop.Load() {
		return true
	}
	if s.nodes&nodeCheckMask == 0 {
		if s.limitNodes > 0 && s.sharedNodes() >= s.limitNodes {
			s.stop.Store(true)
			return true
		}
		if s.tm.hardExpired(time.Now()) {
			s.stop.Store(true)
			return true
		}
	}
	return false
}

func (s *Searcher) sharedNodes() uint64 {
	if s.totalNodes != nil {
		return atomic.LoadUint64(s.totalNodes) + s.nodes
	}
	return s.nodes
}
