package engine

import (
	"sync/atomic"
	"time"

	"heron-engine/heronmg"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================

const (
	// MaxScore bounds the score range; mate at ply p scores MaxScore-p.
	MaxScore int32 = 32500
	// Checkmate is the threshold above which a score means forced mate.
	Checkmate int32 = 20000
	DrawScore int32 = 0
)

// MateScore returns the score for delivering mate at the given ply. Deeper
// mates score lower, so the search prefers the shortest one.
func MateScore(ply int8) int32 { return MaxScore - int32(ply) }

// IsMateScore reports whether score encodes a forced mate for either side.
func IsMateScore(score int32) bool { return abs(score) > Checkmate }

// MateIn converts a mate score to full moves until mate, negative when the
// side to move is being mated.
func MateIn(score int32) int {
	n := int(MaxScore-abs(score)+1) / 2
	if score < 0 {
		return -n
	}
	return n
}

const aspirationWindow int32 = 35

// =============================================================================
// SEARCH TYPES
// =============================================================================

// Limits bounds a search. Zero values mean unbounded; with no limit set the
// search runs to MaxDepth unless stopped.
type Limits struct {
	Depth     int8
	Nodes     uint64
	MoveTime  time.Duration
	WhiteTime time.Duration
	BlackTime time.Duration
	WhiteInc  time.Duration
	BlackInc  time.Duration
}

// Options selects search features. The zero value enables everything; the
// Use* fields are spelled as disables so the default stays useful.
type Options struct {
	DisableTT         bool
	DisableQuiescence bool
	DisableOrdering   bool
	DisableAspiration bool
	TTSizeMB          int
}

// Result is the outcome of a search. When Status is terminal the position
// had no move to make and BestMove is NoMove.
type Result struct {
	BestMove heronmg.Move
	Score    int32
	Depth    int8
	Nodes    uint64
	Elapsed  time.Duration
	PV       []heronmg.Move
	Status   heronmg.Status
}

// PVLine is a principal variation, updated back to front as the search
// unwinds.
type PVLine struct {
	Moves []heronmg.Move
}

func (pv *PVLine) Clear() { pv.Moves = pv.Moves[:0] }

func (pv *PVLine) Update(m heronmg.Move, child *PVLine) {
	pv.Moves = append(pv.Moves[:0], m)
	pv.Moves = append(pv.Moves, child.Moves...)
}

func (pv *PVLine) Clone() PVLine {
	return PVLine{Moves: append([]heronmg.Move(nil), pv.Moves...)}
}

func (pv *PVLine) BestMove() heronmg.Move {
	if len(pv.Moves) == 0 {
		return heronmg.NoMove
	}
	return pv.Moves[0]
}

// Searcher runs iterative-deepening alpha-beta over one board at a time.
// It is not safe for concurrent Search calls; use ParallelSearcher to split
// work across goroutines.
type Searcher struct {
	eval Evaluator
	tt   *TransTable
	opts Options

	killers  killerTable
	history  historyTable
	counters counterTable
	hist     historyStack

	tm         timeManager
	stop       *atomic.Bool
	nodes      uint64
	limitNodes uint64
	totalNodes *uint64

	// Info, when set, receives one line per completed iteration.
	Info func(IterationInfo)
}

// IterationInfo describes one completed deepening iteration.
type IterationInfo struct {
	Depth   int8
	Score   int32
	Nodes   uint64
	Elapsed time.Duration
	PV      []heronmg.Move
}

// NewSearcher builds a searcher with its own transposition table.
func NewSearcher(eval Evaluator, opts Options) *Searcher {
	if opts.TTSizeMB <= 0 {
		opts.TTSizeMB = 64
	}
	s := &Searcher{eval: eval, opts: opts, stop: &atomic.Bool{}}
	if !opts.DisableTT {
		s.tt = NewTransTable(opts.TTSizeMB)
	}
	return s
}

// Stop aborts the current search; the search returns its last completed
// iteration.
func (s *Searcher) Stop() { s.stop.Store(true) }

// ClearState drops the transposition table and the quiet-move heuristics,
// for a fresh game.
func (s *Searcher) ClearState() {
	if s.tt != nil {
		s.tt.Clear()
	}
	s.killers.clear()
	s.history.clear()
	s.counters.clear()
}

// Search picks the best move for the side to move within the limits. The
// board is restored to its input state before returning. gameHistory, which
// may be nil, carries the Zobrist keys of earlier game positions for
// repetition detection.
func (s *Searcher) Search(b *heronmg.Board, lim Limits, gameHistory []uint64) Result {
	start := time.Now()
	res := Result{Status: b.GameStatus()}
	if res.Status.IsTerminal() {
		if res.Status == heronmg.Checkmate {
			res.Score = -MaxScore
		}
		return res
	}

	s.stop.Store(false)
	s.nodes = 0
	s.limitNodes = lim.Nodes
	s.tm = newTimeManager(lim, b.SideToMove(), start)
	s.killers.clear()
	s.hist.reset(b, gameHistory)

	maxDepth := lim.Depth
	if maxDepth <= 0 || maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	alpha, beta := -MaxScore, MaxScore
	window := aspirationWindow
	var pv, lastPV PVLine
	var lastScore int32
	var lastDepth int8

	for depth := int8(1); depth <= maxDepth; depth++ {
		if depth > 1 && s.tm.softExpired(time.Now()) {
			break
		}

		pv.Clear()
		score := s.alphabeta(b, alpha, beta, depth, 0, &pv, heronmg.NoMove)

		if s.stop.Load() {
			// Partial iteration; its score is untrustworthy. Keep the last
			// completed one, or fall through to the move fallback when even
			// depth 1 was cut short.
			break
		}

		// Aspiration fail: widen and repeat the same depth.
		if !s.opts.DisableAspiration && (score <= alpha || score >= beta) {
			window = min(window*2, MaxScore)
			alpha = max(score-window, -MaxScore)
			beta = min(score+window, MaxScore)
			depth--
			continue
		}

		lastScore = score
		lastDepth = depth
		lastPV = pv.Clone()

		if s.Info != nil {
			s.Info(IterationInfo{
				Depth:   depth,
				Score:   score,
				Nodes:   s.nodes,
				Elapsed: time.Since(start),
				PV:      lastPV.Moves,
			})
		}

		if IsMateScore(score) {
			break
		}
		if s.stop.Load() {
			break
		}

		if !s.opts.DisableAspiration {
			window = aspirationWindow
			alpha = max(score-window, -MaxScore)
			beta = min(score+window, MaxScore)
		}
	}

	if s.totalNodes != nil {
		atomic.AddUint64(s.totalNodes, s.nodes)
	}

	res.BestMove = lastPV.BestMove()
	res.Score = lastScore
	res.Depth = lastDepth
	res.Nodes = s.nodes
	res.Elapsed = time.Since(start)
	res.PV = lastPV.Moves
	if res.BestMove == heronmg.NoMove {
		// The clock ran out before depth 1 finished; any legal move beats
		// forfeiting.
		res.BestMove = b.LegalMoves()[0]
	}
	return res
}

// =============================================================================
// ALPHA-BETA
// =============================================================================

func (s *Searcher) alphabeta(b *heronmg.Board, alpha, beta int32, depth, ply int8, pv *PVLine, prevMove heronmg.Move) int32 {
	s.nodes++
	if s.checkAbort() {
		return 0
	}

	isRoot := ply == 0

	if !isRoot {
		if b.IsDrawBy50() || b.InsufficientMaterial() || s.hist.isRepetition(b) {
			return DrawScore
		}
		// Mate distance pruning: even a mate here cannot beat a shorter one
		// already found.
		alpha = max(alpha, -MateScore(ply))
		beta = min(beta, MateScore(ply))
		if alpha >= beta {
			return alpha
		}
	}

	if ply >= MaxDepth {
		return s.staticEval(b)
	}

	var ttMove heronmg.Move
	if s.tt != nil {
		var ttScore int32
		var usable bool
		ttMove, ttScore, usable = s.tt.probe(b.Hash(), depth, ply, alpha, beta)
		if usable && !isRoot {
			return ttScore
		}
	}

	if depth <= 0 {
		if s.opts.DisableQuiescence {
			return s.staticEval(b)
		}
		return s.quiescence(b, alpha, beta, ply)
	}

	var buf [256]heronmg.Move
	moves := b.LegalMovesInto(buf[:0])
	if len(moves) == 0 {
		if b.InCheck(b.SideToMove()) {
			return -MateScore(ply)
		}
		return DrawScore
	}

	var ml moveList
	if s.opts.DisableOrdering {
		ml = moveList{moves: make([]scoredMove, len(moves))}
		for i, m := range moves {
			ml.moves[i] = scoredMove{move: m}
		}
	} else {
		pvMove := ttMove
		if len(pv.Moves) > 0 {
			pvMove = pv.Moves[0]
		}
		ml = s.scoreMoves(b, moves, ply, pvMove, prevMove)
	}

	var childPV PVLine
	bestScore := -MaxScore
	bestMove := heronmg.NoMove
	ttFlag := int8(AlphaFlag)
	stm := b.SideToMove()

	for i := 0; i < len(ml.moves); i++ {
		if !s.opts.DisableOrdering {
			orderNextMove(i, &ml)
		}
		m := ml.moves[i].move

		st := b.MakeMove(m)
		s.hist.push(b.Hash())
		childPV.Clear()
		score := -s.alphabeta(b, -beta, -alpha, depth-1, ply+1, &childPV, m)
		s.hist.pop()
		b.UnmakeMove(m, st)

		if s.stop.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			ttFlag = ExactFlag
			pv.Update(m, &childPV)
		}
		if alpha >= beta {
			ttFlag = BetaFlag
			if !m.IsCapture() && !s.opts.DisableOrdering {
				s.killers.insert(m, ply)
				s.history.reward(stm, m, depth)
				s.counters.insert(stm, prevMove, m)
			}
			break
		}
	}

	if s.tt != nil {
		s.tt.store(b.Hash(), depth, ply, bestMove, bestScore, ttFlag)
	}
	return bestScore
}

// =============================================================================
// QUIESCENCE
// =============================================================================

// quiescence resolves captures until the position is quiet, so the horizon
// never lands in the middle of an exchange.
func (s *Searcher) quiescence(b *heronmg.Board, alpha, beta int32, ply int8) int32 {
	s.nodes++
	if s.checkAbort() {
		return 0
	}
	if ply >= MaxDepth {
		return s.staticEval(b)
	}

	standPat := s.staticEval(b)
	if standPat >= beta {
		return standPat
	}
	alpha = max(alpha, standPat)

	var buf [64]heronmg.Move
	captures := b.CaptureMovesInto(buf[:0])
	ml := scoreCaptures(captures)

	bestScore := standPat
	for i := 0; i < len(ml.moves); i++ {
		orderNextMove(i, &ml)
		m := ml.moves[i].move

		st := b.MakeMove(m)
		score := -s.quiescence(b, -beta, -alpha, ply+1)
		b.UnmakeMove(m, st)

		if s.stop.Load() {
			return 0
		}
		if score > bestScore {
			bestScore = score
		}
		alpha = max(alpha, score)
		if alpha >= beta {
			break
		}
	}
	return bestScore
}

// staticEval adapts the white-relative evaluator to the negamax convention.
func (s *Searcher) staticEval(b *heronmg.Board) int32 {
	v := s.eval.Evaluate(b)
	if b.SideToMove() == heronmg.Black {
		return -v
	}
	return v
}
