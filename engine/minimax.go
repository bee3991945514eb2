package engine

import (
	"heron-engine/heronmg"
)

// Minimax is an unpruned negamax search. It is the reference the pruned
// search is measured against: for any position and depth, alpha-beta with
// quiescence and the transposition table disabled returns the same score.
// Far too slow for play; it exists for verification.
type Minimax struct {
	eval  Evaluator
	hist  historyStack
	Nodes uint64
}

// NewMinimax builds a reference searcher over the given evaluator.
func NewMinimax(eval Evaluator) *Minimax {
	return &Minimax{eval: eval}
}

// Search exhaustively evaluates every line to the given depth and returns
// the best move with its score from the side to move's point of view. Ties
// resolve to the earliest move in generation order, matching alpha-beta's
// strict improvement rule.
func (mm *Minimax) Search(b *heronmg.Board, depth int8) (heronmg.Move, int32) {
	mm.Nodes = 0
	mm.hist.reset(b, nil)

	bestMove := heronmg.NoMove
	bestScore := -MaxScore
	for _, m := range b.LegalMoves() {
		st := b.MakeMove(m)
		mm.hist.push(b.Hash())
		score := -mm.negamax(b, depth-1, 1)
		mm.hist.pop()
		b.UnmakeMove(m, st)
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
	}
	return bestMove, bestScore
}

func (mm *Minimax) negamax(b *heronmg.Board, depth, ply int8) int32 {
	mm.Nodes++

	// Node order mirrors the pruned search exactly: draw rules, then the
	// horizon, then terminal detection. Any divergence here breaks the
	// score-equality contract between the two searches.
	if b.IsDrawBy50() || b.InsufficientMaterial() || mm.hist.isRepetition(b) {
		return DrawScore
	}

	if depth <= 0 {
		v := mm.eval.Evaluate(b)
		if b.SideToMove() == heronmg.Black {
			return -v
		}
		return v
	}

	var buf [256]heronmg.Move
	moves := b.LegalMovesInto(buf[:0])
	if len(moves) == 0 {
		if b.InCheck(b.SideToMove()) {
			return -MateScore(ply)
		}
		return DrawScore
	}

	bestScore := -MaxScore
	for _, m := range moves {
		st := b.MakeMove(m)
		mm.hist.push(b.Hash())
		score := -mm.negamax(b, depth-1, ply+1)
		mm.hist.pop()
		b.UnmakeMove(m, st)
		if score > bestScore {
			bestScore = score
		}
	}
	return bestScore
}
