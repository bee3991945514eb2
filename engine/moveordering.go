package engine

import (
	"heron-engine/heronmg"
)

type scoredMove struct {
	move  heronmg.Move
	score uint16
}

type moveList struct {
	moves []scoredMove
}

// Most Valuable Victim - Least Valuable Aggressor; scores captures so queen
// takes pawn sorts below pawn takes queen.
var mvvLva = [7][7]uint16{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 15}, // victim Pawn
	{0, 24, 23, 22, 21, 20, 25}, // victim Knight
	{0, 34, 33, 32, 31, 30, 35}, // victim Bishop
	{0, 44, 43, 42, 41, 40, 45}, // victim Rook
	{0, 54, 53, 52, 51, 50, 55}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},       // victim King
}

// Ordering tiers. PV and hash moves first, then promotions and captures,
// then the quiet heuristics.
const (
	pvOffset        uint16 = 25000
	promotionOffset uint16 = 20000
	captureOffset   uint16 = 15000
	killerOffset    uint16 = 2000
	counterOffset   uint16 = 1000
)

// orderNextMove selection-sorts the single best remaining move to currIndex.
// Most nodes cut off after a move or two, so fully sorting the list up front
// wastes the tail.
func orderNextMove(currIndex int, ml *moveList) {
	bestIndex := currIndex
	bestScore := ml.moves[bestIndex].score
	for i := currIndex + 1; i < len(ml.moves); i++ {
		if ml.moves[i].score > bestScore {
			bestIndex = i
			bestScore = ml.moves[i].score
		}
	}
	ml.moves[currIndex], ml.moves[bestIndex] = ml.moves[bestIndex], ml.moves[currIndex]
}

// scoreMoves assigns ordering scores: PV/hash move, promotions, MVV-LVA
// captures, killers, counter move, then history.
func (s *Searcher) scoreMoves(b *heronmg.Board, moves []heronmg.Move, ply int8, pvMove, prevMove heronmg.Move) moveList {
	ml := moveList{moves: make([]scoredMove, len(moves))}
	stm := b.SideToMove()
	for i, m := range moves {
		var score uint16
		switch {
		case m == pvMove:
			score = pvOffset
		case m.IsPromotion():
			score = promotionOffset + mvvLva[m.Promotion().Type()][heronmg.Pawn]
		case m.IsCapture():
			score = captureOffset + mvvLva[m.CapturedPiece().Type()][m.MovedPiece().Type()]
		case m == s.killers.slot(ply, 0):
			score = killerOffset + 1
		case m == s.killers.slot(ply, 1):
			score = killerOffset
		case prevMove != heronmg.NoMove && m == s.counters.get(stm, prevMove):
			score = counterOffset
		default:
			score = s.history.get(stm, m)
		}
		ml.moves[i] = scoredMove{move: m, score: score}
	}
	return ml
}

// scoreCaptures is the quiescence variant: MVV-LVA only.
func scoreCaptures(moves []heronmg.Move) moveList {
	ml := moveList{moves: make([]scoredMove, len(moves))}
	for i, m := range moves {
		var score uint16
		if m.IsPromotion() {
			score = promotionOffset + mvvLva[m.Promotion().Type()][heronmg.Pawn]
		} else {
			score = captureOffset + mvvLva[m.CapturedPiece().Type()][m.MovedPiece().Type()]
		}
		ml.moves[i] = scoredMove{move: m, score: score}
	}
	return ml
}
