package heronmg

// Status classifies a position for the side to move.
type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	DrawByRule
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawByRule:
		return "draw"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the game is over at this status.
func (s Status) IsTerminal() bool { return s != Ongoing }

// GameStatus classifies the current position. Checkmate and stalemate take
// precedence over the fifty-move rule when both apply; a mating move on the
// hundredth halfmove still ends the game.
func (b *Board) GameStatus() Status {
	if !b.HasLegalMoves() {
		if b.InCheck(b.stm) {
			return Checkmate
		}
		return Stalemate
	}
	if b.IsDrawBy50() || b.InsufficientMaterial() {
		return DrawByRule
	}
	return Ongoing
}

// InsufficientMaterial reports the dead positions with no mating material:
// bare kings, king and minor piece against king, and king and bishop against
// king and bishop with both bishops on the same square color.
func (b *Board) InsufficientMaterial() bool {
	for c := White; c <= Black; c++ {
		if b.pieceBB[c][Pawn]|b.pieceBB[c][Rook]|b.pieceBB[c][Queen] != 0 {
			return false
		}
	}
	wMinors := popCount(b.pieceBB[White][Knight] | b.pieceBB[White][Bishop])
	bMinors := popCount(b.pieceBB[Black][Knight] | b.pieceBB[Black][Bishop])
	if wMinors+bMinors <= 1 {
		return true
	}
	if wMinors == 1 && bMinors == 1 &&
		b.pieceBB[White][Knight] == 0 && b.pieceBB[Black][Knight] == 0 {
		const lightSquares = uint64(0x55AA55AA55AA55AA)
		wLight := b.pieceBB[White][Bishop]&lightSquares != 0
		bLight := b.pieceBB[Black][Bishop]&lightSquares != 0
		return wLight == bLight
	}
	return false
}
