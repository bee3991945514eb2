package heronmg

import "math/bits"

// Generation filters for the shared generator core.
const (
	genAll = iota
	genCaptures
	genQuiets
)

// checkInfo is the per-node legality context: whether the mover's king is in
// check, the block/capture mask for a single check, and per-square pin lines.
type checkInfo struct {
	inCheck     bool
	doubleCheck bool
	// checkMask: when in single check, the squares a non-king move may land
	// on (the checker or a square interposing on its line).
	checkMask uint64
	// pinLine[sq]: the squares a piece pinned on sq may still move along;
	// zero means the piece is not pinned.
	pinLine [64]uint64
}

// analyzeChecksAndPins computes check and pin state for the side to move so
// that generation can emit legal moves directly, without an apply/undo
// round trip per candidate. Correctness contract is still "exactly the moves
// the apply-then-in-check filter would keep"; the perft suite holds it to that.
func (b *Board) analyzeChecksAndPins(us Color, occ uint64) (ci checkInfo) {
	them := us.Other()
	if b.pieceBB[us][King] == 0 {
		return ci
	}
	ksq := b.KingSquare(us)

	checkers := b.AttackersTo(ksq, them, occ) &^ b.pieceBB[them][King]
	ci.inCheck = checkers != 0
	ci.doubleCheck = checkers&(checkers-1) != 0

	if ci.inCheck && !ci.doubleCheck {
		csq := Square(bits.TrailingZeros64(checkers))
		switch b.squares[csq].Type() {
		case Bishop, Rook, Queen:
			for d := 0; d < numDirs; d++ {
				if rays[d][ksq]&bit(csq) != 0 && rays[d][ksq]&checkers != 0 {
					line := rays[d][ksq] &^ rays[d][csq]
					if line&bit(csq) != 0 {
						ci.checkMask = line
					}
				}
			}
			if ci.checkMask == 0 {
				ci.checkMask = bit(csq)
			}
		default:
			// Knight or pawn checks can only be answered by capture (or a
			// king move, handled separately).
			ci.checkMask = bit(csq)
		}
	}

	// Pins: along every ray from the king, if the nearest piece is ours and
	// the next one out is an enemy slider moving on that ray, the near piece
	// may only move along the ray (including capturing the pinner).
	for d := 0; d < numDirs; d++ {
		first := firstBlocker(d, rays[d][ksq]&occ)
		if first < 0 || b.occupied[us]&bit(Square(first)) == 0 {
			continue
		}
		next := firstBlocker(d, rays[d][Square(first)]&occ)
		if next < 0 {
			continue
		}
		p := b.squares[next]
		if p.Color() != them {
			continue
		}
		diagonal := d == dirNorthEast || d == dirNorthWest || d == dirSouthEast || d == dirSouthWest
		pt := p.Type()
		if pt == Queen || (diagonal && pt == Bishop) || (!diagonal && pt == Rook) {
			ci.pinLine[first] = rays[d][ksq] &^ rays[d][next]
		}
	}
	return ci
}

// LegalMoves returns all legal moves for the side to move in a fresh slice.
func (b *Board) LegalMoves() []Move { return b.LegalMovesInto(make([]Move, 0, 64)) }

// LegalMovesInto appends all legal moves for the side to move into dst
// (reset to length zero first) and returns it. Generation order is
// deterministic: pawns, knights, bishops, rooks, queens, king, castles, each
// scanned in ascending square order.
func (b *Board) LegalMovesInto(dst []Move) []Move {
	return b.generateInto(dst, genAll)
}

// CaptureMovesInto appends all legal captures, en passant and capturing
// promotions included.
func (b *Board) CaptureMovesInto(dst []Move) []Move {
	return b.generateInto(dst, genCaptures)
}

// QuietMovesInto appends all legal non-capturing moves, castling and quiet
// promotions included.
func (b *Board) QuietMovesInto(dst []Move) []Move {
	return b.generateInto(dst, genQuiets)
}

func (b *Board) generateInto(dst []Move, filter int) []Move {
	moves := dst[:0]
	us := b.stm
	them := us.Other()
	own := b.occupied[us]
	opp := b.occupied[them]
	occ := own | opp

	ci := b.analyzeChecksAndPins(us, occ)

	// allowed combines the pin line for a square with the check mask; a
	// non-king move is legal iff its destination stays inside it.
	allowed := func(from Square) uint64 {
		mask := ^uint64(0)
		if pl := ci.pinLine[from]; pl != 0 {
			mask = pl
		}
		if ci.inCheck {
			mask &= ci.checkMask
		}
		return mask
	}

	if !ci.doubleCheck {
		moves = b.genPawnMoves(moves, filter, ci, allowed, occ, opp)

		for pieces := b.pieceBB[us][Knight]; pieces != 0; {
			from := popLSB(&pieces)
			targets := knightAttacks[from] &^ own & allowed(from)
			moves = b.emitPieceMoves(moves, filter, from, targets, opp)
		}
		for pieces := b.pieceBB[us][Bishop]; pieces != 0; {
			from := popLSB(&pieces)
			targets := BishopAttacks(from, occ) &^ own & allowed(from)
			moves = b.emitPieceMoves(moves, filter, from, targets, opp)
		}
		for pieces := b.pieceBB[us][Rook]; pieces != 0; {
			from := popLSB(&pieces)
			targets := RookAttacks(from, occ) &^ own & allowed(from)
			moves = b.emitPieceMoves(moves, filter, from, targets, opp)
		}
		for pieces := b.pieceBB[us][Queen]; pieces != 0; {
			from := popLSB(&pieces)
			targets := QueenAttacks(from, occ) &^ own & allowed(from)
			moves = b.emitPieceMoves(moves, filter, from, targets, opp)
		}
	}

	moves = b.genKingMoves(moves, filter, ci, occ, opp)
	return moves
}

func (b *Board) emitPieceMoves(moves []Move, filter int, from Square, targets, opp uint64) []Move {
	switch filter {
	case genCaptures:
		targets &= opp
	case genQuiets:
		targets &^= opp
	}
	moved := b.squares[from]
	for targets != 0 {
		to := popLSB(&targets)
		moves = append(moves, NewMove(from, to, moved, b.squares[to], NoPiece, FlagNone))
	}
	return moves
}

func (b *Board) genPawnMoves(moves []Move, filter int, ci checkInfo, allowed func(Square) uint64, occ, opp uint64) []Move {
	us := b.stm
	them := us.Other()
	forward := 8
	startRank, promoRank := 1, 7
	if us == Black {
		forward = -8
		startRank, promoRank = 6, 0
	}

	appendPromotions := func(from, to Square, captured Piece) []Move {
		moved := b.squares[from]
		for _, pt := range [4]PieceType{Queen, Rook, Bishop, Knight} {
			moves = append(moves, NewMove(from, to, moved, captured, MakePiece(us, pt), FlagNone))
		}
		return moves
	}

	for pawns := b.pieceBB[us][Pawn]; pawns != 0; {
		from := popLSB(&pawns)
		mask := allowed(from)
		moved := b.squares[from]

		// Pushes.
		if filter != genCaptures {
			one := from + Square(forward)
			if occ&bit(one) == 0 {
				if mask&bit(one) != 0 {
					if one.Rank() == promoRank {
						moves = appendPromotions(from, one, NoPiece)
					} else {
						moves = append(moves, NewMove(from, one, moved, NoPiece, NoPiece, FlagNone))
					}
				}
				if from.Rank() == startRank {
					two := one + Square(forward)
					if occ&bit(two) == 0 && mask&bit(two) != 0 {
						moves = append(moves, NewMove(from, two, moved, NoPiece, NoPiece, FlagDoublePush))
					}
				}
			}
		}

		if filter == genQuiets {
			continue
		}

		// Captures.
		for caps := pawnAttacks[us][from] & opp & mask; caps != 0; {
			to := popLSB(&caps)
			if to.Rank() == promoRank {
				moves = appendPromotions(from, to, b.squares[to])
			} else {
				moves = append(moves, NewMove(from, to, moved, b.squares[to], NoPiece, FlagNone))
			}
		}

		// En passant. The capture removes two pieces from the victim's rank,
		// so pin/check masks are not sufficient; simulate the occupancy and
		// verify the king directly (this also covers the rank-pin case of
		// both pawns vanishing from the king's rank).
		if b.epSquare != NoSquare && pawnAttacks[us][from]&bit(b.epSquare) != 0 {
			victim := epVictimSquare(us, b.epSquare)
			after := occ&^bit(from)&^bit(victim) | bit(b.epSquare)
			if b.pieceBB[us][King] != 0 && !b.attackedWithOcc(b.KingSquare(us), them, after) {
				moves = append(moves, NewMove(from, b.epSquare, moved, MakePiece(them, Pawn), NoPiece, FlagEnPassant))
			}
		}
	}
	return moves
}

// Castle geometry per side: squares that must be empty, squares the king
// crosses (which must not be attacked), and the king's path endpoints.
var castleRules = [2][2]struct {
	right      CastlingRights
	flag       MoveFlag
	kingFrom   Square
	kingTo     Square
	rookHome   Square
	emptyMask  uint64
	transitSqs [2]Square
}{
	{ // White
		{CastleWhiteKing, FlagCastleKing, 4, 6, 7, bit(5) | bit(6), [2]Square{5, 6}},
		{CastleWhiteQueen, FlagCastleQueen, 4, 2, 0, bit(1) | bit(2) | bit(3), [2]Square{3, 2}},
	},
	{ // Black
		{CastleBlackKing, FlagCastleKing, 60, 62, 63, bit(61) | bit(62), [2]Square{61, 62}},
		{CastleBlackQueen, FlagCastleQueen, 60, 58, 56, bit(57) | bit(58) | bit(59), [2]Square{59, 58}},
	},
}

func (b *Board) genKingMoves(moves []Move, filter int, ci checkInfo, occ, opp uint64) []Move {
	us := b.stm
	them := us.Other()
	if b.pieceBB[us][King] == 0 {
		return moves
	}
	from := b.KingSquare(us)
	moved := b.squares[from]

	targets := kingAttacks[from] &^ b.occupied[us]
	switch filter {
	case genCaptures:
		targets &= opp
	case genQuiets:
		targets &^= opp
	}
	for targets != 0 {
		to := popLSB(&targets)
		// Evasion legality needs the king gone from its origin square, or a
		// slider check would wrongly look blocked.
		after := occ&^bit(from) | bit(to)
		if b.attackedWithOcc(to, them, after) {
			continue
		}
		moves = append(moves, NewMove(from, to, moved, b.squares[to], NoPiece, FlagNone))
	}

	if filter == genCaptures || ci.inCheck {
		return moves
	}
	for _, rule := range castleRules[us] {
		if b.castling&rule.right == 0 {
			continue
		}
		if occ&rule.emptyMask != 0 || b.squares[rule.rookHome] != MakePiece(us, Rook) {
			continue
		}
		if b.IsSquareAttacked(rule.transitSqs[0], them) || b.IsSquareAttacked(rule.transitSqs[1], them) {
			continue
		}
		moves = append(moves, NewMove(rule.kingFrom, rule.kingTo, moved, NoPiece, NoPiece, rule.flag))
	}
	return moves
}

// PseudoLegalMoves generates moves obeying piece rules and blockers but not
// king safety. Kept for movegen diagnostics; castling requires rights and an
// empty path but ignores attacked squares.
func (b *Board) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 64)
	us := b.stm
	them := us.Other()
	own := b.occupied[us]
	opp := b.occupied[them]
	occ := own | opp

	noPin := checkInfo{}
	everything := func(Square) uint64 { return ^uint64(0) }
	moves = b.genPawnMoves(moves, genAll, noPin, everything, occ, opp)

	emit := func(from Square, targets uint64) {
		moved := b.squares[from]
		for targets != 0 {
			to := popLSB(&targets)
			moves = append(moves, NewMove(from, to, moved, b.squares[to], NoPiece, FlagNone))
		}
	}
	for pieces := b.pieceBB[us][Knight]; pieces != 0; {
		from := popLSB(&pieces)
		emit(from, knightAttacks[from]&^own)
	}
	for pieces := b.pieceBB[us][Bishop]; pieces != 0; {
		from := popLSB(&pieces)
		emit(from, BishopAttacks(from, occ)&^own)
	}
	for pieces := b.pieceBB[us][Rook]; pieces != 0; {
		from := popLSB(&pieces)
		emit(from, RookAttacks(from, occ)&^own)
	}
	for pieces := b.pieceBB[us][Queen]; pieces != 0; {
		from := popLSB(&pieces)
		emit(from, QueenAttacks(from, occ)&^own)
	}
	if b.pieceBB[us][King] != 0 {
		from := b.KingSquare(us)
		emit(from, kingAttacks[from]&^own)
		for _, rule := range castleRules[us] {
			if b.castling&rule.right != 0 && occ&rule.emptyMask == 0 &&
				b.squares[rule.rookHome] == MakePiece(us, Rook) {
				moves = append(moves, NewMove(rule.kingFrom, rule.kingTo, b.squares[from], NoPiece, NoPiece, rule.flag))
			}
		}
	}
	return moves
}

// Perft counts the legal move sequences of the given depth from this
// position. The standard movegen correctness check: results must match the
// published reference values exactly.
func Perft(b *Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	bufs := make([][]Move, depth+1)
	for i := range bufs {
		bufs[i] = make([]Move, 0, 256)
	}
	return perft(b, depth, bufs)
}

func perft(b *Board, depth int, bufs [][]Move) uint64 {
	moves := b.LegalMovesInto(bufs[depth])
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		st := b.MakeMove(m)
		nodes += perft(b, depth-1, bufs)
		b.UnmakeMove(m, st)
	}
	return nodes
}

// PerftDivide maps each legal root move to its subtree leaf count at the
// given depth, for pinpointing movegen divergences.
func PerftDivide(b *Board, depth int) map[Move]uint64 {
	out := make(map[Move]uint64)
	if depth <= 0 {
		return out
	}
	for _, m := range b.LegalMoves() {
		st := b.MakeMove(m)
		out[m] = Perft(b, depth-1)
		b.UnmakeMove(m, st)
	}
	return out
}
