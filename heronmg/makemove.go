package heronmg

// MoveState captures the irreversible position fields a move destroys, so
// UnmakeMove can restore the board bit for bit, hash included.
type MoveState struct {
	castling CastlingRights
	epSquare Square
	rule50   int
	hash     uint64
}

// epVictimSquare gives the square of the pawn removed by an en passant
// capture landing on to, for the capturing side us.
func epVictimSquare(us Color, to Square) Square {
	if us == White {
		return to - 8
	}
	return to + 8
}

// rookCastleSquares gives the rook's origin and destination for a castling
// move by us with the given flag.
func rookCastleSquares(us Color, flag MoveFlag) (from, to Square) {
	switch {
	case us == White && flag == FlagCastleKing:
		return 7, 5
	case us == White && flag == FlagCastleQueen:
		return 0, 3
	case flag == FlagCastleKing:
		return 63, 61
	default:
		return 56, 59
	}
}

// castlingRightMask[sq] has the rights bits cleared when sq is vacated or
// captured on. Only the four rook homes and two king homes matter.
var castlingRightMask = func() [64]CastlingRights {
	var m [64]CastlingRights
	for i := range m {
		m[i] = CastleWhiteKing | CastleWhiteQueen | CastleBlackKing | CastleBlackQueen
	}
	m[0] &^= CastleWhiteQueen
	m[7] &^= CastleWhiteKing
	m[4] &^= CastleWhiteKing | CastleWhiteQueen
	m[56] &^= CastleBlackQueen
	m[63] &^= CastleBlackKing
	m[60] &^= CastleBlackKing | CastleBlackQueen
	return m
}()

// MakeMove applies m, which must be legal in the current position, and
// returns the state needed to undo it. Hash, castling rights, en passant and
// the halfmove clock are all maintained incrementally.
func (b *Board) MakeMove(m Move) MoveState {
	st := MoveState{
		castling: b.castling,
		epSquare: b.epSquare,
		rule50:   b.rule50,
		hash:     b.hash,
	}

	us := b.stm
	from, to := m.From(), m.To()
	moved := m.MovedPiece()

	if b.epSquare != NoSquare {
		b.hash ^= zobristEnPassant[b.epSquare.File()]
		b.epSquare = NoSquare
	}

	b.rule50++
	if moved.Type() == Pawn {
		b.rule50 = 0
	}

	switch m.Flag() {
	case FlagEnPassant:
		b.lift(epVictimSquare(us, to))
	case FlagCastleKing, FlagCastleQueen:
		rFrom, rTo := rookCastleSquares(us, m.Flag())
		b.lift(rFrom)
		b.put(rTo, MakePiece(us, Rook))
	default:
		if cap := m.CapturedPiece(); cap != NoPiece {
			b.lift(to)
			b.rule50 = 0
		}
	}

	b.lift(from)
	if promo := m.Promotion(); promo != NoPiece {
		b.put(to, promo)
	} else {
		b.put(to, moved)
	}

	if m.Flag() == FlagDoublePush {
		if us == White {
			b.epSquare = to - 8
		} else {
			b.epSquare = to + 8
		}
		b.hash ^= zobristEnPassant[b.epSquare.File()]
	}

	newRights := b.castling & castlingRightMask[from] & castlingRightMask[to]
	if newRights != b.castling {
		b.hash ^= zobristCastling[b.castling]
		b.hash ^= zobristCastling[newRights]
		b.castling = newRights
	}

	if us == Black {
		b.fullmove++
	}
	b.stm = us.Other()
	b.hash ^= zobristBlackMove
	return st
}

// UnmakeMove reverts m, previously applied by MakeMove with returned state st.
func (b *Board) UnmakeMove(m Move, st MoveState) {
	b.stm = b.stm.Other()
	us := b.stm
	from, to := m.From(), m.To()

	if us == Black {
		b.fullmove--
	}

	b.lift(to)
	b.put(from, m.MovedPiece())

	switch m.Flag() {
	case FlagEnPassant:
		b.put(epVictimSquare(us, to), MakePiece(us.Other(), Pawn))
	case FlagCastleKing, FlagCastleQueen:
		rFrom, rTo := rookCastleSquares(us, m.Flag())
		b.lift(rTo)
		b.put(rFrom, MakePiece(us, Rook))
	default:
		if cap := m.CapturedPiece(); cap != NoPiece {
			b.put(to, cap)
		}
	}

	b.castling = st.castling
	b.epSquare = st.epSquare
	b.rule50 = st.rule50
	b.hash = st.hash
}

// MakeNullMove passes the turn without moving. Used by the search for
// side-to-move flips during analysis; never legal as a game move.
func (b *Board) MakeNullMove() MoveState {
	st := MoveState{
		castling: b.castling,
		epSquare: b.epSquare,
		rule50:   b.rule50,
		hash:     b.hash,
	}
	if b.epSquare != NoSquare {
		b.hash ^= zobristEnPassant[b.epSquare.File()]
		b.epSquare = NoSquare
	}
	b.rule50++
	if b.stm == Black {
		b.fullmove++
	}
	b.stm = b.stm.Other()
	b.hash ^= zobristBlackMove
	return st
}

// UnmakeNullMove reverts a MakeNullMove.
func (b *Board) UnmakeNullMove(st MoveState) {
	b.stm = b.stm.Other()
	if b.stm == Black {
		b.fullmove--
	}
	b.castling = st.castling
	b.epSquare = st.epSquare
	b.rule50 = st.rule50
	b.hash = st.hash
}

// ApplyLegal applies m only if it is exactly one of the position's legal
// moves; otherwise the board is untouched and ErrIllegalMove is returned.
// This is the safe entry point for externally supplied moves. Note that a
// pawn reaching the last rank must carry a promotion piece; the bare push is
// not in the legal set and is rejected here.
func (b *Board) ApplyLegal(m Move) (MoveState, error) {
	var buf [256]Move
	for _, legal := range b.LegalMovesInto(buf[:0]) {
		if legal == m {
			return b.MakeMove(m), nil
		}
	}
	return MoveState{}, ErrIllegalMove
}

// MoveFrame is one entry of a caller-owned undo stack, pairing a move with
// the state record that reverses it.
type MoveFrame struct {
	Move  Move
	State MoveState
}

// PushMove applies m and records the undo frame on stack. When history is
// non-nil the resulting hash is appended, keeping a repetition list in step
// with the stack.
func (b *Board) PushMove(m Move, stack *[]MoveFrame, history *[]uint64) {
	st := b.MakeMove(m)
	*stack = append(*stack, MoveFrame{m, st})
	if history != nil {
		*history = append(*history, b.hash)
	}
}

// PopMove undoes the most recent PushMove, truncating stack and history by
// one entry. It panics on an empty stack.
func (b *Board) PopMove(stack *[]MoveFrame, history *[]uint64) {
	n := len(*stack)
	if n == 0 {
		panic("heronmg: PopMove on empty stack")
	}
	fr := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	b.UnmakeMove(fr.Move, fr.State)
	if history != nil && len(*history) > 0 {
		*history = (*history)[:len(*history)-1]
	}
}
