package heronmg

// MoveFlag marks the special-move kind of a Move.
type MoveFlag uint8

const (
	FlagNone MoveFlag = iota
	FlagDoublePush
	FlagEnPassant
	FlagCastleKing
	FlagCastleQueen
)

// Move packs a complete move description into 32 bits:
//
//	bits  0-5   from square
//	bits  6-11  to square
//	bits 12-15  moved piece
//	bits 16-19  captured piece (NoPiece if quiet)
//	bits 20-23  promotion piece (NoPiece unless promoting)
//	bits 24-26  MoveFlag
//
// A Move is immutable once generated. The zero value doubles as "no move".
type Move uint32

// NoMove is the absent-move sentinel.
const NoMove Move = 0

const (
	moveToShift    = 6
	movePieceShift = 12
	moveCapShift   = 16
	movePromoShift = 20
	moveFlagShift  = 24
)

// NewMove assembles a Move from its components.
func NewMove(from, to Square, moved, captured, promo Piece, flag MoveFlag) Move {
	return Move(uint32(from&63) |
		uint32(to&63)<<moveToShift |
		uint32(moved&15)<<movePieceShift |
		uint32(captured&15)<<moveCapShift |
		uint32(promo&15)<<movePromoShift |
		uint32(flag&7)<<moveFlagShift)
}

// From returns the source square.
func (m Move) From() Square { return Square(m & 63) }

// To returns the destination square.
func (m Move) To() Square { return Square(m >> moveToShift & 63) }

// MovedPiece returns the piece being moved.
func (m Move) MovedPiece() Piece { return Piece(m >> movePieceShift & 15) }

// CapturedPiece returns the captured piece, or NoPiece. For en-passant the
// victim pawn stands behind the destination square, not on it.
func (m Move) CapturedPiece() Piece { return Piece(m >> moveCapShift & 15) }

// Promotion returns the promotion piece, or NoPiece.
func (m Move) Promotion() Piece { return Piece(m >> movePromoShift & 15) }

// Flag returns the special-move kind.
func (m Move) Flag() MoveFlag { return MoveFlag(m >> moveFlagShift & 7) }

// IsCapture reports whether the move takes a piece (including en passant).
func (m Move) IsCapture() bool { return m.CapturedPiece() != NoPiece }

// IsCastle reports whether the move is a castle on either wing.
func (m Move) IsCastle() bool {
	f := m.Flag()
	return f == FlagCastleKing || f == FlagCastleQueen
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool { return m.Promotion() != NoPiece }

// String renders the move in UCI coordinate form ("e2e4", "e7e8q").
// NoMove renders as the UCI null move "0000".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if p := m.Promotion(); p != NoPiece {
		s += string(promoChar(p.Type()))
	}
	return s
}

func promoChar(pt PieceType) byte {
	switch pt {
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	}
	return '?'
}

// ParseMove interprets UCI coordinate notation against the current position,
// returning the matching legal move. It fails with ErrIllegalMove when the
// named move is not legal here, including the incomplete-move case of a pawn
// push to the last rank with no promotion piece.
func (b *Board) ParseMove(str string) (Move, error) {
	if len(str) < 4 || len(str) > 5 {
		return NoMove, errBadMoveString
	}
	from, err := ParseSquare(str[:2])
	if err != nil {
		return NoMove, errBadMoveString
	}
	to, err := ParseSquare(str[2:4])
	if err != nil {
		return NoMove, errBadMoveString
	}
	var promo PieceType
	if len(str) == 5 {
		switch str[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, errBadMoveString
		}
	}
	for _, m := range b.LegalMoves() {
		if m.From() != from || m.To() != to {
			continue
		}
		if m.Promotion().Type() != promo {
			continue
		}
		return m, nil
	}
	return NoMove, ErrIllegalMove
}
