package heronmg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the standard initial position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	// ErrInvalidPosition reports a FEN string that does not describe a
	// well-formed position.
	ErrInvalidPosition = errors.New("heronmg: invalid position")
	// ErrIllegalMove reports a move that is not legal in the position it
	// was applied to.
	ErrIllegalMove = errors.New("heronmg: illegal move")

	errBadSquare     = errors.New("heronmg: bad square name")
	errBadMoveString = errors.New("heronmg: bad move string")
)

var pieceFromFENChar = map[byte]Piece{
	'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop,
	'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop,
	'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
}

// NewBoard returns a board in the standard starting position.
func NewBoard() *Board {
	b, err := ParseFEN(FENStartPos)
	if err != nil {
		panic("heronmg: start position failed to parse: " + err.Error())
	}
	return b
}

// ParseFEN builds a board from a FEN record. All six fields are required
// except the clocks, which default to 0 and 1. On any malformed field the
// error wraps ErrInvalidPosition and no board is returned.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: want at least 4 fields, got %d", ErrInvalidPosition, len(fields))
	}

	b := &Board{epSquare: NoSquare, fullmove: 1}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidPosition, len(ranks))
	}
	for r, rankStr := range ranks {
		rank := 7 - r
		file := 0
		for i := 0; i < len(rankStr); i++ {
			c := rankStr[i]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			p, ok := pieceFromFENChar[c]
			if !ok || file > 7 {
				return nil, fmt.Errorf("%w: bad piece placement %q", ErrInvalidPosition, fields[0])
			}
			b.put(Square(rank*8+file), p)
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %d covers %d files", ErrInvalidPosition, rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		b.stm = White
	case "b":
		b.stm = Black
	default:
		return nil, fmt.Errorf("%w: bad side to move %q", ErrInvalidPosition, fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				b.castling |= CastleWhiteKing
			case 'Q':
				b.castling |= CastleWhiteQueen
			case 'k':
				b.castling |= CastleBlackKing
			case 'q':
				b.castling |= CastleBlackQueen
			default:
				return nil, fmt.Errorf("%w: bad castling field %q", ErrInvalidPosition, fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: bad en passant square %q", ErrInvalidPosition, fields[3])
		}
		if r := sq.Rank(); r != 2 && r != 5 {
			return nil, fmt.Errorf("%w: en passant square %s off ranks 3/6", ErrInvalidPosition, sq)
		}
		b.epSquare = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad halfmove clock %q", ErrInvalidPosition, fields[4])
		}
		b.rule50 = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: bad fullmove number %q", ErrInvalidPosition, fields[5])
		}
		b.fullmove = n
	}

	if err := checkPositionSanity(b); err != nil {
		return nil, err
	}

	b.hash = b.computeHash()
	return b, nil
}

// checkPositionSanity enforces the structural rules a FEN record can break:
// exactly one king per side, no pawns on the back ranks, castling rights
// matching king and rook placement, and the side not to move not in check.
func checkPositionSanity(b *Board) error {
	for c := White; c <= Black; c++ {
		if n := popCount(b.pieceBB[c][King]); n != 1 {
			return fmt.Errorf("%w: side %v has %d kings", ErrInvalidPosition, c, n)
		}
	}
	const backRanks = uint64(0xFF) | uint64(0xFF)<<56
	if (b.pieceBB[White][Pawn]|b.pieceBB[Black][Pawn])&backRanks != 0 {
		return fmt.Errorf("%w: pawn on rank 1 or 8", ErrInvalidPosition)
	}

	type placement struct {
		right CastlingRights
		king  Square
		rook  Square
		kp    Piece
		rp    Piece
	}
	for _, pl := range []placement{
		{CastleWhiteKing, 4, 7, WhiteKing, WhiteRook},
		{CastleWhiteQueen, 4, 0, WhiteKing, WhiteRook},
		{CastleBlackKing, 60, 63, BlackKing, BlackRook},
		{CastleBlackQueen, 60, 56, BlackKing, BlackRook},
	} {
		if b.castling&pl.right != 0 && (b.squares[pl.king] != pl.kp || b.squares[pl.rook] != pl.rp) {
			return fmt.Errorf("%w: castling rights without king and rook in place", ErrInvalidPosition)
		}
	}

	if b.epSquare != NoSquare {
		wantRank := 5
		if b.stm == Black {
			wantRank = 2
		}
		if b.epSquare.Rank() != wantRank {
			return fmt.Errorf("%w: en passant square %s on wrong rank for side to move", ErrInvalidPosition, b.epSquare)
		}
	}

	them := b.stm.Other()
	if b.IsSquareAttacked(b.KingSquare(them), b.stm) {
		return fmt.Errorf("%w: side not to move is in check", ErrInvalidPosition)
	}
	return nil
}

var fenCharFromPiece = map[Piece]byte{
	WhitePawn: 'P', WhiteKnight: 'N', WhiteBishop: 'B',
	WhiteRook: 'R', WhiteQueen: 'Q', WhiteKing: 'K',
	BlackPawn: 'p', BlackKnight: 'n', BlackBishop: 'b',
	BlackRook: 'r', BlackQueen: 'q', BlackKing: 'k',
}

// ToFEN serializes the position as a six-field FEN record. ParseFEN of the
// result reproduces the board exactly, hash included.
func (b *Board) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.squares[rank*8+file]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(fenCharFromPiece[p])
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if b.stm == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if b.castling == 0 {
		sb.WriteByte('-')
	} else {
		if b.castling&CastleWhiteKing != 0 {
			sb.WriteByte('K')
		}
		if b.castling&CastleWhiteQueen != 0 {
			sb.WriteByte('Q')
		}
		if b.castling&CastleBlackKing != 0 {
			sb.WriteByte('k')
		}
		if b.castling&CastleBlackQueen != 0 {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	if b.epSquare == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteString(b.epSquare.String())
	}

	fmt.Fprintf(&sb, " %d %d", b.rule50, b.fullmove)
	return sb.String()
}

// String renders the board as an 8x8 diagram with rank and file labels,
// white at the bottom, followed by the FEN record.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			p := b.squares[rank*8+file]
			if p == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteByte(fenCharFromPiece[p])
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	sb.WriteString(b.ToFEN())
	return sb.String()
}
