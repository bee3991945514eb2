// Package heronmg implements the board representation and legal move
// generation for the Heron chess engine. Positions are kept as per-color
// piece bitboards plus a square-indexed mailbox, with an incrementally
// maintained Zobrist key.
package heronmg

import "math/bits"

// Color of a side. White is 0 so it can double as a bitboard index.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

// PieceType is a colorless piece kind, usable as a table index.
type PieceType uint8

const (
	NoPieceType PieceType = 0
	Pawn        PieceType = 1
	Knight      PieceType = 2
	Bishop      PieceType = 3
	Rook        PieceType = 4
	Queen       PieceType = 5
	King        PieceType = 6
)

// Piece is a colored piece. White pieces are the raw type in [1..6]; black
// pieces set bit 3, so p&7 is the type and p&8 the color. This keeps the
// Zobrist piece table small and the color test branch-free.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)
	BlackPawn   Piece = Piece(Pawn) | 8
	BlackKnight Piece = Piece(Knight) | 8
	BlackBishop Piece = Piece(Bishop) | 8
	BlackRook   Piece = Piece(Rook) | 8
	BlackQueen  Piece = Piece(Queen) | 8
	BlackKing   Piece = Piece(King) | 8
)

// Type strips the color from a piece.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the owning side. NoPiece reports White.
func (p Piece) Color() Color { return Color(p >> 3) }

// MakePiece combines a side and a colorless type into a Piece.
func MakePiece(c Color, pt PieceType) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	return Piece(pt) | Piece(c<<3)
}

// Square indexes the board 0..63, a1=0, h1=7, a8=56, h8=63.
type Square int8

// NoSquare is the sentinel for "no square" (cleared en-passant target).
const NoSquare Square = -1

// File returns the square's file 0..7 (a..h).
func (s Square) File() int { return int(s) & 7 }

// Rank returns the square's rank 0..7.
func (s Square) Rank() int { return int(s) >> 3 }

// String renders the square in coordinate form ("e4"). NoSquare renders "-".
func (s Square) String() string {
	if s == NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(s.File()), '1' + byte(s.Rank())})
}

// ParseSquare parses coordinate form ("e4") into a Square.
func ParseSquare(str string) (Square, error) {
	if len(str) != 2 || str[0] < 'a' || str[0] > 'h' || str[1] < '1' || str[1] > '8' {
		return NoSquare, errBadSquare
	}
	return Square(int(str[0]-'a') + int(str[1]-'1')*8), nil
}

// CastlingRights is a bitmask of the four castling permissions.
type CastlingRights uint8

const (
	CastleWhiteKing CastlingRights = 1 << iota
	CastleWhiteQueen
	CastleBlackKing
	CastleBlackQueen
)

// Board holds a full chess position. It is mutated in place by
// MakeMove/UnmakeMove; a single search owns exclusive mutation access, so the
// type is not safe for concurrent writers (take a Copy per worker instead).
type Board struct {
	// pieceBB[color][type] for type in Pawn..King; index 0 unused.
	pieceBB  [2][7]uint64
	occupied [2]uint64
	squares  [64]Piece

	stm      Color
	castling CastlingRights
	epSquare Square
	rule50   int
	fullmove int

	hash uint64
}

// SideToMove reports whose turn it is.
func (b *Board) SideToMove() Color { return b.stm }

// CastlingRights returns the current castling permission mask.
func (b *Board) CastlingRights() CastlingRights { return b.castling }

// EnPassantSquare returns the en-passant target square, or NoSquare.
func (b *Board) EnPassantSquare() Square { return b.epSquare }

// HalfmoveClock returns the fifty-move-rule counter (in half moves).
func (b *Board) HalfmoveClock() int { return b.rule50 }

// FullmoveNumber returns the full move counter, incremented after Black moves.
func (b *Board) FullmoveNumber() int { return b.fullmove }

// Hash returns the position's Zobrist key. Identical logical positions hash
// identically regardless of the move order that produced them.
func (b *Board) Hash() uint64 { return b.hash }

// PieceAt returns the piece standing on sq.
func (b *Board) PieceAt(sq Square) Piece { return b.squares[sq] }

// Pieces returns the bitboard of the given side's pieces of one type.
func (b *Board) Pieces(c Color, pt PieceType) uint64 { return b.pieceBB[c][pt] }

// Occupied returns the occupancy bitboard for one side.
func (b *Board) Occupied(c Color) uint64 { return b.occupied[c] }

// AllOccupied returns the bitboard of every occupied square.
func (b *Board) AllOccupied() uint64 { return b.occupied[White] | b.occupied[Black] }

// KingSquare returns the square of the given side's king.
func (b *Board) KingSquare(c Color) Square {
	return Square(bits.TrailingZeros64(b.pieceBB[c][King]))
}

// Copy returns an independent snapshot of the position. Parallel searchers
// must each operate on their own copy.
func (b *Board) Copy() *Board {
	nb := *b
	return &nb
}

// bit returns a bitboard with only sq set.
func bit(sq Square) uint64 { return 1 << uint(sq) }

// popCount counts the set bits of a bitboard.
func popCount(mask uint64) int { return bits.OnesCount64(mask) }

// popLSB removes the lowest set bit from mask and returns its index.
func popLSB(mask *uint64) Square {
	sq := Square(bits.TrailingZeros64(*mask))
	*mask &= *mask - 1
	return sq
}

// put places p on an empty square, updating bitboards, mailbox and hash.
func (b *Board) put(sq Square, p Piece) {
	c := p.Color()
	b.squares[sq] = p
	b.pieceBB[c][p.Type()] |= bit(sq)
	b.occupied[c] |= bit(sq)
	b.hash ^= zobristPiece[p][sq]
}

// lift removes whatever stands on sq and returns it.
func (b *Board) lift(sq Square) Piece {
	p := b.squares[sq]
	if p == NoPiece {
		return NoPiece
	}
	c := p.Color()
	b.squares[sq] = NoPiece
	b.pieceBB[c][p.Type()] &^= bit(sq)
	b.occupied[c] &^= bit(sq)
	b.hash ^= zobristPiece[p][sq]
	return p
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (b *Board) HasLegalMoves() bool {
	var buf [64]Move
	return len(b.LegalMovesInto(buf[:0])) > 0
}

// InCheck reports whether the given side's king is attacked.
func (b *Board) InCheck(c Color) bool {
	if b.pieceBB[c][King] == 0 {
		return false
	}
	return b.IsSquareAttacked(b.KingSquare(c), c.Other())
}

// InCheckmate reports whether the side to move is checkmated.
func (b *Board) InCheckmate() bool {
	return b.InCheck(b.stm) && !b.HasLegalMoves()
}

// InStalemate reports whether the side to move is stalemated.
func (b *Board) InStalemate() bool {
	return !b.InCheck(b.stm) && !b.HasLegalMoves()
}

// IsDrawBy50 reports a fifty-move-rule draw (the clock counts half moves).
func (b *Board) IsDrawBy50() bool { return b.rule50 >= 100 }

// Validate cross-checks the mailbox, the piece bitboards, the occupancy maps
// and the incremental hash. False means a make/unmake pairing bug.
func (b *Board) Validate() bool {
	var pieceBB [2][7]uint64
	var occ [2]uint64
	for sq := Square(0); sq < 64; sq++ {
		p := b.squares[sq]
		if p == NoPiece {
			continue
		}
		pieceBB[p.Color()][p.Type()] |= bit(sq)
		occ[p.Color()] |= bit(sq)
	}
	if occ != b.occupied || pieceBB != b.pieceBB {
		return false
	}
	// Disjointness: per-side occupancy must never overlap.
	if b.occupied[White]&b.occupied[Black] != 0 {
		return false
	}
	return b.hash == b.computeHash()
}
