package heronmg

import "math/rand"

// Zobrist key material. A fixed seed keeps hashes reproducible across runs,
// which the tests rely on.
var (
	zobristPiece     [16][64]uint64
	zobristCastling  [16]uint64
	zobristEnPassant [8]uint64
	zobristBlackMove uint64
)

func init() {
	rnd := rand.New(rand.NewSource(0x4E5A0))
	for p := range zobristPiece {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for cr := range zobristCastling {
		zobristCastling[cr] = rnd.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristBlackMove = rnd.Uint64()
}

// computeHash derives the Zobrist key of the position from scratch. MakeMove
// maintains the key incrementally; this is the reference used by Validate
// and by ParseFEN.
func (b *Board) computeHash() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		if p := b.squares[sq]; p != NoPiece {
			key ^= zobristPiece[p][sq]
		}
	}
	if b.stm == Black {
		key ^= zobristBlackMove
	}
	key ^= zobristCastling[b.castling]
	if b.epSquare != NoSquare {
		key ^= zobristEnPassant[b.epSquare.File()]
	}
	return key
}
