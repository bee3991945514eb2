package heronmg

import "math/bits"

// Ray directions. The first four are the positive directions (increasing
// square index), the last four negative; firstBlocker relies on that split.
const (
	dirNorth = iota
	dirEast
	dirNorthEast
	dirNorthWest
	dirSouth
	dirWest
	dirSouthWest
	dirSouthEast
	numDirs
)

var dirDeltas = [numDirs][2]int{
	dirNorth:     {1, 0},
	dirEast:      {0, 1},
	dirNorthEast: {1, 1},
	dirNorthWest: {1, -1},
	dirSouth:     {-1, 0},
	dirWest:      {0, -1},
	dirSouthWest: {-1, -1},
	dirSouthEast: {-1, 1},
}

var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64
	// pawnAttacks[c][sq]: squares a pawn of color c attacks from sq.
	pawnAttacks [2][64]uint64

	// rays[d][sq]: all squares along direction d from sq, origin excluded.
	rays [numDirs][64]uint64
	// queenRays[sq]: union of all eight rays, used to gate discovered-check
	// tests after a move.
	queenRays [64]uint64

	// Software-pext slider tables: per-square relevant-occupancy masks and
	// attack sets indexed by the extracted occupancy subset.
	rookMasks    [64]uint64
	bishopMasks  [64]uint64
	rookTables   [64][]uint64
	bishopTables [64][]uint64
)

func init() {
	initLeaperTables()
	initRayTables()
	initSliderTables()
}

func initLeaperTables() {
	knightDeltas := [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	for sq := 0; sq < 64; sq++ {
		r, f := sq>>3, sq&7
		for _, d := range knightDeltas {
			if t, ok := offsetSquare(r, f, d[0], d[1]); ok {
				knightAttacks[sq] |= 1 << uint(t)
			}
		}
		for _, d := range dirDeltas {
			if t, ok := offsetSquare(r, f, d[0], d[1]); ok {
				kingAttacks[sq] |= 1 << uint(t)
			}
		}
		if t, ok := offsetSquare(r, f, 1, -1); ok {
			pawnAttacks[White][sq] |= 1 << uint(t)
		}
		if t, ok := offsetSquare(r, f, 1, 1); ok {
			pawnAttacks[White][sq] |= 1 << uint(t)
		}
		if t, ok := offsetSquare(r, f, -1, -1); ok {
			pawnAttacks[Black][sq] |= 1 << uint(t)
		}
		if t, ok := offsetSquare(r, f, -1, 1); ok {
			pawnAttacks[Black][sq] |= 1 << uint(t)
		}
	}
}

func offsetSquare(r, f, dr, df int) (int, bool) {
	r, f = r+dr, f+df
	if r < 0 || r > 7 || f < 0 || f > 7 {
		return 0, false
	}
	return r*8 + f, true
}

func initRayTables() {
	for sq := 0; sq < 64; sq++ {
		for d := 0; d < numDirs; d++ {
			r, f := sq>>3, sq&7
			for {
				t, ok := offsetSquare(r, f, dirDeltas[d][0], dirDeltas[d][1])
				if !ok {
					break
				}
				rays[d][sq] |= 1 << uint(t)
				r, f = t>>3, t&7
			}
			queenRays[sq] |= rays[d][sq]
		}
	}
}

func initSliderTables() {
	for sq := 0; sq < 64; sq++ {
		rookMasks[sq] = innerRay(sq, dirNorth) | innerRay(sq, dirSouth) |
			innerRay(sq, dirEast) | innerRay(sq, dirWest)
		bishopMasks[sq] = innerRay(sq, dirNorthEast) | innerRay(sq, dirNorthWest) |
			innerRay(sq, dirSouthEast) | innerRay(sq, dirSouthWest)

		rookTables[sq] = make([]uint64, 1<<uint(bits.OnesCount64(rookMasks[sq])))
		for idx := range rookTables[sq] {
			occ := pdep(uint64(idx), rookMasks[sq])
			rookTables[sq][idx] = slidingAttacks(sq, occ, dirNorth, dirSouth, dirEast, dirWest)
		}
		bishopTables[sq] = make([]uint64, 1<<uint(bits.OnesCount64(bishopMasks[sq])))
		for idx := range bishopTables[sq] {
			occ := pdep(uint64(idx), bishopMasks[sq])
			bishopTables[sq][idx] = slidingAttacks(sq, occ, dirNorthEast, dirNorthWest, dirSouthEast, dirSouthWest)
		}
	}
}

// innerRay is the ray with its outermost (edge) square stripped, the
// relevant-occupancy form used for the table index.
func innerRay(sq, d int) uint64 {
	ray := rays[d][sq]
	blockers := ray
	if blockers == 0 {
		return 0
	}
	// Drop the final square of the ray: it never affects reachability.
	if d < dirSouth {
		ray &^= 1 << uint(63-bits.LeadingZeros64(blockers))
	} else {
		ray &^= blockers & -blockers
	}
	return ray
}

// firstBlocker returns the occupied square on the ray nearest the origin, or
// -1 when the ray is empty.
func firstBlocker(d int, blockers uint64) int {
	if blockers == 0 {
		return -1
	}
	if d < dirSouth {
		return bits.TrailingZeros64(blockers)
	}
	return 63 - bits.LeadingZeros64(blockers)
}

// slidingAttacks walks the given directions, truncating each ray at its first
// blocker (the blocker square itself stays attackable).
func slidingAttacks(sq int, occ uint64, dirs ...int) uint64 {
	var att uint64
	for _, d := range dirs {
		ray := rays[d][sq]
		if fb := firstBlocker(d, ray&occ); fb >= 0 {
			ray &^= rays[d][fb]
		}
		att |= ray
	}
	return att
}

// pext packs the bits of x selected by mask into the low bits of the result.
// Software implementation so the tables build on every platform.
func pext(x, mask uint64) uint64 {
	var res uint64
	var i uint
	for m := mask; m != 0; m &= m - 1 {
		if x&(m&-m) != 0 {
			res |= 1 << i
		}
		i++
	}
	return res
}

// pdep scatters the low bits of x into the positions selected by mask.
func pdep(x, mask uint64) uint64 {
	var res uint64
	var i uint
	for m := mask; m != 0; m &= m - 1 {
		if x&(1<<i) != 0 {
			res |= m & -m
		}
		i++
	}
	return res
}

// RookAttacks returns the rook attack set from sq under the given occupancy.
func RookAttacks(sq Square, occ uint64) uint64 {
	return rookTables[sq][pext(occ, rookMasks[sq])]
}

// BishopAttacks returns the bishop attack set from sq under the given occupancy.
func BishopAttacks(sq Square, occ uint64) uint64 {
	return bishopTables[sq][pext(occ, bishopMasks[sq])]
}

// QueenAttacks returns the queen attack set from sq under the given occupancy.
func QueenAttacks(sq Square, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// IsSquareAttacked reports whether sq is attacked by any piece of the given
// side in the current position. Pure query, no mutation.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.attackedWithOcc(sq, by, b.AllOccupied())
}

// attackedWithOcc is IsSquareAttacked under an explicit occupancy, letting
// callers probe hypothetical positions (king evasions, en-passant legality)
// without mutating the board. Pieces absent from occ do not attack: the
// en-passant simulation removes the captured pawn this way, so a checking
// double-push pawn stops checking once captured.
func (b *Board) attackedWithOcc(sq Square, by Color, occ uint64) bool {
	// Reverse pawn lookup: a pawn of color `by` attacks sq exactly when a
	// pawn of the other color standing on sq would attack the pawn's square.
	if pawnAttacks[by.Other()][sq]&b.pieceBB[by][Pawn]&occ != 0 {
		return true
	}
	if knightAttacks[sq]&b.pieceBB[by][Knight]&occ != 0 {
		return true
	}
	if kingAttacks[sq]&b.pieceBB[by][King]&occ != 0 {
		return true
	}
	if RookAttacks(sq, occ)&(b.pieceBB[by][Rook]|b.pieceBB[by][Queen])&occ != 0 {
		return true
	}
	if BishopAttacks(sq, occ)&(b.pieceBB[by][Bishop]|b.pieceBB[by][Queen])&occ != 0 {
		return true
	}
	return false
}

// AttackersTo returns the bitboard of all pieces of the given side attacking sq.
func (b *Board) AttackersTo(sq Square, by Color, occ uint64) uint64 {
	var att uint64
	att |= pawnAttacks[by.Other()][sq] & b.pieceBB[by][Pawn]
	att |= knightAttacks[sq] & b.pieceBB[by][Knight]
	att |= kingAttacks[sq] & b.pieceBB[by][King]
	att |= RookAttacks(sq, occ) & (b.pieceBB[by][Rook] | b.pieceBB[by][Queen])
	att |= BishopAttacks(sq, occ) & (b.pieceBB[by][Bishop] | b.pieceBB[by][Queen])
	return att
}

// GivesCheck reports whether m (assumed legal for the side to move) leaves
// the opponent's king in check. It simulates the occupancy change without
// mutating the board.
func (b *Board) GivesCheck(m Move) bool {
	us := b.stm
	them := us.Other()
	if b.pieceBB[them][King] == 0 {
		return false
	}
	ksq := b.KingSquare(them)

	occ := b.AllOccupied() &^ bit(m.From())
	occ |= bit(m.To())
	vacated := bit(m.From())
	switch m.Flag() {
	case FlagEnPassant:
		vacated |= bit(epVictimSquare(us, m.To()))
		occ &^= bit(epVictimSquare(us, m.To()))
	case FlagCastleKing, FlagCastleQueen:
		rFrom, rTo := rookCastleSquares(us, m.Flag())
		occ = occ&^bit(rFrom) | bit(rTo)
		// The rook may deliver the check from its post-castle square.
		if RookAttacks(ksq, occ)&bit(rTo) != 0 {
			return true
		}
	}

	// Direct check from the piece landing on m.To (promotions check as the
	// promoted piece).
	landed := m.MovedPiece().Type()
	if p := m.Promotion(); p != NoPiece {
		landed = p.Type()
	}
	switch landed {
	case Pawn:
		if pawnAttacks[us][m.To()]&bit(ksq) != 0 {
			return true
		}
	case Knight:
		if knightAttacks[m.To()]&bit(ksq) != 0 {
			return true
		}
	case Bishop:
		if BishopAttacks(m.To(), occ)&bit(ksq) != 0 {
			return true
		}
	case Rook:
		if RookAttacks(m.To(), occ)&bit(ksq) != 0 {
			return true
		}
	case Queen:
		if QueenAttacks(m.To(), occ)&bit(ksq) != 0 {
			return true
		}
	}

	// Discovered check: only possible when a vacated square (the origin, or
	// the victim of an en passant capture) lies on a queen line through the
	// king. With those squares empty, do our sliders see it?
	if queenRays[ksq]&vacated != 0 {
		rq := (b.pieceBB[us][Rook] | b.pieceBB[us][Queen]) &^ vacated
		bq := (b.pieceBB[us][Bishop] | b.pieceBB[us][Queen]) &^ vacated
		if RookAttacks(ksq, occ)&rq != 0 || BishopAttacks(ksq, occ)&bq != 0 {
			return true
		}
	}
	return false
}
