// Package encode maps positions to the fixed planar layout used for
// training data export. Twelve 8x8 piece planes, optionally extended with
// side to move, castling rights, en passant file and the halfmove clock.
package encode

import (
	"strings"

	"heron-engine/heronmg"
)

// Plane indices in the extended layout. White planes come first, ordered
// pawn through king, then the black planes in the same order.
const (
	PiecePlanes         = 12
	PlaneSideToMove     = 12
	PlaneWhiteKingside  = 13
	PlaneWhiteQueenside = 14
	PlaneBlackKingside  = 15
	PlaneBlackQueenside = 16
	PlaneEnPassantFile  = 17
	PlaneHalfmoveClock  = 18
	ExtendedPlanes      = 19
)

// Tensor is a stack of 8x8 planes indexed [plane][rank][file].
type Tensor [][8][8]float32

// planeFor maps a piece to its plane: white pieces 0..5, black 6..11.
func planeFor(p heronmg.Piece) int {
	plane := int(p.Type()) - 1
	if p.Color() == heronmg.Black {
		plane += 6
	}
	return plane
}

// Planes encodes piece placement only, one plane per piece type and color.
func Planes(b *heronmg.Board) Tensor {
	t := make(Tensor, PiecePlanes)
	for sq := heronmg.Square(0); sq < 64; sq++ {
		p := b.PieceAt(sq)
		if p == heronmg.NoPiece {
			continue
		}
		t[planeFor(p)][sq.Rank()][sq.File()] = 1
	}
	return t
}

// Extended encodes the full position: piece planes plus constant planes for
// side to move and each castling right, a file-column plane for en passant,
// and the halfmove clock scaled to [0,1] with a cap at the fifty-move limit.
func Extended(b *heronmg.Board) Tensor {
	t := make(Tensor, ExtendedPlanes)
	copy(t, Planes(b))

	if b.SideToMove() == heronmg.White {
		fillPlane(&t[PlaneSideToMove], 1)
	}
	cr := b.CastlingRights()
	if cr&heronmg.CastleWhiteKing != 0 {
		fillPlane(&t[PlaneWhiteKingside], 1)
	}
	if cr&heronmg.CastleWhiteQueen != 0 {
		fillPlane(&t[PlaneWhiteQueenside], 1)
	}
	if cr&heronmg.CastleBlackKing != 0 {
		fillPlane(&t[PlaneBlackKingside], 1)
	}
	if cr&heronmg.CastleBlackQueen != 0 {
		fillPlane(&t[PlaneBlackQueenside], 1)
	}

	if ep := b.EnPassantSquare(); ep != heronmg.NoSquare {
		for rank := 0; rank < 8; rank++ {
			t[PlaneEnPassantFile][rank][ep.File()] = 1
		}
	}

	clock := float32(b.HalfmoveClock()) / 100
	if clock > 1 {
		clock = 1
	}
	fillPlane(&t[PlaneHalfmoveClock], clock)
	return t
}

func fillPlane(plane *[8][8]float32, v float32) {
	for r := range plane {
		for f := range plane[r] {
			plane[r][f] = v
		}
	}
}

// Flip returns the color-swapped view: piece planes trade white for black
// and mirror vertically, the side-to-move plane inverts, castling planes
// swap sides, and the en passant plane mirrors with the board. The halfmove
// plane is color-neutral and passes through. Flipping twice restores the
// input.
func Flip(t Tensor) Tensor {
	out := make(Tensor, len(t))
	for i := 0; i < 6; i++ {
		out[i] = mirrorRanks(t[i+6])
		out[i+6] = mirrorRanks(t[i])
	}
	if len(t) <= PiecePlanes {
		return out
	}

	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			out[PlaneSideToMove][r][f] = 1 - t[PlaneSideToMove][r][f]
		}
	}
	out[PlaneWhiteKingside] = t[PlaneBlackKingside]
	out[PlaneWhiteQueenside] = t[PlaneBlackQueenside]
	out[PlaneBlackKingside] = t[PlaneWhiteKingside]
	out[PlaneBlackQueenside] = t[PlaneWhiteQueenside]
	if len(t) > PlaneEnPassantFile {
		out[PlaneEnPassantFile] = mirrorRanks(t[PlaneEnPassantFile])
	}
	if len(t) > PlaneHalfmoveClock {
		out[PlaneHalfmoveClock] = t[PlaneHalfmoveClock]
	}
	return out
}

func mirrorRanks(plane [8][8]float32) [8][8]float32 {
	var out [8][8]float32
	for r := 0; r < 8; r++ {
		out[r] = plane[7-r]
	}
	return out
}

// ToBoard rebuilds piece placement from the first twelve planes. Only
// placement survives the round trip; clocks, castling and en passant state
// come back as their defaults, matching an export that stored placement
// alone. Planes describing an impossible position (missing kings, pawns on
// the back ranks) fail with the position error from FEN parsing.
func ToBoard(t Tensor) (*heronmg.Board, error) {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := pieceAt(t, rank, file)
			if p == 0 {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteString(" w - - 0 1")
	return heronmg.ParseFEN(sb.String())
}

var planeSymbols = [PiecePlanes]byte{'P', 'N', 'B', 'R', 'Q', 'K', 'p', 'n', 'b', 'r', 'q', 'k'}

func pieceAt(t Tensor, rank, file int) byte {
	for ch := 0; ch < PiecePlanes && ch < len(t); ch++ {
		if t[ch][rank][file] > 0.5 {
			return planeSymbols[ch]
		}
	}
	return 0
}

// Visualize renders the piece planes as a board diagram, white at the
// bottom, matching heronmg's board printer.
func Visualize(t Tensor) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			if p := pieceAt(t, rank, file); p != 0 {
				sb.WriteByte(p)
			} else {
				sb.WriteByte('.')
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}
