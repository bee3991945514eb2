package encode_test

import (
	"strings"
	"testing"

	"heron-engine/encode"
	"heron-engine/heronmg"
)

func mustParse(t *testing.T, fen string) *heronmg.Board {
	t.Helper()
	b, err := heronmg.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func TestPlanesStartpos(t *testing.T) {
	tensor := encode.Planes(heronmg.NewBoard())
	if len(tensor) != encode.PiecePlanes {
		t.Fatalf("plane count = %d, want %d", len(tensor), encode.PiecePlanes)
	}

	// White pawns fill rank 2 of plane 0.
	for file := 0; file < 8; file++ {
		if tensor[0][1][file] != 1 {
			t.Errorf("white pawn plane missing rank 2 file %d", file)
		}
	}
	// Black king on e8 in plane 11.
	if tensor[11][7][4] != 1 {
		t.Error("black king plane missing e8")
	}
	// Piece counts per plane.
	wantCounts := [encode.PiecePlanes]int{8, 2, 2, 2, 1, 1, 8, 2, 2, 2, 1, 1}
	for ch := range tensor {
		count := 0
		for r := 0; r < 8; r++ {
			for f := 0; f < 8; f++ {
				if tensor[ch][r][f] == 1 {
					count++
				}
			}
		}
		if count != wantCounts[ch] {
			t.Errorf("plane %d has %d pieces, want %d", ch, count, wantCounts[ch])
		}
	}
}

func TestExtendedPlanes(t *testing.T) {
	b := mustParse(t, "rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2")
	tensor := encode.Extended(b)
	if len(tensor) != encode.ExtendedPlanes {
		t.Fatalf("plane count = %d, want %d", len(tensor), encode.ExtendedPlanes)
	}

	if tensor[encode.PlaneSideToMove][0][0] != 0 {
		t.Error("side-to-move plane set with Black to move")
	}
	for _, ch := range []int{encode.PlaneWhiteKingside, encode.PlaneWhiteQueenside, encode.PlaneBlackKingside, encode.PlaneBlackQueenside} {
		if tensor[ch][3][3] != 1 {
			t.Errorf("castling plane %d unset with full rights", ch)
		}
	}

	// En passant on the e file: that column set on every rank, others clear.
	for rank := 0; rank < 8; rank++ {
		if tensor[encode.PlaneEnPassantFile][rank][4] != 1 {
			t.Errorf("en passant plane missing rank %d", rank)
		}
		if tensor[encode.PlaneEnPassantFile][rank][3] != 0 {
			t.Errorf("en passant plane spilled onto file d at rank %d", rank)
		}
	}

	if tensor[encode.PlaneHalfmoveClock][5][5] != 0 {
		t.Error("halfmove plane nonzero at clock 0")
	}

	clocked := encode.Extended(mustParse(t, "4k3/8/8/8/8/8/8/4K2R w K - 50 60"))
	if got := clocked[encode.PlaneHalfmoveClock][0][0]; got != 0.5 {
		t.Errorf("halfmove plane = %v at clock 50, want 0.5", got)
	}
	capped := encode.Extended(mustParse(t, "4k3/8/8/8/8/8/8/4K2R w K - 150 120"))
	if got := capped[encode.PlaneHalfmoveClock][0][0]; got != 1 {
		t.Errorf("halfmove plane = %v past the cap, want 1", got)
	}
}

func TestFlipSelfInverse(t *testing.T) {
	fens := []string{
		heronmg.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2",
	}
	for _, fen := range fens {
		orig := encode.Extended(mustParse(t, fen))
		twice := encode.Flip(encode.Flip(orig))
		for ch := range orig {
			if twice[ch] != orig[ch] {
				t.Errorf("%s: plane %d changed after double flip", fen, ch)
			}
		}
	}
}

func TestFlipSwapsColors(t *testing.T) {
	// Lone white pawn on e2 flips to a black pawn on e7.
	b := mustParse(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	flipped := encode.Flip(encode.Extended(b))

	if flipped[6][6][4] != 1 {
		t.Error("flipped black pawn plane missing e7")
	}
	if flipped[0][1][4] != 0 {
		t.Error("white pawn survived the flip on e2")
	}
	// Side to move inverts.
	if flipped[encode.PlaneSideToMove][0][0] != 0 {
		t.Error("flipped side-to-move plane still set")
	}
}

func TestFlipSwapsCastlingPlanes(t *testing.T) {
	// White may castle kingside only; flipped, black holds that right.
	b := mustParse(t, "r3k3/8/8/8/8/8/8/4K2R w Kq - 0 1")
	flipped := encode.Flip(encode.Extended(b))
	if flipped[encode.PlaneBlackKingside][0][0] != 1 {
		t.Error("white kingside right did not move to the black plane")
	}
	if flipped[encode.PlaneWhiteKingside][0][0] != 0 {
		t.Error("white kingside plane still set after flip")
	}
	if flipped[encode.PlaneWhiteQueenside][0][0] != 1 {
		t.Error("black queenside right did not move to the white plane")
	}
}

func TestToBoardRoundTrip(t *testing.T) {
	fens := []string{
		heronmg.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		orig := mustParse(t, fen)
		back, err := encode.ToBoard(encode.Planes(orig))
		if err != nil {
			t.Fatalf("%s: ToBoard: %v", fen, err)
		}
		for sq := heronmg.Square(0); sq < 64; sq++ {
			if back.PieceAt(sq) != orig.PieceAt(sq) {
				t.Errorf("%s: square %s = %v, want %v", fen, sq, back.PieceAt(sq), orig.PieceAt(sq))
			}
		}
	}
}

func TestToBoardRejectsImpossible(t *testing.T) {
	empty := make(encode.Tensor, encode.PiecePlanes)
	if _, err := encode.ToBoard(empty); err == nil {
		t.Error("kingless tensor accepted")
	}
}

func TestVisualize(t *testing.T) {
	out := encode.Visualize(encode.Planes(heronmg.NewBoard()))
	if !strings.Contains(out, "R N B Q K B N R") {
		t.Errorf("missing white back rank:\n%s", out)
	}
	if !strings.Contains(out, "r n b q k b n r") {
		t.Errorf("missing black back rank:\n%s", out)
	}
	if !strings.HasSuffix(out, "  a b c d e f g h") {
		t.Error("missing file legend")
	}
}
