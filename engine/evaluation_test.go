package engine_test

import (
	"testing"

	"heron-engine/engine"
	"heron-engine/heronmg"
)

func TestEvaluateStartposSymmetric(t *testing.T) {
	var eval engine.PSQTEvaluator
	got := eval.Evaluate(heronmg.NewBoard())
	if got != engine.TempoBonus {
		t.Errorf("startpos eval = %d, want the tempo bonus %d", got, engine.TempoBonus)
	}
}

func TestEvaluateMaterialImbalance(t *testing.T) {
	var eval engine.PSQTEvaluator
	up := mustParse(t, "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	down := mustParse(t, "q3k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if s := eval.Evaluate(up); s <= 0 {
		t.Errorf("queen up scored %d for White", s)
	}
	if s := eval.Evaluate(down); s >= 0 {
		t.Errorf("queen down scored %d for White", s)
	}
}

func TestEvaluateColorSymmetry(t *testing.T) {
	// Mirrored positions with the move passed must score as exact negations.
	pairs := [][2]string{
		{"4k3/8/8/8/8/8/PPP5/4K3 w - - 0 1", "4k3/ppp5/8/8/8/8/8/4K3 b - - 0 1"},
		{"4k3/8/8/3N4/8/8/8/4K3 w - - 0 1", "4k3/8/8/8/3n4/8/8/4K3 b - - 0 1"},
		{"r3k3/8/8/8/8/8/8/4K3 b - - 0 1", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1"},
	}
	var eval engine.PSQTEvaluator
	for _, pair := range pairs {
		a := eval.Evaluate(mustParse(t, pair[0]))
		b := eval.Evaluate(mustParse(t, pair[1]))
		if a != -b {
			t.Errorf("%s = %d, %s = %d; want negation", pair[0], a, pair[1], b)
		}
	}
}

func TestEvaluateDoesNotMutate(t *testing.T) {
	b := mustParse(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	fen := b.ToFEN()
	var eval engine.PSQTEvaluator
	eval.Evaluate(b)
	if b.ToFEN() != fen {
		t.Fatal("evaluation mutated the board")
	}
}

func TestMaterialEvaluator(t *testing.T) {
	var eval engine.MaterialEvaluator
	if got := eval.Evaluate(heronmg.NewBoard()); got != 0 {
		t.Errorf("startpos material = %d, want 0", got)
	}
	b := mustParse(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if got := eval.Evaluate(b); got != engine.PieceValueMG[heronmg.Rook] {
		t.Errorf("rook up = %d, want %d", got, engine.PieceValueMG[heronmg.Rook])
	}
}
