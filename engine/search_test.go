package engine_test

import (
	"testing"
	"time"

	"heron-engine/engine"
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

func newTestSearcher() *engine.Searcher {
	return engine.NewSearcher(engine.PSQTEvaluator{}, engine.Options{TTSizeMB: 8})
}

func TestSearchFindsMateInOne(t *testing.T) {
	cases := []struct {
		fen  string
		want string
	}{
		{"6k1/5ppp/8/8/8/8/8/K3R3 w - - 0 1", "e1e8"},
		{"r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1", "a8a1"},
		{"3qk3/3ppp2/8/8/8/8/3PPP2/3QK2R w K - 0 1", "h1h8"},
	}
	for _, tc := range cases {
		s := newTestSearcher()
		b := mustParse(t, tc.fen)
		res := s.Search(b, engine.Limits{Depth: 4}, nil)
		if res.BestMove.String() != tc.want {
			t.Errorf("%s: best move %s, want %s", tc.fen, res.BestMove, tc.want)
		}
		if !engine.IsMateScore(res.Score) || res.Score < 0 {
			t.Errorf("%s: score %d, want mate for the mover", tc.fen, res.Score)
		}
		if engine.MateIn(res.Score) != 1 {
			t.Errorf("%s: mate in %d, want 1", tc.fen, engine.MateIn(res.Score))
		}
	}
}

func TestSearchFindsMateInTwo(t *testing.T) {
	// Two rooks roll the king up the board.
	b := mustParse(t, "7k/8/8/8/8/8/R7/1R5K w - - 0 1")
	s := newTestSearcher()
	res := s.Search(b, engine.Limits{Depth: 5}, nil)
	if !engine.IsMateScore(res.Score) || res.Score < 0 {
		t.Fatalf("score %d, want a winning mate score", res.Score)
	}
	if got := engine.MateIn(res.Score); got != 2 {
		t.Errorf("mate in %d, want 2", got)
	}
}

func TestSearchPrefersShorterMate(t *testing.T) {
	// Mate in one available; a deeper search must not wander into a longer one.
	b := mustParse(t, "6k1/5ppp/8/8/8/8/8/K3R3 w - - 0 1")
	s := newTestSearcher()
	res := s.Search(b, engine.Limits{Depth: 6}, nil)
	if got := engine.MateIn(res.Score); got != 1 {
		t.Errorf("mate in %d at depth 6, want 1", got)
	}
}

func TestSearchTerminalPositions(t *testing.T) {
	cases := []struct {
		name   string
		fen    string
		status heronmg.Status
	}{
		{"checkmated", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", heronmg.Checkmate},
		{"stalemated", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", heronmg.Stalemate},
		{"dead position", "8/8/8/8/8/8/8/k6K w - - 0 1", heronmg.DrawByRule},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSearcher()
			res := s.Search(mustParse(t, tc.fen), engine.Limits{Depth: 3}, nil)
			if res.Status != tc.status {
				t.Errorf("status = %v, want %v", res.Status, tc.status)
			}
			if res.BestMove != heronmg.NoMove {
				t.Errorf("best move = %v, want none in a finished game", res.BestMove)
			}
		})
	}
}

func TestSearchDeterministic(t *testing.T) {
	const fen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	var moves []heronmg.Move
	var scores []int32
	for i := 0; i < 3; i++ {
		s := newTestSearcher()
		res := s.Search(mustParse(t, fen), engine.Limits{Depth: 4}, nil)
		moves = append(moves, res.BestMove)
		scores = append(scores, res.Score)
	}
	for i := 1; i < len(moves); i++ {
		if moves[i] != moves[0] || scores[i] != scores[0] {
			t.Fatalf("run %d: (%v, %d), run 0: (%v, %d)", i, moves[i], scores[i], moves[0], scores[0])
		}
	}
}

func TestSearchBoardRestored(t *testing.T) {
	b := mustParse(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	fen := b.ToFEN()
	s := newTestSearcher()
	s.Search(b, engine.Limits{Depth: 4}, nil)
	if got := b.ToFEN(); got != fen {
		t.Fatalf("search mutated the board: %q -> %q", got, fen)
	}
	if !b.Validate() {
		t.Fatal("board fails validation after search")
	}
}

func TestSearchRespectsDepthLimit(t *testing.T) {
	s := newTestSearcher()
	res := s.Search(heronmg.NewBoard(), engine.Limits{Depth: 3}, nil)
	if res.Depth != 3 {
		t.Errorf("completed depth %d, want 3", res.Depth)
	}
	if res.BestMove == heronmg.NoMove {
		t.Error("no best move returned")
	}
}

func TestSearchMoveTime(t *testing.T) {
	s := newTestSearcher()
	start := time.Now()
	res := s.Search(heronmg.NewBoard(), engine.Limits{MoveTime: 50 * time.Millisecond}, nil)
	elapsed := time.Since(start)
	if res.BestMove == heronmg.NoMove {
		t.Error("no best move under a time limit")
	}
	if elapsed > 2*time.Second {
		t.Errorf("search ran %v past a 50ms budget", elapsed)
	}
}

func TestSearchStop(t *testing.T) {
	s := newTestSearcher()
	done := make(chan engine.Result, 1)
	go func() {
		done <- s.Search(heronmg.NewBoard(), engine.Limits{}, nil)
	}()
	time.Sleep(50 * time.Millisecond)
	s.Stop()
	select {
	case res := <-done:
		if res.BestMove == heronmg.NoMove {
			t.Error("stopped search returned no move")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("search did not stop")
	}
}

func TestRepetitionScoredAsDraw(t *testing.T) {
	// Rook versus queen: the weak side to move can force perpetual shuffling
	// only through the game history; seed it as if the position repeated.
	b := mustParse(t, "6k1/8/8/8/8/8/8/K6R w - - 40 60")
	hist := []uint64{b.Hash(), 12345, b.Hash(), 67890}
	s := newTestSearcher()
	res := s.Search(b, engine.Limits{Depth: 3}, hist)
	if res.BestMove == heronmg.NoMove {
		t.Fatal("no move with game history supplied")
	}

	// First move repeating the position must score as a draw inside the
	// search, so a winning side avoids it: the score stays positive.
	if res.Score <= 0 {
		t.Errorf("winning side scored %d with a repetition available", res.Score)
	}
}

// stoppingEvaluator halts its searcher on the first evaluation, forcing an
// abort inside the very first deepening iteration.
type stoppingEvaluator struct {
	stop func()
}

func (e *stoppingEvaluator) Evaluate(*heronmg.Board) int32 {
	if e.stop != nil {
		e.stop()
	}
	return 0
}

func TestAbortedFirstIterationFallsBackToLegalMove(t *testing.T) {
	ev := &stoppingEvaluator{}
	s := engine.NewSearcher(ev, engine.Options{TTSizeMB: 8})
	ev.stop = s.Stop

	b := mustParse(t, heronmg.FENStartPos)
	res := s.Search(b, engine.Limits{Depth: 6}, nil)

	if res.Depth != 0 {
		t.Errorf("aborted first iteration reported depth %d, want 0", res.Depth)
	}
	if res.Score != 0 {
		t.Errorf("aborted first iteration reported score %d, want 0", res.Score)
	}
	if res.BestMove == heronmg.NoMove {
		t.Fatal("no fallback move after aborted first iteration")
	}
	if _, err := b.ApplyLegal(res.BestMove); err != nil {
		t.Errorf("fallback move %s not legal: %v", res.BestMove, err)
	}
}

func TestInfoReportsEachIteration(t *testing.T) {
	s := newTestSearcher()
	var depths []int8
	s.Info = func(info engine.IterationInfo) {
		depths = append(depths, info.Depth)
		if len(info.PV) == 0 {
			t.Errorf("depth %d: empty principal variation", info.Depth)
		}
	}

	b := mustParse(t, heronmg.FENStartPos)
	res := s.Search(b, engine.Limits{Depth: 4}, nil)

	if len(depths) == 0 {
		t.Fatal("no iteration reports received")
	}
	for i := 1; i < len(depths); i++ {
		if depths[i] <= depths[i-1] {
			t.Errorf("iteration depths not increasing: %v", depths)
		}
	}
	if depths[len(depths)-1] != res.Depth {
		t.Errorf("last report depth %d, result depth %d", depths[len(depths)-1], res.Depth)
	}
}
