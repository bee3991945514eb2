package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"heron-engine/engine"
	"heron-engine/heronmg"
)

// A spread of openings, middlegames and endgames; fixed so bench numbers
// stay comparable across changes.
var benchFENs = []string{
	heronmg.FENStartPos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"8/8/1p6/p1p5/P1P5/1P6/5K2/7k w - - 0 1",
}

func main() {
	depth := flag.Int("depth", 8, "search depth in plies")
	threads := flag.Int("threads", 1, "parallel search workers")
	hashMB := flag.Int("hash", 64, "transposition table size in MB")
	fen := flag.String("fen", "", "bench a single position instead of the suite")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile to file")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("create profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("start profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	fens := benchFENs
	if *fen != "" {
		fens = []string{*fen}
	}

	searcher := engine.NewParallelSearcher(engine.PSQTEvaluator{}, engine.Options{TTSizeMB: *hashMB}, *threads)

	var totalNodes uint64
	var totalTime time.Duration
	for _, f := range fens {
		board, err := heronmg.ParseFEN(f)
		if err != nil {
			log.Fatalf("parse fen %q: %v", f, err)
		}
		searcher.ClearState()
		res := searcher.Search(context.Background(), board, engine.Limits{Depth: int8(*depth)}, nil)
		totalNodes += res.Nodes
		totalTime += res.Elapsed
		fmt.Printf("%-72s depth %2d  move %-6s score %6d  nodes %9d  %v\n",
			f, res.Depth, res.BestMove, res.Score, res.Nodes, res.Elapsed.Round(time.Millisecond))
	}

	if totalTime <= 0 {
		totalTime = time.Millisecond
	}
	nps := float64(totalNodes) / totalTime.Seconds()
	fmt.Printf("\ntotal: %d nodes  %v  %.0f nps\n", totalNodes, totalTime.Round(time.Millisecond), nps)
}
