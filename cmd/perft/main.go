package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"time"

	"heron-engine/heronmg"
)

func main() {
	fen := flag.String("fen", heronmg.FENStartPos, "position to count from")
	depth := flag.Int("depth", 0, "perft depth (required)")
	divide := flag.Bool("divide", false, "print per-move node counts at the root")
	repeat := flag.Int("repeat", 1, "repeat the count for steadier timings")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile to file")
	memProfile := flag.String("memprofile", "", "write a heap profile to file on exit")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	board, err := heronmg.ParseFEN(*fen)
	if err != nil {
		log.Fatalf("parse fen: %v", err)
	}

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
	if *memProfile != "" {
		defer func() {
			f, err := os.Create(*memProfile)
			if err != nil {
				log.Fatalf("create profile: %v", err)
			}
			defer f.Close()
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatalf("write heap profile: %v", err)
			}
		}()
	}

	if *divide {
		div := heronmg.PerftDivide(board, *depth)
		moves := make([]heronmg.Move, 0, len(div))
		for m := range div {
			moves = append(moves, m)
		}
		sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })
		var sum uint64
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
			sum += div[m]
		}
		fmt.Printf("total: %d\n", sum)
		return
	}

	var nodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		nodes = heronmg.Perft(board, *depth)
	}
	elapsed := time.Since(start) / time.Duration(*repeat)

	nps := float64(nodes) / elapsed.Seconds()
	fmt.Printf("perft(%d) = %d  %v  %.0f nps\n", *depth, nodes, elapsed.Round(time.Millisecond), nps)
}
