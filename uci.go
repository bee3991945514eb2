package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"heron-engine/engine"
	"heron-engine/heronmg"
)

const (
	engineName   = "Heron"
	engineAuthor = "Heron authors"
)

func main() {
	uciLoop()
}

type uciState struct {
	board    *heronmg.Board
	history  []uint64
	searcher *engine.ParallelSearcher
	threads  int
	hashMB   int
	running  bool
	done     chan struct{}
}

func uciLoop() {
	st := &uciState{
		board:   heronmg.NewBoard(),
		threads: 1,
		hashMB:  64,
	}
	st.rebuildSearcher()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name", engineName)
			fmt.Println("id author", engineAuthor)
			fmt.Println("option name Hash type spin default 64 min 1 max 4096")
			fmt.Println("option name Threads type spin default 1 min 1 max 64")
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "setoption":
			st.handleSetOption(tokens)
		case "ucinewgame":
			st.waitSearch()
			st.board = heronmg.NewBoard()
			st.history = st.history[:0]
			st.searcher.ClearState()
		case "position":
			st.waitSearch()
			if err := st.handlePosition(tokens); err != nil {
				fmt.Println("info string", err)
			}
		case "go":
			st.handleGo(tokens)
		case "stop":
			st.searcher.Stop()
			st.waitSearch()
		case "perft":
			st.handlePerft(tokens)
		case "d":
			fmt.Println(st.board)
		case "eval":
			var eval engine.PSQTEvaluator
			fmt.Println("info string eval", eval.Evaluate(st.board), "cp (white)")
		case "quit":
			st.searcher.Stop()
			st.waitSearch()
			return
		}
	}
}

func (st *uciState) rebuildSearcher() {
	st.searcher = engine.NewParallelSearcher(
		engine.PSQTEvaluator{},
		engine.Options{TTSizeMB: st.hashMB},
		st.threads,
	)
}

func (st *uciState) waitSearch() {
	if st.running {
		<-st.done
		st.running = false
	}
}

func (st *uciState) handleSetOption(tokens []string) {
	// setoption name <name> value <value>
	var name, value string
	for i := 1; i < len(tokens)-1; i++ {
		switch strings.ToLower(tokens[i]) {
		case "name":
			name = strings.ToLower(tokens[i+1])
		case "value":
			value = tokens[i+1]
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return
	}
	switch name {
	case "hash":
		st.hashMB = clampInt(n, 1, 4096)
		st.rebuildSearcher()
	case "threads":
		st.threads = clampInt(n, 1, 64)
		st.rebuildSearcher()
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (st *uciState) handlePosition(tokens []string) error {
	idx := 1
	if idx >= len(tokens) {
		return fmt.Errorf("position: missing body")
	}

	var board *heronmg.Board
	var err error
	switch tokens[idx] {
	case "startpos":
		board = heronmg.NewBoard()
		idx++
	case "fen":
		idx++
		end := idx
		for end < len(tokens) && tokens[end] != "moves" {
			end++
		}
		board, err = heronmg.ParseFEN(strings.Join(tokens[idx:end], " "))
		if err != nil {
			return err
		}
		idx = end
	default:
		return fmt.Errorf("position: unknown form %q", tokens[idx])
	}

	history := []uint64{}
	if idx < len(tokens) && tokens[idx] == "moves" {
		for _, moveStr := range tokens[idx+1:] {
			m, err := board.ParseMove(moveStr)
			if err != nil {
				return fmt.Errorf("position: move %q: %w", moveStr, err)
			}
			history = append(history, board.Hash())
			board.MakeMove(m)
		}
	}

	st.board = board
	st.history = history
	return nil
}

func (st *uciState) handleGo(tokens []string) {
	st.waitSearch()

	var lim engine.Limits
	for i := 1; i < len(tokens); i++ {
		arg := ""
		if i+1 < len(tokens) {
			arg = tokens[i+1]
		}
		switch tokens[i] {
		case "depth":
			lim.Depth = int8(clampInt(atoi(arg), 1, engine.MaxDepth))
		case "nodes":
			n, _ := strconv.ParseUint(arg, 10, 64)
			lim.Nodes = n
		case "movetime":
			lim.MoveTime = time.Duration(atoi(arg)) * time.Millisecond
		case "wtime":
			lim.WhiteTime = time.Duration(atoi(arg)) * time.Millisecond
		case "btime":
			lim.BlackTime = time.Duration(atoi(arg)) * time.Millisecond
		case "winc":
			lim.WhiteInc = time.Duration(atoi(arg)) * time.Millisecond
		case "binc":
			lim.BlackInc = time.Duration(atoi(arg)) * time.Millisecond
		case "infinite":
			// Zero limits already mean search until stopped.
		}
	}

	st.running = true
	st.done = make(chan struct{})
	st.searcher.SetInfo(func(info engine.IterationInfo) {
		fmt.Println(
			"info depth", info.Depth,
			"score", scoreString(info.Score),
			"nodes", info.Nodes,
			"time", info.Elapsed.Milliseconds(),
			"pv", pvString(info.PV),
		)
	})
	board := st.board.Copy()
	history := append([]uint64(nil), st.history...)
	go func() {
		defer close(st.done)
		res := st.searcher.Search(context.Background(), board, lim, history)
		printResult(res)
	}()
}

func pvString(pv []heronmg.Move) string {
	parts := make([]string, len(pv))
	for i, m := range pv {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

func printResult(res engine.Result) {
	if res.Status.IsTerminal() {
		fmt.Println("info string game over:", res.Status)
		fmt.Println("bestmove 0000")
		return
	}
	fmt.Println(
		"info depth", res.Depth,
		"score", scoreString(res.Score),
		"nodes", res.Nodes,
		"time", res.Elapsed.Milliseconds(),
		"pv", pvString(res.PV),
	)
	fmt.Println("bestmove", res.BestMove)
}

func scoreString(score int32) string {
	if engine.IsMateScore(score) {
		return fmt.Sprintf("mate %d", engine.MateIn(score))
	}
	return fmt.Sprintf("cp %d", score)
}

func (st *uciState) handlePerft(tokens []string) {
	depth := 1
	if len(tokens) > 1 {
		depth = atoi(tokens[1])
	}
	start := time.Now()
	nodes := heronmg.Perft(st.board, depth)
	elapsed := time.Since(start)
	fmt.Printf("info string perft(%d) = %d in %v\n", depth, nodes, elapsed)
}

func atoi(s string) int { v, _ := strconv.Atoi(s); return v }
