package engine

import (
	"heron-engine/heronmg"
)

// historyStack tracks the Zobrist keys of positions leading to and through
// the search, for repetition detection. Indices below gameLen come from the
// actual game; anything above is the current search path.
type historyStack struct {
	hashes  []uint64
	gameLen int
}

func (h *historyStack) reset(b *heronmg.Board, game []uint64) {
	h.hashes = h.hashes[:0]
	h.hashes = append(h.hashes, game...)
	h.hashes = append(h.hashes, b.Hash())
	h.gameLen = len(h.hashes)
}

func (h *historyStack) push(hash uint64) { h.hashes = append(h.hashes, hash) }

func (h *historyStack) pop() { h.hashes = h.hashes[:len(h.hashes)-1] }

// isRepetition reports whether the current position occurred before. Only
// positions within the fifty-move window can repeat, and the side to move
// must match, so the scan walks backward two plies at a time. A single prior
// occurrence counts: scoring the first repetition as the draw it can be
// steered into keeps the search from shuffling.
func (h *historyStack) isRepetition(b *heronmg.Board) bool {
	top := len(h.hashes) - 1
	limit := max(top-b.HalfmoveClock(), 0)
	for i := top - 2; i >= limit; i -= 2 {
		if h.hashes[i] == h.hashes[top] {
			return true
		}
	}
	return false
}
