package engine

import (
	"heron-engine/heronmg"
)

// MaxDepth bounds search plies and sizes the per-ply tables.
const MaxDepth = 64

// killerTable keeps two quiet moves per ply that recently caused beta
// cutoffs. Slot 0 is the most recent.
type killerTable struct {
	moves [MaxDepth + 1][2]heronmg.Move
}

func (k *killerTable) insert(m heronmg.Move, ply int8) {
	if m != k.moves[ply][0] {
		k.moves[ply][1] = k.moves[ply][0]
		k.moves[ply][0] = m
	}
}

func (k *killerTable) slot(ply int8, i int) heronmg.Move {
	return k.moves[ply][i]
}

func (k *killerTable) clear() {
	for ply := range k.moves {
		k.moves[ply][0] = heronmg.NoMove
		k.moves[ply][1] = heronmg.NoMove
	}
}

// historyTable accumulates from/to cutoff counts for quiet moves, indexed by
// side to move. Values are halved when they outgrow the ordering tier below
// the killers.
type historyTable struct {
	scores [2][64][64]uint16
}

const historyCeiling = killerOffset - 1

func (h *historyTable) get(stm heronmg.Color, m heronmg.Move) uint16 {
	return h.scores[stm][m.From()][m.To()]
}

func (h *historyTable) reward(stm heronmg.Color, m heronmg.Move, depth int8) {
	entry := &h.scores[stm][m.From()][m.To()]
	*entry += uint16(depth) * uint16(depth)
	if *entry > historyCeiling {
		h.age()
	}
}

func (h *historyTable) age() {
	for c := 0; c < 2; c++ {
		for from := 0; from < 64; from++ {
			for to := 0; to < 64; to++ {
				h.scores[c][from][to] /= 2
			}
		}
	}
}

func (h *historyTable) clear() {
	for c := 0; c < 2; c++ {
		for from := 0; from < 64; from++ {
			for to := 0; to < 64; to++ {
				h.scores[c][from][to] = 0
			}
		}
	}
}

// counterTable remembers the quiet refutation of the opponent's previous
// move, indexed by its from/to squares.
type counterTable struct {
	moves [2][64][64]heronmg.Move
}

func (c *counterTable) get(stm heronmg.Color, prev heronmg.Move) heronmg.Move {
	return c.moves[stm][prev.From()][prev.To()]
}

func (c *counterTable) insert(stm heronmg.Color, prev, reply heronmg.Move) {
	if prev == heronmg.NoMove {
		return
	}
	c.moves[stm][prev.From()][prev.To()] = reply
}

func (c *counterTable) clear() {
	for stm := 0; stm < 2; stm++ {
		for from := 0; from < 64; from++ {
			for to := 0; to < 64; to++ {
				c.moves[stm][from][to] = heronmg.NoMove
			}
		}
	}
}
