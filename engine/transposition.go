package engine

import (
	"sync"
	"unsafe"

	"heron-engine/heronmg"
)

// Bound flags for stored scores.
const (
	AlphaFlag = iota // score is an upper bound
	BetaFlag         // score is a lower bound
	ExactFlag
)

const (
	clusterSize = 4

	// UnusableScore marks a probe miss; it sits outside the legal score range.
	UnusableScore int32 = -(MaxScore + 100)
)

type ttEntry struct {
	hash  uint64
	move  heronmg.Move
	score int32
	depth int8
	flag  int8
}

// TransTable is a clustered transposition table. Probing scans a small
// cluster; storing prefers the same hash, then an empty slot, then the
// shallowest entry. A single table may be shared by parallel searchers: the
// mutex only guards resize, entry races are benign because every payload is
// re-validated against its hash on probe.
type TransTable struct {
	mu           sync.Mutex
	entries      []ttEntry
	clusterCount uint64
}

// NewTransTable allocates a table of roughly sizeMB megabytes.
func NewTransTable(sizeMB int) *TransTable {
	tt := &TransTable{}
	tt.Resize(sizeMB)
	return tt
}

// Resize reallocates the table, dropping all entries.
func (tt *TransTable) Resize(sizeMB int) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	entrySize := uint64(unsafe.Sizeof(ttEntry{}))
	totalBytes := uint64(max(sizeMB, 1)) * 1024 * 1024
	clusterCount := totalBytes / (entrySize * clusterSize)
	if clusterCount == 0 {
		clusterCount = 1
	}
	tt.clusterCount = clusterCount
	tt.entries = make([]ttEntry, clusterCount*clusterSize)
}

// Clear zeroes the table without reallocating.
func (tt *TransTable) Clear() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	for i := range tt.entries {
		tt.entries[i] = ttEntry{}
	}
}

// probe returns the stored move for ordering plus, when the entry is deep
// enough for the current bounds, a usable score already un-normalized from
// mate-in-N encoding.
func (tt *TransTable) probe(hash uint64, depth, ply int8, alpha, beta int32) (move heronmg.Move, score int32, usable bool) {
	score = UnusableScore
	if tt.clusterCount == 0 {
		return heronmg.NoMove, score, false
	}
	base := int((hash % tt.clusterCount) * clusterSize)
	for i := 0; i < clusterSize; i++ {
		e := tt.entries[base+i]
		if e.hash != hash {
			continue
		}
		move = e.move
		if e.depth < depth {
			return move, score, false
		}
		norm := e.score
		// Mate scores are stored root-relative; shift back to ply-relative.
		if norm > Checkmate {
			norm -= int32(ply)
		} else if norm < -Checkmate {
			norm += int32(ply)
		}
		switch e.flag {
		case ExactFlag:
			return move, norm, true
		case AlphaFlag:
			if norm <= alpha {
				return move, alpha, true
			}
		case BetaFlag:
			if norm >= beta {
				return move, beta, true
			}
		}
		return move, score, false
	}
	return heronmg.NoMove, score, false
}

func (tt *TransTable) store(hash uint64, depth, ply int8, move heronmg.Move, score int32, flag int8) {
	if tt.clusterCount == 0 {
		return
	}
	if score > Checkmate {
		score += int32(ply)
	} else if score < -Checkmate {
		score -= int32(ply)
	}

	base := int((hash % tt.clusterCount) * clusterSize)
	target := -1
	for i := 0; i < clusterSize; i++ {
		if tt.entries[base+i].hash == hash {
			target = base + i
			break
		}
	}
	if target == -1 {
		for i := 0; i < clusterSize; i++ {
			if tt.entries[base+i].hash == 0 {
				target = base + i
				break
			}
		}
	}
	if target == -1 {
		target = base
		minDepth := tt.entries[base].depth
		for i := 1; i < clusterSize; i++ {
			if tt.entries[base+i].depth < minDepth {
				minDepth = tt.entries[base+i].depth
				target = base + i
			}
		}
	}
	tt.entries[target] = ttEntry{hash: hash, move: move, score: score, depth: depth, flag: flag}
}
