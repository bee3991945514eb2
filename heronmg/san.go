package heronmg

import (
	"fmt"
	"strings"
)

var sanPieceLetter = [7]string{"", "", "N", "B", "R", "Q", "K"}

// ToSAN renders a legal move in standard algebraic notation, with minimal
// disambiguation and a trailing + or # when the move gives check or mate.
func (b *Board) ToSAN(m Move) string {
	var sb strings.Builder

	switch m.Flag() {
	case FlagCastleKing:
		sb.WriteString("O-O")
	case FlagCastleQueen:
		sb.WriteString("O-O-O")
	default:
		pt := m.MovedPiece().Type()
		if pt == Pawn {
			if m.IsCapture() {
				sb.WriteByte(byte('a' + m.From().File()))
				sb.WriteByte('x')
			}
			sb.WriteString(m.To().String())
			if p := m.Promotion(); p != NoPiece {
				sb.WriteByte('=')
				sb.WriteString(sanPieceLetter[p.Type()])
			}
		} else {
			sb.WriteString(sanPieceLetter[pt])
			sb.WriteString(b.sanDisambiguation(m))
			if m.IsCapture() {
				sb.WriteByte('x')
			}
			sb.WriteString(m.To().String())
		}
	}

	// Check suffix. GivesCheck answers without mutating; only when the move
	// checks is the board touched, to separate mate from plain check.
	if b.GivesCheck(m) {
		st := b.MakeMove(m)
		if b.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
		b.UnmakeMove(m, st)
	}
	return sb.String()
}

// sanDisambiguation returns the file, rank or full square needed to make the
// origin of a piece move unique among the legal moves to the same square.
func (b *Board) sanDisambiguation(m Move) string {
	sameFile, sameRank, others := false, false, false
	for _, other := range b.LegalMoves() {
		if other == m || other.To() != m.To() || other.MovedPiece() != m.MovedPiece() {
			continue
		}
		others = true
		if other.From().File() == m.From().File() {
			sameFile = true
		}
		if other.From().Rank() == m.From().Rank() {
			sameRank = true
		}
	}
	switch {
	case !others:
		return ""
	case !sameFile:
		return string(byte('a' + m.From().File()))
	case !sameRank:
		return string(byte('1' + m.From().Rank()))
	default:
		return m.From().String()
	}
}

// ParseSAN resolves a SAN string against the current position's legal moves.
// Decorations (+, #, !, ?) are ignored; the core must match a unique legal
// move or an error is returned.
func (b *Board) ParseSAN(san string) (Move, error) {
	trimmed := strings.TrimRight(san, "+#!?")
	if trimmed == "" {
		return NoMove, fmt.Errorf("%w: %q", errBadMoveString, san)
	}
	var found Move
	matches := 0
	for _, m := range b.LegalMoves() {
		if stripSANSuffix(b.ToSAN(m)) == trimmed {
			found = m
			matches++
		}
	}
	switch matches {
	case 1:
		return found, nil
	case 0:
		return NoMove, fmt.Errorf("%w: no legal move matches %q", errBadMoveString, san)
	default:
		return NoMove, fmt.Errorf("%w: %q is ambiguous", errBadMoveString, san)
	}
}

func stripSANSuffix(san string) string { return strings.TrimRight(san, "+#") }
