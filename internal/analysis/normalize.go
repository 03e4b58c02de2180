package analysis

import (
	"sort"
	"strings"
)

// Normalize returns a White-relative, ply-ordered copy of positions. Every other
// function of this package expects its input to have gone through Normalize.
//
// Scores of black-to-move positions are negated when the input is side-to-move
// relative, "mate 0" (side to move is checkmated) becomes -1 or +1, a line carrying
// both cp and mate keeps only the mate, and a missing BestMove is taken from the
// first move of line 0. The input slice is never modified.
func Normalize(positions []Position, perspective Perspective) []Position {
	if perspective == "" {
		perspective = PerspectiveSideToMove
	}

	out := make([]Position, len(positions))
	for i, p := range positions {
		out[i] = clonePosition(p)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Ply < out[b].Ply })

	for i := range out {
		p := &out[i]
		toMove, ok := sideFromFEN(p.FEN)
		if !ok {
			toMove = sideFromParity(White, p.Ply)
		}
		for j := range p.Lines {
			p.Lines[j] = normalizeLine(p.Lines[j], toMove, perspective)
		}
		if p.BestMove == "" {
			if top, ok := p.TopLine(); ok {
				p.BestMove = top.FirstMove()
			}
		}
	}
	return out
}

func normalizeLine(l Line, toMove Side, perspective Perspective) Line {
	flip := perspective == PerspectiveSideToMove && toMove == Black

	out := Line{PV: l.PV, Depth: l.Depth}
	switch {
	case l.Mate != nil:
		m := *l.Mate
		switch {
		case m == 0 && toMove == White:
			m = -1
		case m == 0:
			m = 1
		case flip:
			m = -m
		}
		out.Mate = intPtr(m)
	case l.CP != nil:
		cp := *l.CP
		if flip {
			cp = -cp
		}
		out.CP = intPtr(cp)
	}
	return out
}

func clonePosition(p Position) Position {
	out := p
	out.Lines = make([]Line, len(p.Lines))
	for i, l := range p.Lines {
		cl := l
		if l.PV != nil {
			cl.PV = append([]string(nil), l.PV...)
		}
		if l.CP != nil {
			cl.CP = intPtr(*l.CP)
		}
		if l.Mate != nil {
			cl.Mate = intPtr(*l.Mate)
		}
		out.Lines[i] = cl
	}
	return out
}

// Movers returns the side that made each transition of the game, one entry per
// move or per pair of consecutive positions, whichever is longer. The
// side-to-move field of the FEN before the move wins; without a usable FEN the
// side alternates from the starting position.
func Movers(positions []Position, moves []Move) []Side {
	start := White
	if len(positions) > 0 {
		if s, ok := sideFromFEN(positions[0].FEN); ok {
			start = s
		}
	} else if len(moves) > 0 {
		if s, ok := sideFromFEN(moves[0].FENBefore); ok {
			start = s
		}
	}

	out := make([]Side, max(len(moves), len(positions)-1))
	for i := range out {
		if i < len(moves) {
			if s, ok := sideFromFEN(moves[i].FENBefore); ok {
				out[i] = s
				continue
			}
		}
		if i < len(positions) {
			if s, ok := sideFromFEN(positions[i].FEN); ok {
				out[i] = s
				continue
			}
		}
		out[i] = sideFromParity(start, i)
	}
	return out
}

func sideFromParity(start Side, i int) Side {
	if i%2 == 0 {
		return start
	}
	return start.Opponent()
}

func sideFromFEN(fen string) (Side, bool) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return White, false
	}
	switch fields[1] {
	case "w":
		return White, true
	case "b":
		return Black, true
	}
	return White, false
}
