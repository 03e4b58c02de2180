package analysis

import "math"

const (
	// winProbabilityK is the logistic slope fitted by lichess on rated games.
	winProbabilityK = 0.00368208
	cpCeiling       = 1000
	neutralWin      = 50.0
)

// WinPercentFromCP maps a White-relative centipawn score to White's winning chances in [0,100].
func WinPercentFromCP(cp int) float64 {
	c := clamp(float64(cp), -cpCeiling, cpCeiling)
	return 50 + 50*(2/(1+math.Exp(-winProbabilityK*c))-1)
}

// WinPercentFromMate only looks at the sign: a positive mate wins for White.
func WinPercentFromMate(mate int) float64 {
	if mate > 0 {
		return 100
	}
	return 0
}

// LineWinPercent returns the line's White-relative win percentage, or 50 when
// the line carries no score.
func LineWinPercent(l Line) float64 {
	switch {
	case l.Mate != nil:
		return WinPercentFromMate(*l.Mate)
	case l.CP != nil:
		return WinPercentFromCP(*l.CP)
	default:
		return neutralWin
	}
}

// PositionWinPercent uses the principal line of p.
func PositionWinPercent(p Position) float64 {
	top, ok := p.TopLine()
	if !ok {
		return neutralWin
	}
	return LineWinPercent(top)
}

// WinPercentages returns the win curve of a normalized game, one entry per position.
func WinPercentages(positions []Position) []float64 {
	out := make([]float64, len(positions))
	for i, p := range positions {
		out[i] = PositionWinPercent(p)
	}
	return out
}
