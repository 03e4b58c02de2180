package analysis

import "math"

const maxMoveLoss = 1000

// ComputeACPL returns the average centipawn loss of each side. positions must
// be normalized; movers gives the side of each move.
//
// Scores are read from line 0, clamped to ±1000 with mates counted as ±1000.
// A position without a score repeats the previous one, so the move into it
// costs nothing.
func ComputeACPL(positions []Position, movers []Side) ACPLSummary {
	if len(positions) < 2 {
		return ACPLSummary{}
	}

	scores := make([]int, len(positions))
	for i, p := range positions {
		cp, ok := positionCP(p)
		switch {
		case ok:
			scores[i] = cp
		case i > 0:
			scores[i] = scores[i-1]
		}
	}

	total := map[Side]int{}
	count := map[Side]int{}
	for i := 0; i < len(positions)-1; i++ {
		s := moverAt(movers, i)
		loss := (scores[i] - scores[i+1]) * int(s.Sign())
		if loss < 0 {
			loss = 0
		}
		if loss > maxMoveLoss {
			loss = maxMoveLoss
		}
		total[s] += loss
		count[s]++
	}

	avg := func(s Side) int {
		if count[s] == 0 {
			return 0
		}
		return int(math.Round(float64(total[s]) / float64(count[s])))
	}
	return ACPLSummary{White: avg(White), Black: avg(Black)}
}

func positionCP(p Position) (int, bool) {
	top, ok := p.TopLine()
	if !ok {
		return 0, false
	}
	switch {
	case top.Mate != nil && *top.Mate > 0:
		return cpCeiling, true
	case top.Mate != nil:
		return -cpCeiling, true
	case top.CP != nil:
		return int(clamp(float64(*top.CP), -cpCeiling, cpCeiling)), true
	}
	return 0, false
}
