package analysis

import "math"

// MoveAccuracy scores one move from the White-relative win percentages around
// it. A move that loses nothing scores 100.
func MoveAccuracy(before, after float64, mover Side) float64 {
	loss := math.Max(0, (before-after)*mover.Sign())
	raw := 103.1668100711649*math.Exp(-0.04354415386753951*loss) - 3.166924740191411 + 1
	return clamp(raw, 0, 100)
}

// MoveAccuracies returns one accuracy per move, len(win)-1 values.
func MoveAccuracies(win []float64, movers []Side) []float64 {
	if len(win) < 2 {
		return []float64{}
	}
	out := make([]float64, len(win)-1)
	for i := range out {
		out[i] = MoveAccuracy(win[i], win[i+1], moverAt(movers, i))
	}
	return out
}

// AccuracyWeights measures how volatile the game was around each move: the
// standard deviation of the win percentages in a window centered on it.
// It returns len(win)-1 weights in [0.5, 12].
func AccuracyWeights(win []float64) []float64 {
	if len(win) < 2 {
		return []float64{}
	}
	size := int(clamp(math.Ceil(float64(len(win))/10), 2, 8))
	half := int(math.Round(float64(size) / 2))

	out := make([]float64, 0, len(win)-1)
	for i := 1; i < len(win); i++ {
		var window []float64
		switch start, end := i-half, i+half; {
		case start < 0:
			window = win[:min(size, len(win))]
		case end > len(win):
			window = win[max(0, len(win)-size):]
		default:
			window = win[start:end]
		}
		out = append(out, clamp(stdDev(window), 0.5, 12))
	}
	return out
}

// ComputeAccuracy aggregates per-move accuracies into one score per side.
// win is the White-relative win curve of the game, movers the side of each move.
func ComputeAccuracy(win []float64, movers []Side) AccuracySummary {
	return aggregateAccuracy(MoveAccuracies(win, movers), AccuracyWeights(win), movers)
}

func aggregateAccuracy(accuracies, weights []float64, movers []Side) AccuracySummary {
	var (
		values  = map[Side][]float64{}
		weighed = map[Side][]float64{}
	)
	for i, a := range accuracies {
		s := moverAt(movers, i)
		values[s] = append(values[s], a)
		weighed[s] = append(weighed[s], weights[i])
	}

	player := func(s Side) PlayerAccuracy {
		if len(values[s]) == 0 {
			return PlayerAccuracy{}
		}
		w := weightedMean(values[s], weighed[s])
		h := harmonicMean(values[s])
		return PlayerAccuracy{Itera: (w + h) / 2, Harmonic: h, Weighted: w}
	}
	return AccuracySummary{White: player(White), Black: player(Black)}
}
