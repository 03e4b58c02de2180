package analysis

// Classification is the quality label of one half-move.
type Classification string

const (
	Opening    Classification = "opening"
	Forced     Classification = "forced"
	Splendid   Classification = "splendid"
	Perfect    Classification = "perfect"
	Best       Classification = "best"
	Excellent  Classification = "excellent"
	Okay       Classification = "okay"
	Inaccuracy Classification = "inaccuracy"
	Mistake    Classification = "mistake"
	Blunder    Classification = "blunder"
)

// Classifications lists every label in priority order.
var Classifications = []Classification{
	Opening, Forced, Splendid, Perfect, Best, Excellent, Okay, Inaccuracy, Mistake, Blunder,
}

// Valid reports whether c is one of the known labels.
func (c Classification) Valid() bool {
	for _, k := range Classifications {
		if k == c {
			return true
		}
	}
	return false
}

// ClassifyByThreshold labels a move from the mover's change in win percentage.
// winBefore and winAfter are White-relative.
func ClassifyByThreshold(winBefore, winAfter float64, mover Side) Classification {
	// diff is the mover's gain; negative means ground was lost
	diff := (winAfter - winBefore) * mover.Sign()

	switch {
	case diff < -20:
		return Blunder
	case diff < -10:
		return Mistake
	case diff < -5:
		return Inaccuracy
	case diff < -2:
		return Okay
	default:
		return Excellent
	}
}
