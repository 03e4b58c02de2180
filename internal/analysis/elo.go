package analysis

import "math"

const eloCeiling = 3100

// EloFromACPL is the rating a player with the given average centipawn loss
// is expected to have.
func EloFromACPL(acpl float64) float64 {
	return eloCeiling * math.Exp(-0.01*acpl)
}

// ExpectedACPL inverts EloFromACPL for ratings up to 3100.
func ExpectedACPL(rating float64) float64 {
	return -100 * math.Log(math.Min(rating, eloCeiling)/eloCeiling)
}

// PerformanceElo estimates a performance rating from a game's ACPL. When a
// rating is known the estimate moves away from it depending on how much
// better or worse than expected the player did.
func PerformanceElo(acpl float64, rating *int) float64 {
	base := EloFromACPL(acpl)
	if rating == nil || *rating <= 0 {
		return base
	}
	r := float64(*rating)
	diff := acpl - ExpectedACPL(r)
	switch {
	case diff > 0:
		return r * math.Exp(-0.005*diff)
	case diff < 0:
		return r / math.Exp(-0.005*-diff)
	default:
		return base
	}
}

// EstimateElo returns the estimated rating of each side. Each side is anchored
// on its own rating, or on the opponent's when its own is unknown. Nothing is
// estimated for games with fewer than two positions, and a side that made no
// move is left out.
func EstimateElo(acpl ACPLSummary, positionCount int, ratings Ratings, movers []Side) EstimatedElo {
	if positionCount < 2 {
		return EstimatedElo{}
	}
	played := map[Side]bool{}
	for i := 0; i < positionCount-1; i++ {
		played[moverAt(movers, i)] = true
	}

	estimate := func(s Side) *int {
		if !played[s] {
			return nil
		}
		anchor := ratings.For(s)
		if anchor == nil {
			anchor = ratings.For(s.Opponent())
		}
		return intPtr(int(math.Round(PerformanceElo(float64(acpl.For(s)), anchor))))
	}
	return EstimatedElo{White: estimate(White), Black: estimate(Black)}
}
