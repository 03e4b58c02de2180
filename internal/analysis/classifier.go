package analysis

// Tags attached to classified moves for display.
const (
	TagBook          = "book"
	TagForced        = "forced"
	TagSacrifice     = "sacrifice"
	TagOnlyMove      = "only-move"
	TagOutcomeChange = "outcome-change"
	TagBest          = "best"
)

// classifyState is carried from one ply to the next. Only the last matched
// opening name survives a ply and it never affects scoring.
type classifyState struct {
	opening string
}

// plyInput is everything the classifier looks at for one move.
type plyInput struct {
	index     int
	before    Position
	after     Position
	move      Move
	mover     Side
	fenBefore string
	winBefore float64
	winAfter  float64

	// previous move and the FEN it was played from, empty on the first ply
	prevUCI       string
	prevFENBefore string
}

// ClassifyMoves labels every move of a normalized game. positions must be the
// output of Normalize, movers the output of Movers. book may be nil.
//
// Rules are tried in order and the first one that matches wins: Opening, Forced,
// Splendid, Perfect, Best, then the win-percentage thresholds.
func ClassifyMoves(positions []Position, moves []Move, movers []Side, book OpeningBook) []MoveClassification {
	n := plyCount(positions, moves)
	if n == 0 {
		return []MoveClassification{}
	}
	win := WinPercentages(positions)

	out := make([]MoveClassification, 0, n)
	state := classifyState{}
	for i := 0; i < n; i++ {
		in := plyInput{
			index:     i,
			before:    positions[i],
			after:     positions[i+1],
			move:      moves[i],
			mover:     moverAt(movers, i),
			fenBefore: fenBeforeMove(positions, moves, i),
			winBefore: win[i],
			winAfter:  win[i+1],
		}
		if i > 0 {
			in.prevUCI = moves[i-1].UCI
			in.prevFENBefore = fenBeforeMove(positions, moves, i-1)
		}

		var mc MoveClassification
		mc, state = classifyPly(in, state, book)
		out = append(out, mc)
	}
	return out
}

func classifyPly(in plyInput, state classifyState, book OpeningBook) (MoveClassification, classifyState) {
	mc := MoveClassification{Ply: in.after.Ply}

	if book != nil {
		if name, ok := book.Lookup(fenAfterMove(in)); ok {
			state.opening = name
			mc.Classification = Opening
			mc.Opening = name
			mc.Tags = []string{TagBook}
			return mc, state
		}
	}
	mc.Opening = state.opening

	if len(in.before.Lines) == 1 {
		mc.Classification = Forced
		mc.Tags = []string{TagForced}
		return mc, state
	}

	alt, hasAlt := alternativeWin(in.before, in.move.UCI)
	held := (in.winAfter-in.winBefore)*in.mover.Sign() >= -2

	if hasAlt && held && !alreadyDecided(in.winAfter, alt, in.mover) {
		if isSacrifice(in) {
			mc.Classification = Splendid
			mc.Tags = []string{TagSacrifice}
			return mc, state
		}
		if !isRecapture(in) {
			changed := outcomeChanged(in.winBefore, in.winAfter, in.mover)
			only := (in.winAfter-alt)*in.mover.Sign() > 10
			if changed || only {
				mc.Classification = Perfect
				if only {
					mc.Tags = append(mc.Tags, TagOnlyMove)
				}
				if changed {
					mc.Tags = append(mc.Tags, TagOutcomeChange)
				}
				return mc, state
			}
		}
	}

	if in.before.BestMove != "" && in.move.UCI == in.before.BestMove {
		mc.Classification = Best
		mc.Tags = []string{TagBest}
		return mc, state
	}

	mc.Classification = ClassifyByThreshold(in.winBefore, in.winAfter, in.mover)
	return mc, state
}

// alternativeWin returns the win percentage of the best line whose first move
// is not the played one.
func alternativeWin(p Position, played string) (float64, bool) {
	for _, l := range p.Lines {
		if l.FirstMove() != played {
			return LineWinPercent(l), true
		}
	}
	return 0, false
}

// alreadyDecided reports whether the game was settled regardless of the move:
// the mover is losing after it, or the best alternative was already winning.
func alreadyDecided(winAfter, alt float64, mover Side) bool {
	if mover == White {
		return winAfter < 50 || alt >= 97
	}
	return winAfter > 50 || alt <= 3
}

func outcomeChanged(before, after float64, mover Side) bool {
	if (after-before)*mover.Sign() <= 10 {
		return false
	}
	return (before < 50 && after > 50) || (before > 50 && after < 50)
}

func isSacrifice(in plyInput) bool {
	top, ok := in.after.TopLine()
	if !ok || in.fenBefore == "" {
		return false
	}
	sac, err := isMaterialSacrifice(in.fenBefore, in.move.UCI, top.PV)
	if err != nil {
		return false
	}
	return sac
}

func isRecapture(in plyInput) bool {
	if in.prevUCI == "" || in.prevFENBefore == "" {
		return false
	}
	ok, err := isSameSquareRecapture(in.prevFENBefore, in.prevUCI, in.move.UCI)
	if err != nil {
		return false
	}
	return ok
}

func fenAfterMove(in plyInput) string {
	if in.move.FENAfter != "" {
		return in.move.FENAfter
	}
	return in.after.FEN
}

func fenBeforeMove(positions []Position, moves []Move, i int) string {
	if i < len(moves) && moves[i].FENBefore != "" {
		return moves[i].FENBefore
	}
	if i < len(positions) {
		return positions[i].FEN
	}
	return ""
}

func moverAt(movers []Side, i int) Side {
	if i < len(movers) {
		return movers[i]
	}
	return sideFromParity(White, i)
}

// plyCount is the number of moves that have an evaluated position on both sides.
func plyCount(positions []Position, moves []Move) int {
	n := len(positions) - 1
	if len(moves) < n {
		n = len(moves)
	}
	if n < 0 {
		return 0
	}
	return n
}
