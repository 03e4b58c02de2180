package analysis

// Report is the full quality report of one game.
type Report struct {
	// Positions are the normalized (White-relative, ply-ordered) evaluations.
	Positions      []Position      `json:"positions"`
	WinPercentages []float64       `json:"win_percentages"`
	Moves          []MoveReport    `json:"moves"`
	Accuracy       AccuracySummary `json:"accuracy"`
	ACPL           ACPLSummary     `json:"acpl"`
	EstimatedElo   EstimatedElo    `json:"estimated_elo"`
	// Opening is the last opening the game went through, if any.
	Opening string `json:"opening,omitempty"`
}

// MoveReport is everything known about one half-move.
type MoveReport struct {
	Ply            int            `json:"ply"`
	SAN            string         `json:"san"`
	UCI            string         `json:"uci"`
	FENBefore      string         `json:"fen_before"`
	FENAfter       string         `json:"fen_after"`
	Side           Side           `json:"side"`
	WinBefore      float64        `json:"win_before"`
	WinAfter       float64        `json:"win_after"`
	Accuracy       float64        `json:"accuracy"`
	Classification Classification `json:"classification"`
	Opening        string         `json:"opening,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
}

// ClassificationCounts tallies labels per side.
type ClassificationCounts struct {
	White map[Classification]int `json:"white"`
	Black map[Classification]int `json:"black"`
}

func (c ClassificationCounts) For(s Side) map[Classification]int {
	if s == Black {
		return c.Black
	}
	return c.White
}

// Counts returns how many moves of each side received each label.
func (r Report) Counts() ClassificationCounts {
	out := ClassificationCounts{
		White: map[Classification]int{},
		Black: map[Classification]int{},
	}
	for _, m := range r.Moves {
		out.For(m.Side)[m.Classification]++
	}
	return out
}

// Classifications returns the per-move labels in ply order.
func (r Report) Classifications() []MoveClassification {
	out := make([]MoveClassification, len(r.Moves))
	for i, m := range r.Moves {
		out[i] = MoveClassification{
			Ply:            m.Ply,
			Classification: m.Classification,
			Opening:        m.Opening,
			Tags:           m.Tags,
		}
	}
	return out
}

type options struct {
	book OpeningBook
}

// Option configures Analyze.
type Option func(*options)

// WithOpeningBook enables the Opening classification.
func WithOpeningBook(book OpeningBook) Option {
	return func(o *options) {
		o.book = book
	}
}

// Analyze builds the report of a game. It never fails: missing evaluations
// count as even positions and moves that cannot be replayed on a board only
// lose the heuristics that need one.
func Analyze(game Game, opts ...Option) Report {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	positions := Normalize(game.Positions, game.Perspective)
	moves := FillSAN(withPositionFENs(game.Moves, positions))
	movers := Movers(positions, moves)
	win := WinPercentages(positions)

	classes := ClassifyMoves(positions, moves, movers, o.book)
	accuracies := MoveAccuracies(win, movers)
	acpl := ComputeACPL(positions, movers)

	report := Report{
		Positions:      positions,
		WinPercentages: win,
		Moves:          make([]MoveReport, len(classes)),
		Accuracy:       aggregateAccuracy(accuracies, AccuracyWeights(win), movers),
		ACPL:           acpl,
		EstimatedElo:   EstimateElo(acpl, len(positions), game.Ratings, movers),
	}

	for i, c := range classes {
		m := moves[i]
		mr := MoveReport{
			Ply:            c.Ply,
			SAN:            m.SAN,
			UCI:            m.UCI,
			FENBefore:      fenBeforeMove(positions, moves, i),
			FENAfter:       m.FENAfter,
			Side:           moverAt(movers, i),
			WinBefore:      win[i],
			WinAfter:       win[i+1],
			Accuracy:       accuracies[i],
			Classification: c.Classification,
			Opening:        c.Opening,
			Tags:           c.Tags,
		}
		report.Moves[i] = mr
		if c.Opening != "" {
			report.Opening = c.Opening
		}
	}
	return report
}

// withPositionFENs returns a copy of moves where missing FENs are taken from
// the positions surrounding each move.
func withPositionFENs(moves []Move, positions []Position) []Move {
	out := make([]Move, len(moves))
	copy(out, moves)
	for i := range out {
		if out[i].FENBefore == "" && i < len(positions) {
			out[i].FENBefore = positions[i].FEN
		}
		if out[i].FENAfter == "" && i+1 < len(positions) {
			out[i].FENAfter = positions[i+1].FEN
		}
	}
	return out
}
