package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Side is the color that made (or is to make) a move.
type Side int

const (
	White Side = iota
	Black
)

func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

// Sign is +1 for White and -1 for Black. White-relative scores multiplied by it
// become relative to s.
func (s Side) Sign() float64 {
	if s == Black {
		return -1
	}
	return 1
}

func (s Side) Opponent() Side {
	if s == Black {
		return White
	}
	return Black
}

func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Side) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch strings.ToLower(v) {
	case "white", "w":
		*s = White
	case "black", "b":
		*s = Black
	default:
		return fmt.Errorf("unknown side %q", v)
	}
	return nil
}

// Perspective tells Normalize how the scores of the input were expressed.
type Perspective string

const (
	// PerspectiveSideToMove is the raw UCI convention: each score is relative
	// to the side to move in the position it was computed for.
	PerspectiveSideToMove Perspective = "side_to_move"
	// PerspectiveWhite means scores are already White-relative.
	PerspectiveWhite Perspective = "white"
)

// Line is one engine line: a principal variation plus its score.
// CP and Mate are mutually exclusive; both nil means the engine returned no score.
type Line struct {
	PV    []string `json:"pv"`
	CP    *int     `json:"cp,omitempty"`
	Mate  *int     `json:"mate,omitempty"`
	Depth int      `json:"depth,omitempty"`
}

// HasScore reports whether the line carries a centipawn or mate score.
func (l Line) HasScore() bool {
	return l.CP != nil || l.Mate != nil
}

// FirstMove returns the first move of the principal variation, or "".
func (l Line) FirstMove() string {
	if len(l.PV) == 0 {
		return ""
	}
	return l.PV[0]
}

// Position is the evaluation of one position of the game, lines ranked best-first.
type Position struct {
	FEN      string `json:"fen"`
	Ply      int    `json:"ply"`
	Lines    []Line `json:"lines"`
	BestMove string `json:"best_move,omitempty"`
}

// TopLine returns line 0, if any.
func (p Position) TopLine() (Line, bool) {
	if len(p.Lines) == 0 {
		return Line{}, false
	}
	return p.Lines[0], true
}

// Move is the transition between two consecutive positions.
type Move struct {
	SAN       string `json:"san"`
	UCI       string `json:"uci"`
	FENBefore string `json:"fen_before"`
	FENAfter  string `json:"fen_after"`
}

// Ratings holds the players' known ratings from game metadata, if any.
type Ratings struct {
	White *int `json:"white,omitempty"`
	Black *int `json:"black,omitempty"`
}

func (r Ratings) For(s Side) *int {
	if s == Black {
		return r.Black
	}
	return r.White
}

// Game is the immutable input of one analysis run.
type Game struct {
	Positions   []Position  `json:"positions"`
	Moves       []Move      `json:"moves"`
	Perspective Perspective `json:"perspective,omitempty"`
	Ratings     Ratings     `json:"ratings"`
}

// MoveClassification is the label attached to one ply.
type MoveClassification struct {
	Ply            int            `json:"ply"`
	Classification Classification `json:"classification"`
	Opening        string         `json:"opening,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
}

// PlayerAccuracy is one side's accuracy. Itera is the average of the other two.
type PlayerAccuracy struct {
	Itera    float64 `json:"itera"`
	Harmonic float64 `json:"harmonic"`
	Weighted float64 `json:"weighted"`
}

type AccuracySummary struct {
	White PlayerAccuracy `json:"white"`
	Black PlayerAccuracy `json:"black"`
}

func (a AccuracySummary) For(s Side) PlayerAccuracy {
	if s == Black {
		return a.Black
	}
	return a.White
}

type ACPLSummary struct {
	White int `json:"white"`
	Black int `json:"black"`
}

func (a ACPLSummary) For(s Side) int {
	if s == Black {
		return a.Black
	}
	return a.White
}

type EstimatedElo struct {
	White *int `json:"white,omitempty"`
	Black *int `json:"black,omitempty"`
}

// OpeningBook resolves a FEN to an opening name. Implementations match on the
// piece-placement field only.
type OpeningBook interface {
	Lookup(fen string) (string, bool)
}

func intPtr(v int) *int { return &v }
