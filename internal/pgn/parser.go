package pgn

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vytor/chessreport/internal/analysis"
)

var headerRe = regexp.MustCompile(`^\[(\w+)\s+"([^"]*)"\]`)

// Headers are the tag pairs of a PGN game.
type Headers map[string]string

// ParseHeaders extracts the PGN tag pairs. Malformed tags are ignored.
func ParseHeaders(pgn string) Headers {
	out := Headers{}
	for _, line := range strings.Split(pgn, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") {
			continue
		}
		m := headerRe.FindStringSubmatch(line)
		if len(m) == 3 && m[2] != "" {
			out[m[1]] = m[2]
		}
	}
	return out
}

// Player returns the name of the player of side, "" when unknown.
func (h Headers) Player(side analysis.Side) string {
	name := h["White"]
	if side == analysis.Black {
		name = h["Black"]
	}
	if name == "?" {
		return ""
	}
	return name
}

// Ratings returns the WhiteElo and BlackElo tags. Missing, unknown ("?", "-")
// or non-positive ratings are nil.
func (h Headers) Ratings() analysis.Ratings {
	return analysis.Ratings{
		White: rating(h["WhiteElo"]),
		Black: rating(h["BlackElo"]),
	}
}

func rating(v string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}
