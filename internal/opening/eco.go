package opening

import (
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
)

// NewECOBook builds a book from the ECO database bundled with the chess
// library, keyed by the final position of every ECO line. Names are formatted
// as "<title> (<code>)".
func NewECOBook() *Book {
	b := New()
	for _, o := range opening.NewBookECO().Possible(nil) {
		if o == nil {
			continue
		}
		fen, err := replayUCI(o.PGN())
		if err != nil {
			continue
		}
		b.Add(Entry{Name: fmt.Sprintf("%s (%s)", o.Title(), o.Code()), ECO: o.Code(), FEN: fen})
	}
	return b
}

// replayUCI plays a space separated list of UCI moves from the initial
// position and returns the resulting FEN.
func replayUCI(moves string) (fen string, err error) {
	defer func() {
		if r := recover(); r != nil {
			fen, err = "", fmt.Errorf("replay %q: %v", moves, r)
		}
	}()

	fields := strings.Fields(moves)
	if len(fields) == 0 {
		return "", fmt.Errorf("replay: empty move list")
	}
	pos := chess.NewGame().Position()
	for _, uci := range fields {
		m, err := chess.UCINotation{}.Decode(pos, uci)
		if err != nil {
			return "", fmt.Errorf("replay %q: %w", moves, err)
		}
		pos = pos.Update(m)
	}
	return pos.String(), nil
}
