package analysis

import "github.com/corentings/chess/v2"

var (
	ErrIllegalMove        = errIllegalMove
	IsMaterialSacrifice   = isMaterialSacrifice
	IsSameSquareRecapture = isSameSquareRecapture
	AlreadyDecided        = alreadyDecided
)

// PlayUCI plays a single move on fen and returns the captured piece type.
func PlayUCI(fen, uci string) (chess.PieceType, error) {
	b, err := newBoard(fen)
	if err != nil {
		return chess.NoPieceType, err
	}
	return b.play(uci)
}
