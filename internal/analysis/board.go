package analysis

import (
	"errors"
	"fmt"

	"github.com/corentings/chess/v2"
)

var (
	errIllegalMove  = errors.New("illegal move")
	errMalformedUCI = errors.New("malformed uci move")
)

// board replays UCI moves on top of a FEN. It is the only place that knows
// about piece placement and material.
type board struct {
	pos *chess.Position
}

func newBoard(fen string) (b *board, err error) {
	// the FEN decoder is not trusted with arbitrary input
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("decode fen %q: %v", fen, r)
		}
	}()

	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("decode fen %q: %w", fen, err)
	}
	return &board{pos: chess.NewGame(opt).Position()}, nil
}

func (b *board) turn() Side {
	if b.pos.Turn() == chess.Black {
		return Black
	}
	return White
}

// play applies a UCI move and returns the type of the captured piece, or
// chess.NoPieceType for a quiet move.
func (b *board) play(uci string) (captured chess.PieceType, err error) {
	if len(uci) < 4 || len(uci) > 5 {
		return chess.NoPieceType, fmt.Errorf("%w: %q", errMalformedUCI, uci)
	}
	defer func() {
		if r := recover(); r != nil {
			captured, err = chess.NoPieceType, fmt.Errorf("%w: %s: %v", errIllegalMove, uci, r)
		}
	}()

	m, err := chess.UCINotation{}.Decode(b.pos, uci)
	if err != nil {
		return chess.NoPieceType, fmt.Errorf("%w: %s: %v", errIllegalMove, uci, err)
	}
	if !b.isLegal(m) {
		return chess.NoPieceType, fmt.Errorf("%w: %s", errIllegalMove, uci)
	}

	sq := b.pos.Board()
	piece := sq.Piece(m.S1())
	if piece == chess.NoPiece || piece.Color() != b.pos.Turn() {
		return chess.NoPieceType, fmt.Errorf("%w: %s: no piece of the side to move on origin", errIllegalMove, uci)
	}

	captured = chess.NoPieceType
	target := sq.Piece(m.S2())
	switch {
	case target != chess.NoPiece && target.Color() == piece.Color():
		return chess.NoPieceType, fmt.Errorf("%w: %s: destination holds own piece", errIllegalMove, uci)
	case target != chess.NoPiece:
		captured = target.Type()
	case piece.Type() == chess.Pawn && m.S1().File() != m.S2().File():
		// en passant
		captured = chess.Pawn
	}

	b.pos = b.pos.Update(m)
	return captured, nil
}

func (b *board) isLegal(m *chess.Move) bool {
	for _, v := range b.pos.ValidMoves() {
		if v.S1() == m.S1() && v.S2() == m.S2() && v.Promo() == m.Promo() {
			return true
		}
	}
	return false
}

// material is the White-relative material balance.
func (b *board) material() int {
	total := 0
	for _, p := range b.pos.Board().SquareMap() {
		v := pieceValue(p.Type())
		if p.Color() == chess.White {
			total += v
		} else {
			total -= v
		}
	}
	return total
}

func pieceValue(t chess.PieceType) int {
	switch t {
	case chess.Pawn:
		return 1
	case chess.Knight, chess.Bishop:
		return 3
	case chess.Rook:
		return 5
	case chess.Queen:
		return 9
	default:
		return 0
	}
}

// isMaterialSacrifice replays the played move followed by the engine's
// continuation and reports whether the mover ends up behind in material once
// equal trades are cancelled out.
func isMaterialSacrifice(fenBefore, played string, continuation []string) (bool, error) {
	if len(continuation) == 0 {
		return false, nil
	}
	b, err := newBoard(fenBefore)
	if err != nil {
		return false, err
	}
	mover := b.turn()
	start := b.material()

	seq := make([]string, 0, len(continuation)+1)
	seq = append(seq, played)
	seq = append(seq, continuation...)
	if len(seq)%2 == 1 {
		seq = seq[:len(seq)-1]
	}

	captured := map[Side][]chess.PieceType{}
	quiet := 1
	for _, uci := range seq {
		side := b.turn()
		c, err := b.play(uci)
		if err != nil {
			return false, err
		}
		if c != chess.NoPieceType {
			captured[side] = append(captured[side], c)
			quiet = 1
			continue
		}
		quiet--
		if quiet < 0 {
			break
		}
	}

	white, black := cancelTrades(captured[White], captured[Black])
	if isPawnNoise(white, black) {
		return false, nil
	}

	diff := float64(b.material()-start) * mover.Sign()
	return diff < 0, nil
}

// cancelTrades removes pieces of the same type captured by both sides.
func cancelTrades(white, black []chess.PieceType) ([]chess.PieceType, []chess.PieceType) {
	w := append([]chess.PieceType(nil), white...)
	bl := append([]chess.PieceType(nil), black...)
	for i := 0; i < len(w); {
		j := indexOf(bl, w[i])
		if j < 0 {
			i++
			continue
		}
		bl = append(bl[:j], bl[j+1:]...)
		w = append(w[:i], w[i+1:]...)
	}
	return w, bl
}

func indexOf(ts []chess.PieceType, t chess.PieceType) int {
	for i, v := range ts {
		if v == t {
			return i
		}
	}
	return -1
}

func isPawnNoise(white, black []chess.PieceType) bool {
	d := len(white) - len(black)
	if d < -1 || d > 1 {
		return false
	}
	for _, t := range append(append([]chess.PieceType(nil), white...), black...) {
		if t != chess.Pawn {
			return false
		}
	}
	return true
}

// isSameSquareRecapture reports whether cur lands on the square prev just
// captured on. fenBeforePrev is the position prev was played from.
func isSameSquareRecapture(fenBeforePrev, prev, cur string) (bool, error) {
	if len(prev) < 4 || len(cur) < 4 {
		return false, errMalformedUCI
	}
	if prev[2:4] != cur[2:4] {
		return false, nil
	}
	b, err := newBoard(fenBeforePrev)
	if err != nil {
		return false, err
	}
	c, err := b.play(prev)
	if err != nil {
		return false, err
	}
	return c != chess.NoPieceType, nil
}

// sanFor encodes uci in standard algebraic notation from fenBefore.
func sanFor(fenBefore, uci string) (san string, err error) {
	defer func() {
		if r := recover(); r != nil {
			san, err = "", fmt.Errorf("%w: %s: %v", errIllegalMove, uci, r)
		}
	}()
	b, err := newBoard(fenBefore)
	if err != nil {
		return "", err
	}
	m, err := chess.UCINotation{}.Decode(b.pos, uci)
	if err != nil {
		return "", err
	}
	if !b.isLegal(m) {
		return "", fmt.Errorf("%w: %s", errIllegalMove, uci)
	}
	return chess.AlgebraicNotation{}.Encode(b.pos, m), nil
}

// FillSAN returns a copy of moves where every empty SAN is derived from the
// FEN before the move and its UCI. Moves that cannot be replayed keep their UCI
// as SAN.
func FillSAN(moves []Move) []Move {
	out := make([]Move, len(moves))
	copy(out, moves)
	for i := range out {
		if out[i].SAN != "" {
			continue
		}
		san, err := sanFor(out[i].FENBefore, out[i].UCI)
		if err != nil || san == "" {
			out[i].SAN = out[i].UCI
			continue
		}
		out[i].SAN = san
	}
	return out
}
