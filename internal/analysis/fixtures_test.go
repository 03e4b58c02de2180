package analysis_test

import "github.com/vytor/chessreport/internal/analysis"

const (
	fenStart    = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	fenAfterE4  = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	fenAfterE5  = "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2"
	fenAfterQh5 = "rnbqkbnr/pppp1ppp/8/4p2Q/4P3/8/PPPP1PPP/RNB1KBNR b KQkq - 1 2"

	// 1.e4 d5 2.exd5 Qxd5
	fenAfterD5    = "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2"
	fenAfterExd5  = "rnbqkbnr/ppp1pppp/8/3P4/8/8/PPPP1PPP/RNBQKBNR b KQkq - 0 2"
	fenAfterQxd5  = "rnb1kbnr/ppp1pppp/8/3q4/8/8/PPPP1PPP/RNBQKBNR w KQkq - 0 3"
	fenAfterA3Nf6 = "rnbqkb1r/ppp1pppp/5n2/3p4/4P3/P7/1PPP1PPP/RNBQKBNR w KQkq - 1 3"

	// white can take f5 en passant
	fenEnPassant = "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3"

	// white queen takes the rook on d8 and is recaptured
	fenQueenSac      = "3r1rk1/5ppp/8/8/8/8/5PPP/3Q2K1 w - - 0 1"
	fenAfterQueenSac = "3Q1rk1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1"
)

func cp(v int) *int { return &v }

func cpLine(score int, pv ...string) analysis.Line {
	return analysis.Line{PV: pv, CP: cp(score), Depth: 18}
}

func mateLine(n int, pv ...string) analysis.Line {
	return analysis.Line{PV: pv, Mate: cp(n), Depth: 18}
}

// scholarGame is 1.e4 e5 2.Qh5 with White-relative scores +30, +30, +20, -900.
func scholarGame() analysis.Game {
	return analysis.Game{
		Perspective: analysis.PerspectiveWhite,
		Positions: []analysis.Position{
			{FEN: fenStart, Ply: 0, Lines: []analysis.Line{cpLine(30, "e2e4", "e7e5"), cpLine(25, "d2d4", "d7d5")}},
			{FEN: fenAfterE4, Ply: 1, Lines: []analysis.Line{cpLine(30, "e7e5", "g1f3"), cpLine(35, "c7c5", "g1f3")}},
			{FEN: fenAfterE5, Ply: 2, Lines: []analysis.Line{cpLine(20, "g1f3", "b8c6"), cpLine(15, "f1c4", "g8f6")}},
			{FEN: fenAfterQh5, Ply: 3, Lines: []analysis.Line{cpLine(-900, "g7g6", "h5e5"), cpLine(-880, "g8f6", "h5e5")}},
		},
		Moves: []analysis.Move{
			{SAN: "e4", UCI: "e2e4", FENBefore: fenStart, FENAfter: fenAfterE4},
			{SAN: "e5", UCI: "e7e5", FENBefore: fenAfterE4, FENAfter: fenAfterE5},
			{SAN: "Qh5", UCI: "d1h5", FENBefore: fenAfterE5, FENAfter: fenAfterQh5},
		},
	}
}

// bookStub matches full FENs.
type bookStub map[string]string

func (b bookStub) Lookup(fen string) (string, bool) {
	name, ok := b[fen]
	return name, ok
}
