package analysis_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chessreport/internal/analysis"
)

func TestAnalyze_QueenBlunder(t *testing.T) {
	report := analysis.Analyze(scholarGame())

	require.Len(t, report.Moves, 3)
	require.Len(t, report.WinPercentages, 4)

	qh5 := report.Moves[2]
	assert.Equal(t, analysis.Blunder, qh5.Classification)
	assert.Equal(t, analysis.White, qh5.Side)
	assert.Greater(t, qh5.WinBefore-qh5.WinAfter, 20.0)
	assert.InDelta(t, 10.4097, qh5.Accuracy, 1e-3)

	assert.Equal(t, 460, report.ACPL.White)
	assert.Equal(t, 0, report.ACPL.Black)
	assert.Less(t, report.Accuracy.White.Itera, 50.0)
	assert.InDelta(t, 16.4249, report.Accuracy.White.Itera, 1e-3)
	assert.InDelta(t, 100, report.Accuracy.Black.Itera, 1e-9)

	require.NotNil(t, report.EstimatedElo.White)
	require.NotNil(t, report.EstimatedElo.Black)
	assert.Equal(t, 31, *report.EstimatedElo.White)
	assert.Equal(t, 3100, *report.EstimatedElo.Black)
}

func TestAnalyze_SideToMoveInput(t *testing.T) {
	white := scholarGame()

	raw := scholarGame()
	raw.Perspective = analysis.PerspectiveSideToMove
	raw.Positions[1].Lines = []analysis.Line{cpLine(-30, "e7e5", "g1f3"), cpLine(-35, "c7c5", "g1f3")}
	raw.Positions[3].Lines = []analysis.Line{cpLine(900, "g7g6", "h5e5"), cpLine(880, "g8f6", "h5e5")}

	a := analysis.Analyze(white)
	b := analysis.Analyze(raw)

	assert.Equal(t, a.Classifications(), b.Classifications())
	assert.Equal(t, a.ACPL, b.ACPL)
	assert.Equal(t, a.Accuracy, b.Accuracy)
	assert.Equal(t, a.WinPercentages, b.WinPercentages)
}

func TestAnalyze_Ratings(t *testing.T) {
	g := scholarGame()
	g.Ratings = analysis.Ratings{White: cp(1500)}

	report := analysis.Analyze(g)

	require.NotNil(t, report.EstimatedElo.White)
	assert.Equal(t, 216, *report.EstimatedElo.White)
	require.NotNil(t, report.EstimatedElo.Black)
	assert.Equal(t, 2156, *report.EstimatedElo.Black)
}

func TestAnalyze_OpeningBook(t *testing.T) {
	book := bookStub{fenAfterE4: "King's Pawn Game", fenAfterE5: "King's Pawn Game: Open"}

	report := analysis.Analyze(scholarGame(), analysis.WithOpeningBook(book))

	assert.Equal(t, "King's Pawn Game: Open", report.Opening)
	assert.Equal(t, analysis.Opening, report.Moves[0].Classification)
	assert.Equal(t, analysis.Opening, report.Moves[1].Classification)
	assert.Equal(t, analysis.Blunder, report.Moves[2].Classification)
	assert.Equal(t, "King's Pawn Game: Open", report.Moves[2].Opening)
}

func TestAnalyze_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		game analysis.Game
	}{
		{name: "empty", game: analysis.Game{}},
		{name: "single position", game: analysis.Game{Positions: []analysis.Position{{FEN: fenStart, Lines: []analysis.Line{cpLine(20)}}}}},
		{name: "moves without positions", game: analysis.Game{Moves: []analysis.Move{{UCI: "e2e4"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := analysis.Analyze(tt.game)

			assert.Empty(t, report.Moves)
			assert.Equal(t, analysis.AccuracySummary{}, report.Accuracy)
			assert.Equal(t, analysis.ACPLSummary{}, report.ACPL)
			assert.Nil(t, report.EstimatedElo.White)
			assert.Nil(t, report.EstimatedElo.Black)
		})
	}
}

func TestAnalyze_MissingEvaluations(t *testing.T) {
	g := scholarGame()
	for i := range g.Positions {
		g.Positions[i].Lines = nil
	}

	report := analysis.Analyze(g)

	assert.Equal(t, []float64{50, 50, 50, 50}, report.WinPercentages)
	for _, m := range report.Moves {
		assert.Equal(t, analysis.Excellent, m.Classification)
		assert.Equal(t, 100.0, m.Accuracy)
	}
}

func TestReport_Counts(t *testing.T) {
	report := analysis.Analyze(scholarGame())

	counts := report.Counts()

	assert.Equal(t, 1, counts.White[analysis.Best])
	assert.Equal(t, 1, counts.White[analysis.Blunder])
	assert.Equal(t, 1, counts.Black[analysis.Best])
	assert.Zero(t, counts.Black[analysis.Blunder])
}

func TestReport_JSON(t *testing.T) {
	report := analysis.Analyze(scholarGame())

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	moves := decoded["moves"].([]any)
	first := moves[0].(map[string]any)
	assert.Equal(t, "white", first["side"])
	assert.Equal(t, "best", first["classification"])
	assert.Contains(t, decoded, "estimated_elo")
}
