package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chessreport/internal/analysis"
	"github.com/vytor/chessreport/internal/opening"
)

const gameJSON = `{
  "white_player": "alice",
  "black_player": "bob",
  "perspective": "white",
  "positions": [
    {"fen": "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "ply": 0, "lines": [{"pv": ["e2e4"], "cp": 30}, {"pv": ["d2d4"], "cp": 25}]},
    {"fen": "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", "ply": 1, "lines": [{"pv": ["e7e5"], "cp": 30}, {"pv": ["c7c5"], "cp": 35}]},
    {"fen": "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2", "ply": 2, "lines": [{"pv": ["g1f3"], "cp": 20}]}
  ],
  "moves": [{"uci": "e2e4"}, {"uci": "e7e5"}]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", gameJSON)
	b := writeFile(t, dir, "b.json", gameJSON)

	results, err := analyzeFiles(context.Background(), []string{a, b}, 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, a, results[0].Path)
	assert.Equal(t, b, results[1].Path)
	assert.Len(t, results[0].Report.Moves, 2)
	assert.Equal(t, "alice", results[0].Game.WhitePlayer)
}

func TestAnalyzeFiles_BadInput(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", gameJSON)
	broken := writeFile(t, dir, "broken.json", `{"positions": [}`)
	short := writeFile(t, dir, "short.json", `{"positions": [], "moves": [{"uci": "e2e4"}]}`)

	_, err := analyzeFiles(context.Background(), []string{good, broken}, 1)
	assert.ErrorContains(t, err, "broken.json")

	_, err = analyzeFiles(context.Background(), []string{short}, 1)
	assert.ErrorContains(t, err, "expected 2 positions")

	_, err = analyzeFiles(context.Background(), []string{filepath.Join(dir, "missing.json")}, 1)
	assert.Error(t, err)
}

func TestAnalyzeFiles_WithBook(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "game.json", gameJSON)
	book := opening.New(opening.Entry{
		Name: "King's Pawn Game",
		FEN:  "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
	})

	results, err := analyzeFiles(context.Background(), []string{path}, 1, analysis.WithOpeningBook(book))

	require.NoError(t, err)
	assert.Equal(t, analysis.Opening, results[0].Report.Moves[0].Classification)
	assert.Equal(t, "King's Pawn Game", results[0].Report.Opening)
}

func TestWriteReportAndSummary(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "game.json", gameJSON)
	results, err := analyzeFiles(context.Background(), []string{path}, 1)
	require.NoError(t, err)

	out := t.TempDir()
	require.NoError(t, writeReport(out, results[0]))
	data, err := os.ReadFile(filepath.Join(out, "game.report.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"win_percentages"`)

	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, results))
	assert.Contains(t, buf.String(), "ACCURACY")
	assert.Contains(t, buf.String(), "alice")
	assert.Contains(t, buf.String(), "bob")
}
