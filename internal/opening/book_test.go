package opening_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chessreport/internal/opening"
)

const (
	fenAfterE4 = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	fenAfterC5 = "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		expected string
	}{
		{name: "full fen", fen: fenAfterE4, expected: "rnbqkbnr/pppppppp/8/8/4p3/8/pppp1ppp/rnbqkbnr"},
		{name: "placement only", fen: "8/8/8/8/8/8/8/K6k", expected: "8/8/8/8/8/8/8/k6k"},
		{name: "surrounding spaces", fen: "  8/8/8/8/8/8/8/K6k w - - 0 1 ", expected: "8/8/8/8/8/8/8/k6k"},
		{name: "empty", fen: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, opening.Key(tt.fen))
		})
	}
}

func TestBook_Lookup(t *testing.T) {
	b := opening.New(opening.Entry{Name: "King's Pawn Game", ECO: "B00", FEN: fenAfterE4})

	t.Run("ignores fields beyond placement", func(t *testing.T) {
		name, ok := b.Lookup("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR w - - 5 9")
		require.True(t, ok)
		assert.Equal(t, "King's Pawn Game", name)
	})

	t.Run("case insensitive", func(t *testing.T) {
		_, ok := b.Lookup(strings.ToUpper(fenAfterE4))
		assert.True(t, ok)
	})

	t.Run("unknown position", func(t *testing.T) {
		_, ok := b.Lookup(fenAfterC5)
		assert.False(t, ok)
	})

	t.Run("nil book", func(t *testing.T) {
		var nb *opening.Book
		_, ok := nb.Lookup(fenAfterE4)
		assert.False(t, ok)
		assert.Zero(t, nb.Len())
	})
}

func TestBook_Add(t *testing.T) {
	b := opening.New()

	assert.True(t, b.Add(opening.Entry{Name: "first", FEN: fenAfterE4}))
	assert.False(t, b.Add(opening.Entry{Name: "second", FEN: fenAfterE4}))
	assert.False(t, b.Add(opening.Entry{Name: "no fen"}))

	name, _ := b.Lookup(fenAfterE4)
	assert.Equal(t, "first", name)
	assert.Equal(t, 1, b.Len())
}

func TestMerge(t *testing.T) {
	a := opening.New(opening.Entry{Name: "custom", FEN: fenAfterE4})
	b := opening.New(
		opening.Entry{Name: "King's Pawn Game", FEN: fenAfterE4},
		opening.Entry{Name: "Sicilian Defense", FEN: fenAfterC5},
	)

	m := opening.Merge(a, nil, b)

	assert.Equal(t, 2, m.Len())
	name, _ := m.Lookup(fenAfterE4)
	assert.Equal(t, "custom", name)
	name, _ = m.Lookup(fenAfterC5)
	assert.Equal(t, "Sicilian Defense", name)
}

func TestParseYAML(t *testing.T) {
	t.Run("valid book", func(t *testing.T) {
		src := `
- name: King's Pawn Game
  eco: B00
  fen: ` + fenAfterE4 + `
- name: Sicilian Defense
  eco: B20
  fen: ` + fenAfterC5 + `
`
		b, err := opening.ParseYAML(strings.NewReader(src))
		require.NoError(t, err)
		assert.Equal(t, 2, b.Len())

		name, ok := b.Lookup(fenAfterC5)
		require.True(t, ok)
		assert.Equal(t, "Sicilian Defense", name)
	})

	t.Run("empty document", func(t *testing.T) {
		b, err := opening.ParseYAML(strings.NewReader(""))
		require.NoError(t, err)
		assert.Zero(t, b.Len())
	})

	t.Run("missing fen", func(t *testing.T) {
		_, err := opening.ParseYAML(strings.NewReader("- name: nowhere\n"))
		assert.Error(t, err)
	})

	t.Run("not a list", func(t *testing.T) {
		_, err := opening.ParseYAML(strings.NewReader("name: x\n"))
		assert.Error(t, err)
	})
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: King's Pawn Game\n  fen: "+fenAfterE4+"\n"), 0o644))

	b, err := opening.LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())

	_, err = opening.LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewECOBook(t *testing.T) {
	b := opening.NewECOBook()

	assert.Greater(t, b.Len(), 100)
	name, ok := b.Lookup(fenAfterC5)
	require.True(t, ok)
	assert.Contains(t, name, "Sicilian")
	assert.Contains(t, name, "(B")

	_, ok = b.Lookup("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	assert.False(t, ok, "the initial position is not an opening")
}
