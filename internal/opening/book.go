// Package opening resolves positions to opening names.
package opening

import (
	"strings"
)

// Key normalizes a FEN to its piece placement field, lower-cased. Side to
// move, castling rights, en passant and clocks are ignored.
func Key(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// Entry is one named position of a book.
type Entry struct {
	Name string `yaml:"name" json:"name"`
	ECO  string `yaml:"eco,omitempty" json:"eco,omitempty"`
	FEN  string `yaml:"fen" json:"fen"`
}

// Book is an in-memory opening book keyed by Key. The zero value is not
// usable; use New.
type Book struct {
	names map[string]string
}

func New(entries ...Entry) *Book {
	b := &Book{names: make(map[string]string, len(entries))}
	for _, e := range entries {
		b.Add(e)
	}
	return b
}

// Add registers e unless its position is already known. It reports whether
// the entry was added.
func (b *Book) Add(e Entry) bool {
	k := Key(e.FEN)
	if k == "" || e.Name == "" {
		return false
	}
	if _, ok := b.names[k]; ok {
		return false
	}
	b.names[k] = e.Name
	return true
}

// Lookup returns the name of the opening whose position matches fen.
func (b *Book) Lookup(fen string) (string, bool) {
	if b == nil {
		return "", false
	}
	name, ok := b.names[Key(fen)]
	return name, ok
}

func (b *Book) Len() int {
	if b == nil {
		return 0
	}
	return len(b.names)
}

// Merge returns a new book holding every position of books. When a position
// appears more than once the first book wins.
func Merge(books ...*Book) *Book {
	out := New()
	for _, b := range books {
		if b == nil {
			continue
		}
		for k, name := range b.names {
			if _, ok := out.names[k]; !ok {
				out.names[k] = name
			}
		}
	}
	return out
}
