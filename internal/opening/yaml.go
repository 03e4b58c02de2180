package opening

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads a book written as a YAML list of entries:
//
//	- name: Sicilian Defense
//	  eco: B20
//	  fen: rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2
func ParseYAML(r io.Reader) (*Book, error) {
	var entries []Entry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode opening book: %w", err)
	}

	b := New()
	for i, e := range entries {
		if e.FEN == "" || e.Name == "" {
			return nil, fmt.Errorf("opening book entry %d: name and fen are required", i)
		}
		b.Add(e)
	}
	return b, nil
}

// LoadYAML reads a YAML book from path.
func LoadYAML(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	defer f.Close()

	return ParseYAML(f)
}
