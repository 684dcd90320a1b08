package board

import (
	"testing"
)

// gridFromRows is FromRows for tests.
func gridFromRows(t *testing.T, rows ...string) *Grid {
	t.Helper()
	g, err := FromRows(rows...)
	if err != nil {
		t.Fatalf("FromRows(%q) error = %v", rows, err)
	}
	return g
}

// scriptSource replays a fixed sequence of values, cycling when exhausted.
type scriptSource struct {
	values []int
	next   int
}

func (s *scriptSource) IntN(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

// testConfig returns a config sized to g with default timing.
func testConfig(g *Grid, alphabet int) Config {
	cfg := DefaultConfig()
	cfg.Width = g.Width()
	cfg.Height = g.Height()
	cfg.Alphabet = alphabet
	return cfg
}

func coordsOf(pieces []*Piece) map[Coord]bool {
	set := make(map[Coord]bool, len(pieces))
	for _, p := range pieces {
		set[p.Coord()] = true
	}
	return set
}
