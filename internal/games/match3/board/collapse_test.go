package board

import "testing"

func TestCollapseColumn(t *testing.T) {
	tests := []struct {
		name      string
		rows      []string
		want      string
		wantMoves int
	}{
		{
			name:      "single gap at bottom",
			rows:      []string{"A", "B", "."},
			want:      ".\nA\nB",
			wantMoves: 2,
		},
		{
			name:      "alternating gaps",
			rows:      []string{"A", ".", "B", ".", "C", "."},
			want:      ".\n.\n.\nA\nB\nC",
			wantMoves: 3,
		},
		{
			name:      "already settled",
			rows:      []string{".", "A", "B"},
			want:      ".\nA\nB",
			wantMoves: 0,
		},
		{
			name:      "empty column",
			rows:      []string{".", ".", "."},
			want:      ".\n.\n.",
			wantMoves: 0,
		},
		{
			name:      "full column",
			rows:      []string{"A", "B", "C"},
			want:      "A\nB\nC",
			wantMoves: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gridFromRows(t, tt.rows...)
			moves := CollapseColumn(g, 0)
			if len(moves) != tt.wantMoves {
				t.Errorf("moves = %d, want %d", len(moves), tt.wantMoves)
			}
			if g.String() != tt.want {
				t.Errorf("column after collapse:\n%s\nwant:\n%s", g, tt.want)
			}
			for _, m := range moves {
				if m.Piece.Coord() != m.To {
					t.Errorf("piece %v reports %v, moved to %v", m.Piece, m.Piece.Coord(), m.To)
				}
				if m.Distance() <= 0 {
					t.Errorf("move %v -> %v has distance %d", m.From, m.To, m.Distance())
				}
			}
		})
	}
}

func TestCollapseColumnDistances(t *testing.T) {
	g := gridFromRows(t,
		"B",
		".",
		".",
		"A",
		".",
	)
	moves := CollapseColumn(g, 0)
	if len(moves) != 2 {
		t.Fatalf("moves = %d, want 2", len(moves))
	}
	if moves[0].From != C(0, 1) || moves[0].To != C(0, 0) || moves[0].Distance() != 1 {
		t.Errorf("first move = %+v", moves[0])
	}
	if moves[1].From != C(0, 4) || moves[1].To != C(0, 1) || moves[1].Distance() != 3 {
		t.Errorf("second move = %+v", moves[1])
	}
}

func TestCollapseColumnIsIdempotent(t *testing.T) {
	g := gridFromRows(t,
		"AB.",
		".CA",
		"B.C",
		"..B",
	)
	for x := 0; x < g.Width(); x++ {
		CollapseColumn(g, x)
	}
	before := g.String()
	for x := 0; x < g.Width(); x++ {
		if moves := CollapseColumn(g, x); len(moves) != 0 {
			t.Errorf("second collapse of column %d moved %d pieces", x, len(moves))
		}
	}
	if g.String() != before {
		t.Errorf("second collapse changed the board:\n%s\nwas:\n%s", g, before)
	}
}

func TestCollapseColumnsLeavesNoGapBelowPiece(t *testing.T) {
	g := gridFromRows(t,
		"ABCA",
		".A.B",
		"C..A",
		"..B.",
	)
	cleared := []*Piece{g.Get(C(1, 2)), g.Get(C(3, 1)), g.Get(C(3, 1))}
	for _, p := range cleared[:2] {
		g.Clear(p.Coord())
	}

	cols := ColumnsOf(cleared)
	if len(cols) != 2 || cols[0] != 1 || cols[1] != 3 {
		t.Fatalf("ColumnsOf = %v, want [1 3]", cols)
	}

	moves := CollapseColumns(g, append(cols, 0, 2, 1))
	for x := 0; x < g.Width(); x++ {
		seenEmpty := false
		for y := 0; y < g.Height(); y++ {
			p := g.Get(C(x, y))
			if p == nil {
				seenEmpty = true
			} else if seenEmpty {
				t.Errorf("column %d has a piece at row %d above a gap:\n%s", x, y, g)
			}
		}
	}

	moved := Moved(moves)
	if len(moved) != len(moves) {
		t.Errorf("Moved() = %d pieces, want %d", len(moved), len(moves))
	}
}
