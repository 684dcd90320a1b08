package board

import "testing"

func TestFillBoardAvoidingMatchesLeavesNoMatches(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		alphabet int
	}{
		{"8x8 five values", 8, 8, 5},
		{"9x9 four values", 9, 9, 4},
		{"tall narrow", 3, 12, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(1); seed <= 20; seed++ {
				g := NewGrid(tt.w, tt.h)
				f := NewFiller(NewSource(seed), tt.alphabet, 100, 3)

				spawned := f.FillBoardAvoidingMatches(g)
				if len(spawned) != tt.w*tt.h {
					t.Fatalf("seed %d: spawned %d, want %d", seed, len(spawned), tt.w*tt.h)
				}
				if f.Exhausted() != 0 {
					t.Fatalf("seed %d: Exhausted() = %d, want 0", seed, f.Exhausted())
				}
				if m := AllMatches(g, 3); m != nil {
					t.Fatalf("seed %d: AllMatches = %v\n%s", seed, m, g)
				}
			}
		})
	}
}

func TestFillBoardIsDeterministicPerSeed(t *testing.T) {
	a, b := NewGrid(6, 6), NewGrid(6, 6)
	NewFiller(NewSource(42), 5, 100, 3).FillBoardAvoidingMatches(a)
	NewFiller(NewSource(42), 5, 100, 3).FillBoardAvoidingMatches(b)
	if a.String() != b.String() {
		t.Errorf("same seed produced different boards:\n%s\n\n%s", a, b)
	}
}

func TestFillBoardOnlyFillsEmptyCells(t *testing.T) {
	g := gridFromRows(t,
		"...",
		"A..",
		"BA.",
	)
	kept := g.Get(C(0, 0))
	f := NewFiller(NewSource(7), 4, 100, 3)

	spawned := f.FillBoardAvoidingMatches(g)
	if len(spawned) != 6 {
		t.Errorf("spawned %d, want 6", len(spawned))
	}
	if g.Get(C(0, 0)) != kept {
		t.Error("occupied cell was replaced")
	}
	if g.Empty() != 0 {
		t.Errorf("Empty() = %d after fill", g.Empty())
	}
	// Column-major, bottom-up order.
	if spawned[0].Coord() != C(0, 2) || spawned[1].Coord() != C(1, 1) {
		t.Errorf("fill order starts %v %v, want (0,2) (1,1)", spawned[0].Coord(), spawned[1].Coord())
	}
}

func TestFillBoardRerollsOnLeftAndDown(t *testing.T) {
	// Cell (2,0) has AA to its left; cell (0,2) has AA below it.
	g := gridFromRows(t,
		".BB",
		"ABA",
		"AA.",
	)
	// First roll is A at each cell, which completes a run; the re-roll is B.
	src := &scriptSource{values: []int{0, 1}}
	f := NewFiller(src, 2, 100, 3)

	f.FillBoardAvoidingMatches(g)
	if v := g.Get(C(0, 2)).Value(); v != 1 {
		t.Errorf("(0,2) = %c, want B", v.Rune())
	}
	if v := g.Get(C(2, 0)).Value(); v != 1 {
		t.Errorf("(2,0) = %c, want B", v.Rune())
	}
	if f.Exhausted() != 0 {
		t.Errorf("Exhausted() = %d, want 0", f.Exhausted())
	}
}

func TestFillBoardExhaustionKeepsLastRoll(t *testing.T) {
	g := gridFromRows(t,
		"BC.",
		"AA.",
	)
	// Every roll is A, so (2,0) can never avoid the run.
	src := &scriptSource{values: []int{0}}
	f := NewFiller(src, 3, 5, 3)

	f.FillBoardAvoidingMatches(g)
	if f.Exhausted() != 1 {
		t.Fatalf("Exhausted() = %d, want 1", f.Exhausted())
	}
	if g.Get(C(2, 0)).Value() != 0 {
		t.Errorf("(2,0) should keep the last roll")
	}
	if AllMatches(g, 3) == nil {
		t.Error("exhausted fill should leave the match in place")
	}
}

func TestFillCellSkipsOccupied(t *testing.T) {
	g := gridFromRows(t, "A.")
	f := NewFiller(NewSource(1), 3, 100, 3)
	if p := f.FillCell(g, C(0, 0)); p != nil {
		t.Errorf("FillCell(occupied) = %v, want nil", p)
	}
	p := f.FillCell(g, C(1, 0))
	if p == nil || g.Get(C(1, 0)) != p {
		t.Fatalf("FillCell(empty) did not place a piece")
	}
	if p.Value() < 0 || p.Value() >= 3 {
		t.Errorf("value %d outside alphabet", p.Value())
	}
}
