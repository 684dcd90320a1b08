package board

import (
	"errors"
	"testing"
	"time"
)

// swapBoard is stable; swapping (0,2) and (1,2) completes AAA in column 0.
var swapBoard = []string{
	"BABA",
	"BAAB",
	"ABAB",
	"AABA",
}

// comboBoard is stable; swapping (0,2) and (1,2) clears column 0, after
// which the B from (0,3) lands between two Bs on row 0.
var comboBoard = []string{
	"BACB",
	"CABA",
	"ACAB",
	"ABBC",
}

func newTestResolver(t *testing.T, rows []string, alphabet int, script []int, opts ...Option) (*Resolver, *Recorder) {
	t.Helper()
	g := gridFromRows(t, rows...)
	if m := AllMatches(g, 3); m != nil {
		t.Fatalf("test board is not stable: %v\n%s", m, g)
	}
	rec := &Recorder{}
	opts = append([]Option{
		WithGrid(g),
		WithRand(&scriptSource{values: script}),
		WithSink(rec),
	}, opts...)
	r, err := New(testConfig(g, alphabet), opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return r, rec
}

func TestNewFillsWithoutMatches(t *testing.T) {
	rec := &Recorder{}
	r, err := New(DefaultConfig(), WithSeed(3), WithSink(rec))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if r.State() != StateIdle {
		t.Errorf("State() = %v, want idle", r.State())
	}
	if got := rec.Count(KindPieceSpawned); got != 64 {
		t.Errorf("spawn events = %d, want 64", got)
	}
	if m := AllMatches(r.Grid(), 3); m != nil {
		t.Errorf("initial board has matches:\n%s", r.Grid())
	}
	for _, ev := range rec.Events {
		if s := ev.(PieceSpawned); s.FallFrom != 10 {
			t.Errorf("FallFrom = %d, want 10", s.FallFrom)
			break
		}
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Alphabet = 1
	cfg.Width = 0
	if _, err := New(cfg); err == nil {
		t.Fatal("New() with invalid config should fail")
	}

	g := NewGrid(3, 3)
	if _, err := New(DefaultConfig(), WithGrid(g)); err == nil {
		t.Error("New() with mismatched grid should fail")
	}

	cfg = DefaultConfig()
	cfg.Width = MaxDimension + 1
	if _, err := New(cfg); err == nil {
		t.Errorf("New() with width %d should fail", cfg.Width)
	}

	g = gridFromRows(t,
		"ZAB",
		"ABA",
		"BAB",
	)
	if _, err := New(testConfig(g, 5), WithGrid(g)); err == nil {
		t.Error("New() with a value outside the alphabet should fail")
	}
}

func TestProposeSwapValidation(t *testing.T) {
	tests := []struct {
		name string
		a, b Coord
		want error
	}{
		{"diagonal", C(0, 0), C(1, 1), ErrNotAdjacent},
		{"far apart", C(0, 0), C(3, 3), ErrNotAdjacent},
		{"same cell", C(2, 2), C(2, 2), ErrSameCell},
		{"off the board", C(0, 0), C(5, 5), ErrOutOfRange},
		{"negative", C(0, 0), C(-1, 0), ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, rec := newTestResolver(t, swapBoard, 2, nil)
			before := r.Grid().String()

			err := r.ProposeSwap(tt.a, tt.b)
			if !errors.Is(err, tt.want) {
				t.Errorf("ProposeSwap = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrInvalidSwap) {
				t.Errorf("error %v does not wrap ErrInvalidSwap", err)
			}
			if r.State() != StateIdle {
				t.Errorf("State() = %v, want idle", r.State())
			}
			if r.Grid().String() != before || len(rec.Events) != 0 {
				t.Error("rejected swap changed the board")
			}
		})
	}
}

func TestProposeSwapAdjacentAccepted(t *testing.T) {
	r, _ := newTestResolver(t, swapBoard, 2, nil)
	if err := r.ProposeSwap(C(0, 0), C(1, 0)); err != nil {
		t.Fatalf("ProposeSwap((0,0),(1,0)) = %v, want nil", err)
	}
	if r.State() != StateResolving {
		t.Errorf("State() = %v, want resolving", r.State())
	}
	if err := r.ProposeSwap(C(2, 0), C(3, 0)); !errors.Is(err, ErrBusy) {
		t.Errorf("ProposeSwap while resolving = %v, want ErrBusy", err)
	}
}

func TestProposeSwapEmptyCell(t *testing.T) {
	g := gridFromRows(t,
		"AB.",
		"BAB",
	)
	r, err := New(testConfig(g, 2), WithGrid(g), WithRand(&scriptSource{}))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	// New fills the gap; clear it again to simulate a missing piece.
	r.Grid().Clear(C(2, 1))
	if err := r.ProposeSwap(C(1, 1), C(2, 1)); !errors.Is(err, ErrEmptyCell) {
		t.Errorf("ProposeSwap to empty cell = %v, want ErrEmptyCell", err)
	}
}

func TestSwapWithoutMatchReverts(t *testing.T) {
	r, rec := newTestResolver(t, swapBoard, 2, nil)
	before := r.Grid().String()
	a, b := r.Grid().Get(C(3, 0)), r.Grid().Get(C(3, 1))

	turn, err := r.Play(C(3, 0), C(3, 1))
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if turn.Accepted {
		t.Error("turn should not be accepted")
	}
	if r.State() != StateIdle {
		t.Errorf("State() = %v, want idle", r.State())
	}
	if r.Grid().String() != before {
		t.Errorf("board changed:\n%s\nwant:\n%s", r.Grid(), before)
	}
	if a.Coord() != C(3, 0) || b.Coord() != C(3, 1) {
		t.Errorf("pieces at %v %v, want original cells", a.Coord(), b.Coord())
	}

	for _, kind := range []string{KindPieceCleared, KindPieceSpawned, KindMatchFound, KindBoardStable} {
		if n := rec.Count(kind); n != 0 {
			t.Errorf("%s events = %d, want 0", kind, n)
		}
	}
	want := []string{KindSwapApplied, KindPieceMoved, KindPieceMoved, KindPieceMoved, KindPieceMoved, KindSwapReverted}
	if got := rec.Kinds(); !equalStrings(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestSwapClearsColumnAndRefills(t *testing.T) {
	// Refill rolls A, B, A into column 0, rows 1-3.
	r, rec := newTestResolver(t, swapBoard, 2, []int{0, 1, 0})
	fallen := r.Grid().Get(C(0, 3))

	turn, err := r.Play(C(0, 2), C(1, 2))
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}

	if !turn.Accepted || turn.Passes != 1 || turn.Cleared != 3 || turn.Spawned != 3 || turn.Truncated {
		t.Errorf("turn = %+v", turn)
	}
	if fallen.Coord() != C(0, 0) {
		t.Errorf("B from the top of column 0 is at %v, want (0,0)", fallen.Coord())
	}

	want := "AABA\nBBAB\nABAB\nBABA"
	if got := r.Grid().String(); got != want {
		t.Errorf("board:\n%s\nwant:\n%s", got, want)
	}
	if m := AllMatches(r.Grid(), 3); m != nil {
		t.Errorf("stable board has matches: %v", m)
	}

	cleared := map[Coord]bool{}
	var fall *PieceMoved
	var spawnRows []int
	for _, ev := range rec.Events {
		switch e := ev.(type) {
		case PieceCleared:
			cleared[e.At] = true
		case PieceMoved:
			if e.Piece == fallen && e.To == C(0, 0) {
				fall = &e
			}
		case PieceSpawned:
			if e.At.X != 0 {
				t.Errorf("spawn outside column 0 at %v", e.At)
			}
			spawnRows = append(spawnRows, e.At.Y)
		}
	}
	for y := 0; y < 3; y++ {
		if !cleared[C(0, y)] {
			t.Errorf("(0,%d) was not cleared", y)
		}
	}
	if fall == nil {
		t.Fatal("no fall event for the B")
	}
	if fall.Duration != 3*DefaultTiming().CollapsePerCell {
		t.Errorf("fall duration = %v, want 3 cells", fall.Duration)
	}
	if !equalInts(spawnRows, []int{1, 2, 3}) {
		t.Errorf("spawn rows = %v, want [1 2 3]", spawnRows)
	}

	last := rec.Events[len(rec.Events)-1]
	stable, ok := last.(BoardStable)
	if !ok {
		t.Fatalf("last event = %s, want board_stable", last.Kind())
	}
	if stable.Turn != turn {
		t.Errorf("BoardStable.Turn = %+v, want %+v", stable.Turn, turn)
	}
}

func TestCollapseComboRunsSecondPass(t *testing.T) {
	r, rec := newTestResolver(t, comboBoard, 3, []int{0, 1, 2, 0, 1, 0})

	turn, err := r.Play(C(0, 2), C(1, 2))
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if turn.Passes != 2 || turn.Cleared != 6 || turn.Spawned != 6 {
		t.Errorf("turn = %+v, want 2 passes clearing and spawning 6", turn)
	}

	var passes []int
	firstSpawn := -1
	for i, ev := range rec.Events {
		switch e := ev.(type) {
		case MatchFound:
			passes = append(passes, e.Pass)
			if e.Pass == 2 {
				set := coordsOf(e.Pieces)
				for _, c := range []Coord{C(0, 0), C(1, 0), C(2, 0)} {
					if !set[c] {
						t.Errorf("combo missing %v", c)
					}
				}
			}
		case PieceSpawned:
			if firstSpawn < 0 {
				firstSpawn = i
			}
		}
	}
	if !equalInts(passes, []int{1, 2}) {
		t.Errorf("match passes = %v, want [1 2]", passes)
	}
	for i, ev := range rec.Events {
		if m, ok := ev.(MatchFound); ok && m.Pass == 2 && i > firstSpawn {
			t.Error("combo was found after refill; it must come from collapse")
		}
	}
	if rec.Events[len(rec.Events)-1].Kind() != KindBoardStable {
		t.Errorf("last event = %s, want board_stable", rec.Events[len(rec.Events)-1].Kind())
	}

	want := "ABAB\nCACA\nBCBB\nACAC"
	if got := r.Grid().String(); got != want {
		t.Errorf("board:\n%s\nwant:\n%s", got, want)
	}
}

func TestCascadeCapTruncates(t *testing.T) {
	r, rec := newTestResolver(t, comboBoard, 3, []int{0, 1, 0}, func(r *Resolver) {
		r.cfg.MaxCascadePasses = 1
	})

	turn, err := r.Play(C(0, 2), C(1, 2))
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if !turn.Truncated || turn.Passes != 1 {
		t.Errorf("turn = %+v, want truncated after 1 pass", turn)
	}
	if r.Grid().Empty() != 0 {
		t.Errorf("truncated turn left %d empty cells", r.Grid().Empty())
	}
	if AllMatches(r.Grid(), 3) == nil {
		t.Error("the combo should be left on the board")
	}
	stable, ok := rec.Events[len(rec.Events)-1].(BoardStable)
	if !ok || !stable.Turn.Truncated {
		t.Errorf("last event = %v, want truncated board_stable", rec.Events[len(rec.Events)-1])
	}
	if r.State() != StateIdle {
		t.Errorf("State() = %v, want idle", r.State())
	}
}

func TestAdvanceHonoursBarriers(t *testing.T) {
	r, rec := newTestResolver(t, swapBoard, 2, nil)
	swap := DefaultTiming().Swap

	if err := r.ProposeSwap(C(3, 0), C(3, 1)); err != nil {
		t.Fatalf("ProposeSwap() failed: %v", err)
	}
	r.Advance(swap - time.Millisecond)
	if r.Phase() != PhaseSwapping {
		t.Fatalf("Phase() = %v, want swapping", r.Phase())
	}
	r.Advance(time.Millisecond)
	if r.Phase() != PhaseReverting {
		t.Fatalf("Phase() = %v, want reverting", r.Phase())
	}
	r.Advance(swap / 2)
	if r.State() != StateResolving {
		t.Fatal("revert finished before its barrier")
	}
	r.Advance(swap / 2)
	if r.State() != StateIdle {
		t.Errorf("State() = %v, want idle", r.State())
	}
	if rec.Count(KindSwapReverted) != 1 {
		t.Errorf("swap_reverted events = %d, want 1", rec.Count(KindSwapReverted))
	}
}

func TestAdvanceCarriesOvershoot(t *testing.T) {
	r, _ := newTestResolver(t, swapBoard, 2, nil)
	if err := r.ProposeSwap(C(3, 0), C(3, 1)); err != nil {
		t.Fatalf("ProposeSwap() failed: %v", err)
	}
	r.Advance(2 * DefaultTiming().Swap)
	if r.State() != StateIdle {
		t.Errorf("one long tick should pass both swap barriers, phase %v", r.Phase())
	}
}

type flagSettler struct{ settled bool }

func (s *flagSettler) Settled() bool { return s.settled }

func TestSettlerGatesPhases(t *testing.T) {
	settler := &flagSettler{}
	r, _ := newTestResolver(t, swapBoard, 2, nil, WithSettler(settler))

	if err := r.ProposeSwap(C(3, 0), C(3, 1)); err != nil {
		t.Fatalf("ProposeSwap() failed: %v", err)
	}
	r.Advance(time.Hour)
	if r.Phase() != PhaseSwapping {
		t.Fatalf("Phase() = %v, want swapping while unsettled", r.Phase())
	}

	settler.settled = true
	r.Advance(0)
	if r.Phase() != PhaseReverting {
		t.Fatalf("Phase() = %v, want reverting", r.Phase())
	}
	// The hour spent waiting for the settler does not count toward the revert.
	settler.settled = false
	r.Advance(0)
	settler.settled = true
	r.Advance(0)
	if r.Phase() != PhaseReverting {
		t.Errorf("Phase() = %v, revert barrier skipped", r.Phase())
	}
}

func TestCascadesEndStable(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		cfg := DefaultConfig()
		cfg.Alphabet = 4
		r, err := New(cfg, WithSeed(seed))
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		pick := NewSource(seed + 100)
		accepted := 0
		for i := 0; i < 200; i++ {
			a := C(pick.IntN(cfg.Width-1), pick.IntN(cfg.Height))
			turn, err := r.Play(a, a.Step(DirRight))
			if err != nil {
				t.Fatalf("seed %d turn %d: %v", seed, i, err)
			}
			if !turn.Accepted {
				continue
			}
			accepted++
			if turn.Truncated {
				continue
			}
			if m := AllMatches(r.Grid(), cfg.MinMatch); m != nil {
				t.Fatalf("seed %d turn %d ended with matches:\n%s", seed, i, r.Grid())
			}
			if r.Grid().Empty() != 0 {
				t.Fatalf("seed %d turn %d left gaps:\n%s", seed, i, r.Grid())
			}
		}
		if accepted == 0 {
			t.Errorf("seed %d: no accepted swaps in 200 tries", seed)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
