package match3

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-gems/internal/core"
	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
	"github.com/vovakirdan/tui-gems/internal/registry"
)

// scriptSource replays fixed values, cycling when exhausted.
type scriptSource struct {
	values []int
	next   int
}

func (s *scriptSource) IntN(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

func input(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.Seed = 1
	return cfg
}

// newFixedGame starts g on a 4x4 two-color layout with scripted refills.
//
//	BABA
//	BAAB
//	ABAB
//	AABA
func newFixedGame(t *testing.T, g *Game) {
	t.Helper()
	g.Reset(runtimeConfig())

	grid, err := board.FromRows("BABA", "BAAB", "ABAB", "AABA")
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}
	cfg := g.cfg
	cfg.Width, cfg.Height, cfg.Alphabet = 4, 4, 2
	if err := g.start(cfg, board.WithGrid(grid), board.WithRand(&scriptSource{values: []int{0, 1, 0}})); err != nil {
		t.Fatalf("start() error = %v", err)
	}
	g.checkScreenSize()
}

func TestRegistered(t *testing.T) {
	for id, title := range map[string]string{
		"match3":     "Gems",
		"match3_zen": "Gems (Zen)",
	} {
		info, ok := registry.Info(id)
		if !ok {
			t.Errorf("%s not registered", id)
			continue
		}
		if info.Title != title {
			t.Errorf("%s title = %q, expected %q", id, info.Title, title)
		}
		if info.Description == "" {
			t.Errorf("%s has no description", id)
		}
	}
}

func TestResetUsesVariantConfig(t *testing.T) {
	zen := NewZen()
	zen.Reset(runtimeConfig())
	if zen.cfg.Alphabet != 4 || zen.cfg.Timing != (board.Timing{}) {
		t.Errorf("zen config = %+v, expected 4 colors and no timing", zen.cfg)
	}

	override := board.DefaultConfig()
	override.Alphabet = 6
	rc := runtimeConfig()
	rc.Board = &override

	classic := New()
	classic.Reset(rc)
	if classic.cfg.Alphabet != 6 {
		t.Errorf("classic alphabet = %d, expected the override 6", classic.cfg.Alphabet)
	}

	zen.Reset(rc)
	if zen.cfg.Alphabet != 6 || zen.cfg.Timing != (board.Timing{}) {
		t.Errorf("zen with override = %+v, expected alphabet 6 without timing", zen.cfg)
	}
}

func TestResetRejectsBadConfig(t *testing.T) {
	bad := board.DefaultConfig()
	bad.Alphabet = 1
	rc := runtimeConfig()
	rc.Board = &bad

	g := New()
	g.Reset(rc)

	if g.cfg != board.DefaultConfig() {
		t.Errorf("expected fallback to defaults, got %+v", g.cfg)
	}
	if g.status == "" {
		t.Error("expected a status message about the rejected config")
	}
}

func TestResetIsDeterministicForSeed(t *testing.T) {
	a, b := New(), New()
	a.Reset(runtimeConfig())
	b.Reset(runtimeConfig())

	if a.res.Grid().String() != b.res.Grid().String() {
		t.Error("same seed should produce the same board")
	}
	if len(board.AllMatches(a.res.Grid(), 3)) != 0 {
		t.Error("initial board should have no matches")
	}
}

func TestCursorMovesAndClamps(t *testing.T) {
	g := NewZen()
	g.Reset(runtimeConfig())

	start := g.cursor
	g.Step(input(core.ActionRight))
	if g.cursor != start.Add(1, 0) {
		t.Errorf("cursor = %v, expected %v", g.cursor, start.Add(1, 0))
	}
	g.Step(input(core.ActionUp))
	if g.cursor != start.Add(1, 1) {
		t.Errorf("Up should move toward higher rows, cursor = %v", g.cursor)
	}

	for range 20 {
		g.Step(input(core.ActionLeft))
		g.Step(input(core.ActionDown))
	}
	if g.cursor != board.C(0, 0) {
		t.Errorf("cursor should clamp at (0,0), got %v", g.cursor)
	}
}

func TestSelectAndCancel(t *testing.T) {
	g := NewZen()
	g.Reset(runtimeConfig())

	g.Step(input(core.ActionSelect))
	if g.selected == nil || *g.selected != g.cursor {
		t.Fatalf("select should mark the cursor cell, selected = %v", g.selected)
	}

	g.Step(input(core.ActionCancel))
	if g.selected != nil {
		t.Error("cancel should drop the selection")
	}

	// Selecting the same cell twice toggles it off
	g.Step(input(core.ActionSelect))
	g.Step(input(core.ActionSelect))
	if g.selected != nil {
		t.Error("second select on the same cell should deselect")
	}
}

func TestSelectFarCellMovesSelection(t *testing.T) {
	g := NewZen()
	g.Reset(runtimeConfig())
	g.cursor = board.C(0, 0)

	g.Step(input(core.ActionSelect))
	g.cursor = board.C(3, 3)
	g.Step(input(core.ActionSelect))

	if g.selected == nil || *g.selected != board.C(3, 3) {
		t.Errorf("selection should move to the new cell, got %v", g.selected)
	}
	if g.State().Busy {
		t.Error("a non-adjacent selection must not start a turn")
	}
}

func TestSwapByDirectionResolves(t *testing.T) {
	g := NewZen()
	newFixedGame(t, g)
	g.cursor = board.C(0, 2)

	g.Step(input(core.ActionSelect))
	res := g.Step(input(core.ActionRight))

	if res.Turn == nil {
		t.Fatal("zen turn should finish within the tick it was proposed")
	}
	if !res.Turn.Accepted || res.Turn.Cleared != 3 || res.Turn.Passes != 1 {
		t.Errorf("turn = %+v, expected accepted with 3 cleared in 1 pass", *res.Turn)
	}
	if res.State.Turns != 1 || res.State.Busy {
		t.Errorf("state = %+v, expected 1 turn and idle", res.State)
	}

	want := "AABA\nBBAB\nABAB\nBABA"
	if got := g.res.Grid().String(); got != want {
		t.Errorf("board =\n%s\nexpected\n%s", got, want)
	}
	if g.cursor != board.C(1, 2) {
		t.Errorf("cursor should follow the swap, got %v", g.cursor)
	}

	// The turn is reported once
	if next := g.Step(input()); next.Turn != nil {
		t.Error("finished turn should not be reported twice")
	}
}

func TestSwapWithoutMatchReverts(t *testing.T) {
	g := NewZen()
	newFixedGame(t, g)
	before := g.res.Grid().String()
	g.cursor = board.C(3, 0)

	g.Step(input(core.ActionSelect))
	res := g.Step(input(core.ActionUp))

	if res.Turn == nil || res.Turn.Accepted {
		t.Fatalf("turn = %v, expected a reverted turn", res.Turn)
	}
	if got := g.res.Grid().String(); got != before {
		t.Errorf("reverted swap changed the board:\n%s", got)
	}
	if !strings.Contains(g.status, "swapped back") {
		t.Errorf("status = %q, expected a revert message", g.status)
	}
}

func TestSwapOffBoardFlashes(t *testing.T) {
	g := NewZen()
	g.Reset(runtimeConfig())
	g.cursor = board.C(0, 0)

	g.Step(input(core.ActionSelect))
	res := g.Step(input(core.ActionLeft))

	if res.Turn != nil || res.State.Busy {
		t.Error("an off-board swap must not start a turn")
	}
	if g.status == "" {
		t.Error("expected a status message")
	}
	if g.cursor != board.C(0, 0) {
		t.Errorf("cursor should stay put, got %v", g.cursor)
	}
}

func TestProposalWhileBusyIsRejected(t *testing.T) {
	g := New()
	newFixedGame(t, g)
	g.cursor = board.C(0, 2)

	g.Step(input(core.ActionSelect))
	g.Step(input(core.ActionRight))
	if !g.State().Busy {
		t.Fatal("classic swap should still be animating after one tick")
	}

	g.Step(input(core.ActionSelect))
	g.Step(input(core.ActionUp))
	if !strings.Contains(g.status, "settle") {
		t.Errorf("status = %q, expected a busy message", g.status)
	}
}

func TestClassicTurnFinishesAfterAnimation(t *testing.T) {
	g := New()
	newFixedGame(t, g)
	g.cursor = board.C(0, 2)

	g.Step(input(core.ActionSelect))
	g.Step(input(core.ActionRight))

	var turn *board.TurnResult
	for i := 0; i < 60*10 && turn == nil; i++ {
		turn = g.Step(input()).Turn
	}
	if turn == nil {
		t.Fatal("turn did not finish within 10 seconds of ticks")
	}
	if !turn.Accepted || turn.Spawned != 3 {
		t.Errorf("turn = %+v, expected accepted with 3 spawned", *turn)
	}
	if !g.anim.Settled() {
		t.Error("animations should be settled when the turn ends")
	}
}

func TestPauseBlocksInput(t *testing.T) {
	g := NewZen()
	g.Reset(runtimeConfig())
	start := g.cursor

	g.Step(input(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused state")
	}
	g.Step(input(core.ActionRight))
	if g.cursor != start {
		t.Error("cursor moved while paused")
	}

	g.Step(input(core.ActionPause))
	g.Step(input(core.ActionRight))
	if g.cursor == start {
		t.Error("cursor should move after unpausing")
	}
}

func TestRender(t *testing.T) {
	g := NewZen()
	g.Reset(runtimeConfig())

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"Gems (Zen)", "Turn 0", "┌", "[", "]"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	// Every cell of the board shows a piece glyph once the fill has landed
	frame := core.NewRect((80-(g.cfg.Width*cellWidth+2))/2, hudHeight, 0, 0)
	col, row := cellOrigin(frame, g.cfg, 0, 0)
	if r := screen.Get(col+1, row); r == ' ' {
		t.Errorf("expected a piece glyph at the bottom-left cell, got %q", r)
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := New()
	rc := runtimeConfig()
	rc.ScreenW, rc.ScreenH = 10, 5
	g.Reset(rc)

	screen := core.NewScreen(10, 5)
	g.Render(screen)
	if !strings.Contains(screen.String(), "too") {
		t.Errorf("expected a too-small message:\n%s", screen.String())
	}
	if !g.State().Paused {
		t.Error("too-small window should report paused")
	}
}

func TestResizeKeepsBoard(t *testing.T) {
	g := New()
	g.Reset(runtimeConfig())
	before := g.res.Grid().String()

	g.Resize(10, 5)
	if !g.tooSmall {
		t.Error("10x5 should be too small")
	}
	g.Resize(100, 40)
	if g.tooSmall {
		t.Error("100x40 should fit")
	}
	if g.res.Grid().String() != before {
		t.Error("resize must not reset the board")
	}
}
