package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
	"github.com/vovakirdan/tui-gems/internal/storage"
)

func testBoard() board.Config {
	cfg := board.DefaultConfig()
	cfg.Width, cfg.Height = 6, 6
	cfg.Alphabet = 4
	return cfg
}

func TestRunCountsAddUp(t *testing.T) {
	rep, err := Run(context.Background(), Options{Board: testBoard(), Seed: 11, Turns: 200})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if rep.Turns != 200 {
		t.Errorf("Turns = %d, want 200", rep.Turns)
	}
	if rep.Accepted+rep.Reverted != rep.Turns {
		t.Errorf("Accepted %d + Reverted %d != Turns %d", rep.Accepted, rep.Reverted, rep.Turns)
	}
	if rep.Cleared != rep.Spawned {
		t.Errorf("Cleared = %d, Spawned = %d, want equal", rep.Cleared, rep.Spawned)
	}

	histogram := 0
	for _, d := range rep.Depths() {
		if d < 1 {
			t.Errorf("accepted turn with depth %d", d)
		}
		histogram += rep.Passes[d]
	}
	if histogram != rep.Accepted {
		t.Errorf("histogram total = %d, want %d", histogram, rep.Accepted)
	}
	if rep.Accepted > 0 && rep.LongestCascade < 1 {
		t.Errorf("LongestCascade = %d with %d accepted turns", rep.LongestCascade, rep.Accepted)
	}
	if rate := rep.AcceptRate(); rate < 0 || rate > 1 {
		t.Errorf("AcceptRate() = %v", rate)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	opts := Options{Board: testBoard(), Seed: 99, Turns: 100}
	a, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if a.Accepted != b.Accepted || a.Cleared != b.Cleared || a.LongestCascade != b.LongestCascade {
		t.Errorf("same seed gave %+v and %+v", a, b)
	}
}

func TestRunZeroTurns(t *testing.T) {
	rep, err := Run(context.Background(), Options{Board: testBoard(), Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Turns != 0 || rep.AcceptRate() != 0 {
		t.Errorf("rep = %+v, want empty", rep)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := testBoard()
	cfg.Alphabet = 1
	if _, err := Run(context.Background(), Options{Board: cfg, Turns: 1}); err == nil {
		t.Error("Run() with alphabet 1 succeeded")
	}

	cfg = testBoard()
	cfg.Width, cfg.Height = 1, 1
	if _, err := Run(context.Background(), Options{Board: cfg, Turns: 1}); err == nil {
		t.Error("Run() on a 1x1 board succeeded")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := Run(ctx, Options{Board: testBoard(), Seed: 1, Turns: 10})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if rep.Turns != 0 {
		t.Errorf("Turns = %d, want 0", rep.Turns)
	}
}

func TestRunJournals(t *testing.T) {
	store, err := storage.Open(t.TempDir() + "/sim.db")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	rep, err := Run(context.Background(), Options{Board: testBoard(), Seed: 5, Turns: 25, Journal: store})
	if err != nil {
		t.Fatal(err)
	}
	if rep.SessionID == "" {
		t.Fatal("SessionID is empty")
	}

	info, err := store.Session(rep.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if info.Source != "sim" || info.Seed != 5 || info.Width != 6 {
		t.Errorf("session = %+v", info)
	}

	stats, err := store.SessionStats(rep.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Turns != 25 || stats.Accepted != rep.Accepted {
		t.Errorf("stats = %+v, report accepted %d", stats, rep.Accepted)
	}
	if stats.LongestCascade != rep.LongestCascade {
		t.Errorf("LongestCascade = %d, want %d", stats.LongestCascade, rep.LongestCascade)
	}
}

func TestAdjacentPairs(t *testing.T) {
	tests := []struct {
		w, h, want int
	}{
		{1, 1, 0},
		{2, 1, 1},
		{3, 3, 12},
		{8, 8, 112},
	}
	for _, tt := range tests {
		if got := len(adjacentPairs(tt.w, tt.h)); got != tt.want {
			t.Errorf("adjacentPairs(%d, %d) = %d pairs, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}
