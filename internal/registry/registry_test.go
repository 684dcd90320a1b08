package registry

import (
	"testing"

	"github.com/vovakirdan/tui-gems/internal/core"
)

type fakeGame struct{ id string }

func (g *fakeGame) ID() string                           { return g.id }
func (g *fakeGame) Title() string                        { return "Fake " + g.id }
func (g *fakeGame) Description() string                  { return "a fake board" }
func (g *fakeGame) Reset(core.RuntimeConfig)             {}
func (g *fakeGame) Resize(int, int)                      {}
func (g *fakeGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *fakeGame) Render(*core.Screen)                  {}
func (g *fakeGame) State() core.GameState                { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("fake_b", func() Game { return &fakeGame{id: "fake_b"} })
	Register("fake_a", func() Game { return &fakeGame{id: "fake_a"} })

	if !Exists("fake_a") {
		t.Fatal("Exists(fake_a) = false")
	}
	g, err := Create("fake_a")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.ID() != "fake_a" {
		t.Errorf("ID() = %q, want fake_a", g.ID())
	}

	info, ok := Info("fake_b")
	if !ok || info.Title != "Fake fake_b" || info.Description != "a fake board" {
		t.Errorf("Info(fake_b) = %+v, %v", info, ok)
	}

	var ids []string
	for _, gi := range List() {
		ids = append(ids, gi.ID)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("List() not sorted: %v", ids)
		}
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no_such_game"); err == nil {
		t.Error("Create(no_such_game) succeeded")
	}
	if _, ok := Info("no_such_game"); ok {
		t.Error("Info(no_such_game) found something")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("fake_dup", func() Game { return &fakeGame{id: "fake_dup"} })
	defer func() {
		if recover() == nil {
			t.Error("second Register did not panic")
		}
	}()
	Register("fake_dup", func() Game { return &fakeGame{id: "fake_dup"} })
}
