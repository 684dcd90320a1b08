// Package match3 is the playable match-3 game: cursor input, animation and
// rendering on top of the board engine.
package match3

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-gems/internal/core"
	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
	"github.com/vovakirdan/tui-gems/internal/registry"
)

// Variant selects the rule set.
type Variant string

const (
	VariantClassic Variant = "classic"
	VariantZen     Variant = "zen" // four colors, no animation delays
)

// statusTicks is how long a status message stays up, in ticks.
const statusTicks = 120

// Package-level logger shared by every game instance.
var logger = log.New(io.Discard)

// SetLogger routes engine logs. The default discards them so they do not
// draw over the terminal UI.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// Game implements registry.Game for the match-3 board.
type Game struct {
	variant Variant

	cfg   board.Config
	seed  int64
	res   *board.Resolver
	anim  *Animator
	tick  uint64
	dt    time.Duration
	turns int

	cursor   board.Coord
	selected *board.Coord
	finished *board.TurnResult
	last     *board.TurnResult

	status     string
	statusLeft int
	screenW    int
	screenH    int
	paused     bool
	tooSmall   bool
}

// New creates the classic game.
func New() *Game {
	return &Game{variant: VariantClassic}
}

// NewZen creates the relaxed variant.
func NewZen() *Game {
	return &Game{variant: VariantZen}
}

func init() {
	registry.Register("match3", func() registry.Game {
		return New()
	})
	registry.Register("match3_zen", func() registry.Game {
		return NewZen()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.variant == VariantZen {
		return "match3_zen"
	}
	return "match3"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == VariantZen {
		return "Gems (Zen)"
	}
	return "Gems"
}

// Description returns a one-line summary.
func (g *Game) Description() string {
	if g.variant == VariantZen {
		return "Four colors, instant cascades"
	}
	return "Swap neighbours to line up three or more"
}

// ZenConfig returns the board config of the zen variant.
func ZenConfig() board.Config {
	cfg := board.DefaultConfig()
	cfg.Alphabet = 4
	cfg.Timing = board.Timing{}
	return cfg
}

// baseConfig picks the board config for a reset.
func (g *Game) baseConfig(rc core.RuntimeConfig) board.Config {
	if g.variant == VariantZen {
		if rc.Board == nil {
			return ZenConfig()
		}
		cfg := *rc.Board
		cfg.Timing = board.Timing{}
		return cfg
	}
	if rc.Board != nil {
		return *rc.Board
	}
	return board.DefaultConfig()
}

// Reset starts a fresh board.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.tick = 0
	g.turns = 0
	g.seed = rc.Seed
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.paused = false
	g.selected = nil
	g.finished = nil
	g.last = nil
	g.status = ""
	g.statusLeft = 0

	g.dt = time.Second / 60
	if rc.TickRate > 0 {
		g.dt = time.Second / time.Duration(rc.TickRate)
	}

	if err := g.start(g.baseConfig(rc)); err != nil {
		logger.Error("invalid board config, using defaults", "err", err)
		g.flash("config rejected, using defaults")
		cfg := board.DefaultConfig()
		if g.variant == VariantZen {
			cfg = ZenConfig()
		}
		// Defaults always validate.
		_ = g.start(cfg)
	}

	g.cursor = board.C(g.cfg.Width/2, g.cfg.Height/2)
	g.checkScreenSize()
}

// start builds the resolver, optionally over a prepared grid.
func (g *Game) start(cfg board.Config, opts ...board.Option) error {
	anim := NewAnimator()
	base := []board.Option{
		board.WithSeed(g.seed),
		board.WithSink(board.MultiSink{anim, board.SinkFunc(g.onEvent)}),
		board.WithSettler(anim),
		board.WithLogger(logger),
	}
	res, err := board.New(cfg, append(base, opts...)...)
	if err != nil {
		return err
	}
	g.cfg = cfg
	g.res = res
	g.anim = anim
	return nil
}

func (g *Game) onEvent(ev board.Event) {
	switch e := ev.(type) {
	case board.BoardStable:
		g.endTurn(e.Turn)
	case board.SwapReverted:
		g.endTurn(e.Turn)
		g.flash("no match, swapped back")
	}
}

func (g *Game) endTurn(t board.TurnResult) {
	g.turns++
	g.finished = &t
	g.last = &t
	if t.Truncated {
		g.flash("cascade cut short")
	}
}

// Resize adapts to a new terminal size without touching the board.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen can hold the board and HUD.
func (g *Game) checkScreenSize() {
	w, h := boardSize(g.cfg)
	g.tooSmall = g.screenW < w+2 || g.screenH < h+hudHeight+footerHeight
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.finished = nil

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.handleInput(in)

	g.anim.Advance(g.dt)
	g.res.Advance(g.dt)

	if g.statusLeft > 0 {
		g.statusLeft--
		if g.statusLeft == 0 {
			g.status = ""
		}
	}

	return core.StepResult{State: g.State(), Turn: g.finished}
}

// handleInput moves the cursor and turns selections into proposals.
func (g *Game) handleInput(in core.InputFrame) {
	if in.Has(core.ActionCancel) {
		g.selected = nil
	}

	for _, m := range []struct {
		action core.Action
		dir    board.Dir
	}{
		{core.ActionUp, board.DirUp},
		{core.ActionDown, board.DirDown},
		{core.ActionLeft, board.DirLeft},
		{core.ActionRight, board.DirRight},
	} {
		if !in.Has(m.action) {
			continue
		}
		if g.selected != nil {
			from := *g.selected
			to := from.Step(m.dir)
			g.selected = nil
			g.propose(from, to)
			if g.res.Grid().InBounds(to) {
				g.cursor = to
			}
			return
		}
		g.moveCursor(m.dir)
		// One direction per tick.
		break
	}

	if in.Has(core.ActionSelect) {
		g.selectAtCursor()
	}
}

func (g *Game) moveCursor(d board.Dir) {
	next := g.cursor.Step(d)
	next.X = core.Clamp(next.X, 0, g.cfg.Width-1)
	next.Y = core.Clamp(next.Y, 0, g.cfg.Height-1)
	g.cursor = next
}

func (g *Game) selectAtCursor() {
	switch {
	case g.selected == nil:
		c := g.cursor
		g.selected = &c
	case *g.selected == g.cursor:
		g.selected = nil
	case g.selected.Adjacent(g.cursor):
		from := *g.selected
		g.selected = nil
		g.propose(from, g.cursor)
	default:
		c := g.cursor
		g.selected = &c
	}
}

func (g *Game) propose(a, b board.Coord) {
	err := g.res.ProposeSwap(a, b)
	switch {
	case err == nil:
	case errors.Is(err, board.ErrBusy):
		g.flash("wait for the board to settle")
	case errors.Is(err, board.ErrOutOfRange):
		g.flash("can't swap off the board")
	default:
		g.flash(err.Error())
	}
}

func (g *Game) flash(msg string) {
	g.status = msg
	g.statusLeft = statusTicks
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Busy:   g.res != nil && g.res.State() == board.StateResolving,
		Paused: g.paused || g.tooSmall,
		Turns:  g.turns,
	}
}

// BoardConfig returns the config of the running board.
func (g *Game) BoardConfig() board.Config {
	return g.cfg
}

// Seed returns the seed the board was filled with.
func (g *Game) Seed() int64 {
	return g.seed
}
