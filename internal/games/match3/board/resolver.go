package board

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
)

// State is the externally visible resolver state.
type State int

const (
	StateIdle      State = iota // accepting one swap
	StateResolving              // swap or cascade in flight, input locked
)

func (s State) String() string {
	if s == StateIdle {
		return "idle"
	}
	return "resolving"
}

// Phase is the resolver's current step. Every phase except PhaseIdle ends
// at a settle barrier.
type Phase int

const (
	PhaseIdle       Phase = iota
	PhaseSwapping         // provisional swap animating
	PhaseReverting        // swap produced nothing, pieces going back
	PhaseHighlight        // matches shown, not yet cleared
	PhaseClearing         // matched pieces removed
	PhaseCollapsing       // survivors falling
	PhaseRefilling        // new pieces falling in
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSwapping:
		return "swapping"
	case PhaseReverting:
		return "reverting"
	case PhaseHighlight:
		return "highlight"
	case PhaseClearing:
		return "clearing"
	case PhaseCollapsing:
		return "collapsing"
	case PhaseRefilling:
		return "refilling"
	default:
		return "unknown"
	}
}

// TurnResult summarises one proposal from acceptance to the end of its
// cascade or revert.
type TurnResult struct {
	From          Coord `json:"from"`
	To            Coord `json:"to"`
	Accepted      bool  `json:"accepted"` // false when the swap was reverted
	Passes        int   `json:"passes"`   // clear cycles, including collapse combos
	Cleared       int   `json:"cleared"`
	Spawned       int   `json:"spawned"`
	Truncated     bool  `json:"truncated"`      // cascade stopped by MaxCascadePasses
	FillExhausted int   `json:"fill_exhausted"` // cells that kept a matching value during refill
}

// Resolver owns a grid and runs turns on it. It is not safe for concurrent
// use; one goroutine must drive ProposeSwap and Advance.
type Resolver struct {
	cfg     Config
	grid    *Grid
	filler  *Filler
	rng     Source
	sink    Sink
	settler Settler
	logger  *log.Logger

	phase   Phase
	wait    time.Duration
	swapA   Coord
	swapB   Coord
	pending []*Piece // matched, waiting to be cleared
	cleared []*Piece // last cleared set, for collapse columns
	moved   []*Piece // last collapsed set, for combo detection

	turn          TurnResult
	last          TurnResult
	exhaustedBase int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRand sets the random source for piece values.
func WithRand(src Source) Option {
	return func(r *Resolver) { r.rng = src }
}

// WithSeed seeds a deterministic random source.
func WithSeed(seed int64) Option {
	return func(r *Resolver) { r.rng = NewSource(seed) }
}

// WithSink sets where events go.
func WithSink(s Sink) Option {
	return func(r *Resolver) { r.sink = s }
}

// WithSettler installs the external settle signal.
func WithSettler(s Settler) Option {
	return func(r *Resolver) { r.settler = s }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithGrid starts from a prepared grid instead of an empty one.
// Its dimensions must match the config and its values must lie in the
// alphabet; empty cells are filled.
func WithGrid(g *Grid) Option {
	return func(r *Resolver) { r.grid = g }
}

// New builds a resolver and fills its board without pre-existing matches.
// Spawn events for the initial fill go to the configured sink.
func New(cfg Config, opts ...Option) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Resolver{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if r.grid == nil {
		r.grid = NewGrid(cfg.Width, cfg.Height)
	} else if r.grid.Width() != cfg.Width || r.grid.Height() != cfg.Height {
		return nil, fmt.Errorf("board: grid is %dx%d, config wants %dx%d",
			r.grid.Width(), r.grid.Height(), cfg.Width, cfg.Height)
	}
	if err := checkAlphabet(r.grid, cfg.Alphabet); err != nil {
		return nil, err
	}
	r.filler = NewFiller(r.rng, cfg.Alphabet, cfg.FillRetries, cfg.MinMatch)

	r.spawn(r.filler.FillBoardAvoidingMatches(r.grid))
	if n := r.filler.Exhausted(); n > 0 {
		r.logger.Debug("initial fill kept matching values", "cells", n)
	}

	return r, nil
}

// checkAlphabet rejects pieces whose value the filler could never produce.
func checkAlphabet(g *Grid, alphabet int) error {
	var bad error
	g.Each(func(c Coord, p *Piece) {
		if bad == nil && p != nil && (p.Value() < 0 || int(p.Value()) >= alphabet) {
			bad = fmt.Errorf("board: value %c at %v is outside the %d-value alphabet", p.Value().Rune(), c, alphabet)
		}
	})
	return bad
}

// Config returns the configuration the resolver was built with.
func (r *Resolver) Config() Config {
	return r.cfg
}

// Grid returns the board. Callers must treat it as read-only.
func (r *Resolver) Grid() *Grid {
	return r.grid
}

// State returns StateIdle when a swap may be proposed.
func (r *Resolver) State() State {
	if r.phase == PhaseIdle {
		return StateIdle
	}
	return StateResolving
}

// Phase returns the current step.
func (r *Resolver) Phase() Phase {
	return r.phase
}

// LastTurn returns the result of the most recently finished turn.
func (r *Resolver) LastTurn() TurnResult {
	return r.last
}

// Pending returns the pieces highlighted for the next clear, if any.
func (r *Resolver) Pending() []*Piece {
	return r.pending
}

// ProposeSwap validates and applies a swap between a and b. On success the
// resolver enters PhaseSwapping; the outcome is decided once that barrier
// passes. Every rejection wraps ErrInvalidSwap and leaves the board as is.
func (r *Resolver) ProposeSwap(a, b Coord) error {
	switch {
	case r.phase != PhaseIdle:
		return ErrBusy
	case !r.grid.InBounds(a) || !r.grid.InBounds(b):
		return ErrOutOfRange
	case a == b:
		return ErrSameCell
	case !a.Adjacent(b):
		return ErrNotAdjacent
	case r.grid.Get(a) == nil || r.grid.Get(b) == nil:
		return ErrEmptyCell
	}

	r.turn = TurnResult{From: a, To: b}
	r.exhaustedBase = r.filler.Exhausted()
	r.swapA, r.swapB = a, b

	r.emit(SwapApplied{A: a, B: b})
	r.swap(a, b)
	r.enter(PhaseSwapping, r.cfg.Timing.Swap)
	return nil
}

// swap exchanges two cells and reports both moves.
func (r *Resolver) swap(a, b Coord) {
	r.grid.Swap(a, b)
	d := r.cfg.Timing.Swap
	r.emit(PieceMoved{Piece: r.grid.Get(b), From: a, To: b, Duration: d})
	r.emit(PieceMoved{Piece: r.grid.Get(a), From: b, To: a, Duration: d})
}

// Advance moves the clock forward by dt. Each phase whose barrier is met
// runs in turn; time left over after a barrier counts toward the next one.
// While a settler reports unsettled, the clock does not run ahead.
func (r *Resolver) Advance(dt time.Duration) {
	if r.phase == PhaseIdle {
		return
	}
	r.wait -= dt
	for r.phase != PhaseIdle {
		if r.wait > 0 {
			return
		}
		if r.settler != nil && !r.settler.Settled() {
			r.wait = 0
			return
		}
		over := -r.wait
		r.step()
		if r.phase != PhaseIdle {
			r.wait -= over
		}
	}
}

// RunUntilIdle jumps barrier to barrier until the turn ends or maxSteps
// advances have run. Returns the number of advances used.
func (r *Resolver) RunUntilIdle(maxSteps int) int {
	steps := 0
	for r.phase != PhaseIdle && steps < maxSteps {
		r.Advance(max(r.wait, 0))
		steps++
	}
	return steps
}

// Play proposes a swap and resolves it completely, for headless callers.
func (r *Resolver) Play(a, b Coord) (TurnResult, error) {
	if err := r.ProposeSwap(a, b); err != nil {
		return TurnResult{}, err
	}
	const maxSteps = 10_000
	r.RunUntilIdle(maxSteps)
	if r.phase != PhaseIdle {
		return r.turn, fmt.Errorf("board: turn did not settle after %d steps (phase %v)", maxSteps, r.phase)
	}
	return r.last, nil
}

// step runs the work that follows the current phase's barrier.
func (r *Resolver) step() {
	switch r.phase {
	case PhaseSwapping:
		matches := union(
			MatchesThrough(r.grid, r.swapA, r.cfg.MinMatch),
			MatchesThrough(r.grid, r.swapB, r.cfg.MinMatch),
		)
		if len(matches) == 0 {
			r.swap(r.swapA, r.swapB)
			r.enter(PhaseReverting, r.cfg.Timing.Swap)
			return
		}
		r.turn.Accepted = true
		r.highlight(matches)

	case PhaseReverting:
		r.finish()

	case PhaseHighlight:
		for _, p := range r.pending {
			at := p.Coord()
			r.grid.Clear(at)
			r.emit(PieceCleared{Piece: p, At: at})
		}
		r.turn.Cleared += len(r.pending)
		r.cleared, r.pending = r.pending, nil
		r.enter(PhaseClearing, r.cfg.Timing.PostClear)

	case PhaseClearing:
		moves := CollapseColumns(r.grid, ColumnsOf(r.cleared))
		var longest time.Duration
		for _, m := range moves {
			d := r.cfg.Timing.CollapsePerCell * time.Duration(m.Distance())
			longest = max(longest, d)
			r.emit(PieceMoved{Piece: m.Piece, From: m.From, To: m.To, Duration: d})
		}
		r.cleared = nil
		r.moved = Moved(moves)
		r.enter(PhaseCollapsing, longest+r.cfg.Timing.PostCollapse)

	case PhaseCollapsing:
		combo := MatchesAmong(r.grid, r.moved, r.cfg.MinMatch)
		r.moved = nil
		if len(combo) > 0 {
			r.highlight(combo)
			return
		}
		r.refill()

	case PhaseRefilling:
		if r.turn.Truncated {
			r.finish()
			return
		}
		if all := AllMatches(r.grid, r.cfg.MinMatch); len(all) > 0 {
			r.highlight(all)
			return
		}
		r.finish()
	}
}

// highlight starts the next clear cycle, or ends the turn at the cap.
func (r *Resolver) highlight(matches []*Piece) {
	if r.turn.Passes >= r.cfg.MaxCascadePasses {
		r.logger.Warn("cascade cap reached, leaving matches on the board",
			"passes", r.turn.Passes,
			"pending", len(matches),
		)
		r.turn.Truncated = true
		if r.grid.Empty() > 0 {
			r.refill()
			return
		}
		r.finish()
		return
	}

	r.turn.Passes++
	r.pending = matches
	r.emit(MatchFound{Pieces: matches, Pass: r.turn.Passes})
	r.enter(PhaseHighlight, r.cfg.Timing.Highlight)
}

func (r *Resolver) refill() {
	spawned := r.filler.FillBoardAvoidingMatches(r.grid)
	r.spawn(spawned)
	r.turn.Spawned += len(spawned)
	r.enter(PhaseRefilling, r.cfg.Timing.Refill+r.cfg.Timing.PostRefill)
}

func (r *Resolver) spawn(pieces []*Piece) {
	for _, p := range pieces {
		r.emit(PieceSpawned{
			Piece:    p,
			At:       p.Coord(),
			FallFrom: r.cfg.SpawnOffset,
			Duration: r.cfg.Timing.Refill,
		})
	}
}

// finish returns to idle and publishes the turn.
func (r *Resolver) finish() {
	r.turn.FillExhausted = r.filler.Exhausted() - r.exhaustedBase
	if r.turn.FillExhausted > 0 {
		r.logger.Debug("fill avoidance exhausted", "cells", r.turn.FillExhausted)
	}

	r.last = r.turn
	r.pending, r.cleared, r.moved = nil, nil, nil
	r.enter(PhaseIdle, 0)

	if r.last.Accepted {
		r.emit(BoardStable{Turn: r.last})
	} else {
		r.emit(SwapReverted{Turn: r.last})
	}
}

func (r *Resolver) enter(p Phase, wait time.Duration) {
	r.logger.Debug("phase", "from", r.phase, "to", p, "wait", wait)
	r.phase = p
	r.wait = wait
}

func (r *Resolver) emit(ev Event) {
	if r.sink != nil {
		r.sink.Emit(ev)
	}
}
