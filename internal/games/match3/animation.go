package match3

import (
	"time"

	"github.com/vovakirdan/tui-gems/internal/core"
	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
)

// burstDuration is how long a cleared piece stays visible as a spark.
const burstDuration = 250 * time.Millisecond

// point is a position in board cells; fractions mean "between rows".
type point struct {
	X, Y float64
}

func pointOf(c board.Coord) point {
	return point{X: float64(c.X), Y: float64(c.Y)}
}

// sprite is the on-screen state of one piece.
type sprite struct {
	value     board.Value
	from      point
	to        point
	elapsed   time.Duration
	duration  time.Duration
	highlight bool
}

func (s *sprite) progress() float64 {
	if s.duration <= 0 {
		return 1
	}
	return float64(s.elapsed) / float64(s.duration)
}

func (s *sprite) current() point {
	t := core.EaseOutQuad(s.progress())
	return point{
		X: core.Lerp(s.from.X, s.to.X, t),
		Y: core.Lerp(s.from.Y, s.to.Y, t),
	}
}

func (s *sprite) done() bool {
	return s.elapsed >= s.duration
}

// burst marks a cell whose piece was just cleared.
type burst struct {
	at    board.Coord
	value board.Value
	left  time.Duration
}

// Animator follows resolver events and interpolates piece positions.
// It is both the resolver's sink and its settler: a barrier passes only
// once every sprite has reached its cell.
type Animator struct {
	sprites map[*board.Piece]*sprite
	bursts  []burst
}

// NewAnimator creates an animator with nothing on screen.
func NewAnimator() *Animator {
	return &Animator{sprites: make(map[*board.Piece]*sprite)}
}

// Emit implements board.Sink.
func (a *Animator) Emit(ev board.Event) {
	switch e := ev.(type) {
	case board.PieceSpawned:
		start := pointOf(e.At)
		start.Y += float64(e.FallFrom)
		a.sprites[e.Piece] = &sprite{
			value:    e.Piece.Value(),
			from:     start,
			to:       pointOf(e.At),
			duration: e.Duration,
		}

	case board.PieceMoved:
		s, ok := a.sprites[e.Piece]
		if !ok {
			s = &sprite{value: e.Piece.Value(), from: pointOf(e.From)}
			a.sprites[e.Piece] = s
		} else {
			// Start from wherever the piece is drawn right now.
			s.from = s.current()
		}
		s.to = pointOf(e.To)
		s.elapsed = 0
		s.duration = e.Duration

	case board.MatchFound:
		for _, p := range e.Pieces {
			if s, ok := a.sprites[p]; ok {
				s.highlight = true
			}
		}

	case board.PieceCleared:
		delete(a.sprites, e.Piece)
		a.bursts = append(a.bursts, burst{at: e.At, value: e.Piece.Value(), left: burstDuration})

	case board.BoardStable, board.SwapReverted:
		for _, s := range a.sprites {
			s.highlight = false
		}
	}
}

// Settled implements board.Settler.
func (a *Animator) Settled() bool {
	for _, s := range a.sprites {
		if !s.done() {
			return false
		}
	}
	return true
}

// Advance moves every animation forward by dt.
func (a *Animator) Advance(dt time.Duration) {
	for _, s := range a.sprites {
		s.elapsed = min(s.elapsed+dt, s.duration)
	}

	kept := a.bursts[:0]
	for _, b := range a.bursts {
		b.left -= dt
		if b.left > 0 {
			kept = append(kept, b)
		}
	}
	a.bursts = kept
}

// Position returns where p is drawn, in board cells.
func (a *Animator) Position(p *board.Piece) (x, y float64, ok bool) {
	s, ok := a.sprites[p]
	if !ok {
		return 0, 0, false
	}
	pt := s.current()
	return pt.X, pt.Y, true
}

// Highlighted reports whether p is part of a match waiting to clear.
func (a *Animator) Highlighted(p *board.Piece) bool {
	s, ok := a.sprites[p]
	return ok && s.highlight
}

// Moving returns the number of sprites still in flight.
func (a *Animator) Moving() int {
	n := 0
	for _, s := range a.sprites {
		if !s.done() {
			n++
		}
	}
	return n
}
