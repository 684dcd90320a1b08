package board

import "time"

// Event is emitted by the resolver as the board changes.
// Events are delivered synchronously and in order; sinks must not call
// back into the resolver.
type Event interface {
	// Kind returns a stable snake_case name, used on the wire.
	Kind() string
	boardEvent()
}

// Event kinds.
const (
	KindPieceSpawned = "piece_spawned"
	KindPieceMoved   = "piece_moved"
	KindPieceCleared = "piece_cleared"
	KindSwapApplied  = "swap_applied"
	KindSwapReverted = "swap_reverted"
	KindMatchFound   = "match_found"
	KindBoardStable  = "board_stable"
)

// PieceSpawned reports a new piece at At. It enters FallFrom rows above its
// cell and should land within Duration.
type PieceSpawned struct {
	Piece    *Piece        `json:"piece"`
	At       Coord         `json:"at"`
	FallFrom int           `json:"fall_from"`
	Duration time.Duration `json:"duration_ns"`
}

// PieceMoved reports a committed move; Duration is the animation hint.
type PieceMoved struct {
	Piece    *Piece        `json:"piece"`
	From     Coord         `json:"from"`
	To       Coord         `json:"to"`
	Duration time.Duration `json:"duration_ns"`
}

// PieceCleared reports a piece removed from play.
type PieceCleared struct {
	Piece *Piece `json:"piece"`
	At    Coord  `json:"at"`
}

// SwapApplied reports an accepted proposal; the swap is still provisional.
type SwapApplied struct {
	A Coord `json:"a"`
	B Coord `json:"b"`
}

// SwapReverted reports a swap that produced no match and was undone.
type SwapReverted struct {
	Turn TurnResult `json:"turn"`
}

// MatchFound reports the pieces about to be cleared in cascade pass Pass.
type MatchFound struct {
	Pieces []*Piece `json:"pieces"`
	Pass   int      `json:"pass"`
}

// BoardStable reports the end of a cascade.
type BoardStable struct {
	Turn TurnResult `json:"turn"`
}

func (PieceSpawned) Kind() string { return KindPieceSpawned }
func (PieceMoved) Kind() string   { return KindPieceMoved }
func (PieceCleared) Kind() string { return KindPieceCleared }
func (SwapApplied) Kind() string  { return KindSwapApplied }
func (SwapReverted) Kind() string { return KindSwapReverted }
func (MatchFound) Kind() string   { return KindMatchFound }
func (BoardStable) Kind() string  { return KindBoardStable }

// Marker methods for sealed interface
func (PieceSpawned) boardEvent() {}
func (PieceMoved) boardEvent()   {}
func (PieceCleared) boardEvent() {}
func (SwapApplied) boardEvent()  {}
func (SwapReverted) boardEvent() {}
func (MatchFound) boardEvent()   {}
func (BoardStable) boardEvent()  {}

// Sink receives board events.
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev Event)

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) {
	f(ev)
}

// MultiSink fans events out to several sinks in order.
type MultiSink []Sink

// Emit forwards ev to every non-nil sink.
func (m MultiSink) Emit(ev Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ev)
		}
	}
}

// Settler reports whether presentation has caught up with the board.
// The resolver will not leave a phase until Settled returns true.
type Settler interface {
	Settled() bool
}

// Recorder is a Sink that keeps every event.
type Recorder struct {
	Events []Event
}

// Emit appends ev.
func (r *Recorder) Emit(ev Event) {
	r.Events = append(r.Events, ev)
}

// Kinds returns the kind of every recorded event, in order.
func (r *Recorder) Kinds() []string {
	kinds := make([]string, len(r.Events))
	for i, ev := range r.Events {
		kinds[i] = ev.Kind()
	}
	return kinds
}

// Count returns how many recorded events have the given kind.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, ev := range r.Events {
		if ev.Kind() == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}
