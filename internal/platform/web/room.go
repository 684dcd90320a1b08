package web

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
	"github.com/vovakirdan/tui-gems/internal/storage"
)

// ErrRoomClosed is returned by calls on a room that has shut down.
var ErrRoomClosed = errors.New("web: room closed")

// subscriberBuffer is how many messages a slow client may fall behind
// before it is dropped.
const subscriberBuffer = 256

// Journal records played boards. *storage.Store implements it.
type Journal interface {
	CreateSession(info storage.SessionInfo) (string, error)
	RecordTurn(rec storage.TurnRecord) (int64, error)
}

// Message is what websocket clients receive.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Snapshot is the state of a room at one instant.
type Snapshot struct {
	ID        string            `json:"id"`
	Seed      int64             `json:"seed"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Values    [][]board.Value   `json:"values"` // [y][x], row 0 is the bottom
	State     string            `json:"state"`
	Phase     string            `json:"phase"`
	Turns     int               `json:"turns"`
	LastTurn  *board.TurnResult `json:"last_turn,omitempty"`
	SessionID string            `json:"session_id,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Room runs one board on its own goroutine.
type Room struct {
	id        string
	seed      int64
	createdAt time.Time
	tick      time.Duration

	cmds      chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// Owned by the room goroutine.
	res       *board.Resolver
	subs      map[chan Message]struct{}
	turns     int
	last      *board.TurnResult
	journal   Journal
	sessionID string
	logger    *log.Logger
}

// newRoom builds the resolver and starts the room goroutine.
func newRoom(id string, seed int64, cfg board.Config, grid *board.Grid, tick time.Duration, journal Journal, logger *log.Logger) (*Room, error) {
	r := &Room{
		id:        id,
		seed:      seed,
		createdAt: time.Now(),
		tick:      tick,
		cmds:      make(chan func()),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		subs:      make(map[chan Message]struct{}),
		journal:   journal,
		logger:    logger.With("room", id),
	}

	opts := []board.Option{
		board.WithSeed(seed),
		board.WithSink(board.SinkFunc(r.onEvent)),
		board.WithLogger(r.logger),
	}
	if grid != nil {
		opts = append(opts, board.WithGrid(grid))
	}
	res, err := board.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	r.res = res

	if journal != nil {
		info := storage.NewSessionInfo("web", seed, cfg)
		info.ID = id
		if sid, err := journal.CreateSession(info); err != nil {
			r.logger.Warn("journal session not created", "error", err)
		} else {
			r.sessionID = sid
		}
	}

	go r.run()
	return r, nil
}

// ID returns the room id.
func (r *Room) ID() string {
	return r.id
}

func (r *Room) run() {
	defer close(r.done)
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			for ch := range r.subs {
				close(ch)
			}
			r.subs = nil
			return
		case fn := <-r.cmds:
			fn()
		case <-ticker.C:
			r.res.Advance(r.tick)
		}
	}
}

// do runs fn on the room goroutine and waits for it.
func (r *Room) do(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	select {
	case r.cmds <- func() { fn(); close(ran) }:
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-ran
	return nil
}

// Close stops the room and disconnects its subscribers. It is safe to call
// more than once.
func (r *Room) Close() {
	r.closeOnce.Do(func() { close(r.quit) })
	<-r.done
}

// Swap proposes a swap. A nil error means the resolver accepted the
// proposal; the outcome arrives as events.
func (r *Room) Swap(ctx context.Context, a, b board.Coord) error {
	var swapErr error
	if err := r.do(ctx, func() { swapErr = r.res.ProposeSwap(a, b) }); err != nil {
		return err
	}
	return swapErr
}

// Snapshot returns the current board.
func (r *Room) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := r.do(ctx, func() { snap = r.snapshot() })
	return snap, err
}

func (r *Room) snapshot() Snapshot {
	g := r.res.Grid()
	return Snapshot{
		ID:        r.id,
		Seed:      r.seed,
		Width:     g.Width(),
		Height:    g.Height(),
		Values:    g.Values(),
		State:     r.res.State().String(),
		Phase:     r.res.Phase().String(),
		Turns:     r.turns,
		LastTurn:  r.last,
		SessionID: r.sessionID,
		CreatedAt: r.createdAt,
	}
}

// Subscribe registers a message stream. The first message is a snapshot
// taken on the room goroutine, so no event is missed or repeated. The
// channel is closed when the room closes or cancel is called.
func (r *Room) Subscribe(ctx context.Context) (<-chan Message, func(), error) {
	ch := make(chan Message, subscriberBuffer)
	err := r.do(ctx, func() {
		ch <- Message{Type: "snapshot", Data: r.snapshot()}
		r.subs[ch] = struct{}{}
	})
	if err != nil {
		return nil, nil, err
	}

	cancel := func() {
		//nolint:errcheck // A closed room has already closed ch
		r.do(context.Background(), func() {
			if _, ok := r.subs[ch]; ok {
				delete(r.subs, ch)
				close(ch)
			}
		})
	}
	return ch, cancel, nil
}

// onEvent runs on the room goroutine, inside resolver calls.
func (r *Room) onEvent(ev board.Event) {
	switch e := ev.(type) {
	case board.BoardStable:
		r.endTurn(e.Turn)
	case board.SwapReverted:
		r.endTurn(e.Turn)
	}
	// Encode here: pieces keep changing after the event is delivered.
	data, err := json.Marshal(ev)
	if err != nil {
		r.logger.Error("encode event", "kind", ev.Kind(), "error", err)
		return
	}
	r.broadcast(Message{Type: ev.Kind(), Data: json.RawMessage(data)})
}

func (r *Room) endTurn(t board.TurnResult) {
	r.turns++
	r.last = &t
	if t.Truncated {
		r.logger.Warn("cascade truncated", "turn", r.turns, "passes", t.Passes)
	}
	if r.journal == nil || r.sessionID == "" {
		return
	}
	if _, err := r.journal.RecordTurn(storage.TurnFromResult(r.sessionID, r.turns, t)); err != nil {
		r.logger.Warn("journal write failed", "turn", r.turns, "error", err)
	}
}

// broadcast drops subscribers that cannot keep up.
func (r *Room) broadcast(msg Message) {
	for ch := range r.subs {
		select {
		case ch <- msg:
		default:
			r.logger.Warn("dropping slow subscriber")
			delete(r.subs, ch)
			close(ch)
		}
	}
}
