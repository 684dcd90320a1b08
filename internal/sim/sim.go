// Package sim plays boards headlessly with a random proposer and collects
// statistics about the turns. It does not look for good moves.
package sim

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
	"github.com/vovakirdan/tui-gems/internal/storage"
)

// Journal records simulated turns. *storage.Store implements it.
type Journal interface {
	CreateSession(info storage.SessionInfo) (string, error)
	RecordTurn(rec storage.TurnRecord) (int64, error)
}

// Options configures a run.
type Options struct {
	Board   board.Config
	Seed    int64
	Turns   int
	Journal Journal     // optional
	Logger  *log.Logger // optional
}

// Report summarises a run.
type Report struct {
	Seed           int64
	Turns          int
	Accepted       int
	Reverted       int
	Truncated      int
	FillExhausted  int
	Cleared        int
	Spawned        int
	LongestCascade int
	Passes         map[int]int // accepted turns by cascade depth
	SessionID      string
}

// AcceptRate is the share of proposals that cleared something.
func (r Report) AcceptRate() float64 {
	if r.Turns == 0 {
		return 0
	}
	return float64(r.Accepted) / float64(r.Turns)
}

// Depths returns the cascade depths seen, ascending.
func (r Report) Depths() []int {
	depths := make([]int, 0, len(r.Passes))
	for d := range r.Passes {
		depths = append(depths, d)
	}
	slices.Sort(depths)
	return depths
}

func (r *Report) add(t board.TurnResult) {
	r.Turns++
	r.Cleared += t.Cleared
	r.Spawned += t.Spawned
	r.FillExhausted += t.FillExhausted
	if t.Truncated {
		r.Truncated++
	}
	if !t.Accepted {
		r.Reverted++
		return
	}
	r.Accepted++
	r.Passes[t.Passes]++
	r.LongestCascade = max(r.LongestCascade, t.Passes)
}

// Run plays opts.Turns random swaps. It stops early, returning the partial
// report and ctx.Err(), when ctx is cancelled.
func Run(ctx context.Context, opts Options) (Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	rep := Report{Seed: opts.Seed, Passes: make(map[int]int)}
	res, err := board.New(opts.Board, board.WithSeed(opts.Seed), board.WithLogger(logger))
	if err != nil {
		return rep, fmt.Errorf("sim: %w", err)
	}

	if opts.Journal != nil {
		id, err := opts.Journal.CreateSession(storage.NewSessionInfo("sim", opts.Seed, opts.Board))
		if err != nil {
			return rep, fmt.Errorf("sim: %w", err)
		}
		rep.SessionID = id
	}

	pairs := adjacentPairs(opts.Board.Width, opts.Board.Height)
	if len(pairs) == 0 {
		return rep, fmt.Errorf("sim: a %dx%d board has no adjacent cells", opts.Board.Width, opts.Board.Height)
	}
	rng := rand.New(rand.NewPCG(uint64(opts.Seed), 0x9e3779b97f4a7c15))

	for range opts.Turns {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		p := pairs[rng.IntN(len(pairs))]
		turn, err := res.Play(p[0], p[1])
		if err != nil {
			return rep, fmt.Errorf("sim: turn %d: %w", rep.Turns+1, err)
		}
		rep.add(turn)

		if turn.Truncated {
			logger.Warn("cascade truncated", "turn", rep.Turns, "passes", turn.Passes)
		}
		if rep.SessionID != "" {
			if _, err := opts.Journal.RecordTurn(storage.TurnFromResult(rep.SessionID, rep.Turns, turn)); err != nil {
				return rep, fmt.Errorf("sim: %w", err)
			}
		}
	}

	logger.Info("simulation finished",
		"turns", rep.Turns,
		"accepted", rep.Accepted,
		"longest_cascade", rep.LongestCascade,
	)
	return rep, nil
}

// adjacentPairs lists every horizontal and vertical neighbour pair once.
func adjacentPairs(w, h int) [][2]board.Coord {
	var pairs [][2]board.Coord
	for y := range h {
		for x := range w {
			if x+1 < w {
				pairs = append(pairs, [2]board.Coord{board.C(x, y), board.C(x+1, y)})
			}
			if y+1 < h {
				pairs = append(pairs, [2]board.Coord{board.C(x, y), board.C(x, y+1)})
			}
		}
	}
	return pairs
}
