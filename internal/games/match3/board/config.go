package board

import (
	"errors"
	"fmt"
	"time"
)

// Timing holds presentation durations. They never change the outcome of a
// turn; they set how long each settle barrier waits.
type Timing struct {
	Swap            time.Duration // both directions of a swap
	Highlight       time.Duration // matched pieces shown before clearing
	PostClear       time.Duration // after clear, before collapse
	CollapsePerCell time.Duration // fall time per row
	PostCollapse    time.Duration // after the longest fall, before rematch
	Refill          time.Duration // fall time of spawned pieces
	PostRefill      time.Duration // after refill, before the stability check
}

// DefaultTiming returns the standard pacing.
func DefaultTiming() Timing {
	return Timing{
		Swap:            500 * time.Millisecond,
		Highlight:       500 * time.Millisecond,
		PostClear:       250 * time.Millisecond,
		CollapsePerCell: 100 * time.Millisecond,
		PostCollapse:    200 * time.Millisecond,
		Refill:          500 * time.Millisecond,
		PostRefill:      500 * time.Millisecond,
	}
}

// MaxDimension bounds the width and height of a board.
const MaxDimension = 256

// Config is consumed once when a resolver is built.
type Config struct {
	Width            int
	Height           int
	Alphabet         int // number of distinct piece values
	MinMatch         int
	FillRetries      int // re-rolls per cell when avoiding matches
	MaxCascadePasses int // clear cycles allowed in one turn
	SpawnOffset      int // rows above its cell a spawned piece starts from
	Timing           Timing
}

// DefaultConfig returns an 8x8 board with five piece values.
func DefaultConfig() Config {
	return Config{
		Width:            8,
		Height:           8,
		Alphabet:         5,
		MinMatch:         3,
		FillRetries:      100,
		MaxCascadePasses: 50,
		SpawnOffset:      10,
		Timing:           DefaultTiming(),
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("board size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.Width > MaxDimension || c.Height > MaxDimension {
		errs = append(errs, fmt.Errorf("board size must be at most %dx%d, got %dx%d", MaxDimension, MaxDimension, c.Width, c.Height))
	}
	if c.Alphabet < 2 {
		errs = append(errs, fmt.Errorf("alphabet must have at least 2 values, got %d", c.Alphabet))
	}
	if c.MinMatch < 2 {
		errs = append(errs, fmt.Errorf("min match must be at least 2, got %d", c.MinMatch))
	}
	if c.FillRetries < 0 {
		errs = append(errs, fmt.Errorf("fill retries must not be negative, got %d", c.FillRetries))
	}
	if c.MaxCascadePasses < 1 {
		errs = append(errs, fmt.Errorf("max cascade passes must be at least 1, got %d", c.MaxCascadePasses))
	}
	if c.SpawnOffset < 0 {
		errs = append(errs, fmt.Errorf("spawn offset must not be negative, got %d", c.SpawnOffset))
	}
	t := c.Timing
	for _, d := range []time.Duration{t.Swap, t.Highlight, t.PostClear, t.CollapsePerCell, t.PostCollapse, t.Refill, t.PostRefill} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("timing must not be negative, got %v", d))
			break
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("board: invalid config: %w", err)
	}
	return nil
}
