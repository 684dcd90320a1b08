package core

import "github.com/vovakirdan/tui-gems/internal/games/match3/board"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic boards

	// Board overrides the game's own board config when set
	// (loaded from YAML, difficulty applied).
	Board *board.Config
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Busy   bool // a turn is resolving, input is locked
	Paused bool
	Turns  int // finished turns, accepted or reverted
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	// Turn is set on the tick a turn finished.
	Turn *board.TurnResult
}
