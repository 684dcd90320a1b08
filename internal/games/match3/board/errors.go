package board

import (
	"errors"
	"fmt"
)

// ErrInvalidSwap is the root of every swap rejection.
// Callers test with errors.Is; the board is never mutated by a rejected swap.
var ErrInvalidSwap = errors.New("invalid swap")

var (
	ErrBusy        = fmt.Errorf("%w: board is resolving", ErrInvalidSwap)
	ErrOutOfRange  = fmt.Errorf("%w: coordinate off the board", ErrInvalidSwap)
	ErrSameCell    = fmt.Errorf("%w: same cell", ErrInvalidSwap)
	ErrNotAdjacent = fmt.Errorf("%w: cells are not adjacent", ErrInvalidSwap)
	ErrEmptyCell   = fmt.Errorf("%w: empty cell", ErrInvalidSwap)
)

// OutOfBoundsError is the panic value for grid access outside its dimensions.
// It signals a programming error, not a recoverable condition.
type OutOfBoundsError struct {
	At     Coord
	Width  int
	Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("board: %v outside %dx%d grid", e.At, e.Width, e.Height)
}
