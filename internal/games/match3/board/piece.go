package board

import (
	"encoding/json"
	"fmt"
)

// Value is the match tag of a piece, drawn from 0..alphabet-1.
type Value int

// NoValue marks an empty cell in value snapshots.
const NoValue Value = -1

// Rune returns a one-letter label for the value ('A' for 0), or '.' for NoValue.
func (v Value) Rune() rune {
	if v < 0 {
		return '.'
	}
	return rune('A' + int(v)%26)
}

// Piece is a single occupant of a grid cell.
// A piece lives until it is cleared; collapse moves it, fills never reuse it.
type Piece struct {
	id    uint64
	value Value
	at    Coord
}

// ID returns the grid-unique identifier of the piece.
// Presentation layers use it to follow a piece across events.
func (p *Piece) ID() uint64 {
	return p.id
}

// Value returns the piece's match tag.
func (p *Piece) Value() Value {
	return p.value
}

// Coord returns the coordinate the piece was last placed at.
// For a cleared piece this is the cell it was cleared from.
func (p *Piece) Coord() Coord {
	return p.at
}

func (p *Piece) String() string {
	return fmt.Sprintf("%c#%d@%v", p.value.Rune(), p.id, p.at)
}

// MarshalJSON encodes the piece as {"id":..,"value":..}.
func (p *Piece) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID    uint64 `json:"id"`
		Value Value  `json:"value"`
	}{p.id, p.value})
}
