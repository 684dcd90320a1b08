// Package board implements the match-3 board simulation: grid storage,
// match detection, refill, gravity collapse and the turn resolver that
// sequences them. It has no knowledge of rendering or input; presentation
// layers follow it through events and gate it through the settle barrier.
package board

import (
	"fmt"
	"strings"
)

// Grid is a fixed-size board of piece references.
// Cells are stored in row-major order: index = y*W + x, row 0 at the bottom.
type Grid struct {
	w      int
	h      int
	cells  []*Piece
	nextID uint64
}

// NewGrid creates an empty grid. Dimensions must be positive.
func NewGrid(w, h int) *Grid {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("board: invalid grid size %dx%d", w, h))
	}
	return &Grid{
		w:     w,
		h:     h,
		cells: make([]*Piece, w*h),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.w
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.h
}

// index converts a coordinate to a flat array index.
func (g *Grid) index(c Coord) int {
	return c.Y*g.w + c.X
}

// InBounds returns true if the coordinate is within the grid boundaries.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.w && c.Y >= 0 && c.Y < g.h
}

func (g *Grid) mustInBounds(c Coord) {
	if !g.InBounds(c) {
		panic(&OutOfBoundsError{At: c, Width: g.w, Height: g.h})
	}
}

// Get returns the occupant of c, or nil for an empty cell.
// Panics with *OutOfBoundsError when c is off the grid.
func (g *Grid) Get(c Coord) *Piece {
	g.mustInBounds(c)
	p := g.cells[g.index(c)]
	if p != nil && p.at != c {
		panic(fmt.Sprintf("board: piece %v stored at %v", p, c))
	}
	return p
}

// Place stores p at c and sets its coordinate.
// An off-grid c only updates the coordinate; nothing is stored.
func (g *Grid) Place(p *Piece, c Coord) {
	p.at = c
	if g.InBounds(c) {
		g.cells[g.index(c)] = p
	}
}

// Clear removes and returns the occupant of c (nil if the cell was empty).
func (g *Grid) Clear(c Coord) *Piece {
	g.mustInBounds(c)
	i := g.index(c)
	p := g.cells[i]
	g.cells[i] = nil
	return p
}

// Swap exchanges the contents of two cells. Either may be empty.
func (g *Grid) Swap(a, b Coord) {
	pa, pb := g.Clear(a), g.Clear(b)
	if pa != nil {
		g.Place(pa, b)
	}
	if pb != nil {
		g.Place(pb, a)
	}
}

// FromRows builds a grid from the String form: one row of letters per
// line, top row first, '.' for an empty cell.
func FromRows(rows ...string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("board: empty layout")
	}
	h, w := len(rows), len(rows[0])
	if h > MaxDimension || w > MaxDimension {
		return nil, fmt.Errorf("board: layout is %dx%d, at most %dx%d allowed", w, h, MaxDimension, MaxDimension)
	}
	g := NewGrid(w, h)
	for i, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("board: row %d has width %d, want %d", i, len(row), w)
		}
		y := h - 1 - i
		for x := 0; x < w; x++ {
			switch r := row[x]; {
			case r == '.':
			case r >= 'A' && r <= 'Z':
				g.Place(g.NewPiece(Value(r-'A')), C(x, y))
			default:
				return nil, fmt.Errorf("board: invalid cell %q at row %d", r, i)
			}
		}
	}
	return g, nil
}

// NewPiece allocates a piece with a fresh ID. It is not placed.
func (g *Grid) NewPiece(v Value) *Piece {
	g.nextID++
	return &Piece{id: g.nextID, value: v, at: Coord{X: -1, Y: -1}}
}

// Each calls fn for every cell, bottom row first, left to right.
func (g *Grid) Each(fn func(c Coord, p *Piece)) {
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			c := C(x, y)
			fn(c, g.Get(c))
		}
	}
}

// Empty returns the number of unoccupied cells.
func (g *Grid) Empty() int {
	n := 0
	for _, p := range g.cells {
		if p == nil {
			n++
		}
	}
	return n
}

// Values returns a snapshot of cell values indexed [y][x], row 0 first.
// Empty cells hold NoValue.
func (g *Grid) Values() [][]Value {
	rows := make([][]Value, g.h)
	for y := range rows {
		rows[y] = make([]Value, g.w)
		for x := range rows[y] {
			rows[y][x] = NoValue
			if p := g.cells[g.index(C(x, y))]; p != nil {
				rows[y][x] = p.value
			}
		}
	}
	return rows
}

// String renders the grid as letters, top row first.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.w + 1) * g.h)
	for y := g.h - 1; y >= 0; y-- {
		for x := 0; x < g.w; x++ {
			v := NoValue
			if p := g.cells[g.index(C(x, y))]; p != nil {
				v = p.value
			}
			sb.WriteRune(v.Rune())
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
