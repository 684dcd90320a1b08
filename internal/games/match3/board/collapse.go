package board

import "slices"

// Move records a piece falling from one cell to another during collapse.
type Move struct {
	Piece *Piece
	From  Coord
	To    Coord
}

// Distance returns the number of rows fallen.
func (m Move) Distance() int {
	return m.From.Y - m.To.Y
}

// CollapseColumn lets the pieces of column x fall onto the lowest empty
// cells. Storage and piece coordinates update immediately. After it returns
// every occupied cell in the column sits below every empty one.
func CollapseColumn(g *Grid, x int) []Move {
	var moves []Move
	for i := 0; i < g.h-1; i++ {
		if g.Get(C(x, i)) != nil {
			continue
		}
		found := false
		for j := i + 1; j < g.h; j++ {
			from := C(x, j)
			p := g.Clear(from)
			if p == nil {
				continue
			}
			to := C(x, i)
			g.Place(p, to)
			moves = append(moves, Move{Piece: p, From: from, To: to})
			found = true
			break
		}
		if !found {
			break
		}
	}
	return moves
}

// CollapseColumns collapses each distinct column in cols, in ascending order.
func CollapseColumns(g *Grid, cols []int) []Move {
	cols = slices.Clone(cols)
	slices.Sort(cols)
	cols = slices.Compact(cols)

	var moves []Move
	for _, x := range cols {
		moves = append(moves, CollapseColumn(g, x)...)
	}
	return moves
}

// ColumnsOf returns the distinct columns of the pieces' last coordinates.
func ColumnsOf(pieces []*Piece) []int {
	cols := make([]int, 0, len(pieces))
	for _, p := range pieces {
		cols = append(cols, p.at.X)
	}
	slices.Sort(cols)
	return slices.Compact(cols)
}

// Moved returns the pieces of moves.
func Moved(moves []Move) []*Piece {
	pieces := make([]*Piece, 0, len(moves))
	for _, m := range moves {
		pieces = append(pieces, m.Piece)
	}
	return pieces
}
