package board

import (
	"math/rand/v2"
)

// Source is the random source used to pick piece values.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Filler spawns new pieces into empty cells.
type Filler struct {
	rng       Source
	alphabet  int
	retries   int
	minMatch  int
	exhausted int
}

// NewFiller creates a filler drawing values 0..alphabet-1 from rng.
// retries bounds the re-rolls per cell in FillBoardAvoidingMatches.
func NewFiller(rng Source, alphabet, retries, minMatch int) *Filler {
	return &Filler{
		rng:      rng,
		alphabet: alphabet,
		retries:  retries,
		minMatch: minMatch,
	}
}

func (f *Filler) roll() Value {
	return Value(f.rng.IntN(f.alphabet))
}

// Exhausted returns how many cells kept a matching value because the
// re-roll bound ran out. The counter only grows.
func (f *Filler) Exhausted() int {
	return f.exhausted
}

// FillCell places a uniformly random piece in the empty cell at c.
// Occupied cells are left alone and nil is returned.
func (f *Filler) FillCell(g *Grid, c Coord) *Piece {
	if g.Get(c) != nil {
		return nil
	}
	p := g.NewPiece(f.roll())
	g.Place(p, c)
	return p
}

// FillBoardAvoidingMatches fills every empty cell column by column, bottom
// up. A value that completes a run with the already placed cells to its left
// or below is re-rolled; after the retry bound the last roll stays.
// Returns the spawned pieces in fill order.
func (f *Filler) FillBoardAvoidingMatches(g *Grid) []*Piece {
	var spawned []*Piece
	for x := 0; x < g.w; x++ {
		for y := 0; y < g.h; y++ {
			c := C(x, y)
			p := f.FillCell(g, c)
			if p == nil {
				continue
			}
			for tries := 0; f.completesRun(g, c); tries++ {
				if tries >= f.retries {
					f.exhausted++
					break
				}
				p.value = f.roll()
			}
			spawned = append(spawned, p)
		}
	}
	return spawned
}

// completesRun checks only left and down: cells right of and above c are
// still unfilled on an initial fill.
func (f *Filler) completesRun(g *Grid, c Coord) bool {
	return ScanLine(g, c, DirLeft, f.minMatch) != nil ||
		ScanLine(g, c, DirDown, f.minMatch) != nil
}
