package board

// halfRun is the per-direction threshold used when two opposite scans are
// combined into one line: each half includes the start piece, so a half of
// length 1 contributes nothing the other half doesn't already hold.
const halfRun = 2

// ScanLine walks from start in direction d, collecting consecutive pieces
// whose value equals the start piece's. The start piece is included.
// Returns nil when the run is shorter than minLen or start is empty.
func ScanLine(g *Grid, start Coord, d Dir, minLen int) []*Piece {
	if !g.InBounds(start) {
		return nil
	}
	first := g.Get(start)
	if first == nil {
		return nil
	}

	run := []*Piece{first}
	for c := start.Step(d); g.InBounds(c); c = c.Step(d) {
		p := g.Get(c)
		if p == nil || p.value != first.value {
			break
		}
		run = append(run, p)
	}

	if len(run) < minLen {
		return nil
	}
	return run
}

// lineThrough joins the scans in d and its opposite into one run,
// kept only when it reaches minMatch.
func lineThrough(g *Grid, c Coord, d Dir, minMatch int) []*Piece {
	line := union(ScanLine(g, c, d, halfRun), ScanLine(g, c, d.Opposite(), halfRun))
	if len(line) < minMatch {
		return nil
	}
	return line
}

// MatchesThrough returns every piece in a horizontal or vertical run of at
// least minMatch that passes through c. L, T and plus shapes come back as
// one deduplicated set.
func MatchesThrough(g *Grid, c Coord, minMatch int) []*Piece {
	return union(
		lineThrough(g, c, DirLeft, minMatch),
		lineThrough(g, c, DirDown, minMatch),
	)
}

// MatchesAmong unions MatchesThrough over the current coordinates of pieces.
// Pieces that are no longer on the grid are skipped.
func MatchesAmong(g *Grid, pieces []*Piece, minMatch int) []*Piece {
	var sets [][]*Piece
	for _, p := range pieces {
		if p == nil || !g.InBounds(p.at) || g.Get(p.at) != p {
			continue
		}
		sets = append(sets, MatchesThrough(g, p.at, minMatch))
	}
	return union(sets...)
}

// AllMatches returns every matched piece on the board.
// An empty result means the board is stable.
func AllMatches(g *Grid, minMatch int) []*Piece {
	var sets [][]*Piece
	for x := 0; x < g.w; x++ {
		for y := 0; y < g.h; y++ {
			if m := MatchesThrough(g, C(x, y), minMatch); m != nil {
				sets = append(sets, m)
			}
		}
	}
	return union(sets...)
}

// union concatenates sets, dropping repeated pieces. Order is first-seen.
// Nil and empty inputs are equivalent; an empty union is nil.
func union(sets ...[]*Piece) []*Piece {
	var out []*Piece
	seen := make(map[*Piece]struct{})
	for _, set := range sets {
		for _, p := range set {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
