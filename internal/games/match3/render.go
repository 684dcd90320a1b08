package match3

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-gems/internal/core"
	"github.com/vovakirdan/tui-gems/internal/games/match3/board"
)

const (
	cellWidth    = 3 // "[●]"
	hudHeight    = 2
	footerHeight = 3
)

// glyphs are the piece shapes by value; larger alphabets fall back to letters.
var glyphs = []rune{'●', '▲', '■', '◆', '★', '♥', '♣', '♠'}

func glyph(v board.Value) rune {
	if v >= 0 && int(v) < len(glyphs) {
		return glyphs[v]
	}
	return v.Rune()
}

// boardSize returns the framed board size in screen cells.
func boardSize(cfg board.Config) (w, h int) {
	return cfg.Width*cellWidth + 2, cfg.Height + 2
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boxW, boxH := boardSize(g.cfg)
	frame := core.NewRect((g.screenW-boxW)/2, hudHeight, boxW, boxH)

	g.renderHUD(dst, frame)
	dst.DrawBox(frame, core.ColorGray)
	g.renderPieces(dst, frame)
	g.renderCursor(dst, frame)
	g.renderFooter(dst, frame)

	if g.paused {
		drawOverlay(dst, frame, "PAUSED", "Press P to resume")
	}
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
	dst.DrawTextCentered(y+1, "Please resize terminal", core.ColorGray)
}

func (g *Game) renderHUD(dst *core.Screen, frame core.Rect) {
	dst.DrawTextCentered(0, g.Title(), core.ColorBrightCyan)

	phase := "ready"
	if g.res.State() == board.StateResolving {
		phase = g.res.Phase().String()
	}
	left := fmt.Sprintf("Turn %d", g.turns)
	right := phase
	dst.DrawText(frame.X, 1, left)
	dst.DrawTextColor(frame.Right()-len(right), 1, right, core.ColorGray)
}

// cellOrigin returns the screen position of board cell (x, y).
// fy may be fractional while a piece is falling.
func cellOrigin(frame core.Rect, cfg board.Config, fx, fy float64) (int, int) {
	col := frame.X + 1 + int(math.Round(fx))*cellWidth
	row := frame.Y + 1 + int(math.Round(float64(cfg.Height-1)-fy))
	return col, row
}

func (g *Game) renderPieces(dst *core.Screen, frame core.Rect) {
	inner := core.NewRect(frame.X+1, frame.Y+1, frame.W-2, frame.H-2)
	blink := (g.tick/8)%2 == 0

	for _, b := range g.anim.bursts {
		col, row := cellOrigin(frame, g.cfg, float64(b.at.X), float64(b.at.Y))
		dst.SetColor(col+1, row, '✶', core.ValueColor(int(b.value)))
	}

	g.res.Grid().Each(func(c board.Coord, p *board.Piece) {
		if p == nil {
			return
		}
		fx, fy := float64(c.X), float64(c.Y)
		if x, y, ok := g.anim.Position(p); ok {
			fx, fy = x, y
		}
		col, row := cellOrigin(frame, g.cfg, fx, fy)
		if !inner.Contains(col+1, row) {
			return
		}
		color := core.ValueColor(int(p.Value()))
		if g.anim.Highlighted(p) && blink {
			color = core.ColorBrightWhite
		}
		dst.SetColor(col+1, row, glyph(p.Value()), color)
	})
}

func (g *Game) renderCursor(dst *core.Screen, frame core.Rect) {
	if g.selected != nil {
		col, row := cellOrigin(frame, g.cfg, float64(g.selected.X), float64(g.selected.Y))
		dst.SetColor(col, row, '<', core.ColorBrightYellow)
		dst.SetColor(col+2, row, '>', core.ColorBrightYellow)
	}
	if g.selected != nil && *g.selected == g.cursor {
		return
	}
	col, row := cellOrigin(frame, g.cfg, float64(g.cursor.X), float64(g.cursor.Y))
	dst.SetColor(col, row, '[', core.ColorBrightWhite)
	dst.SetColor(col+2, row, ']', core.ColorBrightWhite)
}

func (g *Game) renderFooter(dst *core.Screen, frame core.Rect) {
	y := frame.Bottom()

	if g.last != nil {
		var summary string
		switch t := g.last; {
		case !t.Accepted:
			summary = fmt.Sprintf("Last: %v↔%v reverted", t.From, t.To)
		case t.Passes > 1:
			summary = fmt.Sprintf("Last: %d cleared, combo x%d", t.Cleared, t.Passes)
		default:
			summary = fmt.Sprintf("Last: %d cleared", t.Cleared)
		}
		dst.DrawText(frame.X, y, summary)
	}

	if g.selected != nil {
		dst.DrawTextColor(frame.X, y+1, "Pick a direction or neighbour, Esc to cancel", core.ColorGray)
	}
	if g.status != "" {
		dst.DrawTextColor(frame.X, y+2, g.status, core.ColorYellow)
	}
}

// drawOverlay draws a boxed message centered on the board.
func drawOverlay(dst *core.Screen, frame core.Rect, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := frame.X + (frame.W-boxW)/2
	boxY := frame.Y + (frame.H-boxH)/2

	for y := boxY; y < boxY+boxH; y++ {
		for x := boxX; x < boxX+boxW; x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH), core.ColorWhite)

	for i, line := range lines {
		x := boxX + (boxW-len(line))/2
		dst.DrawText(x, boxY+1+i, line)
	}
}
