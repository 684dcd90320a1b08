package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Cell is one character of the screen buffer with its foreground color.
type Cell struct {
	Rune  rune
	Color Color
}

// ValueColors is the palette used for piece values, in value order.
// Values past the end wrap around.
var ValueColors = []Color{
	ColorBrightRed,
	ColorBrightGreen,
	ColorBrightBlue,
	ColorBrightYellow,
	ColorBrightMagenta,
	ColorBrightCyan,
	ColorOrange,
	ColorWhite,
}

// ValueColor returns the palette color for a piece value.
func ValueColor(v int) Color {
	if v < 0 {
		return ColorGray
	}
	return ValueColors[v%len(ValueColors)]
}
