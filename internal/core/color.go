package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors. The first nine after ColorDefault double as the
// tile palette: palette index i renders with TileColor(i).
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorOrange
	ColorWhite
	ColorPink
	ColorGray
	ColorBrightWhite
)

// PaletteSize is the number of distinct tile colors a screen can show.
const PaletteSize = 9

var tileRunes = [PaletteSize]rune{'R', 'G', 'Y', 'B', 'M', 'C', 'O', 'W', 'P'}

// TileColor returns the screen color for palette index i.
// Out-of-range indices render as gray.
func TileColor(i int) Color {
	if i < 0 || i >= PaletteSize {
		return ColorGray
	}
	return Color(i + 1)
}

// TileRune returns the glyph used for palette index i in plain-text output.
func TileRune(i int) rune {
	if i < 0 || i >= PaletteSize {
		return '.'
	}
	return tileRunes[i]
}
