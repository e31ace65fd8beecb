package match3

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/playtest-arcade/internal/core"
)

// Color is a palette index. Tiles carry no identity beyond their color.
type Color int8

// Empty marks a cell whose tile was removed mid-cascade.
const Empty Color = -1

// maxStabilizePasses bounds the anti-match loop. Convergence is
// probabilistic; hitting the bound means the loop is broken.
const maxStabilizePasses = 10000

// Grid is a rectangular board of tile colors stored in row-major order.
type Grid struct {
	rows  int
	cols  int
	cells []Color
}

// NewGrid creates a grid with every cell empty.
func NewGrid(rows, cols int) *Grid {
	g := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Color, rows*cols),
	}
	for i := range g.cells {
		g.cells[i] = Empty
	}
	return g
}

// Initialize builds a rows×cols grid filled with uniformly random colors
// from a palette of the given size, then breaks every run of minMatch or
// more so that play starts from a grid without matches.
func Initialize(rows, cols, colors, minMatch int, src Source) *Grid {
	g := NewGrid(rows, cols)
	g.Randomize(colors, src)
	g.Stabilize(colors, minMatch, src)
	return g
}

// ParseGrid builds a grid from rows of digits; '.' is an empty cell.
func ParseGrid(lines ...string) (*Grid, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("parse grid: no rows")
	}
	cols := len(lines[0])
	g := NewGrid(len(lines), cols)
	for r, line := range lines {
		if len(line) != cols {
			return nil, fmt.Errorf("parse grid: row %d has %d cells, want %d", r, len(line), cols)
		}
		for c, ch := range line {
			switch {
			case ch == '.':
				g.cells[r*cols+c] = Empty
			case ch >= '0' && ch <= '9':
				g.cells[r*cols+c] = Color(ch - '0')
			default:
				return nil, fmt.Errorf("parse grid: bad cell %q at (%d,%d)", ch, r, c)
			}
		}
	}
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p core.Pos) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// At returns the color at p. Out-of-bounds positions read as Empty.
func (g *Grid) At(p core.Pos) Color {
	if !g.InBounds(p) {
		return Empty
	}
	return g.cells[p.Row*g.cols+p.Col]
}

// Set writes a color (or Empty) at p. Out-of-bounds writes are ignored.
func (g *Grid) Set(p core.Pos, c Color) {
	if g.InBounds(p) {
		g.cells[p.Row*g.cols+p.Col] = c
	}
}

// Swap exchanges the colors at a and b. No adjacency check is made.
func (g *Grid) Swap(a, b core.Pos) {
	ca, cb := g.At(a), g.At(b)
	g.Set(a, cb)
	g.Set(b, ca)
}

// Full reports whether every cell holds a tile.
func (g *Grid) Full() bool {
	for _, c := range g.cells {
		if c == Empty {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Color, len(g.cells))
	copy(cells, g.cells)
	return &Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// Frame returns a presentation copy of the grid.
func (g *Grid) Frame() core.Frame {
	cells := make([]int, len(g.cells))
	for i, c := range g.cells {
		cells[i] = int(c)
	}
	return core.Frame{Rows: g.rows, Cols: g.cols, Cells: cells}
}

// String renders the grid as rows of digits, '.' for empty cells.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.rows * (g.cols + 1))
	for r := 0; r < g.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < g.cols; c++ {
			v := g.cells[r*g.cols+c]
			if v == Empty {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(byte('0' + v))
			}
		}
	}
	return sb.String()
}

// Randomize overwrites every cell with a uniformly random color.
func (g *Grid) Randomize(colors int, src Source) {
	for i := range g.cells {
		g.cells[i] = drawColor(colors, src)
	}
}

// Shuffle randomly permutes the existing tile colors across all cells.
func (g *Grid) Shuffle(src Source) {
	for i := len(g.cells) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		g.cells[i], g.cells[j] = g.cells[j], g.cells[i]
	}
}

// Stabilize rescans for runs of minMatch or more and replaces the last
// tile of each run until a full scan finds none. The replacement is
// random; when it would equal the run color or complete another run, the
// following palette colors are tried in order.
func (g *Grid) Stabilize(colors, minMatch int, src Source) {
	for pass := 0; ; pass++ {
		matches := FindMatches(g, minMatch)
		if len(matches) == 0 {
			return
		}
		if pass >= maxStabilizePasses {
			panic(invariantf("grid did not stabilize after %d passes", maxStabilizePasses))
		}
		for _, m := range matches {
			last := m.Positions[len(m.Positions)-1]
			if g.At(last) != m.Color {
				continue // already replaced while fixing a crossing run
			}
			g.Set(last, g.replacementColor(last, m.Color, colors, minMatch, src))
		}
	}
}

// replacementColor picks a color for p other than avoid.
func (g *Grid) replacementColor(p core.Pos, avoid Color, colors, minMatch int, src Source) Color {
	c := drawColor(colors, src)
	for i := 0; i < colors; i++ {
		if c != avoid && !g.completesRun(p, c, minMatch) {
			return c
		}
		c = (c + 1) % Color(colors)
	}
	// Every color collides here; take any other color and let the next
	// pass clean up.
	return (avoid + 1) % Color(colors)
}

// completesRun reports whether placing c at p would sit inside a
// horizontal or vertical run of at least minMatch tiles.
func (g *Grid) completesRun(p core.Pos, c Color, minMatch int) bool {
	count := func(dr, dc int) int {
		n := 0
		for q := p.Add(dr, dc); g.At(q) == c; q = q.Add(dr, dc) {
			n++
		}
		return n
	}
	if 1+count(0, -1)+count(0, 1) >= minMatch {
		return true
	}
	return 1+count(-1, 0)+count(1, 0) >= minMatch
}

// collapse lets tiles fall to the lowest free rows of their column,
// keeping their relative order. Returns the cells that received a tile.
func (g *Grid) collapse() []core.Pos {
	var moved []core.Pos
	for c := 0; c < g.cols; c++ {
		write := g.rows - 1
		for r := g.rows - 1; r >= 0; r-- {
			p := core.P(r, c)
			color := g.At(p)
			if color == Empty {
				continue
			}
			if r != write {
				dst := core.P(write, c)
				g.Set(dst, color)
				g.Set(p, Empty)
				moved = append(moved, dst)
			}
			write--
		}
	}
	return moved
}

// refill fills empty cells column by column, top-down, with random colors.
// No anti-match check is applied.
func (g *Grid) refill(colors int, src Source) []core.Pos {
	var filled []core.Pos
	for c := 0; c < g.cols; c++ {
		for r := 0; r < g.rows; r++ {
			p := core.P(r, c)
			if g.At(p) == Empty {
				g.Set(p, drawColor(colors, src))
				filled = append(filled, p)
			}
		}
	}
	return filled
}

// drawColor takes one palette color from src.
func drawColor(colors int, src Source) Color {
	c := src.Intn(colors)
	if c < 0 || c >= colors {
		panic(invariantf("source returned %d outside palette of %d", c, colors))
	}
	return Color(c)
}
