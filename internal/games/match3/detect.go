package match3

import "github.com/vovakirdan/playtest-arcade/internal/core"

// Orientation is the axis a match lies on.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Match is a maximal run of same-colored tiles in one row or column.
// Positions are ordered left to right or top to bottom.
type Match struct {
	Color       Color       `json:"color"`
	Orientation Orientation `json:"orientation"`
	Positions   []core.Pos  `json:"positions"`
}

// Len returns the number of tiles in the match.
func (m Match) Len() int { return len(m.Positions) }

// FindMatches reports every maximal run of at least minMatch tiles. Rows
// are scanned first, top to bottom, then columns, left to right. A tile
// at an L or T intersection appears in both its horizontal and its
// vertical match.
func FindMatches(g *Grid, minMatch int) []Match {
	var matches []Match
	for r := 0; r < g.rows; r++ {
		matches = scanLine(g, matches, minMatch, core.P(r, 0), 0, 1, g.cols, Horizontal)
	}
	for c := 0; c < g.cols; c++ {
		matches = scanLine(g, matches, minMatch, core.P(0, c), 1, 0, g.rows, Vertical)
	}
	return matches
}

// scanLine appends the runs found along n cells starting at start.
func scanLine(g *Grid, out []Match, minMatch int, start core.Pos, dr, dc, n int, o Orientation) []Match {
	i := 0
	for i < n {
		color := g.At(start.Add(dr*i, dc*i))
		end := i + 1
		if color != Empty {
			for end < n && g.At(start.Add(dr*end, dc*end)) == color {
				end++
			}
			if end-i >= minMatch {
				m := Match{Color: color, Orientation: o, Positions: make([]core.Pos, 0, end-i)}
				for k := i; k < end; k++ {
					m.Positions = append(m.Positions, start.Add(dr*k, dc*k))
				}
				out = append(out, m)
			}
		}
		i = end
	}
	return out
}

// TileCount sums the lengths of all matches. Intersection tiles count
// once per match they belong to.
func TileCount(matches []Match) int {
	n := 0
	for _, m := range matches {
		n += m.Len()
	}
	return n
}

// matchedCells returns the distinct positions covered by matches, in
// first-seen order.
func matchedCells(matches []Match) []core.Pos {
	seen := make(map[core.Pos]bool)
	var cells []core.Pos
	for _, m := range matches {
		for _, p := range m.Positions {
			if !seen[p] {
				seen[p] = true
				cells = append(cells, p)
			}
		}
	}
	return cells
}
