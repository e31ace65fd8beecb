package match3

import (
	"testing"

	"github.com/vovakirdan/playtest-arcade/internal/core"
)

// scriptedSource returns preset values, then a counter, modulo n.
type scriptedSource struct {
	vals []int
	i    int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.i
	if s.i < len(s.vals) {
		v = s.vals[s.i]
	}
	s.i++
	return v % n
}

func mustParse(t *testing.T, lines ...string) *Grid {
	t.Helper()
	g, err := ParseGrid(lines...)
	if err != nil {
		t.Fatalf("ParseGrid() failed: %v", err)
	}
	return g
}

func sameGrid(a, b *Grid) bool {
	return a.Rows() == b.Rows() && a.Cols() == b.Cols() && a.String() == b.String()
}

func colorCounts(g *Grid) map[Color]int {
	counts := make(map[Color]int)
	for _, c := range g.cells {
		if c != Empty {
			counts[c]++
		}
	}
	return counts
}

// diagonalGrid colors (r, c) with (r+c) mod 3. With three colors it holds
// no match and no swap creates one.
func diagonalGrid(rows, cols int) *Grid {
	g := NewGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Set(core.P(r, c), Color((r+c)%3))
		}
	}
	return g
}

func TestParseGridRoundTrip(t *testing.T) {
	g := mustParse(t, "012", "3.4")
	if g.Rows() != 2 || g.Cols() != 3 {
		t.Fatalf("dims = %dx%d, want 2x3", g.Rows(), g.Cols())
	}
	if got := g.At(core.P(1, 1)); got != Empty {
		t.Errorf("At(1,1) = %d, want Empty", got)
	}
	if got := g.String(); got != "012\n3.4" {
		t.Errorf("String() = %q", got)
	}
	if g.Full() {
		t.Error("grid with a hole reported full")
	}

	for _, bad := range [][]string{nil, {"01", "0"}, {"0x"}} {
		if _, err := ParseGrid(bad...); err == nil {
			t.Errorf("ParseGrid(%q) should fail", bad)
		}
	}
}

func TestGridAccessorsOutOfBounds(t *testing.T) {
	g := NewGrid(2, 2)
	if g.At(core.P(-1, 0)) != Empty || g.At(core.P(0, 2)) != Empty {
		t.Error("out-of-bounds reads should be Empty")
	}
	g.Set(core.P(5, 5), 1) // ignored
	for _, c := range g.cells {
		if c != Empty {
			t.Fatal("out-of-bounds write changed the grid")
		}
	}
}

func TestSwapAllowsNonAdjacent(t *testing.T) {
	g := mustParse(t, "012", "120")
	g.Swap(core.P(0, 0), core.P(1, 1))
	if g.At(core.P(0, 0)) != 2 || g.At(core.P(1, 1)) != 0 {
		t.Errorf("non-adjacent swap not applied:\n%s", g)
	}
}

func TestCloneIsDeep(t *testing.T) {
	g := mustParse(t, "012", "120")
	c := g.Clone()
	if !sameGrid(g, c) {
		t.Fatal("clone differs from original")
	}
	c.Set(core.P(0, 0), 2)
	if sameGrid(g, c) {
		t.Error("mutating the clone changed the original")
	}
}

func TestInitializeHasNoMatches(t *testing.T) {
	for colors := MinColors; colors <= core.PaletteSize; colors++ {
		for seed := int64(1); seed <= 25; seed++ {
			g := Initialize(8, 8, colors, 3, NewSource(seed))
			if !g.Full() {
				t.Fatalf("colors=%d seed=%d: grid not full", colors, seed)
			}
			if m := FindMatches(g, 3); len(m) != 0 {
				t.Fatalf("colors=%d seed=%d: %d matches at rest:\n%s", colors, seed, len(m), g)
			}
			for color := range colorCounts(g) {
				if color < 0 || int(color) >= colors {
					t.Fatalf("colors=%d seed=%d: color %d outside palette", colors, seed, color)
				}
			}
		}
	}
}

func TestStabilizeBreaksRuns(t *testing.T) {
	g := mustParse(t,
		"0000",
		"1111",
		"2222",
	)
	// Source always proposes color 0; the fallback must pick another one.
	g.Stabilize(3, 3, &scriptedSource{vals: []int{0, 0, 0, 0, 0, 0, 0, 0}})
	if m := FindMatches(g, 3); len(m) != 0 {
		t.Errorf("grid still has matches:\n%s", g)
	}
}

func TestShuffleConservesColors(t *testing.T) {
	g := Initialize(8, 8, 5, 3, NewSource(3))
	before := colorCounts(g)
	g.Shuffle(NewSource(4))
	after := colorCounts(g)
	for color, n := range before {
		if after[color] != n {
			t.Errorf("color %d: %d tiles before shuffle, %d after", color, n, after[color])
		}
	}
}

func TestCollapseAndRefill(t *testing.T) {
	g := mustParse(t,
		"0.2",
		".1.",
		"2..",
	)
	moved := g.collapse()
	if got, want := g.String(), "...\n0..\n212"; got != want {
		t.Fatalf("after collapse:\n%s\nwant:\n%s", got, want)
	}
	if len(moved) != 3 {
		t.Errorf("moved = %v, want 3 cells", moved)
	}

	filled := g.refill(3, &scriptedSource{vals: []int{1, 2, 0, 1, 2}})
	want := []core.Pos{core.P(0, 0), core.P(0, 1), core.P(1, 1), core.P(0, 2), core.P(1, 2)}
	if len(filled) != len(want) {
		t.Fatalf("filled = %v, want %v", filled, want)
	}
	for i := range want {
		if filled[i] != want[i] {
			t.Errorf("filled[%d] = %v, want %v", i, filled[i], want[i])
		}
	}
	if got := g.String(); got != "121\n002\n212" {
		t.Errorf("after refill:\n%s", got)
	}
}

func TestFrameMirrorsGrid(t *testing.T) {
	g := mustParse(t, "01", ".2")
	f := g.Frame()
	if f.Rows != 2 || f.Cols != 2 {
		t.Fatalf("frame dims = %dx%d", f.Rows, f.Cols)
	}
	if f.At(0, 1) != 1 || f.At(1, 0) != core.EmptyCell {
		t.Errorf("frame cells = %v", f.Cells)
	}
}
