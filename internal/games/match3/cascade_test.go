package match3

import (
	"strings"
	"testing"

	"github.com/vovakirdan/playtest-arcade/internal/core"
)

func TestResolveIntersection(t *testing.T) {
	g := mustParse(t,
		"000",
		"012",
		"021",
	)
	r := Resolver{Colors: 3, MinMatch: 3, ScorePerTile: 10, ComboStep: 1, Src: &scriptedSource{vals: []int{1, 2, 1, 0, 0}}}

	c := r.Resolve(g, FindMatches(g, 3), 1)
	if c.Points != 60 {
		t.Errorf("Points = %g, want 60 (shared corner scores twice)", c.Points)
	}
	if len(c.Steps) != 1 {
		t.Fatalf("steps = %d, want 1", len(c.Steps))
	}
	if got := len(c.Steps[0].Cleared); got != 5 {
		t.Errorf("cleared %d cells, want 5", got)
	}
	if got, want := g.String(), "100\n212\n121"; got != want {
		t.Errorf("grid after resolve:\n%s\nwant:\n%s", got, want)
	}
}

func TestResolveEventsOrder(t *testing.T) {
	g := mustParse(t,
		"000",
		"012",
		"021",
	)
	r := Resolver{Colors: 3, MinMatch: 3, ScorePerTile: 10, ComboStep: 1, Src: &scriptedSource{vals: []int{1, 2, 1, 0, 0}}}
	c := r.Resolve(g, FindMatches(g, 3), 1)

	want := []core.EventKind{core.EventMatch, core.EventClear, core.EventGravity, core.EventRefill}
	if len(c.Events) != len(want) {
		t.Fatalf("got %d events, want %d", len(c.Events), len(want))
	}
	for i, k := range want {
		if c.Events[i].Kind != k {
			t.Errorf("event %d = %s, want %s", i, c.Events[i].Kind, k)
		}
	}
	cleared := c.Events[1].Frame
	if cleared.At(0, 0) != core.EmptyCell || cleared.At(1, 1) != 1 {
		t.Errorf("clear frame = %v", cleared.Cells)
	}
}

func TestResolveComboChain(t *testing.T) {
	g := diagonalGrid(8, 8)
	g.Set(core.P(0, 0), 2)
	g.Set(core.P(0, 2), 1)
	g.Swap(core.P(0, 3), core.P(1, 3))

	r := Resolver{Colors: 3, MinMatch: 3, ScorePerTile: 10, ComboStep: 1, Src: &scriptedSource{vals: []int{0, 0, 0, 1, 0, 0, 1}}}
	c := r.Resolve(g, FindMatches(g, 3), 1)

	if len(c.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(c.Steps))
	}
	if c.Steps[0].Combo != 1 || c.Steps[0].Points != 40 {
		t.Errorf("first pass = combo %d points %g, want 1/40", c.Steps[0].Combo, c.Steps[0].Points)
	}
	if c.Steps[1].Combo != 2 || c.Steps[1].Points != 60 {
		t.Errorf("second pass = combo %d points %g, want 2/60", c.Steps[1].Combo, c.Steps[1].Points)
	}
	if c.Points != 100 || c.Combo != 2 {
		t.Errorf("cascade = %g points at x%d, want 100 at x2", c.Points, c.Combo)
	}
	if m := FindMatches(g, 3); len(m) != 0 {
		t.Errorf("grid not settled:\n%s", g)
	}
}

func TestResolveComboStep(t *testing.T) {
	g := diagonalGrid(8, 8)
	g.Set(core.P(0, 0), 2)
	g.Set(core.P(0, 2), 1)
	g.Swap(core.P(0, 3), core.P(1, 3))

	r := Resolver{Colors: 3, MinMatch: 3, ScorePerTile: 10, ComboStep: 2, Src: &scriptedSource{vals: []int{0, 0, 0, 1, 0, 0, 1}}}
	c := r.Resolve(g, FindMatches(g, 3), 1)
	if c.Points != 40+90 {
		t.Errorf("Points = %g, want 130 with combo step 2", c.Points)
	}
}

// fixedSource ignores the bound and always returns v.
type fixedSource struct{ v int }

func (s fixedSource) Intn(int) int { return s.v }

func TestResolveInvariantPanics(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		want string
	}{
		{"refill outside palette", fixedSource{v: 7}, "source returned 7 outside palette of 3"},
		{"negative refill", fixedSource{v: -1}, "source returned -1 outside palette of 3"},
		{"chain never settles", fixedSource{v: 0}, "cascade exceeded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := mustParse(t,
				"000",
				"012",
				"021",
			)
			r := Resolver{Colors: 3, MinMatch: 3, ScorePerTile: 10, ComboStep: 1, Src: tc.src}

			defer func() {
				v := recover()
				msg, ok := v.(string)
				if !ok {
					t.Fatalf("recovered %v, want an invariant message", v)
				}
				if !strings.HasPrefix(msg, "match3: invariant violated: ") || !strings.Contains(msg, tc.want) {
					t.Errorf("panic = %q, want it to mention %q", msg, tc.want)
				}
			}()
			r.Resolve(g, FindMatches(g, 3), 1)
		})
	}
}

func TestInvariantfPrefix(t *testing.T) {
	got := invariantf("move %s is not adjacent", Move{A: core.P(0, 0), B: core.P(2, 2)})
	if !strings.HasPrefix(got, "match3: invariant violated: move ") {
		t.Errorf("invariantf() = %q", got)
	}
}
