package match3

import "github.com/vovakirdan/playtest-arcade/internal/core"

// maxCascadeSteps bounds a single chain. Refills are random, so a chain
// of this length means the loop is broken rather than unlucky.
const maxCascadeSteps = 10000

// CascadeStep records one removal pass of a chain.
type CascadeStep struct {
	Combo    int        `json:"combo"`
	Matches  []Match    `json:"matches"`
	Cleared  []core.Pos `json:"cleared"`
	Points   float64    `json:"points"`
	Refilled []core.Pos `json:"refilled"`
}

// Cascade is the full record of a resolved chain.
type Cascade struct {
	Steps  []CascadeStep
	Points float64
	Combo  int // multiplier of the last pass
	Events []core.Event
}

// Resolver clears matches, applies gravity and refills until the grid
// settles.
type Resolver struct {
	Colors       int
	MinMatch     int
	ScorePerTile float64
	ComboStep    int
	Src          Source
}

// NewResolver builds a resolver for the given settings.
func NewResolver(s Settings, src Source) Resolver {
	return Resolver{
		Colors:       s.Colors,
		MinMatch:     s.MinMatch,
		ScorePerTile: s.ScorePerTile,
		ComboStep:    s.ComboStep,
		Src:          src,
	}
}

// Points scores one pass: every match contributes its length times the
// per-tile value times the combo multiplier.
func (r Resolver) Points(matches []Match, combo int) float64 {
	var pts float64
	for _, m := range matches {
		pts += float64(m.Len()) * r.ScorePerTile * float64(combo)
	}
	return pts
}

// Resolve runs the chain starting from matches at the given multiplier.
// Each pass that finds new matches after a refill raises the multiplier
// by ComboStep.
func (r Resolver) Resolve(g *Grid, matches []Match, combo int) Cascade {
	out := Cascade{Combo: combo}
	for len(matches) > 0 {
		if len(out.Steps) >= maxCascadeSteps {
			panic(invariantf("cascade exceeded %d steps", maxCascadeSteps))
		}
		if len(out.Steps) > 0 {
			out.Events = append(out.Events, core.Event{Kind: core.EventCombo, Combo: combo, Frame: g.Frame()})
		}

		step := CascadeStep{
			Combo:   combo,
			Matches: matches,
			Cleared: matchedCells(matches),
			Points:  r.Points(matches, combo),
		}
		out.Events = append(out.Events, core.Event{
			Kind:   core.EventMatch,
			Cells:  step.Cleared,
			Combo:  combo,
			Points: step.Points,
			Frame:  g.Frame(),
		})

		for _, p := range step.Cleared {
			g.Set(p, Empty)
		}
		out.Events = append(out.Events, core.Event{Kind: core.EventClear, Cells: step.Cleared, Frame: g.Frame()})

		moved := g.collapse()
		out.Events = append(out.Events, core.Event{Kind: core.EventGravity, Cells: moved, Frame: g.Frame()})

		step.Refilled = g.refill(r.Colors, r.Src)
		out.Events = append(out.Events, core.Event{Kind: core.EventRefill, Cells: step.Refilled, Frame: g.Frame()})

		if !g.Full() {
			panic(invariantf("grid has empty cells after refill"))
		}

		out.Steps = append(out.Steps, step)
		out.Points += step.Points
		out.Combo = combo

		matches = FindMatches(g, r.MinMatch)
		if len(matches) > 0 {
			combo += r.ComboStep
		}
	}
	return out
}
