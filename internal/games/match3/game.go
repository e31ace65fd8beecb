// Package match3 implements the match-3 grid engine: the grid model, match
// detection, the scripted player's move policy, cascade resolution and the
// turn orchestrator, plus the registry adapter that exposes a level as a
// Simulator.
package match3

import (
	"github.com/vovakirdan/playtest-arcade/internal/config"
	"github.com/vovakirdan/playtest-arcade/internal/core"
	"github.com/vovakirdan/playtest-arcade/internal/registry"
)

func init() {
	registry.Register(config.KindMatch3, "Match-3", func(lvl config.Level, seed int64) (registry.Simulator, error) {
		return NewGame(lvl, seed)
	})
}

// Game adapts a Simulation to the registry.Simulator interface.
type Game struct {
	level config.Level
	seed  int64
	sim   *Simulation
}

// SettingsFromLevel converts a level's match-3 block to engine settings.
func SettingsFromLevel(ms config.Match3Settings) Settings {
	return Settings{
		Rows:         ms.Rows,
		Cols:         ms.Cols,
		Colors:       ms.TotalColors,
		TargetScore:  ms.TargetScore,
		MovesLimit:   ms.MovesLimit,
		ScorePerTile: ms.ScorePerTile,
		ComboStep:    ms.ComboStep,
		MinMatch:     ms.MinMatch,
	}
}

// NewGame starts a simulation of lvl seeded with seed.
func NewGame(lvl config.Level, seed int64) (*Game, error) {
	sim, err := New(SettingsFromLevel(lvl.Match3), NewSource(seed))
	if err != nil {
		return nil, err
	}
	return &Game{level: lvl, seed: seed, sim: sim}, nil
}

// Kind returns the level kind.
func (g *Game) Kind() string { return config.KindMatch3 }

// Title returns the level name.
func (g *Game) Title() string { return g.level.Name }

// Level returns the level being played.
func (g *Game) Level() config.Level { return g.level }

// Seed returns the seed the simulation was started with.
func (g *Game) Seed() int64 { return g.seed }

// Engine exposes the underlying simulation.
func (g *Game) Engine() *Simulation { return g.sim }

// Step plays one turn. The StepResult Detail is the TurnOutcome.
func (g *Game) Step() core.StepResult {
	turn := g.sim.Step()
	return core.StepResult{
		State:  g.sim.State(),
		Events: turn.Events,
		Detail: turn,
	}
}

// State returns the current simulation state.
func (g *Game) State() core.SimState { return g.sim.State() }

// Snapshot returns the engine snapshot.
func (g *Game) Snapshot() Snapshot { return g.sim.Snapshot() }
