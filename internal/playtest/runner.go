// Package playtest drives a scripted player through a level: it creates
// the level's simulator, steps it to termination, classifies the outcome
// and records the run.
package playtest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/playtest-arcade/internal/balance"
	"github.com/vovakirdan/playtest-arcade/internal/config"
	"github.com/vovakirdan/playtest-arcade/internal/core"
	"github.com/vovakirdan/playtest-arcade/internal/registry"
	"github.com/vovakirdan/playtest-arcade/internal/storage"
)

// DefaultMaxTurns caps a single run. Reshuffles count as turns.
const DefaultMaxTurns = 100000

// RunSaver persists finished runs. *storage.Store implements it.
type RunSaver interface {
	SaveRun(r storage.Run) (string, error)
}

// Runner plays levels to completion.
type Runner struct {
	Store    RunSaver                 // optional
	Logger   *log.Logger              // optional; discards output when nil
	OnStart  func(registry.Simulator) // optional; called before the first turn
	OnTurn   func(core.StepResult)    // optional; called after every turn
	MaxTurns int                      // 0 means DefaultMaxTurns
}

// Report is the outcome of one run.
type Report struct {
	RunID      string          `json:"run_id,omitempty"`
	LevelID    string          `json:"level_id"`
	Difficulty string          `json:"difficulty"`
	Seed       int64           `json:"seed"`
	State      core.SimState   `json:"state"`
	Turns      int             `json:"turns"`
	Reshuffles int             `json:"reshuffles"`
	MaxCombo   int             `json:"max_combo"`
	Verdict    balance.Verdict `json:"verdict"`
	Duration   time.Duration   `json:"duration"`
}

// BatchReport holds the reports of several seeds of one level.
type BatchReport struct {
	Reports []Report        `json:"reports"`
	Summary balance.Summary `json:"summary"`
}

// Seeds returns n consecutive seeds starting at base.
func Seeds(base int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = base + int64(i)
	}
	return seeds
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		r.Logger = log.New(io.Discard)
	}
	return r.Logger
}

// Run plays lvl with the given seed until the simulator terminates.
// The context is checked between turns.
func (r *Runner) Run(ctx context.Context, lvl config.Level, seed int64) (Report, error) {
	logger := r.logger().With("level_id", lvl.ID, "seed", seed)

	sim, err := registry.Create(lvl, seed)
	if err != nil {
		return Report{}, err
	}

	maxTurns := r.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	logger.Info("run started", "kind", lvl.Kind, "difficulty", lvl.Difficulty)
	start := time.Now()
	if r.OnStart != nil {
		r.OnStart(sim)
	}

	rep := Report{
		LevelID:    lvl.ID,
		Difficulty: string(lvl.Difficulty),
		Seed:       seed,
		MaxCombo:   1,
	}

	for !sim.State().Terminal {
		if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("level %s interrupted after %d turns: %w", lvl.ID, rep.Turns, err)
		}
		if rep.Turns >= maxTurns {
			return rep, fmt.Errorf("level %s did not terminate after %d turns", lvl.ID, maxTurns)
		}

		res := sim.Step()
		rep.Turns++
		rep.MaxCombo = max(rep.MaxCombo, res.State.Combo)
		if reshuffled(res.Events) {
			rep.Reshuffles++
			logger.Debug("reshuffle", "turn", rep.Turns)
		} else {
			logger.Debug("turn", "turn", rep.Turns, "score", res.State.Score, "moves", res.State.MovesUsed, "combo", res.State.Combo)
		}

		if r.OnTurn != nil {
			r.OnTurn(res)
		}
	}

	rep.State = sim.State()
	rep.Duration = time.Since(start)
	rep.Verdict = balance.Classify(balance.Stats{
		Result:      rep.State.Result,
		MovesUsed:   rep.State.MovesUsed,
		MovesLimit:  rep.State.MovesLimit,
		Score:       rep.State.Score,
		TargetScore: rep.State.TargetScore,
		Difficulty:  lvl.Difficulty,
	})

	if r.Store != nil {
		id, err := r.Store.SaveRun(rep.toRun(lvl.Kind))
		if err != nil {
			return rep, err
		}
		rep.RunID = id
	}

	logger.Info("run finished",
		"result", rep.State.Result,
		"score", rep.State.Score,
		"moves", rep.State.MovesUsed,
		"balanced", rep.Verdict.Balanced,
		"feedback", rep.Verdict.Feedback,
	)
	return rep, nil
}

// RunBatch plays lvl once per seed, sequentially, and aggregates verdicts.
// It stops at the first error and returns the reports collected so far.
func (r *Runner) RunBatch(ctx context.Context, lvl config.Level, seeds []int64) (BatchReport, error) {
	var batch BatchReport
	verdicts := make([]balance.Verdict, 0, len(seeds))
	for _, seed := range seeds {
		rep, err := r.Run(ctx, lvl, seed)
		if err != nil {
			batch.Summary = balance.Aggregate(verdicts)
			return batch, err
		}
		batch.Reports = append(batch.Reports, rep)
		verdicts = append(verdicts, rep.Verdict)
	}
	batch.Summary = balance.Aggregate(verdicts)
	r.logger().Info("batch finished", "level_id", lvl.ID, "summary", batch.Summary.String())
	return batch, nil
}

func reshuffled(events []core.Event) bool {
	for _, e := range events {
		if e.Kind == core.EventReshuffle {
			return true
		}
	}
	return false
}

func (rep Report) toRun(kind string) storage.Run {
	return storage.Run{
		LevelID:     rep.LevelID,
		Kind:        kind,
		Difficulty:  rep.Difficulty,
		Seed:        rep.Seed,
		Result:      string(rep.State.Result),
		Score:       rep.State.Score,
		TargetScore: rep.State.TargetScore,
		MovesUsed:   rep.State.MovesUsed,
		MovesLimit:  rep.State.MovesLimit,
		Turns:       rep.Turns,
		Reshuffles:  rep.Reshuffles,
		MaxCombo:    rep.MaxCombo,
		Balanced:    rep.Verdict.Balanced,
		Feedback:    rep.Verdict.Feedback,
	}
}
