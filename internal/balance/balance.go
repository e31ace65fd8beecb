// Package balance turns the final statistics of a simulated level into a
// balance verdict with human-readable feedback for the level designer.
package balance

import (
	"fmt"

	"github.com/vovakirdan/playtest-arcade/internal/config"
	"github.com/vovakirdan/playtest-arcade/internal/core"
)

// Stats are the end-of-run numbers the classifier looks at.
type Stats struct {
	Result      core.Result
	MovesUsed   int
	MovesLimit  int
	Score       float64
	TargetScore float64
	Difficulty  config.Difficulty
}

// Verdict is the classifier output for one run.
type Verdict struct {
	Result   core.Result `json:"result"`
	Balanced bool        `json:"balanced"`
	Feedback string      `json:"feedback"`
}

// Window is the acceptable range of moves-used ratios for a successful
// run. NearMiss is the score/target ratio from which running out of moves
// still counts as balanced; zero means never.
type Window struct {
	MinRatio float64
	MaxRatio float64
	NearMiss float64
}

var windows = map[config.Difficulty]Window{
	config.DifficultyEasy:   {MinRatio: 0, MaxRatio: 0.6},
	config.DifficultyNormal: {MinRatio: 0.4, MaxRatio: 0.9},
	config.DifficultyHard:   {MinRatio: 0.7, MaxRatio: 1.0, NearMiss: 0.85},
}

// WindowFor returns the window for a difficulty. Unknown tags use normal.
func WindowFor(d config.Difficulty) Window {
	if w, ok := windows[d]; ok {
		return w
	}
	return windows[config.DifficultyNormal]
}

// Classify is a pure function of its input.
func Classify(s Stats) Verdict {
	w := WindowFor(s.Difficulty)
	v := Verdict{Result: s.Result}

	switch s.Result {
	case core.ResultSuccess:
		ratio := ratio(float64(s.MovesUsed), float64(s.MovesLimit))
		switch {
		case ratio < w.MinRatio:
			v.Feedback = fmt.Sprintf("too easy for %s: target reached after %d of %d moves", s.Difficulty, s.MovesUsed, s.MovesLimit)
		case ratio > w.MaxRatio:
			v.Feedback = fmt.Sprintf("too hard for %s: target reached only after %d of %d moves", s.Difficulty, s.MovesUsed, s.MovesLimit)
		default:
			v.Balanced = true
			v.Feedback = fmt.Sprintf("balanced: target reached after %d of %d moves", s.MovesUsed, s.MovesLimit)
		}

	case core.ResultMovesDepleted:
		progress := ratio(s.Score, s.TargetScore)
		if w.NearMiss > 0 && progress >= w.NearMiss {
			v.Balanced = true
			v.Feedback = fmt.Sprintf("balanced: narrow miss at %.0f%% of target", progress*100)
		} else {
			v.Feedback = fmt.Sprintf("too hard for %s: moves ran out at %.0f%% of target", s.Difficulty, progress*100)
		}

	default:
		v.Feedback = "run did not finish"
	}
	return v
}

func ratio(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}

// Summary aggregates the verdicts of a batch of runs.
type Summary struct {
	Runs          int     `json:"runs"`
	Balanced      int     `json:"balanced"`
	Successes     int     `json:"successes"`
	BalancedShare float64 `json:"balanced_share"`
	SuccessShare  float64 `json:"success_share"`
}

// Aggregate summarizes a batch. An empty batch yields a zero Summary.
func Aggregate(verdicts []Verdict) Summary {
	s := Summary{Runs: len(verdicts)}
	for _, v := range verdicts {
		if v.Balanced {
			s.Balanced++
		}
		if v.Result == core.ResultSuccess {
			s.Successes++
		}
	}
	if s.Runs > 0 {
		s.BalancedShare = float64(s.Balanced) / float64(s.Runs)
		s.SuccessShare = float64(s.Successes) / float64(s.Runs)
	}
	return s
}

// String renders the summary for CLI output.
func (s Summary) String() string {
	return fmt.Sprintf("%d runs: %d balanced (%.0f%%), %d successes (%.0f%%)",
		s.Runs, s.Balanced, s.BalancedShare*100, s.Successes, s.SuccessShare*100)
}
