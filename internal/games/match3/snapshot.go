package match3

import "github.com/vovakirdan/playtest-arcade/internal/core"

// Snapshot captures the complete simulation state for determinism testing
// and for clients of the HTTP API.
type Snapshot struct {
	Board       core.Frame  `json:"board"`
	Score       float64     `json:"score"`
	TargetScore float64     `json:"target_score"`
	MovesUsed   int         `json:"moves_used"`
	MovesLimit  int         `json:"moves_limit"`
	Combo       int         `json:"combo"`
	Reshuffles  int         `json:"reshuffles"`
	Phase       Phase       `json:"phase"`
	Result      core.Result `json:"result,omitempty"`
}

// Snapshot returns the current simulation snapshot.
func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		Board:       s.grid.Frame(),
		Score:       s.score,
		TargetScore: s.settings.TargetScore,
		MovesUsed:   s.movesUsed,
		MovesLimit:  s.settings.MovesLimit,
		Combo:       s.combo,
		Reshuffles:  s.reshuffles,
		Phase:       s.phase,
		Result:      s.result,
	}
}
