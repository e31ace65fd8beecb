package match3

import (
	"fmt"

	"github.com/vovakirdan/playtest-arcade/internal/core"
)

// Phase is the turn orchestrator state.
type Phase string

const (
	PhaseAwaitingMove Phase = "awaiting_move"
	PhaseSwapping     Phase = "swapping"
	PhaseResolving    Phase = "resolving"
	PhaseTerminated   Phase = "terminated"
)

// maxReshuffleStreak is the number of consecutive reshuffles without a
// legal move after which the grid is regenerated with fresh colors. Small
// palettes can lock a permutation class into dead positions.
const maxReshuffleStreak = 100

// TurnOutcome is the record of one Step. A reshuffle is reported as its
// own outcome with no swap and no move consumed.
type TurnOutcome struct {
	Swap           *Move         `json:"swap,omitempty"`
	Reshuffled     bool          `json:"reshuffled,omitempty"`
	Regenerated    bool          `json:"regenerated,omitempty"`
	Matches        []Match       `json:"matches,omitempty"`
	CascadeSteps   []CascadeStep `json:"cascade_steps,omitempty"`
	PointsAwarded  float64       `json:"points_awarded"`
	Combo          int           `json:"combo"`
	MovesUsedAfter int           `json:"moves_used_after"`
	Terminal       bool          `json:"terminal"`
	FinalResult    core.Result   `json:"final_result,omitempty"`
	Events         []core.Event  `json:"events,omitempty"`
}

// Simulation owns a grid and drives it one turn at a time. It is not safe
// for concurrent use.
type Simulation struct {
	settings Settings
	grid     *Grid
	src      Source
	resolver Resolver

	score      float64
	movesUsed  int
	combo      int
	phase      Phase
	result     core.Result
	reshuffles int
	streak     int // consecutive reshuffles without a legal move
}

// Start begins an 8×8 simulation with default scoring.
func Start(paletteSize int, targetScore float64, movesLimit int, seed int64) (*Simulation, error) {
	return New(DefaultSettings(paletteSize, targetScore, movesLimit), NewSource(seed))
}

// New validates the settings and starts a simulation on a fresh grid.
func New(s Settings, src Source) (*Simulation, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	g := Initialize(s.Rows, s.Cols, s.Colors, s.MinMatch, src)
	return newSimulation(s, g, src), nil
}

// NewWithGrid starts a simulation on a prepared grid. The grid must match
// the settings, be full, use only palette colors and hold no matches.
func NewWithGrid(s Settings, g *Grid, src Source) (*Simulation, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if g.Rows() != s.Rows || g.Cols() != s.Cols {
		return nil, ValidationError{
			Code:    "INVALID_GRID",
			Message: fmt.Sprintf("grid is %dx%d, settings want %dx%d", g.Rows(), g.Cols(), s.Rows, s.Cols),
		}
	}
	for _, c := range g.cells {
		if c == Empty || int(c) >= s.Colors {
			return nil, ValidationError{
				Code:    "INVALID_GRID",
				Message: fmt.Sprintf("grid holds %d outside palette of %d", c, s.Colors),
			}
		}
	}
	if m := FindMatches(g, s.MinMatch); len(m) > 0 {
		return nil, ValidationError{
			Code:    "INVALID_GRID",
			Message: fmt.Sprintf("grid starts with %d matches", len(m)),
		}
	}
	return newSimulation(s, g.Clone(), src), nil
}

func newSimulation(s Settings, g *Grid, src Source) *Simulation {
	return &Simulation{
		settings: s,
		grid:     g,
		src:      src,
		resolver: NewResolver(s, src),
		combo:    1,
		phase:    PhaseAwaitingMove,
	}
}

// Step performs one complete logical turn. After termination it is a no-op
// that repeats the final state.
func (s *Simulation) Step() TurnOutcome {
	if s.phase == PhaseTerminated {
		return s.outcome(TurnOutcome{})
	}

	s.combo = 1
	move, ok := FindBestMove(s.grid, s.settings.MinMatch)
	if !ok {
		return s.outcome(s.reshuffle())
	}
	s.streak = 0
	if !move.A.Adjacent(move.B) {
		panic(invariantf("move %s selected by policy is not adjacent", move))
	}

	s.phase = PhaseSwapping
	s.grid.Swap(move.A, move.B)
	turn := TurnOutcome{
		Swap: &move,
		Events: []core.Event{{
			Kind:  core.EventSwap,
			Cells: []core.Pos{move.A, move.B},
			Frame: s.grid.Frame(),
		}},
	}

	s.phase = PhaseResolving
	matches := FindMatches(s.grid, s.settings.MinMatch)
	if len(matches) == 0 {
		s.grid.Swap(move.A, move.B)
		s.phase = PhaseAwaitingMove
		panic(invariantf("move %s selected by policy produced no match", move))
	}

	cascade := s.resolver.Resolve(s.grid, matches, s.combo)
	s.score += cascade.Points
	s.movesUsed++
	s.combo = cascade.Combo

	turn.Matches = matches
	turn.CascadeSteps = cascade.Steps
	turn.PointsAwarded = cascade.Points
	turn.Events = append(turn.Events, cascade.Events...)

	s.checkTermination()
	return s.outcome(turn)
}

// reshuffle permutes the grid and restores the no-match guarantee. A long
// run of dead permutations regenerates the colors instead.
func (s *Simulation) reshuffle() TurnOutcome {
	s.streak++
	s.reshuffles++
	turn := TurnOutcome{Reshuffled: true}
	if s.streak >= maxReshuffleStreak {
		s.grid.Randomize(s.settings.Colors, s.src)
		s.streak = 0
		turn.Regenerated = true
	} else {
		s.grid.Shuffle(s.src)
	}
	s.grid.Stabilize(s.settings.Colors, s.settings.MinMatch, s.src)
	turn.Events = []core.Event{{Kind: core.EventReshuffle, Frame: s.grid.Frame()}}
	return turn
}

func (s *Simulation) checkTermination() {
	switch {
	case s.score >= s.settings.TargetScore:
		s.result = core.ResultSuccess
	case s.movesUsed >= s.settings.MovesLimit:
		s.result = core.ResultMovesDepleted
	default:
		s.phase = PhaseAwaitingMove
		return
	}
	s.phase = PhaseTerminated
}

func (s *Simulation) outcome(t TurnOutcome) TurnOutcome {
	t.Combo = s.combo
	t.MovesUsedAfter = s.movesUsed
	t.Terminal = s.phase == PhaseTerminated
	t.FinalResult = s.result
	return t
}

// Settings returns the validated level settings.
func (s *Simulation) Settings() Settings { return s.settings }

// Grid returns a copy of the current grid.
func (s *Simulation) Grid() *Grid { return s.grid.Clone() }

// Score returns the accumulated score.
func (s *Simulation) Score() float64 { return s.score }

// MovesUsed returns the number of resolved turns.
func (s *Simulation) MovesUsed() int { return s.movesUsed }

// Combo returns the multiplier reached by the last turn.
func (s *Simulation) Combo() int { return s.combo }

// Phase returns the orchestrator state.
func (s *Simulation) Phase() Phase { return s.phase }

// Terminal reports whether the simulation has ended.
func (s *Simulation) Terminal() bool { return s.phase == PhaseTerminated }

// Result returns the final result, or ResultNone while running.
func (s *Simulation) Result() core.Result { return s.result }

// Reshuffles returns how many times the grid was reshuffled.
func (s *Simulation) Reshuffles() int { return s.reshuffles }

// State returns the externally visible simulation state.
func (s *Simulation) State() core.SimState {
	return core.SimState{
		Score:       s.score,
		TargetScore: s.settings.TargetScore,
		MovesUsed:   s.movesUsed,
		MovesLimit:  s.settings.MovesLimit,
		Combo:       s.combo,
		Terminal:    s.Terminal(),
		Result:      s.result,
	}
}
