package core

// RuntimeConfig contains configuration passed to simulators and viewers.
// Simulators only read Seed; the screen fields and TickRate pace replays.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Replay frames per second
	Seed     int64 // RNG seed for deterministic simulation
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 8,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Result is the terminal outcome of a level simulation.
type Result string

const (
	ResultNone          Result = ""
	ResultSuccess       Result = "SUCCESS"
	ResultMovesDepleted Result = "MOVES_DEPLETED"
)

// SimState is the externally visible state of a level simulation.
type SimState struct {
	Score       float64
	TargetScore float64
	MovesUsed   int
	MovesLimit  int
	Combo       int // Multiplier reached by the last turn
	Terminal    bool
	Result      Result // Set only when Terminal is true
}

// StepResult is returned by Simulator.Step() after each logical turn.
type StepResult struct {
	State  SimState
	Events []Event

	// Detail holds the simulator-specific turn record (for match-3 levels
	// a match3.TurnOutcome).
	Detail any
}
