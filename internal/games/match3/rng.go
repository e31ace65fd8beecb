package match3

import "math/rand"

// Source supplies the randomness used for initial fills, refills and
// reshuffles. *rand.Rand satisfies it; tests inject scripted sources.
type Source interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// NewSource returns a seeded generator for deterministic replays.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}
