// Package registry provides a global registry for level simulators.
// Simulators register themselves in init() functions keyed by level kind,
// allowing the orchestrator, the API and the viewer to run any level
// without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/playtest-arcade/internal/config"
	"github.com/vovakirdan/playtest-arcade/internal/core"
)

// Simulator is the contract every level kind implements.
// Simulators contain pure logic with no I/O and no Bubble Tea.
// The platform handles pacing, persistence and rendering.
type Simulator interface {
	// Kind returns the level kind this simulator plays (e.g., "match3").
	Kind() string

	// Title returns a human-readable name for display.
	Title() string

	// Step performs one complete logical turn of the scripted player.
	// After the simulation terminates, Step repeats the final state.
	Step() core.StepResult

	// Render draws the current board and HUD into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current simulation state.
	State() core.SimState
}

// KindInfo contains metadata about a registered level kind.
type KindInfo struct {
	Kind  string
	Title string
}

// Factory creates a simulator for a level. Invalid level settings are
// reported as errors.
type Factory func(lvl config.Level, seed int64) (Simulator, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a simulator factory to the registry.
// Typically called from a simulator package's init() function.
// Panics if the kind is already registered.
func Register(kind, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("registry: level kind %q already registered", kind))
	}

	factories[kind] = f
	titles[kind] = title
}

// List returns information about all registered kinds, sorted by kind.
func List() []KindInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]KindInfo, 0, len(factories))
	for kind := range factories {
		result = append(result, KindInfo{
			Kind:  kind,
			Title: titles[kind],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})

	return result
}

// Create instantiates a simulator for the level's kind.
// Returns an error if the kind is not registered or the level is invalid.
func Create(lvl config.Level, seed int64) (Simulator, error) {
	mu.RLock()
	f, ok := factories[lvl.Kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown level kind %q", lvl.Kind)
	}

	sim, err := f(lvl, seed)
	if err != nil {
		return nil, fmt.Errorf("registry: level %s: %w", lvl.ID, err)
	}
	return sim, nil
}

// Exists checks if a simulator for the given kind is registered.
func Exists(kind string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[kind]
	return ok
}
