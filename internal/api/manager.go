package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/playtest-arcade/internal/balance"
	"github.com/vovakirdan/playtest-arcade/internal/config"
	"github.com/vovakirdan/playtest-arcade/internal/games/match3"
	"github.com/vovakirdan/playtest-arcade/internal/storage"
)

// Handle is a live simulation owned by the API. Each handle serializes
// its own steps; different handles run independently.
type Handle struct {
	ID         string
	LevelID    string
	Difficulty config.Difficulty
	Seed       int64
	CreatedAt  time.Time

	mu         sync.Mutex
	lastUsed   time.Time
	clock      func() time.Time
	sim        *match3.Simulation
	turns      int
	reshuffles int
	maxCombo   int
	verdict    *balance.Verdict
}

// Step plays one turn. finished is true only for the turn that ended the
// simulation; from then on the verdict accompanies every response.
func (h *Handle) Step() (resp StepResponse, finished bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastUsed = h.clock()

	terminalBefore := h.sim.Terminal()
	turn := h.sim.Step()
	if !terminalBefore {
		h.turns++
		if turn.Reshuffled {
			h.reshuffles++
		}
		h.maxCombo = max(h.maxCombo, turn.Combo)
	}
	if turn.Terminal && h.verdict == nil {
		v := h.classify()
		h.verdict = &v
		finished = true
	}
	return StepResponse{Turn: turn, Snapshot: h.sim.Snapshot(), Verdict: h.verdict}, finished
}

// Snapshot returns the current engine snapshot and verdict, if any.
func (h *Handle) Snapshot() (match3.Snapshot, *balance.Verdict) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastUsed = h.clock()
	return h.sim.Snapshot(), h.verdict
}

func (h *Handle) classify() balance.Verdict {
	st := h.sim.State()
	return balance.Classify(balance.Stats{
		Result:      st.Result,
		MovesUsed:   st.MovesUsed,
		MovesLimit:  st.MovesLimit,
		Score:       st.Score,
		TargetScore: st.TargetScore,
		Difficulty:  h.Difficulty,
	})
}

// run converts a terminated handle into a storage record.
func (h *Handle) run() storage.Run {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.sim.State()
	r := storage.Run{
		ID:          h.ID,
		LevelID:     h.LevelID,
		Kind:        config.KindMatch3,
		Difficulty:  string(h.Difficulty),
		Seed:        h.Seed,
		Result:      string(st.Result),
		Score:       st.Score,
		TargetScore: st.TargetScore,
		MovesUsed:   st.MovesUsed,
		MovesLimit:  st.MovesLimit,
		Turns:       h.turns,
		Reshuffles:  h.reshuffles,
		MaxCombo:    h.maxCombo,
	}
	if h.verdict != nil {
		r.Balanced = h.verdict.Balanced
		r.Feedback = h.verdict.Feedback
	}
	return r
}

// idleSince returns when the handle was last stepped or read.
func (h *Handle) idleSince() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastUsed
}

// Manager tracks live simulation handles by ID. Handles nobody touches
// for longer than MaxIdle are dropped by Sweep.
type Manager struct {
	MaxIdle time.Duration

	mu      sync.RWMutex
	handles map[string]*Handle
	now     func() time.Time
}

// DefaultMaxIdle is how long an untouched handle survives a sweep.
const DefaultMaxIdle = 15 * time.Minute

// NewManager creates an empty handle manager.
func NewManager() *Manager {
	return &Manager{
		MaxIdle: DefaultMaxIdle,
		handles: make(map[string]*Handle),
		now:     time.Now,
	}
}

// Create validates the settings and registers a new simulation handle.
func (m *Manager) Create(levelID string, d config.Difficulty, s match3.Settings, seed int64) (*Handle, error) {
	sim, err := match3.New(s, match3.NewSource(seed))
	if err != nil {
		return nil, err
	}
	h := &Handle{
		ID:         uuid.NewString(),
		LevelID:    levelID,
		Difficulty: d,
		Seed:       seed,
		CreatedAt:  m.now(),
		lastUsed:   m.now(),
		clock:      m.now,
		sim:        sim,
		maxCombo:   1,
	}
	m.mu.Lock()
	m.handles[h.ID] = h
	m.mu.Unlock()
	return h, nil
}

// Get returns a handle by ID.
func (m *Manager) Get(id string) (*Handle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.handles[id]
	return h, ok
}

// Delete drops a handle. Returns false if it did not exist.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.handles[id]; !ok {
		return false
	}
	delete(m.handles, id)
	return true
}

// Len returns the number of live handles.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handles)
}

// Sweep drops every handle idle for longer than MaxIdle and returns how
// many were dropped. Finished runs are already persisted by then.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.MaxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, h := range m.handles {
		if h.idleSince().Before(cutoff) {
			delete(m.handles, id)
			n++
		}
	}
	return n
}

// CleanupLoop sweeps idle handles every interval until ctx is done.
func (m *Manager) CleanupLoop(ctx context.Context, interval time.Duration, onSweep func(dropped int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
