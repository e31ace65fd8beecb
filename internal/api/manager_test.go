package api

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/playtest-arcade/internal/games/match3"
)

// fakeClock is a manually advanced time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(clock *fakeClock, maxIdle time.Duration) *Manager {
	m := NewManager()
	m.MaxIdle = maxIdle
	m.now = clock.Now
	return m
}

func TestManagerSweep(t *testing.T) {
	s := match3.DefaultSettings(5, 500, 10)

	tests := []struct {
		name    string
		idle    time.Duration
		touch   bool
		dropped int
	}{
		{"fresh handle kept", time.Minute, false, 0},
		{"idle handle dropped", 11 * time.Minute, false, 1},
		{"recent step keeps handle", 11 * time.Minute, true, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
			m := newTestManager(clock, 10*time.Minute)

			h, err := m.Create("m3-01", "", s, 1)
			if err != nil {
				t.Fatalf("Create() failed: %v", err)
			}
			clock.Advance(tc.idle)
			if tc.touch {
				h.Step()
			}

			if got := m.Sweep(); got != tc.dropped {
				t.Errorf("Sweep() = %d, want %d", got, tc.dropped)
			}
			_, ok := m.Get(h.ID)
			if ok == (tc.dropped == 1) {
				t.Errorf("Get() ok = %v after sweeping %d", ok, tc.dropped)
			}
		})
	}
}

func TestManagerSweepFinishedHandles(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(clock, time.Minute)

	s := match3.DefaultSettings(5, 1e9, 1)
	for i := 0; i < 5; i++ {
		h, err := m.Create("m3-01", "", s, int64(i))
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		for !h.sim.Terminal() {
			h.Step()
		}
	}
	if m.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", m.Len())
	}

	clock.Advance(2 * time.Minute)
	if got := m.Sweep(); got != 5 {
		t.Errorf("Sweep() = %d, want 5", got)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after sweep", m.Len())
	}
}

func TestCleanupLoopStopsWithContext(t *testing.T) {
	m := NewManager()
	m.MaxIdle = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.CleanupLoop(ctx, time.Millisecond, nil)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("CleanupLoop did not return after cancel")
	}
}
