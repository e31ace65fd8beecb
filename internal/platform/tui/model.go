package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/playtest-arcade/internal/config"
	"github.com/vovakirdan/playtest-arcade/internal/core"
	"github.com/vovakirdan/playtest-arcade/internal/games/match3"
	"github.com/vovakirdan/playtest-arcade/internal/playtest"
	"github.com/vovakirdan/playtest-arcade/internal/registry"
)

const (
	minFPS       = 1
	maxFPS       = 60
	footerHeight = 2 // caption + help
)

var (
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// replayFrame is one picture of the replay: a board, the cells to
// highlight on it and the HUD state shown next to it.
type replayFrame struct {
	board     core.Frame
	highlight []core.Pos
	state     core.SimState
	caption   string
}

type boardSnapshotter interface {
	Snapshot() match3.Snapshot
}

// record plays lvl to completion through runner and turns every event of
// every turn into a frame.
func record(ctx context.Context, runner playtest.Runner, lvl config.Level, seed int64) ([]replayFrame, playtest.Report, error) {
	var (
		frames []replayFrame
		prev   core.SimState
	)

	runner.OnStart = func(sim registry.Simulator) {
		prev = sim.State()
		fr := replayFrame{state: prev, caption: "start"}
		if bs, ok := sim.(boardSnapshotter); ok {
			fr.board = bs.Snapshot().Board
		}
		frames = append(frames, fr)
	}
	runner.OnTurn = func(res core.StepResult) {
		frames = append(frames, turnFrames(prev, res)...)
		prev = res.State
	}

	rep, err := runner.Run(ctx, lvl, seed)
	return frames, rep, err
}

// turnFrames expands one turn into frames. The running score grows as
// matches are shown; the last frame carries the authoritative state.
func turnFrames(prev core.SimState, res core.StepResult) []replayFrame {
	if len(res.Events) == 0 {
		return nil
	}

	cur := prev
	out := make([]replayFrame, 0, len(res.Events))
	for _, ev := range res.Events {
		fr := replayFrame{board: ev.Frame}
		switch ev.Kind {
		case core.EventSwap:
			fr.caption = "swap " + joinCells(ev.Cells)
		case core.EventMatch:
			cur.Score += ev.Points
			fr.highlight = ev.Cells
			fr.caption = fmt.Sprintf("match +%g", ev.Points)
		case core.EventCombo:
			cur.Combo = ev.Combo
			fr.caption = fmt.Sprintf("COMBO x%d", ev.Combo)
		case core.EventReshuffle:
			fr.caption = "no moves left: reshuffle"
		default:
			fr.caption = string(ev.Kind)
		}
		if ev.Combo > 0 {
			cur.Combo = ev.Combo
		}
		fr.state = cur
		out = append(out, fr)
	}
	out[len(out)-1].state = res.State
	return out
}

func joinCells(cells []core.Pos) string {
	if len(cells) != 2 {
		return fmt.Sprint(cells)
	}
	return cells[0].String() + "<->" + cells[1].String()
}

// ReplayModel is the Bubble Tea model that animates a scripted run of a
// level. The run is played up front; ticks then walk its frames.
type ReplayModel struct {
	level   config.Level
	seed    int64
	runner  playtest.Runner
	newSeed func() int64

	frames []replayFrame
	report playtest.Report
	err    error
	cursor int

	screen *core.Screen
	fps    int
	paused bool
	keys   ReplayKeyMap
	help   help.Model

	quitting   bool
	backToMenu bool
}

// NewReplayModel records a run of lvl and returns a model that replays
// it. A zero cfg.Seed picks a time-based seed. Records go through
// runner, so a runner with a Store persists every watched run.
func NewReplayModel(lvl config.Level, runner playtest.Runner, cfg core.RuntimeConfig) ReplayModel {
	m := ReplayModel{
		level:   lvl,
		seed:    cfg.Seed,
		runner:  runner,
		newSeed: func() int64 { return time.Now().UnixNano() },
		screen:  core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-footerHeight, 1)),
		fps:     core.Clamp(cfg.TickRate, minFPS, maxFPS),
		keys:    DefaultReplayKeyMap(),
		help:    help.New(),
	}
	if m.seed == 0 {
		m.seed = m.newSeed()
	}
	m.help.Width = cfg.ScreenW
	m.load()
	return m
}

func (m *ReplayModel) load() {
	m.frames, m.report, m.err = record(context.Background(), m.runner, m.level, m.seed)
	m.cursor = 0
}

// Init starts the frame clock.
func (m ReplayModel) Init() tea.Cmd {
	return tickCmd(m.fps)
}

// Update handles messages and updates the model state.
func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-footerHeight, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.paused {
			m.advance()
		}
		return m, tickCmd(m.fps)
	}

	return m, nil
}

func (m ReplayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.backToMenu = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.Step):
		m.paused = true
		m.advance()
	case key.Matches(msg, m.keys.Faster):
		m.fps = min(m.fps*2, maxFPS)
	case key.Matches(msg, m.keys.Slower):
		m.fps = max(m.fps/2, minFPS)
	case key.Matches(msg, m.keys.Restart):
		m.seed = m.newSeed()
		m.load()
	}
	return m, nil
}

func (m *ReplayModel) advance() {
	if m.cursor < len(m.frames)-1 {
		m.cursor++
	}
}

// Done reports whether the last frame is on screen.
func (m ReplayModel) Done() bool {
	return m.err != nil || m.cursor >= len(m.frames)-1
}

// View renders the current frame, a caption line and the help footer.
func (m ReplayModel) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return failureStyle.Render("Error: "+m.err.Error()) + "\n" + m.help.View(m.keys)
	}

	fr := m.frames[m.cursor]
	title := fmt.Sprintf("%s [%s]", m.level.Name, m.level.Difficulty)

	m.screen.Clear()
	match3.RenderState(m.screen, title, fr.state, fr.board, fr.highlight)

	return RenderScreen(m.screen) + "\n" + m.caption(fr) + "\n" + m.help.View(m.keys)
}

func (m ReplayModel) caption(fr replayFrame) string {
	status := dimStyle.Render(fmt.Sprintf("  seed %d  %d fps  frame %d/%d", m.seed, m.fps, m.cursor+1, len(m.frames)))
	if m.paused {
		status += dimStyle.Render("  paused")
	}
	if !m.Done() {
		return captionStyle.Render(fr.caption) + status
	}

	v := m.report.Verdict
	style := failureStyle
	if v.Balanced {
		style = successStyle
	}
	return style.Render(v.Feedback) + status
}

// Report returns the recorded run.
func (m ReplayModel) Report() playtest.Report {
	return m.report
}

// Err returns the error that stopped recording, if any.
func (m ReplayModel) Err() error {
	return m.err
}

// IsQuitting returns true if user requested to quit entirely.
func (m ReplayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m ReplayModel) BackToMenu() bool {
	return m.backToMenu
}

// RunReplay starts a Bubble Tea program replaying lvl.
func RunReplay(lvl config.Level, runner playtest.Runner, cfg core.RuntimeConfig) (playtest.Report, error) {
	model := NewReplayModel(lvl, runner, cfg)
	if err := model.Err(); err != nil {
		return playtest.Report{}, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return model.Report(), err
	}
	if rm, ok := final.(ReplayModel); ok {
		return rm.Report(), nil
	}
	return model.Report(), nil
}
