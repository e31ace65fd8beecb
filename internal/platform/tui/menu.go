package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/playtest-arcade/internal/config"
	"github.com/vovakirdan/playtest-arcade/internal/core"
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	levels      []config.Level
	cursor      int
	width       int
	height      int
	config      core.RuntimeConfig
	keys        MenuKeyMap
	help        help.Model
	quitting    bool
	selected    *config.Level
	wantHistory bool
}

// NewMenuModel creates a new menu model over a level pack.
func NewMenuModel(levels []config.Level, cfg core.RuntimeConfig) MenuModel {
	h := help.New()
	h.Width = cfg.ScreenW
	return MenuModel{
		levels: levels,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
		keys:   DefaultMenuKeyMap(),
		help:   h,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
	}

	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.levels)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.levels) > 0 {
			lvl := m.levels[m.cursor]
			m.selected = &lvl
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.History):
		m.wantHistory = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(centerText("P L A Y T E S T", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText("Pick a level to watch the scripted player", m.width))
	b.WriteString("\n\n")

	if len(m.levels) == 0 {
		b.WriteString(centerText("No levels loaded.", m.width))
		b.WriteString("\n")
	}

	for i, lvl := range m.levels {
		s := lvl.Match3
		line := fmt.Sprintf("%-8s %-22s %-6s %dx%d %d colors, %g in %d moves",
			lvl.ID, lvl.Name, lvl.Difficulty, s.Rows, s.Cols, s.TotalColors, s.TargetScore, s.MovesLimit)
		if i == m.cursor {
			b.WriteString(menuCursorStyle.Render(centerText("> "+line, m.width)))
		} else {
			b.WriteString(centerText("  "+line, m.width))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected level, or nil if none selected.
func (m MenuModel) Selected() *config.Level {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user asked for the run history.
func (m MenuModel) WantsHistory() bool {
	return m.wantHistory
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}
