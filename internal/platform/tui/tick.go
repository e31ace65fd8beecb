// Package tui is the Bubble Tea front end of the playtest platform: a
// replay viewer that animates a scripted run turn by turn, a level picker,
// a run history table and a Wish SSH server that serves all three.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg advances the replay by one frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends one TickMsg after 1/fps.
func tickCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 1
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
