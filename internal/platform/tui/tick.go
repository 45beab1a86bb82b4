// Package tui hosts the crossing game in a Bubble Tea program. It owns
// the fixed-rate tick loop, key mapping, the variant menu, scoreboards
// and the SSH server that serves all of it to remote players.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd schedules the next simulation tick at the given rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
