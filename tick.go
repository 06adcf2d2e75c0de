package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// How long footer notes such as "saved map.png" stay visible
const messageTTL = 4 * time.Second

// clearMessageMsg asks the footer to drop the note with the same sequence
// number; newer notes survive older timers.
type clearMessageMsg struct {
	seq int
}

// clearMessageCmd returns a command that sends a clearMessageMsg after the
// note has been shown long enough
func clearMessageCmd(seq int) tea.Cmd {
	return tea.Tick(messageTTL, func(time.Time) tea.Msg {
		return clearMessageMsg{seq: seq}
	})
}
