// Package tui is the terminal client of the duel: a Bubble Tea view of the
// shared host, served locally or over SSH via Wish.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// flashMsg advances the cue flash by one frame.
type flashMsg struct{}

// flashTick schedules the next flash frame. It only runs while a cue is
// flashing; host events drive every other redraw.
func flashTick() tea.Cmd {
	return tea.Tick(time.Second/flashRate, func(time.Time) tea.Msg {
		return flashMsg{}
	})
}
