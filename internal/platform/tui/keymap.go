package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-duel/internal/core"
)

// DuelKeyMap defines the key bindings of the duel view.
type DuelKeyMap struct {
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding
	Aim   key.Binding
	Fire  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k DuelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Aim, k.Fire, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k DuelKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Aim, k.Fire},
		{k.Help, k.Quit},
	}
}

// DefaultDuelKeyMap returns default key bindings.
func DefaultDuelKeyMap() DuelKeyMap {
	return DuelKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "strafe / aim left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "strafe / aim right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "aim up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "aim down"),
		),
		Aim: key.NewBinding(
			key.WithKeys("tab", "e"),
			key.WithHelp("tab", "toggle aim"),
		),
		Fire: key.NewBinding(
			key.WithKeys(" ", "enter", "f"),
			key.WithHelp("space", "fire"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to duel actions.
// Terminals report presses, not holds, so aiming is a toggle: while it is
// on, arrow presses carry ActionAim and steer instead of strafing.
type KeyMapper struct {
	keys    DuelKeyMap
	aimMode bool
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultDuelKeyMap()}
}

// Keys returns the bindings, for help rendering.
func (km *KeyMapper) Keys() DuelKeyMap {
	return km.keys
}

// AimMode reports whether arrows currently steer the aim.
func (km *KeyMapper) AimMode() bool {
	return km.aimMode
}

// MapKey returns the single action a key press triggers.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, km.keys.Quit):
		return core.ActionQuit
	case key.Matches(msg, km.keys.Fire):
		return core.ActionFire
	case key.Matches(msg, km.keys.Aim):
		return core.ActionAim
	case key.Matches(msg, km.keys.Help):
		return core.ActionHelp
	case key.Matches(msg, km.keys.Left):
		return core.ActionLeft
	case key.Matches(msg, km.keys.Right):
		return core.ActionRight
	case key.Matches(msg, km.keys.Up):
		return core.ActionUp
	case key.Matches(msg, km.keys.Down):
		return core.ActionDown
	}
	return core.ActionNone
}

// MapKeyToFrame turns a movement press into the input frame sent to the
// host. ok is false for keys that are not movement.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg) (frame core.InputFrame, ok bool) {
	action := km.MapKey(msg)
	switch action {
	case core.ActionLeft, core.ActionRight, core.ActionUp, core.ActionDown:
	case core.ActionAim:
		km.aimMode = !km.aimMode
		return frame, false
	default:
		return frame, false
	}

	frame = core.NewInputFrame()
	frame.Set(action)
	if km.aimMode {
		frame.Set(core.ActionAim)
	}
	return frame, true
}

// ResetAim leaves aim mode, e.g. when a new round starts.
func (km *KeyMapper) ResetAim() {
	km.aimMode = false
}
