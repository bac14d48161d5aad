package core

// Action represents a semantic duel action, abstracted from physical key presses.
type Action int

const (
	ActionNone  Action = iota
	ActionLeft         // A, Left arrow - strafe left / aim left
	ActionRight        // D, Right arrow - strafe right / aim right
	ActionUp           // W, Up arrow - raise aim
	ActionDown         // S, Down arrow - lower aim
	ActionAim          // Shift/Tab - hold to aim instead of moving
	ActionFire         // Space - fire (offense only)
	ActionHelp         // ? - toggle help
	ActionQuit         // Q, Ctrl+C - leave the duel
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionAim:
		return "Aim"
	case ActionFire:
		return "Fire"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for a single participant during one
// simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool `json:"actions" msgpack:"actions"`
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Merge ORs the actions of other into this frame.
func (f *InputFrame) Merge(other InputFrame) {
	for action, pressed := range other.Actions {
		if pressed {
			f.Set(action)
		}
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

// Horizontal returns -1, 0 or 1 from the left/right actions.
// Right wins when both are held, matching the last-key-checked behavior of
// keyboard polling.
func (f InputFrame) Horizontal() int {
	dir := 0
	if f.Has(ActionLeft) {
		dir = -1
	}
	if f.Has(ActionRight) {
		dir = 1
	}
	return dir
}

// Vertical returns -1, 0 or 1 from the down/up actions.
func (f InputFrame) Vertical() int {
	dir := 0
	if f.Has(ActionDown) {
		dir = -1
	}
	if f.Has(ActionUp) {
		dir = 1
	}
	return dir
}
