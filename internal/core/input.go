package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow, Space - hop forward
	ActionDown           // S, Down arrow - hop back
	ActionLeft           // A, Left arrow - hop left
	ActionRight          // D, Right arrow - hop right
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - restart game after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

var actionNames = map[Action]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionConfirm: "Confirm",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
	ActionPause:   "Pause",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// ParseAction is the inverse of String. Unknown names map to ActionNone.
func ParseAction(name string) Action {
	for a, n := range actionNames {
		if n == name {
			return a
		}
	}
	return ActionNone
}

// InputFrame represents the input state for a single player during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
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

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
