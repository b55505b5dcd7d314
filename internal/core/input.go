package core

// Action represents a semantic player action, abstracted from physical key presses.
// The presentation layer maps keys to actions; engines never see raw keys.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // Left arrow, A - move left / shift window left
	ActionRight          // Right arrow, D - move right / shift window right
	ActionJump           // Up arrow, W - jump
	ActionDown           // Down arrow, S - drop to the platform below
	ActionSwap           // X - swap the two visible runeplates
	ActionVerify         // Space - invoke sort verification
	ActionHint           // H - reveal the next hint
	ActionConfirm        // Enter - confirm selection / collect
	ActionBack           // Escape - return to the level list
	ActionRestart        // R - replay the level
	ActionNext           // N - continue to the next level
	ActionQuit           // Q, Ctrl+C - exit
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
	case ActionJump:
		return "Jump"
	case ActionDown:
		return "Down"
	case ActionSwap:
		return "Swap"
	case ActionVerify:
		return "Verify"
	case ActionHint:
		return "Hint"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionNext:
		return "Next"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
