package compose

// State of a Controller
type State int

const (
	// StateIdle means no mention is being typed and the popup is closed
	StateIdle State = iota
	// StateComposing means a trigger is active and its query drives the popup
	StateComposing
	// StateCommitting is held while a selection is spliced into the text
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComposing:
		return "composing"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// Key is a keyboard key name as reported by the host field
type Key string

const (
	KeyArrowDown Key = "ArrowDown"
	KeyArrowUp   Key = "ArrowUp"
	KeyEnter     Key = "Enter"
	KeyTab       Key = "Tab"
	KeyEscape    Key = "Escape"
)
