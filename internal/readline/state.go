package readline

// State is the mode of the editing state machine.
type State int

const (
	// StateNormal dispatches bindings to their operations.
	StateNormal State = iota
	// StateSearch is reverse incremental history search.
	StateSearch
	// StateForwardSearch is forward incremental history search.
	StateForwardSearch
	// StateViYankTo waits for the motion of a vi yank.
	StateViYankTo
	// StateViDeleteTo waits for the motion of a vi delete.
	StateViDeleteTo
	// StateViChangeTo waits for the motion of a vi change.
	StateViChangeTo
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateSearch:
		return "search"
	case StateForwardSearch:
		return "forward-search"
	case StateViYankTo:
		return "vi-yank-to"
	case StateViDeleteTo:
		return "vi-delete-to"
	case StateViChangeTo:
		return "vi-change-to"
	default:
		return "unknown"
	}
}

// IsSearch reports whether s is one of the incremental search states.
func (s State) IsSearch() bool {
	return s == StateSearch || s == StateForwardSearch
}

// IsViOperator reports whether s is waiting for a vi motion.
func (s State) IsViOperator() bool {
	return s == StateViYankTo || s == StateViDeleteTo || s == StateViChangeTo
}
