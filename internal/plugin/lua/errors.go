package lua

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a call runs past the
	// execution timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")
)
