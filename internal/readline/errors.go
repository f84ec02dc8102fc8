package readline

import (
	"errors"
	"fmt"
)

// ErrInterrupted matches any *InterruptError with errors.Is.
var ErrInterrupted = errors.New("user interrupt")

// ErrSubstitutionFailed is wrapped by ^old^new^ expansions whose old
// text is not in the previous line.
var ErrSubstitutionFailed = errors.New("substitution failed")

// InterruptError is returned by ReadLine when the interrupt key is
// pressed and interrupt handling is enabled. Partial holds what had
// been typed.
type InterruptError struct {
	Partial string
}

func (e *InterruptError) Error() string {
	return ErrInterrupted.Error()
}

// Is makes errors.Is(err, ErrInterrupted) work.
func (e *InterruptError) Is(target error) bool {
	return target == ErrInterrupted
}

// EventNotFoundError reports a history event designator that matched
// nothing.
type EventNotFoundError struct {
	Event string
}

func (e *EventNotFoundError) Error() string {
	return fmt.Sprintf("%s: event not found", e.Event)
}
