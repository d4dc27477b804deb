package event

import (
	"errors"
	"fmt"
)

// HandlerError reports which handler of which event failed.
type HandlerError struct {
	// Event is the name of the event being fired.
	Event string

	// Index is the zero-based registration position of the failing handler.
	Index int

	// Err is the handler's error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("event %q: handler %d: %v", e.Event, e.Index, e.Err)
}

// Unwrap returns the handler's error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// FailedEvent returns the name of the innermost event whose handler failed,
// or "" if err did not come from a handler. Nested fires (a handler that
// fires another event) report the deepest event.
func FailedEvent(err error) string {
	name := ""
	for err != nil {
		var he *HandlerError
		if !errors.As(err, &he) {
			break
		}
		name = he.Event
		err = he.Err
	}
	return name
}
