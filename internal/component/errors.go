package component

import (
	"errors"
	"fmt"
)

// ErrUnknownVerb is returned (wrapped) by Registry.Call for a name no
// component published.
var ErrUnknownVerb = errors.New("unknown verb")

// PayloadError reports a lifecycle event fired with a payload of the wrong
// type for the hook it reached.
type PayloadError struct {
	Event   string
	Payload any
}

// Error implements the error interface.
func (e *PayloadError) Error() string {
	return fmt.Sprintf("event %q: unexpected payload type %T", e.Event, e.Payload)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
