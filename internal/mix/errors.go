package mix

import (
	"errors"
	"fmt"
)

// UsageError reports a verb invoked with arguments it cannot accept, such as
// a grouping verb without its callback.
type UsageError struct {
	Verb    string
	Message string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %s: %s", e.Verb, e.Message)
}

// IsUsageError reports whether err wraps a UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}
