package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/mixer/internal/digest"
)

// MarshalArgs encodes verb arguments as canonical JSON. Arguments with no
// JSON form (callbacks, channels) are recorded by type name.
func MarshalArgs(args []any) json.RawMessage {
	if len(args) == 0 {
		return json.RawMessage("[]")
	}
	if b, err := digest.Marshal(args); err == nil {
		return b
	}

	recorded := make([]any, len(args))
	for i, a := range args {
		if _, err := digest.Marshal(a); err != nil {
			recorded[i] = fmt.Sprintf("<%T>", a)
			continue
		}
		recorded[i] = a
	}
	b, err := digest.Marshal(recorded)
	if err != nil {
		return json.RawMessage("[]")
	}
	return b
}

// UnmarshalArgs decodes arguments written by MarshalArgs.
func UnmarshalArgs(raw json.RawMessage) ([]any, error) {
	var args []any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	if args == nil {
		args = []any{}
	}
	return args, nil
}
