package mix

import (
	"context"
	"fmt"

	"github.com/roach88/mixer/internal/component"
)

// VerbGroup is the grouping verb published on every context.
const VerbGroup = "group"

// groupAPI publishes VerbGroup. The callback may take the child alone or a
// context.Context and the child.
type groupAPI struct {
	owner *Context
}

func (g *groupAPI) Names() []string { return nil }

func (g *groupAPI) API(func(name string) component.Verb) map[string]component.Verb {
	return map[string]component.Verb{VerbGroup: g.group}
}

func (g *groupAPI) group(args ...any) error {
	if len(args) < 2 {
		return &UsageError{Verb: VerbGroup, Message: "expected a name and a callback"}
	}
	name, ok := args[0].(string)
	if !ok {
		return &UsageError{Verb: VerbGroup, Message: fmt.Sprintf("name must be a string, got %T", args[0])}
	}

	var fn func(context.Context, *Context) error
	switch cb := args[1].(type) {
	case func(context.Context, *Context) error:
		fn = cb
	case func(*Context) error:
		if cb != nil {
			fn = func(_ context.Context, child *Context) error { return cb(child) }
		}
	case nil:
	default:
		return &UsageError{Verb: VerbGroup, Message: fmt.Sprintf("callback has unsupported type %T", args[1])}
	}
	return g.owner.WithChild(context.Background(), name, fn)
}
