package manifest

import (
	"context"
	"fmt"

	"github.com/roach88/mixer/internal/mix"
)

// Apply replays the manifest on c: root calls in order, then each group
// inside its own child context.
func (m *Manifest) Apply(ctx context.Context, c *mix.Context) error {
	return apply(ctx, c, "calls", m.Calls, "groups", m.Groups)
}

func apply(ctx context.Context, c *mix.Context, callsAt string, calls []Call, groupsAt string, groups []Group) error {
	for i, call := range calls {
		if err := c.Call(ctx, call.Verb, call.Args...); err != nil {
			return fmt.Errorf("%s[%d] %s: %w", callsAt, i, call.Verb, err)
		}
	}
	for i, g := range groups {
		loc := fmt.Sprintf("%s[%d]", groupsAt, i)
		err := c.Group(ctx, g.Name, func(ctx context.Context, child *mix.Context) error {
			return apply(ctx, child, loc+".calls", g.Calls, loc+".groups", g.Groups)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
