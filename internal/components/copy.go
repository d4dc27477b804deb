package components

import (
	"context"
	"path"

	"github.com/roach88/mixer/internal/bundler"
	"github.com/roach88/mixer/internal/component"
)

// Copy copies files or directories into the build output unchanged.
//
//	copy(from, to)
//	copyDirectory(from, to)
type Copy struct {
	component.Base
	patterns []any
}

func (c *Copy) Names() []string { return []string{"copy", "copyDirectory"} }

func (c *Copy) Register(args ...any) error {
	verb := c.Caller()
	from, err := stringArg(verb, args, 0)
	if err != nil {
		return err
	}
	to, err := stringArg(verb, args, 1)
	if err != nil {
		return err
	}
	pattern := map[string]any{"from": path.Clean(from), "to": path.Clean(to)}
	if verb == "copyDirectory" {
		pattern["toType"] = "dir"
	}
	c.patterns = append(c.patterns, pattern)
	return nil
}

func (c *Copy) Plugins(context.Context) ([]bundler.Plugin, error) {
	return []bundler.Plugin{{
		Name:    "CopyPlugin",
		Options: map[string]any{"patterns": c.patterns},
	}}, nil
}
