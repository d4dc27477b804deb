package components

import (
	"context"

	"github.com/roach88/mixer/internal/component"
	"github.com/roach88/mixer/internal/mix"
)

// Options writes build settings into the owning context when the verb is
// called, so child contexts created afterwards start from them. Later calls
// win.
//
//	options({key: value})
//	setPublicPath(path)
//	setResourceRoot(path)
//	sourceMaps([enabled])
type Options struct {
	component.Base
	owner   *mix.Context
	pending []setting
}

type setting struct {
	key   string
	value any
}

// Bind implements mix.Binder.
func (o *Options) Bind(c *mix.Context) { o.owner = c }

func (o *Options) Names() []string {
	return []string{"options", "setPublicPath", "setResourceRoot", "sourceMaps"}
}

func (o *Options) Register(args ...any) error {
	verb := o.Caller()
	switch verb {
	case "options":
		m, err := mapArg(verb, args, 0, true)
		if err != nil {
			return err
		}
		for _, k := range sortedKeys(m) {
			o.set(k, m[k])
		}
	case "setPublicPath":
		p, err := stringArg(verb, args, 0)
		if err != nil {
			return err
		}
		o.set("publicPath", p)
	case "setResourceRoot":
		p, err := stringArg(verb, args, 0)
		if err != nil {
			return err
		}
		o.set("resourceRoot", p)
	case "sourceMaps":
		enabled := true
		if len(args) > 0 {
			b, ok := args[0].(bool)
			if !ok {
				return usage(verb, "argument 1 must be a bool, got %T", args[0])
			}
			enabled = b
		}
		o.set("sourceMaps", enabled)
	default:
		return usage(verb, "unknown settings verb")
	}
	return nil
}

func (o *Options) set(key string, value any) {
	if o.owner != nil {
		o.owner.Settings().Set(mix.ToolMix, key, value)
		return
	}
	o.pending = append(o.pending, setting{key, value})
}

// Boot applies settings recorded while unbound to the current build context.
func (o *Options) Boot(ctx context.Context) error {
	s := settingsOf(ctx)
	for _, st := range o.pending {
		s.Set(mix.ToolMix, st.key, st.value)
	}
	return nil
}
