package components

import (
	"context"
	"sort"

	"github.com/roach88/mixer/internal/bundler"
)

// Alias adds module resolution aliases.
//
//	alias({name: path})
type Alias struct {
	aliases map[string]any
}

func (a *Alias) Names() []string { return []string{"alias"} }

func (a *Alias) Register(args ...any) error {
	m, err := mapArg("alias", args, 0, true)
	if err != nil {
		return err
	}
	if a.aliases == nil {
		a.aliases = map[string]any{}
	}
	for name, target := range m {
		s, ok := target.(string)
		if !ok {
			return usage("alias", "target of %q must be a string, got %T", name, target)
		}
		a.aliases[name] = s
	}
	return nil
}

func (a *Alias) ConfigFragment(context.Context) (bundler.Fragment, error) {
	return bundler.Fragment{
		"resolve": map[string]any{"alias": a.aliases},
	}, nil
}

// Autoload makes modules available as free variables.
//
//	autoload({module: [names]})
type Autoload struct {
	provide map[string]any
}

func (a *Autoload) Names() []string { return []string{"autoload"} }

func (a *Autoload) Register(args ...any) error {
	m, err := mapArg("autoload", args, 0, true)
	if err != nil {
		return err
	}
	if a.provide == nil {
		a.provide = map[string]any{}
	}
	modules := make([]string, 0, len(m))
	for module := range m {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	for _, module := range modules {
		names, err := stringsArg("autoload", m[module])
		if err != nil {
			return err
		}
		for _, name := range names {
			a.provide[name] = module
		}
	}
	return nil
}

func (a *Autoload) Plugins(context.Context) ([]bundler.Plugin, error) {
	return []bundler.Plugin{{Name: "ProvidePlugin", Options: a.provide}}, nil
}
