package component

import (
	"context"

	"github.com/roach88/mixer/internal/bundler"
)

// Verb is a user-facing callable published by a component. Calling it
// configures and activates the component.
type Verb func(args ...any) error

// Component is the only required capability: the verb names the component
// registers under. A component may return no names; it then has no verb but
// can still be passive.
type Component interface {
	Names() []string
}

// Factory creates a fresh component instance. Installing from a factory
// keeps activation state local to one registry.
type Factory func() Component

// Registerer receives the arguments a verb was called with.
type Registerer interface {
	Register(args ...any) error
}

// Passive components activate at install time without a verb call.
type Passive interface {
	Passive() bool
}

// CallerAware components are told which verb name activated them.
type CallerAware interface {
	SetCaller(name string)
}

// DependencyProvider lists package specs the component needs.
type DependencyProvider interface {
	Dependencies(ctx context.Context) ([]string, error)
}

// Reloader marks a component's dependencies as requiring a build restart
// once installed.
type Reloader interface {
	RequiresReload() bool
}

// Booter runs once on init, before any contribution hook.
type Booter interface {
	Boot(ctx context.Context) error
}

// FragmentProvider contributes a partial config on init. Fragments from all
// components are deep-merged (arrays concatenated) into the registry's
// shared fragment.
type FragmentProvider interface {
	ConfigFragment(ctx context.Context) (bundler.Fragment, error)
}

// EntryContributor adds entry points on "loading-entry".
type EntryContributor interface {
	Entry(ctx context.Context, entry *bundler.Entry) error
}

// RuleContributor returns module rules on "loading-rules".
type RuleContributor interface {
	Rules(ctx context.Context) ([]bundler.Rule, error)
}

// PluginContributor returns plugins on "loading-plugins".
type PluginContributor interface {
	Plugins(ctx context.Context) ([]bundler.Plugin, error)
}

// ConfigMutator adjusts the finished config on "configReady".
type ConfigMutator interface {
	ConfigReady(ctx context.Context, cfg *bundler.Config) error
}

// APIExtender publishes extra verbs directly into the registry's verb set.
// An extension may override a verb installed earlier; the last registration
// for a name wins.
//
// standard returns the regular verb callable for this component under a
// given name (ledger record, caller, Register, activation). Extensions that
// only add aliases use it. Verbs that bypass it never activate the
// component.
type APIExtender interface {
	API(standard func(name string) Verb) map[string]Verb
}

// Base can be embedded to satisfy CallerAware.
type Base struct {
	caller string
}

// SetCaller implements CallerAware.
func (b *Base) SetCaller(name string) { b.caller = name }

// Caller returns the verb name the component was last called under.
func (b *Base) Caller() string { return b.caller }

// Identity labels a component for logs and the ledger: its verb names joined
// with "|", or its Go type when it has none.
func Identity(c Component) string {
	names := c.Names()
	if len(names) == 0 {
		return typeName(c)
	}
	id := names[0]
	for _, n := range names[1:] {
		id += "|" + n
	}
	return id
}
