package component

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/roach88/mixer/internal/bundler"
	"github.com/roach88/mixer/internal/deps"
	"github.com/roach88/mixer/internal/event"
)

// Record is one entry of the build-record ledger: a verb call.
type Record struct {
	Seq       int64
	Verb      string
	Component string
	Args      []any
}

// installed is the registry-local state of one component instance.
type installed struct {
	comp      Component
	activated bool
	wired     bool
}

// Registry publishes component verbs and wires component hooks into a
// dispatcher. One registry belongs to exactly one build context.
//
// Thread-safety: all methods are safe for concurrent use. Hooks run on the
// goroutine that fires the event.
type Registry struct {
	dispatcher *event.Dispatcher
	clock      *Clock

	mu         sync.Mutex
	verbs      map[string]Verb
	components []*installed
	records    []Record
	fragment   bundler.Fragment
}

// NewRegistry creates a registry that subscribes to d. A nil clock gets a
// fresh one.
func NewRegistry(d *event.Dispatcher, clock *Clock) *Registry {
	if clock == nil {
		clock = NewClock()
	}
	return &Registry{
		dispatcher: d,
		clock:      clock,
		verbs:      make(map[string]Verb),
		fragment:   bundler.Fragment{},
	}
}

// InstallFactory installs a fresh instance from f.
func (r *Registry) InstallFactory(f Factory) (map[string]Verb, error) {
	return r.Install(f())
}

// Install publishes c's verbs, subscribes its lifecycle listeners and, for a
// passive component, activates it immediately. It returns the verbs the
// component published (its names plus any API extension).
//
// A component with no recognized hooks is accepted and contributes nothing.
// The only error is a passive component whose Register rejects the implicit
// no-argument call.
func (r *Registry) Install(c Component) (map[string]Verb, error) {
	inst := &installed{comp: c}
	published := make(map[string]Verb)

	r.mu.Lock()
	r.components = append(r.components, inst)
	for _, name := range c.Names() {
		v := r.verbFor(inst, name)
		r.verbs[name] = v
		published[name] = v
	}
	if ext, ok := c.(APIExtender); ok {
		standard := func(name string) Verb { return r.verbFor(inst, name) }
		for name, v := range ext.API(standard) {
			r.verbs[name] = v
			published[name] = v
		}
	}
	r.mu.Unlock()

	r.dispatcher.Listen(event.GatherDependencies, func(ctx context.Context, payload any) error {
		return r.gatherDependencies(ctx, inst, payload)
	})
	r.dispatcher.Listen(event.Init, func(ctx context.Context, payload any) error {
		return r.initComponent(ctx, inst)
	})

	slog.Debug("component installed", "component", Identity(c), "verbs", len(published))

	if isPassive(c) {
		if err := r.activatePassive(inst); err != nil {
			return published, err
		}
	}

	return published, nil
}

// activatePassive calls the component's first verb with no arguments. A
// passive component without names is activated through the same path
// under an empty verb name.
func (r *Registry) activatePassive(inst *installed) error {
	names := inst.comp.Names()
	name := ""
	if len(names) > 0 {
		name = names[0]
	}
	if err := r.verbFor(inst, name)(); err != nil {
		return fmt.Errorf("activate passive component %s: %w", Identity(inst.comp), err)
	}
	return nil
}

// verbFor builds the callable published under name.
func (r *Registry) verbFor(inst *installed, name string) Verb {
	return func(args ...any) error {
		r.record(name, inst.comp, args)

		if ca, ok := inst.comp.(CallerAware); ok {
			ca.SetCaller(name)
		}
		if reg, ok := inst.comp.(Registerer); ok {
			if err := reg.Register(args...); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}

		r.mu.Lock()
		inst.activated = true
		r.mu.Unlock()

		slog.Debug("component activated", "verb", name, "component", Identity(inst.comp))
		return nil
	}
}

func (r *Registry) record(name string, c Component, args []any) {
	cp := make([]any, len(args))
	copy(cp, args)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, Record{
		Seq:       r.clock.Next(),
		Verb:      name,
		Component: Identity(c),
		Args:      cp,
	})
}

// eligible reports whether inst's hooks may fire.
func (r *Registry) eligible(inst *installed) bool {
	r.mu.Lock()
	activated := inst.activated
	r.mu.Unlock()
	return activated || isPassive(inst.comp)
}

func (r *Registry) gatherDependencies(ctx context.Context, inst *installed, payload any) error {
	if !r.eligible(inst) {
		return nil
	}
	dp, ok := inst.comp.(DependencyProvider)
	if !ok {
		return nil
	}
	queue, ok := payload.(*deps.Queue)
	if !ok {
		return &PayloadError{Event: event.GatherDependencies, Payload: payload}
	}

	specs, err := dp.Dependencies(ctx)
	if err != nil {
		return fmt.Errorf("dependencies of %s: %w", Identity(inst.comp), err)
	}

	reload := false
	if rl, ok := inst.comp.(Reloader); ok {
		reload = rl.RequiresReload()
	}
	queue.Add(specs, reload)
	return nil
}

func (r *Registry) initComponent(ctx context.Context, inst *installed) error {
	if !r.eligible(inst) {
		return nil
	}
	c := inst.comp

	if b, ok := c.(Booter); ok {
		if err := b.Boot(ctx); err != nil {
			return fmt.Errorf("boot %s: %w", Identity(c), err)
		}
	}

	if fp, ok := c.(FragmentProvider); ok {
		frag, err := fp.ConfigFragment(ctx)
		if err != nil {
			return fmt.Errorf("config fragment of %s: %w", Identity(c), err)
		}
		r.mu.Lock()
		bundler.Merge(r.fragment, frag)
		r.mu.Unlock()
	}

	r.mu.Lock()
	if inst.wired {
		r.mu.Unlock()
		return nil
	}
	inst.wired = true
	r.mu.Unlock()

	r.wireContributions(c)
	return nil
}

// wireContributions subscribes the component's contribution hooks. Called
// from inside the "init" handler, so these hooks exist only after Boot.
func (r *Registry) wireContributions(c Component) {
	if ec, ok := c.(EntryContributor); ok {
		r.dispatcher.Listen(event.LoadingEntry, func(ctx context.Context, payload any) error {
			entry, ok := payload.(*bundler.Entry)
			if !ok {
				return &PayloadError{Event: event.LoadingEntry, Payload: payload}
			}
			return ec.Entry(ctx, entry)
		})
	}

	if rc, ok := c.(RuleContributor); ok {
		r.dispatcher.Listen(event.LoadingRules, func(ctx context.Context, payload any) error {
			rules, ok := payload.(*[]bundler.Rule)
			if !ok {
				return &PayloadError{Event: event.LoadingRules, Payload: payload}
			}
			contributed, err := rc.Rules(ctx)
			if err != nil {
				return err
			}
			*rules = append(*rules, contributed...)
			return nil
		})
	}

	if pc, ok := c.(PluginContributor); ok {
		r.dispatcher.Listen(event.LoadingPlugins, func(ctx context.Context, payload any) error {
			plugins, ok := payload.(*[]bundler.Plugin)
			if !ok {
				return &PayloadError{Event: event.LoadingPlugins, Payload: payload}
			}
			contributed, err := pc.Plugins(ctx)
			if err != nil {
				return err
			}
			*plugins = append(*plugins, contributed...)
			return nil
		})
	}

	if cm, ok := c.(ConfigMutator); ok {
		r.dispatcher.Listen(event.ConfigReady, func(ctx context.Context, payload any) error {
			cfg, ok := payload.(*bundler.Config)
			if !ok {
				return &PayloadError{Event: event.ConfigReady, Payload: payload}
			}
			return cm.ConfigReady(ctx, cfg)
		})
	}
}

// Call invokes the verb published under name.
func (r *Registry) Call(name string, args ...any) error {
	r.mu.Lock()
	v, ok := r.verbs[name]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVerb, name)
	}
	return v(args...)
}

// Has reports whether a verb is published under name.
func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.verbs[name]
	return ok
}

// Verbs returns a copy of the published verb set.
func (r *Registry) Verbs() map[string]Verb {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]Verb, len(r.verbs))
	for k, v := range r.verbs {
		out[k] = v
	}
	return out
}

// VerbNames returns the published verb names, sorted.
func (r *Registry) VerbNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.verbs))
	for k := range r.verbs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Records returns the build-record ledger in call order.
func (r *Registry) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// isActivated reports whether c (an installed instance) has been activated.
func (r *Registry) isActivated(c Component) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, inst := range r.components {
		if inst.comp == c {
			return inst.activated
		}
	}
	return false
}

// ActiveComponents returns the activated or passive components in install
// order.
func (r *Registry) ActiveComponents() []Component {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Component
	for _, inst := range r.components {
		if inst.activated || isPassive(inst.comp) {
			out = append(out, inst.comp)
		}
	}
	return out
}

// Fragment returns a deep copy of the shared config fragment merged from
// every booted component.
func (r *Registry) Fragment() bundler.Fragment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return bundler.Fragment(bundler.Merge(nil, r.fragment))
}

func isPassive(c Component) bool {
	p, ok := c.(Passive)
	return ok && p.Passive()
}
