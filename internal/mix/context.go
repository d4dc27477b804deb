package mix

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/mixer/internal/bundler"
	"github.com/roach88/mixer/internal/component"
	"github.com/roach88/mixer/internal/deps"
	"github.com/roach88/mixer/internal/event"
)

// HotState is the hot-reload state of a context, snapshotted on init.
type HotState struct {
	Hot   bool
	Watch bool
	Poll  bool
}

// Context is one build target. A root context owns the Stack and Clock
// shared by all of its descendants.
type Context struct {
	name   string
	parent *Context
	opts   *Options

	dispatcher *event.Dispatcher
	registry   *component.Registry
	settings   *Settings
	clock      *component.Clock
	stack      *Stack

	bootMu sync.Mutex
	initMu sync.Mutex

	mu          sync.Mutex
	booted      bool
	initialized bool
	framework   string
	hot         HotState
	children    []*Context
}

// New creates an unbooted root context.
func New(name string, opts ...Option) *Context {
	o := NewOptions(opts...)
	return newContext(name, nil, o, NewSettings(), component.NewClock(), &Stack{})
}

func newContext(name string, parent *Context, o *Options, settings *Settings, clock *component.Clock, stack *Stack) *Context {
	d := event.NewDispatcher()
	return &Context{
		name:       name,
		parent:     parent,
		opts:       o,
		dispatcher: d,
		registry:   component.NewRegistry(d, clock),
		settings:   settings,
		clock:      clock,
		stack:      stack,
	}
}

// Name returns the context name.
func (c *Context) Name() string { return c.name }

// Path returns the slash-joined names from the root to c.
func (c *Context) Path() string {
	if c.parent == nil {
		return c.name
	}
	return c.parent.Path() + "/" + c.name
}

// Parent returns the enclosing context, or nil for the root.
func (c *Context) Parent() *Context { return c.parent }

// Root returns the outermost context.
func (c *Context) Root() *Context {
	for c.parent != nil {
		c = c.parent
	}
	return c
}

// Options returns the context options. Callers must not modify them.
func (c *Context) Options() *Options { return c.opts }

// Dispatcher returns the context's event dispatcher.
func (c *Context) Dispatcher() *event.Dispatcher { return c.dispatcher }

// Registry returns the context's component registry.
func (c *Context) Registry() *component.Registry { return c.registry }

// Settings returns the per-tool settings.
func (c *Context) Settings() *Settings { return c.settings }

// Stack returns the stack shared by the whole context tree.
func (c *Context) Stack() *Stack { return c.stack }

// Framework returns the framework detected on Boot.
func (c *Context) Framework() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.framework
}

// Hot returns the hot-reload snapshot taken on init.
func (c *Context) Hot() HotState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hot
}

// Booted reports whether Boot has completed.
func (c *Context) Booted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.booted
}

// Initialized reports whether Init has completed locally.
func (c *Context) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Current returns the innermost context entered through WithChild, or the
// root when none is entered.
func (c *Context) Current() *Context {
	if top := c.stack.Top(); top != nil {
		return top
	}
	return c.Root()
}

// Binder is implemented by components that act on their owning context as
// soon as a verb is called, before any lifecycle event fires.
type Binder interface {
	Bind(c *Context)
}

// Boot applies framework defaults, registers the hot-reload snapshot and
// installs every configured component. Passive components activate here.
func (c *Context) Boot(ctx context.Context) error {
	c.bootMu.Lock()
	defer c.bootMu.Unlock()
	if c.Booted() {
		return nil
	}

	framework := c.opts.Detector(c.opts.WorkDir)
	for k, v := range frameworkDefaults(framework) {
		c.settings.SetDefault(ToolMix, k, v)
	}

	c.dispatcher.Listen(event.Init, func(context.Context, any) error {
		c.mu.Lock()
		c.hot = HotState{Hot: c.opts.Hot, Watch: c.opts.Watch, Poll: c.opts.Poll}
		c.mu.Unlock()
		return nil
	})

	if _, err := c.registry.Install(&groupAPI{owner: c}); err != nil {
		return fmt.Errorf("boot %s: %w", c.Path(), err)
	}
	for _, f := range c.opts.Factories {
		comp := f()
		if b, ok := comp.(Binder); ok {
			b.Bind(c)
		}
		if _, err := c.registry.Install(comp); err != nil {
			return fmt.Errorf("boot %s: %w", c.Path(), err)
		}
	}

	c.mu.Lock()
	c.framework = framework
	c.booted = true
	c.mu.Unlock()

	slog.DebugContext(ctx, "context booted",
		"context", c.Path(),
		"framework", framework,
		"verbs", len(c.registry.VerbNames()),
	)
	return nil
}

// Call invokes a published verb, booting the context first if needed.
func (c *Context) Call(ctx context.Context, verb string, args ...any) error {
	if err := c.Boot(ctx); err != nil {
		return err
	}
	return c.registry.Call(verb, args...)
}

// Listen subscribes h to name on this context only.
func (c *Context) Listen(name string, h event.Handler) {
	c.dispatcher.Listen(name, h)
}

// Dispatch fires name on this context with c carried in ctx.
func (c *Context) Dispatch(ctx context.Context, name string, payload any) error {
	return c.dispatcher.Fire(WithCurrent(ctx, c), name, payload)
}

// DispatchToChildren fires name on every direct child concurrently and
// waits for all of them. payload builds each child's payload; nil means no
// payload.
func (c *Context) DispatchToChildren(ctx context.Context, name string, payload func(child *Context) any) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, child := range c.Children() {
		g.Go(func() error {
			var p any
			if payload != nil {
				p = payload(child)
			}
			return child.Dispatch(gctx, name, p)
		})
	}
	return g.Wait()
}

// Init fires "init" on c, then initializes every child concurrently. It
// returns once the whole subtree is initialized.
func (c *Context) Init(ctx context.Context) error {
	c.initMu.Lock()
	defer c.initMu.Unlock()

	if !c.Initialized() {
		if err := c.Dispatch(ctx, event.Init, c); err != nil {
			return fmt.Errorf("init %s: %w", c.Path(), err)
		}
		c.mu.Lock()
		c.initialized = true
		c.mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, child := range c.Children() {
		g.Go(func() error {
			return child.Init(gctx)
		})
	}
	return g.Wait()
}

// WithChild creates and boots a child context named name, enters it for
// the duration of fn and records it among c's children. The child is popped
// from the stack on every exit path, including errors and panics.
func (c *Context) WithChild(ctx context.Context, name string, fn func(ctx context.Context, child *Context) error) error {
	if name == "" {
		return &UsageError{Verb: VerbGroup, Message: "a group name is required"}
	}
	if fn == nil {
		return &UsageError{Verb: VerbGroup, Message: "a callback is required"}
	}
	if err := c.Boot(ctx); err != nil {
		return err
	}

	child := newContext(name, c, c.opts.childOptions(), c.settings.clone(), c.clock, c.stack)
	if err := child.Boot(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.children = append(c.children, child)
	c.mu.Unlock()

	pop := c.stack.Push(child)
	defer pop()

	return fn(WithCurrent(ctx, child), child)
}

// Group is WithChild under its verb name.
func (c *Context) Group(ctx context.Context, name string, fn func(ctx context.Context, child *Context) error) error {
	return c.WithChild(ctx, name, fn)
}

// Children returns the direct children in creation order.
func (c *Context) Children() []*Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Context(nil), c.children...)
}

// Child returns the direct child named name.
func (c *Context) Child(name string) (*Context, bool) {
	for _, child := range c.Children() {
		if child.name == name {
			return child, true
		}
	}
	return nil, false
}

// Walk visits c and then every descendant, depth first.
func (c *Context) Walk(fn func(*Context)) {
	fn(c)
	for _, child := range c.Children() {
		child.Walk(fn)
	}
}

// GatherDependencies fires the gather event on c and then on every child
// concurrently, all into q.
func (c *Context) GatherDependencies(ctx context.Context, q *deps.Queue) error {
	if err := c.Dispatch(ctx, event.GatherDependencies, q); err != nil {
		return fmt.Errorf("gather dependencies %s: %w", c.Path(), err)
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, child := range c.Children() {
		g.Go(func() error {
			return child.GatherDependencies(gctx, q)
		})
	}
	return g.Wait()
}

// Build produces c's bundler config. An unbooted context is booted with a
// warning; an uninitialized one is initialized.
func (c *Context) Build(ctx context.Context) (bundler.Config, error) {
	if !c.Booted() {
		slog.WarnContext(ctx, "context built before boot; booting now", "context", c.Path())
		if err := c.Boot(ctx); err != nil {
			return nil, err
		}
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}

	entry := bundler.NewEntry()
	if err := c.Dispatch(ctx, event.LoadingEntry, entry); err != nil {
		return nil, fmt.Errorf("build %s: %w", c.Path(), err)
	}
	var rules []bundler.Rule
	if err := c.Dispatch(ctx, event.LoadingRules, &rules); err != nil {
		return nil, fmt.Errorf("build %s: %w", c.Path(), err)
	}
	var plugins []bundler.Plugin
	if err := c.Dispatch(ctx, event.LoadingPlugins, &plugins); err != nil {
		return nil, fmt.Errorf("build %s: %w", c.Path(), err)
	}

	hot := c.Hot()
	cfg, err := c.opts.Builder.Build(ctx, bundler.Input{
		Name:     c.Path(),
		Entry:    entry,
		Rules:    rules,
		Plugins:  plugins,
		Fragment: c.registry.Fragment(),
		Options:  c.settings.Tool(ToolMix),
		Hot:      hot.Hot,
		Poll:     hot.Poll,
	})
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", c.Path(), err)
	}

	if err := c.Dispatch(ctx, event.ConfigReady, &cfg); err != nil {
		return nil, fmt.Errorf("build %s: %w", c.Path(), err)
	}
	return cfg, nil
}

// BuildOp is one deferred config build.
type BuildOp struct {
	Context *Context
	Run     func(ctx context.Context) (bundler.Config, error)
}

// BuildConfigs yields one build operation for c when it has direct output
// or no children, then recurses into the selected children. Group selection
// (WithGroup) applies to c's direct children.
func (c *Context) BuildConfigs() iter.Seq[BuildOp] {
	return func(yield func(BuildOp) bool) {
		c.yieldBuilds(c.opts.Group, yield)
	}
}

func (c *Context) yieldBuilds(group string, yield func(BuildOp) bool) bool {
	children := c.Children()
	if group == "" && (len(children) == 0 || c.hasDirectOutput()) {
		if !yield(BuildOp{Context: c, Run: c.Build}) {
			return false
		}
	}
	for _, child := range children {
		if group != "" && child.name != group {
			continue
		}
		if !child.yieldBuilds("", yield) {
			return false
		}
	}
	return true
}

// hasDirectOutput reports whether an explicitly called component of c
// contributes entry points.
func (c *Context) hasDirectOutput() bool {
	for _, comp := range c.registry.ActiveComponents() {
		if p, ok := comp.(component.Passive); ok && p.Passive() {
			continue
		}
		if _, ok := comp.(component.EntryContributor); ok {
			return true
		}
	}
	return false
}

// LedgerEntry is a verb record tagged with the context it ran in.
type LedgerEntry struct {
	Context string
	component.Record
}

// Ledger returns the verb records of the whole tree rooted at c, ordered by
// the shared clock.
func (c *Context) Ledger() []LedgerEntry {
	var out []LedgerEntry
	c.Walk(func(ctx *Context) {
		for _, r := range ctx.registry.Records() {
			out = append(out, LedgerEntry{Context: ctx.Path(), Record: r})
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}
