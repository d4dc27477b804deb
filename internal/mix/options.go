package mix

import (
	"github.com/mohae/deepcopy"

	"github.com/roach88/mixer/internal/bundler"
	"github.com/roach88/mixer/internal/component"
	"github.com/roach88/mixer/internal/deps"
)

// Option configures a Context.
type Option interface {
	Apply(o *Options)
}

// OptionFunc adapts a function to Option.
type OptionFunc func(*Options)

// Apply calls f.
func (f OptionFunc) Apply(o *Options) { f(o) }

// Options holds everything a Context needs from its caller.
type Options struct {
	// WorkDir is the project root used for framework detection.
	WorkDir string

	// Hot, Watch and Poll mirror the --hot, --watch and --watch-poll
	// process flags. They are snapshotted on init.
	Hot   bool
	Watch bool
	Poll  bool

	// Group restricts BuildConfigs to the named child context.
	Group string

	// Factories create the components installed on Boot, in order.
	Factories []component.Factory

	// Builder shapes collected contributions into a finished config.
	Builder bundler.Builder

	// Checker reports installed packages. Used by the pipeline.
	Checker deps.Checker

	// Detector identifies the host framework of WorkDir.
	Detector Detector
}

var defaultOptions = &Options{
	WorkDir:  ".",
	Builder:  bundler.DefaultBuilder{},
	Detector: DetectFramework,
}

// NewOptions returns the defaults with opts applied.
func NewOptions(opts ...Option) *Options {
	o := deepcopy.Copy(defaultOptions).(*Options)
	for _, opt := range opts {
		if opt != nil {
			opt.Apply(o)
		}
	}
	return o
}

// WithWorkDir sets the project root.
func WithWorkDir(dir string) Option {
	return OptionFunc(func(o *Options) {
		o.WorkDir = dir
	})
}

// WithHot enables hot module replacement.
func WithHot(hot bool) Option {
	return OptionFunc(func(o *Options) {
		o.Hot = hot
	})
}

// WithWatch enables watch mode.
func WithWatch(watch bool) Option {
	return OptionFunc(func(o *Options) {
		o.Watch = watch
	})
}

// WithPolling enables watch mode with file-system polling.
func WithPolling(poll bool) Option {
	return OptionFunc(func(o *Options) {
		o.Poll = poll
		if poll {
			o.Watch = true
		}
	})
}

// WithGroup selects the child group to build.
func WithGroup(name string) Option {
	return OptionFunc(func(o *Options) {
		o.Group = name
	})
}

// WithFactories appends component factories.
func WithFactories(factories ...component.Factory) Option {
	return OptionFunc(func(o *Options) {
		o.Factories = append(o.Factories, factories...)
	})
}

// WithBuilder replaces the config builder.
func WithBuilder(b bundler.Builder) Option {
	return OptionFunc(func(o *Options) {
		if b != nil {
			o.Builder = b
		}
	})
}

// WithChecker sets the installed-package checker.
func WithChecker(c deps.Checker) Option {
	return OptionFunc(func(o *Options) {
		o.Checker = c
	})
}

// WithDetector replaces framework detection.
func WithDetector(d Detector) Option {
	return OptionFunc(func(o *Options) {
		if d != nil {
			o.Detector = d
		}
	})
}

// childOptions copies everything a child inherits. Group selection only
// applies at the level it was given.
func (o *Options) childOptions() *Options {
	cp := *o
	cp.Group = ""
	cp.Factories = append([]component.Factory(nil), o.Factories...)
	return &cp
}
