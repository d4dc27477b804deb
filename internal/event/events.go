package event

// Lifecycle event names. These strings are a fixed contract between the
// assembly pipeline and components.
const (
	// GatherDependencies asks activated components for the packages they need.
	// Payload: *deps.Queue.
	GatherDependencies = "internal:gather-dependencies"

	// Init boots activated components and wires their contribution hooks.
	// Payload: the owning *mix.Context.
	Init = "init"

	// LoadingEntry collects entry points. Payload: *bundler.Entry.
	LoadingEntry = "loading-entry"

	// LoadingRules collects module rules. Payload: *[]bundler.Rule.
	LoadingRules = "loading-rules"

	// LoadingPlugins collects plugins. Payload: *[]bundler.Plugin.
	LoadingPlugins = "loading-plugins"

	// ConfigReady lets components mutate the finished config.
	// Payload: *bundler.Config.
	ConfigReady = "configReady"
)
