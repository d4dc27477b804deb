// Package components provides the built-in build components: script and
// stylesheet compilation, Vue single-file components, versioning, vendor
// extraction, file copies, aliases, autoloading, notifications and raw
// config overrides.
//
// Components never reach for a global context. Hooks that need settings or
// hot-reload state read them from the build context carried by the hook's
// context.Context (mix.FromContext). Verbs only record their arguments;
// everything derived from settings happens in hooks.
package components

import "github.com/roach88/mixer/internal/component"

// Defaults returns factories for every built-in component, in install
// order. Install order is the order contributions appear in a config.
func Defaults() []component.Factory {
	return []component.Factory{
		func() component.Component { return &Options{} },
		func() component.Component { return &JavaScript{} },
		func() component.Component { return &Vue{} },
		func() component.Component { return &Preprocessor{} },
		func() component.Component { return &Extract{} },
		func() component.Component { return &Alias{} },
		func() component.Component { return &Autoload{} },
		func() component.Component { return &Copy{} },
		func() component.Component { return &Version{} },
		func() component.Component { return &WebpackConfig{} },
		func() component.Component { return &Override{} },
		func() component.Component { return &Notifications{} },
	}
}
