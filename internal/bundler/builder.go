package bundler

import (
	"context"
	"path"
)

// Input is everything the pipeline collected for one build context.
type Input struct {
	// Name identifies the build context ("mix" for the root).
	Name string

	Entry    *Entry
	Rules    []Rule
	Plugins  []Plugin
	Fragment Fragment

	// Options is the context's "mix" tool settings (publicPath, production,
	// sourceMaps, ...).
	Options map[string]any

	// Hot and Poll come from the hot-reload snapshot taken on init.
	Hot  bool
	Poll bool
}

// Builder turns collected contributions into a finished Config.
type Builder interface {
	Build(ctx context.Context, in Input) (Config, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context, in Input) (Config, error)

// Build calls f.
func (f BuilderFunc) Build(ctx context.Context, in Input) (Config, error) {
	return f(ctx, in)
}

// Default publicPath and dev-server address when none is configured.
const (
	DefaultPublicPath = "."
	DefaultHotURL     = "http://localhost:8080/"
)

// DefaultBuilder produces a webpack-shaped config. The component fragment is
// merged last so fragments can extend or override anything the builder sets.
type DefaultBuilder struct{}

// Build implements Builder.
func (DefaultBuilder) Build(ctx context.Context, in Input) (Config, error) {
	publicPath := stringOption(in.Options, "publicPath", DefaultPublicPath)
	production := boolOption(in.Options, "production")

	mode := "development"
	if production {
		mode = "production"
	}

	entry := map[string]any{}
	if in.Entry != nil {
		entry = in.Entry.Map()
	}

	rules := make([]any, len(in.Rules))
	for i, r := range in.Rules {
		rules[i] = r.Map()
	}

	plugins := make([]any, len(in.Plugins))
	for i, p := range in.Plugins {
		plugins[i] = p.Map()
	}

	output := map[string]any{
		"path":       path.Clean(publicPath),
		"publicPath": "/",
		"filename":   "[name].js",
	}

	cfg := map[string]any{
		"name":    in.Name,
		"mode":    mode,
		"entry":   entry,
		"output":  output,
		"module":  map[string]any{"rules": rules},
		"plugins": plugins,
	}

	if sm, ok := in.Options["sourceMaps"]; ok {
		if enabled, _ := sm.(bool); enabled {
			cfg["devtool"] = "source-map"
		}
	}

	if in.Hot {
		output["publicPath"] = stringOption(in.Options, "hotURL", DefaultHotURL)
		cfg["devServer"] = map[string]any{"hot": true}
	}
	if in.Poll {
		cfg["watchOptions"] = map[string]any{"poll": true}
	}

	return Config(Merge(cfg, in.Fragment)), nil
}

func stringOption(opts map[string]any, key, def string) string {
	if v, ok := opts[key].(string); ok && v != "" {
		return v
	}
	return def
}

func boolOption(opts map[string]any, key string) bool {
	v, _ := opts[key].(bool)
	return v
}
