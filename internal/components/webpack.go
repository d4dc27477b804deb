package components

import (
	"context"
	"sort"

	"github.com/roach88/mixer/internal/bundler"
	"github.com/roach88/mixer/internal/component"
)

// WebpackConfig merges raw config fragments into the build, in call order.
// It also publishes mergeWebpackConfig as an alias.
//
//	webpackConfig({...})
type WebpackConfig struct {
	fragments []map[string]any
}

func (w *WebpackConfig) Names() []string { return []string{"webpackConfig"} }

func (w *WebpackConfig) API(standard func(name string) component.Verb) map[string]component.Verb {
	return map[string]component.Verb{
		"mergeWebpackConfig": standard("mergeWebpackConfig"),
	}
}

func (w *WebpackConfig) Register(args ...any) error {
	m, err := mapArg("webpackConfig", args, 0, true)
	if err != nil {
		return err
	}
	w.fragments = append(w.fragments, m)
	return nil
}

func (w *WebpackConfig) ConfigFragment(context.Context) (bundler.Fragment, error) {
	var merged map[string]any
	for _, f := range w.fragments {
		merged = bundler.Merge(merged, f)
	}
	return bundler.Fragment(merged), nil
}

// Override sets config paths after the config is assembled, replacing
// whatever the builder and other components produced. A nil value removes
// the path.
//
//	override({path: value})
//	override(path, value)
type Override struct {
	sets []setting
}

func (o *Override) Names() []string { return []string{"override"} }

func (o *Override) Register(args ...any) error {
	if p, ok := firstString(args); ok {
		if len(args) < 2 {
			return usage("override", "expected a value for %q", p)
		}
		o.sets = append(o.sets, setting{p, args[1]})
		return nil
	}
	m, err := mapArg("override", args, 0, true)
	if err != nil {
		return err
	}
	for _, k := range sortedKeys(m) {
		o.sets = append(o.sets, setting{k, m[k]})
	}
	return nil
}

func (o *Override) ConfigReady(_ context.Context, cfg *bundler.Config) error {
	for _, s := range o.sets {
		var err error
		if s.value == nil {
			err = cfg.Delete(s.key)
		} else {
			err = cfg.Set(s.key, s.value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func firstString(args []any) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	s, ok := args[0].(string)
	return s, ok && s != ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
