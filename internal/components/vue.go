package components

import (
	"context"

	"github.com/roach88/mixer/internal/bundler"
)

// Vue adds single-file component support. Its loader must be installed
// before the bundler starts, so a missing dependency requires a reload.
//
//	vue({version: 2|3})
type Vue struct {
	version int
}

func (v *Vue) Names() []string { return []string{"vue"} }

func (v *Vue) Register(args ...any) error {
	opts, err := mapArg("vue", args, 0, false)
	if err != nil {
		return err
	}
	v.version = 3
	if raw, ok := opts["version"]; ok {
		n, ok := intValue(raw)
		if !ok || (n != 2 && n != 3) {
			return usage("vue", "version must be 2 or 3, got %v", raw)
		}
		v.version = n
	}
	return nil
}

func (v *Vue) Dependencies(context.Context) ([]string, error) {
	if v.version == 2 {
		return []string{"vue-loader@^15.9.8", "vue-template-compiler"}, nil
	}
	return []string{"vue-loader@^16.2.0", "@vue/compiler-sfc"}, nil
}

func (v *Vue) RequiresReload() bool { return true }

func (v *Vue) Rules(context.Context) ([]bundler.Rule, error) {
	return []bundler.Rule{{
		Test: `\.vue$`,
		Use:  []bundler.Loader{{Loader: "vue-loader"}},
	}}, nil
}

func (v *Vue) Plugins(context.Context) ([]bundler.Plugin, error) {
	return []bundler.Plugin{{Name: "VueLoaderPlugin"}}, nil
}

func (v *Vue) ConfigFragment(context.Context) (bundler.Fragment, error) {
	alias := "vue/dist/vue.esm-bundler.js"
	if v.version == 2 {
		alias = "vue/dist/vue.esm.js"
	}
	return bundler.Fragment{
		"resolve": map[string]any{
			"extensions": []any{".vue"},
			"alias":      map[string]any{"vue$": alias},
		},
	}, nil
}
