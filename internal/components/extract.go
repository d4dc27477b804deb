package components

import (
	"context"
	"regexp"
	"strings"

	"github.com/roach88/mixer/internal/bundler"
)

// Extract splits vendor libraries into their own chunk.
//
//	extract([libraries], [output])
type Extract struct {
	groups []extraction
}

type extraction struct {
	libs []string
	name string
}

func (x *Extract) Names() []string { return []string{"extract"} }

func (x *Extract) Register(args ...any) error {
	g := extraction{name: "vendor"}
	if len(args) > 0 && args[0] != nil {
		libs, err := stringsArg("extract", args[0])
		if err != nil {
			return err
		}
		g.libs = libs
	}
	name, err := optionalString("extract", args, 1, g.name)
	if err != nil {
		return err
	}
	g.name = name
	x.groups = append(x.groups, g)
	return nil
}

func (x *Extract) ConfigFragment(context.Context) (bundler.Fragment, error) {
	cacheGroups := map[string]any{}
	for _, g := range x.groups {
		cacheGroups[g.name] = map[string]any{
			"test":    vendorPattern(g.libs),
			"name":    g.name,
			"chunks":  "all",
			"enforce": true,
		}
	}
	return bundler.Fragment{
		"optimization": map[string]any{
			"runtimeChunk": map[string]any{"name": "manifest"},
			"splitChunks":  map[string]any{"cacheGroups": cacheGroups},
		},
	}, nil
}

// vendorPattern matches modules under node_modules, limited to libs when
// any are given.
func vendorPattern(libs []string) string {
	if len(libs) == 0 {
		return `[\\/]node_modules[\\/]`
	}
	quoted := make([]string, len(libs))
	for i, lib := range libs {
		quoted[i] = regexp.QuoteMeta(lib)
	}
	return `[\\/]node_modules[\\/](` + strings.Join(quoted, "|") + `)[\\/]`
}
