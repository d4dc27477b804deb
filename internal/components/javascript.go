package components

import (
	"context"
	"path"

	"github.com/roach88/mixer/internal/bundler"
)

// asset is one source-to-output mapping recorded by a verb.
type asset struct {
	kind string
	src  []string
	out  string
}

// JavaScript compiles scripts through babel.
//
//	js(src, output)
type JavaScript struct {
	assets []asset
}

// Names implements component.Component.
func (j *JavaScript) Names() []string { return []string{"js"} }

// Register records one src (string or list) and its output directory.
func (j *JavaScript) Register(args ...any) error {
	if len(args) < 2 {
		return usage("js", "expected a source and an output path")
	}
	src, err := stringsArg("js", args[0])
	if err != nil {
		return err
	}
	out, err := stringArg("js", args, 1)
	if err != nil {
		return err
	}
	j.assets = append(j.assets, asset{kind: "js", src: src, out: out})
	return nil
}

// Entry adds one entry point per source.
func (j *JavaScript) Entry(ctx context.Context, e *bundler.Entry) error {
	public := publicPathOf(ctx)
	for _, a := range j.assets {
		for _, src := range a.src {
			e.Add(entryName(public, a.out, src), path.Clean(src))
		}
	}
	return nil
}

// Rules returns the babel rule.
func (j *JavaScript) Rules(context.Context) ([]bundler.Rule, error) {
	return []bundler.Rule{{
		Test:    `\.(cjs|mjs|jsx?|tsx?)$`,
		Exclude: `(node_modules|bower_components)`,
		Use:     []bundler.Loader{{Loader: "babel-loader"}},
	}}, nil
}
