package components

import (
	"context"
	"path"

	"github.com/roach88/mixer/internal/bundler"
	"github.com/roach88/mixer/internal/component"
)

// Preprocessor compiles stylesheets. One instance serves every
// preprocessor verb; the verb a call arrived through picks the loader.
//
//	sass(src, output, [loaderOptions])
//	less(src, output, [loaderOptions])
//	stylus(src, output, [loaderOptions])
type Preprocessor struct {
	component.Base
	assets  []asset
	options map[string]map[string]any
}

var preprocessors = map[string]struct {
	test string
	deps []string
}{
	"sass":   {test: `\.s[ac]ss$`, deps: []string{"sass", "sass-loader@^12.1.0"}},
	"less":   {test: `\.less$`, deps: []string{"less", "less-loader@^10.0.0"}},
	"stylus": {test: `\.styl(us)?$`, deps: []string{"stylus", "stylus-loader@^6.1.0"}},
}

func (p *Preprocessor) Names() []string { return []string{"sass", "less", "stylus"} }

func (p *Preprocessor) Register(args ...any) error {
	kind := p.Caller()
	if _, ok := preprocessors[kind]; !ok {
		return usage(kind, "unknown preprocessor")
	}
	if len(args) < 2 {
		return usage(kind, "expected a source and an output path")
	}
	src, err := stringArg(kind, args, 0)
	if err != nil {
		return err
	}
	out, err := stringArg(kind, args, 1)
	if err != nil {
		return err
	}
	opts, err := mapArg(kind, args, 2, false)
	if err != nil {
		return err
	}
	if p.options == nil {
		p.options = make(map[string]map[string]any)
	}
	if len(opts) > 0 {
		p.options[kind] = opts
	}
	p.assets = append(p.assets, asset{kind: kind, src: []string{src}, out: out})
	return nil
}

// kinds returns the preprocessors used, in first-use order.
func (p *Preprocessor) kinds() []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range p.assets {
		if !seen[a.kind] {
			seen[a.kind] = true
			out = append(out, a.kind)
		}
	}
	return out
}

func (p *Preprocessor) Dependencies(context.Context) ([]string, error) {
	var specs []string
	for _, kind := range p.kinds() {
		specs = append(specs, preprocessors[kind].deps...)
	}
	return specs, nil
}

func (p *Preprocessor) Entry(ctx context.Context, e *bundler.Entry) error {
	public := publicPathOf(ctx)
	for _, a := range p.assets {
		e.Add(entryName(public, a.out, a.src[0]), path.Clean(a.src[0]))
	}
	return nil
}

func (p *Preprocessor) Rules(context.Context) ([]bundler.Rule, error) {
	var rules []bundler.Rule
	for _, kind := range p.kinds() {
		rules = append(rules, bundler.Rule{
			Test: preprocessors[kind].test,
			Use: []bundler.Loader{
				{Loader: "mini-css-extract-plugin/loader"},
				{Loader: "css-loader"},
				{Loader: "postcss-loader"},
				{Loader: kind + "-loader", Options: p.options[kind]},
			},
		})
	}
	return rules, nil
}

func (p *Preprocessor) Plugins(context.Context) ([]bundler.Plugin, error) {
	return []bundler.Plugin{{
		Name:    "MiniCssExtractPlugin",
		Options: map[string]any{"filename": "[name].css"},
	}}, nil
}
