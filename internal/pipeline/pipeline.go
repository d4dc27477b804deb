// Package pipeline assembles the finished configs of a context tree.
//
// Run performs, in order: boot check, dependency gathering, dependency
// flush, init, then the build operations yielded by the root. Builds run
// concurrently; results keep the order in which they were yielded.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/mixer/internal/bundler"
	"github.com/roach88/mixer/internal/deps"
	"github.com/roach88/mixer/internal/digest"
	"github.com/roach88/mixer/internal/mix"
)

// Override sets one config path after configReady. Value is raw JSON; a
// value that is not valid JSON is stored as a string.
type Override struct {
	Path  string
	Value string
}

// ParseOverride parses "path=value".
func ParseOverride(s string) (Override, error) {
	path, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(path) == "" {
		return Override{}, fmt.Errorf("invalid override %q: expected path=value", s)
	}
	return Override{Path: strings.TrimSpace(path), Value: value}, nil
}

// Options tunes Run.
type Options struct {
	// Checker reports installed packages. Nil means the root's checker,
	// and when that is nil too every package counts as installed.
	Checker deps.Checker

	// Overrides are applied to every built config, in order.
	Overrides []Override

	// Concurrency bounds parallel builds. Zero or less means unbounded.
	Concurrency int
}

// Built is one finished config.
type Built struct {
	Context string
	Config  bundler.Config
	Digest  string
}

// Result is the output of one pipeline run.
type Result struct {
	Configs      []Built
	Dependencies deps.Report
}

// Run assembles every config of root's tree.
func Run(ctx context.Context, root *mix.Context, opts Options) (*Result, error) {
	if !root.Booted() {
		slog.WarnContext(ctx, "pipeline started before boot; booting now", "context", root.Name())
		if err := root.Boot(ctx); err != nil {
			return nil, err
		}
	}

	q := deps.NewQueue()
	if err := root.GatherDependencies(ctx, q); err != nil {
		return nil, err
	}

	checker := opts.Checker
	if checker == nil {
		checker = root.Options().Checker
	}
	report, err := q.Flush(checker)
	if err != nil {
		return nil, err
	}

	if err := root.Init(ctx); err != nil {
		return nil, err
	}

	var slots []*Built
	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for op := range root.BuildConfigs() {
		slot := &Built{Context: op.Context.Path()}
		slots = append(slots, slot)
		g.Go(func() error {
			built, err := runOp(gctx, op, opts.Overrides)
			if err != nil {
				return err
			}
			*slot = built
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]Built, len(slots))
	for i, slot := range slots {
		results[i] = *slot
	}

	if len(results) == 0 {
		group := root.Options().Group
		if group != "" {
			return nil, fmt.Errorf("no group named %q", group)
		}
	}

	slog.DebugContext(ctx, "pipeline finished",
		"configs", len(results),
		"dependencies", len(report.Queued),
		"missing", len(report.Missing),
	)
	return &Result{Configs: results, Dependencies: report}, nil
}

func runOp(ctx context.Context, op mix.BuildOp, overrides []Override) (Built, error) {
	cfg, err := op.Run(ctx)
	if err != nil {
		return Built{}, err
	}
	for _, o := range overrides {
		if err := cfg.SetRaw(o.Path, o.Value); err != nil {
			return Built{}, fmt.Errorf("override %s in %s: %w", o.Path, op.Context.Path(), err)
		}
	}
	sum, err := digest.Config(cfg)
	if err != nil {
		return Built{}, fmt.Errorf("%s: %w", op.Context.Path(), err)
	}
	return Built{Context: op.Context.Path(), Config: cfg, Digest: sum}, nil
}
