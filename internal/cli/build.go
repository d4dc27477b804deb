package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mixer/internal/deps"
	"github.com/roach88/mixer/internal/digest"
	"github.com/roach88/mixer/internal/mix"
	"github.com/roach88/mixer/internal/pipeline"
	"github.com/roach88/mixer/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Group     string
	Hot       bool
	Watch     bool
	Poll      bool
	Database  string
	Overrides []string
	Jobs      int
}

// BuiltConfig is one finished config in command output.
type BuiltConfig struct {
	Context string         `json:"context"`
	Digest  string         `json:"digest"`
	Config  map[string]any `json:"config"`
}

// BuildResult is the output of the build command.
type BuildResult struct {
	Manifest string        `json:"manifest"`
	Root     string        `json:"root"`
	Group    string        `json:"group,omitempty"`
	Configs  []BuiltConfig `json:"configs"`
	Queued   []string      `json:"queued"`
	Missing  []string      `json:"missing"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build [manifest]",
		Short: "Assemble every config described by a manifest",
		Long: `Assemble the bundler configs described by a manifest.

The manifest is replayed onto a fresh context tree, dependencies are
gathered and checked against package.json, and one config is built per
output context. Without an argument the project directory is searched for
mix.yaml, mix.yml or mix.cue.

Examples:
  mixer build
  mixer build ./mix.yaml --group admin
  mixer build --hot --set output.publicPath=/assets/
  mixer build --db ./builds.db --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", os.Getenv("MIX_GROUP"), "build only the named group (default $MIX_GROUP)")
	cmd.Flags().BoolVar(&opts.Hot, "hot", false, "build for hot module replacement")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "build for watch mode")
	cmd.Flags().BoolVar(&opts.Poll, "watch-poll", false, "build for watch mode with polling")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the build in this SQLite database")
	cmd.Flags().StringArrayVar(&opts.Overrides, "set", nil, "override a config path after assembly (path=json)")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "maximum parallel builds (0 = unbounded)")

	return cmd
}

func runBuild(ctx context.Context, opts *BuildOptions, cmd *cobra.Command, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	overrides := make([]pipeline.Override, 0, len(opts.Overrides))
	for _, s := range opts.Overrides {
		o, err := pipeline.ParseOverride(s)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeUsage, "invalid --set", err)
		}
		overrides = append(overrides, o)
	}

	path, err := resolveManifest(opts.RootOptions, args)
	if err != nil {
		return manifestNotFound(f, err)
	}

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
		}
		defer st.Close()
	}

	sess, err := openSession(ctx, f, path,
		mix.WithGroup(opts.Group),
		mix.WithHot(opts.Hot),
		mix.WithWatch(opts.Watch),
		mix.WithPolling(opts.Poll),
	)
	if err != nil {
		return err
	}

	res, runErr := pipeline.Run(ctx, sess.Root, pipeline.Options{
		Overrides:   overrides,
		Concurrency: opts.Jobs,
	})

	var buildID string
	if st != nil {
		buildID, err = recordBuild(ctx, st, path, opts.Group, sess.Root, res, runErr)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to record build", err)
		}
		f.VerboseLog("Recorded build %s in %s", buildID, opts.Database)
	}

	if runErr != nil {
		code := ErrCodeBuild
		if errors.Is(runErr, deps.ErrReloadRequired) {
			code = ErrCodeReload
		}
		return f.Fail(ExitFailure, code, "build failed", runErr)
	}

	result := BuildResult{
		Manifest: path,
		Root:     sess.Root.Name(),
		Group:    opts.Group,
		Configs:  make([]BuiltConfig, 0, len(res.Configs)),
		Queued:   specs(res.Dependencies.Queued),
		Missing:  specs(res.Dependencies.Missing),
	}
	for _, b := range res.Configs {
		result.Configs = append(result.Configs, BuiltConfig{Context: b.Context, Digest: b.Digest, Config: b.Config})
	}

	if opts.Format == "json" {
		return f.SuccessWithBuild(buildID, result)
	}
	return outputBuildText(cmd, result, buildID)
}

// recordBuild persists the ledger and configs of one run. A failed run is
// recorded with its error and no configs.
func recordBuild(ctx context.Context, st *store.Store, path, group string, root *mix.Context, res *pipeline.Result, runErr error) (string, error) {
	b := &store.Build{
		Manifest: path,
		Root:     root.Name(),
		Group:    group,
		Status:   store.StatusOK,
	}

	var records []store.VerbRecord
	for _, e := range root.Ledger() {
		records = append(records, store.VerbRecord{
			Seq:       e.Seq,
			Context:   e.Context,
			Verb:      e.Verb,
			Component: e.Component,
			Args:      store.MarshalArgs(e.Args),
		})
	}

	var configs []store.ConfigRecord
	if runErr != nil {
		b.Status = store.StatusFailed
		b.Error = runErr.Error()
	} else {
		for i, built := range res.Configs {
			raw, err := digest.Marshal(built.Config)
			if err != nil {
				return "", fmt.Errorf("encode %s: %w", built.Context, err)
			}
			configs = append(configs, store.ConfigRecord{
				Position: i,
				Context:  built.Context,
				Digest:   built.Digest,
				Config:   raw,
			})
		}
	}

	if err := st.WriteBuild(ctx, b, records, configs); err != nil {
		return "", err
	}
	return b.ID, nil
}

func specs(ds []deps.Dependency) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Spec)
	}
	return out
}

func outputBuildText(cmd *cobra.Command, result BuildResult, buildID string) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Built %d config(s) from %s\n", len(result.Configs), result.Manifest)
	for _, c := range result.Configs {
		fmt.Fprintf(w, "  %-24s %s\n", c.Context, digest.Short(c.Digest))
	}
	if len(result.Missing) > 0 {
		fmt.Fprintf(w, "Missing dependencies: %s\n", strings.Join(result.Missing, " "))
	}
	if buildID != "" {
		fmt.Fprintf(w, "Build ID: %s\n", buildID)
	}
	return nil
}
