package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mixer/internal/mix"
	"github.com/roach88/mixer/internal/pipeline"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Context string
	Query   string
	Group   string
	Hot     bool
}

// InspectedConfig is one config, or one queried value of it.
type InspectedConfig struct {
	Context string          `json:"context"`
	Value   json.RawMessage `json:"value"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [manifest]",
		Short: "Print assembled configs",
		Long: `Assemble the configs of a manifest and print them.

--context selects one build context by path (e.g. app/admin).
--query prints only the value at a gjson path (e.g. output.publicPath,
module.rules.#, plugins.#.name).

Examples:
  mixer inspect
  mixer inspect --context app/admin
  mixer inspect --query module.rules.#.test`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Context, "context", "", "only the config built by this context path")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "gjson path to print instead of the whole config")
	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "build only the named group")
	cmd.Flags().BoolVar(&opts.Hot, "hot", false, "build for hot module replacement")

	return cmd
}

func runInspect(ctx context.Context, opts *InspectOptions, cmd *cobra.Command, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	path, err := resolveManifest(opts.RootOptions, args)
	if err != nil {
		return manifestNotFound(f, err)
	}

	sess, err := openSession(ctx, f, path, mix.WithGroup(opts.Group), mix.WithHot(opts.Hot))
	if err != nil {
		return err
	}

	res, err := pipeline.Run(ctx, sess.Root, pipeline.Options{})
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeBuild, "build failed", err)
	}

	var out []InspectedConfig
	for _, b := range res.Configs {
		if opts.Context != "" && b.Context != opts.Context {
			continue
		}
		var raw []byte
		if opts.Query != "" {
			r := b.Config.Get(opts.Query)
			if !r.Exists() {
				return f.Fail(ExitFailure, ErrCodeQuery, fmt.Sprintf("%s: no value at %q", b.Context, opts.Query), nil)
			}
			raw = []byte(r.Raw)
		} else {
			raw, err = b.Config.JSON()
			if err != nil {
				return f.Fail(ExitFailure, ErrCodeBuild, "encode config", err)
			}
		}
		out = append(out, InspectedConfig{Context: b.Context, Value: raw})
	}
	if len(out) == 0 {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no config built by context %q", opts.Context), nil)
	}

	if opts.Format == "json" {
		return f.Success(out)
	}

	w := cmd.OutOrStdout()
	for _, c := range out {
		if len(out) > 1 {
			fmt.Fprintf(w, "// %s\n", c.Context)
		}
		w.Write(c.Value)
		if n := len(c.Value); n == 0 || c.Value[n-1] != '\n' {
			fmt.Fprintln(w)
		}
	}
	return nil
}
