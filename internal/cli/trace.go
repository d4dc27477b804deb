package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/mixer/internal/digest"
	"github.com/roach88/mixer/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	BuildID  string // empty means the latest build
	List     bool
	Digest   string
}

// TraceCall is one verb call of a recorded build.
type TraceCall struct {
	Seq       int64           `json:"seq"`
	Context   string          `json:"context"`
	Verb      string          `json:"verb"`
	Component string          `json:"component"`
	Args      json.RawMessage `json:"args"`
}

// TraceConfig is one recorded config.
type TraceConfig struct {
	BuildID  string `json:"build_id"`
	Position int    `json:"position"`
	Context  string `json:"context"`
	Digest   string `json:"digest"`
}

// TraceResult is the output of the trace command for one build.
type TraceResult struct {
	Build   store.Build   `json:"build"`
	Calls   []TraceCall   `json:"calls"`
	Configs []TraceConfig `json:"configs"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show recorded builds",
		Long: `Show builds recorded with "mixer build --db".

For one build (the latest unless --build is given) the verb calls are
listed in the order they were made, followed by the configs produced.

Examples:
  mixer trace --db ./builds.db
  mixer trace --db ./builds.db --list
  mixer trace --db ./builds.db --build 0192f3c4-...
  mixer trace --db ./builds.db --digest 3f2a... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.BuildID, "build", "", "build id (default: latest)")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list every recorded build")
	cmd.Flags().StringVar(&opts.Digest, "digest", "", "find configs with this digest across builds")

	return cmd
}

func runTrace(ctx context.Context, opts *TraceOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	switch {
	case opts.List:
		builds, err := st.ListBuilds(ctx)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to list builds", err)
		}
		if opts.Format == "json" {
			return f.Success(builds)
		}
		return outputBuildList(cmd.OutOrStdout(), builds)

	case opts.Digest != "":
		recs, err := st.FindConfigs(ctx, opts.Digest)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to find configs", err)
		}
		configs := traceConfigs(recs)
		if opts.Format == "json" {
			return f.Success(configs)
		}
		w := cmd.OutOrStdout()
		if len(configs) == 0 {
			fmt.Fprintf(w, "No configs with digest %s\n", opts.Digest)
			return nil
		}
		for _, c := range configs {
			fmt.Fprintf(w, "  %s  %s  #%d\n", c.BuildID, c.Context, c.Position)
		}
		return nil
	}

	var b store.Build
	if opts.BuildID != "" {
		b, err = st.ReadBuild(ctx, opts.BuildID)
	} else {
		b, err = st.LatestBuild(ctx)
	}
	if errors.Is(err, store.ErrNotFound) {
		if opts.BuildID == "" && opts.Format != "json" {
			fmt.Fprintln(cmd.OutOrStdout(), "No builds recorded")
			return nil
		}
		return f.Fail(ExitCommandError, ErrCodeNotFound, "build not found", err)
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to read build", err)
	}

	records, err := st.ReadRecords(ctx, b.ID)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to read verb records", err)
	}
	configs, err := st.ReadConfigs(ctx, b.ID)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to read configs", err)
	}

	result := TraceResult{
		Build:   b,
		Calls:   make([]TraceCall, 0, len(records)),
		Configs: traceConfigs(configs),
	}
	for _, r := range records {
		result.Calls = append(result.Calls, TraceCall{
			Seq:       r.Seq,
			Context:   r.Context,
			Verb:      r.Verb,
			Component: r.Component,
			Args:      json.RawMessage(r.Args),
		})
	}

	if opts.Format == "json" {
		return f.SuccessWithBuild(b.ID, result)
	}
	return outputTraceText(cmd.OutOrStdout(), result, opts.Verbose)
}

func traceConfigs(recs []store.ConfigRecord) []TraceConfig {
	out := make([]TraceConfig, 0, len(recs))
	for _, c := range recs {
		out = append(out, TraceConfig{
			BuildID:  c.BuildID,
			Position: c.Position,
			Context:  c.Context,
			Digest:   c.Digest,
		})
	}
	return out
}

func outputBuildList(w io.Writer, builds []store.Build) error {
	if len(builds) == 0 {
		fmt.Fprintln(w, "No builds recorded")
		return nil
	}
	for _, b := range builds {
		fmt.Fprintf(w, "[%d] %s %-6s %s (%d config(s))\n", b.Seq, b.ID, b.Status, b.Root, b.ConfigCount)
	}
	return nil
}

// outputTraceText outputs the trace result as text.
func outputTraceText(w io.Writer, result TraceResult, verbose bool) error {
	b := result.Build

	fmt.Fprintf(w, "Build: %s\n", b.ID)
	fmt.Fprintf(w, "Manifest: %s\n", b.Manifest)
	if b.Group != "" {
		fmt.Fprintf(w, "Group: %s\n", b.Group)
	}
	fmt.Fprintf(w, "Status: %s\n", b.Status)
	if b.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", b.Error)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Calls ===")
	if len(result.Calls) == 0 {
		fmt.Fprintln(w, "  (no calls)")
	}
	for _, c := range result.Calls {
		fmt.Fprintf(w, "  [%d] %s %s\n", c.Seq, c.Context, c.Verb)
		if verbose {
			fmt.Fprintf(w, "       Component: %s\n", c.Component)
			fmt.Fprintf(w, "       Args: %s\n", c.Args)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Configs ===")
	if len(result.Configs) == 0 {
		fmt.Fprintln(w, "  (no configs)")
	}
	for _, c := range result.Configs {
		fmt.Fprintf(w, "  %s %s\n", c.Context, digest.Short(c.Digest))
	}
	return nil
}
