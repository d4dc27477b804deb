package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mixer/internal/deps"
	"github.com/roach88/mixer/internal/mix"
)

// ValidateResult is the output of the validate command.
type ValidateResult struct {
	Valid          bool     `json:"valid"`
	Manifest       string   `json:"manifest"`
	Name           string   `json:"name"`
	Framework      string   `json:"framework,omitempty"`
	Verbs          []string `json:"verbs"`
	Contexts       []string `json:"contexts"`
	Queued         []string `json:"queued"`
	Missing        []string `json:"missing"`
	ReloadRequired bool     `json:"reload_required"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [manifest]",
		Short: "Check a manifest without building",
		Long: `Check a manifest without building any config.

Every call is replayed so unknown verbs and bad arguments are reported.
Dependencies are gathered and checked against package.json; missing
packages are listed but do not fail validation.

Examples:
  mixer validate
  mixer validate ./mix.cue --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), rootOpts, cmd, args)
		},
	}
	return cmd
}

func runValidate(ctx context.Context, opts *RootOptions, cmd *cobra.Command, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts, cmd)

	path, err := resolveManifest(opts, args)
	if err != nil {
		return manifestNotFound(f, err)
	}

	sess, err := openSession(ctx, f, path)
	if err != nil {
		return err
	}
	root := sess.Root
	if err := root.Boot(ctx); err != nil {
		return f.Fail(ExitFailure, ErrCodeBuild, "boot failed", err)
	}

	q := deps.NewQueue()
	if err := root.GatherDependencies(ctx, q); err != nil {
		return f.Fail(ExitFailure, ErrCodeBuild, "dependency gathering failed", err)
	}
	report, err := q.Flush(root.Options().Checker)
	if err != nil && !errors.Is(err, deps.ErrReloadRequired) {
		return f.Fail(ExitFailure, ErrCodeBuild, "dependency check failed", err)
	}

	result := ValidateResult{
		Valid:          true,
		Manifest:       path,
		Name:           sess.Manifest.Name,
		Framework:      root.Framework(),
		Verbs:          sess.Manifest.Verbs(),
		Queued:         specs(report.Queued),
		Missing:        specs(report.Missing),
		ReloadRequired: report.ReloadRequired(),
	}
	root.Walk(func(c *mix.Context) {
		result.Contexts = append(result.Contexts, c.Path())
	})

	if opts.Format == "json" {
		return f.Success(result)
	}
	return outputValidateText(cmd, result)
}

func outputValidateText(cmd *cobra.Command, result ValidateResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "✓ %s is valid\n", result.Manifest)
	fmt.Fprintf(w, "  Contexts: %s\n", strings.Join(result.Contexts, ", "))
	fmt.Fprintf(w, "  Verbs:    %s\n", strings.Join(result.Verbs, ", "))
	if len(result.Missing) > 0 {
		fmt.Fprintf(w, "  Missing:  %s\n", strings.Join(result.Missing, " "))
		if result.ReloadRequired {
			fmt.Fprintln(w, "  Install the missing packages before building.")
		}
	}
	return nil
}
