package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/mixer/internal/component"
	"github.com/roach88/mixer/internal/components"
	"github.com/roach88/mixer/internal/deps"
	"github.com/roach88/mixer/internal/manifest"
	"github.com/roach88/mixer/internal/mix"
)

// session is a loaded manifest replayed onto a fresh context tree.
type session struct {
	Manifest *manifest.Manifest
	Root     *mix.Context
	WorkDir  string
}

// newFormatter builds the formatter for cmd.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// resolveManifest returns the manifest path: the argument when given,
// otherwise the first default name found in the project directory.
func resolveManifest(opts *RootOptions, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	return manifest.Discover(dir)
}

// openSession loads the manifest at path and replays it. Failures are
// reported through f and returned as ExitErrors.
func openSession(ctx context.Context, f *OutputFormatter, path string, extra ...mix.Option) (*session, error) {
	m, err := manifest.Load(path)
	if err != nil {
		var le *manifest.LoadError
		if errors.As(err, &le) {
			return nil, f.Fail(ExitCommandError, le.Code, "cannot load manifest", err)
		}
		return nil, f.Fail(ExitCommandError, ErrCodeGeneric, "cannot load manifest", err)
	}

	workDir := filepath.Dir(path)
	opts := append([]mix.Option{
		mix.WithWorkDir(workDir),
		mix.WithFactories(components.Defaults()...),
		mix.WithChecker(deps.NewPackageJSON(workDir)),
	}, extra...)
	root := mix.New(m.Name, opts...)

	f.VerboseLog("Loaded %s: %d call(s), %d group(s)", path, m.CallCount(), len(m.Groups))

	if err := m.Apply(ctx, root); err != nil {
		return nil, f.Fail(ExitFailure, applyErrorCode(err), fmt.Sprintf("cannot apply %s", filepath.Base(path)), err)
	}
	return &session{Manifest: m, Root: root, WorkDir: workDir}, nil
}

func applyErrorCode(err error) string {
	switch {
	case mix.IsUsageError(err):
		return ErrCodeUsage
	case errors.Is(err, component.ErrUnknownVerb):
		return ErrCodeUsage
	default:
		return ErrCodeBuild
	}
}

// manifestNotFound reports a failed manifest lookup.
func manifestNotFound(f *OutputFormatter, err error) error {
	return f.Fail(ExitCommandError, ErrCodeNotFound, "manifest not found", err)
}
