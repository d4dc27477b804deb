package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mixer/internal/testutil"
)

func TestValidateText(t *testing.T) {
	p := groupedProject(t)

	out, err := execute(t, "-C", p.Dir, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "Contexts: app, app/admin, app/site")
	assert.Contains(t, out, "Verbs:    disableNotifications, js")
	assert.NotContains(t, out, "Missing")
}

func TestValidateReportsMissingDependencies(t *testing.T) {
	p := testutil.NewProject(t)
	p.WriteFile(t, "mix.yaml", `name: app
calls:
  - verb: disableNotifications
  - verb: vue
`)

	out, err := execute(t, "--format", "json", "-C", p.Dir, "validate")
	require.NoError(t, err)

	var result ValidateResult
	decode(t, out, &result)
	assert.True(t, result.Valid)
	assert.True(t, result.ReloadRequired)
	assert.Contains(t, result.Missing, "vue-loader@^16.2.0")
	assert.Equal(t, []string{"app"}, result.Contexts)
}

func TestValidateLaravel(t *testing.T) {
	p := groupedProject(t)
	p.MakeLaravel(t)

	out, err := execute(t, "--format", "json", "-C", p.Dir, "validate")
	require.NoError(t, err)

	var result ValidateResult
	decode(t, out, &result)
	assert.Equal(t, "laravel", result.Framework)
}

func TestValidateUnknownVerb(t *testing.T) {
	p := testutil.NewProject(t)
	p.WriteFile(t, "mix.yaml", "name: app\ncalls:\n  - verb: bogus\n")

	out, err := execute(t, "-C", p.Dir, "validate")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E201]")
	assert.Contains(t, out, "bogus")
}

func TestValidateUsageError(t *testing.T) {
	p := testutil.NewProject(t)
	p.WriteFile(t, "mix.yaml", "name: app\ncalls:\n  - verb: vue\n    args: [{version: 4}]\n")

	out, err := execute(t, "-C", p.Dir, "validate")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E201]")
}

func TestValidateParseError(t *testing.T) {
	p := testutil.NewProject(t)
	p.WriteFile(t, "mix.yaml", "name: app\nunknown: true\n")

	out, err := execute(t, "-C", p.Dir, "validate")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E102]")
}

func TestValidateCUE(t *testing.T) {
	p := testutil.NewProject(t)
	p.WriteFile(t, "mix.cue", `name: "app"
calls: [{verb: "js", args: ["resources/js/app.js", "public/js"]}]
groups: [{name: "admin", calls: [{verb: "sass", args: ["resources/admin.scss", "public/css"]}]}]
`)

	out, err := execute(t, "--format", "json", "-C", p.Dir, "validate")
	require.NoError(t, err)

	var result ValidateResult
	decode(t, out, &result)
	assert.Equal(t, []string{"app", "app/admin"}, result.Contexts)
	assert.Equal(t, []string{"js", "sass"}, result.Verbs)
	assert.Contains(t, result.Queued, "sass-loader@^12.1.0")
}

func TestValidateManifestNotFound(t *testing.T) {
	out, err := execute(t, "-C", t.TempDir(), "validate")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}
