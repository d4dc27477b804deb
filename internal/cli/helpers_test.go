package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/mixer/internal/testutil"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decode unmarshals a JSON CLIResponse, with data decoded into data.
func decode(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var resp struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	if data != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp.CLIResponse
}

const groupedManifest = `name: app
calls:
  - verb: disableNotifications
groups:
  - name: admin
    calls:
      - verb: js
        args: [resources/admin.js, public/admin]
  - name: site
    calls:
      - verb: js
        args: [resources/site.js, public/site]
`

// groupedProject is a project with two groups and every package they
// need installed.
func groupedProject(t *testing.T) *testutil.Project {
	t.Helper()
	p := testutil.NewProject(t)
	p.WriteFile(t, "mix.yaml", groupedManifest)
	p.WritePackageJSON(t, "webpack-notifier")
	return p
}
