package bundler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_NestedMapsMergeKeyByKey(t *testing.T) {
	dst := map[string]any{
		"resolve": map[string]any{"alias": map[string]any{"@": "resources/js"}},
	}
	src := map[string]any{
		"resolve": map[string]any{"alias": map[string]any{"~": "node_modules"}},
	}

	out := Merge(dst, src)

	alias := out["resolve"].(map[string]any)["alias"].(map[string]any)
	assert.Equal(t, "resources/js", alias["@"])
	assert.Equal(t, "node_modules", alias["~"])
}

func TestMerge_ArraysConcatenate(t *testing.T) {
	dst := map[string]any{"resolve": map[string]any{"extensions": []any{".js"}}}
	src := map[string]any{"resolve": map[string]any{"extensions": []any{".vue", ".ts"}}}

	out := Merge(dst, src)

	ext := out["resolve"].(map[string]any)["extensions"]
	assert.Equal(t, []any{".js", ".vue", ".ts"}, ext)
}

func TestMerge_StringSlicesConcatenate(t *testing.T) {
	dst := map[string]any{"externals": []string{"jquery"}}
	src := map[string]any{"externals": []string{"vue"}}

	out := Merge(dst, src)
	assert.Equal(t, []string{"jquery", "vue"}, out["externals"])
}

func TestMerge_ScalarsReplace(t *testing.T) {
	dst := map[string]any{"devtool": "eval", "stats": map[string]any{"children": true}}
	src := map[string]any{"devtool": "source-map", "stats": "minimal"}

	out := Merge(dst, src)
	assert.Equal(t, "source-map", out["devtool"])
	assert.Equal(t, "minimal", out["stats"])
}

func TestMerge_NilDstAllocated(t *testing.T) {
	out := Merge(nil, map[string]any{"a": 1})
	require.NotNil(t, out)
	assert.Equal(t, 1, out["a"])

	empty := Merge(nil, nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMerge_SourceIsNotAliased(t *testing.T) {
	inner := map[string]any{"x": 1}
	src := map[string]any{"nested": inner}

	out := Merge(nil, src)
	out["nested"].(map[string]any)["x"] = 2

	assert.Equal(t, 1, inner["x"], "mutating the merge result must not reach the source fragment")
}

func TestMerge_FragmentValues(t *testing.T) {
	dst := Fragment{"resolve": Fragment{"alias": map[string]any{"a": "1"}}}
	src := Fragment{"resolve": map[string]any{"alias": map[string]any{"b": "2"}}}

	out := Merge(dst, src)
	alias := out["resolve"].(Fragment)["alias"].(map[string]any)
	assert.Equal(t, map[string]any{"a": "1", "b": "2"}, alias)
}
