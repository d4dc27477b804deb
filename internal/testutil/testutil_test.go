package testutil

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestFixedIDGeneratorDefault(t *testing.T) {
	g := NewFixedIDGenerator("")
	assert.Equal(t, "test-build-default", g.Generate())
	assert.Equal(t, "test-build-default", g.Generate())
}

func TestFixedIDGeneratorConcurrent(t *testing.T) {
	g := NewFixedIDGenerator("build-1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "build-1", g.Generate())
		}()
	}
	wg.Wait()
}

func TestProjectWritesFiles(t *testing.T) {
	p := NewProject(t)
	path := p.WriteFile(t, "resources/js/app.js", "console.log('hi')\n")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "console.log('hi')\n", string(data))
}

func TestProjectPackageJSON(t *testing.T) {
	p := NewProject(t)
	path := p.WritePackageJSON(t, "vue-loader", "@vue/compiler-sfc")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(data, "private").Bool())
	assert.Equal(t, "*", gjson.GetBytes(data, "devDependencies.vue-loader").String())
	assert.True(t, gjson.GetBytes(data, `devDependencies.\@vue/compiler-sfc`).Exists())
}

func TestProjectMakeLaravel(t *testing.T) {
	p := NewProject(t)
	p.MakeLaravel(t)

	_, err := os.Stat(p.Path("artisan"))
	assert.NoError(t, err)
}
