package components

import (
	"context"

	"github.com/roach88/mixer/internal/bundler"
)

// Version appends a content hash to emitted file names and writes a
// manifest mapping plain names to hashed ones.
//
//	version([files])
type Version struct {
	files []string
}

func (v *Version) Names() []string { return []string{"version"} }

func (v *Version) Register(args ...any) error {
	for _, arg := range args {
		files, err := stringsArg("version", arg)
		if err != nil {
			return err
		}
		v.files = append(v.files, files...)
	}
	return nil
}

func (v *Version) Plugins(context.Context) ([]bundler.Plugin, error) {
	opts := map[string]any{"manifest": "mix-manifest.json"}
	if len(v.files) > 0 {
		files := make([]any, len(v.files))
		for i, f := range v.files {
			files[i] = f
		}
		opts["files"] = files
	}
	return []bundler.Plugin{{Name: "ManifestPlugin", Options: opts}}, nil
}

func (v *Version) ConfigReady(_ context.Context, cfg *bundler.Config) error {
	return cfg.Set("output.filename", "[name].js?id=[contenthash]")
}
