package deps

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// Checker reports whether a package is available to the build.
type Checker interface {
	Installed(name string) bool
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(name string) bool

// Installed calls f.
func (f CheckerFunc) Installed(name string) bool { return f(name) }

// PackageJSON checks dependencies and devDependencies of a package.json.
// Every lookup failure (missing file, invalid JSON) degrades to "not
// installed" instead of an error.
type PackageJSON struct {
	Path string
}

// NewPackageJSON returns a checker for <dir>/package.json.
func NewPackageJSON(dir string) PackageJSON {
	return PackageJSON{Path: filepath.Join(dir, "package.json")}
}

// Installed implements Checker.
func (p PackageJSON) Installed(name string) bool {
	raw, err := os.ReadFile(p.Path)
	if err != nil {
		slog.Debug("package.json not readable", "path", p.Path, "error", err)
		return false
	}
	if !gjson.ValidBytes(raw) {
		slog.Debug("package.json is not valid JSON", "path", p.Path)
		return false
	}

	// Keys are compared directly: package names may contain characters
	// ('@', '.') that gjson paths treat specially.
	found := false
	for _, section := range []string{"dependencies", "devDependencies"} {
		gjson.GetBytes(raw, section).ForEach(func(key, _ gjson.Result) bool {
			if key.String() == name {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}
