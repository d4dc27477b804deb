package mix

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Detector names the host framework of a project directory, or returns ""
// when none is recognized. Detection never fails; lookup errors mean "not
// detected".
type Detector func(workDir string) string

// FrameworkLaravel is reported when an artisan script is present.
const FrameworkLaravel = "laravel"

// DetectFramework recognizes Laravel projects by their artisan script.
func DetectFramework(workDir string) string {
	info, err := os.Stat(filepath.Join(workDir, "artisan"))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Debug("framework detection failed", "dir", workDir, "error", err)
		}
		return ""
	}
	if info.IsDir() {
		return ""
	}
	return FrameworkLaravel
}

// frameworkDefaults returns the "mix" settings a framework implies.
func frameworkDefaults(framework string) map[string]any {
	switch framework {
	case FrameworkLaravel:
		return map[string]any{"publicPath": "public"}
	default:
		return nil
	}
}
