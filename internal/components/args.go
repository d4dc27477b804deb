package components

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/roach88/mixer/internal/bundler"
	"github.com/roach88/mixer/internal/mix"
)

func usage(verb, format string, a ...any) error {
	return &mix.UsageError{Verb: verb, Message: fmt.Sprintf(format, a...)}
}

// stringArg returns args[i] as a string.
func stringArg(verb string, args []any, i int) (string, error) {
	if i >= len(args) {
		return "", usage(verb, "missing argument %d", i+1)
	}
	s, ok := args[i].(string)
	if !ok || s == "" {
		return "", usage(verb, "argument %d must be a non-empty string, got %T", i+1, args[i])
	}
	return s, nil
}

// optionalString returns args[i] as a string, or def when absent.
func optionalString(verb string, args []any, i int, def string) (string, error) {
	if i >= len(args) || args[i] == nil {
		return def, nil
	}
	return stringArg(verb, args, i)
}

// stringsArg accepts a single string or a list of strings.
func stringsArg(verb string, v any) ([]string, error) {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil, usage(verb, "empty path")
		}
		return []string{val}, nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, usage(verb, "list item %d must be a string, got %T", i+1, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, usage(verb, "expected a string or a list of strings, got %T", v)
	}
}

// mapArg returns args[i] as a map. A missing optional map is empty.
func mapArg(verb string, args []any, i int, required bool) (map[string]any, error) {
	if i >= len(args) || args[i] == nil {
		if required {
			return nil, usage(verb, "missing argument %d", i+1)
		}
		return map[string]any{}, nil
	}
	switch m := args[i].(type) {
	case map[string]any:
		return m, nil
	case bundler.Fragment:
		return m, nil
	default:
		return nil, usage(verb, "argument %d must be a map, got %T", i+1, args[i])
	}
}

// intValue accepts the integer shapes YAML and JSON decoders produce.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

// settingsOf returns the settings of the build context carried by ctx.
func settingsOf(ctx context.Context) *mix.Settings {
	if c := mix.FromContext(ctx); c != nil {
		return c.Settings()
	}
	return mix.NewSettings()
}

func publicPathOf(ctx context.Context) string {
	return settingsOf(ctx).String(mix.ToolMix, "publicPath", bundler.DefaultPublicPath)
}

// entryName derives the entry name for src compiled into the output
// directory out: out relative to the public path, joined with src's base
// name without extension.
func entryName(publicPath, out, src string) string {
	out = path.Clean(out)
	if ext := path.Ext(out); ext != "" {
		// out names a file rather than a directory
		return strings.TrimSuffix(relativeTo(publicPath, out), ext)
	}
	base := strings.TrimSuffix(path.Base(src), path.Ext(src))
	return path.Join(relativeTo(publicPath, out), base)
}

func relativeTo(publicPath, p string) string {
	publicPath = path.Clean(publicPath)
	if publicPath == "." {
		return p
	}
	if p == publicPath {
		return "."
	}
	return strings.TrimPrefix(p, publicPath+"/")
}
