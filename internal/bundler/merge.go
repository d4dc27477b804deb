package bundler

import "github.com/mohae/deepcopy"

// Merge deep-merges src into dst and returns dst.
//
// Nested maps merge key by key. Slices concatenate (dst elements first).
// Any other src value replaces the dst value. src is deep-copied first so
// later mutation of dst never reaches back into a component's fragment.
// A nil dst is allocated.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	if len(src) == 0 {
		return dst
	}

	cp, _ := deepcopy.Copy(src).(map[string]any)
	mergeInto(dst, cp)
	return dst
}

func mergeInto(dst, src map[string]any) {
	for k, sv := range src {
		dv, exists := dst[k]
		if !exists {
			dst[k] = sv
			continue
		}
		dst[k] = mergeValue(dv, sv)
	}
}

func mergeValue(dv, sv any) any {
	switch s := sv.(type) {
	case map[string]any:
		if d, ok := asMap(dv); ok {
			mergeInto(d, s)
			return dv
		}
	case Fragment:
		if d, ok := asMap(dv); ok {
			mergeInto(d, map[string]any(s))
			return dv
		}
	case []any:
		if d, ok := dv.([]any); ok {
			out := make([]any, 0, len(d)+len(s))
			out = append(out, d...)
			return append(out, s...)
		}
	case []string:
		if d, ok := dv.([]string); ok {
			out := make([]string, 0, len(d)+len(s))
			out = append(out, d...)
			return append(out, s...)
		}
	}
	return sv
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Fragment:
		return map[string]any(m), true
	}
	return nil, false
}
