package bundler

import "sort"

// Entry is an ordered set of named entry points. Names keep the order in
// which they were first added; paths for one name accumulate.
type Entry struct {
	names  []string
	points map[string][]string
}

// NewEntry creates an empty entry set.
func NewEntry() *Entry {
	return &Entry{points: make(map[string][]string)}
}

// Add appends paths to the entry point name, creating it if needed.
func (e *Entry) Add(name string, paths ...string) {
	if _, ok := e.points[name]; !ok {
		e.names = append(e.names, name)
		e.points[name] = nil
	}
	e.points[name] = append(e.points[name], paths...)
}

// Get returns the paths registered for name.
func (e *Entry) Get(name string) []string {
	return e.points[name]
}

// Names returns entry names in insertion order.
func (e *Entry) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Len returns the number of entry names.
func (e *Entry) Len() int {
	return len(e.names)
}

// Map renders the entry set as a config value.
func (e *Entry) Map() map[string]any {
	m := make(map[string]any, len(e.names))
	for _, name := range e.names {
		paths := make([]any, len(e.points[name]))
		for i, p := range e.points[name] {
			paths[i] = p
		}
		m[name] = paths
	}
	return m
}

// Loader is one loader applied by a rule.
type Loader struct {
	Loader  string
	Options map[string]any
}

// Rule is a module rule: files matching Test are processed by Use, in order.
type Rule struct {
	Test    string
	Exclude string
	Use     []Loader
}

// Map renders the rule as a config value.
func (r Rule) Map() map[string]any {
	m := map[string]any{"test": r.Test}
	if r.Exclude != "" {
		m["exclude"] = r.Exclude
	}
	use := make([]any, len(r.Use))
	for i, l := range r.Use {
		lm := map[string]any{"loader": l.Loader}
		if len(l.Options) > 0 {
			lm["options"] = l.Options
		}
		use[i] = lm
	}
	m["use"] = use
	return m
}

// Plugin is a named plugin with its options.
type Plugin struct {
	Name    string
	Options map[string]any
}

// Map renders the plugin as a config value.
func (p Plugin) Map() map[string]any {
	m := map[string]any{"name": p.Name}
	if len(p.Options) > 0 {
		m["options"] = p.Options
	}
	return m
}

// Fragment is a free-form partial config contributed by a component during
// init. Fragments are combined with Merge.
type Fragment map[string]any

// Keys returns the fragment's top-level keys, sorted.
func (f Fragment) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
