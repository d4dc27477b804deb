// Package manifest loads build manifests: the declarative list of verb
// calls and groups that configures a context tree.
//
// Manifests are YAML (mix.yaml, mix.yml) or CUE (mix.cue) with the same
// shape:
//
//	name: app
//	calls:
//	  - verb: js
//	    args: [resources/js/app.js, public/js]
//	groups:
//	  - name: admin
//	    calls:
//	      - verb: vue
package manifest

import (
	"fmt"
)

// Manifest is a parsed build manifest.
type Manifest struct {
	// Name names the root context.
	Name string `yaml:"name" json:"name"`

	// Description is free text shown by validate.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Calls are replayed on the root context in order.
	Calls []Call `yaml:"calls,omitempty" json:"calls,omitempty"`

	// Groups each create one child context.
	Groups []Group `yaml:"groups,omitempty" json:"groups,omitempty"`

	// Path is the file the manifest was loaded from.
	Path string `yaml:"-" json:"-"`
}

// Call is one verb invocation.
type Call struct {
	Verb string `yaml:"verb" json:"verb"`
	Args []any  `yaml:"args,omitempty" json:"args,omitempty"`
}

// Group is a named child context with its own calls and nested groups.
type Group struct {
	Name   string  `yaml:"name" json:"name"`
	Calls  []Call  `yaml:"calls,omitempty" json:"calls,omitempty"`
	Groups []Group `yaml:"groups,omitempty" json:"groups,omitempty"`
}

// Validate checks the manifest structure. Verb names are checked when the
// manifest is applied, against the verbs actually published.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := validateCalls("calls", m.Calls); err != nil {
		return err
	}
	return validateGroups("groups", m.Groups)
}

func validateCalls(where string, calls []Call) error {
	for i, c := range calls {
		if c.Verb == "" {
			return fmt.Errorf("%s[%d]: verb is required", where, i)
		}
	}
	return nil
}

func validateGroups(where string, groups []Group) error {
	seen := make(map[string]bool, len(groups))
	for i, g := range groups {
		loc := fmt.Sprintf("%s[%d]", where, i)
		if g.Name == "" {
			return fmt.Errorf("%s: name is required", loc)
		}
		if seen[g.Name] {
			return fmt.Errorf("%s: duplicate group %q", loc, g.Name)
		}
		seen[g.Name] = true
		if err := validateCalls(loc+".calls", g.Calls); err != nil {
			return err
		}
		if err := validateGroups(loc+".groups", g.Groups); err != nil {
			return err
		}
	}
	return nil
}

// GroupNames returns the top-level group names in order.
func (m *Manifest) GroupNames() []string {
	names := make([]string, len(m.Groups))
	for i, g := range m.Groups {
		names[i] = g.Name
	}
	return names
}

// Verbs returns every verb the manifest calls, in first-use order.
func (m *Manifest) Verbs() []string {
	seen := map[string]bool{}
	var out []string
	var walk func(calls []Call, groups []Group)
	walk = func(calls []Call, groups []Group) {
		for _, c := range calls {
			if !seen[c.Verb] {
				seen[c.Verb] = true
				out = append(out, c.Verb)
			}
		}
		for _, g := range groups {
			walk(g.Calls, g.Groups)
		}
	}
	walk(m.Calls, m.Groups)
	return out
}

// CallCount returns the number of calls across all groups.
func (m *Manifest) CallCount() int {
	var count func(calls []Call, groups []Group) int
	count = func(calls []Call, groups []Group) int {
		n := len(calls)
		for _, g := range groups {
			n += count(g.Calls, g.Groups)
		}
		return n
	}
	return count(m.Calls, m.Groups)
}
