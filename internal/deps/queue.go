// Package deps collects the third-party packages activated components need.
//
// Components report package specs during the "internal:gather-dependencies"
// event. The queue deduplicates them by package name across a context and
// all of its children and is flushed once per build invocation. Installing
// packages is not this package's job; Flush only reports what is missing.
package deps

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Dependency is one queued package requirement.
type Dependency struct {
	// Spec is the package as requested, possibly with a version
	// ("vue-loader@^16.2.0").
	Spec string

	// RequiresReload is true if any contributor needs the build to be
	// restarted after the package is installed.
	RequiresReload bool
}

// Name returns the package name without its version range.
func (d Dependency) Name() string {
	return PackageName(d.Spec)
}

// ErrReloadRequired is returned (wrapped) by Flush when a missing package
// requires the build to be restarted after installation.
var ErrReloadRequired = errors.New("missing dependencies require a reload")

// Queue is a set of dependencies keyed by package name, kept in first-seen
// order. Safe for concurrent use: sibling contexts may add to it while they
// are being gathered.
type Queue struct {
	mu    sync.Mutex
	order []string
	items map[string]*Dependency
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{items: make(map[string]*Dependency)}
}

// Add queues specs. A package already queued keeps its first spec; its
// reload flag becomes true if either contributor asked for a reload.
func (q *Queue) Add(specs []string, requiresReload bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		name := PackageName(spec)
		if existing, ok := q.items[name]; ok {
			existing.RequiresReload = existing.RequiresReload || requiresReload
			continue
		}
		q.items[name] = &Dependency{Spec: spec, RequiresReload: requiresReload}
		q.order = append(q.order, name)
	}
}

// Items returns the queued dependencies in first-seen order.
func (q *Queue) Items() []Dependency {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Dependency, 0, len(q.order))
	for _, name := range q.order {
		out = append(out, *q.items[name])
	}
	return out
}

// Len returns the number of distinct packages queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// Report is the outcome of a Flush.
type Report struct {
	Queued  []Dependency
	Missing []Dependency
}

// ReloadRequired reports whether any missing package asked for a reload.
func (r Report) ReloadRequired() bool {
	for _, d := range r.Missing {
		if d.RequiresReload {
			return true
		}
	}
	return false
}

// Flush empties the queue and checks each package with checker. A nil
// checker treats every package as installed.
//
// If a missing package requires a reload, the report is returned together
// with an error wrapping ErrReloadRequired.
func (q *Queue) Flush(checker Checker) (Report, error) {
	q.mu.Lock()
	queued := make([]Dependency, 0, len(q.order))
	for _, name := range q.order {
		queued = append(queued, *q.items[name])
	}
	q.order = nil
	q.items = make(map[string]*Dependency)
	q.mu.Unlock()

	report := Report{Queued: queued}
	if checker == nil {
		return report, nil
	}

	for _, d := range queued {
		if checker.Installed(d.Name()) {
			continue
		}
		slog.Warn("dependency not installed", "package", d.Spec, "requires_reload", d.RequiresReload)
		report.Missing = append(report.Missing, d)
	}

	if report.ReloadRequired() {
		specs := make([]string, 0, len(report.Missing))
		for _, d := range report.Missing {
			specs = append(specs, d.Spec)
		}
		return report, fmt.Errorf("%w: install %s and run the build again", ErrReloadRequired, strings.Join(specs, " "))
	}

	return report, nil
}

// PackageName strips the version range from a package spec. Scoped
// packages keep their leading "@".
//
//	"vue-loader@^16"        -> "vue-loader"
//	"@babel/preset-react@7" -> "@babel/preset-react"
//	"@vue/compiler-sfc"     -> "@vue/compiler-sfc"
func PackageName(spec string) string {
	if i := strings.LastIndex(spec, "@"); i > 0 {
		return spec[:i]
	}
	return spec
}
