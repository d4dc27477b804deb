// Package bundler models the target object the assembly pipeline populates.
//
// The real bundler and its configuration schema are external. This package
// only carries what components contribute (entry points, rules, plugins,
// free-form config fragments) and a Builder that shapes those contributions
// into one opaque Config per build context. Config is a plain JSON-like map so
// any consumer can serialize it without knowing the schema.
package bundler
