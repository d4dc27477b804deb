// Package mix implements the build context: one build target's settings,
// dispatcher and component registry, optionally nested into child contexts
// for multi-configuration builds.
//
// STATE MACHINE:
//
//	unbooted --Boot--> booted --Init--> initialized
//
// Boot installs components, applies framework defaults and registers the
// hot-reload snapshot hook. Init fires "init" locally, then on every child
// concurrently, and returns once all of them have finished. Both are no-ops
// when repeated.
//
// CURRENT CONTEXT:
//
// Hooks that need context-specific state receive it explicitly: every event
// a Context fires carries it in the context.Context (see FromContext). The
// root also keeps a Stack of contexts entered through WithChild for callers
// that only hold the root; push and pop are strictly paired and the pop runs
// on every exit path, including panics.
//
// BUILD OUTPUT:
//
// BuildConfigs is a lazy sequence of build operations: one for the context
// itself when it has direct output (or no children), then recursively one
// per selected descendant. Nothing is built until an operation is run.
package mix
