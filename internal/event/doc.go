// Package event implements the named-event dispatcher that coordinates
// components during config assembly.
//
// Components never call each other. They subscribe handlers to a small set of
// well-known event names and the assembly pipeline fires those events in a
// fixed order. The dispatcher is the only coupling point between them.
//
// ORDERING:
//
// Handlers for one event run strictly in registration order. Each handler
// returns before the next one starts, so a handler may rely on everything
// registered before it having already contributed to the payload.
//
// FAILURE:
//
// The first handler that returns an error aborts the remaining handlers for
// that event. The error is wrapped in a *HandlerError and returned from Fire
// unchanged otherwise. There is no retry and no partial-result recovery.
//
// SNAPSHOT SEMANTICS:
//
// Fire snapshots the handler list before invoking it. A handler may call
// Listen (for the same or another event) while a Fire is in progress; new
// registrations take effect from the next Fire of that event. This is what
// lets a component subscribe its contribution hooks from inside its "init"
// handler.
package event
