package event

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Handler reacts to a fired event. The payload is owned by the caller of
// Fire; handlers contribute by mutating it.
type Handler func(ctx context.Context, payload any) error

// Dispatcher maps exact event names to ordered handler lists.
//
// Thread-safety: Listen and Fire may be called from any goroutine. Handlers
// for a single Fire call always run sequentially on the caller's goroutine.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[string][]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

// Listen appends h to the handler list for name. Multiple handlers per name
// are allowed and keep their registration order. A nil handler is ignored.
func (d *Dispatcher) Listen(name string, h Handler) {
	if h == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

// Fire invokes every handler registered for name, in registration order,
// waiting for each to return before starting the next.
//
// The first failing handler aborts the rest and its error is returned as a
// *HandlerError. A cancelled ctx stops the chain before the next handler.
// Firing an event with no handlers is a no-op.
func (d *Dispatcher) Fire(ctx context.Context, name string, payload any) error {
	handlers := d.snapshot(name)
	if len(handlers) == 0 {
		slog.Debug("event fired with no listeners", "event", name)
		return nil
	}

	slog.Debug("firing event", "event", name, "handlers", len(handlers))

	for i, h := range handlers {
		if err := ctx.Err(); err != nil {
			return &HandlerError{Event: name, Index: i, Err: err}
		}
		if err := h(ctx, payload); err != nil {
			slog.Debug("event handler failed",
				"event", name,
				"index", i,
				"error", err,
			)
			return &HandlerError{Event: name, Index: i, Err: err}
		}
	}

	return nil
}

// Count returns the number of handlers registered for name.
func (d *Dispatcher) Count(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers[name])
}

// Events returns the names that have at least one handler, sorted.
// Used for introspection and tests.
func (d *Dispatcher) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	names := make([]string, 0, len(d.handlers))
	for name, hs := range d.handlers {
		if len(hs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// snapshot copies the handler list so handlers can Listen during Fire
// without mutating the slice being iterated.
func (d *Dispatcher) snapshot(name string) []Handler {
	d.mu.Lock()
	defer d.mu.Unlock()

	hs := d.handlers[name]
	if len(hs) == 0 {
		return nil
	}
	out := make([]Handler, len(hs))
	copy(out, hs)
	return out
}
