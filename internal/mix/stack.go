package mix

import (
	"context"
	"log/slog"
	"sync"
)

// Stack tracks the contexts entered through WithChild. Pushes and pops must
// nest; the zero value is ready to use.
type Stack struct {
	mu    sync.Mutex
	items []*Context
}

// Push enters c and returns the matching pop. Calling pop more than once is
// a no-op.
func (s *Stack) Push(c *Context) (pop func()) {
	s.mu.Lock()
	s.items = append(s.items, c)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(c) })
	}
}

func (s *Stack) remove(c *Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i] != c {
			continue
		}
		if i != len(s.items)-1 {
			slog.Error("context stack popped out of order", "context", c.Name(), "depth", len(s.items))
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		return
	}
}

// Top returns the innermost entered context, or nil.
func (s *Stack) Top() *Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

// Depth returns the number of entered contexts.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type currentKey struct{}

// WithCurrent returns a context.Context carrying c as the current build
// context.
func WithCurrent(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, currentKey{}, c)
}

// FromContext returns the build context carried by ctx, or nil.
func FromContext(ctx context.Context) *Context {
	c, _ := ctx.Value(currentKey{}).(*Context)
	return c
}
