package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorder(log *[]string, name string) Handler {
	return func(ctx context.Context, payload any) error {
		*log = append(*log, name)
		return nil
	}
}

func TestDispatcher_FireInRegistrationOrder(t *testing.T) {
	d := NewDispatcher()
	var log []string

	d.Listen("build", recorder(&log, "h1"))
	d.Listen("build", recorder(&log, "h2"))
	d.Listen("build", recorder(&log, "h3"))

	err := d.Fire(context.Background(), "build", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2", "h3"}, log)
}

func TestDispatcher_FireUnknownEventIsNoop(t *testing.T) {
	d := NewDispatcher()
	err := d.Fire(context.Background(), "nothing", nil)
	assert.NoError(t, err)
}

func TestDispatcher_ExactNameMatchOnly(t *testing.T) {
	d := NewDispatcher()
	var log []string

	d.Listen("loading-rules", recorder(&log, "rules"))
	d.Listen("loading", recorder(&log, "prefix"))

	require.NoError(t, d.Fire(context.Background(), "loading-rules", nil))
	assert.Equal(t, []string{"rules"}, log)
}

func TestDispatcher_ErrorAbortsRemainingHandlers(t *testing.T) {
	d := NewDispatcher()
	var log []string
	boom := errors.New("boom")

	d.Listen("init", recorder(&log, "first"))
	d.Listen("init", func(ctx context.Context, payload any) error {
		log = append(log, "second")
		return boom
	})
	d.Listen("init", recorder(&log, "third"))

	err := d.Fire(context.Background(), "init", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var he *HandlerError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, "init", he.Event)
	assert.Equal(t, 1, he.Index)
	assert.Equal(t, []string{"first", "second"}, log, "third handler must not run")
}

func TestDispatcher_PayloadPipelinesThroughHandlers(t *testing.T) {
	d := NewDispatcher()

	d.Listen(LoadingRules, func(ctx context.Context, payload any) error {
		rules := payload.(*[]string)
		*rules = append(*rules, "css")
		return nil
	})
	d.Listen(LoadingRules, func(ctx context.Context, payload any) error {
		rules := payload.(*[]string)
		*rules = append(*rules, "vue")
		return nil
	})

	rules := []string{}
	require.NoError(t, d.Fire(context.Background(), LoadingRules, &rules))
	assert.Equal(t, []string{"css", "vue"}, rules)
}

func TestDispatcher_ListenDuringFireTakesEffectNextFire(t *testing.T) {
	d := NewDispatcher()
	var log []string

	d.Listen("init", func(ctx context.Context, payload any) error {
		log = append(log, "init")
		d.Listen("init", recorder(&log, "late"))
		d.Listen("configReady", recorder(&log, "ready"))
		return nil
	})

	require.NoError(t, d.Fire(context.Background(), "init", nil))
	assert.Equal(t, []string{"init"}, log)

	require.NoError(t, d.Fire(context.Background(), "configReady", nil))
	assert.Equal(t, []string{"init", "ready"}, log)
	assert.Equal(t, 2, d.Count("init"))
}

func TestDispatcher_SequentialEvenWithBlockingHandlers(t *testing.T) {
	d := NewDispatcher()
	var mu sync.Mutex
	var log []string

	d.Listen("slow", func(ctx context.Context, payload any) error {
		done := make(chan struct{})
		go func() {
			mu.Lock()
			log = append(log, "async-work")
			mu.Unlock()
			close(done)
		}()
		<-done
		return nil
	})
	d.Listen("slow", func(ctx context.Context, payload any) error {
		mu.Lock()
		log = append(log, "after")
		mu.Unlock()
		return nil
	})

	require.NoError(t, d.Fire(context.Background(), "slow", nil))
	assert.Equal(t, []string{"async-work", "after"}, log)
}

func TestDispatcher_CancelledContextStopsChain(t *testing.T) {
	d := NewDispatcher()
	var log []string
	ctx, cancel := context.WithCancel(context.Background())

	d.Listen("init", func(ctx context.Context, payload any) error {
		log = append(log, "first")
		cancel()
		return nil
	})
	d.Listen("init", recorder(&log, "second"))

	err := d.Fire(ctx, "init", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"first"}, log)
}

func TestDispatcher_NilHandlerIgnored(t *testing.T) {
	d := NewDispatcher()
	d.Listen("init", nil)
	assert.Equal(t, 0, d.Count("init"))
	assert.Empty(t, d.Events())
}

func TestDispatcher_Events(t *testing.T) {
	d := NewDispatcher()
	d.Listen("loading-rules", func(context.Context, any) error { return nil })
	d.Listen("init", func(context.Context, any) error { return nil })

	assert.Equal(t, []string{"init", "loading-rules"}, d.Events())
}

func TestFailedEvent_Nested(t *testing.T) {
	inner := &HandlerError{Event: LoadingRules, Index: 0, Err: errors.New("bad rule")}
	outer := &HandlerError{Event: Init, Index: 2, Err: inner}

	assert.Equal(t, LoadingRules, FailedEvent(outer))
	assert.Equal(t, "", FailedEvent(errors.New("plain")))
}
