package async_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/urlfetch/pkg/utils/async"
)

// safeBuffer is a thread-safe buffer for concurrent logging
type safeBuffer struct {
	b bytes.Buffer
	m sync.Mutex
}

func (sb *safeBuffer) Write(p []byte) (int, error) {
	sb.m.Lock()
	defer sb.m.Unlock()
	return sb.b.Write(p)
}

func (sb *safeBuffer) String() string {
	sb.m.Lock()
	defer sb.m.Unlock()
	return sb.b.String()
}

func newErrorLogger(buf *safeBuffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func waitDispatched(t *testing.T, d *async.Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	gt.NoError(t, d.Wait(ctx))
}

func TestDispatcher_Dispatch(t *testing.T) {
	t.Run("executes handler asynchronously", func(t *testing.T) {
		d := async.NewDispatcher()
		var executed atomic.Bool

		d.Dispatch(context.Background(), func(ctx context.Context) error {
			executed.Store(true)
			return nil
		})

		waitDispatched(t, d)
		gt.True(t, executed.Load())
	})

	t.Run("logs returned errors", func(t *testing.T) {
		logBuf := &safeBuffer{}
		ctx := ctxlog.With(context.Background(), newErrorLogger(logBuf))
		d := async.NewDispatcher()

		d.Dispatch(ctx, func(ctx context.Context) error {
			return errors.New("write failed")
		})

		waitDispatched(t, d)
		gt.True(t, strings.Contains(logBuf.String(), "error in async handler"))
		gt.True(t, strings.Contains(logBuf.String(), "write failed"))
	})

	t.Run("recovers from panic with stack trace", func(t *testing.T) {
		logBuf := &safeBuffer{}
		ctx := ctxlog.With(context.Background(), newErrorLogger(logBuf))
		d := async.NewDispatcher()

		d.Dispatch(ctx, func(ctx context.Context) error {
			panic("test panic with stack")
		})

		waitDispatched(t, d)
		logOutput := logBuf.String()

		gt.True(t, strings.Contains(logOutput, "panic recovered"))
		gt.True(t, strings.Contains(logOutput, "test panic with stack"))
		gt.True(t, strings.Contains(logOutput, "goroutine"))
		gt.True(t, strings.Contains(logOutput, "dispatch_test.go"))
	})

	t.Run("preserves logger", func(t *testing.T) {
		logBuf := &safeBuffer{}
		ctx := ctxlog.With(context.Background(), newErrorLogger(logBuf))
		d := async.NewDispatcher()

		d.Dispatch(ctx, func(newCtx context.Context) error {
			ctxlog.From(newCtx).Error("from handler")
			return nil
		})

		waitDispatched(t, d)
		gt.True(t, strings.Contains(logBuf.String(), "from handler"))
	})

	t.Run("detaches from caller cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		d := async.NewDispatcher()
		var cancelled atomic.Bool

		d.Dispatch(ctx, func(newCtx context.Context) error {
			cancel()
			select {
			case <-newCtx.Done():
				cancelled.Store(true)
			default:
			}
			return nil
		})

		waitDispatched(t, d)
		gt.False(t, cancelled.Load())
	})
}

func TestDispatcher_Wait(t *testing.T) {
	t.Run("no handlers", func(t *testing.T) {
		waitDispatched(t, async.NewDispatcher())
	})

	t.Run("waits for slow handler", func(t *testing.T) {
		d := async.NewDispatcher()
		var finished atomic.Bool

		d.Dispatch(context.Background(), func(ctx context.Context) error {
			time.Sleep(50 * time.Millisecond)
			finished.Store(true)
			return nil
		})

		waitDispatched(t, d)
		gt.True(t, finished.Load())
	})

	t.Run("gives up when context is done", func(t *testing.T) {
		d := async.NewDispatcher()
		release := make(chan struct{})
		defer close(release)

		d.Dispatch(context.Background(), func(ctx context.Context) error {
			<-release
			return nil
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		gt.Error(t, d.Wait(ctx))
	})
}
