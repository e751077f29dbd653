package async

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/urlfetch/pkg/utils/errutil"
)

// Dispatcher runs handlers in background goroutines and keeps track of them
// so that shutdown can wait for in-flight work.
type Dispatcher struct {
	wg sync.WaitGroup
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Dispatch executes handler asynchronously.
//
// The handler receives a new background context that carries the logger of
// ctx but not its cancellation, so a batch outlives the HTTP request that
// started it. Panics are recovered; panics and returned errors are logged
// and reported through errutil.
func (d *Dispatcher) Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				errutil.HandlePanic(newCtx, r, debug.Stack())
			}
		}()

		if err := handler(newCtx); err != nil {
			errutil.Handle(newCtx, "error in async handler", err)
		}
	}()
}

// Wait blocks until every dispatched handler returned or ctx is done.
// It returns ctx.Err() in the latter case.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// newBackgroundContext creates a new background context preserving the
// ctxlog logger
func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()
	newCtx = ctxlog.With(newCtx, ctxlog.From(ctx))
	return newCtx
}
