package errutil

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
)

// flushTimeout bounds how long Flush waits for queued Sentry events
const flushTimeout = 2 * time.Second

// Handle logs err and reports it to Sentry. Reporting is a no-op unless
// sentry.Init has been called with a DSN.
func Handle(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}

	ctxlog.From(ctx).Error(msg, "error", err)

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("message", msg)
	})
	hub.CaptureException(err)
}

// HandlePanic reports a recovered panic value to Sentry
func HandlePanic(ctx context.Context, recovered any, stack []byte) {
	ctxlog.From(ctx).Error("panic recovered",
		"recover", recovered,
		"stack", string(stack),
	)

	hub := sentry.CurrentHub().Clone()
	hub.Recover(recovered)
}

// Flush waits for buffered Sentry events to be sent
func Flush() {
	sentry.Flush(flushTimeout)
}
