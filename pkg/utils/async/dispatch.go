package async

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/utils/errutil"
)

var inflight sync.WaitGroup

// Dispatch runs handler in a new goroutine. The handler gets a fresh
// background context carrying the logger and Sentry hub of ctx, so the
// caller returning does not cancel it. Returned errors and panics are
// logged and reported.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	inflight.Add(1)
	go func() {
		defer inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(newCtx).Error("panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()))

				if hub := sentry.GetHubFromContext(newCtx); hub != nil && hub.Client() != nil {
					hub.RecoverWithContext(newCtx, r)
				}
			}
		}()

		if err := handler(newCtx); err != nil {
			errutil.Handle(newCtx, "error in async handler", err)
		}
	}()
}

// Wait blocks until all dispatched handlers have returned. Short-lived
// commands call it before exiting.
func Wait() {
	inflight.Wait()
}

func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()
	newCtx = ctxlog.With(newCtx, ctxlog.From(ctx))

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return sentry.SetHubOnContext(newCtx, hub.Clone())
}
