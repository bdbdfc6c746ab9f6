package httpapi

import (
	"context"
	"errors"
)

// errServerShutdown is the cancellation cause when the base context ends first.
var errServerShutdown = errors.New("server shutting down")

// serverBaseCtx is a process-level context that can be canceled on shutdown.
// Defaults to Background if not set.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by handlers.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts derives a context from req that is also canceled when base is
// done. Values (request id, route context) come from req. The returned cancel
// func must be called when the handler ends.
func joinContexts(base, req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(req)
	if base.Err() != nil {
		cancel(errServerShutdown)
		return ctx, func() { cancel(context.Canceled) }
	}
	stop := context.AfterFunc(base, func() { cancel(errServerShutdown) })
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}
