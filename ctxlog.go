package ctxlog

import (
	"context"
	"errors"
)

// ErrNoContextStore is returned by context-mutating calls when ctx was
// never passed through Inject, Spawn, or WithStore.
var ErrNoContextStore = errors.New("context carries no ctxlog store")

// SetLogContext merges pairs into the calling execution context's
// current mapping, key-wise last-write-wins. It returns an error if ctx
// carries no store or if any value is not an accepted scalar; on error
// nothing is applied.
func SetLogContext(ctx context.Context, pairs Fields) error {
	store, ok := FromContext(ctx)
	if !ok {
		return ErrNoContextStore
	}

	return store.Merge(pairs)
}

// ClearLogContext removes the named keys from the calling execution
// context's mapping, or every key if none are given. It never fails:
// absent keys and store-less contexts are no-ops.
func ClearLogContext(ctx context.Context, keys ...string) {
	store, ok := FromContext(ctx)
	if !ok {
		return
	}

	store.Clear(keys...)
}

// LogContext activates a temporary context scope on the calling
// execution context. Defer Exit on the returned scope to guarantee the
// prior state is restored on every exit path:
//
//	scope, err := ctxlog.LogContext(ctx, ctxlog.Fields{"job_id": id})
//	if err != nil {
//		return err
//	}
//	defer scope.Exit()
func LogContext(ctx context.Context, pairs Fields) (*Scope, error) {
	store, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoContextStore
	}

	return store.Begin(pairs)
}

// GetLogger returns the named logger from the process-wide default
// registry, creating and wiring it exactly once per name.
func GetLogger(name string) *Logger {
	return defaultRegistry().GetLogger(name)
}
