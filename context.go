package ctxlog

import "context"

// storeKey is the private context key carrying a *Store.
type storeKey struct{}

// Inject attaches a fresh, empty context store to ctx, starting a new
// logical execution context. Call it once at the root of a request,
// job, or worker before using SetLogContext or LogContext.
func Inject(ctx context.Context) context.Context {
	return context.WithValue(ctx, storeKey{}, NewStore())
}

// WithStore attaches an existing store to ctx. It is the bridge for
// code that owns a bare *Store handle (for example a worker that does
// not thread a context) into the context-carried strategy.
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, store)
}

// Spawn returns a context for a child goroutine whose store starts as a
// snapshot-copy of the parent's mapping taken now. After the call,
// mutations through either context never cross. If ctx carries no
// store, the child starts empty.
func Spawn(ctx context.Context) context.Context {
	parent, ok := FromContext(ctx)
	if !ok {
		return Inject(ctx)
	}

	return context.WithValue(ctx, storeKey{}, parent.Child())
}

// FromContext returns the store attached to ctx, if any.
func FromContext(ctx context.Context) (*Store, bool) {
	store, ok := ctx.Value(storeKey{}).(*Store)
	return store, ok
}
