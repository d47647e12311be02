package ctxlog

import "sync/atomic"

// priorEntry records what one key looked like before a scope activation:
// either its previous value or the fact that it was absent.
type priorEntry struct {
	// key is the context key the scope overwrote.
	key string
	// value is the value the key held before activation.
	value any
	// present is false if the key did not exist before activation.
	present bool
}

// Scope is a single-use temporary context activation created by
// Store.Begin or LogContext. Exit restores the store to exactly the
// state the scope found it in. Scopes nest with stack discipline: exit
// inner scopes before outer ones to restore in reverse-of-entry order.
type Scope struct {
	// store is the store the scope was activated on.
	store *Store
	// delta holds the prior state of every key the activation set.
	delta []priorEntry
	// exited flips to true on the first Exit; later calls are no-ops.
	exited atomic.Bool
}

// Exit restores every key the scope had set to its recorded prior value,
// deleting keys that were absent before activation. It runs on every
// exit path when deferred, including panics and cancellation-driven
// unwinds, and it never panics itself: whatever terminated the scope's
// body must propagate unchanged. A scope is single-use; calling Exit
// again does nothing.
func (sc *Scope) Exit() {
	if sc == nil || !sc.exited.CompareAndSwap(false, true) {
		return
	}

	// Restoration faults must never mask the error that triggered the
	// exit; fall back to dropping the keys the scope had set.
	defer func() {
		if recover() != nil {
			sc.dropKeys()
		}
	}()

	sc.store.mu.Lock()
	defer sc.store.mu.Unlock()

	sc.store.restore(sc.delta)
}

// dropKeys is the best-effort fallback when exact restoration failed:
// remove the scope's keys so stale values cannot leak into later lines.
func (sc *Scope) dropKeys() {
	defer func() {
		// Nothing left to try; exit must stay silent.
		_ = recover()
	}()

	keys := make([]string, 0, len(sc.delta))
	for _, entry := range sc.delta {
		keys = append(keys, entry.key)
	}

	sc.store.Clear(keys...)
}
