package ctxlog

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestInjectAttachesEmptyStore verifies Inject starts a fresh execution
// context with an empty, non-nil mapping.
func TestInjectAttachesEmptyStore(t *testing.T) {
	t.Parallel()

	ctx := Inject(context.Background())

	store, ok := FromContext(ctx)
	require.True(t, ok)
	require.NotNil(t, store)
	require.Empty(t, store.Snapshot())
}

// TestSetLogContextMergesPairs verifies the package-level merge helper
// folds updates key-wise into the context-carried store.
func TestSetLogContextMergesPairs(t *testing.T) {
	t.Parallel()

	ctx := Inject(context.Background())

	require.NoError(t, SetLogContext(ctx, Fields{"user_id": "123", "request_id": "abc"}))
	require.NoError(t, SetLogContext(ctx, Fields{"user_id": "456"}))

	store, _ := FromContext(ctx)
	require.Equal(t, Fields{"user_id": "456", "request_id": "abc"}, store.Snapshot())
}

// TestSetLogContextWithoutStore verifies mutating helpers fail fast on a
// context that never went through Inject.
func TestSetLogContextWithoutStore(t *testing.T) {
	t.Parallel()

	err := SetLogContext(context.Background(), Fields{"k": 1})
	require.ErrorIs(t, err, ErrNoContextStore)

	_, err = LogContext(context.Background(), Fields{"k": 1})
	require.ErrorIs(t, err, ErrNoContextStore)
}

// TestClearLogContextNeverFails verifies clearing is a no-op on absent
// keys and on contexts without a store.
func TestClearLogContextNeverFails(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		ClearLogContext(context.Background(), "anything")
	})

	ctx := Inject(context.Background())
	require.NoError(t, SetLogContext(ctx, Fields{"a": 1, "b": 2}))

	ClearLogContext(ctx, "a", "missing")

	store, _ := FromContext(ctx)
	require.Equal(t, Fields{"b": 2}, store.Snapshot())

	ClearLogContext(ctx)
	require.Empty(t, store.Snapshot())
}

// TestSpawnInheritsSnapshot verifies a spawned context starts from the
// parent's mapping at spawn time and diverges afterwards.
func TestSpawnInheritsSnapshot(t *testing.T) {
	t.Parallel()

	parent := Inject(context.Background())
	require.NoError(t, SetLogContext(parent, Fields{"inherited": "yes"}))

	child := Spawn(parent)

	require.NoError(t, SetLogContext(parent, Fields{"parent_only": 1}))
	require.NoError(t, SetLogContext(child, Fields{"child_only": 2}))

	parentStore, _ := FromContext(parent)
	childStore, _ := FromContext(child)

	require.Equal(t, Fields{"inherited": "yes", "parent_only": 1}, parentStore.Snapshot())
	require.Equal(t, Fields{"inherited": "yes", "child_only": 2}, childStore.Snapshot())
}

// TestSpawnWithoutStoreStartsEmpty verifies Spawn on a bare context is
// equivalent to Inject.
func TestSpawnWithoutStoreStartsEmpty(t *testing.T) {
	t.Parallel()

	ctx := Spawn(context.Background())

	store, ok := FromContext(ctx)
	require.True(t, ok)
	require.Empty(t, store.Snapshot())
}

// TestWithStoreBridgesBareHandles verifies a worker-owned store handle
// plugs into the context-carried strategy unchanged.
func TestWithStoreBridgesBareHandles(t *testing.T) {
	t.Parallel()

	store := NewStore()
	require.NoError(t, store.Merge(Fields{"job_id": "j-1"}))

	ctx := WithStore(context.Background(), store)

	require.NoError(t, SetLogContext(ctx, Fields{"step": 2}))
	require.Equal(t, Fields{"job_id": "j-1", "step": 2}, store.Snapshot())
}

// TestContextIsolationAcrossGoroutines verifies N spawned execution
// contexts, each setting a unique id, never observe one another.
func TestContextIsolationAcrossGoroutines(t *testing.T) {
	t.Parallel()

	const workers = 16

	root := Inject(context.Background())
	require.NoError(t, SetLogContext(root, Fields{"app": "test"}))

	var wg sync.WaitGroup

	results := make([]Fields, workers)

	for i := 0; i < workers; i++ {
		ctx := Spawn(root)

		wg.Add(1)

		go func(id int, ctx context.Context) {
			defer wg.Done()

			if err := SetLogContext(ctx, Fields{"worker_id": id}); err != nil {
				return
			}

			store, _ := FromContext(ctx)
			results[id] = store.Snapshot()
		}(i, ctx)
	}

	wg.Wait()

	for i := 0; i < workers; i++ {
		require.Equal(t, Fields{"app": "test", "worker_id": i}, results[i])
	}
}

// TestScopeExitOnCancelledContext verifies cancellation of the
// surrounding work is just another exit path: the deferred Exit still
// restores the prior mapping.
func TestScopeExitOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx := Inject(context.Background())
	require.NoError(t, SetLogContext(ctx, Fields{"stage": "steady"}))

	cancellable, cancel := context.WithCancel(ctx)

	done := make(chan struct{})

	go func() {
		defer close(done)

		scope, err := LogContext(cancellable, Fields{"stage": "busy"})
		if err != nil {
			return
		}

		defer scope.Exit()

		<-cancellable.Done()
	}()

	cancel()
	<-done

	store, _ := FromContext(ctx)
	require.Equal(t, Fields{"stage": "steady"}, store.Snapshot())
}
