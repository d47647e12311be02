package ctxlog

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// contextFields snapshots the calling execution context's mapping and
// converts it into zap fields in ascending key order. It is a pure
// read: the store is never written back to. A missing or empty store
// yields nil so empty contexts attach no fields at all.
func contextFields(ctx context.Context) []zapcore.Field {
	if ctx == nil {
		return nil
	}

	store, ok := FromContext(ctx)
	if !ok {
		return nil
	}

	return snapshotFields(store.Snapshot())
}

// snapshotFields converts a snapshot into sorted zap fields.
func snapshotFields(snapshot Fields) []zapcore.Field {
	if len(snapshot) == 0 {
		return nil
	}

	fields := make([]zapcore.Field, 0, len(snapshot))
	for _, key := range snapshot.sortedKeys() {
		fields = append(fields, zap.Any(key, snapshot[key]))
	}

	return fields
}
