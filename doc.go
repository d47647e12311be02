// Package ctxlog provides context-aware logging built on zap:
//   - a per-execution-context key/value store carried through
//     context.Context (or held directly by a worker),
//   - scoped context activation with guaranteed, exact restoration,
//   - record enrichment that attaches the current context snapshot to
//     every emitted line,
//   - a deterministic single-line format with optional terminal colors,
//   - an idempotent, process-lifetime logger registry.
//
// Typical usage:
//
//	ctx := ctxlog.Inject(context.Background())
//	log := ctxlog.GetLogger("billing")
//
//	_ = ctxlog.SetLogContext(ctx, ctxlog.Fields{"request_id": "abc-def"})
//	log.Info(ctx, "processing request")
//	// [2024-01-17 10:30:45] [INFO] [billing/handler.go:42] [request_id=abc-def] processing request
//
// Context values never cross between concurrently running goroutines:
// hand a child goroutine its own inherited copy with Spawn.
package ctxlog
