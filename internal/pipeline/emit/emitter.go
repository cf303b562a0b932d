package emit

import "context"

// Emitter receives and processes observability events from a gocoro
// rewrite.
//
// Emitters enable pluggable observability backends:
//   - Logging: stdout, files.
//   - Distributed tracing: OpenTelemetry.
//   - Buffering: collected for -explain's diagnostics summary.
//
// Implementations should be non-blocking and safe for concurrent use —
// cmd/gocoro rewrites every tagged function in a file sequentially today,
// but a batch sweep across many files may run several Rewrite calls from
// different goroutines against one shared Emitter.
type Emitter interface {
	// Emit sends one observability event to the configured backend. Emit
	// must not panic and should not block the rewrite it is instrumenting.
	Emit(event Event)

	// EmitBatch sends multiple events in one operation.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush ensures all buffered events are sent to the backend. Safe to
	// call multiple times.
	Flush(ctx context.Context) error
}
