// Package emit provides event emission and observability for the gocoro
// pipeline.
//
// Adapted from the teacher's graph/emit package: the same Emitter/Event
// shape, the same pluggable-backend philosophy, but the events it carries
// describe a compile-time rewrite's stages (the five Stage values below)
// instead of a running workflow's node executions.
package emit

// Stage names one of the pipeline components spec.md §2 enumerates, in the
// order a rewrite passes through them.
type Stage string

const (
	StageAttr     Stage = "attr"
	StageCFG      Stage = "cflow"
	StageProject  Stage = "project"
	StageOptimize Stage = "optimize"
	StageEmit     Stage = "emit"
)

// Event represents one observability event emitted during a single
// function's rewrite.
//
// Events provide insight into the transform:
//   - Which stage produced them (attr, cflow, project, optimize, emit).
//   - Which generator function they describe.
//   - A human-readable message and structured metadata (node/state/edge
//     counts).
type Event struct {
	// Stage is the pipeline component that emitted this event.
	Stage Stage

	// Fn is the name of the generator function being rewritten.
	Fn string

	// Msg is a human-readable description of the event.
	Msg string

	// Meta carries stage-specific structured data, e.g. "nodes", "edges",
	// "states", "states_eliminated".
	Meta map[string]any
}
