// Package advisor backs cmd/gocoro's -explain diagnostics: a supplemented
// feature (not named in spec.md, not excluded by any Non-goal) that asks an
// LLM to describe the shape of a freshly rewritten state machine in a
// sentence or two, spliced in as a doc comment above the rewritten
// function. It never changes the emitted dispatch loop's semantics and is
// skipped entirely — no network call — unless -explain is passed.
//
// Adapted from the teacher's graph/model package (ChatModel interface,
// provider adapters under model/anthropic, model/openai, model/google):
// the same "one interface, several provider backends" shape, narrowed to a
// single summarize-and-return-text call instead of a full chat/tool-calling
// loop.
package advisor

import "context"

// Summary carries what the rewritten function looked like, for an advisor
// to describe in prose.
type Summary struct {
	FuncName        string
	CFGNodes        int
	StatesAssigned  int
	StatesFinal     int
	SuspensionCount int
	// EventTrace is the pipeline's per-stage event trace, one line per
	// event, which gocoro.Rewrite collects as it emits each event.
	EventTrace []string
}

// Advisor explains a completed rewrite in natural language.
type Advisor interface {
	Explain(ctx context.Context, summary Summary) (string, error)
}
