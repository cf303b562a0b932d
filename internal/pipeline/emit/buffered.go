package emit

import (
	"context"
	"sync"
)

// BufferedEmitter collects events in memory instead of sending them
// anywhere, so a later stage can inspect the whole trace of one rewrite.
// Tests pass one to gocoro.Rewrite via pipeline.WithEmitter to inspect the
// events a rewrite produced.
type BufferedEmitter struct {
	mu     sync.Mutex
	events []Event
}

// NewBufferedEmitter returns an empty BufferedEmitter.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{}
}

func (b *BufferedEmitter) Emit(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *BufferedEmitter) EmitBatch(ctx context.Context, events []Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.events = append(b.events, e)
	}
	return nil
}

func (b *BufferedEmitter) Flush(context.Context) error { return nil }

// Events returns a copy of every event collected so far.
func (b *BufferedEmitter) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

// Reset clears the buffer, reusing the emitter across rewrites of several
// functions in one file.
func (b *BufferedEmitter) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}
