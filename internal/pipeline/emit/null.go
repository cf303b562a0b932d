package emit

import "context"

// NullEmitter implements Emitter by discarding all events. It is the
// default when no Emitter is configured — a rewrite pays no observability
// overhead unless the caller asks for it.
type NullEmitter struct{}

// NewNullEmitter returns an Emitter that discards every event.
func NewNullEmitter() *NullEmitter { return &NullEmitter{} }

func (n *NullEmitter) Emit(Event) {}

func (n *NullEmitter) EmitBatch(context.Context, []Event) error { return nil }

func (n *NullEmitter) Flush(context.Context) error { return nil }
