package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LogEmitter implements Emitter by writing one line per event to a writer.
//
// Two output modes:
//   - Text (default): "[stage] fn=... msg".
//   - JSON: one JSON object per line, for machine consumption.
type LogEmitter struct {
	w        io.Writer
	jsonMode bool
}

// NewLogEmitter builds a LogEmitter writing to w (os.Stdout if nil).
func NewLogEmitter(w io.Writer, jsonMode bool) *LogEmitter {
	if w == nil {
		w = os.Stdout
	}
	return &LogEmitter{w: w, jsonMode: jsonMode}
}

func (l *LogEmitter) Emit(e Event) {
	if l.jsonMode {
		buf, err := json.Marshal(e)
		if err != nil {
			fmt.Fprintf(l.w, "[%s] fn=%s marshal error: %v\n", e.Stage, e.Fn, err)
			return
		}
		l.w.Write(append(buf, '\n'))
		return
	}
	fmt.Fprintf(l.w, "[%s] fn=%s %s\n", e.Stage, e.Fn, e.Msg)
}

func (l *LogEmitter) EmitBatch(ctx context.Context, events []Event) error {
	for _, e := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.Emit(e)
	}
	return nil
}

func (l *LogEmitter) Flush(context.Context) error { return nil }
