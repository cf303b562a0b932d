package emit

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNullEmitter_IsANoop(t *testing.T) {
	e := NewNullEmitter()
	e.Emit(Event{Stage: StageAttr, Fn: "f", Msg: "noop"})
	if err := e.EmitBatch(context.Background(), []Event{{Stage: StageEmit, Fn: "f"}}); err != nil {
		t.Fatalf("EmitBatch: %v", err)
	}
	if err := e.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestLogEmitter_TextMode(t *testing.T) {
	var buf bytes.Buffer
	e := NewLogEmitter(&buf, false)
	e.Emit(Event{Stage: StageCFG, Fn: "next", Msg: "3 nodes, 2 edges"})

	line := buf.String()
	if !strings.Contains(line, "[cflow]") || !strings.Contains(line, "fn=next") || !strings.Contains(line, "3 nodes, 2 edges") {
		t.Errorf("unexpected text log line: %q", line)
	}
}

func TestLogEmitter_JSONMode(t *testing.T) {
	var buf bytes.Buffer
	e := NewLogEmitter(&buf, true)
	e.Emit(Event{Stage: StageProject, Fn: "next", Msg: "2 states assigned", Meta: map[string]any{"states": 2}})

	var decoded Event
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if decoded.Stage != StageProject || decoded.Fn != "next" {
		t.Errorf("decoded event = %+v, want stage=project fn=next", decoded)
	}
}

func TestLogEmitter_DefaultsToStdoutWithoutPanicking(t *testing.T) {
	e := NewLogEmitter(nil, false)
	if e == nil {
		t.Fatal("expected a non-nil emitter")
	}
}

func TestLogEmitter_EmitBatch_StopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	e := NewLogEmitter(&buf, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.EmitBatch(ctx, []Event{{Stage: StageAttr, Fn: "f"}})
	if err == nil {
		t.Fatal("expected EmitBatch to report the cancelled context")
	}
}

func TestBufferedEmitter_CollectsInOrder(t *testing.T) {
	b := NewBufferedEmitter()
	b.Emit(Event{Stage: StageAttr, Fn: "f", Msg: "1"})
	b.Emit(Event{Stage: StageCFG, Fn: "f", Msg: "2"})

	events := b.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Msg != "1" || events[1].Msg != "2" {
		t.Errorf("events out of order: %+v", events)
	}
}

func TestBufferedEmitter_EventsReturnsACopy(t *testing.T) {
	b := NewBufferedEmitter()
	b.Emit(Event{Stage: StageAttr, Fn: "f", Msg: "1"})

	events := b.Events()
	events[0].Msg = "mutated"

	if b.Events()[0].Msg != "1" {
		t.Error("expected Events() to return a copy, not the internal slice")
	}
}

func TestBufferedEmitter_Reset(t *testing.T) {
	b := NewBufferedEmitter()
	b.Emit(Event{Stage: StageAttr, Fn: "f"})
	b.Reset()

	if len(b.Events()) != 0 {
		t.Error("expected Reset to clear the buffer")
	}
}
