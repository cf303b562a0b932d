package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMockAdvisor_ReturnsResponseAndRecordsCall(t *testing.T) {
	m := &MockAdvisor{Response: "a three-state loop"}
	summary := Summary{FuncName: "next", CFGNodes: 4, StatesAssigned: 3, StatesFinal: 2, SuspensionCount: 1}

	got, err := m.Explain(context.Background(), summary)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if got != "a three-state loop" {
		t.Errorf("Explain = %q, want %q", got, "a three-state loop")
	}
	if m.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1", m.CallCount())
	}
	if m.Calls[0].FuncName != summary.FuncName || m.Calls[0].CFGNodes != summary.CFGNodes {
		t.Errorf("Calls[0] = %+v, want %+v", m.Calls[0], summary)
	}
}

func TestMockAdvisor_ReturnsConfiguredError(t *testing.T) {
	wantErr := errors.New("advisor unavailable")
	m := &MockAdvisor{Err: wantErr}

	_, err := m.Explain(context.Background(), Summary{FuncName: "f"})
	if !errors.Is(err, wantErr) {
		t.Errorf("Explain err = %v, want %v", err, wantErr)
	}
}

func TestMockAdvisor_RespectsCancelledContext(t *testing.T) {
	m := &MockAdvisor{Response: "unused"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Explain(ctx, Summary{FuncName: "f"})
	if err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
	if m.CallCount() != 0 {
		t.Errorf("expected a cancelled call not to be recorded, CallCount = %d", m.CallCount())
	}
}

func TestMockAdvisor_MultipleCallsAccumulate(t *testing.T) {
	m := &MockAdvisor{Response: "ok"}
	ctx := context.Background()

	_, _ = m.Explain(ctx, Summary{FuncName: "a"})
	_, _ = m.Explain(ctx, Summary{FuncName: "b"})
	_, _ = m.Explain(ctx, Summary{FuncName: "c"})

	if m.CallCount() != 3 {
		t.Fatalf("CallCount = %d, want 3", m.CallCount())
	}
	if m.Calls[0].FuncName != "a" || m.Calls[1].FuncName != "b" || m.Calls[2].FuncName != "c" {
		t.Errorf("Calls out of order: %+v", m.Calls)
	}
}

func TestPrompt_MentionsEveryField(t *testing.T) {
	s := Summary{FuncName: "next", CFGNodes: 7, StatesAssigned: 5, StatesFinal: 3, SuspensionCount: 2}
	text := prompt(s)

	for _, want := range []string{"next", "7", "5", "3", "2"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt() = %q, expected it to contain %q", text, want)
		}
	}
}
