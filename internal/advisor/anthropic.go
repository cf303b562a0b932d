package advisor

import (
	"context"
	"fmt"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicAdvisor backs -explain with Anthropic's Claude API.
type AnthropicAdvisor struct {
	modelName string
	client    anthropicsdk.Client
}

// NewAnthropicAdvisor builds an AnthropicAdvisor using apiKey for auth and
// modelName (e.g. "claude-3-haiku-20240307") as the summarizing model —
// -explain's prose is a one-paragraph aside, not a reasoning-heavy task, so
// a small fast model is the right default for callers to pass.
func NewAnthropicAdvisor(apiKey, modelName string) *AnthropicAdvisor {
	return &AnthropicAdvisor{
		modelName: modelName,
		client:    anthropicsdk.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (a *AnthropicAdvisor) Explain(ctx context.Context, summary Summary) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(a.modelName),
		MaxTokens: 256,
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(prompt(summary))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("advisor: anthropic: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

func prompt(s Summary) string {
	return fmt.Sprintf(
		"In one short paragraph, describe the resumable state machine generated for %q: "+
			"%d CFG nodes, %d resumption states before optimization, %d after folding, "+
			"%d suspension points (co_yield/co_return/early return).",
		s.FuncName, s.CFGNodes, s.StatesAssigned, s.StatesFinal, s.SuspensionCount)
}
