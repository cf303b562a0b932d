package advisor

import (
	"context"
	"fmt"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIAdvisor backs -explain with OpenAI's chat completions API.
type OpenAIAdvisor struct {
	modelName string
	client    openaisdk.Client
}

// NewOpenAIAdvisor builds an OpenAIAdvisor using apiKey for auth and
// modelName (e.g. "gpt-4o-mini") as the summarizing model.
func NewOpenAIAdvisor(apiKey, modelName string) *OpenAIAdvisor {
	return &OpenAIAdvisor{
		modelName: modelName,
		client:    openaisdk.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (a *OpenAIAdvisor) Explain(ctx context.Context, summary Summary) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: a.modelName,
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt(summary)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("advisor: openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
