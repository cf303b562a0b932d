package advisor

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GoogleAdvisor backs -explain with Google's Gemini API.
type GoogleAdvisor struct {
	modelName string
	apiKey    string
}

// NewGoogleAdvisor builds a GoogleAdvisor using apiKey for auth and
// modelName (e.g. "gemini-1.5-flash") as the summarizing model.
func NewGoogleAdvisor(apiKey, modelName string) *GoogleAdvisor {
	return &GoogleAdvisor{modelName: modelName, apiKey: apiKey}
}

func (a *GoogleAdvisor) Explain(ctx context.Context, summary Summary) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", fmt.Errorf("advisor: google: new client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(a.modelName)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt(summary)))
	if err != nil {
		return "", fmt.Errorf("advisor: google: generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out += string(text)
		}
	}
	return out, nil
}
