package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

// #region gemini-client

// GeminiClient is the Google backend, speaking the GenAI SDK.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient builds a client from an API key.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Complete sends one generation request. Caller-supplied context is
// serialized into the prompt preamble.
func (g *GeminiClient) Complete(ctx context.Context, model string, req Request) (string, int, error) {
	prompt := req.Prompt
	if len(req.Context) > 0 {
		ctxJSON, err := json.Marshal(req.Context)
		if err != nil {
			return "", 0, fmt.Errorf("marshal request context: %w", err)
		}
		prompt = fmt.Sprintf("السياق: %s\n\n%s", ctxJSON, req.Prompt)
	}

	temperature := float32(req.Temperature)
	result, err := g.client.Models.GenerateContent(ctx, model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			MaxOutputTokens: int32(req.MaxTokens),
			Temperature:     &temperature,
		},
	)
	if err != nil {
		return "", 0, fmt.Errorf("genai generate: %w", err)
	}

	content := result.Text()
	tokens := 0
	if result.UsageMetadata != nil {
		tokens = int(result.UsageMetadata.TotalTokenCount)
	}
	return content, tokens, nil
}

// #endregion gemini-client
