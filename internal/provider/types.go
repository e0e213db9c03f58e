package provider

import (
	"context"
	"errors"
)

// #region errors

var (
	// ErrNoClient reports that the selected provider has no registered
	// client.
	ErrNoClient = errors.New("no client registered for provider")

	// ErrEmptyAPIKey reports a client constructed without credentials.
	ErrEmptyAPIKey = errors.New("api key is required")
)

// #endregion errors

// #region provider-name

// Name identifies an inference provider.
type Name string

const (
	ProviderOpenAI    Name = "openai"
	ProviderAnthropic Name = "anthropic"
	ProviderGoogle    Name = "google"
	ProviderMistral   Name = "mistral"
)

// #endregion provider-name

// #region capability

// ModelCapability describes one selectable model.
type ModelCapability struct {
	Provider          Name     `json:"provider"`
	ModelName         string   `json:"model_name"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	CostPer1KTokens   float64  `json:"cost_per_1k_tokens"`
	SpeedRating       int      `json:"speed_rating"`
	QualityRating     int      `json:"quality_rating"`
	ContextWindow     int      `json:"context_window"`
	SupportsStreaming bool     `json:"supports_streaming"`
	SupportsFunctions bool     `json:"supports_functions"`
}

// #endregion capability

// #region request-response

// Request is one inference request routed through the registry.
type Request struct {
	TaskType          string         `json:"task_type"`
	Prompt            string         `json:"prompt"`
	Context           map[string]any `json:"context,omitempty"`
	MaxTokens         int            `json:"max_tokens"`
	Temperature       float64        `json:"temperature"`
	PreferredProvider Name           `json:"preferred_provider,omitempty"`
	RequireStreaming  bool           `json:"require_streaming"`
	RequireFunctions  bool           `json:"require_functions"`
}

// Response is a completed inference call with accounting metadata.
type Response struct {
	Provider       Name    `json:"provider"`
	Model          string  `json:"model"`
	Content        string  `json:"content"`
	TokensUsed     int     `json:"tokens_used"`
	Cost           float64 `json:"cost"`
	LatencySeconds float64 `json:"latency_seconds"`
	Confidence     float64 `json:"confidence"`
}

// #endregion request-response

// #region completer

// Completer executes one inference call against a concrete backend.
type Completer interface {
	Complete(ctx context.Context, model string, req Request) (content string, tokensUsed int, err error)
}

// #endregion completer
