package provider

import (
	"context"
	"errors"
	"testing"
)

type stubCompleter struct {
	content string
	tokens  int
	err     error
	calls   int
}

func (s *stubCompleter) Complete(_ context.Context, _ string, _ Request) (string, int, error) {
	s.calls++
	return s.content, s.tokens, s.err
}

func TestSelectModelQuickTask(t *testing.T) {
	r := NewRegistry()

	m := r.SelectModel(Request{TaskType: "quick_task", Prompt: "list files"})
	if m.ModelName != "gpt-3.5-turbo" {
		t.Errorf("quick_task selected %s, want gpt-3.5-turbo", m.ModelName)
	}
}

func TestSelectModelCodeGeneration(t *testing.T) {
	r := NewRegistry()

	m := r.SelectModel(Request{TaskType: "code_generation", Prompt: "write a parser"})
	if m.ModelName != "gpt-4-turbo-preview" {
		t.Errorf("code_generation selected %s, want gpt-4-turbo-preview", m.ModelName)
	}
}

func TestSelectModelPreferredProvider(t *testing.T) {
	r := NewRegistry()

	m := r.SelectModel(Request{
		TaskType:          "code_generation",
		PreferredProvider: ProviderGoogle,
	})
	if m.Provider != ProviderGoogle {
		t.Errorf("preferred provider ignored, got %s", m.Provider)
	}
	if m.ModelName != "gemini-pro" {
		t.Errorf("expected gemini-pro, got %s", m.ModelName)
	}
}

func TestSelectModelContextWindow(t *testing.T) {
	r := NewRegistry()

	// A token budget only the 200k-window models satisfy.
	m := r.SelectModel(Request{
		TaskType:  "planning",
		Context:   map[string]any{"history": "x"},
		MaxTokens: 150000,
	})
	if m.Provider != ProviderAnthropic {
		t.Errorf("expected a long-context model, got %s/%s", m.Provider, m.ModelName)
	}
	if m.ModelName != "claude-3-opus-20240229" {
		t.Errorf("planning favors reasoning+long_context, got %s", m.ModelName)
	}
}

func TestSelectModelFallbackWhenOverConstrained(t *testing.T) {
	r := NewRegistry()

	// No model has a 10M-token window; selection falls back to the
	// first table row.
	m := r.SelectModel(Request{
		Context:   map[string]any{"history": "x"},
		MaxTokens: 10_000_000,
	})
	if m.ModelName != "gpt-4-turbo-preview" {
		t.Errorf("over-constrained fallback = %s, want first table row", m.ModelName)
	}
}

func TestExecuteNoClient(t *testing.T) {
	r := NewRegistry()

	_, err := r.Execute(context.Background(), Request{TaskType: "quick_task", Prompt: "hi"})
	if !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
}

func TestExecuteAccounting(t *testing.T) {
	r := NewRegistry()
	stub := &stubCompleter{content: "done", tokens: 2000}
	r.RegisterClient(ProviderOpenAI, stub)

	resp, err := r.Execute(context.Background(), Request{TaskType: "quick_task", Prompt: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if stub.calls != 1 {
		t.Errorf("stub called %d times, want 1", stub.calls)
	}
	if resp.Content != "done" || resp.TokensUsed != 2000 {
		t.Errorf("response payload wrong: %+v", resp)
	}
	// gpt-3.5-turbo at 0.002 per 1k tokens.
	if resp.Cost != 0.004 {
		t.Errorf("cost = %f, want 0.004", resp.Cost)
	}

	stats := r.Stats()
	if stats.TotalRequests != 1 || stats.TotalCost != 0.004 {
		t.Errorf("stats = %+v", stats)
	}
	if usage := stats.ByProvider[ProviderOpenAI]; usage.Requests != 1 || usage.Cost != 0.004 {
		t.Errorf("provider usage = %+v", usage)
	}
}

func TestExecuteSurfacesBackendError(t *testing.T) {
	r := NewRegistry()
	backendErr := errors.New("rate limited")
	r.RegisterClient(ProviderOpenAI, &stubCompleter{err: backendErr})

	_, err := r.Execute(context.Background(), Request{TaskType: "quick_task", Prompt: "hi"})
	if !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error to surface, got %v", err)
	}

	if stats := r.Stats(); stats.TotalRequests != 0 {
		t.Errorf("failed call must not count toward usage, got %+v", stats)
	}
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "")
	if !errors.Is(err, ErrEmptyAPIKey) {
		t.Fatalf("expected ErrEmptyAPIKey, got %v", err)
	}
}
