package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"
)

// #region models

// builtinModels is the fixed capability table the registry scores
// against. Ratings are 1-10; cost is USD per 1k tokens.
func builtinModels() []ModelCapability {
	return []ModelCapability{
		{
			Provider:          ProviderOpenAI,
			ModelName:         "gpt-4-turbo-preview",
			Strengths:         []string{"reasoning", "coding", "analysis", "creative_writing"},
			Weaknesses:        []string{"cost"},
			CostPer1KTokens:   0.03,
			SpeedRating:       7,
			QualityRating:     10,
			ContextWindow:     128000,
			SupportsStreaming: true,
			SupportsFunctions: true,
		},
		{
			Provider:          ProviderOpenAI,
			ModelName:         "gpt-3.5-turbo",
			Strengths:         []string{"speed", "cost_effective", "general_tasks"},
			Weaknesses:        []string{"complex_reasoning"},
			CostPer1KTokens:   0.002,
			SpeedRating:       10,
			QualityRating:     7,
			ContextWindow:     16000,
			SupportsStreaming: true,
			SupportsFunctions: true,
		},
		{
			Provider:          ProviderAnthropic,
			ModelName:         "claude-3-opus-20240229",
			Strengths:         []string{"reasoning", "long_context", "nuanced_understanding", "safety"},
			Weaknesses:        []string{"cost", "speed"},
			CostPer1KTokens:   0.015,
			SpeedRating:       6,
			QualityRating:     10,
			ContextWindow:     200000,
			SupportsStreaming: true,
			SupportsFunctions: true,
		},
		{
			Provider:          ProviderAnthropic,
			ModelName:         "claude-3-sonnet-20240229",
			Strengths:         []string{"balanced", "coding", "analysis"},
			CostPer1KTokens:   0.003,
			SpeedRating:       8,
			QualityRating:     8,
			ContextWindow:     200000,
			SupportsStreaming: true,
			SupportsFunctions: true,
		},
		{
			Provider:          ProviderGoogle,
			ModelName:         "gemini-pro",
			Strengths:         []string{"multimodal", "reasoning", "free_tier"},
			Weaknesses:        []string{"availability"},
			CostPer1KTokens:   0.00025,
			SpeedRating:       9,
			QualityRating:     8,
			ContextWindow:     32000,
			SupportsStreaming: true,
			SupportsFunctions: true,
		},
		{
			Provider:          ProviderMistral,
			ModelName:         "mistral-large-latest",
			Strengths:         []string{"reasoning", "coding", "cost_effective", "privacy"},
			Weaknesses:        []string{"availability"},
			CostPer1KTokens:   0.008,
			SpeedRating:       8,
			QualityRating:     8,
			ContextWindow:     32000,
			SupportsStreaming: true,
			SupportsFunctions: true,
		},
	}
}

// strengthMatch maps a task type to the strengths it rewards.
var strengthMatch = map[string][]string{
	"code_generation":  {"coding", "reasoning"},
	"text_analysis":    {"analysis", "reasoning"},
	"creative_writing": {"creative_writing"},
	"data_extraction":  {"reasoning", "analysis"},
	"planning":         {"reasoning", "long_context"},
	"quick_task":       {"speed", "cost_effective"},
}

// #endregion models

// #region usage

// ProviderUsage accumulates per-provider accounting.
type ProviderUsage struct {
	Requests int     `json:"requests"`
	Cost     float64 `json:"cost"`
}

// UsageStats is the registry's running accounting summary.
type UsageStats struct {
	TotalRequests int                    `json:"total_requests"`
	TotalCost     float64                `json:"total_cost"`
	ByProvider    map[Name]ProviderUsage `json:"by_provider"`
}

// #endregion usage

// #region registry

// Registry holds the model capability table, the registered backend
// clients, and running usage stats. Selection is a pure score over the
// table; execution routes to whichever client serves the winner.
type Registry struct {
	models []ModelCapability

	mu      sync.Mutex
	clients map[Name]Completer
	stats   UsageStats

	now func() time.Time
}

// NewRegistry returns a registry over the builtin capability table with
// no clients attached.
func NewRegistry() *Registry {
	return &Registry{
		models:  builtinModels(),
		clients: make(map[Name]Completer),
		stats:   UsageStats{ByProvider: make(map[Name]ProviderUsage)},
		now:     time.Now,
	}
}

// RegisterClient attaches a backend client for one provider, replacing
// any previous one.
func (r *Registry) RegisterClient(name Name, c Completer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = c
}

// #endregion registry

// #region select

// SelectModel picks the best model for a request: filter by preferred
// provider, capability requirements and context window, then score the
// survivors. An empty candidate set falls back to the first table row.
func (r *Registry) SelectModel(req Request) ModelCapability {
	candidates := r.models

	if req.PreferredProvider != "" {
		candidates = filterModels(candidates, func(m ModelCapability) bool {
			return m.Provider == req.PreferredProvider
		})
	}
	if req.RequireStreaming {
		candidates = filterModels(candidates, func(m ModelCapability) bool {
			return m.SupportsStreaming
		})
	}
	if req.RequireFunctions {
		candidates = filterModels(candidates, func(m ModelCapability) bool {
			return m.SupportsFunctions
		})
	}
	if len(req.Context) > 0 {
		estimated := estimateContextTokens(req.Context)
		candidates = filterModels(candidates, func(m ModelCapability) bool {
			return m.ContextWindow >= estimated+req.MaxTokens
		})
	}

	if len(candidates) == 0 {
		return r.models[0]
	}

	best := candidates[0]
	bestScore := scoreModel(best, req)
	for _, m := range candidates[1:] {
		if s := scoreModel(m, req); s > bestScore {
			best, bestScore = m, s
		}
	}
	return best
}

// scoreModel rewards task-matched strengths, speed, quality, and low
// cost.
func scoreModel(m ModelCapability, req Request) float64 {
	score := 0.0
	for _, required := range strengthMatch[req.TaskType] {
		for _, s := range m.Strengths {
			if s == required {
				score += 30
				break
			}
		}
	}
	score += float64(m.SpeedRating) * 2
	score += float64(m.QualityRating) * 3
	score += math.Max(0, 10-m.CostPer1KTokens*100)
	return score
}

func filterModels(models []ModelCapability, keep func(ModelCapability) bool) []ModelCapability {
	var out []ModelCapability
	for _, m := range models {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// estimateContextTokens roughly counts 4 characters per token over the
// serialized context.
func estimateContextTokens(ctx map[string]any) int {
	b, err := json.Marshal(ctx)
	if err != nil {
		return 0
	}
	return len(b) / 4
}

// #endregion select

// #region execute

// Execute selects a model, routes the call to its provider's client,
// and records cost and latency. Errors surface immediately; there is no
// built-in retry.
func (r *Registry) Execute(ctx context.Context, req Request) (Response, error) {
	if req.MaxTokens <= 0 {
		req.MaxTokens = 4000
	}
	if req.Temperature == 0 {
		req.Temperature = 0.7
	}

	model := r.SelectModel(req)

	r.mu.Lock()
	client, ok := r.clients[model.Provider]
	r.mu.Unlock()
	if !ok {
		return Response{}, fmt.Errorf("%s: %w", model.Provider, ErrNoClient)
	}

	start := r.now()
	content, tokensUsed, err := client.Complete(ctx, model.ModelName, req)
	if err != nil {
		return Response{}, fmt.Errorf("complete via %s: %w", model.Provider, err)
	}
	latency := r.now().Sub(start).Seconds()

	cost := float64(tokensUsed) / 1000 * model.CostPer1KTokens
	r.recordUsage(model.Provider, cost)

	log.Printf("[PROVIDER] %s/%s task=%s tokens=%d cost=%.5f",
		model.Provider, model.ModelName, req.TaskType, tokensUsed, cost)

	return Response{
		Provider:       model.Provider,
		Model:          model.ModelName,
		Content:        content,
		TokensUsed:     tokensUsed,
		Cost:           cost,
		LatencySeconds: math.Round(latency*100) / 100,
		Confidence:     0.85,
	}, nil
}

func (r *Registry) recordUsage(name Name, cost float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.TotalRequests++
	r.stats.TotalCost += cost
	usage := r.stats.ByProvider[name]
	usage.Requests++
	usage.Cost += cost
	r.stats.ByProvider[name] = usage
}

// Stats returns a copy of the running usage summary.
func (r *Registry) Stats() UsageStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := UsageStats{
		TotalRequests: r.stats.TotalRequests,
		TotalCost:     r.stats.TotalCost,
		ByProvider:    make(map[Name]ProviderUsage, len(r.stats.ByProvider)),
	}
	for k, v := range r.stats.ByProvider {
		out.ByProvider[k] = v
	}
	return out
}

// #endregion execute
