package memory

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"
)

// #region config

// Config holds tuning knobs for the decision memory.
type Config struct {
	// CacheLimit bounds the in-memory read cache per task type.
	CacheLimit int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{CacheLimit: 1000}
}

// #endregion config

// #region decision-memory

// DecisionMemory records operator decisions and predicts future ones.
// It owns both the durable store and a bounded read cache; the cache is
// refreshed on every write so reads stay coherent.
type DecisionMemory struct {
	store  *Store
	config Config

	mu    sync.RWMutex
	cache map[string][]DecisionPattern // task type → newest-first patterns
}

// NewDecisionMemory runs migrations and returns a ready memory.
func NewDecisionMemory(db *sql.DB, config Config) (*DecisionMemory, error) {
	store, err := NewStore(db)
	if err != nil {
		return nil, err
	}
	if config.CacheLimit <= 0 {
		config.CacheLimit = DefaultConfig().CacheLimit
	}
	return &DecisionMemory{
		store:  store,
		config: config,
		cache:  make(map[string][]DecisionPattern),
	}, nil
}

// #endregion decision-memory

// #region record

// RecordDecision appends one operator decision and synchronously extracts
// any preference signals it carries. Fails only on storage errors or a
// non-fingerprintable context.
func (m *DecisionMemory) RecordDecision(
	taskType string,
	ctx map[string]any,
	decision Decision,
	confidence float64,
	notes string,
) (int64, error) {
	fp, err := Fingerprint(ctx)
	if err != nil {
		return 0, err
	}

	pattern := DecisionPattern{
		TaskType:          taskType,
		Fingerprint:       fp,
		Decision:          decision,
		Confidence:        confidence,
		Timestamp:         time.Now().UTC(),
		ModificationNotes: notes,
		RawContext:        ctx,
	}

	id, err := m.store.InsertDecision(pattern)
	if err != nil {
		return 0, err
	}
	pattern.ID = id

	m.mu.Lock()
	cached := append([]DecisionPattern{pattern}, m.cache[taskType]...)
	if len(cached) > m.config.CacheLimit {
		cached = cached[:m.config.CacheLimit]
	}
	m.cache[taskType] = cached
	m.mu.Unlock()

	if err := m.extractPreferences(taskType, ctx, decision, id); err != nil {
		return 0, err
	}
	return id, nil
}

// #endregion record

// #region update-outcome

// UpdateOutcome sets the post-hoc execution result for a decision. The
// unset→set transition is allowed exactly once.
func (m *DecisionMemory) UpdateOutcome(decisionID int64, success bool) error {
	if err := m.store.SetOutcome(decisionID, success); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for taskType, patterns := range m.cache {
		for i := range patterns {
			if patterns[i].ID == decisionID {
				v := success
				patterns[i].ExecutionSuccess = &v
				m.cache[taskType] = patterns
				return nil
			}
		}
	}
	return nil // not cached; the durable row is already updated
}

// #endregion update-outcome

// #region predict

// PredictApproval predicts the operator's decision for a new request.
// Sparse data is a value, not an error: with no history it returns
// needs_review at zero confidence.
func (m *DecisionMemory) PredictApproval(taskType string, ctx map[string]any) (Prediction, error) {
	fp, err := Fingerprint(ctx)
	if err != nil {
		return Prediction{}, err
	}

	patterns, err := m.patternsFor(taskType)
	if err != nil {
		return Prediction{}, err
	}

	var exact []DecisionPattern
	for _, p := range patterns {
		if p.Fingerprint == fp {
			exact = append(exact, p)
		}
	}
	if len(exact) > 0 {
		return predictFromExact(exact), nil
	}

	similar := findSimilar(patterns, ctx)
	if len(similar) > 0 {
		return predictFromSimilar(similar), nil
	}

	return Prediction{
		Decision:   DecisionNeedsReview,
		Confidence: 0.0,
		Reasoning:  "new task, no prior data",
	}, nil
}

// predictFromExact uses the most recent identical-context decision.
// Only exact matches may ever auto-approve.
func predictFromExact(exact []DecisionPattern) Prediction {
	latest := exact[0]
	for _, p := range exact[1:] {
		if p.Timestamp.After(latest.Timestamp) {
			latest = p
		}
	}

	succeeded := 0
	for _, p := range exact {
		if p.ExecutionSuccess != nil && *p.ExecutionSuccess {
			succeeded++
		}
	}
	successRate := float64(succeeded) / float64(len(exact))

	confidence := 0.6 + 0.1*float64(len(exact)) + 0.2*successRate
	if confidence > 0.95 {
		confidence = 0.95
	}

	return Prediction{
		Decision:   latest.Decision,
		Confidence: confidence,
		Reasoning: fmt.Sprintf("matched %d identical prior case(s), most recent %s",
			len(exact), latest.Timestamp.Format("2006-01-02")),
		SimilarCases: head(exact, 3),
		ShouldAutoApprove: latest.Decision == DecisionApprove &&
			confidence > 0.85 &&
			successRate > 0.8,
	}
}

// predictFromSimilar majority-votes approve vs reject. Similar-but-not-
// identical history never auto-approves.
func predictFromSimilar(similar []DecisionPattern) Prediction {
	approvals, rejections := 0, 0
	for _, p := range similar {
		switch p.Decision {
		case DecisionApprove:
			approvals++
		case DecisionReject:
			rejections++
		}
	}

	var predicted Decision
	var confidence float64
	switch {
	case approvals > rejections:
		predicted = DecisionApprove
		confidence = float64(approvals) / float64(len(similar))
	case rejections > approvals:
		predicted = DecisionReject
		confidence = float64(rejections) / float64(len(similar))
	default:
		predicted = DecisionNeedsReview
		confidence = 0.5
	}
	if confidence > 0.75 {
		confidence = 0.75
	}

	return Prediction{
		Decision:          predicted,
		Confidence:        confidence,
		Reasoning:         fmt.Sprintf("based on %d similar prior case(s)", len(similar)),
		SimilarCases:      head(similar, 3),
		ShouldAutoApprove: false,
	}
}

// #endregion predict

// #region cache

// patternsFor reads the task type's history through the cache.
func (m *DecisionMemory) patternsFor(taskType string) ([]DecisionPattern, error) {
	m.mu.RLock()
	cached, ok := m.cache[taskType]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	loaded, err := m.store.RecentByTaskType(taskType, m.config.CacheLimit)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	// Another goroutine may have filled the entry meanwhile; its version
	// is at least as fresh.
	if existing, ok := m.cache[taskType]; ok {
		loaded = existing
	} else {
		m.cache[taskType] = loaded
	}
	m.mu.Unlock()
	return loaded, nil
}

// #endregion cache

// #region preferences

// extractPreferences upserts preference rows derived from fixed heuristic
// rules tied to task type and decision outcome.
func (m *DecisionMemory) extractPreferences(
	taskType string,
	ctx map[string]any,
	decision Decision,
	decisionID int64,
) error {
	var prefs []Preference
	now := time.Now().UTC()

	if taskType == "execute_code" && decision == DecisionApprove {
		if lang, ok := ctx["language"].(string); ok && lang != "" {
			prefs = append(prefs, Preference{
				Key:         "preferred_language_" + strings.ToLower(lang),
				Value:       "1",
				LearnedFrom: decisionID,
				Confidence:  0.7,
				LastUpdated: now,
			})
		}
	}

	if taskType == "create_account" && decision == DecisionReject {
		canonical, _ := Canonicalize(ctx)
		if strings.Contains(strings.ToLower(canonical), "finance") {
			prefs = append(prefs, Preference{
				Key:         "cautious_financial_accounts",
				Value:       "1",
				LearnedFrom: decisionID,
				Confidence:  0.7,
				LastUpdated: now,
			})
		}
	}

	for _, p := range prefs {
		if err := m.store.UpsertPreference(p); err != nil {
			return err
		}
	}
	return nil
}

// GetPreferences returns learned preferences above the 0.5 confidence
// floor as a key→value map.
func (m *DecisionMemory) GetPreferences() (map[string]string, error) {
	prefs, err := m.store.Preferences(0.5)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	return out, nil
}

// #endregion preferences

// #region stats

// GetStats aggregates the learning history from the durable store.
func (m *DecisionMemory) GetStats() (Stats, error) {
	return m.store.AggregateStats()
}

// #endregion stats

// #region helpers

func head(patterns []DecisionPattern, n int) []DecisionPattern {
	if len(patterns) <= n {
		return patterns
	}
	return patterns[:n]
}

// #endregion helpers
