package intent

import (
	"regexp"
	"strings"

	"github.com/rmf-ai/dreams-engine/internal/plan"
)

// #region clean

var (
	// Keep word characters, whitespace, and the Arabic block; everything
	// else is noise (emoji, stray punctuation) and becomes a space.
	nonLinguistic = regexp.MustCompile(`[^\w\s\x{0600}-\x{06FF}]`)
	multiSpace    = regexp.MustCompile(`\s+`)
)

func cleanText(text string) string {
	text = nonLinguistic.ReplaceAllString(text, " ")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// #endregion clean

// #region reconstruct

// Reconstruct builds the layered interpretation of a request. It never
// fails: malformed or empty input classifies as vague_idea with high
// ambiguity. ctx may be nil. Pure function of (text, ctx).
func Reconstruct(text string, ctx map[string]any) ReconstructedIntent {
	cleaned := cleanText(text)

	category := classify(cleaned)
	layers := buildLayers(cleaned, category, ctx)
	primaryGoal, subGoals := extractGoals(cleaned, category, layers)
	actions := buildActions(category)
	assumptions := extractAssumptions(cleaned, ctx)
	ambiguity := calculateAmbiguity(cleaned, layers)

	return ReconstructedIntent{
		OriginalText:       text,
		Category:           category,
		PrimaryGoal:        primaryGoal,
		SubGoals:           subGoals,
		Layers:             layers,
		SuggestedActions:   actions,
		ContextAssumptions: assumptions,
		AmbiguityScore:     ambiguity,
		Strategy:           determineStrategy(ambiguity),
	}
}

// #endregion reconstruct

// #region classify

// classify scores every category by phrase containment: triggers weigh 3,
// keywords 2. Ties break by declaration order; all-zero means vague_idea.
func classify(cleaned string) Category {
	lower := strings.ToLower(cleaned)

	best := CategoryVagueIdea
	bestScore := 0
	for _, cat := range categoryOrder {
		p := patterns[cat]
		score := 0
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				score += 2
			}
		}
		for _, tr := range p.triggers {
			if strings.Contains(lower, tr) {
				score += 3
			}
		}
		if score > bestScore {
			bestScore = score
			best = cat
		}
	}
	if bestScore == 0 {
		return CategoryVagueIdea
	}
	return best
}

// #endregion classify

// #region layers

func buildLayers(cleaned string, category Category, ctx map[string]any) []Layer {
	layers := []Layer{{
		Level:          0,
		Interpretation: cleaned,
		Confidence:     1.0,
		Reasoning:      "النص الحرفي",
	}}

	implied := impliedMeanings[category]
	layers = append(layers, Layer{
		Level:          1,
		Interpretation: implied.meaning,
		Confidence:     implied.confidence,
		Reasoning:      implied.reasoning,
	})

	strategic := strategicFor(category, ctx)
	layers = append(layers, Layer{
		Level:          2,
		Interpretation: strategic.meaning,
		Confidence:     strategic.confidence,
		Reasoning:      strategic.reasoning,
	})

	// Meta layer only when the caller supplied enough interaction history.
	if ctxInt(ctx, "user_history_count") >= 3 {
		layers = append(layers, Layer{
			Level:          3,
			Interpretation: metaInterpretation.meaning,
			Confidence:     metaInterpretation.confidence,
			Reasoning:      metaInterpretation.reasoning,
		})
	}

	return layers
}

func strategicFor(category Category, ctx map[string]any) interpretation {
	if ctxTruthy(ctx, "business_context") {
		return businessStrategic
	}
	if s, ok := strategicMeanings[category]; ok {
		return s
	}
	return defaultStrategic
}

// #endregion layers

// #region goals

// extractGoals promotes the implied (level 1) interpretation to primary
// goal and templates the category's implied needs into sub-goals.
func extractGoals(cleaned string, category Category, layers []Layer) (string, []string) {
	primary := cleaned
	if len(layers) > 1 {
		primary = layers[1].Interpretation
	}

	needs := patterns[category].impliedNeeds
	subGoals := make([]string, len(needs))
	for i, need := range needs {
		subGoals[i] = need + " للمشروع"
	}
	return primary, subGoals
}

// #endregion goals

// #region actions

func buildActions(category Category) []SuggestedAction {
	templates := actionTemplates[category]
	actions := make([]SuggestedAction, len(templates))
	for i, tpl := range templates {
		requires := approvalRequired[tpl.action]
		actions[i] = SuggestedAction{
			Step:             i + 1,
			Type:             tpl.action,
			Description:      tpl.description,
			Complexity:       actionComplexity(tpl.action),
			RequiresApproval: requires,
			AutoExecutable:   !requires,
		}
	}
	return actions
}

func actionComplexity(a ActionType) plan.Complexity {
	if highComplexityActions[a] {
		return plan.ComplexityHigh
	}
	return plan.ComplexityMedium
}

// #endregion actions

// #region assumptions

func extractAssumptions(cleaned string, ctx map[string]any) []string {
	var assumptions []string

	if strings.Contains(cleaned, "منتج") || strings.Contains(cleaned, "تطبيق") {
		assumptions = append(assumptions,
			"المستخدم لديه معرفة أساسية بالتكنولوجيا",
			"يريد بناء MVP أولاً",
		)
	}
	if strings.Contains(cleaned, "سريع") || strings.Contains(cleaned, "فوري") {
		assumptions = append(assumptions, "الوقت عامل حاسم")
	}

	if ctxTruthy(ctx, "has_technical_background") {
		assumptions = append(assumptions, "لديه خلفية تقنية")
	}
	if ctxTruthy(ctx, "budget_limited") {
		assumptions = append(assumptions, "الميزانية محدودة")
	}

	if len(assumptions) == 0 {
		assumptions = append(assumptions, "لا توجد افتراضات خاصة")
	}
	return assumptions
}

// #endregion assumptions

// #region ambiguity

// calculateAmbiguity combines three deterministic signals: input length,
// vague-word occurrences (uncapped accumulation), and layer confidence.
// The final score is clamped to [0,1].
func calculateAmbiguity(cleaned string, layers []Layer) float64 {
	// Nothing survived cleaning: fully ambiguous, which forces the
	// interactive-clarification strategy.
	if cleaned == "" {
		return 1.0
	}

	score := 0.0

	wordCount := len(strings.Fields(cleaned))
	switch {
	case wordCount < 5:
		score += 0.3
	case wordCount < 10:
		score += 0.15
	}

	for _, w := range vagueWords {
		if strings.Contains(cleaned, w) {
			score += 0.1
		}
	}

	var sum float64
	for _, l := range layers {
		sum += l.Confidence
	}
	avg := sum / float64(len(layers))
	score += (1 - avg) * 0.3

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func determineStrategy(ambiguity float64) Strategy {
	switch {
	case ambiguity > 0.7:
		return StrategyInteractiveClarification
	case ambiguity > 0.4:
		return StrategyGuidedExploration
	default:
		return StrategyDirectExecution
	}
}

// #endregion ambiguity

// #region context-helpers

// ctxTruthy mirrors loose truthiness on caller-supplied context values:
// absent, nil, false, 0, and "" are all false.
func ctxTruthy(ctx map[string]any, key string) bool {
	if ctx == nil {
		return false
	}
	switch v := ctx[key].(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

func ctxInt(ctx map[string]any, key string) int {
	if ctx == nil {
		return 0
	}
	switch v := ctx[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// #endregion context-helpers
