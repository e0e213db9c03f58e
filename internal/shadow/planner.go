package shadow

import (
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rmf-ai/dreams-engine/internal/plan"
)

// #region planner

// Planner maintains the working set of shadow plans for one engine
// instance. All methods are safe for concurrent use; the working set is
// read-mostly, so a read/write lock guards it.
type Planner struct {
	mu      sync.RWMutex
	plans   map[string]*ShadowPlan
	matcher TriggerMatcher
	created int

	now func() time.Time
}

// NewPlanner returns a planner with the default substring trigger
// matcher and an empty working set.
func NewPlanner() *Planner {
	return &Planner{
		plans:   make(map[string]*ShadowPlan),
		matcher: SubstringMatcher{},
		now:     time.Now,
	}
}

func newPlanID(planType PlanType) string {
	return fmt.Sprintf("%s_%s", planType, uuid.New().String())
}

// #endregion planner

// #region create

// CreateShadowPlans derives the full alternative-plan set for one task:
// the primary plan with its risk analysis, one fallback per identified
// failure point, optimization plans for parallelizable and cacheable
// step groups, and preventive plans for known recurring issues. Every
// plan starts in shadow state and joins the working set.
func (pl *Planner) CreateShadowPlans(task string, primary plan.Plan, ctx map[string]any) []ShadowPlan {
	now := pl.now().UTC()

	var out []ShadowPlan
	out = append(out, pl.buildPrimary(task, primary, ctx, now))
	out = append(out, pl.buildFallbacks(task, primary, now)...)
	out = append(out, pl.buildOptimizations(task, primary, now)...)
	out = append(out, pl.buildPreventive(task, now)...)

	pl.mu.Lock()
	for i := range out {
		p := out[i]
		pl.plans[p.PlanID] = &p
	}
	pl.created += len(out)
	pl.mu.Unlock()

	log.Printf("[SHADOW] created %d plan(s) for task %q", len(out), task)
	return out
}

func (pl *Planner) buildPrimary(task string, primary plan.Plan, ctx map[string]any, now time.Time) ShadowPlan {
	steps := make([]plan.Step, len(primary.Steps))
	copy(steps, primary.Steps)

	return ShadowPlan{
		PlanID:     newPlanID(PlanPrimary),
		ParentTask: task,
		PlanType:   PlanPrimary,
		Status:     StatusShadow,
		Steps:      steps,
		Risks:      analyzeRisks(primary, ctx),
		Triggers:   []string{"user_approval"},
		Confidence: 0.85,
		CreatedAt:  now,
		Reasoning:  "الخطة الرئيسية المقترحة بناءً على فهم المهمة",
	}
}

func (pl *Planner) buildFallbacks(task string, primary plan.Plan, now time.Time) []ShadowPlan {
	var out []ShadowPlan
	for _, failure := range identifyFailurePoints(primary) {
		out = append(out, ShadowPlan{
			PlanID:     newPlanID(PlanFallback),
			ParentTask: task,
			PlanType:   PlanFallback,
			Status:     StatusShadow,
			Steps:      alternativeApproach(failure.Type),
			Triggers: []string{
				fmt.Sprintf("failure_at_%d", failure.StepIndex),
				fmt.Sprintf("error_%s", failure.Type),
			},
			Confidence: 0.7,
			CreatedAt:  now,
			Reasoning:  fmt.Sprintf("خطة بديلة في حالة: %s", failure.Description),
		})
	}
	return out
}

func (pl *Planner) buildOptimizations(task string, primary plan.Plan, now time.Time) []ShadowPlan {
	var parallelizable, cacheable []int
	for i, step := range primary.Steps {
		if step.Independent {
			parallelizable = append(parallelizable, i)
		}
		if step.Cacheable {
			cacheable = append(cacheable, i)
		}
	}

	optimizationTriggers := []string{"performance_degradation", "user_requests_faster"}

	var out []ShadowPlan
	if len(parallelizable) > 1 {
		out = append(out, ShadowPlan{
			PlanID:     newPlanID(PlanOptimization),
			ParentTask: task,
			PlanType:   PlanOptimization,
			Status:     StatusShadow,
			Steps: []plan.Step{{
				Action:      "run_parallel",
				StepIndices: parallelizable,
			}},
			Triggers:   optimizationTriggers,
			Confidence: 0.75,
			CreatedAt:  now,
			Reasoning:  "تحسين: تنفيذ خطوات متعددة بالتوازي",
		})
	}
	if len(cacheable) > 0 {
		out = append(out, ShadowPlan{
			PlanID:     newPlanID(PlanOptimization),
			ParentTask: task,
			PlanType:   PlanOptimization,
			Status:     StatusShadow,
			Steps: []plan.Step{{
				Action:      "enable_cache",
				StepIndices: cacheable,
			}},
			Triggers:   optimizationTriggers,
			Confidence: 0.75,
			CreatedAt:  now,
			Reasoning:  "تحسين: تخزين النتائج مؤقتاً لتسريع التنفيذ",
		})
	}
	return out
}

func (pl *Planner) buildPreventive(task string, now time.Time) []ShadowPlan {
	var out []ShadowPlan
	for _, issue := range commonIssuesForTask(task) {
		out = append(out, ShadowPlan{
			PlanID:     newPlanID(PlanPreventive),
			ParentTask: task,
			PlanType:   PlanPreventive,
			Status:     StatusShadow,
			Steps:      issue.PreventionSteps,
			Triggers:   []string{"before_execution"},
			Confidence: 0.8,
			CreatedAt:  now,
			Reasoning:  fmt.Sprintf("منع مشكلة متكررة: %s", issue.Description),
		})
	}
	return out
}

// #endregion create

// #region lifecycle

// ActivatePlan moves a plan from shadow to active and stamps the
// activation time. Activating a plan twice is rejected, not repeated.
func (pl *Planner) ActivatePlan(planID string) error {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	p, ok := pl.plans[planID]
	if !ok {
		return fmt.Errorf("activate %s: %w", planID, ErrUnknownPlan)
	}
	if p.Status != StatusShadow {
		return fmt.Errorf("activate %s (status %s): %w", planID, p.Status, ErrPlanNotShadow)
	}

	now := pl.now().UTC()
	p.Status = StatusActive
	p.ActivatedAt = &now

	log.Printf("[SHADOW] activated plan %s (%s)", planID, p.PlanType)
	return nil
}

// ArchivePlan retires a plan. Both shadow and active plans may be
// archived; archived is terminal.
func (pl *Planner) ArchivePlan(planID string) error {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	p, ok := pl.plans[planID]
	if !ok {
		return fmt.Errorf("archive %s: %w", planID, ErrUnknownPlan)
	}
	if p.Status == StatusArchived {
		return fmt.Errorf("archive %s: %w", planID, ErrPlanArchived)
	}

	p.Status = StatusArchived
	log.Printf("[SHADOW] archived plan %s (%s)", planID, p.PlanType)
	return nil
}

// #endregion lifecycle

// #region triggers

// CheckTriggers returns the ids of shadow plans whose triggers match the
// event or context. It is a read-only scan: the caller decides which
// candidates to activate. Results are sorted for determinism.
func (pl *Planner) CheckTriggers(event string, ctx map[string]any) []string {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	var candidates []string
	for id, p := range pl.plans {
		if p.Status != StatusShadow {
			continue
		}
		for _, trigger := range p.Triggers {
			if pl.matcher.Matches(trigger, event, ctx) {
				candidates = append(candidates, id)
				break
			}
		}
	}
	sort.Strings(candidates)
	return candidates
}

// #endregion triggers

// #region briefing

// GetCognitiveBriefing aggregates the working set into a point-in-time
// summary: status counts, heuristic pattern/bottleneck/optimization
// strings, and the mean plan confidence as system confidence.
func (pl *Planner) GetCognitiveBriefing() CognitiveState {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	active, shadowCount := 0, 0
	var confidenceSum float64
	var patterns, bottlenecks, optimizations []string

	for _, p := range pl.plans {
		confidenceSum += p.Confidence
		switch p.Status {
		case StatusActive:
			active++
			for _, risk := range p.Risks {
				if risk.Probability > 0.5 && (risk.Impact == ImpactHigh || risk.Impact == ImpactCritical) {
					bottlenecks = append(bottlenecks, fmt.Sprintf("%s: احتمال %s", p.PlanType, risk.RiskType))
				}
			}
		case StatusShadow:
			shadowCount++
		}
		if p.PlanType == PlanOptimization && p.Confidence > 0.7 {
			optimizations = append(optimizations, p.Reasoning)
		}
	}

	if pl.created > 10 {
		patterns = append(patterns, "المستخدم يفضل التنفيذ السريع على الدقة")
	}

	confidence := 0.5
	if len(pl.plans) > 0 {
		confidence = math.Round(confidenceSum/float64(len(pl.plans))*100) / 100
	}

	sort.Strings(bottlenecks)
	sort.Strings(optimizations)

	return CognitiveState{
		ActivePlans:              active,
		ShadowPlans:              shadowCount,
		DetectedPatterns:         patterns,
		PredictedBottlenecks:     bottlenecks,
		RecommendedOptimizations: optimizations,
		SystemConfidence:         confidence,
		LastLearning:             pl.now().UTC(),
	}
}

// #endregion briefing

// #region export

// GetPlan returns a copy of one plan from the working set.
func (pl *Planner) GetPlan(planID string) (ShadowPlan, bool) {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	p, ok := pl.plans[planID]
	if !ok {
		return ShadowPlan{}, false
	}
	return *p, true
}

// ExportPlans snapshots the full working set with summary counts.
func (pl *Planner) ExportPlans() Export {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	out := Export{Plans: make(map[string]ShadowPlan, len(pl.plans))}
	for id, p := range pl.plans {
		out.Plans[id] = *p
		out.Stats.Total++
		switch p.Status {
		case StatusActive:
			out.Stats.Active++
		case StatusShadow:
			out.Stats.Shadow++
		}
	}
	return out
}

// #endregion export
