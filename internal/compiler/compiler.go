package compiler

import (
	"context"
	"fmt"
	"time"

	"github.com/rmf-ai/dreams-engine/internal/intent"
	"github.com/rmf-ai/dreams-engine/internal/plan"
	"github.com/rmf-ai/dreams-engine/internal/provider"
	"github.com/rmf-ai/dreams-engine/internal/shadow"
)

// #region compiler

// Inference executes one model call. The provider registry satisfies
// this; a nil Inference degrades compilation to deterministic assets
// only.
type Inference interface {
	Execute(ctx context.Context, req provider.Request) (provider.Response, error)
}

// Compiler turns a raw idea into a compiled bundle: reconstructed
// intent, execution plan, shadow plans, generated assets, and next
// actions.
type Compiler struct {
	planner   *shadow.Planner
	inference Inference

	now func() time.Time
}

// NewCompiler wires a compiler over a shadow planner and an optional
// inference backend.
func NewCompiler(planner *shadow.Planner, inference Inference) *Compiler {
	return &Compiler{
		planner:   planner,
		inference: inference,
		now:       time.Now,
	}
}

// #endregion compiler

// #region compile

// Compile runs the full pipeline. It never fails: inference errors
// degrade to missing assets, and everything else is deterministic.
func (c *Compiler) Compile(ctx context.Context, idea string, ideaCtx map[string]any) CompiledIdea {
	reconstructed := intent.Reconstruct(idea, ideaCtx)
	executionPlan := intent.ToExecutionPlan(reconstructed)
	shadowPlans := c.planner.CreateShadowPlans(reconstructed.PrimaryGoal, executionPlan, ideaCtx)

	assets := c.generateAssets(ctx, reconstructed)
	nextActions := determineNextActions(reconstructed, assets)

	return CompiledIdea{
		OriginalIdea:          idea,
		Intent:                reconstructed,
		ExecutionPlan:         executionPlan,
		ShadowPlans:           shadowPlans,
		Assets:                assets,
		NextActions:           nextActions,
		CompilationConfidence: compilationConfidence(reconstructed, executionPlan, assets),
		EstimatedCompletion:   estimateCompletion(executionPlan),
		CompiledAt:            c.now().UTC(),
	}
}

// #endregion compile

// #region next-actions

func determineNextActions(ri intent.ReconstructedIntent, assets Assets) []NextAction {
	var actions []NextAction

	if assets.InitialCode != "" {
		actions = append(actions, NextAction{
			Action:      "create_project_files",
			Description: "إنشاء ملفات المشروع",
			Status:      StatusReady,
		})
	}
	if len(assets.DomainSuggestions) > 0 {
		actions = append(actions, NextAction{
			Action:      "check_domain_availability",
			Description: fmt.Sprintf("فحص توافر %s", assets.DomainSuggestions[0]),
			Status:      StatusReady,
		})
	}
	actions = append(actions, NextAction{
		Action:      "review_plan",
		Description: "مراجعة الخطة والموافقة عليها",
		Status:      StatusAwaitingApproval,
	})

	if ri.Strategy == intent.StrategyInteractiveClarification {
		actions = append([]NextAction{{
			Action:      "clarify_requirements",
			Description: "توضيح المتطلبات الغامضة",
			Status:      StatusNeedsInput,
		}}, actions...)
	}

	return actions
}

// #endregion next-actions

// #region confidence

// compilationConfidence blends intent clarity, asset completeness, and
// plan shape into [0,1].
func compilationConfidence(ri intent.ReconstructedIntent, p plan.Plan, assets Assets) float64 {
	score := (1 - ri.AmbiguityScore) * 0.4
	score += float64(assets.count()) / maxAssetKinds * 0.3
	if p.AutoExecutable {
		score += 0.2
	} else {
		score += 0.1
	}
	if p.TotalPhaseSteps() > 3 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// estimateCompletion is a coarse textual estimate, not a schedule.
func estimateCompletion(p plan.Plan) string {
	totalSteps := p.TotalPhaseSteps()
	switch {
	case p.Complexity == plan.ComplexityHigh || totalSteps > 10:
		return "مشروع معقد - يحتاج تخطيط مفصل"
	case totalSteps > 5:
		return "مشروع متوسط - قابل للتنفيذ بعد التوضيح"
	default:
		return "مشروع بسيط - جاهز للتنفيذ الفوري"
	}
}

// #endregion confidence
