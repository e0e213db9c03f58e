package intent

import "github.com/rmf-ai/dreams-engine/internal/plan"

// #region to-execution-plan

// ToExecutionPlan converts a reconstructed intent into the execution-plan
// skeleton the shadow planner consumes. High ambiguity front-loads a
// clarification phase instead of a planning phase.
func ToExecutionPlan(ri ReconstructedIntent) plan.Plan {
	complexity := plan.ComplexityMedium
	if ri.AmbiguityScore > 0.5 {
		complexity = plan.ComplexityHigh
	}

	var prep plan.Phase
	if ri.AmbiguityScore > 0.6 {
		prep = plan.Phase{Name: "Clarification"}
		for i, goal := range ri.SubGoals {
			if i >= 2 {
				break
			}
			prep.Steps = append(prep.Steps, "توضيح: "+goal)
		}
	} else {
		prep = plan.Phase{Name: "Planning"}
		for _, goal := range ri.SubGoals {
			prep.Steps = append(prep.Steps, "تخطيط: "+goal)
		}
	}

	execution := plan.Phase{Name: "Execution"}
	steps := make([]plan.Step, 0, len(ri.SuggestedActions))
	var approvalPoints []string
	autoExecutable := true

	for _, a := range ri.SuggestedActions {
		execution.Steps = append(execution.Steps, a.Description)

		traits := actionStepTraits[a.Type]
		steps = append(steps, plan.Step{
			Type:                traits.stepType,
			Action:              string(a.Type),
			Description:         a.Description,
			Complexity:          a.Complexity,
			RequiresApproval:    a.RequiresApproval,
			RequiresExternalAPI: traits.externalAPI,
			Independent:         traits.independent,
			Cacheable:           traits.cacheable,
		})

		if a.RequiresApproval {
			approvalPoints = append(approvalPoints, a.Description)
		}
		if !a.AutoExecutable {
			autoExecutable = false
		}
	}

	return plan.Plan{
		Title:          ri.PrimaryGoal,
		Complexity:     complexity,
		Strategy:       string(ri.Strategy),
		Steps:          steps,
		Phases:         []plan.Phase{prep, execution},
		Assumptions:    ri.ContextAssumptions,
		ApprovalPoints: approvalPoints,
		AutoExecutable: autoExecutable,
	}
}

// #endregion to-execution-plan
