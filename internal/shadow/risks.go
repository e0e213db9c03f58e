package shadow

import (
	"strings"

	"github.com/rmf-ai/dreams-engine/internal/plan"
)

// #region risk-profiles

// stepRiskProfiles maps risk-bearing step types to their standing
// assessment. Steps outside this table carry no per-step risk.
var stepRiskProfiles = map[plan.StepType]RiskAssessment{
	plan.StepAPICall: {
		RiskType:    "network_timeout",
		Probability: 0.1,
		Impact:      ImpactMedium,
		Mitigation:  "timeout + retry",
	},
	plan.StepFileOperation: {
		RiskType:    "permission_denied",
		Probability: 0.08,
		Impact:      ImpactMedium,
		Mitigation:  "فحص الصلاحيات مسبقاً",
	},
	plan.StepDatabaseQuery: {
		RiskType:    "query_timeout",
		Probability: 0.12,
		Impact:      ImpactHigh,
		Mitigation:  "query optimization + indexing",
	},
}

// analyzeRisks scans every step for known risk-bearing step types and
// adds two context-driven blanket risks with automatic mitigation.
func analyzeRisks(p plan.Plan, ctx map[string]any) []RiskAssessment {
	var risks []RiskAssessment

	for _, step := range p.Steps {
		if profile, ok := stepRiskProfiles[step.Type]; ok {
			risks = append(risks, profile)
		}
	}

	if truthy(ctx["requires_external_api"]) {
		risks = append(risks, RiskAssessment{
			RiskType:    "api_failure",
			Probability: 0.15,
			Impact:      ImpactMedium,
			Mitigation:  "استخدام retry logic مع exponential backoff",
			AutoTrigger: true,
		})
	}
	if truthy(ctx["involves_data_modification"]) {
		risks = append(risks, RiskAssessment{
			RiskType:    "data_loss",
			Probability: 0.05,
			Impact:      ImpactCritical,
			Mitigation:  "إنشاء backup قبل التعديل",
			AutoTrigger: true,
		})
	}

	return risks
}

// #endregion risk-profiles

// #region failure-points

// failurePoint marks one step of the primary plan that can plausibly
// fail, with the predicted failure mode.
type failurePoint struct {
	StepIndex   int
	Type        FailureType
	Description string
}

// identifyFailurePoints flags external-call steps, high-complexity
// steps, and approval-gated steps. One step can contribute several
// failure points.
func identifyFailurePoints(p plan.Plan) []failurePoint {
	var points []failurePoint

	for i, step := range p.Steps {
		if step.RequiresExternalAPI {
			points = append(points, failurePoint{
				StepIndex:   i,
				Type:        FailureAPIUnavailable,
				Description: "API غير متاح",
			})
		}
		if step.Complexity == plan.ComplexityHigh {
			points = append(points, failurePoint{
				StepIndex:   i,
				Type:        FailureExecutionTimeout,
				Description: "تعقيد عالي قد يؤدي لفشل",
			})
		}
		if step.RequiresApproval {
			points = append(points, failurePoint{
				StepIndex:   i,
				Type:        FailureUserRejection,
				Description: "احتمال رفض المستخدم",
			})
		}
	}

	return points
}

// #endregion failure-points

// #region alternatives

// alternativeApproaches is the fixed lookup of fallback steps per
// failure type.
var alternativeApproaches = map[FailureType][]plan.Step{
	FailureAPIUnavailable: {
		{
			Type:        "fallback_data",
			Action:      "load_cached_data",
			Description: "استخدام بيانات محفوظة مؤقتاً",
		},
		{
			Type:        "alternative_api",
			Action:      "switch_to_backup_api",
			Description: "استخدام API بديل",
		},
	},
	FailureExecutionTimeout: {
		{
			Type:        "simplify",
			Action:      "break_into_smaller_chunks",
			Description: "تبسيط العملية",
		},
	},
	FailureUserRejection: {
		{
			Type:        "request_clarification",
			Action:      "ask_for_modification",
			Description: "طلب توضيح من المستخدم",
		},
	},
}

func alternativeApproach(failure FailureType) []plan.Step {
	steps := alternativeApproaches[failure]
	out := make([]plan.Step, len(steps))
	copy(out, steps)
	return out
}

// #endregion alternatives

// #region preventive

// recurringIssue is one known-recurring problem for a task family and
// the steps that head it off.
type recurringIssue struct {
	Description     string
	PreventionSteps []plan.Step
}

// commonIssuesForTask keys on substrings of the task name.
func commonIssuesForTask(task string) []recurringIssue {
	lower := strings.ToLower(task)
	var issues []recurringIssue

	if strings.Contains(lower, "api") {
		issues = append(issues, recurringIssue{
			Description: "rate limiting",
			PreventionSteps: []plan.Step{
				{
					Action:      "implement_rate_limiter",
					Description: "تطبيق rate limiting",
				},
			},
		})
	}
	if strings.Contains(lower, "database") {
		issues = append(issues, recurringIssue{
			Description: "connection pool exhaustion",
			PreventionSteps: []plan.Step{
				{
					Action:      "configure_connection_pool",
					Description: "ضبط connection pool",
				},
			},
		})
	}

	return issues
}

// #endregion preventive

// #region helpers

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// #endregion helpers
