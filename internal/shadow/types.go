package shadow

import (
	"errors"
	"time"

	"github.com/rmf-ai/dreams-engine/internal/plan"
)

// #region errors

var (
	// ErrUnknownPlan reports a plan id absent from the working set.
	ErrUnknownPlan = errors.New("unknown plan")

	// ErrPlanNotShadow reports a lifecycle transition attempted from the
	// wrong state, e.g. activating an already-active plan.
	ErrPlanNotShadow = errors.New("plan is not in shadow state")

	// ErrPlanArchived reports a transition attempted on a terminal plan.
	ErrPlanArchived = errors.New("plan is archived")
)

// #endregion errors

// #region enums

// PlanType distinguishes how a shadow plan was derived.
type PlanType string

const (
	PlanPrimary      PlanType = "primary"
	PlanFallback     PlanType = "fallback"
	PlanOptimization PlanType = "optimization"
	PlanPreventive   PlanType = "preventive"
)

// PlanStatus is the plan lifecycle state. Transitions only move forward:
// shadow → active → archived, or shadow → archived when superseded.
type PlanStatus string

const (
	StatusShadow   PlanStatus = "shadow"
	StatusActive   PlanStatus = "active"
	StatusArchived PlanStatus = "archived"
)

// Impact grades how badly a materialized risk hurts.
type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

// FailureType names a predicted way a primary-plan step can fail.
type FailureType string

const (
	FailureAPIUnavailable   FailureType = "api_unavailable"
	FailureExecutionTimeout FailureType = "execution_timeout"
	FailureUserRejection    FailureType = "user_rejection"
)

// #endregion enums

// #region risk

// RiskAssessment is one identified risk attached to a plan.
type RiskAssessment struct {
	RiskType    string  `json:"risk_type"`
	Probability float64 `json:"probability"`
	Impact      Impact  `json:"impact"`
	Mitigation  string  `json:"mitigation"`
	AutoTrigger bool    `json:"auto_trigger"`
}

// #endregion risk

// #region shadow-plan

// ShadowPlan is one alternative execution plan held ready in the
// background. Steps and risks are fixed at creation; only the status
// and activation time change afterwards.
type ShadowPlan struct {
	PlanID      string           `json:"plan_id"`
	ParentTask  string           `json:"parent_task"`
	PlanType    PlanType         `json:"plan_type"`
	Status      PlanStatus       `json:"status"`
	Steps       []plan.Step      `json:"steps"`
	Risks       []RiskAssessment `json:"risks"`
	Triggers    []string         `json:"triggers"`
	Confidence  float64          `json:"confidence"`
	CreatedAt   time.Time        `json:"created_at"`
	ActivatedAt *time.Time       `json:"activated_at,omitempty"`
	Reasoning   string           `json:"reasoning"`
}

// #endregion shadow-plan

// #region cognitive-state

// CognitiveState is a point-in-time read-only aggregate over the
// planner's working set. Computed on demand, never stored.
type CognitiveState struct {
	ActivePlans              int       `json:"active_plans"`
	ShadowPlans              int       `json:"shadow_plans"`
	DetectedPatterns         []string  `json:"detected_patterns"`
	PredictedBottlenecks     []string  `json:"predicted_bottlenecks"`
	RecommendedOptimizations []string  `json:"recommended_optimizations"`
	SystemConfidence         float64   `json:"system_confidence"`
	LastLearning             time.Time `json:"last_learning"`
}

// PlanStats summarizes the working set for export.
type PlanStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
	Shadow int `json:"shadow"`
}

// Export is a snapshot of all plans plus summary counts.
type Export struct {
	Plans map[string]ShadowPlan `json:"plans"`
	Stats PlanStats             `json:"stats"`
}

// #endregion cognitive-state
