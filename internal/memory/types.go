package memory

import (
	"errors"
	"time"
)

// #region errors

var (
	// ErrInvalidContext means the context map could not be canonicalized
	// into a fingerprint (unserializable values).
	ErrInvalidContext = errors.New("context cannot be fingerprinted")

	// ErrUnknownDecision means no decision row exists for the given id.
	ErrUnknownDecision = errors.New("unknown decision id")

	// ErrOutcomeAlreadySet means UpdateOutcome was called twice for the
	// same decision; the unset→set transition happens at most once.
	ErrOutcomeAlreadySet = errors.New("execution outcome already recorded")
)

// #endregion errors

// #region decision

// Decision is an operator verdict on a proposed action.
type Decision string

const (
	DecisionApprove     Decision = "approve"
	DecisionReject      Decision = "reject"
	DecisionModify      Decision = "modify"
	DecisionNeedsReview Decision = "needs_review"
)

// #endregion decision

// #region decision-pattern

// DecisionPattern is one recorded operator decision. Append-only;
// ExecutionSuccess is the only field ever updated after creation.
type DecisionPattern struct {
	ID                int64          `json:"id"`
	TaskType          string         `json:"task_type"`
	Fingerprint       string         `json:"context_fingerprint"`
	Decision          Decision       `json:"decision"`
	Confidence        float64        `json:"confidence"`
	Timestamp         time.Time      `json:"timestamp"`
	ModificationNotes string         `json:"modification_notes,omitempty"`
	ExecutionSuccess  *bool          `json:"execution_success,omitempty"`
	RawContext        map[string]any `json:"raw_context,omitempty"`
}

// #endregion decision-pattern

// #region prediction

// Prediction is the engine's guess at the operator's next decision.
type Prediction struct {
	Decision          Decision          `json:"predicted_decision"`
	Confidence        float64           `json:"confidence"`
	Reasoning         string            `json:"reasoning"`
	SimilarCases      []DecisionPattern `json:"similar_cases"`
	ShouldAutoApprove bool              `json:"should_auto_approve"`
}

// #endregion prediction

// #region preference

// Preference is a derived, longer-lived operator signal. Upserted by key.
type Preference struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	LearnedFrom int64     `json:"learned_from"`
	Confidence  float64   `json:"confidence"`
	LastUpdated time.Time `json:"last_updated"`
}

// #endregion preference

// #region stats

// Stats aggregates the learning history.
type Stats struct {
	TotalDecisions        int              `json:"total_decisions"`
	DecisionBreakdown     map[Decision]int `json:"decision_breakdown"`
	AvgApprovalConfidence float64          `json:"avg_approval_confidence"`
	ExecutionSuccessRate  float64          `json:"execution_success_rate"`
	LearnedPreferences    int              `json:"learned_preferences"`
}

// #endregion stats
