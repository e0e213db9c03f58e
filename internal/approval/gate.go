package approval

import (
	"fmt"

	"github.com/rmf-ai/dreams-engine/internal/memory"
)

// #region veto-type

// VetoType enumerates hard veto categories.
type VetoType string

const (
	VetoPredictedReject VetoType = "predicted_reject"
	VetoNoPriorData     VetoType = "no_prior_data"
	VetoLowConfidence   VetoType = "low_confidence"
)

// Veto is a detected hard veto condition.
type Veto struct {
	Type   VetoType
	Reason string
}

// #endregion veto-type

// #region config

// Config holds routing thresholds.
type Config struct {
	// AutoApproveConfidence is the floor a prediction must clear, on top
	// of its own ShouldAutoApprove flag, to skip the operator.
	AutoApproveConfidence float64

	// ReviewFloor is the confidence below which a prediction is too weak
	// to act on without an operator.
	ReviewFloor float64
}

// DefaultConfig returns the engine's standard floors.
func DefaultConfig() Config {
	return Config{
		AutoApproveConfidence: 0.85,
		ReviewFloor:           0.4,
	}
}

// #endregion config

// #region routing

// Action is the gate's verdict for one proposed task.
type Action string

const (
	ActionAutoApprove Action = "auto_approve"
	ActionReview      Action = "review"
	ActionReject      Action = "reject"
)

// Routing is the gate output: what to do with the task and why.
type Routing struct {
	Action Action
	Reason string
	Vetoes []Veto
}

// Route checks hard vetoes first, then decides whether the prediction
// clears auto-approval. Anything a veto touches goes to the operator;
// only a predicted rejection short-circuits to reject.
func Route(pred memory.Prediction, cfg Config) Routing {
	var vetoes []Veto

	if pred.Decision == memory.DecisionReject {
		vetoes = append(vetoes, Veto{
			Type:   VetoPredictedReject,
			Reason: "history predicts the operator would reject this task",
		})
	}
	if pred.Decision == memory.DecisionNeedsReview && len(pred.SimilarCases) == 0 {
		vetoes = append(vetoes, Veto{
			Type:   VetoNoPriorData,
			Reason: "no prior decisions for this task shape",
		})
	}
	if pred.Confidence < cfg.ReviewFloor {
		vetoes = append(vetoes, Veto{
			Type:   VetoLowConfidence,
			Reason: fmt.Sprintf("confidence %.2f below review floor %.2f", pred.Confidence, cfg.ReviewFloor),
		})
	}

	if len(vetoes) > 0 {
		action := ActionReview
		if vetoes[0].Type == VetoPredictedReject {
			action = ActionReject
		}
		return Routing{
			Action: action,
			Reason: fmt.Sprintf("hard veto: %s", vetoes[0].Reason),
			Vetoes: vetoes,
		}
	}

	if pred.ShouldAutoApprove && pred.Confidence > cfg.AutoApproveConfidence {
		return Routing{
			Action: ActionAutoApprove,
			Reason: fmt.Sprintf("exact-match history: %s", pred.Reasoning),
		}
	}

	return Routing{
		Action: ActionReview,
		Reason: fmt.Sprintf("prediction below auto-approve bar: %s", pred.Reasoning),
	}
}

// #endregion routing
