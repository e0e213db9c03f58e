package approval

import (
	"testing"

	"github.com/rmf-ai/dreams-engine/internal/memory"
)

func TestRouteAutoApprove(t *testing.T) {
	routing := Route(memory.Prediction{
		Decision:          memory.DecisionApprove,
		Confidence:        0.95,
		Reasoning:         "matched 5 identical prior case(s)",
		SimilarCases:      []memory.DecisionPattern{{}},
		ShouldAutoApprove: true,
	}, DefaultConfig())

	if routing.Action != ActionAutoApprove {
		t.Errorf("action = %s, want auto_approve", routing.Action)
	}
	if len(routing.Vetoes) != 0 {
		t.Errorf("unexpected vetoes: %+v", routing.Vetoes)
	}
}

func TestRoutePredictedRejectVetoes(t *testing.T) {
	routing := Route(memory.Prediction{
		Decision:     memory.DecisionReject,
		Confidence:   0.9,
		SimilarCases: []memory.DecisionPattern{{}},
	}, DefaultConfig())

	if routing.Action != ActionReject {
		t.Errorf("action = %s, want reject", routing.Action)
	}
	if len(routing.Vetoes) == 0 || routing.Vetoes[0].Type != VetoPredictedReject {
		t.Errorf("expected predicted_reject veto, got %+v", routing.Vetoes)
	}
}

func TestRouteNoPriorData(t *testing.T) {
	routing := Route(memory.Prediction{
		Decision:   memory.DecisionNeedsReview,
		Confidence: 0.0,
		Reasoning:  "new task, no prior data",
	}, DefaultConfig())

	if routing.Action != ActionReview {
		t.Errorf("action = %s, want review", routing.Action)
	}

	types := map[VetoType]bool{}
	for _, v := range routing.Vetoes {
		types[v.Type] = true
	}
	if !types[VetoNoPriorData] || !types[VetoLowConfidence] {
		t.Errorf("expected no_prior_data and low_confidence vetoes, got %+v", routing.Vetoes)
	}
}

func TestRouteSimilarMatchNeverAutoApproves(t *testing.T) {
	// A similar-history prediction carries ShouldAutoApprove=false even
	// at its confidence cap; the gate must not promote it.
	routing := Route(memory.Prediction{
		Decision:     memory.DecisionApprove,
		Confidence:   0.75,
		SimilarCases: []memory.DecisionPattern{{}, {}},
	}, DefaultConfig())

	if routing.Action != ActionReview {
		t.Errorf("action = %s, want review", routing.Action)
	}
}

func TestRouteConfidenceFloor(t *testing.T) {
	routing := Route(memory.Prediction{
		Decision:     memory.DecisionApprove,
		Confidence:   0.3,
		SimilarCases: []memory.DecisionPattern{{}},
	}, DefaultConfig())

	if routing.Action != ActionReview {
		t.Errorf("action = %s, want review", routing.Action)
	}
	if len(routing.Vetoes) == 0 || routing.Vetoes[0].Type != VetoLowConfidence {
		t.Errorf("expected low_confidence veto, got %+v", routing.Vetoes)
	}
}
