package compiler

import (
	"time"

	"github.com/rmf-ai/dreams-engine/internal/intent"
	"github.com/rmf-ai/dreams-engine/internal/plan"
	"github.com/rmf-ai/dreams-engine/internal/shadow"
)

// #region next-action

// ActionStatus marks how ready an immediate follow-up is.
type ActionStatus string

const (
	StatusReady            ActionStatus = "ready"
	StatusAwaitingApproval ActionStatus = "awaiting_approval"
	StatusNeedsInput       ActionStatus = "needs_input"
)

// NextAction is one immediate follow-up step after compilation.
type NextAction struct {
	Action      string       `json:"action"`
	Description string       `json:"description"`
	Status      ActionStatus `json:"status"`
}

// #endregion next-action

// #region assets

// Branding is a minimal visual identity proposal.
type Branding struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color"`
	LogoType       string `json:"logo_type"`
	Style          string `json:"style"`
}

// Assets are the concrete artifacts generated for an idea. Any field
// may be empty; completeness feeds the compilation confidence.
type Assets struct {
	ProjectName       string                       `json:"project_name,omitempty"`
	Tagline           string                       `json:"tagline,omitempty"`
	DomainSuggestions []string                     `json:"domain_suggestions,omitempty"`
	TechStack         []string                     `json:"tech_stack,omitempty"`
	InitialCode       string                       `json:"initial_code,omitempty"`
	FileStructure     map[string]map[string]string `json:"file_structure,omitempty"`
	Branding          *Branding                    `json:"branding,omitempty"`
}

// maxAssetKinds is the denominator for asset completeness.
const maxAssetKinds = 7

func (a Assets) count() int {
	n := 0
	if a.ProjectName != "" {
		n++
	}
	if a.Tagline != "" {
		n++
	}
	if len(a.DomainSuggestions) > 0 {
		n++
	}
	if len(a.TechStack) > 0 {
		n++
	}
	if a.InitialCode != "" {
		n++
	}
	if a.FileStructure != nil {
		n++
	}
	if a.Branding != nil {
		n++
	}
	return n
}

// #endregion assets

// #region compiled-idea

// CompiledIdea is the full compilation result: the layered intent, the
// execution plan, the shadow-plan set, generated assets, and immediate
// next actions.
type CompiledIdea struct {
	OriginalIdea          string                   `json:"original_idea"`
	Intent                intent.ReconstructedIntent `json:"reconstructed_intent"`
	ExecutionPlan         plan.Plan                `json:"execution_plan"`
	ShadowPlans           []shadow.ShadowPlan      `json:"shadow_plans"`
	Assets                Assets                   `json:"generated_assets"`
	NextActions           []NextAction             `json:"next_actions"`
	CompilationConfidence float64                  `json:"compilation_confidence"`
	EstimatedCompletion   string                   `json:"estimated_completion"`
	CompiledAt            time.Time                `json:"compiled_at"`
}

// #endregion compiled-idea
