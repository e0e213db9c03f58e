package plan

// #region step-type

// StepType classifies what kind of work a plan step performs.
// Risk profiling and failure-point detection key off this closed set.
type StepType string

const (
	StepGeneric       StepType = "generic"
	StepAPICall       StepType = "api_call"
	StepFileOperation StepType = "file_operation"
	StepDatabaseQuery StepType = "database_query"
	StepAnalysis      StepType = "analysis"
	StepCodeChange    StepType = "code_change"
)

// #endregion step-type

// #region complexity

// Complexity tiers a step or plan by expected effort.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// #endregion complexity

// #region step

// Step is one executable unit of an execution plan.
type Step struct {
	Type                StepType   `json:"type"`
	Action              string     `json:"action"`
	Description         string     `json:"description"`
	Complexity          Complexity `json:"complexity"`
	RequiresApproval    bool       `json:"requires_approval"`
	RequiresExternalAPI bool       `json:"requires_external_api"`
	Independent         bool       `json:"independent"`
	Cacheable           bool       `json:"cacheable"`

	// StepIndices references other steps by position, used by grouping
	// steps such as "run in parallel" and "enable cache".
	StepIndices []int `json:"step_indices,omitempty"`
}

// #endregion step

// #region phase

// Phase groups display steps for the approval UI.
type Phase struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

// #endregion phase

// #region plan

// Plan is the execution-plan skeleton derived from a reconstructed intent
// and consumed by the shadow planner.
type Plan struct {
	Title          string     `json:"title"`
	Complexity     Complexity `json:"complexity"`
	Strategy       string     `json:"strategy"`
	Steps          []Step     `json:"steps"`
	Phases         []Phase    `json:"phases"`
	Assumptions    []string   `json:"assumptions"`
	ApprovalPoints []string   `json:"approval_points"`
	AutoExecutable bool       `json:"auto_executable"`
}

// TotalPhaseSteps counts display steps across all phases.
func (p Plan) TotalPhaseSteps() int {
	n := 0
	for _, ph := range p.Phases {
		n += len(ph.Steps)
	}
	return n
}

// #endregion plan
