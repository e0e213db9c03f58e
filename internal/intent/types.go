package intent

import "github.com/rmf-ai/dreams-engine/internal/plan"

// #region category

// Category is the closed set of intent categories the classifier can emit.
type Category string

const (
	CategoryCreateProduct Category = "create_product"
	CategorySolveProblem  Category = "solve_problem"
	CategoryAutomateTask  Category = "automate_task"
	CategoryCreateContent Category = "create_content"
	CategoryAnalyzeData   Category = "analyze_data"
	CategoryVagueIdea     Category = "vague_idea"
)

// categoryOrder fixes tie-breaking: the first declared category with the
// top score wins, so classification is reproducible.
var categoryOrder = []Category{
	CategoryCreateProduct,
	CategorySolveProblem,
	CategoryAutomateTask,
	CategoryCreateContent,
	CategoryAnalyzeData,
	CategoryVagueIdea,
}

// #endregion category

// #region strategy

// Strategy is how the caller should proceed with a reconstructed intent.
type Strategy string

const (
	StrategyDirectExecution          Strategy = "direct_execution"
	StrategyGuidedExploration        Strategy = "guided_exploration"
	StrategyInteractiveClarification Strategy = "interactive_clarification"
)

// #endregion strategy

// #region action-type

// ActionType is the closed set of suggested-action kinds.
type ActionType string

const (
	ActionMarketResearch        ActionType = "market_research"
	ActionDefineMVP             ActionType = "define_mvp"
	ActionDesignArchitecture    ActionType = "design_architecture"
	ActionCreateProjectPlan     ActionType = "create_project_plan"
	ActionSetupDevelopment      ActionType = "setup_development"
	ActionDiagnose              ActionType = "diagnose"
	ActionRootCauseAnalysis     ActionType = "root_cause_analysis"
	ActionProposeSolutions      ActionType = "propose_solutions"
	ActionImplementFix          ActionType = "implement_fix"
	ActionVerify                ActionType = "verify"
	ActionDocumentManualSteps   ActionType = "document_manual_steps"
	ActionIdentifyAutomation    ActionType = "identify_automation_points"
	ActionDesignWorkflow        ActionType = "design_workflow"
	ActionDevelopAutomation     ActionType = "develop_automation"
	ActionScheduleExecution     ActionType = "schedule_execution"
	ActionResearchTopic         ActionType = "research_topic"
	ActionDraftContent          ActionType = "draft_content"
	ActionOptimizeSEO           ActionType = "optimize_seo"
	ActionPublish               ActionType = "publish"
	ActionCleanData             ActionType = "clean_data"
	ActionAnalyzeDataset        ActionType = "analyze_dataset"
	ActionVisualizeResults      ActionType = "visualize_results"
	ActionWriteReport           ActionType = "write_report"
	ActionExplore               ActionType = "explore"
)

// #endregion action-type

// #region layer

// Layer is one interpretive level of a request. Level 0 is the literal
// text; 1 implied; 2 strategic; 3 meta. Immutable once produced.
type Layer struct {
	Level          int     `json:"level"`
	Interpretation string  `json:"interpretation"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
}

// #endregion layer

// #region suggested-action

// SuggestedAction is one proposed step annotated with approval metadata.
type SuggestedAction struct {
	Step             int             `json:"step"`
	Type             ActionType      `json:"action_type"`
	Description      string          `json:"description"`
	Complexity       plan.Complexity `json:"estimated_complexity"`
	RequiresApproval bool            `json:"requires_approval"`
	AutoExecutable   bool            `json:"auto_executable"`
}

// #endregion suggested-action

// #region reconstructed-intent

// ReconstructedIntent is the full layered interpretation of one request.
// Created once per request; never mutated.
type ReconstructedIntent struct {
	OriginalText       string            `json:"original_text"`
	Category           Category          `json:"category"`
	PrimaryGoal        string            `json:"primary_goal"`
	SubGoals           []string          `json:"sub_goals"`
	Layers             []Layer           `json:"intent_layers"`
	SuggestedActions   []SuggestedAction `json:"suggested_actions"`
	ContextAssumptions []string          `json:"context_assumptions"`
	AmbiguityScore     float64           `json:"ambiguity_score"`
	Strategy           Strategy          `json:"reconstruction_strategy"`
}

// #endregion reconstructed-intent
