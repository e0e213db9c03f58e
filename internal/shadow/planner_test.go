package shadow

import (
	"errors"
	"strings"
	"testing"

	"github.com/rmf-ai/dreams-engine/internal/plan"
)

func riskyPlan() plan.Plan {
	return plan.Plan{
		Title: "مزامنة البيانات",
		Steps: []plan.Step{
			{
				Type:                plan.StepAPICall,
				Action:              "fetch_remote",
				RequiresExternalAPI: true,
				Complexity:          plan.ComplexityHigh,
			},
			{
				Type:             plan.StepDatabaseQuery,
				Action:           "write_records",
				RequiresApproval: true,
			},
		},
	}
}

func TestCreateShadowPlansPrimaryFirst(t *testing.T) {
	pl := NewPlanner()

	plans := pl.CreateShadowPlans("مهمة بسيطة", plan.Plan{
		Steps: []plan.Step{{Type: plan.StepAnalysis, Action: "review"}},
	}, nil)

	if len(plans) != 1 {
		t.Fatalf("risk-free plan should yield only the primary, got %d plans", len(plans))
	}
	p := plans[0]
	if p.PlanType != PlanPrimary {
		t.Errorf("first plan type = %s, want primary", p.PlanType)
	}
	if p.Status != StatusShadow {
		t.Errorf("new plan status = %s, want shadow", p.Status)
	}
	if p.Confidence != 0.85 {
		t.Errorf("primary confidence = %f, want 0.85", p.Confidence)
	}
	if len(p.Steps) != 1 || p.Steps[0].Action != "review" {
		t.Errorf("primary steps not copied from caller plan: %+v", p.Steps)
	}
	if p.ActivatedAt != nil {
		t.Error("new plan must not carry an activation time")
	}
}

func TestPrimaryRiskAnalysis(t *testing.T) {
	pl := NewPlanner()

	plans := pl.CreateShadowPlans("مزامنة", riskyPlan(), map[string]any{
		"requires_external_api":      true,
		"involves_data_modification": true,
	})

	primary := plans[0]
	// Two step risks (api_call, database_query) plus two blanket risks.
	if len(primary.Risks) != 4 {
		t.Fatalf("expected 4 risks, got %d: %+v", len(primary.Risks), primary.Risks)
	}

	byType := map[string]RiskAssessment{}
	for _, r := range primary.Risks {
		byType[r.RiskType] = r
	}
	if r := byType["network_timeout"]; r.Probability != 0.1 || r.Impact != ImpactMedium || r.AutoTrigger {
		t.Errorf("network_timeout risk wrong: %+v", r)
	}
	if r := byType["query_timeout"]; r.Probability != 0.12 || r.Impact != ImpactHigh {
		t.Errorf("query_timeout risk wrong: %+v", r)
	}
	if r := byType["api_failure"]; r.Probability != 0.15 || !r.AutoTrigger {
		t.Errorf("api_failure blanket risk wrong: %+v", r)
	}
	if r := byType["data_loss"]; r.Impact != ImpactCritical || !r.AutoTrigger {
		t.Errorf("data_loss blanket risk wrong: %+v", r)
	}
}

func TestFallbackPerFailurePoint(t *testing.T) {
	pl := NewPlanner()

	// Step 0 fails two ways (external API, high complexity), step 1 one
	// way (approval). Three fallbacks total.
	plans := pl.CreateShadowPlans("مزامنة", riskyPlan(), nil)

	var fallbacks []ShadowPlan
	for _, p := range plans {
		if p.PlanType == PlanFallback {
			fallbacks = append(fallbacks, p)
		}
	}
	if len(fallbacks) != 3 {
		t.Fatalf("expected 3 fallback plans, got %d", len(fallbacks))
	}

	first := fallbacks[0]
	if first.Confidence != 0.7 {
		t.Errorf("fallback confidence = %f, want 0.7", first.Confidence)
	}
	wantTriggers := []string{"failure_at_0", "error_api_unavailable"}
	for i, want := range wantTriggers {
		if first.Triggers[i] != want {
			t.Errorf("trigger[%d] = %s, want %s", i, first.Triggers[i], want)
		}
	}
	if len(first.Steps) != 2 || first.Steps[0].Action != "load_cached_data" {
		t.Errorf("api_unavailable fallback steps wrong: %+v", first.Steps)
	}

	rejection := fallbacks[2]
	if len(rejection.Steps) != 1 || rejection.Steps[0].Action != "ask_for_modification" {
		t.Errorf("user_rejection fallback steps wrong: %+v", rejection.Steps)
	}
}

func TestOptimizationPlans(t *testing.T) {
	pl := NewPlanner()

	plans := pl.CreateShadowPlans("تحليل", plan.Plan{
		Steps: []plan.Step{
			{Action: "a", Independent: true},
			{Action: "b", Independent: true, Cacheable: true},
			{Action: "c"},
		},
	}, nil)

	var opts []ShadowPlan
	for _, p := range plans {
		if p.PlanType == PlanOptimization {
			opts = append(opts, p)
		}
	}
	if len(opts) != 2 {
		t.Fatalf("expected parallel + cache optimization plans, got %d", len(opts))
	}

	parallel := opts[0]
	if parallel.Steps[0].Action != "run_parallel" {
		t.Errorf("first optimization = %s, want run_parallel", parallel.Steps[0].Action)
	}
	if got := parallel.Steps[0].StepIndices; len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("parallel step indices = %v, want [0 1]", got)
	}

	cache := opts[1]
	if cache.Steps[0].Action != "enable_cache" {
		t.Errorf("second optimization = %s, want enable_cache", cache.Steps[0].Action)
	}
	if got := cache.Steps[0].StepIndices; len(got) != 1 || got[0] != 1 {
		t.Errorf("cache step indices = %v, want [1]", got)
	}
}

func TestSingleIndependentStepNoParallelPlan(t *testing.T) {
	pl := NewPlanner()

	plans := pl.CreateShadowPlans("تحليل", plan.Plan{
		Steps: []plan.Step{{Action: "a", Independent: true}},
	}, nil)

	for _, p := range plans {
		if p.PlanType == PlanOptimization {
			t.Fatalf("one independent step must not produce a parallel plan: %+v", p)
		}
	}
}

func TestPreventivePlans(t *testing.T) {
	pl := NewPlanner()

	plans := pl.CreateShadowPlans("sync API data into database", plan.Plan{}, nil)

	var preventive []ShadowPlan
	for _, p := range plans {
		if p.PlanType == PlanPreventive {
			preventive = append(preventive, p)
		}
	}
	if len(preventive) != 2 {
		t.Fatalf("expected rate-limit and connection-pool preventive plans, got %d", len(preventive))
	}
	for _, p := range preventive {
		if p.Confidence != 0.8 {
			t.Errorf("preventive confidence = %f, want 0.8", p.Confidence)
		}
		if len(p.Triggers) != 1 || p.Triggers[0] != "before_execution" {
			t.Errorf("preventive triggers = %v", p.Triggers)
		}
	}
}

func TestActivateLifecycle(t *testing.T) {
	pl := NewPlanner()
	plans := pl.CreateShadowPlans("مهمة", plan.Plan{}, nil)
	id := plans[0].PlanID

	if err := pl.ActivatePlan(id); err != nil {
		t.Fatalf("first activation: %v", err)
	}
	got, ok := pl.GetPlan(id)
	if !ok {
		t.Fatal("plan vanished from working set")
	}
	if got.Status != StatusActive || got.ActivatedAt == nil {
		t.Errorf("activated plan state wrong: status=%s activated_at=%v", got.Status, got.ActivatedAt)
	}

	err := pl.ActivatePlan(id)
	if !errors.Is(err, ErrPlanNotShadow) {
		t.Fatalf("second activation: expected ErrPlanNotShadow, got %v", err)
	}

	err = pl.ActivatePlan("missing")
	if !errors.Is(err, ErrUnknownPlan) {
		t.Fatalf("expected ErrUnknownPlan, got %v", err)
	}

	if err := pl.ArchivePlan(id); err != nil {
		t.Fatalf("archive active plan: %v", err)
	}
	err = pl.ArchivePlan(id)
	if !errors.Is(err, ErrPlanArchived) {
		t.Fatalf("expected ErrPlanArchived, got %v", err)
	}
	err = pl.ActivatePlan(id)
	if !errors.Is(err, ErrPlanNotShadow) {
		t.Fatalf("archived plan must not reactivate, got %v", err)
	}
}

func TestCheckTriggersReadOnly(t *testing.T) {
	pl := NewPlanner()
	plans := pl.CreateShadowPlans("مزامنة", riskyPlan(), nil)

	candidates := pl.CheckTriggers("upstream error_api_unavailable detected", nil)
	if len(candidates) == 0 {
		t.Fatal("expected the api_unavailable fallback to match")
	}
	for _, id := range candidates {
		got, _ := pl.GetPlan(id)
		if got.PlanType != PlanFallback {
			t.Errorf("candidate %s has type %s, want fallback", id, got.PlanType)
		}
		if got.Status != StatusShadow {
			t.Errorf("trigger check mutated plan %s to %s", id, got.Status)
		}
	}

	// Context-key matching: the primary's user_approval trigger.
	candidates = pl.CheckTriggers("nothing", map[string]any{"user_approval": true})
	found := false
	for _, id := range candidates {
		if id == plans[0].PlanID {
			found = true
		}
	}
	if !found {
		t.Error("expected primary plan to match via context key")
	}

	// Activated plans drop out of trigger scans.
	if err := pl.ActivatePlan(plans[0].PlanID); err != nil {
		t.Fatal(err)
	}
	for _, id := range pl.CheckTriggers("nothing", map[string]any{"user_approval": true}) {
		if id == plans[0].PlanID {
			t.Error("active plan must not be a trigger candidate")
		}
	}
}

func TestCognitiveBriefing(t *testing.T) {
	pl := NewPlanner()

	briefing := pl.GetCognitiveBriefing()
	if briefing.SystemConfidence != 0.5 {
		t.Errorf("empty working set confidence = %f, want 0.5", briefing.SystemConfidence)
	}

	plans := pl.CreateShadowPlans("تحليل", plan.Plan{
		Steps: []plan.Step{
			{Action: "a", Independent: true, Cacheable: true},
			{Action: "b", Independent: true},
		},
	}, nil)
	// Primary 0.85 + two optimizations at 0.75 each.
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	if err := pl.ActivatePlan(plans[0].PlanID); err != nil {
		t.Fatal(err)
	}

	briefing = pl.GetCognitiveBriefing()
	if briefing.ActivePlans != 1 || briefing.ShadowPlans != 2 {
		t.Errorf("counts = %d active / %d shadow, want 1/2", briefing.ActivePlans, briefing.ShadowPlans)
	}
	if briefing.SystemConfidence != 0.78 {
		t.Errorf("system confidence = %f, want 0.78", briefing.SystemConfidence)
	}
	if len(briefing.RecommendedOptimizations) != 2 {
		t.Errorf("expected both optimization reasonings, got %v", briefing.RecommendedOptimizations)
	}
}

func TestExportPlans(t *testing.T) {
	pl := NewPlanner()
	plans := pl.CreateShadowPlans("مزامنة", riskyPlan(), nil)
	if err := pl.ActivatePlan(plans[0].PlanID); err != nil {
		t.Fatal(err)
	}

	export := pl.ExportPlans()
	if export.Stats.Total != len(plans) {
		t.Errorf("export total = %d, want %d", export.Stats.Total, len(plans))
	}
	if export.Stats.Active != 1 {
		t.Errorf("export active = %d, want 1", export.Stats.Active)
	}
	if export.Stats.Shadow != len(plans)-1 {
		t.Errorf("export shadow = %d, want %d", export.Stats.Shadow, len(plans)-1)
	}
	for id, p := range export.Plans {
		if !strings.HasPrefix(id, string(p.PlanType)) {
			t.Errorf("plan id %s does not carry its type prefix %s", id, p.PlanType)
		}
	}
}
