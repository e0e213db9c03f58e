package compiler

import (
	"context"
	"strings"
	"testing"

	"github.com/rmf-ai/dreams-engine/internal/provider"
	"github.com/rmf-ai/dreams-engine/internal/shadow"
)

type queueInference struct {
	replies []string
	calls   []provider.Request
}

func (q *queueInference) Execute(_ context.Context, req provider.Request) (provider.Response, error) {
	q.calls = append(q.calls, req)
	if len(q.replies) == 0 {
		return provider.Response{Content: ""}, nil
	}
	content := q.replies[0]
	q.replies = q.replies[1:]
	return provider.Response{Content: content, TokensUsed: 50}, nil
}

func TestCompileWithoutInference(t *testing.T) {
	c := NewCompiler(shadow.NewPlanner(), nil)

	compiled := c.Compile(context.Background(), "عايزة أبني تطبيق", nil)

	if compiled.OriginalIdea != "عايزة أبني تطبيق" {
		t.Errorf("original idea not preserved: %q", compiled.OriginalIdea)
	}
	if compiled.Intent.Category != "create_product" {
		t.Errorf("category = %s, want create_product", compiled.Intent.Category)
	}
	if len(compiled.ShadowPlans) == 0 {
		t.Error("expected shadow plans")
	}
	if compiled.ShadowPlans[0].PlanType != shadow.PlanPrimary {
		t.Errorf("first shadow plan = %s, want primary", compiled.ShadowPlans[0].PlanType)
	}

	// Model-backed assets degrade to absent; deterministic ones remain.
	if compiled.Assets.ProjectName != "" || compiled.Assets.Branding != nil {
		t.Errorf("nil inference must not produce model assets: %+v", compiled.Assets)
	}
	if len(compiled.Assets.TechStack) == 0 {
		t.Error("tech stack recommendation is deterministic and must survive")
	}

	if compiled.CompilationConfidence <= 0 || compiled.CompilationConfidence > 1 {
		t.Errorf("confidence out of range: %f", compiled.CompilationConfidence)
	}
	if compiled.EstimatedCompletion == "" {
		t.Error("expected a completion estimate")
	}

	last := compiled.NextActions[len(compiled.NextActions)-1]
	if last.Action != "review_plan" || last.Status != StatusAwaitingApproval {
		t.Errorf("plan review must close the action list: %+v", last)
	}
}

func TestCompileWithInference(t *testing.T) {
	inference := &queueInference{replies: []string{
		"1. NovaApp\n2. BetaName",
		`"أسرع طريقة للبناء"`,
		`{"primary_color": "#111111", "secondary_color": "#222222", "accent_color": "#333333", "logo_type": "text", "style": "minimalist"}`,
	}}
	c := NewCompiler(shadow.NewPlanner(), inference)

	compiled := c.Compile(context.Background(), "عايزة أبني تطبيق", nil)

	if compiled.Assets.ProjectName != "NovaApp" {
		t.Errorf("project name = %q, want NovaApp (list numbering stripped)", compiled.Assets.ProjectName)
	}
	if compiled.Assets.Tagline != "أسرع طريقة للبناء" {
		t.Errorf("tagline = %q, quotes should be trimmed", compiled.Assets.Tagline)
	}
	wantDomains := []string{"novaapp.com", "novaapp.io", "novaapp.app"}
	for i, want := range wantDomains {
		if compiled.Assets.DomainSuggestions[i] != want {
			t.Errorf("domain[%d] = %s, want %s", i, compiled.Assets.DomainSuggestions[i], want)
		}
	}
	if compiled.Assets.Branding == nil || compiled.Assets.Branding.PrimaryColor != "#111111" {
		t.Errorf("branding not parsed: %+v", compiled.Assets.Branding)
	}

	// Domain check precedes plan review once suggestions exist.
	foundDomainCheck := false
	for _, a := range compiled.NextActions {
		if a.Action == "check_domain_availability" {
			foundDomainCheck = true
			if !strings.Contains(a.Description, "novaapp.com") {
				t.Errorf("domain check should name the first suggestion: %q", a.Description)
			}
		}
	}
	if !foundDomainCheck {
		t.Error("expected a domain availability action")
	}

	for _, call := range inference.calls {
		if call.TaskType != "creative_writing" {
			t.Errorf("asset generation used task type %s", call.TaskType)
		}
	}
}

func TestBrandingFallbackOnBadJSON(t *testing.T) {
	inference := &queueInference{replies: []string{
		"NovaApp",
		"شعار",
		"not json at all",
	}}
	c := NewCompiler(shadow.NewPlanner(), inference)

	compiled := c.Compile(context.Background(), "عايزة أبني تطبيق", nil)

	if compiled.Assets.Branding == nil {
		t.Fatal("expected fallback branding")
	}
	if compiled.Assets.Branding.PrimaryColor != "#3B82F6" || compiled.Assets.Branding.Style != "modern" {
		t.Errorf("fallback branding wrong: %+v", compiled.Assets.Branding)
	}
}

func TestRecommendTechStackDefault(t *testing.T) {
	c := NewCompiler(shadow.NewPlanner(), nil)

	compiled := c.Compile(context.Background(), "عندي مشكلة في الجهاز", nil)

	stack := compiled.Assets.TechStack
	if len(stack) != 2 || stack[0] != "Python" || stack[1] != "Streamlit" {
		t.Errorf("default stack = %v, want [Python Streamlit]", stack)
	}
}

func TestClarificationActionLeadsForVagueIdeas(t *testing.T) {
	c := NewCompiler(shadow.NewPlanner(), nil)

	// Empty input degrades to maximum ambiguity, forcing interactive
	// clarification.
	compiled := c.Compile(context.Background(), "", nil)

	if len(compiled.NextActions) == 0 {
		t.Fatal("expected next actions")
	}
	first := compiled.NextActions[0]
	if first.Action != "clarify_requirements" || first.Status != StatusNeedsInput {
		t.Errorf("clarification must lead the action list: %+v", first)
	}
}

func TestFormatOutput(t *testing.T) {
	c := NewCompiler(shadow.NewPlanner(), nil)
	compiled := c.Compile(context.Background(), "عايزة أبني تطبيق", nil)

	out := FormatOutput(compiled)
	for _, want := range []string{
		"# ترجمة الفكرة إلى تنفيذ",
		"عايزة أبني تطبيق",
		"## الخطوات التالية",
		"Tech Stack",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted output missing %q", want)
		}
	}
}
