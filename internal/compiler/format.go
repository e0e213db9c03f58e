package compiler

import (
	"fmt"
	"strings"
)

// #region format

var statusMarkers = map[ActionStatus]string{
	StatusReady:            "✅",
	StatusAwaitingApproval: "⏳",
	StatusNeedsInput:       "❓",
}

// FormatOutput renders a compiled idea as Markdown for the console.
func FormatOutput(c CompiledIdea) string {
	var b strings.Builder

	b.WriteString("# ترجمة الفكرة إلى تنفيذ\n\n")
	b.WriteString("## الفكرة الأصلية\n")
	fmt.Fprintf(&b, "> %s\n\n", c.OriginalIdea)

	b.WriteString("## النية المعاد بناؤها\n\n")
	fmt.Fprintf(&b, "**الهدف الرئيسي:** %s\n\n", c.Intent.PrimaryGoal)
	b.WriteString("**الأهداف الفرعية:**\n")
	for i, goal := range c.Intent.SubGoals {
		fmt.Fprintf(&b, "%d. %s\n", i+1, goal)
	}
	fmt.Fprintf(&b, "\n**درجة الغموض:** %.0f%%\n", c.Intent.AmbiguityScore*100)
	fmt.Fprintf(&b, "**الاستراتيجية:** %s\n\n---\n\n", c.Intent.Strategy)

	b.WriteString("## الأصول المولدة\n")
	if c.Assets.ProjectName != "" {
		fmt.Fprintf(&b, "\n### اسم المشروع\n**%s**\n", c.Assets.ProjectName)
	}
	if c.Assets.Tagline != "" {
		fmt.Fprintf(&b, "\n*%s*\n", c.Assets.Tagline)
	}
	if len(c.Assets.DomainSuggestions) > 0 {
		b.WriteString("\n### Domain Suggestions\n")
		for _, d := range c.Assets.DomainSuggestions {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}
	if len(c.Assets.TechStack) > 0 {
		b.WriteString("\n### Tech Stack\n")
		for _, t := range c.Assets.TechStack {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}
	if c.Assets.Branding != nil {
		b.WriteString("\n### Branding\n")
		fmt.Fprintf(&b, "- Primary: %s\n", c.Assets.Branding.PrimaryColor)
		fmt.Fprintf(&b, "- Secondary: %s\n", c.Assets.Branding.SecondaryColor)
		fmt.Fprintf(&b, "- Style: %s\n", c.Assets.Branding.Style)
	}
	if c.Assets.InitialCode != "" {
		snippet := c.Assets.InitialCode
		if len(snippet) > 500 {
			snippet = snippet[:500] + "..."
		}
		fmt.Fprintf(&b, "\n### كود أولي\n```\n%s\n```\n", snippet)
	}

	b.WriteString("\n---\n\n## الخطوات التالية\n\n")
	for i, action := range c.NextActions {
		marker, ok := statusMarkers[action.Status]
		if !ok {
			marker = "▶️"
		}
		fmt.Fprintf(&b, "%d. %s **%s**\n", i+1, marker, action.Description)
	}

	b.WriteString("\n---\n\n## الخطة التنفيذية\n\n")
	fmt.Fprintf(&b, "**التعقيد:** %s\n", c.ExecutionPlan.Complexity)
	fmt.Fprintf(&b, "**التقدير:** %s\n", c.EstimatedCompletion)
	fmt.Fprintf(&b, "**الثقة في الترجمة:** %.0f%%\n", c.CompilationConfidence*100)
	for _, phase := range c.ExecutionPlan.Phases {
		fmt.Fprintf(&b, "\n### %s\n", phase.Name)
		for _, step := range phase.Steps {
			fmt.Fprintf(&b, "- %s\n", step)
		}
	}

	b.WriteString("\n---\n\n## نقاط الموافقة المطلوبة\n\n")
	if len(c.ExecutionPlan.ApprovalPoints) > 0 {
		for _, point := range c.ExecutionPlan.ApprovalPoints {
			fmt.Fprintf(&b, "- ⚠️ %s\n", point)
		}
	} else {
		b.WriteString("لا توجد نقاط موافقة - الخطة قابلة للتنفيذ التلقائي\n")
	}

	return b.String()
}

// #endregion format
