package compiler

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/rmf-ai/dreams-engine/internal/intent"
	"github.com/rmf-ai/dreams-engine/internal/provider"
)

// #region asset-pipeline

// generateAssets builds artifacts for the idea. Deterministic assets
// (tech stack, domains, file structure) always run; model-backed ones
// (name, tagline, code, branding) need an inference backend and are
// skipped, with a log line, when a call fails.
func (c *Compiler) generateAssets(ctx context.Context, ri intent.ReconstructedIntent) Assets {
	var assets Assets

	if needsProjectName(ri) && c.inference != nil {
		assets.ProjectName = c.generateProjectName(ctx, ri)
	}
	if assets.ProjectName != "" {
		assets.Tagline = c.generateTagline(ctx, assets.ProjectName, ri)
		assets.DomainSuggestions = suggestDomains(assets.ProjectName)
	}

	assets.TechStack = recommendTechStack(ri)

	if needsCode(ri) && c.inference != nil {
		assets.InitialCode = c.generateInitialCode(ctx, ri, assets.TechStack)
	}
	if assets.InitialCode != "" {
		assets.FileStructure = fileStructure(assets.TechStack)
	}
	if assets.ProjectName != "" {
		assets.Branding = c.generateBranding(ctx, assets.ProjectName, ri)
	}

	return assets
}

func needsProjectName(ri intent.ReconstructedIntent) bool {
	for _, kw := range []string{"منتج", "تطبيق", "موقع", "نظام", "مشروع", "أداة"} {
		if strings.Contains(ri.PrimaryGoal, kw) {
			return true
		}
	}
	return false
}

func needsCode(ri intent.ReconstructedIntent) bool {
	goal := strings.ToLower(ri.PrimaryGoal)
	for _, kw := range []string{"تطبيق", "موقع", "نظام", "أداة", "script", "أتمتة", "api", "برنامج"} {
		if strings.Contains(goal, kw) {
			return true
		}
	}
	return false
}

// #endregion asset-pipeline

// #region model-backed

func (c *Compiler) generateProjectName(ctx context.Context, ri intent.ReconstructedIntent) string {
	subGoals := ri.SubGoals
	if len(subGoals) > 3 {
		subGoals = subGoals[:3]
	}
	resp, err := c.inference.Execute(ctx, provider.Request{
		TaskType: "creative_writing",
		Prompt: "اقترح 5 أسماء إبداعية لمشروع التالي:\n\n" +
			"الهدف: " + ri.PrimaryGoal + "\n" +
			"الأهداف الفرعية: " + strings.Join(subGoals, "، ") + "\n\n" +
			"الأسماء يجب أن تكون قصيرة وسهلة النطق ومميزة.\n" +
			"أعطني فقط الأسماء، كل اسم في سطر.",
		MaxTokens:   200,
		Temperature: 0.9,
	})
	if err != nil {
		log.Printf("[COMPILER] project name generation failed: %v", err)
		return ""
	}
	for _, line := range strings.Split(resp.Content, "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), "1234567890.-) ")
		if line != "" {
			return line
		}
	}
	return "MyProject"
}

func (c *Compiler) generateTagline(ctx context.Context, projectName string, ri intent.ReconstructedIntent) string {
	resp, err := c.inference.Execute(ctx, provider.Request{
		TaskType: "creative_writing",
		Prompt: "اكتب شعار (tagline) قصير لمشروع اسمه \"" + projectName + "\"\n\n" +
			"الهدف من المشروع: " + ri.PrimaryGoal + "\n\n" +
			"جملة واحدة قصيرة توضح القيمة الأساسية. أعطني الشعار فقط.",
		MaxTokens:   100,
		Temperature: 0.8,
	})
	if err != nil {
		log.Printf("[COMPILER] tagline generation failed: %v", err)
		return ""
	}
	return strings.Trim(strings.TrimSpace(resp.Content), `"'`)
}

func (c *Compiler) generateInitialCode(ctx context.Context, ri intent.ReconstructedIntent, stack []string) string {
	resp, err := c.inference.Execute(ctx, provider.Request{
		TaskType: "code_generation",
		Prompt: "اكتب كود أولي (MVP skeleton) لمشروع:\n\n" +
			"الهدف: " + ri.PrimaryGoal + "\n" +
			"Tech Stack: " + strings.Join(stack, ", ") + "\n\n" +
			"الكود يتضمن البنية الأساسية والملف الرئيسي مع تعليقات توضيحية.",
		MaxTokens:   2000,
		Temperature: 0.3,
	})
	if err != nil {
		log.Printf("[COMPILER] initial code generation failed: %v", err)
		return ""
	}
	return resp.Content
}

// defaultBranding is used when the model's branding reply fails to
// parse.
func defaultBranding() *Branding {
	return &Branding{
		PrimaryColor:   "#3B82F6",
		SecondaryColor: "#8B5CF6",
		AccentColor:    "#10B981",
		LogoType:       "text+icon",
		Style:          "modern",
	}
}

func (c *Compiler) generateBranding(ctx context.Context, projectName string, ri intent.ReconstructedIntent) *Branding {
	if c.inference == nil {
		return nil
	}
	resp, err := c.inference.Execute(ctx, provider.Request{
		TaskType: "creative_writing",
		Prompt: "اقترح branding لمشروع \"" + projectName + "\"\n\n" +
			"الهدف: " + ri.PrimaryGoal + "\n\n" +
			`أعطني JSON فقط بهذا الشكل: {"primary_color": "#hex", "secondary_color": "#hex", "accent_color": "#hex", "logo_type": "...", "style": "..."}`,
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		log.Printf("[COMPILER] branding generation failed: %v", err)
		return defaultBranding()
	}

	content := strings.TrimSpace(resp.Content)
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) > 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	var branding Branding
	if err := json.Unmarshal([]byte(content), &branding); err != nil {
		return defaultBranding()
	}
	return &branding
}

// #endregion model-backed

// #region deterministic

// suggestDomains derives candidate domains from the project name.
func suggestDomains(projectName string) []string {
	base := strings.ToLower(projectName)
	base = strings.ReplaceAll(base, " ", "")
	base = strings.ReplaceAll(base, "-", "")
	return []string{base + ".com", base + ".io", base + ".app"}
}

// stackRules maps goal keywords to stack recommendations, checked in
// order so output stays deterministic.
var stackRules = []struct {
	keywords []string
	stack    []string
}{
	{[]string{"موقع", "تطبيق ويب", "web"}, []string{"React", "Next.js", "TailwindCSS"}},
	{[]string{"api", "backend", "خادم"}, []string{"FastAPI", "PostgreSQL"}},
	{[]string{"ذكاء", "ai", "تعلم"}, []string{"Python", "LangChain", "OpenAI"}},
	{[]string{"تحليل", "بيانات", "data"}, []string{"Python", "Pandas", "Plotly"}},
}

func recommendTechStack(ri intent.ReconstructedIntent) []string {
	goal := strings.ToLower(ri.PrimaryGoal)

	var stack []string
	seen := make(map[string]bool)
	add := func(items []string) {
		for _, item := range items {
			if !seen[item] {
				seen[item] = true
				stack = append(stack, item)
			}
		}
	}

	for _, rule := range stackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(goal, kw) {
				add(rule.stack)
				break
			}
		}
	}
	if len(stack) == 0 {
		stack = []string{"Python", "Streamlit"}
	}
	return stack
}

func fileStructure(stack []string) map[string]map[string]string {
	structure := map[string]map[string]string{
		"root": {
			"README.md":        "وصف المشروع",
			"requirements.txt": "المكتبات المطلوبة",
			".env.example":     "متغيرات البيئة",
		},
	}

	has := func(name string) bool {
		for _, s := range stack {
			if s == name {
				return true
			}
		}
		return false
	}

	if has("Python") {
		structure["root"]["main.py"] = "الملف الرئيسي"
		structure["root"]["config.py"] = "الإعدادات"
	}
	if has("React") || has("Next.js") {
		structure["src"] = map[string]string{
			"components/": "المكونات",
			"pages/":      "الصفحات",
			"styles/":     "التصاميم",
		}
	}
	if has("FastAPI") {
		structure["app"] = map[string]string{
			"main.py": "FastAPI app",
			"routes/": "المسارات",
			"models/": "النماذج",
		}
	}

	return structure
}

// #endregion deterministic
