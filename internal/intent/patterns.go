package intent

import "github.com/rmf-ai/dreams-engine/internal/plan"

// The phrase tables mix Egyptian Arabic and English because requests arrive
// in both; matching is plain substring containment on the lowercased text.

// #region patterns

type pattern struct {
	keywords     []string
	triggers     []string
	impliedNeeds []string
}

var patterns = map[Category]pattern{
	CategoryCreateProduct: {
		keywords:     []string{"منتج", "مشروع", "تطبيق", "موقع", "نظام", "أداة"},
		triggers:     []string{"أعمل", "أبني", "أصمم", "أنشئ", "عايز"},
		impliedNeeds: []string{"تخطيط", "تصميم", "برمجة", "اختبار", "نشر"},
	},
	CategorySolveProblem: {
		keywords:     []string{"مشكلة", "خلل", "عطل", "بطء", "error"},
		triggers:     []string{"أحل", "أصلح", "أحسّن", "fix"},
		impliedNeeds: []string{"تشخيص", "تحليل", "حل", "اختبار"},
	},
	CategoryAutomateTask: {
		keywords:     []string{"أتمتة", "تلقائي", "automatic", "script"},
		triggers:     []string{"يعمل لوحده", "تلقائي", "بدون تدخل"},
		impliedNeeds: []string{"تحليل الخطوات", "برمجة", "جدولة", "مراقبة"},
	},
	CategoryCreateContent: {
		keywords:     []string{"محتوى", "مقال", "منشور", "فيديو", "تصميم"},
		triggers:     []string{"أكتب", "أنشر", "أنشئ محتوى"},
		impliedNeeds: []string{"بحث", "كتابة", "تحسين SEO", "نشر"},
	},
	CategoryAnalyzeData: {
		keywords:     []string{"بيانات", "تحليل", "إحصائيات", "أرقام"},
		triggers:     []string{"أحلل", "أفهم", "أستخرج", "insights"},
		impliedNeeds: []string{"تنظيف البيانات", "تحليل", "تصور", "تقرير"},
	},
	CategoryVagueIdea: {
		keywords:     []string{"فكرة", "نفسي", "عايز", "أحلم", "يا ريت"},
		triggers:     []string{"مش عارف", "ممكن", "شكل", "حاجة"},
		impliedNeeds: []string{"استكشاف", "تخطيط", "تحليل جدوى", "نموذج أولي"},
	},
}

// #endregion patterns

// #region interpretations

type interpretation struct {
	meaning    string
	confidence float64
	reasoning  string
}

// impliedMeanings is the level-1 canned paraphrase per category.
var impliedMeanings = map[Category]interpretation{
	CategoryCreateProduct: {
		meaning:    "يريد بناء منتج رقمي كامل من الصفر",
		confidence: 0.8,
		reasoning:  "كلمات تدل على إنشاء شيء جديد",
	},
	CategorySolveProblem: {
		meaning:    "يواجه مشكلة تقنية تحتاج حل سريع",
		confidence: 0.85,
		reasoning:  "كلمات تدل على وجود خلل",
	},
	CategoryAutomateTask: {
		meaning:    "يريد توفير الوقت بأتمتة مهمة متكررة",
		confidence: 0.8,
		reasoning:  "كلمات تدل على رغبة في الأتمتة",
	},
	CategoryCreateContent: {
		meaning:    "يريد إنتاج محتوى جاهز للنشر",
		confidence: 0.75,
		reasoning:  "كلمات تدل على إنتاج محتوى",
	},
	CategoryAnalyzeData: {
		meaning:    "يريد استخراج فهم قابل للتنفيذ من بيانات موجودة",
		confidence: 0.75,
		reasoning:  "كلمات تدل على تحليل بيانات",
	},
	CategoryVagueIdea: {
		meaning:    "لديه فكرة غير واضحة المعالم تحتاج استكشاف",
		confidence: 0.6,
		reasoning:  "النص يحتوي على غموض كبير",
	},
}

// strategicMeanings is the level-2 reading per category, used when the
// caller's context does not force a business frame.
var strategicMeanings = map[Category]interpretation{
	CategoryCreateProduct: {
		meaning:    "دخول سوق جديد أو تحسين موقع تنافسي",
		confidence: 0.65,
		reasoning:  "المنتجات الجديدة عادة لأهداف تجارية",
	},
	CategorySolveProblem: {
		meaning:    "تحسين الكفاءة التشغيلية",
		confidence: 0.7,
		reasoning:  "حل المشاكل يزيد الإنتاجية",
	},
}

var defaultStrategic = interpretation{
	meaning:    "تحسين عام في الوضع الحالي",
	confidence: 0.5,
	reasoning:  "افتراض عام",
}

var businessStrategic = interpretation{
	meaning:    "جزء من استراتيجية أعمال أكبر",
	confidence: 0.7,
	reasoning:  "السياق يشير لهدف تجاري",
}

var metaInterpretation = interpretation{
	meaning:    "بناء نظام مستدام طويل الأمد",
	confidence: 0.55,
	reasoning:  "المستخدم لديه تاريخ من المشاريع",
}

// #endregion interpretations

// #region action-templates

type actionTemplate struct {
	action      ActionType
	description string
}

var actionTemplates = map[Category][]actionTemplate{
	CategoryCreateProduct: {
		{ActionMarketResearch, "بحث السوق والمنافسين"},
		{ActionDefineMVP, "تحديد MVP"},
		{ActionDesignArchitecture, "تصميم البنية التقنية"},
		{ActionCreateProjectPlan, "خطة تنفيذ مفصلة"},
		{ActionSetupDevelopment, "إعداد بيئة التطوير"},
	},
	CategorySolveProblem: {
		{ActionDiagnose, "تشخيص المشكلة"},
		{ActionRootCauseAnalysis, "تحليل السبب الجذري"},
		{ActionProposeSolutions, "اقتراح حلول"},
		{ActionImplementFix, "تطبيق الحل"},
		{ActionVerify, "التحقق من الحل"},
	},
	CategoryAutomateTask: {
		{ActionDocumentManualSteps, "توثيق الخطوات اليدوية"},
		{ActionIdentifyAutomation, "تحديد نقاط الأتمتة"},
		{ActionDesignWorkflow, "تصميم سير العمل"},
		{ActionDevelopAutomation, "برمجة الأتمتة"},
		{ActionScheduleExecution, "جدولة التنفيذ"},
	},
	CategoryCreateContent: {
		{ActionResearchTopic, "بحث الموضوع"},
		{ActionDraftContent, "كتابة المسودة"},
		{ActionOptimizeSEO, "تحسين SEO"},
		{ActionPublish, "نشر المحتوى"},
	},
	CategoryAnalyzeData: {
		{ActionCleanData, "تنظيف البيانات"},
		{ActionAnalyzeDataset, "تحليل البيانات"},
		{ActionVisualizeResults, "تصور النتائج"},
		{ActionWriteReport, "كتابة التقرير"},
	},
	CategoryVagueIdea: {
		{ActionExplore, "استكشاف الخيارات"},
	},
}

// highComplexityActions tier their step as high; everything else is medium.
var highComplexityActions = map[ActionType]bool{
	ActionDesignArchitecture: true,
	ActionDevelopAutomation:  true,
	ActionRootCauseAnalysis:  true,
}

// approvalRequired is the static allow-list of action types that must be
// signed off by the operator. Derived from the action type only, never
// from content.
var approvalRequired = map[ActionType]bool{
	ActionImplementFix:      true,
	ActionDevelopAutomation: true,
	ActionPublish:           true,
}

// #endregion action-templates

// #region step-traits

type stepTraits struct {
	stepType    plan.StepType
	externalAPI bool
	independent bool
	cacheable   bool
}

// actionStepTraits maps an action type to the plan-step shape the shadow
// planner profiles risks against.
var actionStepTraits = map[ActionType]stepTraits{
	ActionMarketResearch:      {plan.StepAPICall, true, true, true},
	ActionDefineMVP:           {plan.StepAnalysis, false, true, false},
	ActionDesignArchitecture:  {plan.StepAnalysis, false, false, false},
	ActionCreateProjectPlan:   {plan.StepAnalysis, false, false, false},
	ActionSetupDevelopment:    {plan.StepFileOperation, false, false, false},
	ActionDiagnose:            {plan.StepAnalysis, false, true, false},
	ActionRootCauseAnalysis:   {plan.StepAnalysis, false, false, false},
	ActionProposeSolutions:    {plan.StepAnalysis, false, false, false},
	ActionImplementFix:        {plan.StepCodeChange, false, false, false},
	ActionVerify:              {plan.StepAnalysis, false, false, false},
	ActionDocumentManualSteps: {plan.StepFileOperation, false, true, false},
	ActionIdentifyAutomation:  {plan.StepAnalysis, false, false, false},
	ActionDesignWorkflow:      {plan.StepAnalysis, false, false, false},
	ActionDevelopAutomation:   {plan.StepCodeChange, false, false, false},
	ActionScheduleExecution:   {plan.StepGeneric, false, false, false},
	ActionResearchTopic:       {plan.StepAPICall, true, true, true},
	ActionDraftContent:        {plan.StepFileOperation, false, false, false},
	ActionOptimizeSEO:         {plan.StepAnalysis, false, false, true},
	ActionPublish:             {plan.StepAPICall, true, false, false},
	ActionCleanData:           {plan.StepDatabaseQuery, false, true, false},
	ActionAnalyzeDataset:      {plan.StepDatabaseQuery, false, false, true},
	ActionVisualizeResults:    {plan.StepAnalysis, false, true, false},
	ActionWriteReport:         {plan.StepFileOperation, false, false, false},
	ActionExplore:             {plan.StepAnalysis, false, true, false},
}

// #endregion step-traits

// #region vague-words

// vagueWords each add 0.1 to the ambiguity score per occurrence.
var vagueWords = []string{"شيء", "حاجة", "ممكن", "نوع", "شكل", "نفسي"}

// #endregion vague-words
