package core

// StructuredKind tags the payload carried by StructuredData.
type StructuredKind string

const (
	KindSpendingAnalysis      StructuredKind = "spending_analysis"
	KindMonthlyBudget         StructuredKind = "monthly_budget"
	KindWeeklyBudget          StructuredKind = "weekly_budget"
	KindInvestmentInsights    StructuredKind = "investment_insights"
	KindTaxTips               StructuredKind = "tax_tips"
	KindPlannerRecommendation StructuredKind = "planner_recommendation"
)

// StructuredData is the typed result of classifying a parsed model
// response. Exactly one payload pointer is set, named by Kind.
type StructuredData struct {
	Kind StructuredKind `bson:"kind" json:"kind"`

	SpendingAnalysis      *SpendingAnalysisData      `bson:"spendingAnalysis,omitempty" json:"spendingAnalysis,omitempty"`
	MonthlyBudget         *MonthlyBudgetData         `bson:"monthlyBudget,omitempty" json:"monthlyBudget,omitempty"`
	WeeklyBudget          *WeeklyBudgetData          `bson:"weeklyBudget,omitempty" json:"weeklyBudget,omitempty"`
	InvestmentInsights    *InvestmentInsightsData    `bson:"investmentInsights,omitempty" json:"investmentInsights,omitempty"`
	TaxTips               *TaxTipsData               `bson:"taxTips,omitempty" json:"taxTips,omitempty"`
	PlannerRecommendation *PlannerRecommendationData `bson:"plannerRecommendation,omitempty" json:"plannerRecommendation,omitempty"`
}

// SpendingAnalysisData scores overall spending health.
type SpendingAnalysisData struct {
	HealthScore   float64         `bson:"healthScore" json:"healthScore"` // 0-100
	Summary       SpendingSummary `bson:"summary" json:"summary"`
	TopCategories []CategorySpend `bson:"topCategories" json:"topCategories"`
	ActionItems   []string        `bson:"actionItems,omitempty" json:"actionItems,omitempty"`
	Alerts        []string        `bson:"alerts,omitempty" json:"alerts,omitempty"`
	KeyInsight    string          `bson:"keyInsight,omitempty" json:"keyInsight,omitempty"`
}

// SpendingSummary is the headline income/expense picture.
type SpendingSummary struct {
	TotalIncome   float64 `bson:"totalIncome" json:"totalIncome"`
	TotalExpenses float64 `bson:"totalExpenses" json:"totalExpenses"`
	SavingsRate   float64 `bson:"savingsRate" json:"savingsRate"` // percent
	Trend         string  `bson:"trend,omitempty" json:"trend,omitempty"` // "improving", "stable", "declining"
}

// CategorySpend is one category in the spending breakdown.
type CategorySpend struct {
	Category   string  `bson:"category" json:"category"`
	Amount     float64 `bson:"amount" json:"amount"`
	Percentage float64 `bson:"percentage" json:"percentage"`
	Insight    string  `bson:"insight,omitempty" json:"insight,omitempty"`
}

// MonthlyBudgetData allocates monthly income across needs, wants, and
// savings buckets.
type MonthlyBudgetData struct {
	MonthlyIncome      float64      `bson:"monthlyIncome" json:"monthlyIncome"`
	Needs              BudgetBucket `bson:"needs" json:"needs"`
	Wants              BudgetBucket `bson:"wants" json:"wants"`
	SavingsInvestments BudgetBucket `bson:"savingsInvestments" json:"savingsInvestments"`
	Adjustments        []string     `bson:"adjustments,omitempty" json:"adjustments,omitempty"`
	Summary            string       `bson:"summary,omitempty" json:"summary,omitempty"`
}

// BudgetBucket is one allocation bucket of a monthly budget.
type BudgetBucket struct {
	Amount     float64  `bson:"amount" json:"amount"`
	Percentage float64  `bson:"percentage" json:"percentage"`
	Categories []string `bson:"categories,omitempty" json:"categories,omitempty"`
}

// WeeklyBudgetData sets a short-horizon spending target.
type WeeklyBudgetData struct {
	WeeklyTarget float64  `bson:"weeklyTarget" json:"weeklyTarget"`
	DailyLimit   float64  `bson:"dailyLimit" json:"dailyLimit"`
	SpentSoFar   float64  `bson:"spentSoFar" json:"spentSoFar"`
	Remaining    float64  `bson:"remaining" json:"remaining"`
	Status       string   `bson:"status,omitempty" json:"status,omitempty"` // "on_track", "over_budget", "under_budget"
	FocusAreas   []string `bson:"focusAreas,omitempty" json:"focusAreas,omitempty"`
	Tips         []string `bson:"tips,omitempty" json:"tips,omitempty"`
}

// InvestmentInsightsData reviews the user's portfolio.
type InvestmentInsightsData struct {
	PortfolioValue  float64             `bson:"portfolioValue" json:"portfolioValue"`
	Diversification DiversificationInfo `bson:"diversification" json:"diversification"`
	Performance     string              `bson:"performance,omitempty" json:"performance,omitempty"`
	Holdings        []HoldingReview     `bson:"holdings,omitempty" json:"holdings,omitempty"`
	Opportunities   []string            `bson:"opportunities,omitempty" json:"opportunities,omitempty"`
	Risks           []string            `bson:"risks,omitempty" json:"risks,omitempty"`
	MarketOutlook   string              `bson:"marketOutlook,omitempty" json:"marketOutlook,omitempty"`
}

// DiversificationInfo scores how spread out the portfolio is.
type DiversificationInfo struct {
	Score      float64  `bson:"score" json:"score"` // 0-10
	Assessment string   `bson:"assessment,omitempty" json:"assessment,omitempty"`
	Gaps       []string `bson:"gaps,omitempty" json:"gaps,omitempty"`
}

// HoldingReview is a per-holding note in an investment insight.
type HoldingReview struct {
	Name  string  `bson:"name" json:"name"`
	Value float64 `bson:"value" json:"value"`
	Note  string  `bson:"note,omitempty" json:"note,omitempty"`
}

// TaxTipsData carries regime-aware tax optimization advice.
type TaxTipsData struct {
	Regime            string   `bson:"regime" json:"regime"` // "old", "new"
	Tips              []TaxTip `bson:"tips" json:"tips"`
	EstimatedSavings  float64  `bson:"estimatedSavings,omitempty" json:"estimatedSavings,omitempty"`
	RegimeAdvice      string   `bson:"regimeAdvice,omitempty" json:"regimeAdvice,omitempty"`
	DeadlineReminders []string `bson:"deadlineReminders,omitempty" json:"deadlineReminders,omitempty"`
}

// TaxTip is one actionable tax saving suggestion.
type TaxTip struct {
	Title           string  `bson:"title" json:"title"`
	Description     string  `bson:"description,omitempty" json:"description,omitempty"`
	PotentialSaving float64 `bson:"potentialSaving,omitempty" json:"potentialSaving,omitempty"`
}

// PlannerRecommendationData reviews an investment plan.
type PlannerRecommendationData struct {
	PlanScore        float64         `bson:"planScore" json:"planScore"` // 0-100
	AllocationReview string          `bson:"allocationReview" json:"allocationReview"`
	GoalAlignment    []GoalAlignment `bson:"goalAlignment,omitempty" json:"goalAlignment,omitempty"`
	Adjustments      []string        `bson:"adjustments,omitempty" json:"adjustments,omitempty"`
	Projection       string          `bson:"projection,omitempty" json:"projection,omitempty"`
}

// GoalAlignment reports how one goal tracks against the plan.
type GoalAlignment struct {
	Goal   string `bson:"goal" json:"goal"`
	Status string `bson:"status,omitempty" json:"status,omitempty"` // "on_track", "at_risk", "off_track"
	Note   string `bson:"note,omitempty" json:"note,omitempty"`
}
