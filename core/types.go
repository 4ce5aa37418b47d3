// Package core defines the shared types of the insight pipeline.
package core

import "fmt"

// InsightType identifies one analysis flavor. The set is closed:
// prompts, schema dispatch, persistence, and routing all key on it.
type InsightType string

const (
	SpendingAnalysis      InsightType = "spending_analysis"
	MonthlyBudget         InsightType = "monthly_budget"
	WeeklyBudget          InsightType = "weekly_budget"
	InvestmentInsights    InsightType = "investment_insights"
	TaxOptimization       InsightType = "tax_optimization"
	PlannerRecommendation InsightType = "planner_recommendation"
)

// AllInsightTypes returns the supported types in a stable order.
func AllInsightTypes() []InsightType {
	return []InsightType{
		SpendingAnalysis,
		MonthlyBudget,
		WeeklyBudget,
		InvestmentInsights,
		TaxOptimization,
		PlannerRecommendation,
	}
}

// ParseInsightType validates a raw type string. Matching is exact; there
// is no aliasing or case folding.
func ParseInsightType(s string) (InsightType, error) {
	for _, t := range AllInsightTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// RequiresTransactions reports whether the type is meaningless without
// transaction history. Investment, tax, and planner insights run on
// holdings and profile data alone.
func (t InsightType) RequiresTransactions() bool {
	switch t {
	case InvestmentInsights, TaxOptimization, PlannerRecommendation:
		return false
	}
	return true
}

// TypeDefinition describes one insight type for API consumers.
type TypeDefinition struct {
	Type                 InsightType `json:"type"`
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	RequiresTransactions bool        `json:"requiresTransactions"`
}

// TypeDefinitions returns the catalog served by the types endpoint.
func TypeDefinitions() []TypeDefinition {
	return []TypeDefinition{
		{
			Type:                 SpendingAnalysis,
			Title:                "Spending Analysis",
			Description:          "Health score, top spending categories, and action items derived from your transaction history.",
			RequiresTransactions: true,
		},
		{
			Type:                 MonthlyBudget,
			Title:                "Monthly Budget",
			Description:          "A needs/wants/savings allocation of your monthly income with concrete adjustments.",
			RequiresTransactions: true,
		},
		{
			Type:                 WeeklyBudget,
			Title:                "Weekly Budget",
			Description:          "A weekly spending target with a daily limit and focus areas for the current week.",
			RequiresTransactions: true,
		},
		{
			Type:                 InvestmentInsights,
			Title:                "Investment Insights",
			Description:          "Portfolio review with diversification scoring, opportunities, risks, and a market outlook.",
			RequiresTransactions: false,
		},
		{
			Type:                 TaxOptimization,
			Title:                "Tax Optimization",
			Description:          "Regime-aware tax saving tips with estimated savings and deadline reminders.",
			RequiresTransactions: false,
		},
		{
			Type:                 PlannerRecommendation,
			Title:                "Plan Review",
			Description:          "A review of your investment plan: score, allocation feedback, and goal alignment.",
			RequiresTransactions: false,
		},
	}
}

// Role identifies the author of a prompt message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one provider-agnostic prompt message.
type Message struct {
	Role    Role
	Content string
}

// GenerateOptions tunes a single generation call.
type GenerateOptions struct {
	// MaxTokens caps the response size. Zero means the provider default.
	MaxTokens int
}
