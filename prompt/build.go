package prompt

import (
	"strings"

	"github.com/finlens/insight-go/core"
)

// Build assembles the messages for one generation run: the type's system
// prompt, then a user message concatenating the populated context blocks
// in fixed order. Deterministic: the same context produces byte-identical
// messages.
func Build(t core.InsightType, pc *core.PipelineContext) []core.Message {
	var b strings.Builder
	appendBlock(&b, "FINANCIAL OVERVIEW", pc.FinancialContext)
	appendBlock(&b, "CURRENT MONTH", pc.CurrentMonthContext)
	appendBlock(&b, "BUDGET SPLIT CONFIG", pc.NWIContext)
	appendBlock(&b, "SPENDING HEALTH", pc.HealthContext)
	appendBlock(&b, "SAVINGS GOALS", pc.GoalsContext)
	appendBlock(&b, "PORTFOLIO", pc.InvestmentContext)
	appendBlock(&b, "MARKET CONTEXT", pc.MarketContext)
	appendBlock(&b, "TAX PROFILE", pc.TaxContext)
	appendBlock(&b, "INVESTMENT PLAN", pc.PlannerContext)
	b.WriteString(taskLine(t))

	return []core.Message{
		{Role: core.RoleSystem, Content: systemPrompt(t)},
		{Role: core.RoleUser, Content: b.String()},
	}
}

// appendBlock writes one delimited context block; empty blocks are
// omitted entirely.
func appendBlock(b *strings.Builder, heading, text string) {
	if text == "" {
		return
	}
	b.WriteString("=== " + heading + " ===\n")
	b.WriteString(text)
	b.WriteString("\n\n")
}

func systemPrompt(t core.InsightType) string {
	switch t {
	case core.SpendingAnalysis:
		return spendingAnalysisPrompt
	case core.MonthlyBudget:
		return monthlyBudgetPrompt
	case core.WeeklyBudget:
		return weeklyBudgetPrompt
	case core.InvestmentInsights:
		return investmentInsightsPrompt
	case core.TaxOptimization:
		return taxOptimizationPrompt
	case core.PlannerRecommendation:
		return plannerRecommendationPrompt
	}
	return sectionsFallbackPrompt
}

func taskLine(t core.InsightType) string {
	switch t {
	case core.SpendingAnalysis:
		return "Task: analyze this user's spending and respond with the JSON object described in your instructions."
	case core.MonthlyBudget:
		return "Task: propose this month's budget and respond with the JSON object described in your instructions."
	case core.WeeklyBudget:
		return "Task: set this week's spending target and respond with the JSON object described in your instructions."
	case core.InvestmentInsights:
		return "Task: review this portfolio and respond with the JSON object described in your instructions."
	case core.TaxOptimization:
		return "Task: find this user's tax savings and respond with the JSON object described in your instructions."
	case core.PlannerRecommendation:
		return "Task: review this investment plan and respond with the JSON object described in your instructions."
	}
	return "Task: analyze this user's finances and respond with the JSON object described in your instructions."
}
