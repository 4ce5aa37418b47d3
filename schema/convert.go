package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/finlens/insight-go/core"
)

// Convert classifies a parsed response and builds the typed payload plus
// its display sections. Returns ok=false when the data matches no known
// shape or fails to decode; callers then fall back to raw content.
func Convert(data map[string]any) (*core.StructuredData, []core.InsightSection, bool) {
	switch Classify(data) {
	case ShapeTaxTips:
		var d core.TaxTipsData
		if !decode(data, &d) {
			return nil, nil, false
		}
		return &core.StructuredData{Kind: core.KindTaxTips, TaxTips: &d}, taxSections(&d), true
	case ShapeSpendingAnalysis:
		var d core.SpendingAnalysisData
		if !decode(data, &d) {
			return nil, nil, false
		}
		return &core.StructuredData{Kind: core.KindSpendingAnalysis, SpendingAnalysis: &d}, spendingSections(&d), true
	case ShapeMonthlyBudget:
		var d core.MonthlyBudgetData
		if !decode(data, &d) {
			return nil, nil, false
		}
		return &core.StructuredData{Kind: core.KindMonthlyBudget, MonthlyBudget: &d}, monthlySections(&d), true
	case ShapeWeeklyBudget:
		var d core.WeeklyBudgetData
		if !decode(data, &d) {
			return nil, nil, false
		}
		return &core.StructuredData{Kind: core.KindWeeklyBudget, WeeklyBudget: &d}, weeklySections(&d), true
	case ShapeInvestmentInsights:
		var d core.InvestmentInsightsData
		if !decode(data, &d) {
			return nil, nil, false
		}
		return &core.StructuredData{Kind: core.KindInvestmentInsights, InvestmentInsights: &d}, investmentSections(&d), true
	case ShapePlannerRecommendation:
		var d core.PlannerRecommendationData
		if !decode(data, &d) {
			return nil, nil, false
		}
		return &core.StructuredData{Kind: core.KindPlannerRecommendation, PlannerRecommendation: &d}, plannerSections(&d), true
	case ShapeLegacySections:
		sections, ok := LegacySections(data)
		if !ok {
			return nil, nil, false
		}
		return nil, sections, true
	}
	return nil, nil, false
}

// decode round-trips a generic map into a typed payload. Model output is
// JSON to begin with, so the stdlib decoder handles the coercion rules
// (numbers, missing fields) consistently with the parse step.
func decode(data map[string]any, out any) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func spendingSections(d *core.SpendingAnalysisData) []core.InsightSection {
	sections := []core.InsightSection{{
		ID:    "overview",
		Title: "Spending Overview",
		Type:  core.SectionSummary,
		Text: fmt.Sprintf("Financial health score: %.0f/100. Income %s against expenses %s, a savings rate of %.1f%%.%s",
			d.HealthScore, money(d.Summary.TotalIncome), money(d.Summary.TotalExpenses),
			d.Summary.SavingsRate, trendSuffix(d.Summary.Trend)),
	}}

	if len(d.TopCategories) > 0 {
		items := make([]string, 0, len(d.TopCategories))
		for _, c := range d.TopCategories {
			line := fmt.Sprintf("%s: %s (%.1f%%)", c.Category, money(c.Amount), c.Percentage)
			if c.Insight != "" {
				line += " - " + c.Insight
			}
			items = append(items, line)
		}
		sections = append(sections, core.InsightSection{
			ID:    "top-categories",
			Title: "Top Spending Categories",
			Type:  core.SectionList,
			Items: items,
		})
	}

	if len(d.ActionItems) > 0 {
		sections = append(sections, core.InsightSection{
			ID:    "action-items",
			Title: "Action Items",
			Type:  core.SectionNumberedList,
			Items: d.ActionItems,
		})
	}

	if len(d.Alerts) > 0 {
		sections = append(sections, core.InsightSection{
			ID:       "alerts",
			Title:    "Alerts",
			Type:     core.SectionList,
			Items:    d.Alerts,
			Severity: core.SeverityWarning,
		})
	}

	if d.KeyInsight != "" {
		sections = append(sections, core.InsightSection{
			ID:        "key-takeaway",
			Title:     "Key Takeaway",
			Type:      core.SectionHighlight,
			Highlight: d.KeyInsight,
			Severity:  core.SeverityPositive,
		})
	}

	return sections
}

func monthlySections(d *core.MonthlyBudgetData) []core.InsightSection {
	overview := d.Summary
	if overview == "" {
		overview = fmt.Sprintf("Monthly income of %s allocated across needs, wants, and savings.", money(d.MonthlyIncome))
	}
	sections := []core.InsightSection{
		{
			ID:    "overview",
			Title: "Budget Overview",
			Type:  core.SectionSummary,
			Text:  overview,
		},
		{
			ID:    "allocation",
			Title: "Recommended Allocation",
			Type:  core.SectionList,
			Items: []string{
				bucketLine("Needs", d.Needs),
				bucketLine("Wants", d.Wants),
				bucketLine("Savings & Investments", d.SavingsInvestments),
			},
		},
	}

	if len(d.Adjustments) > 0 {
		sections = append(sections, core.InsightSection{
			ID:    "adjustments",
			Title: "Suggested Adjustments",
			Type:  core.SectionNumberedList,
			Items: d.Adjustments,
		})
	}

	return sections
}

func bucketLine(label string, b core.BudgetBucket) string {
	line := fmt.Sprintf("%s: %s (%.0f%%)", label, money(b.Amount), b.Percentage)
	if len(b.Categories) > 0 {
		line += " - " + strings.Join(b.Categories, ", ")
	}
	return line
}

func weeklySections(d *core.WeeklyBudgetData) []core.InsightSection {
	limitSeverity := core.SeverityPositive
	if d.Status == "over_budget" {
		limitSeverity = core.SeverityWarning
	}

	sections := []core.InsightSection{
		{
			ID:    "week-overview",
			Title: "This Week",
			Type:  core.SectionSummary,
			Text: fmt.Sprintf("Weekly target %s with %s spent so far; %s remaining.%s",
				money(d.WeeklyTarget), money(d.SpentSoFar), money(d.Remaining), statusSuffix(d.Status)),
		},
		{
			ID:        "daily-limit",
			Title:     "Daily Limit",
			Type:      core.SectionHighlight,
			Highlight: fmt.Sprintf("Keep daily spending under %s.", money(d.DailyLimit)),
			Severity:  limitSeverity,
		},
	}

	if len(d.FocusAreas) > 0 {
		sections = append(sections, core.InsightSection{
			ID:    "focus-areas",
			Title: "Focus Areas",
			Type:  core.SectionList,
			Items: d.FocusAreas,
		})
	}

	if len(d.Tips) > 0 {
		sections = append(sections, core.InsightSection{
			ID:    "tips",
			Title: "Tips",
			Type:  core.SectionNumberedList,
			Items: d.Tips,
		})
	}

	return sections
}

func investmentSections(d *core.InvestmentInsightsData) []core.InsightSection {
	overview := fmt.Sprintf("Portfolio value %s.", money(d.PortfolioValue))
	if d.Performance != "" {
		overview += " " + d.Performance
	}
	diversification := fmt.Sprintf("Diversification score %.0f/10.", d.Diversification.Score)
	if d.Diversification.Assessment != "" {
		diversification += " " + d.Diversification.Assessment
	}
	if len(d.Diversification.Gaps) > 0 {
		diversification += " Gaps: " + strings.Join(d.Diversification.Gaps, ", ") + "."
	}

	sections := []core.InsightSection{
		{
			ID:    "portfolio-overview",
			Title: "Portfolio Overview",
			Type:  core.SectionSummary,
			Text:  overview,
		},
		{
			ID:    "diversification",
			Title: "Diversification",
			Type:  core.SectionSummary,
			Text:  diversification,
		},
	}

	if len(d.Holdings) > 0 {
		items := make([]string, 0, len(d.Holdings))
		for _, h := range d.Holdings {
			line := fmt.Sprintf("%s: %s", h.Name, money(h.Value))
			if h.Note != "" {
				line += " - " + h.Note
			}
			items = append(items, line)
		}
		sections = append(sections, core.InsightSection{
			ID:    "holdings",
			Title: "Holdings",
			Type:  core.SectionList,
			Items: items,
		})
	}

	if len(d.Opportunities) > 0 {
		sections = append(sections, core.InsightSection{
			ID:       "opportunities",
			Title:    "Opportunities",
			Type:     core.SectionList,
			Items:    d.Opportunities,
			Severity: core.SeverityPositive,
		})
	}

	if len(d.Risks) > 0 {
		sections = append(sections, core.InsightSection{
			ID:       "risks",
			Title:    "Risks",
			Type:     core.SectionList,
			Items:    d.Risks,
			Severity: core.SeverityWarning,
		})
	}

	if d.MarketOutlook != "" {
		sections = append(sections, core.InsightSection{
			ID:    "market-outlook",
			Title: "Market Outlook",
			Type:  core.SectionSummary,
			Text:  d.MarketOutlook,
		})
	}

	return sections
}

func taxSections(d *core.TaxTipsData) []core.InsightSection {
	regime := fmt.Sprintf("Current tax regime: %s.", d.Regime)
	if d.RegimeAdvice != "" {
		regime += " " + d.RegimeAdvice
	}

	sections := []core.InsightSection{{
		ID:    "regime",
		Title: "Tax Regime",
		Type:  core.SectionSummary,
		Text:  regime,
	}}

	if len(d.Tips) > 0 {
		items := make([]string, 0, len(d.Tips))
		for _, t := range d.Tips {
			line := t.Title
			if t.Description != "" {
				line += ": " + t.Description
			}
			if t.PotentialSaving > 0 {
				line += fmt.Sprintf(" (saves %s)", money(t.PotentialSaving))
			}
			items = append(items, line)
		}
		sections = append(sections, core.InsightSection{
			ID:    "tips",
			Title: "Tax Saving Tips",
			Type:  core.SectionNumberedList,
			Items: items,
		})
	}

	if d.EstimatedSavings > 0 {
		sections = append(sections, core.InsightSection{
			ID:        "estimated-savings",
			Title:     "Estimated Savings",
			Type:      core.SectionHighlight,
			Highlight: fmt.Sprintf("You could save up to %s this year.", money(d.EstimatedSavings)),
			Severity:  core.SeverityPositive,
		})
	}

	if len(d.DeadlineReminders) > 0 {
		sections = append(sections, core.InsightSection{
			ID:       "deadlines",
			Title:    "Deadline Reminders",
			Type:     core.SectionList,
			Items:    d.DeadlineReminders,
			Severity: core.SeverityWarning,
		})
	}

	return sections
}

func plannerSections(d *core.PlannerRecommendationData) []core.InsightSection {
	review := fmt.Sprintf("Plan score: %.0f/100.", d.PlanScore)
	if d.AllocationReview != "" {
		review += " " + d.AllocationReview
	}

	sections := []core.InsightSection{{
		ID:    "plan-review",
		Title: "Plan Review",
		Type:  core.SectionSummary,
		Text:  review,
	}}

	if len(d.GoalAlignment) > 0 {
		items := make([]string, 0, len(d.GoalAlignment))
		for _, g := range d.GoalAlignment {
			line := g.Goal
			if g.Status != "" {
				line += ": " + strings.ReplaceAll(g.Status, "_", " ")
			}
			if g.Note != "" {
				line += " - " + g.Note
			}
			items = append(items, line)
		}
		sections = append(sections, core.InsightSection{
			ID:    "goal-alignment",
			Title: "Goal Alignment",
			Type:  core.SectionList,
			Items: items,
		})
	}

	if len(d.Adjustments) > 0 {
		sections = append(sections, core.InsightSection{
			ID:    "adjustments",
			Title: "Recommended Adjustments",
			Type:  core.SectionNumberedList,
			Items: d.Adjustments,
		})
	}

	if d.Projection != "" {
		sections = append(sections, core.InsightSection{
			ID:    "projection",
			Title: "Projection",
			Type:  core.SectionSummary,
			Text:  d.Projection,
		})
	}

	return sections
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func trendSuffix(trend string) string {
	if trend == "" {
		return ""
	}
	return fmt.Sprintf(" Trend: %s.", trend)
}

func statusSuffix(status string) string {
	if status == "" {
		return ""
	}
	return fmt.Sprintf(" Status: %s.", strings.ReplaceAll(status, "_", " "))
}
