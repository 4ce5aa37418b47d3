// Package schema turns parsed model responses into typed payloads and
// display-ready sections.
package schema

// Shape is the detected layout of a parsed response.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeTaxTips
	ShapeSpendingAnalysis
	ShapeMonthlyBudget
	ShapeWeeklyBudget
	ShapeInvestmentInsights
	ShapePlannerRecommendation
	ShapeLegacySections
)

// Classify detects the response shape by field presence. Checks run in a
// fixed priority order and the first match wins. The insight type that
// was requested plays no part: models occasionally answer a budget
// request with a spending payload, and the stored result should reflect
// what actually came back.
func Classify(data map[string]any) Shape {
	has := func(key string) bool {
		_, ok := data[key]
		return ok
	}

	switch {
	case has("tips") && has("regime"):
		return ShapeTaxTips
	case has("healthScore") && has("topCategories"):
		return ShapeSpendingAnalysis
	case has("needs") && has("wants") && has("savingsInvestments"):
		return ShapeMonthlyBudget
	case has("weeklyTarget") && has("dailyLimit"):
		return ShapeWeeklyBudget
	case has("portfolioValue") && has("diversification"):
		return ShapeInvestmentInsights
	case has("planScore") && has("allocationReview"):
		return ShapePlannerRecommendation
	case has("sections"):
		return ShapeLegacySections
	}
	return ShapeNone
}
