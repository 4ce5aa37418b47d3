package prompt

import (
	"strings"
	"testing"

	"github.com/finlens/insight-go/core"
)

func TestBuildMessageShape(t *testing.T) {
	pc := &core.PipelineContext{
		FinancialContext: "Total income: ₹85000.00.",
		HealthContext:    "Savings rate 38.8% (strong).",
		TransactionCount: 42,
	}

	msgs := Build(core.SpendingAnalysis, pc)
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want 2", len(msgs))
	}
	if msgs[0].Role != core.RoleSystem {
		t.Errorf("msgs[0].Role = %q, want system", msgs[0].Role)
	}
	if msgs[1].Role != core.RoleUser {
		t.Errorf("msgs[1].Role = %q, want user", msgs[1].Role)
	}
	if !strings.Contains(msgs[0].Content, "healthScore") {
		t.Error("spending system prompt missing schema field healthScore")
	}
	if !strings.Contains(msgs[1].Content, "=== FINANCIAL OVERVIEW ===") {
		t.Errorf("user message missing financial block:\n%s", msgs[1].Content)
	}
	if !strings.Contains(msgs[1].Content, "=== SPENDING HEALTH ===") {
		t.Error("user message missing health block")
	}
	if !strings.HasSuffix(msgs[1].Content, "described in your instructions.") {
		t.Errorf("user message does not end with the task line:\n%s", msgs[1].Content)
	}
}

func TestBuildOmitsEmptyBlocks(t *testing.T) {
	pc := &core.PipelineContext{FinancialContext: "income data"}

	msgs := Build(core.MonthlyBudget, pc)
	content := msgs[1].Content
	for _, heading := range []string{"CURRENT MONTH", "BUDGET SPLIT CONFIG", "PORTFOLIO", "MARKET CONTEXT", "TAX PROFILE", "INVESTMENT PLAN"} {
		if strings.Contains(content, heading) {
			t.Errorf("empty block %q rendered:\n%s", heading, content)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	pc := &core.PipelineContext{
		FinancialContext:  "a",
		InvestmentContext: "b",
		MarketContext:     "c",
		StockSymbols:      []string{"INFY"},
	}

	first := Build(core.InvestmentInsights, pc)
	second := Build(core.InvestmentInsights, pc)
	if first[0].Content != second[0].Content || first[1].Content != second[1].Content {
		t.Error("Build is not deterministic for identical context")
	}
}

func TestBuildBlockOrder(t *testing.T) {
	pc := &core.PipelineContext{
		FinancialContext:  "fin",
		InvestmentContext: "inv",
		MarketContext:     "mkt",
	}

	content := Build(core.InvestmentInsights, pc)[1].Content
	fin := strings.Index(content, "=== FINANCIAL OVERVIEW ===")
	inv := strings.Index(content, "=== PORTFOLIO ===")
	mkt := strings.Index(content, "=== MARKET CONTEXT ===")
	if fin == -1 || inv == -1 || mkt == -1 {
		t.Fatalf("missing blocks:\n%s", content)
	}
	if !(fin < inv && inv < mkt) {
		t.Errorf("block order wrong: fin=%d inv=%d mkt=%d", fin, inv, mkt)
	}
}

func TestSystemPromptsPerType(t *testing.T) {
	wantField := map[core.InsightType]string{
		core.SpendingAnalysis:      "healthScore",
		core.MonthlyBudget:         "savingsInvestments",
		core.WeeklyBudget:          "weeklyTarget",
		core.InvestmentInsights:    "portfolioValue",
		core.TaxOptimization:       "estimatedSavings",
		core.PlannerRecommendation: "planScore",
	}

	for _, typ := range core.AllInsightTypes() {
		msgs := Build(typ, &core.PipelineContext{})
		sys := msgs[0].Content
		if !strings.Contains(sys, "single JSON object") {
			t.Errorf("%s: prompt does not mandate a single JSON object", typ)
		}
		if field := wantField[typ]; !strings.Contains(sys, field) {
			t.Errorf("%s: prompt missing schema field %q", typ, field)
		}
	}
}
