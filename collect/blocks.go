package collect

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlens/insight-go/store"
)

// amt renders a decimal with the configured currency symbol.
func (c *Collector) amt(d decimal.Decimal) string {
	return c.currency + d.StringFixed(2)
}

func (c *Collector) amtf(v float64) string {
	return c.amt(decimal.NewFromFloat(v))
}

func (c *Collector) buildFinancialBlock(s *summary, now time.Time) string {
	if s.count == 0 {
		return ""
	}

	var b strings.Builder
	days := int(now.Sub(s.oldest).Hours() / 24)
	fmt.Fprintf(&b, "Transactions analyzed: %d over the last %d days.\n", s.count, days)
	fmt.Fprintf(&b, "Total income: %s. Total expenses: %s. Net: %s.\n",
		c.amt(s.totalIncome), c.amt(s.totalExpenses), c.amt(s.net))
	fmt.Fprintf(&b, "Savings rate: %s%%.\n", s.savingsRate.StringFixed(1))

	if len(s.categories) > 0 {
		b.WriteString("Spending by category:\n")
		for _, cat := range s.categories {
			fmt.Fprintf(&b, "- %s: %s (%s%%)\n", cat.name, c.amt(cat.amount), cat.percent.StringFixed(1))
		}
	}

	if len(s.months) > 1 {
		b.WriteString("Monthly income/expenses:\n")
		for _, m := range s.months {
			fmt.Fprintf(&b, "- %s: %s / %s\n", m.label, c.amt(m.income), c.amt(m.expenses))
		}
	}

	fmt.Fprintf(&b, "Recurring expenses: %s; one-time: %s.\n", c.amt(s.recurring), c.amt(s.oneTime))
	fmt.Fprintf(&b, "Average daily spend over the last 30 days: %s.", c.amt(s.dailyAvg))
	return b.String()
}

func (c *Collector) buildCurrentMonthBlock(s *summary, now time.Time) string {
	if s.count == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current month (%s): income %s, expenses %s so far.\n",
		now.Format("2006-01"), c.amt(s.monthIncome), c.amt(s.monthExpenses))

	if s.monthExpenses.GreaterThan(decimal.Zero) {
		day := now.Day()
		daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
		projected := s.monthExpenses.Div(decimal.NewFromInt(int64(day))).Mul(decimal.NewFromInt(int64(daysInMonth)))
		fmt.Fprintf(&b, "Day %d of %d; projected month-end spend: %s.", day, daysInMonth, c.amt(projected))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Collector) buildHealthBlock(s *summary) string {
	if s.count == 0 {
		return ""
	}

	rating := "needs attention"
	switch {
	case s.savingsRate.GreaterThanOrEqual(decimal.NewFromInt(30)):
		rating = "strong"
	case s.savingsRate.GreaterThanOrEqual(decimal.NewFromInt(15)):
		rating = "fair"
	}

	pace := "low"
	if s.txPerWeek >= 10 {
		pace = "high"
	} else if s.txPerWeek >= 4 {
		pace = "moderate"
	}

	return fmt.Sprintf("Savings rate %s%% (%s). Spending velocity: %s (%.1f transactions/week). Spending trend vs prior month: %s.",
		s.savingsRate.StringFixed(1), rating, pace, s.txPerWeek, s.trend)
}

func (c *Collector) buildNWIBlock(cfg *store.NWIConfig) string {
	income := decimal.NewFromFloat(cfg.MonthlyIncome)
	needs := income.Mul(decimal.NewFromFloat(cfg.NeedsPct)).Div(decimal.NewFromInt(hundred))
	wants := income.Mul(decimal.NewFromFloat(cfg.WantsPct)).Div(decimal.NewFromInt(hundred))
	invest := income.Mul(decimal.NewFromFloat(cfg.InvestPct)).Div(decimal.NewFromInt(hundred))

	return fmt.Sprintf("Configured budget split: monthly income %s, needs %.0f%%, wants %.0f%%, savings/investments %.0f%%.\n"+
		"Implied amounts: needs %s, wants %s, savings/investments %s.",
		c.amt(income), cfg.NeedsPct, cfg.WantsPct, cfg.InvestPct,
		c.amt(needs), c.amt(wants), c.amt(invest))
}

func (c *Collector) buildGoalsBlock(goals []store.Goal) string {
	if len(goals) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Savings goals:\n")
	for _, g := range goals {
		pct := 0.0
		if g.Target > 0 {
			pct = g.Saved / g.Target * hundred
		}
		fmt.Fprintf(&b, "- %s: %s of %s (%.1f%%)", g.Name, c.amtf(g.Saved), c.amtf(g.Target), pct)
		if !g.TargetDate.IsZero() {
			fmt.Fprintf(&b, ", target %s", g.TargetDate.Format("2006-01"))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Collector) buildInvestmentBlock(h *store.Holdings) string {
	if h == nil || (len(h.Stocks) == 0 && len(h.Funds) == 0 && len(h.SIPs) == 0) {
		return ""
	}

	var b strings.Builder
	total := decimal.Zero

	if len(h.Stocks) > 0 {
		b.WriteString("Stocks:\n")
		for _, st := range h.Stocks {
			value := decimal.NewFromFloat(st.Quantity).Mul(decimal.NewFromFloat(st.LastPrice))
			total = total.Add(value)
			line := fmt.Sprintf("- %s: %.0f units, avg %s, last %s, value %s",
				st.Symbol, st.Quantity, c.amtf(st.AvgPrice), c.amtf(st.LastPrice), c.amt(value))
			if st.AvgPrice > 0 {
				pnl := (st.LastPrice - st.AvgPrice) / st.AvgPrice * hundred
				line += fmt.Sprintf(" (%+.1f%%)", pnl)
			}
			b.WriteString(line + "\n")
		}
	}

	if len(h.Funds) > 0 {
		b.WriteString("Mutual funds:\n")
		for _, f := range h.Funds {
			total = total.Add(decimal.NewFromFloat(f.Value))
			line := fmt.Sprintf("- %s: invested %s, value %s", f.Name, c.amtf(f.Invested), c.amtf(f.Value))
			if f.Invested > 0 {
				pnl := (f.Value - f.Invested) / f.Invested * hundred
				line += fmt.Sprintf(" (%+.1f%%)", pnl)
			}
			b.WriteString(line + "\n")
		}
	}

	if len(h.SIPs) > 0 {
		b.WriteString("Active SIPs:\n")
		for _, s := range h.SIPs {
			fmt.Fprintf(&b, "- %s: %s/month\n", s.FundName, c.amtf(s.Monthly))
		}
	}

	fmt.Fprintf(&b, "Total portfolio value: %s.", c.amt(total))
	return b.String()
}

func (c *Collector) buildTaxBlock(p *store.TaxProfile) string {
	if p == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tax regime: %s. Annual income: %s.\n", p.Regime, c.amtf(p.AnnualIncome))
	if len(p.Deductions) > 0 {
		b.WriteString("Deduction usage:\n")
		for _, d := range p.Deductions {
			fmt.Fprintf(&b, "- %s: used %s of %s (room %s)\n",
				d.Name, c.amtf(d.Used), c.amtf(d.Limit), c.amtf(d.Limit-d.Used))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Collector) buildPlannerBlock(p *store.Plan) string {
	if p == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plan %q: target %s over %d years, monthly investment %s, risk profile %s, current value %s.",
		p.Name, c.amtf(p.TargetAmount), p.HorizonYears, c.amtf(p.MonthlyInvestment), p.RiskProfile, c.amtf(p.CurrentValue))

	if len(p.Allocations) > 0 {
		keys := make([]string, 0, len(p.Allocations))
		for k := range p.Allocations {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s %.0f%%", k, p.Allocations[k]))
		}
		b.WriteString("\nTarget allocation: " + strings.Join(parts, ", ") + ".")
	}
	return b.String()
}
