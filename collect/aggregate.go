package collect

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlens/insight-go/store"
)

// summary holds the transaction aggregates rendered into context blocks.
type summary struct {
	count         int
	totalIncome   decimal.Decimal
	totalExpenses decimal.Decimal
	net           decimal.Decimal
	savingsRate   decimal.Decimal // percent, zero when no income
	categories    []categoryTotal // expenses descending
	months        []monthTotal    // trailing six months, oldest first
	dailyAvg      decimal.Decimal // expense average over trailing 30 days
	recurring     decimal.Decimal
	oneTime       decimal.Decimal
	monthIncome   decimal.Decimal // current calendar month
	monthExpenses decimal.Decimal
	txPerWeek     float64
	trend         string // "increasing", "decreasing", "stable"
	oldest        time.Time
}

type categoryTotal struct {
	name    string
	amount  decimal.Decimal
	percent decimal.Decimal
}

type monthTotal struct {
	label    string // "2026-08"
	income   decimal.Decimal
	expenses decimal.Decimal
}

const hundred = 100

// summarize runs the aggregation passes over the full history. Money
// arithmetic stays in decimals until rendering.
func summarize(txs []store.Transaction, now time.Time) *summary {
	s := &summary{count: len(txs)}
	if len(txs) == 0 {
		return s
	}

	categoryMap := make(map[string]decimal.Decimal)
	monthMap := make(map[string]*monthTotal)
	sixMonthsAgo := now.AddDate(0, -6, 0)
	thirtyDaysAgo := now.AddDate(0, 0, -30)
	var last30 decimal.Decimal

	s.oldest = txs[0].Date
	for _, tx := range txs {
		if tx.Date.Before(s.oldest) {
			s.oldest = tx.Date
		}
		amount := decimal.NewFromFloat(tx.Amount)

		switch tx.Kind {
		case "income":
			s.totalIncome = s.totalIncome.Add(amount)
		case "expense":
			s.totalExpenses = s.totalExpenses.Add(amount)
			categoryMap[tx.Category] = categoryMap[tx.Category].Add(amount)
			if tx.Recurring {
				s.recurring = s.recurring.Add(amount)
			} else {
				s.oneTime = s.oneTime.Add(amount)
			}
			if !tx.Date.Before(thirtyDaysAgo) {
				last30 = last30.Add(amount)
			}
		}

		if tx.Date.Year() == now.Year() && tx.Date.Month() == now.Month() {
			if tx.Kind == "income" {
				s.monthIncome = s.monthIncome.Add(amount)
			} else {
				s.monthExpenses = s.monthExpenses.Add(amount)
			}
		}

		if !tx.Date.Before(sixMonthsAgo) {
			label := tx.Date.Format("2006-01")
			mt, ok := monthMap[label]
			if !ok {
				mt = &monthTotal{label: label}
				monthMap[label] = mt
			}
			if tx.Kind == "income" {
				mt.income = mt.income.Add(amount)
			} else {
				mt.expenses = mt.expenses.Add(amount)
			}
		}
	}

	s.net = s.totalIncome.Sub(s.totalExpenses)
	if s.totalIncome.GreaterThan(decimal.Zero) {
		s.savingsRate = s.net.Div(s.totalIncome).Mul(decimal.NewFromInt(hundred))
	}
	s.dailyAvg = last30.Div(decimal.NewFromInt(30))

	for name, amount := range categoryMap {
		pct := decimal.Zero
		if s.totalExpenses.GreaterThan(decimal.Zero) {
			pct = amount.Div(s.totalExpenses).Mul(decimal.NewFromInt(hundred))
		}
		s.categories = append(s.categories, categoryTotal{name: name, amount: amount, percent: pct})
	}
	sort.Slice(s.categories, func(i, j int) bool {
		return s.categories[i].amount.GreaterThan(s.categories[j].amount)
	})
	if len(s.categories) > 8 {
		s.categories = s.categories[:8]
	}

	for _, mt := range monthMap {
		s.months = append(s.months, *mt)
	}
	sort.Slice(s.months, func(i, j int) bool {
		return s.months[i].label < s.months[j].label
	})

	s.txPerWeek = velocity(txs, now)
	s.trend = trendDirection(txs, now)
	return s
}

// velocity is transactions per week over the observed window.
func velocity(txs []store.Transaction, now time.Time) float64 {
	oldest := now
	for _, tx := range txs {
		if tx.Date.Before(oldest) {
			oldest = tx.Date
		}
	}
	days := now.Sub(oldest).Hours() / 24
	if days < 7 {
		days = 7
	}
	return float64(len(txs)) / days * 7
}

// trendDirection compares expense totals in the first and second halves
// of the trailing 60 days. Shifts within 15% read as stable.
func trendDirection(txs []store.Transaction, now time.Time) string {
	cutoff := now.AddDate(0, 0, -60)
	half := now.AddDate(0, 0, -30)

	var firstHalf, secondHalf decimal.Decimal
	for _, tx := range txs {
		if tx.Kind != "expense" || tx.Date.Before(cutoff) {
			continue
		}
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Date.Before(half) {
			firstHalf = firstHalf.Add(amount)
		} else {
			secondHalf = secondHalf.Add(amount)
		}
	}

	if !firstHalf.GreaterThan(decimal.Zero) {
		return "stable"
	}
	change := secondHalf.Sub(firstHalf).Div(firstHalf).Mul(decimal.NewFromInt(hundred))
	switch {
	case change.GreaterThan(decimal.NewFromInt(15)):
		return "increasing"
	case change.LessThan(decimal.NewFromInt(-15)):
		return "decreasing"
	}
	return "stable"
}
