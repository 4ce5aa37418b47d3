package store

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// SeedDemo fills the in-memory store with a realistic financial profile
// so the service can be driven without a database. Amounts are INR.
func SeedDemo(m *Memory, userID string) {
	rng := rand.New(rand.NewSource(42))
	m.SeedTransactions(userID, demoTransactions(rng, userID, 90))

	m.SeedNWIConfig(NWIConfig{
		UserID:        userID,
		MonthlyIncome: 85000,
		NeedsPct:      50,
		WantsPct:      30,
		InvestPct:     20,
	})

	m.SeedGoals(userID, []Goal{
		{ID: uuid.New().String(), UserID: userID, Name: "Emergency fund", Target: 300000, Saved: 180000,
			TargetDate: time.Now().AddDate(1, 0, 0)},
		{ID: uuid.New().String(), UserID: userID, Name: "Goa trip", Target: 60000, Saved: 22000,
			TargetDate: time.Now().AddDate(0, 6, 0)},
	})

	m.SeedHoldings(Holdings{
		UserID: userID,
		Stocks: []Stock{
			{Symbol: "RELIANCE", Quantity: 12, AvgPrice: 2450, LastPrice: 2890},
			{Symbol: "INFY", Quantity: 30, AvgPrice: 1380, LastPrice: 1520},
			{Symbol: "HDFCBANK", Quantity: 18, AvgPrice: 1510, LastPrice: 1645},
		},
		Funds: []Fund{
			{Name: "Parag Parikh Flexi Cap", Invested: 120000, Value: 148000},
			{Name: "UTI Nifty 50 Index", Invested: 80000, Value: 94000},
		},
		SIPs: []SIP{
			{FundName: "Parag Parikh Flexi Cap", Monthly: 5000},
			{FundName: "UTI Nifty 50 Index", Monthly: 3000},
		},
	})

	m.SeedTaxProfile(TaxProfile{
		UserID:       userID,
		Regime:       "old",
		AnnualIncome: 1020000,
		Deductions: []Deduction{
			{Name: "80C", Used: 95000, Limit: 150000},
			{Name: "80D", Used: 12000, Limit: 25000},
			{Name: "80CCD(1B)", Used: 0, Limit: 50000},
		},
	})

	m.SeedPlan(Plan{
		UserID:            userID,
		Name:              "Retirement 2045",
		TargetAmount:      20000000,
		MonthlyInvestment: 17000,
		HorizonYears:      19,
		RiskProfile:       "moderate",
		Allocations:       map[string]float64{"equity": 65, "debt": 25, "gold": 10},
		CurrentValue:      742000,
	})
}

// demoTransactions generates a plausible history over the trailing day
// window: a monthly salary plus category spending at typical frequencies.
func demoTransactions(rng *rand.Rand, userID string, days int) []Transaction {
	spending := []struct {
		category  string
		desc      string
		min, max  float64
		perMonth  int
		recurring bool
	}{
		{"Rent", "Monthly rent", 25000, 25000, 1, true},
		{"Groceries", "Supermarket", 800, 3500, 8, false},
		{"Dining", "Eating out", 300, 2200, 10, false},
		{"Transport", "Cab and metro", 100, 600, 12, false},
		{"Utilities", "Electricity and internet", 1200, 2800, 2, true},
		{"Subscriptions", "Streaming and music", 199, 649, 3, true},
		{"Shopping", "Online orders", 500, 6000, 4, false},
		{"Health", "Pharmacy and gym", 400, 1800, 2, false},
	}

	now := time.Now()
	var txs []Transaction

	// Salary credits on the 1st of each month in the window.
	for monthsBack := 0; monthsBack <= days/30; monthsBack++ {
		date := time.Date(now.Year(), now.Month(), 1, 10, 0, 0, 0, time.Local).AddDate(0, -monthsBack, 0)
		if now.Sub(date) > time.Duration(days)*24*time.Hour || date.After(now) {
			continue
		}
		txs = append(txs, Transaction{
			ID:          uuid.New().String(),
			UserID:      userID,
			Date:        date,
			Amount:      85000,
			Kind:        "income",
			Category:    "Salary",
			Description: "Monthly salary",
			Account:     "HDFC Savings",
			Recurring:   true,
		})
	}

	for _, s := range spending {
		count := int(math.Round(float64(s.perMonth) * float64(days) / 30.0))
		for i := 0; i < count; i++ {
			amount := s.min
			if s.max > s.min {
				amount = s.min + rng.Float64()*(s.max-s.min)
			}
			txs = append(txs, Transaction{
				ID:          uuid.New().String(),
				UserID:      userID,
				Date:        now.AddDate(0, 0, -rng.Intn(days)),
				Amount:      math.Round(amount*100) / 100,
				Kind:        "expense",
				Category:    s.category,
				Description: s.desc,
				Account:     "HDFC Savings",
				Recurring:   s.recurring,
			})
		}
	}

	return txs
}
