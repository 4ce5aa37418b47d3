package store

import "time"

// Transaction is one income or expense entry.
type Transaction struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"userId" json:"userId"`
	Date        time.Time `bson:"date" json:"date"`
	Amount      float64   `bson:"amount" json:"amount"`
	Kind        string    `bson:"kind" json:"kind"` // "income", "expense"
	Category    string    `bson:"category" json:"category"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Account     string    `bson:"account,omitempty" json:"account,omitempty"`
	Recurring   bool      `bson:"recurring,omitempty" json:"recurring,omitempty"`
}

// NWIConfig is the user's needs/wants/invest budget split.
type NWIConfig struct {
	UserID        string  `bson:"_id" json:"userId"`
	MonthlyIncome float64 `bson:"monthlyIncome" json:"monthlyIncome"`
	NeedsPct      float64 `bson:"needsPct" json:"needsPct"`
	WantsPct      float64 `bson:"wantsPct" json:"wantsPct"`
	InvestPct     float64 `bson:"investPct" json:"investPct"`
}

// Goal is one savings goal.
type Goal struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     string    `bson:"userId" json:"userId"`
	Name       string    `bson:"name" json:"name"`
	Target     float64   `bson:"target" json:"target"`
	Saved      float64   `bson:"saved" json:"saved"`
	TargetDate time.Time `bson:"targetDate,omitempty" json:"targetDate,omitempty"`
}

// Holdings groups the user's investment positions.
type Holdings struct {
	UserID string  `bson:"_id" json:"userId"`
	Stocks []Stock `bson:"stocks,omitempty" json:"stocks,omitempty"`
	Funds  []Fund  `bson:"funds,omitempty" json:"funds,omitempty"`
	SIPs   []SIP   `bson:"sips,omitempty" json:"sips,omitempty"`
}

// Stock is one equity position.
type Stock struct {
	Symbol    string  `bson:"symbol" json:"symbol"`
	Quantity  float64 `bson:"quantity" json:"quantity"`
	AvgPrice  float64 `bson:"avgPrice" json:"avgPrice"`
	LastPrice float64 `bson:"lastPrice" json:"lastPrice"`
}

// Fund is one mutual fund position.
type Fund struct {
	Name     string  `bson:"name" json:"name"`
	Invested float64 `bson:"invested" json:"invested"`
	Value    float64 `bson:"value" json:"value"`
}

// SIP is a recurring monthly fund contribution.
type SIP struct {
	FundName string  `bson:"fundName" json:"fundName"`
	Monthly  float64 `bson:"monthly" json:"monthly"`
}

// TaxProfile is the user's tax regime and deduction usage.
type TaxProfile struct {
	UserID       string      `bson:"_id" json:"userId"`
	Regime       string      `bson:"regime" json:"regime"` // "old", "new"
	AnnualIncome float64     `bson:"annualIncome" json:"annualIncome"`
	Deductions   []Deduction `bson:"deductions,omitempty" json:"deductions,omitempty"`
}

// Deduction tracks usage against one deduction section limit.
type Deduction struct {
	Name  string  `bson:"name" json:"name"` // e.g. "80C", "80D"
	Used  float64 `bson:"used" json:"used"`
	Limit float64 `bson:"limit" json:"limit"`
}

// Plan is the user's investment plan.
type Plan struct {
	UserID            string             `bson:"_id" json:"userId"`
	Name              string             `bson:"name" json:"name"`
	TargetAmount      float64            `bson:"targetAmount" json:"targetAmount"`
	MonthlyInvestment float64            `bson:"monthlyInvestment" json:"monthlyInvestment"`
	HorizonYears      int                `bson:"horizonYears" json:"horizonYears"`
	RiskProfile       string             `bson:"riskProfile" json:"riskProfile"` // "low", "moderate", "high"
	Allocations       map[string]float64 `bson:"allocations,omitempty" json:"allocations,omitempty"`
	CurrentValue      float64            `bson:"currentValue" json:"currentValue"`
}
