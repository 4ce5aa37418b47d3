package core

// PipelineContext carries the named context blocks assembled for one
// generation run. Each block is preformatted text ready to drop into the
// prompt; an empty string means the block is absent.
type PipelineContext struct {
	FinancialContext    string
	CurrentMonthContext string
	InvestmentContext   string
	NWIContext          string
	HealthContext       string
	GoalsContext        string
	MarketContext       string
	TaxContext          string
	PlannerContext      string

	// TransactionCount is the number of transactions behind
	// FinancialContext. It doubles as the dataPoints figure persisted
	// with the analysis.
	TransactionCount int

	// StockSymbols and FundNames seed market enrichment queries.
	StockSymbols []string
	FundNames    []string
}

// Empty reports whether nothing at all was collected.
func (c *PipelineContext) Empty() bool {
	return c.TransactionCount == 0 &&
		c.FinancialContext == "" &&
		c.CurrentMonthContext == "" &&
		c.InvestmentContext == "" &&
		c.NWIContext == "" &&
		c.HealthContext == "" &&
		c.GoalsContext == "" &&
		c.MarketContext == "" &&
		c.TaxContext == "" &&
		c.PlannerContext == ""
}
