// Package collect assembles the financial context blocks behind one
// generation run.
package collect

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/finlens/insight-go/core"
	"github.com/finlens/insight-go/logger"
	"github.com/finlens/insight-go/store"
)

// Collector reads a user's financial documents and renders them into the
// pipeline context for an insight type.
type Collector struct {
	finance  store.Finance
	currency string
	now      func() time.Time
}

// New returns a Collector. Currency is the symbol prefixed to amounts in
// rendered blocks.
func New(finance store.Finance, currency string) *Collector {
	return &Collector{finance: finance, currency: currency, now: time.Now}
}

// Collect gathers the documents the insight type needs, concurrently,
// and renders the context blocks. A failed transactions read fails
// collection; failed optional reads log a warning and leave their block
// empty. Empty data is not an error here: the caller decides whether the
// result is sufficient.
func (c *Collector) Collect(ctx context.Context, userID string, t core.InsightType) (*core.PipelineContext, error) {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		txs   []store.Transaction
		txErr error

		nwi     *store.NWIConfig
		goals   []store.Goal
		hold    *store.Holdings
		taxProf *store.TaxProfile
		plan    *store.Plan
	)

	fetch := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	fetch(func() {
		t, err := c.finance.Transactions(ctx, userID)
		mu.Lock()
		txs, txErr = t, err
		mu.Unlock()
	})

	switch t {
	case core.SpendingAnalysis:
		fetch(func() {
			g := c.optionalGoals(ctx, userID)
			mu.Lock()
			goals = g
			mu.Unlock()
		})
	case core.MonthlyBudget, core.WeeklyBudget:
		fetch(func() {
			n := c.optionalNWI(ctx, userID)
			mu.Lock()
			nwi = n
			mu.Unlock()
		})
	case core.InvestmentInsights:
		fetch(func() {
			h := c.optionalHoldings(ctx, userID)
			mu.Lock()
			hold = h
			mu.Unlock()
		})
	case core.TaxOptimization:
		fetch(func() {
			p := c.optionalTaxProfile(ctx, userID)
			mu.Lock()
			taxProf = p
			mu.Unlock()
		})
	case core.PlannerRecommendation:
		fetch(func() {
			p := c.optionalPlan(ctx, userID)
			mu.Lock()
			plan = p
			mu.Unlock()
		})
		fetch(func() {
			g := c.optionalGoals(ctx, userID)
			mu.Lock()
			goals = g
			mu.Unlock()
		})
	}

	wg.Wait()

	if txErr != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", txErr)
	}

	now := c.now()
	sum := summarize(txs, now)

	pc := &core.PipelineContext{
		FinancialContext: c.buildFinancialBlock(sum, now),
		TransactionCount: sum.count,
	}

	switch t {
	case core.SpendingAnalysis:
		pc.CurrentMonthContext = c.buildCurrentMonthBlock(sum, now)
		pc.HealthContext = c.buildHealthBlock(sum)
		pc.GoalsContext = c.buildGoalsBlock(goals)
	case core.MonthlyBudget, core.WeeklyBudget:
		pc.CurrentMonthContext = c.buildCurrentMonthBlock(sum, now)
		if nwi != nil {
			pc.NWIContext = c.buildNWIBlock(nwi)
		}
	case core.InvestmentInsights:
		pc.InvestmentContext = c.buildInvestmentBlock(hold)
		if hold != nil {
			for _, s := range hold.Stocks {
				pc.StockSymbols = append(pc.StockSymbols, s.Symbol)
			}
			for _, f := range hold.Funds {
				pc.FundNames = append(pc.FundNames, f.Name)
			}
		}
	case core.TaxOptimization:
		pc.TaxContext = c.buildTaxBlock(taxProf)
	case core.PlannerRecommendation:
		pc.PlannerContext = c.buildPlannerBlock(plan)
		pc.GoalsContext = c.buildGoalsBlock(goals)
	}

	return pc, nil
}

func (c *Collector) optionalNWI(ctx context.Context, userID string) *store.NWIConfig {
	cfg, err := c.finance.NWIConfig(ctx, userID)
	if err != nil {
		c.warnOptional(userID, "nwi config", err)
		return nil
	}
	return cfg
}

func (c *Collector) optionalGoals(ctx context.Context, userID string) []store.Goal {
	goals, err := c.finance.Goals(ctx, userID)
	if err != nil {
		c.warnOptional(userID, "goals", err)
		return nil
	}
	return goals
}

func (c *Collector) optionalHoldings(ctx context.Context, userID string) *store.Holdings {
	h, err := c.finance.Holdings(ctx, userID)
	if err != nil {
		c.warnOptional(userID, "holdings", err)
		return nil
	}
	return h
}

func (c *Collector) optionalTaxProfile(ctx context.Context, userID string) *store.TaxProfile {
	p, err := c.finance.TaxProfile(ctx, userID)
	if err != nil {
		c.warnOptional(userID, "tax profile", err)
		return nil
	}
	return p
}

func (c *Collector) optionalPlan(ctx context.Context, userID string) *store.Plan {
	p, err := c.finance.Plan(ctx, userID)
	if err != nil {
		c.warnOptional(userID, "plan", err)
		return nil
	}
	return p
}

// warnOptional logs a degraded read. Absence is expected and stays quiet.
func (c *Collector) warnOptional(userID, what string, err error) {
	if errors.Is(err, core.ErrNotFound) {
		return
	}
	logger.L().WithField("userID", userID).Warnf("failed to load %s: %v", what, err)
}
