package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finlens/insight-go/core"
)

// Memory implements Analyses and Finance with mutex-guarded maps. Used
// by tests and by demo mode.
type Memory struct {
	mu           sync.RWMutex
	analyses     map[string][]core.AnalysisRecord
	transactions map[string][]Transaction
	nwiConfigs   map[string]*NWIConfig
	goals        map[string][]Goal
	holdings     map[string]*Holdings
	taxProfiles  map[string]*TaxProfile
	plans        map[string]*Plan
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		analyses:     make(map[string][]core.AnalysisRecord),
		transactions: make(map[string][]Transaction),
		nwiConfigs:   make(map[string]*NWIConfig),
		goals:        make(map[string][]Goal),
		holdings:     make(map[string]*Holdings),
		taxProfiles:  make(map[string]*TaxProfile),
		plans:        make(map[string]*Plan),
	}
}

func analysisKey(userID string, t core.InsightType) string {
	return userID + "|" + string(t)
}

// Ping always succeeds; it exists so the health endpoint can treat both
// backends alike.
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func (m *Memory) Latest(ctx context.Context, userID string, t core.InsightType) (*core.AnalysisRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := m.analyses[analysisKey(userID, t)]
	if len(recs) == 0 {
		return nil, core.ErrNotFound
	}

	newest := recs[0]
	for _, r := range recs[1:] {
		if r.GeneratedAt.After(newest.GeneratedAt) {
			newest = r
		}
	}
	return &newest, nil
}

func (m *Memory) History(ctx context.Context, userID string, t core.InsightType, limit int) ([]core.AnalysisRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := m.analyses[analysisKey(userID, t)]
	out := make([]core.AnalysisRecord, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Insert(ctx context.Context, rec *core.AnalysisRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.GeneratedAt.IsZero() {
		rec.GeneratedAt = time.Now().UTC()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.GeneratedAt
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := analysisKey(rec.UserID, rec.Type)
	m.analyses[key] = append(m.analyses[key], *rec)
	return nil
}

func (m *Memory) Prune(ctx context.Context, userID string, t core.InsightType, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := analysisKey(userID, t)
	recs := m.analyses[key]
	if len(recs) <= keep {
		return 0, nil
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].GeneratedAt.After(recs[j].GeneratedAt)
	})
	removed := len(recs) - keep
	m.analyses[key] = recs[:keep]
	return removed, nil
}

func (m *Memory) Purge(ctx context.Context, userID string, t core.InsightType) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := analysisKey(userID, t)
	removed := len(m.analyses[key])
	delete(m.analyses, key)
	return removed, nil
}

func (m *Memory) Transactions(ctx context.Context, userID string) ([]Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	txs := m.transactions[userID]
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (m *Memory) NWIConfig(ctx context.Context, userID string) (*NWIConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg, ok := m.nwiConfigs[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	c := *cfg
	return &c, nil
}

func (m *Memory) Goals(ctx context.Context, userID string) ([]Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	goals := m.goals[userID]
	out := make([]Goal, len(goals))
	copy(out, goals)
	return out, nil
}

func (m *Memory) Holdings(ctx context.Context, userID string) (*Holdings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.holdings[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	c := *h
	return &c, nil
}

func (m *Memory) TaxProfile(ctx context.Context, userID string) (*TaxProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.taxProfiles[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (m *Memory) Plan(ctx context.Context, userID string) (*Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plans[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	c := *p
	return &c, nil
}

// Seed helpers populate the fake for tests and demo mode.

func (m *Memory) SeedTransactions(userID string, txs []Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[userID] = append(m.transactions[userID], txs...)
}

func (m *Memory) SeedNWIConfig(cfg NWIConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nwiConfigs[cfg.UserID] = &cfg
}

func (m *Memory) SeedGoals(userID string, goals []Goal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[userID] = append(m.goals[userID], goals...)
}

func (m *Memory) SeedHoldings(h Holdings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdings[h.UserID] = &h
}

func (m *Memory) SeedTaxProfile(p TaxProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taxProfiles[p.UserID] = &p
}

func (m *Memory) SeedPlan(p Plan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.UserID] = &p
}
