// Package store persists analyses and reads the financial documents that
// feed context collection. MongoDB backs production; an in-memory
// implementation backs tests and demo mode.
package store

import (
	"context"

	"github.com/finlens/insight-go/core"
)

// Analyses is the persistence contract for generated insights. Records
// are append-only: freshness is derived from generatedAt at read time,
// and retention is enforced by Prune rather than updates.
type Analyses interface {
	// Latest returns the newest analysis for the user and type, or
	// core.ErrNotFound when none exists.
	Latest(ctx context.Context, userID string, t core.InsightType) (*core.AnalysisRecord, error)

	// History returns up to limit analyses, newest first.
	History(ctx context.Context, userID string, t core.InsightType, limit int) ([]core.AnalysisRecord, error)

	// Insert appends a record, assigning an ID and GeneratedAt when unset.
	Insert(ctx context.Context, rec *core.AnalysisRecord) error

	// Prune deletes everything past the newest keep records for the user
	// and type, returning how many were removed.
	Prune(ctx context.Context, userID string, t core.InsightType, keep int) (int, error)

	// Purge deletes all analyses for the user and type.
	Purge(ctx context.Context, userID string, t core.InsightType) (int, error)
}

// Finance reads the user's financial documents. Absent optional
// documents return core.ErrNotFound; the collector treats that as "block
// absent", not as failure.
type Finance interface {
	// Transactions returns the user's full transaction history, newest
	// first.
	Transactions(ctx context.Context, userID string) ([]Transaction, error)

	// NWIConfig returns the needs/wants/invest split, if configured.
	NWIConfig(ctx context.Context, userID string) (*NWIConfig, error)

	// Goals returns the user's savings goals.
	Goals(ctx context.Context, userID string) ([]Goal, error)

	// Holdings returns the user's stocks, funds, and SIPs.
	Holdings(ctx context.Context, userID string) (*Holdings, error)

	// TaxProfile returns the user's tax regime and deduction usage.
	TaxProfile(ctx context.Context, userID string) (*TaxProfile, error)

	// Plan returns the user's investment plan.
	Plan(ctx context.Context, userID string) (*Plan, error)
}

// Store combines both contracts, as the Mongo and memory backends do.
type Store interface {
	Analyses
	Finance
}
