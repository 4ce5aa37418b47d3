package core

import "time"

// SearchAudit records the market lookups that fed an analysis.
type SearchAudit struct {
	Queries      []string `bson:"queries" json:"queries"`
	SnippetCount int      `bson:"snippetCount" json:"snippetCount"`
}

// AnalysisRecord is one persisted insight. Records are append-only;
// freshness is derived from GeneratedAt at read time and never stored.
// GeneratedAt and CreatedAt are assigned together on insert.
type AnalysisRecord struct {
	ID             string           `bson:"_id" json:"id"`
	UserID         string           `bson:"userId" json:"userId"`
	Type           InsightType      `bson:"type" json:"type"`
	Content        string           `bson:"content" json:"content"`
	Sections       []InsightSection `bson:"sections,omitempty" json:"sections,omitempty"`
	StructuredData *StructuredData  `bson:"structuredData,omitempty" json:"structuredData,omitempty"`
	DataPoints     int              `bson:"dataPoints" json:"dataPoints"`
	SearchContext  *SearchAudit     `bson:"searchContext,omitempty" json:"searchContext,omitempty"`
	GeneratedAt    time.Time        `bson:"generatedAt" json:"generatedAt"`
	CreatedAt      time.Time        `bson:"createdAt" json:"createdAt"`
}

// StaleAfter reports whether the record is older than maxAge at now.
func (r *AnalysisRecord) StaleAfter(maxAge time.Duration, now time.Time) bool {
	return now.Sub(r.GeneratedAt) >= maxAge
}

// PipelineResult is what a pipeline run returns to callers. It mirrors
// the persisted record plus cache provenance.
type PipelineResult struct {
	Type           InsightType      `json:"type"`
	Content        string           `json:"content"`
	Sections       []InsightSection `json:"sections,omitempty"`
	StructuredData *StructuredData  `json:"structuredData,omitempty"`
	DataPoints     int              `json:"dataPoints"`
	GeneratedAt    time.Time        `json:"generatedAt"`
	FromCache      bool             `json:"fromCache"`
	Stale          bool             `json:"stale"`
	SearchContext  *SearchAudit     `json:"searchContext,omitempty"`
}
