package core

// SectionType identifies how a section is rendered.
type SectionType string

const (
	SectionSummary      SectionType = "summary"
	SectionList         SectionType = "list"
	SectionNumberedList SectionType = "numbered_list"
	SectionHighlight    SectionType = "highlight"
)

// Valid reports whether the section type is one of the supported four.
func (t SectionType) Valid() bool {
	switch t {
	case SectionSummary, SectionList, SectionNumberedList, SectionHighlight:
		return true
	}
	return false
}

// Severity colors a section for display. Empty means unset.
type Severity string

const (
	SeverityPositive Severity = "positive"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
	SeverityNeutral  Severity = "neutral"
)

// Valid reports whether the severity is one of the supported four.
func (s Severity) Valid() bool {
	switch s {
	case SeverityPositive, SeverityWarning, SeverityCritical, SeverityNeutral:
		return true
	}
	return false
}

// InsightSection is one display-ready block of an insight. Exactly one
// of Text, Items, or Highlight carries the payload, depending on Type.
type InsightSection struct {
	ID        string      `bson:"id" json:"id"`
	Title     string      `bson:"title" json:"title"`
	Type      SectionType `bson:"type" json:"type"`
	Text      string      `bson:"text,omitempty" json:"text,omitempty"`
	Items     []string    `bson:"items,omitempty" json:"items,omitempty"`
	Highlight string      `bson:"highlight,omitempty" json:"highlight,omitempty"`
	Severity  Severity    `bson:"severity,omitempty" json:"severity,omitempty"`
}
