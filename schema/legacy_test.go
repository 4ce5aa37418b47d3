package schema

import (
	"testing"

	"github.com/finlens/insight-go/core"
)

func TestLegacySections(t *testing.T) {
	data := map[string]any{
		"sections": []any{
			map[string]any{
				"id": "overview", "title": "Overview", "type": "summary",
				"text": "Spending held steady.", "severity": "neutral",
			},
			map[string]any{
				"id": "tips", "title": "Tips", "type": "numbered_list",
				"items": []any{"Cook at home", "Review subscriptions"},
			},
		},
	}

	sections, ok := LegacySections(data)
	if !ok {
		t.Fatal("LegacySections() ok = false")
	}
	if len(sections) != 2 {
		t.Fatalf("len = %d, want 2", len(sections))
	}
	if sections[0].Severity != core.SeverityNeutral {
		t.Errorf("severity = %q", sections[0].Severity)
	}
	if len(sections[1].Items) != 2 {
		t.Errorf("items = %v", sections[1].Items)
	}
}

func TestLegacySectionsSkipsInvalid(t *testing.T) {
	data := map[string]any{
		"sections": []any{
			map[string]any{"title": "No ID", "type": "summary", "text": "skip"},
			map[string]any{"id": "x", "type": "summary", "text": "no title"},
			map[string]any{"id": "y", "title": "Bad type", "type": "carousel"},
			"not an object",
			map[string]any{"id": "ok", "title": "Kept", "type": "summary", "text": "fine"},
		},
	}

	sections, ok := LegacySections(data)
	if !ok {
		t.Fatal("LegacySections() ok = false")
	}
	if len(sections) != 1 || sections[0].ID != "ok" {
		t.Fatalf("sections = %+v", sections)
	}
}

func TestLegacySectionsClearsUnknownSeverity(t *testing.T) {
	data := map[string]any{
		"sections": []any{
			map[string]any{"id": "a", "title": "A", "type": "summary", "text": "t", "severity": "urgent"},
		},
	}

	sections, ok := LegacySections(data)
	if !ok {
		t.Fatal("LegacySections() ok = false")
	}
	if sections[0].Severity != "" {
		t.Errorf("severity = %q, want cleared", sections[0].Severity)
	}
}

func TestLegacySectionsAllInvalid(t *testing.T) {
	data := map[string]any{
		"sections": []any{
			map[string]any{"title": "missing id", "type": "summary"},
		},
	}
	if _, ok := LegacySections(data); ok {
		t.Error("ok = true when nothing survives validation")
	}

	if _, ok := LegacySections(map[string]any{"sections": "nope"}); ok {
		t.Error("ok = true when sections is not an array")
	}
}
