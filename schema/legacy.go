package schema

import "github.com/finlens/insight-go/core"

// LegacySections decodes the older response layout where the model
// returns a ready-made "sections" array instead of a typed payload.
// Elements missing a string id, title, or a recognised type are skipped;
// unrecognised severities are cleared rather than rejected. Returns
// ok=false when no element survives validation.
func LegacySections(data map[string]any) ([]core.InsightSection, bool) {
	raw, ok := data["sections"].([]any)
	if !ok {
		return nil, false
	}

	sections := make([]core.InsightSection, 0, len(raw))
	for _, el := range raw {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		id, _ := m["id"].(string)
		title, _ := m["title"].(string)
		typ, _ := m["type"].(string)
		if id == "" || title == "" || !core.SectionType(typ).Valid() {
			continue
		}

		s := core.InsightSection{
			ID:    id,
			Title: title,
			Type:  core.SectionType(typ),
		}
		s.Text, _ = m["text"].(string)
		s.Highlight, _ = m["highlight"].(string)
		if items, ok := m["items"].([]any); ok {
			for _, it := range items {
				if str, ok := it.(string); ok {
					s.Items = append(s.Items, str)
				}
			}
		}
		if sev, ok := m["severity"].(string); ok && core.Severity(sev).Valid() {
			s.Severity = core.Severity(sev)
		}
		sections = append(sections, s)
	}

	if len(sections) == 0 {
		return nil, false
	}
	return sections, true
}
