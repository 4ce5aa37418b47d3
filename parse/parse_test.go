package parse

import "testing"

func TestParseDirectJSON(t *testing.T) {
	res := Parse(`{"healthScore": 72, "keyInsight": "spend less"}`)
	if res.Mode != ModeDirect {
		t.Fatalf("mode = %s, want direct", res.Mode)
	}
	if res.Data["healthScore"] != float64(72) {
		t.Errorf("healthScore = %v", res.Data["healthScore"])
	}
}

func TestParseFencedJSON(t *testing.T) {
	cases := map[string]string{
		"json fence":     "```json\n{\"a\": 1}\n```",
		"bare fence":     "```\n{\"a\": 1}\n```",
		"leading only":   "```json\n{\"a\": 1}",
		"trailing only":  "{\"a\": 1}\n```",
		"padded fence":   "  ```json\n  {\"a\": 1}\n```  ",
	}
	for name, raw := range cases {
		res := Parse(raw)
		if res.Mode != ModeDirect {
			t.Errorf("%s: mode = %s, want direct", name, res.Mode)
			continue
		}
		if res.Data["a"] != float64(1) {
			t.Errorf("%s: a = %v, want 1", name, res.Data["a"])
		}
	}
}

func TestParseExtractsFromProse(t *testing.T) {
	raw := `Here's my analysis of your spending:

{"weeklyTarget": 5000, "dailyLimit": 700}

Let me know if you'd like more detail.`

	res := Parse(raw)
	if res.Mode != ModeExtracted {
		t.Fatalf("mode = %s, want extracted", res.Mode)
	}
	if res.Data["weeklyTarget"] != float64(5000) {
		t.Errorf("weeklyTarget = %v", res.Data["weeklyTarget"])
	}
	if res.Raw != raw {
		t.Error("raw text must be preserved unmodified")
	}
}

func TestParseBracesInsideStrings(t *testing.T) {
	raw := `Sure: {"note": "use {curly} braces", "n": 2} done`
	res := Parse(raw)
	if res.Mode != ModeExtracted {
		t.Fatalf("mode = %s, want extracted", res.Mode)
	}
	if res.Data["note"] != "use {curly} braces" {
		t.Errorf("note = %v", res.Data["note"])
	}
	if res.Data["n"] != float64(2) {
		t.Errorf("n = %v", res.Data["n"])
	}
}

func TestParseEscapedQuotesInsideStrings(t *testing.T) {
	raw := `Result: {"quote": "he said \"buy {now}\"", "ok": true} end`
	res := Parse(raw)
	if res.Mode != ModeExtracted {
		t.Fatalf("mode = %s, want extracted", res.Mode)
	}
	if res.Data["quote"] != `he said "buy {now}"` {
		t.Errorf("quote = %v", res.Data["quote"])
	}
}

func TestParseNestedObjects(t *testing.T) {
	raw := `prefix {"summary": {"totalIncome": 100, "nested": {"deep": true}}} suffix`
	res := Parse(raw)
	if res.Mode != ModeExtracted {
		t.Fatalf("mode = %s, want extracted", res.Mode)
	}
	summary, ok := res.Data["summary"].(map[string]any)
	if !ok {
		t.Fatalf("summary = %T, want object", res.Data["summary"])
	}
	if summary["totalIncome"] != float64(100) {
		t.Errorf("totalIncome = %v", summary["totalIncome"])
	}
}

func TestParseTopLevelArrayFallsBackToRaw(t *testing.T) {
	raw := `[{"healthScore": 72}]`
	res := Parse(raw)
	if res.Mode != ModeRaw {
		t.Fatalf("mode = %s, want raw", res.Mode)
	}
	if res.Data != nil {
		t.Error("no object data expected for a top-level array")
	}
	if res.Raw != raw {
		t.Error("raw text must be preserved")
	}
}

func TestParsePlainProse(t *testing.T) {
	raw := "I could not produce a structured analysis this time."
	res := Parse(raw)
	if res.Mode != ModeRaw {
		t.Fatalf("mode = %s, want raw", res.Mode)
	}
	if res.Raw != raw {
		t.Error("raw text must be preserved byte for byte")
	}
}

func TestParseTruncatedObject(t *testing.T) {
	raw := `{"healthScore": 72, "topCategories": [{"category": "Dining"`
	res := Parse(raw)
	if res.Mode != ModeRaw {
		t.Fatalf("mode = %s, want raw for unbalanced braces", res.Mode)
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "```json\n```"} {
		res := Parse(raw)
		if res.Mode != ModeRaw {
			t.Errorf("Parse(%q) mode = %s, want raw", raw, res.Mode)
		}
	}
}

func TestExtractObjectPicksFirstBalanced(t *testing.T) {
	text := `a {"first": 1} b {"second": 2}`
	got, ok := extractObject(text)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if got != `{"first": 1}` {
		t.Errorf("extracted %q, want the first object", got)
	}
}
