// Package parse recovers JSON objects from LLM responses. Models are
// asked for bare JSON but reply with markdown fences, prose wrappers, or
// no JSON at all, so extraction is layered: strip fences, try a direct
// parse, then scan for a brace-balanced object.
package parse

import (
	"encoding/json"
	"strings"
)

// Mode records how the response was turned into JSON.
type Mode string

const (
	// ModeDirect means the cleaned response was a valid JSON object as-is.
	ModeDirect Mode = "direct"
	// ModeExtracted means an object was recovered from surrounding text.
	ModeExtracted Mode = "extracted"
	// ModeRaw means no JSON object could be recovered.
	ModeRaw Mode = "raw"
)

// Result is the outcome of parsing one response.
type Result struct {
	// Data holds the decoded object. Nil unless Mode is direct or
	// extracted.
	Data map[string]any
	// Raw is the original, unmodified response text.
	Raw string
	// Mode records which extraction tier succeeded.
	Mode Mode
}

// Parse recovers a JSON object from a model response. It never fails:
// when nothing can be recovered the result carries the original text
// with ModeRaw so callers can degrade to raw content.
func Parse(raw string) Result {
	cleaned := stripFences(raw)

	var direct any
	if err := json.Unmarshal([]byte(cleaned), &direct); err == nil {
		if obj, ok := direct.(map[string]any); ok {
			return Result{Data: obj, Raw: raw, Mode: ModeDirect}
		}
		// Valid JSON but not an object (array, string, number). There
		// are no fields to dispatch on, so treat it as unparseable.
		return Result{Raw: raw, Mode: ModeRaw}
	}

	if candidate, ok := extractObject(cleaned); ok {
		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
			return Result{Data: obj, Raw: raw, Mode: ModeExtracted}
		}
	}

	return Result{Raw: raw, Mode: ModeRaw}
}

// stripFences removes a wrapping markdown code fence. Half-fenced input
// (only an opening or only a closing fence) is handled too.
func stripFences(s string) string {
	out := strings.TrimSpace(s)
	if strings.HasPrefix(out, "```json") {
		out = strings.TrimPrefix(out, "```json")
	} else if strings.HasPrefix(out, "```") {
		out = strings.TrimPrefix(out, "```")
	}
	out = strings.TrimSpace(out)
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}

// extractObject returns the first brace-balanced candidate substring.
// String literals and escapes are tracked explicitly so braces inside
// strings do not affect nesting depth. No regex: quoted braces make
// pattern matching unsound here.
func extractObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escapeNext := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if escapeNext {
			escapeNext = false
			continue
		}

		switch ch {
		case '\\':
			if inString {
				escapeNext = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}

	return "", false
}
