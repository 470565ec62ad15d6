package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// Sanitize walks a decoded extraction payload and removes every claim
// whose evidence quote is not a literal substring of sourceText. The walk
// is keyed on node shape:
//
//   - arrays: elements are sanitized recursively; elements that collapse
//     to nil are dropped, so lists shrink silently instead of failing.
//   - evidence leaves (objects with quote, source and a page key): kept
//     only when the quote is a non-empty exact substring of sourceText.
//   - other objects: properties are sanitized; if the object carries an
//     "evidence" property that collapsed, the whole object collapses so
//     a value is never kept without its grounding.
//   - scalars and nil pass through unchanged.
//
// Running Sanitize on already-sanitized output is a no-op.
func Sanitize(node any, sourceText string) any {
	switch n := node.(type) {
	case []any:
		out := make([]any, 0, len(n))
		for _, item := range n {
			if v := Sanitize(item, sourceText); v != nil {
				out = append(out, v)
			}
		}
		return out

	case map[string]any:
		if isEvidenceShape(n) {
			if groundedQuote(n, sourceText) {
				return n
			}
			return nil
		}

		out := make(map[string]any, len(n))
		for k, v := range n {
			out[k] = Sanitize(v, sourceText)
		}
		if ev, ok := out["evidence"]; ok && ev == nil {
			return nil
		}
		return out

	default:
		return node
	}
}

// SanitizeJSON applies Sanitize to a raw payload and re-encodes it.
func SanitizeJSON(raw json.RawMessage, sourceText string) (json.RawMessage, error) {
	var node any
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, eris.Wrap(err, "sanitize: decode payload")
	}
	cleaned, err := json.Marshal(Sanitize(node, sourceText))
	if err != nil {
		return nil, eris.Wrap(err, "sanitize: encode payload")
	}
	return cleaned, nil
}

// isEvidenceShape detects the evidence leaf: string quote, string source,
// and a page key that may be null.
func isEvidenceShape(m map[string]any) bool {
	if _, ok := m["quote"].(string); !ok {
		return false
	}
	if _, ok := m["source"].(string); !ok {
		return false
	}
	_, hasPage := m["page"]
	return hasPage
}

// groundedQuote requires a non-empty, case-sensitive, exact substring.
func groundedQuote(ev map[string]any, sourceText string) bool {
	quote, _ := ev["quote"].(string)
	return quote != "" && strings.Contains(sourceText, quote)
}
