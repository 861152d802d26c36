package extraction

import (
	"encoding/json"
	"strings"
)

// parseCandidateJSON pulls the first top-level JSON object out of a model
// response and parses it into a Candidate. Surrounding commentary and
// markdown code fences are tolerated. Field coercion and defaulting belong
// to the normalizer, not here.
func parseCandidateJSON(text string) (*Candidate, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	obj, ok := firstJSONObject(text)
	if !ok {
		return nil, &FormatError{Reason: "no JSON object found in response"}
	}

	var c Candidate
	if err := json.Unmarshal([]byte(obj), &c); err != nil {
		return nil, &FormatError{Reason: "unmarshaling candidate: " + err.Error()}
	}

	return &c, nil
}

// firstJSONObject scans for the first brace-delimited object, tracking
// brace depth and skipping string literals so commentary after the object
// cannot confuse the boundary.
func firstJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
