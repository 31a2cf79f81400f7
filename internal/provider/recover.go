package provider

import (
	"encoding/json"
	"strings"
)

// recoverJSON parses a JSON object from an LLM response, tolerating
// markdown code fences and surrounding prose. On total failure it returns
// an error-tagged object carrying a truncated copy of the raw response.
func recoverJSON(response string) map[string]any {
	// Direct parse first.
	if obj, ok := tryParse(response); ok {
		return obj
	}

	// JSON inside a ```json fence.
	if idx := strings.Index(response, "```json"); idx >= 0 {
		rest := response[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end > 0 {
			if obj, ok := tryParse(strings.TrimSpace(rest[:end])); ok {
				return obj
			}
		}
	}

	// Outermost braces in the response.
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		if obj, ok := tryParse(response[start : end+1]); ok {
			return obj
		}
	}

	return errObject("failed to parse JSON from response", response)
}

func tryParse(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	return obj, true
}
