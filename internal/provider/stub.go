package provider

import "strings"

// Stub responses keep the pipeline usable without credentials or a running
// local model: profiling yields a neutral persona, generation yields a
// single placeholder draft. A stub result has the same structure as a real
// one, so everything downstream still round-trips.

func stubJSON(prompt string) map[string]any {
	lower := strings.ToLower(prompt)

	// Dispatch on distinctive prompt phrasing; generation prompts carry the
	// persona JSON so a plain "persona" check would misroute them.
	if strings.Contains(lower, "extract a detailed persona profile") {
		return map[string]any{
			"display_name": "Stub Persona",
			"voice_rules": map[string]any{
				"sentence_length": "short",
				"hook_styles":     []any{"observation", "contrarian"},
				"humor_style":     []any{"dry"},
				"jargon_level":    "medium",
				"directness":      "high",
			},
			"tone": map[string]any{"spice_default": "medium", "safe_mode": true},
			"topics": []any{
				map[string]any{"name": "technology", "weight": 0.4},
				map[string]any{"name": "productivity", "weight": 0.3},
			},
			"formatting": map[string]any{
				"emoji_rate":        "low",
				"punctuation_style": "minimal",
				"line_breaks":       "rare",
			},
			"constraints": map[string]any{"no_slurs": true, "no_threats": true, "max_chars": 280},
			"examples": map[string]any{
				"signature_patterns": []any{"Short opener. Hard truth.", "One-liner with punch."},
			},
		}
	}

	if strings.Contains(lower, "review this draft") {
		return map[string]any{
			"alignment_score": 85.0,
			"violations":      []any{},
			"suggestions":     []any{"Consider adding more personality"},
		}
	}

	if strings.Contains(lower, "draft") || strings.Contains(lower, "generate") {
		return map[string]any{
			"drafts": []any{
				map[string]any{
					"text":       "Stub draft: your real content will appear here.",
					"tags":       []any{"stub"},
					"rationale":  "Placeholder draft; no provider configured.",
					"confidence": 0.8,
				},
			},
		}
	}

	return map[string]any{"status": "stub", "message": "configure a provider for real responses"}
}

func stubText() string {
	return "Stub response: no text-generation provider configured."
}
