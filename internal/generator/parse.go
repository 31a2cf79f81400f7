package generator

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tweetdna/tweetdna/internal/storage"
)

// Provider responses are parsed permissively: malformed items degrade to
// defaults instead of failing the batch, and enum fields outside their
// category are dropped (tweets) or defaulted (replies).

var engagementCategories = map[string]bool{"reply": true, "like": true, "repost": true, "mixed": true}
var riskCategories = map[string]bool{"low": true, "medium": true, "high": true}

func parseTweetResult(result map[string]any, topic, spice string, personaVersion int) []storage.Draft {
	items := listValue(result, "drafts")
	drafts := make([]storage.Draft, 0, len(items))

	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		expected := stringValue(item, "expected_engagement", "")
		if !engagementCategories[expected] {
			expected = ""
		}
		risk := stringValue(item, "suppression_risk", "")
		if !riskCategories[risk] {
			risk = ""
		}

		drafts = append(drafts, storage.Draft{
			ID:             uuid.NewString(),
			Kind:           storage.KindTweet,
			Topic:          topic,
			Spice:          spice,
			PersonaVersion: personaVersion,
			Text:           []string{stringValue(item, "text", "")},
			Tags:           stringSliceValue(item, "tags"),
			Rationale:      stringValue(item, "rationale", ""),
			Confidence:     floatValue(item, "confidence", 0.8),
			Algo: &storage.AlgoMetadata{
				ExpectedEngagement: expected,
				SuppressionRisk:    risk,
				AlignmentNotes:     stringValue(item, "algorithm_alignment_notes", ""),
			},
		})
	}
	return drafts
}

func parseThreadResult(result map[string]any, topic, spice string, personaVersion int, fullDraft bool) []storage.Draft {
	items := listValue(result, "thread")
	drafts := make([]storage.Draft, 0, len(items))

	kind := storage.KindThreadOutline
	if fullDraft {
		kind = storage.KindThreadDraft
	}

	densityValidated := boolValue(result, "density_validated", true)
	hookStrength := stringValue(result, "hook_strength", "moderate")
	suppressionRisk := "low"
	if len(listValue(result, "suppression_risks")) > 0 {
		suppressionRisk = "medium"
	}
	rationale := stringValue(result, "rationale", "")

	for idx, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		purpose := stringValue(item, "purpose", "body")
		density := stringValue(item, "density_score", "medium")

		algo := &storage.AlgoMetadata{
			DensityValidated: densityValidated,
			UniqueValue:      stringValue(item, "unique_value", ""),
			SuppressionRisk:  suppressionRisk,
			AlignmentNotes:   fmt.Sprintf("Density: %s, Purpose: %s", density, purpose),
		}
		// Hook strength is a property of the opener alone.
		if idx == 0 {
			algo.HookStrength = hookStrength
		}

		drafts = append(drafts, storage.Draft{
			ID:             uuid.NewString(),
			Kind:           kind,
			Topic:          topic,
			Spice:          spice,
			PersonaVersion: personaVersion,
			Text:           []string{stringValue(item, "text", "")},
			Tags:           []string{purpose},
			Rationale:      rationale,
			Confidence:     0.8,
			Algo:           algo,
		})
	}
	return drafts
}

func parseReplyResult(result map[string]any, originalTweet, tone string, personaVersion int) []storage.Draft {
	items := listValue(result, "replies")
	drafts := make([]storage.Draft, 0, len(items))

	topic := "reply:" + truncate(originalTweet, 50) + "..."

	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		risk := stringValue(item, "suppression_risk", "low")
		if !riskCategories[risk] {
			risk = "low"
		}
		conversation := stringValue(item, "conversation_value", "medium")
		if !riskCategories[conversation] {
			conversation = "medium"
		}

		approach := stringValue(item, "approach", "react")
		intent := stringValue(item, "intent", "")
		if intent == "" {
			intent = approach
		}
		valueAdded := stringValue(item, "value_added", "")
		valueNote := "N/A"
		if valueAdded != "" {
			valueNote = truncate(valueAdded, 50)
		}

		drafts = append(drafts, storage.Draft{
			ID:             uuid.NewString(),
			Kind:           storage.KindReply,
			Topic:          topic,
			Spice:          "medium",
			PersonaVersion: personaVersion,
			Text:           []string{stringValue(item, "text", "")},
			Tags:           []string{approach},
			Rationale:      stringValue(item, "rationale", ""),
			Confidence:     floatValue(item, "confidence", 0.8),
			ReplyToText:    originalTweet,
			ReplyTone:      tone,
			Algo: &storage.AlgoMetadata{
				ReplyIntent:       intent,
				SuppressionRisk:   risk,
				ConversationValue: conversation,
				UniqueValue:       valueAdded,
				AlignmentNotes:    fmt.Sprintf("Intent: %s, Value: %s", intent, valueNote),
			},
		})
	}
	return drafts
}

// truncate shortens s to at most n characters, never splitting a rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func listValue(m map[string]any, key string) []any {
	v, _ := m[key].([]any)
	return v
}

func stringValue(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func stringSliceValue(m map[string]any, key string) []string {
	items := listValue(m, key)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func floatValue(m map[string]any, key string, fallback float64) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return fallback
}

func intValue(m map[string]any, key string, fallback int) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return fallback
}

func boolValue(m map[string]any, key string, fallback bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return fallback
}
