package persona

import (
	"strings"
	"testing"
)

func TestFromResultAppliesDefaults(t *testing.T) {
	p, err := FromResult(map[string]any{
		"display_name": "Test Account",
		"voice_rules":  map[string]any{"sentence_length": "short"},
	})
	if err != nil {
		t.Fatalf("FromResult: %v", err)
	}
	if p.DisplayName != "Test Account" {
		t.Errorf("display name = %q", p.DisplayName)
	}
	if p.VoiceRules.SentenceLength != "short" {
		t.Errorf("sentence length = %q, want short", p.VoiceRules.SentenceLength)
	}
	if p.VoiceRules.JargonLevel != "medium" {
		t.Errorf("jargon level = %q, want medium default", p.VoiceRules.JargonLevel)
	}
	if p.Constraints.MaxChars != 280 {
		t.Errorf("max chars = %d, want 280 default", p.Constraints.MaxChars)
	}
	if p.Formatting.EmojiRate != "low" {
		t.Errorf("emoji rate = %q, want low default", p.Formatting.EmojiRate)
	}
}

func TestFromResultRejectsErrorResponse(t *testing.T) {
	_, err := FromResult(map[string]any{"error": "model unavailable", "raw": "..."})
	if err == nil {
		t.Fatal("expected error for error-tagged response")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Errorf("error %q should carry the provider message", err)
	}
}

func TestFromResultRejectsBadTopicWeight(t *testing.T) {
	_, err := FromResult(map[string]any{
		"topics": []any{map[string]any{"name": "golang", "weight": 1.5}},
	})
	if err == nil {
		t.Fatal("expected error for weight outside [0,1]")
	}
	if !strings.Contains(err.Error(), "golang") {
		t.Errorf("error %q should name the topic", err)
	}
}

func TestFromResultKeepsValidTopics(t *testing.T) {
	p, err := FromResult(map[string]any{
		"topics": []any{
			map[string]any{"name": "golang", "weight": 0.6},
			map[string]any{"name": "startups", "weight": 0.4},
		},
	})
	if err != nil {
		t.Fatalf("FromResult: %v", err)
	}
	if len(p.Topics) != 2 || p.Topics[0].Weight != 0.6 {
		t.Errorf("topics = %+v", p.Topics)
	}
}

func TestPromptContextIsJSON(t *testing.T) {
	out := Default().PromptContext()
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"voice_rules"`) {
		t.Errorf("PromptContext output looks wrong: %s", out)
	}
}
