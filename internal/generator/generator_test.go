package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tweetdna/tweetdna/internal/persona"
	"github.com/tweetdna/tweetdna/internal/provider"
	"github.com/tweetdna/tweetdna/internal/storage"
)

type mockProvider struct {
	calls      int
	lastPrompt string
	result     map[string]any
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) GenerateText(ctx context.Context, prompt string, opts provider.TextOptions) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockProvider) GenerateJSON(ctx context.Context, prompt string, schema *provider.Schema, opts provider.JSONOptions) (map[string]any, error) {
	m.calls++
	m.lastPrompt = prompt
	return m.result, nil
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedPersona(t *testing.T, s *storage.Store) {
	t.Helper()
	if _, err := s.SavePersona(persona.Default()); err != nil {
		t.Fatalf("SavePersona: %v", err)
	}
}

func draftItem(text string) map[string]any {
	return map[string]any{
		"text":                      text,
		"tags":                      []any{"observation"},
		"rationale":                 "fits voice",
		"confidence":                0.9,
		"expected_engagement":       "reply",
		"suppression_risk":          "low",
		"algorithm_alignment_notes": "reply-bait free",
	}
}

func TestGenerateTweetsNoPersona(t *testing.T) {
	s := openTestStore(t)
	g := New(s, &mockProvider{}, "test-model")

	if _, err := g.GenerateTweets(context.Background(), TweetOptions{Topic: "go"}); !errors.Is(err, ErrNoPersona) {
		t.Errorf("err = %v, want ErrNoPersona", err)
	}
}

func TestGenerateTweetsPersists(t *testing.T) {
	s := openTestStore(t)
	mock := &mockProvider{result: map[string]any{
		"drafts": []any{draftItem("first take"), draftItem("second take")},
	}}
	g := New(s, mock, "test-model")
	seedPersona(t, s)

	drafts, err := g.GenerateTweets(context.Background(), TweetOptions{Topic: "go generics"})
	if err != nil {
		t.Fatalf("GenerateTweets: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}

	stored, err := s.DraftByID(drafts[0].ID)
	if err != nil {
		t.Fatalf("DraftByID: %v", err)
	}
	if stored.Provider != "mock" || stored.Model != "test-model" {
		t.Errorf("provenance = %s/%s", stored.Provider, stored.Model)
	}
	if len(stored.PromptHash) != 12 {
		t.Errorf("prompt hash %q length = %d, want 12", stored.PromptHash, len(stored.PromptHash))
	}
	if stored.Algo == nil || stored.Algo.ExpectedEngagement != "reply" {
		t.Errorf("algo metadata = %+v", stored.Algo)
	}
}

// TestParseTweetResultClampsCategories verifies that out-of-category enum
// values are dropped rather than stored.
func TestParseTweetResultClampsCategories(t *testing.T) {
	item := draftItem("text")
	item["expected_engagement"] = "viral"
	item["suppression_risk"] = "extreme"
	delete(item, "confidence")

	drafts := parseTweetResult(map[string]any{"drafts": []any{item}}, "topic", "medium", 1)
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts", len(drafts))
	}
	if drafts[0].Algo.ExpectedEngagement != "" {
		t.Errorf("expected_engagement = %q, want dropped", drafts[0].Algo.ExpectedEngagement)
	}
	if drafts[0].Algo.SuppressionRisk != "" {
		t.Errorf("suppression_risk = %q, want dropped", drafts[0].Algo.SuppressionRisk)
	}
	if drafts[0].Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8 default", drafts[0].Confidence)
	}
}

func TestParseTweetResultSkipsMalformedItems(t *testing.T) {
	drafts := parseTweetResult(map[string]any{
		"drafts": []any{"just a string", draftItem("real one")},
	}, "topic", "low", 1)
	if len(drafts) != 1 || drafts[0].Text[0] != "real one" {
		t.Errorf("drafts = %+v, want only the well-formed item", drafts)
	}
}

func threadResult(n int, extra map[string]any) map[string]any {
	items := make([]any, n)
	for i := range items {
		items[i] = map[string]any{
			"text":          fmt.Sprintf("tweet %d", i+1),
			"purpose":       "body",
			"density_score": "high",
			"unique_value":  "a concrete number",
		}
	}
	result := map[string]any{
		"thread":        items,
		"hook_strength": "strong",
		"rationale":     "builds an argument",
	}
	for k, v := range extra {
		result[k] = v
	}
	return result
}

func TestGenerateThreadTruncatesToRecommendedCount(t *testing.T) {
	s := openTestStore(t)
	mock := &mockProvider{result: threadResult(8, map[string]any{
		"recommended_tweet_count": float64(5),
	})}
	g := New(s, mock, "test-model")
	seedPersona(t, s)

	drafts, err := g.GenerateThread(context.Background(), ThreadOptions{Topic: "scaling", TweetCount: 8, FullDraft: true})
	if err != nil {
		t.Fatalf("GenerateThread: %v", err)
	}
	if len(drafts) != 5 {
		t.Errorf("got %d drafts, want 5 after density trim", len(drafts))
	}
}

// TestGenerateThreadInvalidRecommendedCount verifies that a malformed
// recommended count degrades instead of crashing: negative clamps to an
// empty thread, too-large leaves the thread untouched.
func TestGenerateThreadInvalidRecommendedCount(t *testing.T) {
	s := openTestStore(t)
	mock := &mockProvider{result: threadResult(2, map[string]any{
		"recommended_tweet_count": float64(-1),
	})}
	g := New(s, mock, "test-model")
	seedPersona(t, s)

	drafts, err := g.GenerateThread(context.Background(), ThreadOptions{Topic: "scaling", TweetCount: 2, FullDraft: true})
	if err != nil {
		t.Fatalf("GenerateThread: %v", err)
	}
	if len(drafts) != 0 {
		t.Errorf("got %d drafts, want 0 for negative recommended count", len(drafts))
	}

	mock.result = threadResult(2, map[string]any{
		"recommended_tweet_count": float64(10),
	})
	drafts, err = g.GenerateThread(context.Background(), ThreadOptions{Topic: "scaling", TweetCount: 2, FullDraft: true})
	if err != nil {
		t.Fatalf("GenerateThread: %v", err)
	}
	if len(drafts) != 2 {
		t.Errorf("got %d drafts, want 2 when recommended exceeds the thread", len(drafts))
	}
}

func TestParseThreadResultHookAndKind(t *testing.T) {
	drafts := parseThreadResult(threadResult(3, nil), "topic", "low", 1, true)
	if len(drafts) != 3 {
		t.Fatalf("got %d drafts", len(drafts))
	}
	if drafts[0].Kind != storage.KindThreadDraft {
		t.Errorf("kind = %q, want thread_draft for full draft", drafts[0].Kind)
	}
	if drafts[0].Algo.HookStrength != "strong" {
		t.Errorf("opener hook strength = %q, want strong", drafts[0].Algo.HookStrength)
	}
	for i, d := range drafts[1:] {
		if d.Algo.HookStrength != "" {
			t.Errorf("draft %d has hook strength %q, want empty", i+1, d.Algo.HookStrength)
		}
	}
	if drafts[1].Algo.AlignmentNotes != "Density: high, Purpose: body" {
		t.Errorf("alignment notes = %q", drafts[1].Algo.AlignmentNotes)
	}

	outline := parseThreadResult(threadResult(2, nil), "topic", "low", 1, false)
	if outline[0].Kind != storage.KindThreadOutline {
		t.Errorf("kind = %q, want thread_outline", outline[0].Kind)
	}
}

func TestParseThreadResultSuppressionFromRisks(t *testing.T) {
	clean := parseThreadResult(threadResult(1, nil), "t", "low", 1, true)
	if clean[0].Algo.SuppressionRisk != "low" {
		t.Errorf("risk = %q, want low without flagged risks", clean[0].Algo.SuppressionRisk)
	}

	flagged := parseThreadResult(threadResult(1, map[string]any{
		"suppression_risks": []any{"ends with engagement bait"},
	}), "t", "low", 1, true)
	if flagged[0].Algo.SuppressionRisk != "medium" {
		t.Errorf("risk = %q, want medium with flagged risks", flagged[0].Algo.SuppressionRisk)
	}
}

func TestParseReplyResultDefaults(t *testing.T) {
	original := "Hot take: most engineering blogs are just marketing for the author, not the reader at all"
	result := map[string]any{
		"replies": []any{map[string]any{
			"text":     "counterpoint: the good ones teach anyway",
			"approach": "challenge",
		}},
	}

	drafts := parseReplyResult(result, original, "spicy", 3)
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts", len(drafts))
	}
	d := drafts[0]
	if d.Kind != storage.KindReply {
		t.Errorf("kind = %q", d.Kind)
	}
	wantTopic := "reply:" + original[:50] + "..."
	if d.Topic != wantTopic {
		t.Errorf("topic = %q, want %q", d.Topic, wantTopic)
	}
	if d.ReplyToText != original || d.ReplyTone != "spicy" {
		t.Errorf("reply fields = %q/%q", d.ReplyToText, d.ReplyTone)
	}
	if d.Algo.ReplyIntent != "challenge" {
		t.Errorf("intent = %q, want approach fallback", d.Algo.ReplyIntent)
	}
	if d.Algo.SuppressionRisk != "low" || d.Algo.ConversationValue != "medium" {
		t.Errorf("algo defaults = %q/%q", d.Algo.SuppressionRisk, d.Algo.ConversationValue)
	}
	if d.Algo.AlignmentNotes != "Intent: challenge, Value: N/A" {
		t.Errorf("alignment notes = %q", d.Algo.AlignmentNotes)
	}
}

func TestParseReplyResultExplicitIntent(t *testing.T) {
	result := map[string]any{
		"replies": []any{map[string]any{
			"text":        "here's the number that changed my mind",
			"approach":    "add_value",
			"intent":      "inform",
			"value_added": "a concrete benchmark from production",
		}},
	}
	drafts := parseReplyResult(result, "orig", "neutral", 1)
	if drafts[0].Algo.ReplyIntent != "inform" {
		t.Errorf("intent = %q, want explicit intent over approach", drafts[0].Algo.ReplyIntent)
	}
	if drafts[0].Algo.AlignmentNotes != "Intent: inform, Value: a concrete benchmark from production" {
		t.Errorf("alignment notes = %q", drafts[0].Algo.AlignmentNotes)
	}
}

func TestTruncateRuneBoundary(t *testing.T) {
	long := strings.Repeat("語", 60)
	got := truncate(long, 50)
	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 50 {
		t.Errorf("truncated to %d runes, want 50", utf8.RuneCountInString(got))
	}

	if got := truncate("héllo", 50); got != "héllo" {
		t.Errorf("short string changed: %q", got)
	}
}

// Reply topics built from multibyte originals must stay valid UTF-8.
func TestParseReplyResultMultibyteTopic(t *testing.T) {
	original := strings.Repeat("日本語の投稿", 15)
	result := map[string]any{
		"replies": []any{map[string]any{"text": "reply text"}},
	}

	drafts := parseReplyResult(result, original, "neutral", 1)
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts", len(drafts))
	}
	if !utf8.ValidString(drafts[0].Topic) {
		t.Errorf("topic is not valid UTF-8: %q", drafts[0].Topic)
	}
}

func TestRetrieveExamples(t *testing.T) {
	s := openTestStore(t)
	g := New(s, &mockProvider{}, "test-model")

	texts := []string{
		"shipping go services with sqlite is underrated",
		"go generics finally make sense to me",
		"coffee is the real dependency manager",
		"sqlite in production, fight me",
		"go go go", // repeated word still counts as one overlap
	}
	for i, text := range texts {
		tw := storage.Tweet{
			TweetID:   fmt.Sprintf("tw-%d", i),
			CreatedAt: fmt.Sprintf("2024-01-0%dT10:00:00Z", i+1),
			Text:      text,
		}
		if _, err := s.InsertTweet(tw); err != nil {
			t.Fatalf("InsertTweet: %v", err)
		}
	}

	examples, err := g.retrieveExamples("go sqlite services", 5)
	if err != nil {
		t.Fatalf("retrieveExamples: %v", err)
	}
	if len(examples) != 4 {
		t.Fatalf("got %d examples, want 4 (coffee tweet has zero overlap): %v", len(examples), examples)
	}
	// Three overlapping words beats everything else.
	if examples[0] != texts[0] {
		t.Errorf("top example = %q, want the three-word overlap", examples[0])
	}
	for _, ex := range examples {
		if ex == texts[2] {
			t.Error("zero-overlap tweet retrieved")
		}
	}
}

func TestRetrieveExamplesLimit(t *testing.T) {
	s := openTestStore(t)
	g := New(s, &mockProvider{}, "test-model")

	for i := 0; i < 10; i++ {
		tw := storage.Tweet{
			TweetID:   fmt.Sprintf("tw-%d", i),
			CreatedAt: fmt.Sprintf("2024-01-%02dT10:00:00Z", i+1),
			Text:      fmt.Sprintf("thoughts about golang number %d", i),
		}
		if _, err := s.InsertTweet(tw); err != nil {
			t.Fatalf("InsertTweet: %v", err)
		}
	}

	examples, err := g.retrieveExamples("golang thoughts", 5)
	if err != nil {
		t.Fatalf("retrieveExamples: %v", err)
	}
	if len(examples) != 5 {
		t.Errorf("got %d examples, want capped at 5", len(examples))
	}
}

func TestPromptHashStable(t *testing.T) {
	a := promptHash("same prompt")
	b := promptHash("same prompt")
	c := promptHash("different prompt")
	if a != b {
		t.Error("hash not deterministic")
	}
	if a == c {
		t.Error("different prompts hashed identically")
	}
	if len(a) != 12 {
		t.Errorf("hash length = %d, want 12", len(a))
	}
}
