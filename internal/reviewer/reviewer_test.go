package reviewer

import (
	"context"
	"errors"
	"strings"
	"testing"

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

func seedDraft(t *testing.T, s *storage.Store, id, kind string) {
	t.Helper()
	version, err := s.SavePersona(persona.Default())
	if err != nil {
		t.Fatalf("SavePersona: %v", err)
	}
	if err := s.SaveDraft(storage.Draft{
		ID: id, Kind: kind, PersonaVersion: version,
		Text: []string{"shipped the parser rewrite, 40% faster on real inputs"},
	}); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
}

func TestReviewRecentNoPersona(t *testing.T) {
	s := openTestStore(t)
	r := New(s, &mockProvider{}, "test-model")

	if _, err := r.ReviewRecent(context.Background(), 5, false); !errors.Is(err, ErrNoPersona) {
		t.Errorf("err = %v, want ErrNoPersona", err)
	}
}

func TestReviewDraftPersists(t *testing.T) {
	s := openTestStore(t)
	mock := &mockProvider{result: map[string]any{
		"alignment_score": float64(72),
		"violations":      []any{"too polished"},
		"suggestions":     []any{"drop the adjective"},
	}}
	r := New(s, mock, "test-model")
	seedDraft(t, s, "draft-001", storage.KindTweet)

	review, err := r.ReviewDraft(context.Background(), "draft-001", false)
	if err != nil {
		t.Fatalf("ReviewDraft: %v", err)
	}
	if review.AlignmentScore != 72 {
		t.Errorf("alignment score = %v", review.AlignmentScore)
	}
	if mock.calls != 1 {
		t.Errorf("provider called %d times", mock.calls)
	}
	if !strings.Contains(mock.lastPrompt, "shipped the parser rewrite") {
		t.Error("prompt should contain the draft text")
	}

	stored, err := s.ReviewsForDraft("draft-001")
	if err != nil {
		t.Fatalf("ReviewsForDraft: %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("got %d stored reviews, want 1", len(stored))
	}
}

func TestReviewKind(t *testing.T) {
	cases := map[string]string{
		storage.KindTweet:         "tweet",
		storage.KindReply:         "reply",
		storage.KindThreadDraft:   "thread",
		storage.KindThreadOutline: "thread",
	}
	for kind, want := range cases {
		if got := reviewKind(kind); got != want {
			t.Errorf("reviewKind(%q) = %q, want %q", kind, got, want)
		}
	}
}

func TestParseReviewResultDefaults(t *testing.T) {
	review := parseReviewResult(map[string]any{
		"alignment_score": float64(80),
		"repetition_risk": "catastrophic",
	}, "d1")

	if review.DraftID != "d1" {
		t.Errorf("draft id = %q", review.DraftID)
	}
	if review.Algo.RepetitionRisk != "low" {
		t.Errorf("repetition risk = %q, want low for unknown category", review.Algo.RepetitionRisk)
	}
	if review.Algo.ConversationValue != "medium" {
		t.Errorf("conversation value = %q, want medium default", review.Algo.ConversationValue)
	}
}

func TestParseReviewResultConflicts(t *testing.T) {
	review := parseReviewResult(map[string]any{
		"alignment_score":           float64(65),
		"algorithm_alignment_score": float64(40),
		"persona_algorithm_conflicts": []any{
			map[string]any{
				"persona_rule":         "ends tweets with a question",
				"algorithm_constraint": "trailing questions read as reply bait",
				"resolution":           "turn the question into a statement",
			},
			"malformed entry",
		},
		"revised_text":    "statement version here",
		"revision_reason": "suppression risk",
	}, "d1")

	if len(review.Algo.Conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(review.Algo.Conflicts))
	}
	c := review.Algo.Conflicts[0]
	if c.PersonaRule == "" || c.AlgorithmConstraint == "" || c.Resolution == "" {
		t.Errorf("conflict fields incomplete: %+v", c)
	}
	if review.RevisedText != "statement version here" {
		t.Errorf("revised text = %q", review.RevisedText)
	}
	if review.Algo.AlignmentScore != 40 {
		t.Errorf("algorithm alignment = %v", review.Algo.AlignmentScore)
	}
}

func TestCheckSuppressionClean(t *testing.T) {
	check := CheckSuppression("shipped the new parser today. 40% faster on real inputs.")
	if check.RiskLevel != "low" {
		t.Errorf("risk = %q, want low: %v", check.RiskLevel, check.PatternsFound)
	}
	if check.Recommendation != "ok" {
		t.Errorf("recommendation = %q, want ok", check.Recommendation)
	}
	if len(check.PatternsFound) != 0 {
		t.Errorf("patterns = %v, want none", check.PatternsFound)
	}
}

func TestCheckSuppressionSingleTrailingQuestion(t *testing.T) {
	check := CheckSuppression("did the benchmark surprise anyone besides me?")
	if check.RiskLevel != "medium" {
		t.Errorf("risk = %q, want medium: %v", check.RiskLevel, check.PatternsFound)
	}
	if check.Recommendation != "review" {
		t.Errorf("recommendation = %q, want review", check.Recommendation)
	}
}

// Trailing whitespace of any kind must not hide a final question mark.
func TestCheckSuppressionQuestionBeforeTrailingWhitespace(t *testing.T) {
	check := CheckSuppression("worth a benchmark?\r\n")
	has := false
	for _, p := range check.PatternsFound {
		if p == "ends_with_question" {
			has = true
		}
	}
	if !has {
		t.Errorf("patterns = %v, want ends_with_question", check.PatternsFound)
	}
	if check.RiskLevel != "medium" {
		t.Errorf("risk = %q, want medium", check.RiskLevel)
	}
}

func TestCheckSuppressionStackedQuestions(t *testing.T) {
	check := CheckSuppression("this is cool, what do you think? also, right?")
	if check.RiskLevel != "high" {
		t.Errorf("risk = %q, want high: %v", check.RiskLevel, check.PatternsFound)
	}
	has := func(tag string) bool {
		for _, p := range check.PatternsFound {
			if p == tag {
				return true
			}
		}
		return false
	}
	if !has("question_pattern:what do you think") || !has("question_pattern:right?") {
		t.Errorf("question patterns missing: %v", check.PatternsFound)
	}
	if !has("ends_with_question") || !has("multiple_questions:2") {
		t.Errorf("question structure tags missing: %v", check.PatternsFound)
	}
}

func TestCheckSuppressionEngagementBait(t *testing.T) {
	check := CheckSuppression("like if you agree with this take")
	if check.RiskLevel != "medium" {
		t.Errorf("risk = %q, want medium", check.RiskLevel)
	}
	if len(check.PatternsFound) != 1 || check.PatternsFound[0] != "engagement_bait:like if" {
		t.Errorf("patterns = %v", check.PatternsFound)
	}
}

func TestCheckSuppressionLowEffort(t *testing.T) {
	for _, text := range []string{"This", "facts", "💯"} {
		check := CheckSuppression(text)
		if check.RiskLevel != "medium" {
			t.Errorf("CheckSuppression(%q) risk = %q, want medium", text, check.RiskLevel)
		}
	}
}

func TestCheckSuppressionExcessiveHashtags(t *testing.T) {
	check := CheckSuppression("launch day #go #sqlite #indiedev #buildinpublic")
	has := false
	for _, p := range check.PatternsFound {
		if p == "excessive_hashtags:4" {
			has = true
		}
	}
	if !has {
		t.Errorf("patterns = %v, want excessive_hashtags:4", check.PatternsFound)
	}
	if check.RiskLevel != "medium" {
		t.Errorf("risk = %q, want medium", check.RiskLevel)
	}
}

func TestCheckSuppressionOpinionLabelOpener(t *testing.T) {
	check := CheckSuppression("hot take: tabs were never the problem")
	if check.RiskLevel != "medium" {
		t.Errorf("risk = %q, want medium: %v", check.RiskLevel, check.PatternsFound)
	}

	// Same phrase past the opening window doesn't count.
	deep := CheckSuppression("after a decade of writing build tooling at three companies, hot take included free: make is fine")
	if deep.RiskLevel != "low" {
		t.Errorf("risk = %q, want low for a late phrase: %v", deep.RiskLevel, deep.PatternsFound)
	}
}

func TestCheckSuppressionStackedNonQuestionTags(t *testing.T) {
	check := CheckSuppression("like if you agree #a #b #c #d cc @x @y @z @w")
	if check.RiskLevel != "high" {
		t.Errorf("risk = %q, want high for 3 stacked tags: %v", check.RiskLevel, check.PatternsFound)
	}
	if check.Recommendation != "review" {
		t.Errorf("recommendation = %q, want review", check.Recommendation)
	}
}
