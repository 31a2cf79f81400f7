// Package reviewer scores drafts against the persona and ranking-signal
// constraints, optionally producing revised text, and runs the
// deterministic suppression-risk check.
package reviewer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tweetdna/tweetdna/internal/persona"
	"github.com/tweetdna/tweetdna/internal/prompts"
	"github.com/tweetdna/tweetdna/internal/provider"
	"github.com/tweetdna/tweetdna/internal/storage"
)

// ErrNoPersona means review was requested before any persona exists.
var ErrNoPersona = errors.New("no persona found; build a profile first")

// Reviewer scores drafts via provider calls and persists the results.
type Reviewer struct {
	store    *storage.Store
	provider provider.Provider
	model    string
}

func New(store *storage.Store, p provider.Provider, model string) *Reviewer {
	return &Reviewer{store: store, provider: p, model: model}
}

// ReviewRecent reviews the lastN most recent drafts. With autoRefine the
// model is asked for revised text when alignment is low or suppression
// risk is high.
func (r *Reviewer) ReviewRecent(ctx context.Context, lastN int, autoRefine bool) ([]storage.Review, error) {
	p, err := r.requiredPersona()
	if err != nil {
		return nil, err
	}

	if lastN <= 0 {
		lastN = 10
	}
	drafts, err := r.store.RecentDrafts(lastN)
	if err != nil {
		return nil, fmt.Errorf("loading recent drafts: %w", err)
	}

	reviews := make([]storage.Review, 0, len(drafts))
	for _, d := range drafts {
		review, err := r.reviewOne(ctx, p, d, autoRefine)
		if err != nil {
			return reviews, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// ReviewDraft reviews a single draft by id.
func (r *Reviewer) ReviewDraft(ctx context.Context, draftID string, autoRefine bool) (storage.Review, error) {
	p, err := r.requiredPersona()
	if err != nil {
		return storage.Review{}, err
	}

	draft, err := r.store.DraftByID(draftID)
	if err != nil {
		return storage.Review{}, err
	}
	return r.reviewOne(ctx, p, draft, autoRefine)
}

func (r *Reviewer) requiredPersona() (persona.Persona, error) {
	p, err := r.store.LatestPersona()
	if errors.Is(err, storage.ErrNotFound) {
		return persona.Persona{}, ErrNoPersona
	}
	if err != nil {
		return persona.Persona{}, fmt.Errorf("loading persona: %w", err)
	}
	return p, nil
}

// reviewKind collapses draft kinds onto the three review criteria sets.
func reviewKind(kind string) string {
	switch kind {
	case storage.KindReply:
		return "reply"
	case storage.KindThreadOutline, storage.KindThreadDraft:
		return "thread"
	default:
		return "tweet"
	}
}

func (r *Reviewer) reviewOne(ctx context.Context, p persona.Persona, draft storage.Draft, autoRefine bool) (storage.Review, error) {
	prompt := prompts.Review(prompts.ReviewParams{
		Persona:    p,
		DraftText:  strings.Join(draft.Text, "\n"),
		DraftKind:  reviewKind(draft.Kind),
		AutoRefine: autoRefine,
	})

	result, err := r.provider.GenerateJSON(ctx, prompt, &provider.Schema{Type: "object"}, provider.JSONOptions{
		Model:       r.model,
		Temperature: 0.3,
	})
	if err != nil {
		return storage.Review{}, fmt.Errorf("review call: %w", err)
	}

	review := parseReviewResult(result, draft.ID)
	if err := r.store.SaveReview(review); err != nil {
		return storage.Review{}, fmt.Errorf("saving review: %w", err)
	}
	return review, nil
}

var riskCategories = map[string]bool{"low": true, "medium": true, "high": true}

// parseReviewResult maps a provider response onto a Review, defaulting
// malformed risk categories instead of rejecting the response.
func parseReviewResult(result map[string]any, draftID string) storage.Review {
	repetition := stringValue(result, "repetition_risk", "")
	if !riskCategories[repetition] {
		repetition = "low"
	}
	conversation := stringValue(result, "conversation_value", "")
	if !riskCategories[conversation] {
		conversation = "medium"
	}

	var conflicts []storage.PersonaConflict
	for _, raw := range listValue(result, "persona_algorithm_conflicts") {
		c, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		conflicts = append(conflicts, storage.PersonaConflict{
			PersonaRule:         stringValue(c, "persona_rule", ""),
			AlgorithmConstraint: stringValue(c, "algorithm_constraint", ""),
			Resolution:          stringValue(c, "resolution", ""),
		})
	}

	return storage.Review{
		ID:             uuid.NewString(),
		DraftID:        draftID,
		AlignmentScore: floatValue(result, "alignment_score", 0),
		Violations:     stringSliceValue(result, "violations"),
		Suggestions:    stringSliceValue(result, "suggestions"),
		RevisedText:    stringValue(result, "revised_text", ""),
		Algo: &storage.ReviewAlgo{
			AlignmentScore:    floatValue(result, "algorithm_alignment_score", 0),
			SuppressionScore:  floatValue(result, "suppression_risk_score", 0),
			RepetitionRisk:    repetition,
			ConversationValue: conversation,
			Issues:            stringSliceValue(result, "algorithm_issues"),
			Conflicts:         conflicts,
			RevisionReason:    stringValue(result, "revision_reason", ""),
		},
	}
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
