package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Draft kinds.
const (
	KindTweet         = "tweet"
	KindThreadOutline = "thread_outline"
	KindThreadDraft   = "thread_draft"
	KindReply         = "reply"
)

// Tweet is one imported source record. Rows are created only by the import
// path and never mutated or deleted afterwards.
type Tweet struct {
	TweetID   string
	CreatedAt string // ISO-8601 as exported; kept verbatim for ordering
	Text      string
	URL       string
	Source    string
	Lang      string
	Metrics   map[string]any // nil when the export carried no metrics
	Raw       map[string]any // original payload, preserved as-is
}

// AlgoMetadata is the optional algorithm-alignment bundle attached to a draft.
type AlgoMetadata struct {
	ExpectedEngagement string `json:"expected_engagement,omitempty"` // reply|like|repost|mixed
	SuppressionRisk    string `json:"suppression_risk,omitempty"`    // low|medium|high
	AlignmentNotes     string `json:"alignment_notes,omitempty"`
	ConversationValue  string `json:"conversation_value,omitempty"` // low|medium|high
	HookStrength       string `json:"hook_strength,omitempty"`      // first thread item only
	DensityValidated   bool   `json:"density_validated,omitempty"`
	UniqueValue        string `json:"unique_value,omitempty"`
	ReplyIntent        string `json:"reply_intent,omitempty"`
}

// Draft is one generated unit: a tweet, one thread item, or a reply.
// Text always holds at least one element; length 1 means "render as scalar".
type Draft struct {
	ID             string        `json:"id"`
	Kind           string        `json:"kind"`
	Topic          string        `json:"topic"`
	Spice          string        `json:"spice"`
	PersonaVersion int           `json:"persona_version"`
	Text           []string      `json:"text"`
	Tags           []string      `json:"tags,omitempty"`
	Rationale      string        `json:"rationale,omitempty"`
	Confidence     float64       `json:"confidence"`
	ReplyToText    string        `json:"reply_to_text,omitempty"`
	ReplyTone      string        `json:"reply_tone,omitempty"`
	Algo           *AlgoMetadata `json:"algo,omitempty"`
	Provider       string        `json:"provider,omitempty"`
	Model          string        `json:"model,omitempty"`
	PromptHash     string        `json:"prompt_hash,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// PersonaConflict records a persona rule that an algorithm constraint overrode.
type PersonaConflict struct {
	PersonaRule         string `json:"persona_rule"`
	AlgorithmConstraint string `json:"algorithm_constraint"`
	Resolution          string `json:"resolution"`
}

// ReviewAlgo is the optional algorithm-alignment bundle on a review.
type ReviewAlgo struct {
	AlignmentScore    float64           `json:"algorithm_alignment_score,omitempty"`
	SuppressionScore  float64           `json:"suppression_risk_score,omitempty"`
	RepetitionRisk    string            `json:"repetition_risk,omitempty"`
	ConversationValue string            `json:"conversation_value,omitempty"`
	Issues            []string          `json:"algorithm_issues,omitempty"`
	Conflicts         []PersonaConflict `json:"persona_algorithm_conflicts,omitempty"`
	RevisionReason    string            `json:"revision_reason,omitempty"`
}

// Review is the append-only outcome of scoring a draft.
type Review struct {
	ID             string      `json:"id"`
	DraftID        string      `json:"draft_id"`
	AlignmentScore float64     `json:"alignment_score"`
	Violations     []string    `json:"violations,omitempty"`
	Suggestions    []string    `json:"suggestions,omitempty"`
	RevisedText    string      `json:"revised_text,omitempty"`
	Algo           *ReviewAlgo `json:"algo,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}
