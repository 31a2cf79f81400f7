package reviewer

import (
	"fmt"
	"strings"
	"unicode"
)

// SuppressionCheck is the outcome of the deterministic risk classifier.
type SuppressionCheck struct {
	RiskLevel      string   `json:"risk_level"` // low|medium|high
	PatternsFound  []string `json:"patterns_found"`
	Recommendation string   `json:"recommendation"` // ok|review
}

// Pattern tables mirror the suppression filters observable in the public
// ranking pipeline. Matching is plain substring search over lowercased,
// trimmed text.
var engagementBaitPatterns = []string{
	"like if", "rt if", "retweet if", "follow for follow",
	"f4f", "like for like", "l4l", "follow back",
}

var questionPatterns = []string{
	"what do you think",
	"anyone else",
	"am i the only one",
	"thoughts?",
	"agree or disagree",
	"right?",
	"don't you think",
	"isn't it",
	"wouldn't you",
	"who else",
}

// Opinion-labeling openers only count near the start of the text.
var opinionLabelPatterns = []string{
	"unpopular opinion",
	"hot take",
	"controversial take",
	"just saying",
	"hear me out",
	"most people miss this",
	"most people don't realize",
	"most people won't tell you",
	"most people forget",
	"most people overlook",
	"i'll probably get hate for this",
	"not sure if this is controversial",
	"this might be a hot take",
	"everyone's wrong about",
}

var lowEffortContent = map[string]bool{
	"this": true, "same": true, "facts": true, "real": true,
	"💯": true, "🔥": true, "👍": true,
}

// CheckSuppression classifies a text's suppression risk without any LLM
// call. Question patterns dominate the risk resolution: any question tag
// is at least medium, and combining it with anything else is high.
func CheckSuppression(text string) SuppressionCheck {
	var found []string
	lower := strings.TrimSpace(strings.ToLower(text))

	for _, pattern := range engagementBaitPatterns {
		if strings.Contains(lower, pattern) {
			found = append(found, "engagement_bait:"+pattern)
		}
	}

	for _, pattern := range questionPatterns {
		if strings.Contains(lower, pattern) {
			found = append(found, "question_pattern:"+pattern)
		}
	}

	head := lower
	if len(head) > 50 {
		head = head[:50]
	}
	for _, pattern := range opinionLabelPatterns {
		if strings.HasPrefix(lower, pattern) || strings.Contains(head, " "+pattern) {
			found = append(found, "opinion_label:"+pattern)
		}
	}

	if strings.HasSuffix(strings.TrimRightFunc(text, unicode.IsSpace), "?") {
		found = append(found, "ends_with_question")
	}

	if n := strings.Count(text, "?"); n > 1 {
		found = append(found, fmt.Sprintf("multiple_questions:%d", n))
	}
	if n := strings.Count(text, "#"); n > 3 {
		found = append(found, fmt.Sprintf("excessive_hashtags:%d", n))
	}
	if n := strings.Count(text, "@"); n > 3 {
		found = append(found, fmt.Sprintf("excessive_mentions:%d", n))
	}

	if lowEffortContent[lower] || lowEffortContent[strings.TrimSpace(text)] {
		found = append(found, "low_effort_content")
	}

	questionTags := 0
	otherTags := 0
	for _, tag := range found {
		if strings.Contains(tag, "question") {
			questionTags++
		} else {
			otherTags++
		}
	}

	var risk string
	switch {
	case questionTags > 0 && (questionTags > 1 || otherTags > 0):
		risk = "high"
	case questionTags > 0:
		risk = "medium"
	case otherTags == 0:
		risk = "low"
	case otherTags <= 2:
		risk = "medium"
	default:
		risk = "high"
	}

	recommendation := "ok"
	if risk != "low" {
		recommendation = "review"
	}

	return SuppressionCheck{
		RiskLevel:      risk,
		PatternsFound:  found,
		Recommendation: recommendation,
	}
}
