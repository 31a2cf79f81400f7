package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tweetdna/tweetdna/internal/persona"
)

func TestProfileCapsSamples(t *testing.T) {
	texts := make([]string, 450)
	for i := range texts {
		texts[i] = fmt.Sprintf("tweet %d", i)
	}

	prompt := Profile(texts, "", "")
	if strings.Contains(prompt, "tweet 400") {
		t.Error("prompt should carry at most 400 tweet samples")
	}
	if !strings.Contains(prompt, "tweet 399") {
		t.Error("prompt should carry the 400th sample")
	}
}

func TestProfileAccountContext(t *testing.T) {
	prompt := Profile([]string{"hello"}, "builds compilers", "my pinned take")
	if !strings.Contains(prompt, "Bio: builds compilers") {
		t.Error("bio missing from prompt")
	}
	if !strings.Contains(prompt, "Pinned tweet: my pinned take") {
		t.Error("pinned tweet missing from prompt")
	}

	bare := Profile([]string{"hello"}, "", "")
	if strings.Contains(bare, "Bio:") || strings.Contains(bare, "Pinned tweet:") {
		t.Error("empty context should not leave labels behind")
	}
}

func TestTweetsPromptShape(t *testing.T) {
	prompt := Tweets(TweetParams{
		Persona:          persona.Default(),
		Topic:            "sqlite in production",
		Count:            3,
		Spice:            "medium",
		MaxChars:         280,
		TargetEngagement: "reply",
	})

	if !strings.Contains(prompt, "Generate 3 tweet drafts") {
		t.Error("count missing")
	}
	if !strings.Contains(prompt, "TOPIC: sqlite in production") {
		t.Error("topic missing")
	}
	if !strings.Contains(prompt, "Optimize for REPLIES") {
		t.Error("engagement guidance missing")
	}
	if !strings.Contains(prompt, "MAX CHARACTERS: 280") {
		t.Error("char constraint missing")
	}
	if strings.Contains(prompt, "REFERENCE EXAMPLES") {
		t.Error("examples block should be absent without examples")
	}
}

func TestTweetsPromptExamplesCapped(t *testing.T) {
	examples := make([]string, 8)
	for i := range examples {
		examples[i] = fmt.Sprintf("example %d", i)
	}

	prompt := Tweets(TweetParams{
		Persona:  persona.Default(),
		Topic:    "t",
		Count:    1,
		MaxChars: 280,
		Examples: examples,
	})
	if !strings.Contains(prompt, "REFERENCE EXAMPLES") {
		t.Fatal("examples block missing")
	}
	if strings.Contains(prompt, "example 5") {
		t.Error("more than five examples included")
	}
}

func TestTweetsPromptMinChars(t *testing.T) {
	prompt := Tweets(TweetParams{
		Persona:  persona.Default(),
		Topic:    "t",
		Count:    1,
		MinChars: 100,
		MaxChars: 280,
	})
	if !strings.Contains(prompt, "CHARACTER RANGE: 100-280") {
		t.Error("min chars should switch to a range constraint")
	}
}

func TestTweetsPromptUnknownEngagement(t *testing.T) {
	prompt := Tweets(TweetParams{
		Persona:          persona.Default(),
		Topic:            "t",
		Count:            1,
		MaxChars:         280,
		TargetEngagement: "virality",
	})
	if !strings.Contains(prompt, "Balanced engagement") {
		t.Error("unknown engagement target should fall back to mixed")
	}
}

func TestThreadPromptDraftVsOutline(t *testing.T) {
	base := ThreadParams{
		Persona:    persona.Default(),
		Topic:      "scaling sqlite",
		TweetCount: 6,
		MaxChars:   280,
	}

	base.FullDraft = true
	full := Thread(base)
	if !strings.Contains(full, "Generate 6 connected tweets") {
		t.Error("full draft instruction missing")
	}

	base.FullDraft = false
	outline := Thread(base)
	if !strings.Contains(outline, "6-part thread outline") {
		t.Error("outline instruction missing")
	}

	for _, prompt := range []string{full, outline} {
		if !strings.Contains(prompt, "DENSITY CHECK") {
			t.Error("density check missing")
		}
		if !strings.Contains(prompt, `"recommended_tweet_count": 6`) {
			t.Error("recommended count slot missing")
		}
	}
}

func TestRepliesPromptToneFallback(t *testing.T) {
	params := ReplyParams{
		Persona:       persona.Default(),
		OriginalTweet: "original take here",
		Tone:          "interpretive_dance",
		Count:         2,
		MaxChars:      280,
	}
	prompt := Replies(params)
	if !strings.Contains(prompt, replyToneDescriptions["neutral"]) {
		t.Error("unknown tone should fall back to neutral description")
	}
	if !strings.Contains(prompt, `"original take here"`) {
		t.Error("original tweet missing")
	}
	if strings.Contains(prompt, "REPLY INTENT") {
		t.Error("intent block should be absent without an intent")
	}

	params.Intent = "disagree_reason"
	withIntent := Replies(params)
	if !strings.Contains(withIntent, "REPLY INTENT: disagree_reason") {
		t.Error("intent block missing")
	}
}

func TestReviewPromptRefineAndKind(t *testing.T) {
	params := ReviewParams{
		Persona:   persona.Default(),
		DraftText: "the draft",
		DraftKind: "reply",
	}

	plain := Review(params)
	if strings.Contains(plain, "provide a revised version") {
		t.Error("refine instruction present without auto-refine")
	}
	if !strings.Contains(plain, "REPLY-SPECIFIC CHECKS") {
		t.Error("reply criteria missing")
	}

	params.AutoRefine = true
	refined := Review(params)
	if !strings.Contains(refined, "provide a revised version") {
		t.Error("refine instruction missing with auto-refine")
	}

	params.DraftKind = "sonnet"
	fallback := Review(params)
	if !strings.Contains(fallback, "TWEET-SPECIFIC CHECKS") {
		t.Error("unknown kind should fall back to tweet criteria")
	}
}
