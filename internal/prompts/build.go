package prompts

import (
	"fmt"
	"strings"

	"github.com/tweetdna/tweetdna/internal/persona"
)

// Profile builds the persona-profiling prompt. This is the only prompt that
// carries raw historical tweet text, capped at 400 samples.
func Profile(texts []string, bio, pinnedTweet string) string {
	if len(texts) > 400 {
		texts = texts[:400]
	}
	tweetsBlock := strings.Join(texts, "\n---\n")

	var context strings.Builder
	if bio != "" {
		fmt.Fprintf(&context, "Bio: %s\n", bio)
	}
	if pinnedTweet != "" {
		fmt.Fprintf(&context, "Pinned tweet: %s\n", pinnedTweet)
	}

	return fmt.Sprintf(`Analyze the following tweets and extract a detailed persona profile.

%s
TWEETS:
%s

TASK:
Extract a persona JSON that captures:
1. Voice rules: sentence length, hook styles, humor, jargon level, directness
2. Tone: default spice level, safety preferences
3. Topics: weighted list of main topics covered
4. Formatting: emoji usage, punctuation style, line breaks
5. Constraints: content restrictions
6. Examples: 2-5 signature writing patterns (not full tweets, just patterns)

%s

%s

Output JSON only, no explanation:`, context.String(), tweetsBlock, personaSchemaHint, guardrails)
}

// TweetParams configures a standalone-tweet generation prompt.
type TweetParams struct {
	Persona          persona.Persona
	Topic            string
	Count            int
	Spice            string
	MinChars         int
	MaxChars         int
	Examples         []string
	TargetEngagement string // reply|like|repost|mixed
}

var engagementGuidance = map[string]string{
	"reply":  "Optimize for REPLIES: pose debatable takes, invite disagreement through bold statements",
	"like":   "Optimize for LIKES: be relatable, quotable, express shared experiences",
	"repost": "Optimize for REPOSTS: be informative, provide value worth sharing",
	"mixed":  "Balanced engagement: aim for a mix of replies, likes, and reposts",
}

// Tweets builds the standalone-tweet generation prompt. Only the persona
// rides along; reference examples are capped at five.
func Tweets(p TweetParams) string {
	examplesBlock := ""
	if len(p.Examples) > 0 {
		examples := p.Examples
		if len(examples) > 5 {
			examples = examples[:5]
		}
		var lines []string
		for _, ex := range examples {
			lines = append(lines, "- "+ex)
		}
		examplesBlock = fmt.Sprintf("\nREFERENCE EXAMPLES (match this style):\n%s\n", strings.Join(lines, "\n"))
	}

	charConstraint := fmt.Sprintf("MAX CHARACTERS: %d", p.MaxChars)
	if p.MinChars > 0 {
		charConstraint = fmt.Sprintf("CHARACTER RANGE: %d-%d characters (tweets must be at least %d chars)", p.MinChars, p.MaxChars, p.MinChars)
	}

	engagement, ok := engagementGuidance[p.TargetEngagement]
	if !ok {
		engagement = engagementGuidance["mixed"]
	}

	return fmt.Sprintf(`Generate %d tweet drafts that grab attention and keep people reading.

PERSONA:
%s

TOPIC: %s
SPICE LEVEL: %s
%s
TARGET ENGAGEMENT: %s
%s
%s

%s

%s

%s

%s

%s

Output a JSON object with this structure:
{
  "drafts": [
    {
      "text": "tweet text here (MUST be lowercase)",
      "tags": ["tag1", "tag2"],
      "hook_type": "what attention hook was used",
      "rationale": "one line explaining the approach",
      "confidence": 0.0-1.0,
      "expected_engagement": "reply|like|repost|mixed",
      "suppression_risk": "low|medium|high",
      "algorithm_alignment_notes": "brief note on how this aligns with ranking signals"
    }
  ]
}

Generate exactly %d drafts. Each MUST:
1. Be entirely lowercase
2. Hook attention in the first few words
3. Avoid all suppression triggers and banned phrases
4. Have a UNIQUE structure (no repeated patterns across drafts)
5. NOT start with opinion labels like "unpopular opinion", "hot take", or "most people miss this"
JSON only:`,
		p.Count, p.Persona.PromptContext(), p.Topic, p.Spice, charConstraint,
		engagement, examplesBlock,
		strictRules, twitterStyle, engagementRules, algorithmConstraints, diversityNote, guardrails,
		p.Count)
}

// ThreadParams configures a thread generation prompt.
type ThreadParams struct {
	Persona    persona.Persona
	Topic      string
	TweetCount int
	Spice      string
	FullDraft  bool
	MinChars   int
	MaxChars   int
}

// Thread builds the thread generation prompt, either for full tweet drafts
// or an outline, with per-tweet density validation instructions.
func Thread(p ThreadParams) string {
	charConstraint := fmt.Sprintf("under %d characters", p.MaxChars)
	if p.MinChars > 0 {
		charConstraint = fmt.Sprintf("between %d-%d characters", p.MinChars, p.MaxChars)
	}

	var outputInstruction string
	if p.FullDraft {
		outputInstruction = fmt.Sprintf(`
Generate %d connected tweets forming a natural thread.
Each tweet must be %s.
First tweet: MUST hook hard - make people stop scrolling and read the whole thread
Middle tweets: keep momentum, each adds value or builds tension
Last tweet: end with impact - punchline, insight, or open thought (NOT "follow for more")
`, p.TweetCount, charConstraint)
	} else {
		outputInstruction = fmt.Sprintf(`
Generate a %d-part thread outline.
Each part describes what that tweet covers.
First part must hook attention. Last part must land with impact.
`, p.TweetCount)
	}

	threadAlgorithmRules := fmt.Sprintf(`
THREAD ALGORITHM RULES (critical):
The X algorithm treats threads as linked posts where each must earn its place.

HOOK OPTIMIZATION (first tweet):
- Must stand COMPLETELY ALONE - people see it without knowing it's a thread
- Should create curiosity gap that demands the rest be read
- Avoid "thread:" or "🧵" - let content speak for itself
- First 7 words determine if people click through

DENSITY VALIDATION (every tweet):
- Each tweet must contain a UNIQUE point, example, or insight
- No filler phrases ("let me explain", "here's the thing", "stay with me")
- No repetition of points across tweets
- If a tweet could be deleted without losing info, it shouldn't exist

THREAD PENALTIES TO AVOID:
- Padding to reach arbitrary tweet count
- Repeating the same point in different words
- Empty engagement bait ("like and RT for more threads")
- Weak closers ("follow for more" / "that's it")

DENSITY CHECK: If you cannot fill %d tweets with UNIQUE, VALUABLE points,
output fewer tweets rather than pad with filler. Quality > Quantity.
`, p.TweetCount)

	return fmt.Sprintf(`Generate a Twitter thread that grabs attention and keeps readers til the end.

PERSONA:
%s

TOPIC: %s
SPICE LEVEL: %s
TWEETS IN THREAD: %d

%s

%s

%s

%s

%s

%s

%s

Output a JSON object:
{
  "thread": [
    {
      "position": 1,
      "text": "tweet text or outline point (MUST be lowercase)",
      "purpose": "hook|body|closer",
      "hook_type": "what keeps readers engaged here",
      "unique_value": "what new info/insight this tweet adds",
      "density_score": "low|medium|high"
    }
  ],
  "rationale": "brief thread strategy",
  "density_validated": true,
  "hook_strength": "weak|moderate|strong",
  "recommended_tweet_count": %d,
  "suppression_risks": ["list any potential issues"]
}

Every tweet must earn the next click. If content is insufficient, recommend fewer tweets.

CRITICAL REQUIREMENTS:
1. All tweets MUST be lowercase
2. NO opinion labels ("unpopular opinion", "hot take", "most people miss this", etc.)
3. Each tweet must have a UNIQUE structure
4. NO engagement bait
JSON only:`,
		p.Persona.PromptContext(), p.Topic, p.Spice, p.TweetCount,
		outputInstruction,
		strictRules, threadAlgorithmRules, twitterStyle, engagementRules, algorithmConstraints, guardrails,
		p.TweetCount)
}

// ReplyParams configures a reply generation prompt.
type ReplyParams struct {
	Persona       persona.Persona
	OriginalTweet string
	Tone          string
	Count         int
	MinChars      int
	MaxChars      int
	Context       string
	Intent        string // agree_extend|disagree_reason|add_context|share_experience|challenge|joke|react
}

// Replies builds the reply generation prompt, tuned for conversation depth
// and away from low-effort reply patterns.
func Replies(p ReplyParams) string {
	toneDesc, ok := replyToneDescriptions[p.Tone]
	if !ok {
		toneDesc = replyToneDescriptions["neutral"]
	}

	charConstraint := fmt.Sprintf("MAX CHARACTERS: %d", p.MaxChars)
	if p.MinChars > 0 {
		charConstraint = fmt.Sprintf("CHARACTER RANGE: %d-%d characters", p.MinChars, p.MaxChars)
	}

	contextBlock := ""
	if p.Context != "" {
		contextBlock = fmt.Sprintf("\nADDITIONAL CONTEXT: %s\n", p.Context)
	}
	intentBlock := ""
	if p.Intent != "" {
		intentBlock = fmt.Sprintf("\nREPLY INTENT: %s - craft replies with this specific approach\n", p.Intent)
	}

	return fmt.Sprintf(`Generate %d reply drafts to this tweet, matching your persona's voice.

PERSONA:
%s

ORIGINAL TWEET (replying to this):
"%s"
%s%s
REPLY TONE: %s - %s

%s
%s

%s

%s

%s

%s

Output a JSON object:
{
  "replies": [
    {
      "text": "your reply text here (MUST be lowercase)",
      "tone_executed": "how the tone was expressed",
      "intent": "agree_extend|disagree_reason|add_context|share_experience|challenge|joke|react",
      "approach": "agree|disagree|extend|react|challenge|joke",
      "value_added": "what new angle/info this reply contributes",
      "rationale": "why this reply works",
      "confidence": 0.0-1.0,
      "suppression_risk": "low|medium|high",
      "conversation_value": "low|medium|high"
    }
  ],
  "original_tweet_analysis": {
    "main_point": "what the original tweet is about",
    "engagement_opportunity": "where a reply can add value"
  }
}

CRITICAL CHECKS before outputting each reply:
1. Is it lowercase? (MUST be lowercase)
2. Does it add value not in the original? (if no, discard)
3. Is it generic praise or empty agreement? (if yes, discard)
4. Does it respond specifically to their content? (if no, revise)
5. Does it use a UNIQUE structure from other replies? (no repeated patterns)
6. Does it avoid engagement bait? (no "thoughts?", questions, etc.)

Generate exactly %d replies. Each must feel like a natural response, NOT a standalone tweet.
Each must add DISTINCT VALUE. All lowercase. No engagement bait. JSON only:`,
		p.Count, p.Persona.PromptContext(), p.OriginalTweet,
		contextBlock, intentBlock, p.Tone, toneDesc,
		strictRules, charConstraint,
		twitterStyle, replyStyle, replyAlgorithmRules, guardrails,
		p.Count)
}

// ReviewParams configures a draft review prompt.
type ReviewParams struct {
	Persona    persona.Persona
	DraftText  string
	DraftKind  string // tweet|reply|thread
	AutoRefine bool
}

var reviewKindCriteria = map[string]string{
	"tweet": `
TWEET-SPECIFIC CHECKS:
- Single atomic idea (not trying to cover too much)
- Hook in first 7 words
- No engagement bait patterns
- Appropriate hashtag count (0-2 max)
`,
	"reply": `
REPLY-SPECIFIC CHECKS:
- Adds distinct value (not just agreeing)
- Not generic praise ("great point!", "so true!")
- Not emoji-only or single word
- Responds to original content specifically
- Doesn't end with a question (replies are not conversation starters)
`,
	"thread": `
THREAD-SPECIFIC CHECKS:
- Hook stands alone without context
- Each tweet adds unique value
- No filler or padding
- Clear progression
- Strong closer (not "follow for more")
`,
}

// Review builds the review prompt, scoring persona alignment, algorithm
// alignment, and suppression risk, with optional auto-revision.
func Review(p ReviewParams) string {
	refineInstruction := ""
	if p.AutoRefine {
		refineInstruction = `
If alignment score is below 80 OR suppression_risk_score is above 50, provide a revised version.
Revision must fix issues while maintaining persona voice.
`
	}

	kindRules, ok := reviewKindCriteria[p.DraftKind]
	if !ok {
		kindRules = reviewKindCriteria["tweet"]
	}

	const suppressionCheck = `
SUPPRESSION RISK ANALYSIS:
Check for these algorithm-penalized patterns:
- Engagement bait: "like if", "RT for", "follow for follow"
- Excessive hashtags (>2)
- Excessive mentions (@)
- Spam-like repetition
- Low-effort/empty content
- Inflammatory rage-bait
- Generic filler phrases

Score suppression_risk from 0-100 (higher = riskier, likely to be demoted).
`

	const conflictResolution = `
PERSONA vs ALGORITHM CONFLICT RESOLUTION:
If the persona style would trigger algorithm suppression:
- Algorithm safety OVERRIDES persona style
- Note which persona rule conflicted
- Note which algorithm constraint overrode it
- Revised text must be algorithm-safe while preserving persona voice where possible
`

	return fmt.Sprintf(`Review this draft for persona alignment AND algorithm alignment.

PERSONA:
%s

DRAFT TO REVIEW:
%s

DRAFT TYPE: %s

%s

%s

%s

TASK:
1. Score persona alignment (0-100): voice, tone, formatting match
2. Score algorithm alignment (0-100): ranking signal optimization
3. Score suppression risk (0-100): likelihood of demotion (lower is better)
4. Assess repetition risk and conversation value
5. List violations and conflicts
6. Suggest improvements
%s

%s

Output a JSON object:
{
  "alignment_score": 0-100,
  "algorithm_alignment_score": 0-100,
  "suppression_risk_score": 0-100,
  "repetition_risk": "low|medium|high",
  "conversation_value": "low|medium|high",
  "violations": ["list of persona violations"],
  "algorithm_issues": ["list of algorithm/suppression issues"],
  "persona_algorithm_conflicts": [
    {
      "persona_rule": "which persona rule conflicted",
      "algorithm_constraint": "which algorithm rule overrode it",
      "resolution": "how it was resolved"
    }
  ],
  "suggestions": ["list of improvements"],
  "revised_text": "revised version or null if not needed",
  "revision_reason": "why revision was needed or null"
}

JSON only, no explanation:`,
		p.Persona.PromptContext(), p.DraftText, p.DraftKind,
		kindRules, suppressionCheck, conflictResolution,
		refineInstruction, guardrails)
}
