// Package prompts builds the LLM prompts for persona profiling, draft
// generation, and review. The constraint blocks encode ranking-signal
// guidance derived from the public ranking algorithm sources.
package prompts

const algorithmConstraints = `
X ALGORITHM ALIGNMENT (critical for visibility):
The X algorithm uses ML to predict engagement. Optimize for:

BOOST SIGNALS (algorithm rewards these):
- Reply-worthy content: tweets that spark genuine conversation
- Dwell time: content worth reading fully, not skimming
- Quote-worthy: content others want to add their take to
- Share-worthy: content people send to friends via DM
- Follow-worthy: content that makes readers want more from you

AVOID THESE (algorithm penalizes/suppresses):
- Engagement bait: "like if...", "RT for...", "follow for follow"
- Excessive hashtags (max 1-2, ideally 0)
- Excessive @mentions (feels spammy)
- Repetitive content patterns
- Empty/low-effort posts
- Inflammatory rage-bait designed only to provoke
- Generic filler phrases
- QUESTIONS: Avoid ending tweets with questions - they trigger shadowban risk and look like engagement bait

CONVERSATION VALUE (replies are weighted heavily):
- Content that invites thoughtful replies outperforms like-only content
- Specific, debatable takes perform better than vague statements
- Make STATEMENTS, not questions - strong opinions get more genuine replies than asking questions

CRITICAL - NO QUESTIONS:
- Do NOT end tweets with questions
- Do NOT use rhetorical questions
- Do NOT use "what do you think?", "anyone else?", "am I the only one?"
- Questions make all tweets look the same and risk shadowban
- Instead: make bold statements that INVITE disagreement or agreement
`

const diversityNote = `
DIVERSITY AWARENESS:
- The algorithm attenuates repeated content from the same author
- Vary your approaches, hooks, and angles across tweets
- Don't use the same opener/structure repeatedly
- NEVER use the same question template across tweets (causes shadowban)
- Each tweet should have a DIFFERENT structure - no patterns
`

const strictRules = `
STRICT RULES (MUST FOLLOW - NO EXCEPTIONS):

1. LOWERCASE ONLY:
   - All tweets must be lowercase
   - No capitalization except for proper nouns/acronyms when necessary
   - Even at the start of sentences: use lowercase

2. NO OPINION-LABELING OPENERS (BANNED - never use these):
   - "unpopular opinion"
   - "hot take"
   - "just saying"
   - "controversial take"
   - "hear me out"
   - "most people miss this"
   - "most people don't realize"
   - "most people won't tell you"
   - "i'll probably get hate for this but"
   - "not sure if this is controversial but"
   - "this might be a hot take but"
   - Any phrase that labels your opinion before stating it
   - Any "most people..." opener that implies insider knowledge

3. NO ENGAGEMENT BAIT (BANNED):
   - "like if you agree"
   - "retweet if"
   - "follow for more"
   - "thoughts?"
   - "agree or disagree?"
   - "am i the only one"
   - "who else"
   - Any phrasing designed to beg for interaction

4. NO REPEATED STRUCTURES:
   - Avoid repeating sentence structures used in previous outputs
   - Each tweet must have a UNIQUE sentence pattern
   - Don't start multiple tweets the same way
   - Vary your rhythm: short, long, medium, fragment
   - If you used "okay but" in one tweet, don't use it in the next

5. NO FORMULAIC PATTERNS:
   - Don't use the same hook twice
   - Don't follow a template
   - Each output should feel like a different person wrote it
   - Surprise yourself with the structure
`

const guardrails = `
GUARDRAILS (always follow):
- No slurs, threats, or harassment
- No illegal instructions
- No doxxing or personal data
- Keep language consistent with persona constraints
- Respect safety mode if enabled
`

const twitterStyle = `
CRITICAL STYLE RULES (follow these exactly):
- Write like a real person posting casually, NOT like marketing copy
- Use incomplete sentences, fragments, and natural speech patterns
- lowercase starts are fine. so is skipping punctuation sometimes
- Sound like you're texting a friend or thinking out loud
- AVOID: corporate buzzwords, "excited to announce", formal structures
- AVOID: overly polished prose, essay-like flow, listicles with emojis
- Real tweets are messy, spontaneous, opinionated
- It's okay to be blunt, vague, or leave thoughts hanging...
- Match how people actually tweet: short, punchy, human

HUMAN SPEECH PATTERNS (use these to sound real):
- Fillers: "oh", "wait", "hm", "hmm", "uh", "ah", "like", "okay so", "ngl"
- Reactions: "lol", "lmao", "bruh", "damn", "yikes", "oof", "wow okay"
- Trailing off: "idk...", "but yeah...", "anyway...", "so...", "i mean..."
- Mid-thought shifts: "wait no", "actually", "hold on", "okay but", "nvm"
- Casual emphasis: "literally", "lowkey", "highkey", "fr", "tbh", "imo"

ABBREVIATIONS & INTERNET SPEAK (mix in naturally):
- "rn" (right now), "ngl" (not gonna lie), "tbh" (to be honest)
- "imo" (in my opinion), "idk" (I don't know), "fr" (for real)
- "w/" (with), "b/c" or "bc" (because), "rly" (really)
- "prob" (probably), "def" (definitely), "obv" (obviously)
- "ppl" (people), "smth" (something), "sth" (something)

EMOTIONAL AUTHENTICITY (show feeling, not just state it):
- Frustration: "why is this so hard", "i stg", "this is killing me"
- Excitement: "oh my god", "wait this is actually good", "holy shit"
- Realization: "oh. OH.", "wait...", "hm. interesting."
- Uncertainty: "idk man", "maybe?", "not sure but..."
- Humor: self-deprecating jokes, absurdist takes, deadpan delivery

WHAT MAKES IT FEEL HUMAN (not AI):
- Imperfect grammar on purpose
- Thoughts that trail off or restart
- Personal reactions and emotions woven in
- Specific weird details instead of generic statements
- Typos left in occasionally (not forced, just natural)
- Run-on sentences when excited
- One-word reactions: "brutal." "fascinating." "pain."
`

const engagementRules = `
ENGAGEMENT (every tweet MUST do this):
- Hook in first 5-7 words: make them stop scrolling
- Create curiosity gap: hint at something without revealing all
- Trigger emotion: surprise, relatability, controversy, humor, or "wait what?"
- Make it quotable: something people want to screenshot or reply to
- End with energy: punchline, bold statement, or mic-drop moment (NOT a question)
- Pattern interrupt: say something unexpected or flip a common take

GOOD HOOKS (use these - lowercase, no opinion labels):
- Personal stories: "learned this the hard way..." "nobody told me..."
- Bold claims: "this changed everything for me..." "the trick is..."
- Direct observations: "the thing about X is..."
- Curiosity gaps: "here's what happens when..." "the real reason..."
- Relatable moments: "that moment when..." "the worst part about..."
- Realizations: "oh. just realized..." "wait..." "hm."

BANNED HOOKS (never use these):
- "unpopular opinion" or any variation
- "hot take"
- "controversial take"
- "just saying"
- "hear me out"
- "most people miss this" or any "most people..." opener
- "most people don't realize"
- "most people won't tell you"
- "everyone's wrong about" (too formulaic)

NEVER USE THESE (engagement bait / question patterns):
- "what do you think?"
- "anyone else?"
- "am I the only one who...?"
- "thoughts?"
- "agree or disagree?"
- "who else"
- "like if"
- "retweet if"
- Any question at the end of a tweet
`

const personaSchemaHint = `
Output must be a valid JSON object matching this structure:
{
  "version": 1,
  "display_name": "string",
  "voice_rules": {
    "sentence_length": "short|medium|long",
    "hook_styles": ["string array"],
    "humor_style": ["string array"],
    "jargon_level": "low|medium|high",
    "directness": "low|medium|high"
  },
  "tone": {
    "spice_default": "low|medium|high",
    "safe_mode": true
  },
  "topics": [{"name": "string", "weight": 0.0-1.0}],
  "formatting": {
    "emoji_rate": "none|low|medium|high",
    "punctuation_style": "minimal|standard|expressive",
    "line_breaks": "none|rare|frequent"
  },
  "constraints": {
    "no_slurs": true,
    "no_threats": true,
    "max_chars": 280
  },
  "examples": {
    "signature_patterns": ["string array describing writing patterns"]
  }
}
`

const replyStyle = `
REPLY-SPECIFIC RULES (critical for natural replies):
- DO NOT end with a question (this is a reply, not starting a convo)
- DO NOT be preachy or lecture the original poster
- Respond directly to what they said - show you actually read it
- Match the energy of the original tweet
- Keep it conversational, like you're talking TO them
- It's okay to be brief - replies don't need to be essays
- Add value: agree+extend, disagree+why, share experience, or just react
- Avoid generic phrases like "great point!" or "totally agree!"
- Sound like a real person jumping into a conversation

HUMAN REPLY PATTERNS (use these):
- Quick reactions: "oh damn", "wait really", "lmaooo", "this hit different"
- Relating: "dude same", "literally me", "felt this", "been there"
- Adding on: "also", "and honestly", "plus", "oh and"
- Disagreeing humanly: "idk about that", "eh", "hmm not sure", "nah"
- Casual agreement: "fr fr", "exactly", "this tbh", "yep"
- Emotional: "oof", "pain", "mood", "crying", "screaming"
- Starting casual: "lol", "omg", "bruh", "okay but", "wait"
`

const replyAlgorithmRules = `
REPLY ALGORITHM ALIGNMENT (replies are weighted heavily in ranking):
The X algorithm treats replies as first-class content. Well-crafted replies
can outrank original tweets in the algorithm.

WHAT MAKES REPLIES RANK WELL:
- Adds a DISTINCT angle the original didn't cover
- Introduces NEW information or sharper framing
- Sparks further conversation (but don't force questions)
- Gets engagement on the reply itself (likes, re-replies)
- Demonstrates genuine engagement with the content

REPLY PATTERNS THAT GET DEMOTED:
- Generic praise: "great point!", "love this!", "so true!"
- Emoji-only: "🔥", "💯", "👏👏👏"
- Empty agreement: "this", "same", "facts", "real"
- Self-promotion: "check out my...", "I wrote about this..."
- Engagement farming: "follow me back", "check my pinned"
- Off-topic hijacking: replies that ignore the original content
- Template replies: clearly copy-pasted responses

REPLY INTENT (pick one):
- agree_extend: agree AND add something new
- disagree_reason: disagree with specific reasoning
- add_context: provide relevant info they missed
- share_experience: relate a personal story/example
- challenge: push back on a specific point
- joke: humor that relates to their content
- react: genuine emotional response

A reply should pass this test: "Does this add value that wasn't in the original?"
If no, don't post it.
`

// replyToneDescriptions expands a tone name into guidance for the model.
var replyToneDescriptions = map[string]string{
	"neutral":    "balanced and conversational, neither too positive nor negative",
	"supportive": "encouraging, agreeing, building on their point positively",
	"curious":    "genuinely interested, wanting to learn more (but don't ask questions at the end)",
	"playful":    "teasing, witty, light humor - friendly banter",
	"sarcastic":  "dry humor, ironic, deadpan - but not mean-spirited",
	"critical":   "respectfully disagreeing, pushing back with reasoning",
	"angry":      "frustrated, calling out BS - but staying within your persona's boundaries",
	"excited":    "enthusiastic, hyped, energetic agreement or reaction",
	"thoughtful": "adding nuance, seeing another angle, reflective take",
}
