// Package persona defines the compact, versioned voice profile derived from
// historical tweets. A persona is what generation and review send to the
// LLM instead of the full tweet history.
package persona

import (
	"encoding/json"
	"fmt"
)

// VoiceRules captures voice characteristics extracted from historical tweets.
type VoiceRules struct {
	SentenceLength string   `json:"sentence_length"` // short|medium|long
	HookStyles     []string `json:"hook_styles"`
	HumorStyle     []string `json:"humor_style"`
	JargonLevel    string   `json:"jargon_level"` // low|medium|high
	Directness     string   `json:"directness"`   // low|medium|high
}

// Tone holds default intensity settings for content generation.
type Tone struct {
	SpiceDefault string `json:"spice_default"` // low|medium|high
	SafeMode     bool   `json:"safe_mode"`
}

// Topic is a weighted subject the persona covers. Weights live in [0,1]
// and are not required to sum to 1.
type Topic struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Formatting captures surface-level writing preferences.
type Formatting struct {
	EmojiRate        string `json:"emoji_rate"`        // none|low|medium|high
	PunctuationStyle string `json:"punctuation_style"` // minimal|standard|expressive
	LineBreaks       string `json:"line_breaks"`       // none|rare|frequent
}

// Constraints are hard limits applied to every generation.
type Constraints struct {
	NoSlurs   bool `json:"no_slurs"`
	NoThreats bool `json:"no_threats"`
	MaxChars  int  `json:"max_chars"`
}

// Examples holds abstracted style fragments, never full historical tweets.
type Examples struct {
	SignaturePatterns []string `json:"signature_patterns"`
}

// Persona is the complete profile. It holds extracted patterns only, never
// full tweet history, so it can ride along on every generation request.
type Persona struct {
	Version     int         `json:"version"`
	DisplayName string      `json:"display_name"`
	VoiceRules  VoiceRules  `json:"voice_rules"`
	Tone        Tone        `json:"tone"`
	Topics      []Topic     `json:"topics"`
	Formatting  Formatting  `json:"formatting"`
	Constraints Constraints `json:"constraints"`
	Examples    Examples    `json:"examples"`
}

// Default returns a persona populated with neutral defaults. Fields left
// empty by a provider response fall back to these.
func Default() Persona {
	return Persona{
		Version:     1,
		DisplayName: "Account DNA",
		VoiceRules: VoiceRules{
			SentenceLength: "medium",
			JargonLevel:    "medium",
			Directness:     "high",
		},
		Tone: Tone{SpiceDefault: "medium", SafeMode: true},
		Formatting: Formatting{
			EmojiRate:        "low",
			PunctuationStyle: "minimal",
			LineBreaks:       "rare",
		},
		Constraints: Constraints{NoSlurs: true, NoThreats: true, MaxChars: 280},
	}
}

// FromResult builds a validated Persona from a structured provider response.
// Unset enum fields take defaults; a topic weight outside [0,1] is a
// validation error.
func FromResult(result map[string]any) (Persona, error) {
	if errMsg, ok := result["error"]; ok {
		return Persona{}, fmt.Errorf("provider returned error: %v", errMsg)
	}

	blob, err := json.Marshal(result)
	if err != nil {
		return Persona{}, fmt.Errorf("re-encoding provider response: %w", err)
	}

	p := Default()
	if err := json.Unmarshal(blob, &p); err != nil {
		return Persona{}, fmt.Errorf("response does not match persona shape: %w", err)
	}

	if err := p.Validate(); err != nil {
		return Persona{}, err
	}
	return p, nil
}

// Validate checks enum fields and topic weights, applying defaults where a
// zero value is acceptable.
func (p *Persona) Validate() error {
	def := Default()
	if p.DisplayName == "" {
		p.DisplayName = def.DisplayName
	}
	if p.VoiceRules.SentenceLength == "" {
		p.VoiceRules.SentenceLength = def.VoiceRules.SentenceLength
	}
	if p.VoiceRules.JargonLevel == "" {
		p.VoiceRules.JargonLevel = def.VoiceRules.JargonLevel
	}
	if p.VoiceRules.Directness == "" {
		p.VoiceRules.Directness = def.VoiceRules.Directness
	}
	if p.Tone.SpiceDefault == "" {
		p.Tone.SpiceDefault = def.Tone.SpiceDefault
	}
	if p.Formatting.EmojiRate == "" {
		p.Formatting.EmojiRate = def.Formatting.EmojiRate
	}
	if p.Formatting.PunctuationStyle == "" {
		p.Formatting.PunctuationStyle = def.Formatting.PunctuationStyle
	}
	if p.Formatting.LineBreaks == "" {
		p.Formatting.LineBreaks = def.Formatting.LineBreaks
	}
	if p.Constraints.MaxChars <= 0 {
		p.Constraints.MaxChars = def.Constraints.MaxChars
	}

	for _, t := range p.Topics {
		if t.Weight < 0 || t.Weight > 1 {
			return fmt.Errorf("topic %q has weight %v outside [0,1]", t.Name, t.Weight)
		}
	}
	return nil
}

// PromptContext renders the persona as indented JSON for inclusion in
// generation and review prompts.
func (p Persona) PromptContext() string {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
