// Package generator turns a stored persona into tweet, thread, and reply
// drafts. Only the persona JSON rides along on generation calls; the full
// tweet history never leaves storage here.
package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tweetdna/tweetdna/internal/persona"
	"github.com/tweetdna/tweetdna/internal/prompts"
	"github.com/tweetdna/tweetdna/internal/provider"
	"github.com/tweetdna/tweetdna/internal/storage"
)

// ErrNoPersona means generation was requested before any persona exists.
var ErrNoPersona = errors.New("no persona found; build a profile first")

// Generator orchestrates draft generation against the latest persona.
type Generator struct {
	store    *storage.Store
	provider provider.Provider
	model    string
}

func New(store *storage.Store, p provider.Provider, model string) *Generator {
	return &Generator{store: store, provider: p, model: model}
}

// TweetOptions configure standalone-tweet generation.
type TweetOptions struct {
	Topic            string
	Count            int
	Spice            string
	MinChars         int
	MaxChars         int
	UseExamples      bool
	TargetEngagement string // reply|like|repost|mixed
}

// GenerateTweets produces and persists tweet drafts for a topic.
func (g *Generator) GenerateTweets(ctx context.Context, opts TweetOptions) ([]storage.Draft, error) {
	p, err := g.requiredPersona()
	if err != nil {
		return nil, err
	}

	if opts.Count <= 0 {
		opts.Count = 5
	}
	if opts.Spice == "" {
		opts.Spice = p.Tone.SpiceDefault
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = p.Constraints.MaxChars
	}

	var examples []string
	if opts.UseExamples {
		examples, err = g.retrieveExamples(opts.Topic, 5)
		if err != nil {
			return nil, fmt.Errorf("retrieving examples: %w", err)
		}
	}

	prompt := prompts.Tweets(prompts.TweetParams{
		Persona:          p,
		Topic:            opts.Topic,
		Count:            opts.Count,
		Spice:            opts.Spice,
		MinChars:         opts.MinChars,
		MaxChars:         opts.MaxChars,
		Examples:         examples,
		TargetEngagement: opts.TargetEngagement,
	})

	result, err := g.provider.GenerateJSON(ctx, prompt, &provider.Schema{Type: "object"}, provider.JSONOptions{
		Model:       g.model,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("generation call: %w", err)
	}

	drafts := parseTweetResult(result, opts.Topic, opts.Spice, p.Version)
	if err := g.persist(drafts, prompt); err != nil {
		return nil, err
	}
	return drafts, nil
}

// ThreadOptions configure thread generation.
type ThreadOptions struct {
	Topic      string
	TweetCount int
	Spice      string
	FullDraft  bool
	MinChars   int
	MaxChars   int
}

// GenerateThread produces a thread outline or full thread drafts, one
// draft per thread item. The model may recommend fewer tweets than asked
// for; the result is truncated to that count.
func (g *Generator) GenerateThread(ctx context.Context, opts ThreadOptions) ([]storage.Draft, error) {
	p, err := g.requiredPersona()
	if err != nil {
		return nil, err
	}

	if opts.TweetCount <= 0 {
		opts.TweetCount = 5
	}
	if opts.Spice == "" {
		opts.Spice = p.Tone.SpiceDefault
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = p.Constraints.MaxChars
	}

	prompt := prompts.Thread(prompts.ThreadParams{
		Persona:    p,
		Topic:      opts.Topic,
		TweetCount: opts.TweetCount,
		Spice:      opts.Spice,
		FullDraft:  opts.FullDraft,
		MinChars:   opts.MinChars,
		MaxChars:   opts.MaxChars,
	})

	result, err := g.provider.GenerateJSON(ctx, prompt, &provider.Schema{Type: "object"}, provider.JSONOptions{
		Model:       g.model,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("thread generation call: %w", err)
	}

	drafts := parseThreadResult(result, opts.Topic, opts.Spice, p.Version, opts.FullDraft)

	recommended := intValue(result, "recommended_tweet_count", opts.TweetCount)
	if recommended < 0 {
		recommended = 0
	}
	if recommended < len(drafts) {
		slog.Info("density check trimmed thread", "requested", len(drafts), "recommended", recommended)
		drafts = drafts[:recommended]
	}

	if err := g.persist(drafts, prompt); err != nil {
		return nil, err
	}
	return drafts, nil
}

// ReplyOptions configure reply generation.
type ReplyOptions struct {
	OriginalTweet string
	Tone          string
	Count         int
	MinChars      int
	MaxChars      int
	Context       string
	Intent        string
}

// GenerateReplies produces and persists reply drafts to an original tweet.
func (g *Generator) GenerateReplies(ctx context.Context, opts ReplyOptions) ([]storage.Draft, error) {
	p, err := g.requiredPersona()
	if err != nil {
		return nil, err
	}

	if opts.Count <= 0 {
		opts.Count = 3
	}
	if opts.Tone == "" {
		opts.Tone = "neutral"
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = p.Constraints.MaxChars
	}

	prompt := prompts.Replies(prompts.ReplyParams{
		Persona:       p,
		OriginalTweet: opts.OriginalTweet,
		Tone:          opts.Tone,
		Count:         opts.Count,
		MinChars:      opts.MinChars,
		MaxChars:      opts.MaxChars,
		Context:       opts.Context,
		Intent:        opts.Intent,
	})

	result, err := g.provider.GenerateJSON(ctx, prompt, &provider.Schema{Type: "object"}, provider.JSONOptions{
		Model:       g.model,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("reply generation call: %w", err)
	}

	drafts := parseReplyResult(result, opts.OriginalTweet, opts.Tone, p.Version)
	if err := g.persist(drafts, prompt); err != nil {
		return nil, err
	}
	return drafts, nil
}

func (g *Generator) requiredPersona() (persona.Persona, error) {
	p, err := g.store.LatestPersona()
	if errors.Is(err, storage.ErrNotFound) {
		return persona.Persona{}, ErrNoPersona
	}
	if err != nil {
		return persona.Persona{}, fmt.Errorf("loading persona: %w", err)
	}
	return p, nil
}

func (g *Generator) persist(drafts []storage.Draft, prompt string) error {
	hash := promptHash(prompt)
	for i := range drafts {
		drafts[i].Provider = g.provider.Name()
		drafts[i].Model = g.model
		drafts[i].PromptHash = hash
		if err := g.store.SaveDraft(drafts[i]); err != nil {
			return fmt.Errorf("saving draft %s: %w", drafts[i].ID, err)
		}
	}
	return nil
}

// promptHash is a short content address for the exact prompt a draft came
// from, for later comparison of prompt revisions.
func promptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])[:12]
}
