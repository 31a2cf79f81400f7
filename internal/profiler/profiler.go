// Package profiler builds versioned persona profiles from sampled tweet
// history. Profiling is the only operation that sends raw historical text
// to the LLM; everything downstream works from the stored persona.
package profiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tweetdna/tweetdna/internal/persona"
	"github.com/tweetdna/tweetdna/internal/prompts"
	"github.com/tweetdna/tweetdna/internal/provider"
	"github.com/tweetdna/tweetdna/internal/storage"
)

// ErrNoTweets means the corpus is empty and profiling cannot run.
var ErrNoTweets = errors.New("no tweets available for profiling; import an export first")

// DefaultSampleSize is the recommended sample for a stable profile.
const DefaultSampleSize = 300

// Options tune a persona build.
type Options struct {
	SampleSize  int
	Bio         string
	PinnedTweet string
	// Force rebuilds even when a persona already exists; without it an
	// existing persona is reused and no LLM call happens.
	Force bool
}

// Profiler derives personas from stored tweets via a single LLM call.
type Profiler struct {
	store    *storage.Store
	provider provider.Provider
	model    string
}

func New(store *storage.Store, p provider.Provider, model string) *Profiler {
	return &Profiler{store: store, provider: p, model: model}
}

// Build returns the latest persona, building a new version only when none
// exists or opts.Force is set. The sampled tweet texts are sent to the
// provider exactly once.
func (pr *Profiler) Build(ctx context.Context, opts Options) (persona.Persona, error) {
	if !opts.Force {
		existing, err := pr.store.LatestPersona()
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return persona.Persona{}, fmt.Errorf("loading existing persona: %w", err)
		}
	}

	sampleSize := opts.SampleSize
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	tweets, err := pr.store.SampleForProfiling(sampleSize)
	if err != nil {
		return persona.Persona{}, fmt.Errorf("sampling tweets: %w", err)
	}
	if len(tweets) == 0 {
		return persona.Persona{}, ErrNoTweets
	}

	texts := make([]string, 0, len(tweets))
	for _, t := range tweets {
		if t.Text != "" {
			texts = append(texts, t.Text)
		}
	}

	slog.Info("building persona", "sampled_tweets", len(texts), "model", pr.model)

	result, err := pr.provider.GenerateJSON(ctx, prompts.Profile(texts, opts.Bio, opts.PinnedTweet), nil, provider.JSONOptions{
		Model:       pr.model,
		Temperature: 0.2,
	})
	if err != nil {
		return persona.Persona{}, fmt.Errorf("profiling call: %w", err)
	}

	p, err := persona.FromResult(result)
	if err != nil {
		return persona.Persona{}, fmt.Errorf("building persona from response: %w", err)
	}

	version, err := pr.store.SavePersona(p)
	if err != nil {
		return persona.Persona{}, fmt.Errorf("saving persona: %w", err)
	}
	p.Version = version

	slog.Info("persona saved", "version", version)
	return p, nil
}

// Current returns the latest stored persona without building one.
func (pr *Profiler) Current() (persona.Persona, error) {
	return pr.store.LatestPersona()
}
