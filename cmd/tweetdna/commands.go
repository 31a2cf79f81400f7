package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tweetdna/tweetdna/internal/config"
	"github.com/tweetdna/tweetdna/internal/generator"
	"github.com/tweetdna/tweetdna/internal/importer"
	"github.com/tweetdna/tweetdna/internal/profiler"
	"github.com/tweetdna/tweetdna/internal/provider"
	"github.com/tweetdna/tweetdna/internal/reviewer"
	"github.com/tweetdna/tweetdna/internal/storage"
)

// openStore loads config and opens the store for a one-shot command.
// Callers must Close the store.
func openStore() (config.Config, *storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("opening storage: %w", err)
	}
	return cfg, store, nil
}

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import tweets from a browser extension export (JSONL or JSON)",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		validateOnly, _ := cmd.Flags().GetBool("validate")

		if path == "" {
			return fmt.Errorf("--path is required")
		}

		_, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		im := importer.New(store)

		if validateOnly {
			ok, msg := im.ValidateFile(path)
			if !ok {
				printWarning("%s", msg)
				return fmt.Errorf("validation failed")
			}
			printSuccess("%s", msg)
			return nil
		}

		printStep("importing %s", path)
		result, err := im.Import(path)
		if err != nil {
			return err
		}
		total, err := store.TweetCount()
		if err != nil {
			return err
		}

		printSuccess("import complete")
		printStatus("imported", "%d", result.Inserted)
		printStatus("skipped invalid", "%d", result.SkippedInvalid)
		printStatus("skipped duplicate", "%d", result.Duplicates)
		printStatus("total stored", "%d", total)
		return nil
	},
}

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Build or refresh the persona from stored tweets",
	RunE: func(cmd *cobra.Command, args []string) error {
		sample, _ := cmd.Flags().GetInt("sample")
		force, _ := cmd.Flags().GetBool("force")
		bio, _ := cmd.Flags().GetString("bio")
		pinned, _ := cmd.Flags().GetString("pinned")

		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		prov := provider.ForRole(cfg, provider.RoleProfile)
		prof := profiler.New(store, prov, cfg.ModelForRole(provider.RoleProfile))

		printStep("building persona (sample %d, provider %s)", sample, prov.Name())
		p, err := prof.Build(cmd.Context(), profiler.Options{
			SampleSize:  sample,
			Bio:         bio,
			PinnedTweet: pinned,
			Force:       force,
		})
		if err != nil {
			return err
		}

		printSuccess("persona version %d ready", p.Version)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

// --- generate ---

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate drafts in the profiled voice",
}

var generateTweetCmd = &cobra.Command{
	Use:   "tweet",
	Short: "Generate standalone tweet drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		n, _ := cmd.Flags().GetInt("n")
		spice, _ := cmd.Flags().GetString("spice")
		useExamples, _ := cmd.Flags().GetBool("use-examples")
		minChars, _ := cmd.Flags().GetInt("min-chars")
		maxChars, _ := cmd.Flags().GetInt("max-chars")
		engagement, _ := cmd.Flags().GetString("engagement")

		if topic == "" {
			return fmt.Errorf("--topic is required")
		}

		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		gen := newGenerator(cfg, store)
		drafts, err := gen.GenerateTweets(cmd.Context(), generator.TweetOptions{
			Topic:            topic,
			Count:            n,
			Spice:            spice,
			MinChars:         minChars,
			MaxChars:         maxChars,
			UseExamples:      useExamples,
			TargetEngagement: engagement,
		})
		if err != nil {
			return err
		}

		printDrafts(drafts)
		return nil
	},
}

var generateThreadCmd = &cobra.Command{
	Use:   "thread",
	Short: "Generate a thread outline or full thread drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		tweets, _ := cmd.Flags().GetInt("tweets")
		spice, _ := cmd.Flags().GetString("spice")
		fullDraft, _ := cmd.Flags().GetBool("draft")
		minChars, _ := cmd.Flags().GetInt("min-chars")
		maxChars, _ := cmd.Flags().GetInt("max-chars")

		if topic == "" {
			return fmt.Errorf("--topic is required")
		}

		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		gen := newGenerator(cfg, store)
		drafts, err := gen.GenerateThread(cmd.Context(), generator.ThreadOptions{
			Topic:      topic,
			TweetCount: tweets,
			Spice:      spice,
			FullDraft:  fullDraft,
			MinChars:   minChars,
			MaxChars:   maxChars,
		})
		if err != nil {
			return err
		}

		for i, d := range drafts {
			fmt.Fprintf(os.Stdout, "%d. %s\n", i+1, strings.Join(d.Text, "\n"))
		}
		return nil
	},
}

var generateReplyCmd = &cobra.Command{
	Use:   "reply",
	Short: "Generate reply drafts to a tweet",
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		tone, _ := cmd.Flags().GetString("tone")
		n, _ := cmd.Flags().GetInt("n")
		minChars, _ := cmd.Flags().GetInt("min-chars")
		maxChars, _ := cmd.Flags().GetInt("max-chars")
		replyContext, _ := cmd.Flags().GetString("context")
		intent, _ := cmd.Flags().GetString("intent")

		if to == "" {
			return fmt.Errorf("--to is required")
		}

		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		gen := newGenerator(cfg, store)
		drafts, err := gen.GenerateReplies(cmd.Context(), generator.ReplyOptions{
			OriginalTweet: to,
			Tone:          tone,
			Count:         n,
			MinChars:      minChars,
			MaxChars:      maxChars,
			Context:       replyContext,
			Intent:        intent,
		})
		if err != nil {
			return err
		}

		printDrafts(drafts)
		return nil
	},
}

func newGenerator(cfg config.Config, store *storage.Store) *generator.Generator {
	prov := provider.ForRole(cfg, provider.RoleGenerate)
	return generator.New(store, prov, cfg.ModelForRole(provider.RoleGenerate))
}

// printDrafts renders drafts to stdout; single-item texts print as a
// scalar line, multi-item as numbered parts.
func printDrafts(drafts []storage.Draft) {
	for i, d := range drafts {
		var text string
		if len(d.Text) == 1 {
			text = d.Text[0]
		} else {
			text = strings.Join(d.Text, "\n")
		}
		fmt.Fprintf(os.Stdout, "\n[%d] %s\n", i+1, text)
		if len(d.Tags) > 0 {
			printStatus("tags", "%s", strings.Join(d.Tags, ", "))
		}
		if d.Algo != nil && d.Algo.SuppressionRisk != "" {
			printStatus("suppression risk", "%s", d.Algo.SuppressionRisk)
		}
		printStatus("id", "%s", d.ID)
	}
}

// --- review ---

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review recent drafts for persona and algorithm alignment",
	RunE: func(cmd *cobra.Command, args []string) error {
		last, _ := cmd.Flags().GetInt("last")
		autoRefine, _ := cmd.Flags().GetBool("auto-refine")
		draftID, _ := cmd.Flags().GetString("draft-id")

		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		prov := provider.ForRole(cfg, provider.RoleReview)
		rev := reviewer.New(store, prov, cfg.ModelForRole(provider.RoleReview))

		var reviews []storage.Review
		if draftID != "" {
			review, err := rev.ReviewDraft(cmd.Context(), draftID, autoRefine)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("draft %s not found", draftID)
			}
			if err != nil {
				return err
			}
			reviews = append(reviews, review)
		} else {
			reviews, err = rev.ReviewRecent(cmd.Context(), last, autoRefine)
			if err != nil {
				return err
			}
		}

		for _, r := range reviews {
			fmt.Fprintf(os.Stdout, "\ndraft %s\n", r.DraftID)
			printStatus("alignment", "%.0f", r.AlignmentScore)
			if r.Algo != nil {
				printStatus("algorithm alignment", "%.0f", r.Algo.AlignmentScore)
				printStatus("suppression score", "%.0f", r.Algo.SuppressionScore)
			}
			for _, v := range r.Violations {
				printWarning("violation: %s", v)
			}
			if r.RevisedText != "" {
				printStatus("revised", "%s", r.RevisedText)
			}
		}
		printSuccess("reviewed %d draft(s)", len(reviews))
		return nil
	},
}

// --- check ---

var checkCmd = &cobra.Command{
	Use:   "check <text>",
	Short: "Run the deterministic suppression-risk check on a text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := reviewer.CheckSuppression(args[0])

		printStatus("risk", "%s", result.RiskLevel)
		printStatus("recommendation", "%s", result.Recommendation)
		for _, p := range result.PatternsFound {
			printWarning("%s", p)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringP("path", "p", "", "path to extension export file (JSONL or JSON)")
	importCmd.Flags().Bool("validate", false, "validate file without importing")

	profileCmd.Flags().Int("sample", profiler.DefaultSampleSize, "number of tweets to sample for profiling")
	profileCmd.Flags().Bool("force", false, "force rebuild even if persona exists")
	profileCmd.Flags().String("bio", "", "optional account bio for context")
	profileCmd.Flags().String("pinned", "", "optional pinned tweet text for context")

	generateTweetCmd.Flags().String("topic", "", "topic or prompt for generation")
	generateTweetCmd.Flags().Int("n", 5, "number of drafts to generate")
	generateTweetCmd.Flags().String("spice", "medium", "spice level: low, medium, high")
	generateTweetCmd.Flags().Bool("use-examples", false, "include similar historical tweets as references")
	generateTweetCmd.Flags().Int("min-chars", 0, "minimum characters per tweet (0 = no minimum)")
	generateTweetCmd.Flags().Int("max-chars", 280, "maximum characters per tweet")
	generateTweetCmd.Flags().String("engagement", "reply", "target engagement: reply, like, repost, mixed")

	generateThreadCmd.Flags().String("topic", "", "thread topic")
	generateThreadCmd.Flags().Int("tweets", 5, "number of tweets in thread")
	generateThreadCmd.Flags().String("spice", "medium", "spice level: low, medium, high")
	generateThreadCmd.Flags().Bool("draft", false, "generate full drafts (otherwise outline)")
	generateThreadCmd.Flags().Int("min-chars", 0, "minimum characters per tweet (0 = no minimum)")
	generateThreadCmd.Flags().Int("max-chars", 280, "maximum characters per tweet")

	generateReplyCmd.Flags().StringP("to", "t", "", "the tweet text being replied to")
	generateReplyCmd.Flags().String("tone", "neutral", "reply tone (neutral, supportive, sarcastic, ...)")
	generateReplyCmd.Flags().Int("n", 3, "number of reply drafts to generate")
	generateReplyCmd.Flags().Int("min-chars", 0, "minimum characters (0 = no minimum)")
	generateReplyCmd.Flags().Int("max-chars", 280, "maximum characters")
	generateReplyCmd.Flags().StringP("context", "c", "", "additional context (who posted, thread info)")
	generateReplyCmd.Flags().String("intent", "", "reply intent (agree_extend, challenge, joke, ...)")

	generateCmd.AddCommand(generateTweetCmd)
	generateCmd.AddCommand(generateThreadCmd)
	generateCmd.AddCommand(generateReplyCmd)

	reviewCmd.Flags().IntP("last", "n", 5, "review last N drafts")
	reviewCmd.Flags().Bool("auto-refine", false, "auto-generate refined versions")
	reviewCmd.Flags().String("draft-id", "", "review a single draft by id")
}
