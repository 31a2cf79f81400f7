// Package api exposes the local HTTP surface and the MCP server. Both are
// thin layers over the importer, profiler, generator, and reviewer.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/tweetdna/tweetdna/internal/generator"
	"github.com/tweetdna/tweetdna/internal/importer"
	"github.com/tweetdna/tweetdna/internal/profiler"
	"github.com/tweetdna/tweetdna/internal/reviewer"
	"github.com/tweetdna/tweetdna/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Deps holds the services the HTTP and MCP layers dispatch to.
type Deps struct {
	Store     *storage.Store
	Importer  *importer.Importer
	Profiler  *profiler.Profiler
	Generator *generator.Generator
	Reviewer  *reviewer.Reviewer
}

// NewHandler builds the local API router.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Post("/import/extension", handleImportExtension(deps))
	r.Post("/profile", handleProfile(deps))
	r.Get("/persona/latest", handleLatestPersona(deps))
	r.Post("/generate/tweet", handleGenerateTweets(deps))
	r.Post("/generate/thread", handleGenerateThread(deps))
	r.Post("/generate/reply", handleGenerateReplies(deps))
	r.Post("/review", handleReview(deps))
	r.Post("/check/suppression", handleCheckSuppression(deps))
	r.Get("/drafts/{id}", handleGetDraft(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type importExtensionRequest struct {
	Path string `json:"path"`
}

type importExtensionResponse struct {
	Imported         int `json:"imported"`
	SkippedInvalid   int `json:"skipped_invalid"`
	SkippedDuplicate int `json:"skipped_duplicate"`
	Total            int `json:"total"`
}

func handleImportExtension(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importExtensionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Path == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "path is required")
			return
		}
		if _, err := os.Stat(req.Path); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "file not found: %s", req.Path)
			return
		}

		result, err := deps.Importer.Import(req.Path)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "import failed: %v", err)
			return
		}
		total, err := deps.Store.TweetCount()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "counting tweets: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, importExtensionResponse{
			Imported:         result.Inserted,
			SkippedInvalid:   result.SkippedInvalid,
			SkippedDuplicate: result.Duplicates,
			Total:            total,
		})
	}
}

type profileRequest struct {
	Sample int  `json:"sample"`
	Force  bool `json:"force"`
}

func handleProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := profileRequest{Sample: profiler.DefaultSampleSize}
		if !decodeBody(w, r, &req) {
			return
		}

		p, err := deps.Profiler.Build(r.Context(), profiler.Options{
			SampleSize: req.Sample,
			Force:      req.Force,
		})
		if errors.Is(err, profiler.ErrNoTweets) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "profiling failed: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"persona_version": p.Version})
	}
}

func handleLatestPersona(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := deps.Store.LatestPersona()
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found_error", "no persona found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "loading persona: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"version": p.Version,
			"persona": p,
		})
	}
}

type generateTweetRequest struct {
	Topic            string `json:"topic"`
	N                int    `json:"n"`
	Spice            string `json:"spice"`
	UseExamples      bool   `json:"use_examples"`
	MaxChars         int    `json:"max_chars"`
	MinChars         int    `json:"min_chars"`
	TargetEngagement string `json:"target_engagement"`
}

func handleGenerateTweets(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := generateTweetRequest{N: 10, Spice: "medium", UseExamples: true, MaxChars: 280, TargetEngagement: "reply"}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Topic == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "topic is required")
			return
		}

		drafts, err := deps.Generator.GenerateTweets(r.Context(), generator.TweetOptions{
			Topic:            req.Topic,
			Count:            req.N,
			Spice:            req.Spice,
			MinChars:         req.MinChars,
			MaxChars:         req.MaxChars,
			UseExamples:      req.UseExamples,
			TargetEngagement: req.TargetEngagement,
		})
		if err != nil {
			writeGenerationError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, generationResponse(drafts))
	}
}

type generateThreadRequest struct {
	Topic    string `json:"topic"`
	Tweets   int    `json:"tweets"`
	Spice    string `json:"spice"`
	Draft    bool   `json:"draft"`
	MinChars int    `json:"min_chars"`
	MaxChars int    `json:"max_chars"`
}

func handleGenerateThread(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := generateThreadRequest{Tweets: 8, Spice: "low", Draft: true, MaxChars: 280}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Topic == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "topic is required")
			return
		}

		drafts, err := deps.Generator.GenerateThread(r.Context(), generator.ThreadOptions{
			Topic:      req.Topic,
			TweetCount: req.Tweets,
			Spice:      req.Spice,
			FullDraft:  req.Draft,
			MinChars:   req.MinChars,
			MaxChars:   req.MaxChars,
		})
		if err != nil {
			writeGenerationError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, generationResponse(drafts))
	}
}

type generateReplyRequest struct {
	Tweet    string `json:"tweet"`
	Tone     string `json:"tone"`
	N        int    `json:"n"`
	MinChars int    `json:"min_chars"`
	MaxChars int    `json:"max_chars"`
	Context  string `json:"context"`
	Intent   string `json:"intent"`
}

func handleGenerateReplies(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := generateReplyRequest{Tone: "neutral", N: 3, MaxChars: 280}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Tweet == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "tweet is required")
			return
		}

		drafts, err := deps.Generator.GenerateReplies(r.Context(), generator.ReplyOptions{
			OriginalTweet: req.Tweet,
			Tone:          req.Tone,
			Count:         req.N,
			MinChars:      req.MinChars,
			MaxChars:      req.MaxChars,
			Context:       req.Context,
			Intent:        req.Intent,
		})
		if err != nil {
			writeGenerationError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, generationResponse(drafts))
	}
}

type reviewRequest struct {
	Last       int  `json:"last"`
	AutoRefine bool `json:"auto_refine"`
}

func handleReview(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := reviewRequest{Last: 10, AutoRefine: true}
		if !decodeBody(w, r, &req) {
			return
		}

		reviews, err := deps.Reviewer.ReviewRecent(r.Context(), req.Last, req.AutoRefine)
		if errors.Is(err, reviewer.ErrNoPersona) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "review failed: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"reviewed": len(reviews)})
	}
}

type checkSuppressionRequest struct {
	Text string `json:"text"`
}

func handleCheckSuppression(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkSuppressionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Text == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "text is required")
			return
		}
		writeJSON(w, http.StatusOK, reviewer.CheckSuppression(req.Text))
	}
}

func handleGetDraft(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		draft, err := deps.Store.DraftByID(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found_error", "draft %s not found", id)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "loading draft: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, draft)
	}
}

func generationResponse(drafts []storage.Draft) map[string]any {
	ids := make([]string, len(drafts))
	for i, d := range drafts {
		ids[i] = d.ID
	}
	return map[string]any{"generation_ids": ids, "drafts": drafts}
}

func writeGenerationError(w http.ResponseWriter, err error) {
	if errors.Is(err, generator.ErrNoPersona) {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
		return
	}
	httpError(w, http.StatusInternalServerError, "api_error", "generation failed: %v", err)
}

// decodeBody decodes a JSON request body into dst, writing the error
// response itself on failure. An empty body leaves dst untouched so
// request defaults apply.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
