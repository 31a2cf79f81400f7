package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tweetdna/tweetdna/internal/generator"
	"github.com/tweetdna/tweetdna/internal/reviewer"
	"github.com/tweetdna/tweetdna/internal/storage"
)

// NewMCPServer creates an MCP server exposing generation and review tools
// so agent clients can drive the pipeline directly.
func NewMCPServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"tweetdna",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("tweetdna: persona-grounded tweet, thread, and reply drafting with ranking-signal alignment checks."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("generate_tweets",
			mcp.WithDescription("Generate tweet drafts in the profiled voice for a topic."),
			mcp.WithString("topic", mcp.Description("Topic or prompt to write about"), mcp.Required()),
			mcp.WithNumber("n", mcp.Description("Number of drafts (default 5)")),
			mcp.WithString("spice", mcp.Description("Spice level: low, medium, or high")),
			mcp.WithString("target_engagement", mcp.Description("Engagement target: reply, like, repost, or mixed")),
		),
		mcpGenerateTweets(deps),
	)

	s.AddTool(
		mcp.NewTool("generate_replies",
			mcp.WithDescription("Generate reply drafts to a tweet in the profiled voice."),
			mcp.WithString("tweet", mcp.Description("The tweet text being replied to"), mcp.Required()),
			mcp.WithString("tone", mcp.Description("Reply tone, e.g. neutral, supportive, sarcastic")),
			mcp.WithNumber("n", mcp.Description("Number of reply drafts (default 3)")),
			mcp.WithString("intent", mcp.Description("Reply intent, e.g. agree_extend, challenge, joke")),
		),
		mcpGenerateReplies(deps),
	)

	s.AddTool(
		mcp.NewTool("review_draft",
			mcp.WithDescription("Review a stored draft for persona and algorithm alignment."),
			mcp.WithString("draft_id", mcp.Description("ID of the draft to review"), mcp.Required()),
			mcp.WithBoolean("auto_refine", mcp.Description("Ask for revised text when alignment is low")),
		),
		mcpReviewDraft(deps),
	)

	s.AddTool(
		mcp.NewTool("check_suppression",
			mcp.WithDescription("Run the deterministic suppression-risk check on a text. No LLM call."),
			mcp.WithString("text", mcp.Description("Text to classify"), mcp.Required()),
		),
		mcpCheckSuppression(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"persona://latest",
			"Latest Persona",
			mcp.WithResourceDescription("Most recent persona profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourcePersona(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"drafts://recent",
			"Recent Drafts",
			mcp.WithResourceDescription("Last 10 generated drafts"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceDrafts(deps),
	)

	return s
}

func mcpGenerateTweets(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		topic, err := req.RequireString("topic")
		if err != nil {
			return mcpError("topic is required"), nil
		}

		drafts, err := deps.Generator.GenerateTweets(ctx, generator.TweetOptions{
			Topic:            topic,
			Count:            req.GetInt("n", 5),
			Spice:            req.GetString("spice", ""),
			TargetEngagement: req.GetString("target_engagement", "reply"),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("generation failed: %v", err)), nil
		}
		return mcpDrafts(drafts)
	}
}

func mcpGenerateReplies(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tweet, err := req.RequireString("tweet")
		if err != nil {
			return mcpError("tweet is required"), nil
		}

		drafts, err := deps.Generator.GenerateReplies(ctx, generator.ReplyOptions{
			OriginalTweet: tweet,
			Tone:          req.GetString("tone", "neutral"),
			Count:         req.GetInt("n", 3),
			Intent:        req.GetString("intent", ""),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("reply generation failed: %v", err)), nil
		}
		return mcpDrafts(drafts)
	}
}

func mcpReviewDraft(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		draftID, err := req.RequireString("draft_id")
		if err != nil {
			return mcpError("draft_id is required"), nil
		}

		review, err := deps.Reviewer.ReviewDraft(ctx, draftID, req.GetBool("auto_refine", false))
		if err != nil {
			return mcpError(fmt.Sprintf("review failed: %v", err)), nil
		}

		b, err := json.Marshal(review)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal review: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpCheckSuppression(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcpError("text is required"), nil
		}

		check := reviewer.CheckSuppression(text)
		b, err := json.Marshal(check)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourcePersona(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		p, err := deps.Store.LatestPersona()
		if err != nil {
			return nil, fmt.Errorf("failed to load persona: %w", err)
		}

		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal persona: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceDrafts(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		drafts, err := deps.Store.RecentDrafts(10)
		if err != nil {
			return nil, fmt.Errorf("failed to load drafts: %w", err)
		}

		type draftSummary struct {
			ID    string `json:"id"`
			Kind  string `json:"kind"`
			Topic string `json:"topic"`
			Text  string `json:"text"`
		}

		summaries := make([]draftSummary, len(drafts))
		for i, d := range drafts {
			summaries[i] = draftSummary{
				ID:    d.ID,
				Kind:  d.Kind,
				Topic: d.Topic,
				Text:  strings.Join(d.Text, "\n"),
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal drafts: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpDrafts(drafts []storage.Draft) (*mcp.CallToolResult, error) {
	type draftResult struct {
		ID         string   `json:"id"`
		Kind       string   `json:"kind"`
		Text       []string `json:"text"`
		Tags       []string `json:"tags,omitempty"`
		Rationale  string   `json:"rationale,omitempty"`
		Confidence float64  `json:"confidence"`
	}

	results := make([]draftResult, len(drafts))
	for i, d := range drafts {
		results[i] = draftResult{
			ID:         d.ID,
			Kind:       d.Kind,
			Text:       d.Text,
			Tags:       d.Tags,
			Rationale:  d.Rationale,
			Confidence: d.Confidence,
		}
	}

	b, err := json.Marshal(results)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal drafts: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
