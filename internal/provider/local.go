package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Local talks to a locally-hosted LLM over HTTP. It speaks the Ollama
// generate API when pointed at an Ollama port and falls back to the
// OpenAI-compatible chat endpoint otherwise (LM Studio and friends).
type Local struct {
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

// NewLocal creates a Local provider for the given base URL and default model.
func NewLocal(baseURL, defaultModel string) *Local {
	return &Local{
		baseURL:      strings.TrimRight(baseURL, "/"),
		defaultModel: defaultModel,
		httpClient: &http.Client{
			// Local models can be slow; rely on ctx for cancellation.
			Timeout: 120 * time.Second,
		},
	}
}

func (l *Local) Name() string { return "local" }

// isOllama reports whether the endpoint looks like an Ollama server.
func (l *Local) isOllama() bool {
	return strings.Contains(l.baseURL, "11434")
}

// GenerateText generates free-form text. Transport failures degrade to a
// stub response rather than an error, so the pipeline stays usable offline.
func (l *Local) GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = l.defaultModel
	}
	temperature := opts.Temperature
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	out, err := l.complete(ctx, prompt, model, temperature, maxTokens)
	if err != nil {
		slog.Warn("local provider unreachable, using stub", "error", err)
		return stubText(), nil
	}
	return out, nil
}

// GenerateJSON requests JSON output and parses it defensively. Transport
// and parse failures yield an error-tagged object, never a raw error.
func (l *Local) GenerateJSON(ctx context.Context, prompt string, _ *Schema, opts JSONOptions) (map[string]any, error) {
	model := opts.Model
	if model == "" {
		model = l.defaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	// Most local models don't support structured output natively; ask for
	// JSON in the prompt and recover defensively.
	jsonPrompt := "You must respond with valid JSON only. No other text or explanation.\n\n" +
		prompt + "\n\nRespond with JSON only:"

	out, err := l.complete(ctx, jsonPrompt, model, opts.Temperature, maxTokens)
	if err != nil {
		slog.Warn("local provider unreachable, using stub", "error", err)
		return stubJSON(prompt), nil
	}
	return recoverJSON(out), nil
}

func (l *Local) complete(ctx context.Context, prompt, model string, temperature float64, maxTokens int) (string, error) {
	if l.isOllama() {
		return l.ollamaGenerate(ctx, prompt, model, temperature, maxTokens)
	}
	return l.openAICompatGenerate(ctx, prompt, model, temperature, maxTokens)
}

// ollamaGenerateRequest is the JSON body for POST /api/generate.
type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

func (l *Local) ollamaGenerate(ctx context.Context, prompt, model string, temperature float64, maxTokens int) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature": temperature,
			"num_predict": maxTokens,
		},
	})
	if err != nil {
		return "", err
	}

	respBody, err := l.post(ctx, l.baseURL+"/api/generate", body)
	if err != nil {
		return "", err
	}

	var result ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding generate response: %w", err)
	}
	return result.Response, nil
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (l *Local) openAICompatGenerate(ctx context.Context, prompt, model string, temperature float64, maxTokens int) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	respBody, err := l.post(ctx, l.baseURL+"/v1/chat/completions", body)
	if err != nil {
		return "", err
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}
	return result.Choices[0].Message.Content, nil
}

func (l *Local) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("local llm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("local llm: unexpected status %d", resp.StatusCode)
	}

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return buf.Bytes(), nil
}
