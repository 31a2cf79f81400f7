package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Reasoning-model families that reject custom temperature values.
var noTemperatureModels = []string{"gpt-5", "o1", "o3"}

// OpenAI is the cloud API-backed provider. When constructed without an API
// key it serves deterministic stub responses so the rest of the pipeline
// can be exercised without credentials.
type OpenAI struct {
	client       *openai.Client
	defaultModel string
}

// NewOpenAI creates an OpenAI provider. An empty apiKey yields a stub-only
// provider rather than an error.
func NewOpenAI(apiKey, defaultModel string) *OpenAI {
	p := &OpenAI{defaultModel: defaultModel}
	if apiKey != "" && apiKey != "stub" {
		client := openai.NewClient(option.WithAPIKey(apiKey))
		p.client = &client
	}
	return p
}

func (o *OpenAI) Name() string { return "openai" }

func supportsTemperature(model string) bool {
	lower := strings.ToLower(model)
	for _, prefix := range noTemperatureModels {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	return true
}

// GenerateText generates free-form text via a chat completion.
func (o *OpenAI) GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error) {
	if o.client == nil {
		return stubText(), nil
	}

	model := opts.Model
	if model == "" {
		model = o.defaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	}
	if supportsTemperature(model) {
		params.Temperature = openai.Float(opts.Temperature)
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}
	return completion.Choices[0].Message.Content, nil
}

// GenerateJSON generates structured output using JSON response format.
// Transport failures degrade to an error-tagged object so callers never
// see a raw API error cross into persistence.
func (o *OpenAI) GenerateJSON(ctx context.Context, prompt string, _ *Schema, opts JSONOptions) (map[string]any, error) {
	if o.client == nil {
		return stubJSON(prompt), nil
	}

	model := opts.Model
	if model == "" {
		model = o.defaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You must respond with valid JSON only. No other text."),
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
	if supportsTemperature(model) {
		params.Temperature = openai.Float(opts.Temperature)
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return errObject(fmt.Sprintf("openai chat completion: %v", err), ""), nil
	}
	if len(completion.Choices) == 0 {
		return errObject("openai: no choices in response", ""), nil
	}
	return recoverJSON(completion.Choices[0].Message.Content), nil
}
