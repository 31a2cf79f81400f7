// Package provider abstracts the external text- and JSON-generation
// capabilities. Callers pick a provider by role (profile|generate|review),
// never by provider-specific logic; at least two implementations exist:
// a cloud API-backed one (OpenAI) and a locally-hosted HTTP one (Ollama
// or any OpenAI-compatible server).
package provider

import "context"

// Capability roles, mapped to model choices by configuration.
const (
	RoleProfile  = "profile"
	RoleGenerate = "generate"
	RoleReview   = "review"
)

// TextOptions tune a free-form text generation call.
type TextOptions struct {
	Model       string // override; provider default when empty
	Temperature float64
	MaxTokens   int
}

// JSONOptions tune a structured generation call.
type JSONOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Schema is a loose JSON-schema hint passed to providers that support
// structured output natively. Parsing is always validated by the caller.
type Schema struct {
	Type       string                    `json:"type"`
	Properties map[string]SchemaProperty `json:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty"`
}

// SchemaProperty describes a single field within a Schema.
type SchemaProperty struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Provider is the external LLM capability. GenerateJSON must recover JSON
// embedded in prose or code fences; on total failure it returns an
// error-tagged object (keys "error" and "raw"), never a raw transport
// error, so callers can degrade to empty results.
type Provider interface {
	Name() string
	GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error)
	GenerateJSON(ctx context.Context, prompt string, schema *Schema, opts JSONOptions) (map[string]any, error)
}

// IsError reports whether a GenerateJSON result is an error-tagged object.
func IsError(result map[string]any) bool {
	_, ok := result["error"]
	return ok
}

// errObject builds an error-tagged result object.
func errObject(msg, raw string) map[string]any {
	obj := map[string]any{"error": msg}
	if raw != "" {
		if len(raw) > 500 {
			raw = raw[:500]
		}
		obj["raw"] = raw
	}
	return obj
}
