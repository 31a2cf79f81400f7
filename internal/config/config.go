// Package config loads application configuration from environment
// variables, with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Provider names selectable via LLM_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)

type Config struct {
	DataDir  string
	Port     int
	LogLevel string

	// Provider selection and per-role model choices.
	Provider      string
	ModelProfile  string
	ModelGenerate string
	ModelReview   string

	// OpenAI.
	OpenAIAPIKey string

	// Local LLM (Ollama-compatible HTTP server).
	LocalBaseURL string
	LocalModel   string
}

func defaults() Config {
	return Config{
		DataDir:       defaultDataDir(),
		Port:          8765,
		LogLevel:      "info",
		Provider:      ProviderOpenAI,
		ModelProfile:  "gpt-4o",
		ModelGenerate: "gpt-4o-mini",
		ModelReview:   "gpt-4o-mini",
		LocalBaseURL:  "http://127.0.0.1:11434",
		LocalModel:    "llama3",
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(home, ".tweetdna")
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	setString(&cfg.DataDir, "TWEETDNA_DATA_DIR")
	setString(&cfg.LogLevel, "TWEETDNA_LOG_LEVEL")
	setString(&cfg.Provider, "LLM_PROVIDER")
	setString(&cfg.ModelProfile, "LLM_MODEL_PROFILE")
	setString(&cfg.ModelGenerate, "LLM_MODEL_GENERATE")
	setString(&cfg.ModelReview, "LLM_MODEL_REVIEW")
	setString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.LocalBaseURL, "LOCAL_LLM_BASE_URL")
	setString(&cfg.LocalModel, "LOCAL_LLM_MODEL")

	if v := os.Getenv("TWEETDNA_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TWEETDNA_PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if cfg.Provider != ProviderOpenAI && cfg.Provider != ProviderLocal {
		return Config{}, fmt.Errorf("invalid LLM_PROVIDER %q: must be %q or %q", cfg.Provider, ProviderOpenAI, ProviderLocal)
	}

	return cfg, nil
}

// ModelForRole maps a capability role (profile|generate|review) to the
// configured model name. Unknown roles fall back to the generation model.
func (c Config) ModelForRole(role string) string {
	switch role {
	case "profile":
		return c.ModelProfile
	case "review":
		return c.ModelReview
	default:
		return c.ModelGenerate
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
