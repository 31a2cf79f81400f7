package provider

import "github.com/tweetdna/tweetdna/internal/config"

// ForRole builds the configured provider for a capability role. The role
// selects the model; the provider kind comes from configuration alone.
func ForRole(cfg config.Config, role string) Provider {
	switch cfg.Provider {
	case config.ProviderLocal:
		return NewLocal(cfg.LocalBaseURL, cfg.LocalModel)
	default:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.ModelForRole(role))
	}
}
