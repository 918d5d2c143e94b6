// Package llm provides the Gemini client abstraction and model tier
// configuration for the resume pipeline.
package llm

import "time"

// ModelTier selects which model a call runs against. Every model-backed
// operation tries TierPrimary first and retries once on TierSecondary before
// falling back to a deterministic local result.
type ModelTier string

const (
	// TierPrimary is the first-choice model for extraction and analysis.
	TierPrimary ModelTier = "primary"
	// TierSecondary is the lower-tier retry model used when the primary
	// call fails or returns unparseable output.
	TierSecondary ModelTier = "secondary"
)

// Provider represents an LLM provider.
type Provider string

// ProviderGemini is the Google Gemini provider.
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// Timeout bounds each outbound model call. Expiry is treated like any
	// other call failure and proceeds down the fallback chain.
	Timeout time.Duration
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierPrimary:   "gemini-2.0-flash",
			TierSecondary: "gemini-1.5-pro",
		},
		Timeout: 60 * time.Second,
	}
}

// GetModel returns the model name for a given tier, falling back to the
// primary model when the tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierPrimary]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the Config with a specific model for a tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)),
		Timeout:  c.Timeout,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
