// Package llm provides the language-model gateway client, the vision model used for OCR,
// and helpers for pulling JSON out of model responses.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierStandard is for extraction and structured output: resume parsing, ATS scoring
	TierStandard ModelTier = "standard"
	// TierAdvanced is for rubric-heavy judgement: interview evaluation
	TierAdvanced ModelTier = "advanced"
)

// Config holds the model names used for each tier
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
}

// NewConfig returns a config with the given standard and advanced models.
// An empty advanced model falls back to the standard one.
func NewConfig(standard, advanced string) *Config {
	models := map[ModelTier]string{TierStandard: standard}
	if advanced != "" {
		models[TierAdvanced] = advanced
	}
	return &Config{Models: models, Temperature: 0.2}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	return c.Models[TierStandard]
}
