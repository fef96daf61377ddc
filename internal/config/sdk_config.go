package config

import (
	"strings"

	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
)

// ConversionConfig holds the translator engine settings.
type ConversionConfig struct {
	// DefaultMaxTokens is applied when a target format requires an explicit token
	// limit and the source request omits one. <= 0 uses the engine default (4096).
	DefaultMaxTokens int `yaml:"default-max-tokens,omitempty" json:"default-max-tokens,omitempty"`

	// DefaultModels maps a target format name (claude, openai, gemini, ollama) to the
	// model name attached when the source payload carries none.
	DefaultModels map[string]string `yaml:"default-models,omitempty" json:"default-models,omitempty"`
}

// EngineOptions converts the conversion settings into engine options.
func (c ConversionConfig) EngineOptions() []sdktranslator.EngineOption {
	var opts []sdktranslator.EngineOption
	if c.DefaultMaxTokens > 0 {
		opts = append(opts, sdktranslator.WithDefaultMaxTokens(c.DefaultMaxTokens))
	}
	if len(c.DefaultModels) > 0 {
		models := make(map[sdktranslator.Format]string, len(c.DefaultModels))
		for name, model := range c.DefaultModels {
			models[sdktranslator.FromString(name)] = strings.TrimSpace(model)
		}
		opts = append(opts, sdktranslator.WithDefaultModels(models))
	}
	return opts
}
