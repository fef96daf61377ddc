package ollama

import (
	. "github.com/chatbridge/chatbridge/internal/constant"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
)

// Register adds the Ollama -> OpenAI pair to the registry. There is no reverse
// pair; OpenAI -> Ollama goes through the generic fallback.
func Register(registry *sdktranslator.Registry) {
	registry.Register(
		sdktranslator.FromString(Ollama),
		sdktranslator.FromString(OpenAI),
		ConvertOllamaRequestToOpenAI,
		ConvertOllamaResponseToOpenAI,
	)
}
