package openai

import (
	. "github.com/chatbridge/chatbridge/internal/constant"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
)

// Register adds the OpenAI -> Gemini pair to the registry.
func Register(registry *sdktranslator.Registry) {
	registry.Register(
		sdktranslator.FromString(OpenAI),
		sdktranslator.FromString(Gemini),
		ConvertOpenAIRequestToGemini,
		ConvertOpenAIResponseToGemini,
	)
}
