package gemini

import (
	. "github.com/chatbridge/chatbridge/internal/constant"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
)

// Register adds the Gemini -> OpenAI pair to the registry.
func Register(registry *sdktranslator.Registry) {
	registry.Register(
		sdktranslator.FromString(Gemini),
		sdktranslator.FromString(OpenAI),
		ConvertGeminiRequestToOpenAI,
		ConvertGeminiResponseToOpenAI,
	)
}
