package claude

import (
	. "github.com/chatbridge/chatbridge/internal/constant"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
)

// Register adds the Claude -> OpenAI pair to the registry.
func Register(registry *sdktranslator.Registry) {
	registry.Register(
		sdktranslator.FromString(Claude),
		sdktranslator.FromString(OpenAI),
		ConvertClaudeRequestToOpenAI,
		ConvertClaudeResponseToOpenAI,
	)
}
