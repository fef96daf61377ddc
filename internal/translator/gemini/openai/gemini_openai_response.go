package openai

import (
	"fmt"

	"github.com/chatbridge/chatbridge/internal/translator/common"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/tidwall/gjson"
)

// ConvertOpenAIResponseToGemini converts a non-streaming OpenAI chat.completion into
// a Gemini generateContent response with a single candidate.
func ConvertOpenAIResponseToGemini(opts sdktranslator.Options, rawJSON []byte) ([]byte, error) {
	root := gjson.ParseBytes(rawJSON)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: openai response must be a JSON object", sdktranslator.ErrInvalidPayload)
	}

	resp := common.ReadOpenAIResponse(root, opts.NewID)
	finish := geminiFinishReason(root.Get("choices.0.finish_reason").String())
	return []byte(common.RenderGeminiResponse(resp, finish)), nil
}

func geminiFinishReason(reason string) string {
	switch reason {
	case "length":
		return "MAX_TOKENS"
	case "content_filter":
		return "SAFETY"
	default:
		return "STOP"
	}
}
