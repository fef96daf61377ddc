package gemini

import (
	"fmt"
	"strings"

	"github.com/chatbridge/chatbridge/internal/canonical"
	"github.com/chatbridge/chatbridge/internal/translator/common"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/tidwall/gjson"
)

// ConvertGeminiResponseToOpenAI converts a Gemini generateContent response into an
// OpenAI chat.completion. Only the first candidate is used; its text parts are
// joined and functionCall parts become tool_calls. The upper-case finishReason is
// case-folded before mapping.
func ConvertGeminiResponseToOpenAI(opts sdktranslator.Options, rawJSON []byte) ([]byte, error) {
	root := gjson.ParseBytes(rawJSON)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: gemini response must be a JSON object", sdktranslator.ErrInvalidPayload)
	}

	resp := canonical.Response{
		ID:    opts.ID(root.Get("responseId").String(), "chatcmpl-"),
		Model: root.Get("modelVersion").String(),
		Usage: canonical.Usage{
			InputTokens:  root.Get("usageMetadata.promptTokenCount").Int(),
			OutputTokens: root.Get("usageMetadata.candidatesTokenCount").Int(),
		},
	}
	candidate := root.Get("candidates.0")
	text, calls, _ := readParts(candidate.Get("content.parts"))
	if text != "" {
		resp.Content = append(resp.Content, canonical.TextBlock{Text: text})
	}
	for _, call := range calls {
		call.ID = opts.ID(call.ID, "call_")
		resp.Content = append(resp.Content, call)
	}
	resp.EnsureContent()

	reason := strings.ToLower(candidate.Get("finishReason").String())
	resp.StopReason = canonical.StopReasonFromGemini(reason)
	finish := openAIFinishReason(reason)
	if len(calls) > 0 {
		resp.StopReason = canonical.StopToolUse
		finish = "tool_calls"
	}

	out := common.RenderOpenAIResponse(resp, common.OpenAIRenderOptions{
		Created:      opts.Timestamp().Unix(),
		FinishReason: finish,
	})
	return []byte(out), nil
}

// openAIFinishReason maps a case-folded Gemini finishReason.
func openAIFinishReason(reason string) string {
	switch reason {
	case "max_tokens":
		return "length"
	case "safety", "recitation", "blocklist", "prohibited_content", "spii", "image_safety":
		return "content_filter"
	default:
		return "stop"
	}
}
