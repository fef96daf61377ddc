package claude

import (
	"fmt"

	"github.com/chatbridge/chatbridge/internal/canonical"
	"github.com/chatbridge/chatbridge/internal/translator/common"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/tidwall/gjson"
)

// ConvertClaudeResponseToOpenAI converts an Anthropic Messages response into an
// OpenAI chat.completion. Text blocks are joined with a newline. Tool use is
// rendered as the legacy single function_call: when several tool_use blocks are
// present only the first one is kept.
func ConvertClaudeResponseToOpenAI(opts sdktranslator.Options, rawJSON []byte) ([]byte, error) {
	root := gjson.ParseBytes(rawJSON)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: claude response must be a JSON object", sdktranslator.ErrInvalidPayload)
	}

	resp := canonical.Response{
		ID:         opts.ID(root.Get("id").String(), "chatcmpl-"),
		Model:      root.Get("model").String(),
		Content:    canonical.ParseContent(root.Get("content")).Blocks(),
		StopReason: canonical.StopReasonFromClaude(root.Get("stop_reason").String()),
		Usage: canonical.Usage{
			InputTokens:  root.Get("usage.input_tokens").Int(),
			OutputTokens: root.Get("usage.output_tokens").Int(),
		},
	}

	out := common.RenderOpenAIResponse(resp, common.OpenAIRenderOptions{
		Created:            opts.Timestamp().Unix(),
		LegacyFunctionCall: true,
	})
	return []byte(out), nil
}
