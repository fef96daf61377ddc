package openai

import (
	"fmt"

	"github.com/chatbridge/chatbridge/internal/translator/common"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/tidwall/gjson"
)

// ConvertOpenAIResponseToClaude converts a non-streaming OpenAI chat.completion
// into an Anthropic Messages response. A response without choices becomes an
// empty text block with zeroed usage; malformed tool arguments are preserved
// under raw_arguments and the content list is never empty.
func ConvertOpenAIResponseToClaude(opts sdktranslator.Options, rawJSON []byte) ([]byte, error) {
	root := gjson.ParseBytes(rawJSON)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: openai response must be a JSON object", sdktranslator.ErrInvalidPayload)
	}

	resp := common.ReadOpenAIResponse(root, opts.NewID)
	resp.ID = opts.ID(resp.ID, "msg_")
	return []byte(common.RenderClaudeResponse(resp)), nil
}
