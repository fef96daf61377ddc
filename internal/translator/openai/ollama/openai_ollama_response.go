package ollama

import (
	"fmt"
	"time"

	"github.com/chatbridge/chatbridge/internal/canonical"
	"github.com/chatbridge/chatbridge/internal/translator/common"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/tidwall/gjson"
)

// ConvertOllamaResponseToOpenAI converts a completed Ollama generate or chat
// response into an OpenAI chat.completion. Token counts come from
// prompt_eval_count and eval_count.
func ConvertOllamaResponseToOpenAI(opts sdktranslator.Options, rawJSON []byte) ([]byte, error) {
	root := gjson.ParseBytes(rawJSON)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: ollama response must be a JSON object", sdktranslator.ErrInvalidPayload)
	}

	resp := canonical.Response{
		ID:         opts.ID("", "chatcmpl-"),
		Model:      root.Get("model").String(),
		StopReason: canonical.StopReasonFromOllama(root.Get("done_reason").String()),
		Usage: canonical.Usage{
			InputTokens:  root.Get("prompt_eval_count").Int(),
			OutputTokens: root.Get("eval_count").Int(),
		},
	}

	text := root.Get("response")
	if !text.Exists() {
		text = root.Get("message.content")
	}
	if s := text.String(); s != "" {
		resp.Content = append(resp.Content, canonical.TextBlock{Text: s})
	}

	finish := ""
	root.Get("message.tool_calls").ForEach(func(_, call gjson.Result) bool {
		fn := call.Get("function")
		resp.Content = append(resp.Content, canonical.ToolUseBlock{
			ID:    opts.ID(call.Get("id").String(), "call_"),
			Name:  fn.Get("name").String(),
			Input: canonical.ToolInput(fn.Get("arguments")),
		})
		resp.StopReason = canonical.StopToolUse
		finish = "tool_calls"
		return true
	})
	resp.EnsureContent()

	created := opts.Timestamp()
	if ts, err := time.Parse(time.RFC3339Nano, root.Get("created_at").String()); err == nil {
		created = ts
	}

	out := common.RenderOpenAIResponse(resp, common.OpenAIRenderOptions{
		Created:      created.Unix(),
		FinishReason: finish,
	})
	return []byte(out), nil
}
