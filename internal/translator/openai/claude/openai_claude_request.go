// Package claude provides translation from the Anthropic Messages format to the
// OpenAI Chat Completions format. Requests use the legacy functions/function_call
// shape, so at most one tool invocation per assistant turn survives.
package claude

import (
	"fmt"

	"github.com/chatbridge/chatbridge/internal/canonical"
	"github.com/chatbridge/chatbridge/internal/translator/common"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ConvertClaudeRequestToOpenAI parses an Anthropic Messages request and transforms it
// into an OpenAI Chat Completions request. The top-level system prompt becomes a
// system message at index 0 and tools become legacy functions.
func ConvertClaudeRequestToOpenAI(opts sdktranslator.Options, rawJSON []byte) ([]byte, error) {
	root := gjson.ParseBytes(rawJSON)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: claude request must be a JSON object", sdktranslator.ErrInvalidPayload)
	}

	out := `{"model":"","messages":[]}`
	model := root.Get("model").String()
	if model == "" {
		model = opts.DefaultModel
	}
	out, _ = sjson.Set(out, "model", model)

	if system := canonical.ParseContent(root.Get("system")).Text(); system != "" {
		msg := `{"role":"system","content":""}`
		msg, _ = sjson.Set(msg, "content", system)
		out, _ = sjson.SetRaw(out, "messages.-1", msg)
	}

	var messages []canonical.Message
	root.Get("messages").ForEach(func(_, msg gjson.Result) bool {
		messages = append(messages, canonical.Message{
			Role:    canonical.Role(msg.Get("role").String()),
			Content: canonical.ParseContent(msg.Get("content")),
		})
		return true
	})
	toolNames := common.ToolNamesByID(messages)

	for _, msg := range messages {
		// Tool results answer the preceding assistant call, so they go first.
		results := msg.Content.ToolResults()
		for _, result := range results {
			name := toolNames[result.ToolUseID]
			if name == "" {
				name = result.ToolUseID
			}
			fnMsg := `{"role":"function","name":"","content":""}`
			fnMsg, _ = sjson.Set(fnMsg, "name", name)
			fnMsg, _ = sjson.Set(fnMsg, "content", result.Content)
			out, _ = sjson.SetRaw(out, "messages.-1", fnMsg)
		}

		text := msg.Content.Text()
		toolUses := msg.Content.ToolUses()
		if msg.Role == canonical.RoleAssistant && len(toolUses) > 0 {
			asst := `{"role":"assistant","content":null,"function_call":{"name":"","arguments":""}}`
			if text != "" {
				asst, _ = sjson.Set(asst, "content", text)
			}
			asst, _ = sjson.Set(asst, "function_call.name", toolUses[0].Name)
			asst, _ = sjson.Set(asst, "function_call.arguments", canonical.MarshalArguments(toolUses[0].Input))
			out, _ = sjson.SetRaw(out, "messages.-1", asst)
			continue
		}
		if text == "" && len(results) > 0 {
			continue
		}

		role := string(msg.Role)
		if role == "" {
			role = string(canonical.RoleUser)
		}
		plain := `{"role":"","content":""}`
		plain, _ = sjson.Set(plain, "role", role)
		plain, _ = sjson.Set(plain, "content", text)
		out, _ = sjson.SetRaw(out, "messages.-1", plain)
	}

	if maxTokens, ok := common.ReadMaxTokens(root, "max_tokens"); ok {
		out, _ = sjson.Set(out, "max_tokens", maxTokens)
	}
	if temperature := root.Get("temperature"); temperature.Type == gjson.Number {
		out, _ = sjson.SetRaw(out, "temperature", temperature.Raw)
	}
	if topP := root.Get("top_p"); topP.Type == gjson.Number {
		out, _ = sjson.SetRaw(out, "top_p", topP.Raw)
	}
	if stops := common.ReadStopSequences(root.Get("stop_sequences")); len(stops) > 0 {
		out, _ = sjson.Set(out, "stop", stops)
	}
	out, _ = sjson.Set(out, "stream", root.Get("stream").Bool())

	if tools := canonical.ParseToolSpecs(root.Get("tools"), "input_schema"); len(tools) > 0 {
		for _, tool := range tools {
			fn := `{"name":"","description":"","parameters":{"type":"object","properties":{}}}`
			fn, _ = sjson.Set(fn, "name", tool.Name)
			fn, _ = sjson.Set(fn, "description", tool.Description)
			if tool.Schema != nil {
				fn, _ = sjson.Set(fn, "parameters", tool.Schema)
			}
			out, _ = sjson.SetRaw(out, "functions.-1", fn)
		}
	}

	if toolChoice := root.Get("tool_choice"); toolChoice.IsObject() {
		switch toolChoice.Get("type").String() {
		case "tool":
			out, _ = sjson.Set(out, "function_call.name", toolChoice.Get("name").String())
		case "none":
			out, _ = sjson.Set(out, "function_call", "none")
		default:
			out, _ = sjson.Set(out, "function_call", "auto")
		}
	}

	return []byte(out), nil
}
