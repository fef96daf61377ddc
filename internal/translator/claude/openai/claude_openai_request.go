// Package openai provides translation from the OpenAI Chat Completions format to
// the Anthropic Messages format. It hoists the system prompt into the top-level
// system field, turns tool calls into tool_use blocks and guarantees the explicit
// max_tokens value Claude requires.
package openai

import (
	"fmt"

	"github.com/chatbridge/chatbridge/internal/canonical"
	"github.com/chatbridge/chatbridge/internal/translator/common"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ConvertOpenAIRequestToClaude parses an OpenAI Chat Completions request and
// transforms it into an Anthropic Messages request. Only the first system message
// is kept; message content is always emitted as a block array.
func ConvertOpenAIRequestToClaude(opts sdktranslator.Options, rawJSON []byte) ([]byte, error) {
	root := gjson.ParseBytes(rawJSON)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: openai request must be a JSON object", sdktranslator.ErrInvalidPayload)
	}

	out := `{"model":"","max_tokens":0,"messages":[]}`
	model := root.Get("model").String()
	if model == "" {
		model = opts.DefaultModel
	}
	out, _ = sjson.Set(out, "model", model)

	maxTokens, ok := common.ReadMaxTokens(root, "max_tokens", "max_completion_tokens")
	if !ok {
		maxTokens = int64(opts.DefaultMaxTokens)
		if maxTokens <= 0 {
			maxTokens = sdktranslator.DefaultMaxTokens
		}
	}
	out, _ = sjson.Set(out, "max_tokens", maxTokens)

	conv := common.ReadOpenAIMessages(root.Get("messages"))
	if conv.HasSystem && conv.System != "" {
		out, _ = sjson.Set(out, "system", conv.System)
	}

	// Legacy function messages carry only a name; pair them with the id of the
	// most recent call to that function.
	lastIDByName := make(map[string]string)
	for _, msg := range conv.Messages {
		blocks := msg.Content.Blocks()
		if len(blocks) == 0 {
			continue
		}
		item := `{"role":"","content":[]}`
		item, _ = sjson.Set(item, "role", string(msg.Role))
		for _, block := range blocks {
			switch b := block.(type) {
			case canonical.TextBlock:
				part := `{"type":"text","text":""}`
				part, _ = sjson.Set(part, "text", b.Text)
				item, _ = sjson.SetRaw(item, "content.-1", part)
			case canonical.ToolUseBlock:
				id := opts.ID(b.ID, "toolu_")
				lastIDByName[b.Name] = id
				part := `{"type":"tool_use","id":"","name":"","input":{}}`
				part, _ = sjson.Set(part, "id", id)
				part, _ = sjson.Set(part, "name", b.Name)
				if len(b.Input) > 0 {
					part, _ = sjson.Set(part, "input", b.Input)
				}
				item, _ = sjson.SetRaw(item, "content.-1", part)
			case canonical.ToolResultBlock:
				id := b.ToolUseID
				if id == "" {
					id = lastIDByName[b.Name]
				}
				part := `{"type":"tool_result","tool_use_id":"","content":""}`
				part, _ = sjson.Set(part, "tool_use_id", id)
				part, _ = sjson.Set(part, "content", b.Content)
				item, _ = sjson.SetRaw(item, "content.-1", part)
			}
		}
		out, _ = sjson.SetRaw(out, "messages.-1", item)
	}

	if temperature := root.Get("temperature"); temperature.Type == gjson.Number {
		out, _ = sjson.SetRaw(out, "temperature", temperature.Raw)
	}
	if topP := root.Get("top_p"); topP.Type == gjson.Number {
		out, _ = sjson.SetRaw(out, "top_p", topP.Raw)
	}
	if stops := common.ReadStopSequences(root.Get("stop")); len(stops) > 0 {
		out, _ = sjson.Set(out, "stop_sequences", stops)
	}
	out, _ = sjson.Set(out, "stream", root.Get("stream").Bool())

	tools := canonical.ParseToolSpecs(root.Get("tools"), "parameters")
	tools = append(tools, canonical.ParseToolSpecs(root.Get("functions"), "parameters")...)
	for _, tool := range tools {
		item := `{"name":"","description":"","input_schema":{"type":"object","properties":{}}}`
		item, _ = sjson.Set(item, "name", tool.Name)
		item, _ = sjson.Set(item, "description", tool.Description)
		if tool.Schema != nil {
			item, _ = sjson.Set(item, "input_schema", tool.Schema)
		}
		out, _ = sjson.SetRaw(out, "tools.-1", item)
	}

	choice := root.Get("tool_choice")
	if !choice.Exists() {
		choice = root.Get("function_call")
	}
	if toolChoice, ok := convertToolChoice(choice); ok {
		out, _ = sjson.SetRaw(out, "tool_choice", toolChoice)
	}

	return []byte(out), nil
}

// convertToolChoice maps OpenAI tool_choice / function_call values onto Claude's
// tool_choice object. "none" has no Claude equivalent and is dropped.
func convertToolChoice(choice gjson.Result) (string, bool) {
	switch {
	case choice.Type == gjson.String:
		switch choice.String() {
		case "auto":
			return `{"type":"auto"}`, true
		case "required":
			return `{"type":"any"}`, true
		}
	case choice.IsObject():
		name := choice.Get("function.name").String()
		if name == "" {
			name = choice.Get("name").String()
		}
		if name != "" {
			out, _ := sjson.Set(`{"type":"tool","name":""}`, "name", name)
			return out, true
		}
	}
	return "", false
}
