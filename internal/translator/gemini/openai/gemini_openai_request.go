// Package openai provides translation from the OpenAI Chat Completions format to
// the Gemini generateContent format. Gemini has no system role and names the
// assistant "model", so both are remapped here.
package openai

import (
	"fmt"

	"github.com/chatbridge/chatbridge/internal/canonical"
	"github.com/chatbridge/chatbridge/internal/translator/common"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

type content struct {
	role  string
	parts []string
}

// ConvertOpenAIRequestToGemini transforms an OpenAI Chat Completions request into a
// Gemini generateContent request.
//
// The first system message is merged into the conversation: when the first
// entry is a user turn, the system text followed by a blank line is prepended
// as its first part; otherwise a user turn holding only the system text is
// inserted at the front. System text therefore always precedes user content.
func ConvertOpenAIRequestToGemini(_ sdktranslator.Options, rawJSON []byte) ([]byte, error) {
	root := gjson.ParseBytes(rawJSON)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: openai request must be a JSON object", sdktranslator.ErrInvalidPayload)
	}

	conv := common.ReadOpenAIMessages(root.Get("messages"))
	toolNames := common.ToolNamesByID(conv.Messages)

	var contents []content
	for _, msg := range conv.Messages {
		entry := content{role: "user"}
		if msg.Role == canonical.RoleAssistant {
			entry.role = "model"
		}
		for _, block := range msg.Content.Blocks() {
			switch b := block.(type) {
			case canonical.TextBlock:
				part, _ := sjson.Set(`{"text":""}`, "text", b.Text)
				entry.parts = append(entry.parts, part)
			case canonical.ToolUseBlock:
				part := `{"functionCall":{"name":"","args":{}}}`
				part, _ = sjson.Set(part, "functionCall.name", b.Name)
				if len(b.Input) > 0 {
					part, _ = sjson.Set(part, "functionCall.args", b.Input)
				}
				entry.parts = append(entry.parts, part)
			case canonical.ToolResultBlock:
				name := b.Name
				if name == "" {
					name = toolNames[b.ToolUseID]
				}
				part := `{"functionResponse":{"name":"","response":{"content":""}}}`
				part, _ = sjson.Set(part, "functionResponse.name", name)
				part, _ = sjson.Set(part, "functionResponse.response.content", b.Content)
				entry.parts = append(entry.parts, part)
			}
		}
		if len(entry.parts) > 0 {
			contents = append(contents, entry)
		}
	}

	if conv.HasSystem && conv.System != "" {
		contents = mergeSystem(contents, conv.System)
	}

	out := `{"contents":[]}`
	for _, entry := range contents {
		item, _ := sjson.Set(`{"role":"","parts":[]}`, "role", entry.role)
		for _, part := range entry.parts {
			item, _ = sjson.SetRaw(item, "parts.-1", part)
		}
		out, _ = sjson.SetRaw(out, "contents.-1", item)
	}

	if temperature := root.Get("temperature"); temperature.Type == gjson.Number {
		out, _ = sjson.SetRaw(out, "generationConfig.temperature", temperature.Raw)
	}
	if topP := root.Get("top_p"); topP.Type == gjson.Number {
		out, _ = sjson.SetRaw(out, "generationConfig.topP", topP.Raw)
	}
	if maxTokens, ok := common.ReadMaxTokens(root, "max_tokens", "max_completion_tokens"); ok {
		out, _ = sjson.Set(out, "generationConfig.maxOutputTokens", maxTokens)
	}
	if stops := common.ReadStopSequences(root.Get("stop")); len(stops) > 0 {
		out, _ = sjson.Set(out, "generationConfig.stopSequences", stops)
	}

	tools := canonical.ParseToolSpecs(root.Get("tools"), "parameters")
	tools = append(tools, canonical.ParseToolSpecs(root.Get("functions"), "parameters")...)
	if len(tools) > 0 {
		declarations := `[]`
		for _, tool := range tools {
			decl := `{"name":"","description":""}`
			decl, _ = sjson.Set(decl, "name", tool.Name)
			decl, _ = sjson.Set(decl, "description", tool.Description)
			if tool.Schema != nil {
				decl, _ = sjson.Set(decl, "parameters", tool.Schema)
			}
			declarations, _ = sjson.SetRaw(declarations, "-1", decl)
		}
		out, _ = sjson.SetRaw(out, "tools", `[{"functionDeclarations":`+declarations+`}]`)
	}

	choice := root.Get("tool_choice")
	if !choice.Exists() {
		choice = root.Get("function_call")
	}
	if config, ok := convertToolChoice(choice); ok {
		out, _ = sjson.SetRaw(out, "toolConfig", config)
	}

	return []byte(out), nil
}

// mergeSystem folds the system text into the leading user turn, or synthesizes
// one at the front when the conversation does not open with a user turn.
func mergeSystem(contents []content, system string) []content {
	if len(contents) > 0 && contents[0].role == "user" {
		part, _ := sjson.Set(`{"text":""}`, "text", system+"\n\n")
		first := content{role: "user", parts: append([]string{part}, contents[0].parts...)}
		merged := make([]content, 0, len(contents))
		merged = append(merged, first)
		return append(merged, contents[1:]...)
	}
	part, _ := sjson.Set(`{"text":""}`, "text", system)
	merged := make([]content, 0, len(contents)+1)
	merged = append(merged, content{role: "user", parts: []string{part}})
	return append(merged, contents...)
}

func convertToolChoice(choice gjson.Result) (string, bool) {
	switch {
	case choice.Type == gjson.String:
		mode := map[string]string{"auto": "AUTO", "none": "NONE", "required": "ANY"}[choice.String()]
		if mode == "" {
			return "", false
		}
		out, _ := sjson.Set(`{"functionCallingConfig":{"mode":""}}`, "functionCallingConfig.mode", mode)
		return out, true
	case choice.IsObject():
		name := choice.Get("function.name").String()
		if name == "" {
			name = choice.Get("name").String()
		}
		if name == "" {
			return "", false
		}
		out := `{"functionCallingConfig":{"mode":"ANY","allowedFunctionNames":[]}}`
		out, _ = sjson.Set(out, "functionCallingConfig.allowedFunctionNames.-1", name)
		return out, true
	}
	return "", false
}
