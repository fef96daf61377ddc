// Package gemini provides translation from the Gemini generateContent format to
// the OpenAI Chat Completions format.
package gemini

import (
	"fmt"
	"strings"

	"github.com/chatbridge/chatbridge/internal/canonical"
	"github.com/chatbridge/chatbridge/internal/translator/common"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ConvertGeminiRequestToOpenAI transforms a Gemini generateContent request into an
// OpenAI Chat Completions request. The systemInstruction becomes a leading
// system message, "model" turns become "assistant" turns and function
// declarations become legacy functions.
func ConvertGeminiRequestToOpenAI(opts sdktranslator.Options, rawJSON []byte) ([]byte, error) {
	root := gjson.ParseBytes(rawJSON)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: gemini request must be a JSON object", sdktranslator.ErrInvalidPayload)
	}

	out := `{"model":"","messages":[]}`
	model := root.Get("model").String()
	if model == "" {
		model = opts.DefaultModel
	}
	out, _ = sjson.Set(out, "model", model)

	systemInstruction := root.Get("systemInstruction")
	if !systemInstruction.Exists() {
		systemInstruction = root.Get("system_instruction")
	}
	if system, _, _ := readParts(systemInstruction.Get("parts")); system != "" {
		msg := `{"role":"system","content":""}`
		msg, _ = sjson.Set(msg, "content", system)
		out, _ = sjson.SetRaw(out, "messages.-1", msg)
	}

	root.Get("contents").ForEach(func(_, content gjson.Result) bool {
		role := "user"
		if content.Get("role").String() == "model" {
			role = "assistant"
		}
		text, calls, responses := readParts(content.Get("parts"))

		for _, resp := range responses {
			fnMsg := `{"role":"function","name":"","content":""}`
			fnMsg, _ = sjson.Set(fnMsg, "name", resp.Name)
			fnMsg, _ = sjson.Set(fnMsg, "content", resp.Content)
			out, _ = sjson.SetRaw(out, "messages.-1", fnMsg)
		}

		if role == "assistant" && len(calls) > 0 {
			asst := `{"role":"assistant","content":null,"function_call":{"name":"","arguments":""}}`
			if text != "" {
				asst, _ = sjson.Set(asst, "content", text)
			}
			asst, _ = sjson.Set(asst, "function_call.name", calls[0].Name)
			asst, _ = sjson.Set(asst, "function_call.arguments", canonical.MarshalArguments(calls[0].Input))
			out, _ = sjson.SetRaw(out, "messages.-1", asst)
			return true
		}
		if text == "" && len(responses) > 0 {
			return true
		}

		msg := `{"role":"","content":""}`
		msg, _ = sjson.Set(msg, "role", role)
		msg, _ = sjson.Set(msg, "content", text)
		out, _ = sjson.SetRaw(out, "messages.-1", msg)
		return true
	})

	genConfig := root.Get("generationConfig")
	if temperature := genConfig.Get("temperature"); temperature.Type == gjson.Number {
		out, _ = sjson.SetRaw(out, "temperature", temperature.Raw)
	}
	if topP := genConfig.Get("topP"); topP.Type == gjson.Number {
		out, _ = sjson.SetRaw(out, "top_p", topP.Raw)
	}
	if maxTokens, ok := common.ReadMaxTokens(genConfig, "maxOutputTokens"); ok {
		out, _ = sjson.Set(out, "max_tokens", maxTokens)
	}
	if stops := common.ReadStopSequences(genConfig.Get("stopSequences")); len(stops) > 0 {
		out, _ = sjson.Set(out, "stop", stops)
	}
	out, _ = sjson.Set(out, "stream", root.Get("stream").Bool())

	root.Get("tools").ForEach(func(_, tool gjson.Result) bool {
		declarations := tool.Get("functionDeclarations")
		if !declarations.Exists() {
			declarations = tool.Get("function_declarations")
		}
		for _, spec := range canonical.ParseToolSpecs(declarations, "parameters", "parametersJsonSchema") {
			fn := `{"name":"","description":"","parameters":{"type":"object","properties":{}}}`
			fn, _ = sjson.Set(fn, "name", spec.Name)
			fn, _ = sjson.Set(fn, "description", spec.Description)
			if spec.Schema != nil {
				fn, _ = sjson.Set(fn, "parameters", spec.Schema)
			}
			out, _ = sjson.SetRaw(out, "functions.-1", fn)
		}
		return true
	})

	return []byte(out), nil
}

// readParts splits Gemini parts into joined text, function calls and function
// responses. Text parts are concatenated without a separator.
func readParts(parts gjson.Result) (string, []canonical.ToolUseBlock, []canonical.ToolResultBlock) {
	var text strings.Builder
	var calls []canonical.ToolUseBlock
	var responses []canonical.ToolResultBlock
	parts.ForEach(func(_, part gjson.Result) bool {
		switch {
		case part.Get("text").Exists():
			if part.Get("thought").Bool() {
				return true
			}
			text.WriteString(part.Get("text").String())
		case part.Get("functionCall").Exists():
			call := part.Get("functionCall")
			calls = append(calls, canonical.ToolUseBlock{
				ID:    call.Get("id").String(),
				Name:  call.Get("name").String(),
				Input: canonical.ToolInput(call.Get("args")),
			})
		case part.Get("functionResponse").Exists():
			resp := part.Get("functionResponse")
			content := resp.Get("response.content")
			if content.Type != gjson.String {
				content = resp.Get("response")
			}
			responses = append(responses, canonical.ToolResultBlock{
				ToolUseID: resp.Get("id").String(),
				Name:      resp.Get("name").String(),
				Content:   resultText(content),
			})
		}
		return true
	})
	return text.String(), calls, responses
}

func resultText(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	return v.Raw
}
