// Package ollama provides translation from the Ollama generate and chat formats
// to the OpenAI Chat Completions format.
package ollama

import (
	"fmt"

	"github.com/chatbridge/chatbridge/internal/canonical"
	"github.com/chatbridge/chatbridge/internal/translator/common"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ConvertOllamaRequestToOpenAI transforms an Ollama request into an OpenAI Chat
// Completions request. Both the /api/generate shape (prompt, system) and the
// /api/chat shape (messages) are accepted. Sampling settings are read from
// options; num_predict becomes max_tokens.
func ConvertOllamaRequestToOpenAI(opts sdktranslator.Options, rawJSON []byte) ([]byte, error) {
	root := gjson.ParseBytes(rawJSON)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: ollama request must be a JSON object", sdktranslator.ErrInvalidPayload)
	}

	out := `{"model":"","messages":[]}`
	model := root.Get("model").String()
	if model == "" {
		model = opts.DefaultModel
	}
	out, _ = sjson.Set(out, "model", model)

	if messages := root.Get("messages"); messages.IsArray() {
		out = appendChatMessages(out, messages)
	} else {
		if system := root.Get("system").String(); system != "" {
			msg, _ := sjson.Set(`{"role":"system","content":""}`, "content", system)
			out, _ = sjson.SetRaw(out, "messages.-1", msg)
		}
		msg, _ := sjson.Set(`{"role":"user","content":""}`, "content", root.Get("prompt").String())
		out, _ = sjson.SetRaw(out, "messages.-1", msg)
	}

	options := root.Get("options")
	if temperature := options.Get("temperature"); temperature.Type == gjson.Number {
		out, _ = sjson.SetRaw(out, "temperature", temperature.Raw)
	}
	if topP := options.Get("top_p"); topP.Type == gjson.Number {
		out, _ = sjson.SetRaw(out, "top_p", topP.Raw)
	}
	if numPredict, ok := common.ReadMaxTokens(options, "num_predict"); ok && numPredict > 0 {
		out, _ = sjson.Set(out, "max_tokens", numPredict)
	}
	if stops := common.ReadStopSequences(options.Get("stop")); len(stops) > 0 {
		out, _ = sjson.Set(out, "stop", stops)
	}
	out, _ = sjson.Set(out, "stream", root.Get("stream").Bool())

	switch format := root.Get("format"); {
	case format.String() == "json":
		out, _ = sjson.SetRaw(out, "response_format", `{"type":"json_object"}`)
	case format.IsObject():
		rf := `{"type":"json_schema","json_schema":{"name":"response","schema":{}}}`
		rf, _ = sjson.SetRaw(rf, "json_schema.schema", format.Raw)
		out, _ = sjson.SetRaw(out, "response_format", rf)
	}

	for _, tool := range canonical.ParseToolSpecs(root.Get("tools"), "parameters") {
		fn := `{"name":"","description":"","parameters":{"type":"object","properties":{}}}`
		fn, _ = sjson.Set(fn, "name", tool.Name)
		fn, _ = sjson.Set(fn, "description", tool.Description)
		if tool.Schema != nil {
			fn, _ = sjson.Set(fn, "parameters", tool.Schema)
		}
		out, _ = sjson.SetRaw(out, "functions.-1", fn)
	}

	return []byte(out), nil
}

// appendChatMessages copies /api/chat messages. Content is already a string in
// Ollama; assistant tool calls become the legacy function_call and tool turns
// become function messages.
func appendChatMessages(out string, messages gjson.Result) string {
	messages.ForEach(func(_, msg gjson.Result) bool {
		role := msg.Get("role").String()
		text := canonical.ParseContent(msg.Get("content")).Text()

		switch role {
		case "tool":
			name := msg.Get("tool_name").String()
			if name == "" {
				name = msg.Get("name").String()
			}
			fnMsg := `{"role":"function","name":"","content":""}`
			fnMsg, _ = sjson.Set(fnMsg, "name", name)
			fnMsg, _ = sjson.Set(fnMsg, "content", text)
			out, _ = sjson.SetRaw(out, "messages.-1", fnMsg)
			return true
		case "assistant":
			if call := msg.Get("tool_calls.0.function"); call.Exists() {
				asst := `{"role":"assistant","content":null,"function_call":{"name":"","arguments":""}}`
				if text != "" {
					asst, _ = sjson.Set(asst, "content", text)
				}
				asst, _ = sjson.Set(asst, "function_call.name", call.Get("name").String())
				asst, _ = sjson.Set(asst, "function_call.arguments", canonical.MarshalArguments(canonical.ToolInput(call.Get("arguments"))))
				out, _ = sjson.SetRaw(out, "messages.-1", asst)
				return true
			}
		case "":
			role = "user"
		}

		plain := `{"role":"","content":""}`
		plain, _ = sjson.Set(plain, "role", role)
		plain, _ = sjson.Set(plain, "content", text)
		out, _ = sjson.SetRaw(out, "messages.-1", plain)
		return true
	})
	return out
}
