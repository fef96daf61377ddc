package translator

import (
	"github.com/chatbridge/chatbridge/internal/canonical"
	"github.com/chatbridge/chatbridge/internal/translator/common"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// FallbackRequest performs best-effort request conversion for pairs without a
// registered converter. It keeps messages, temperature, the token limit and the
// stream flag, and attaches the target's default model.
func FallbackRequest(opts Options, rawJSON []byte) []byte {
	root := gjson.ParseBytes(rawJSON)
	if !gjson.ValidBytes(rawJSON) || !root.IsObject() {
		root = gjson.Result{}
	}

	out := `{"model":"","messages":[]}`
	out, _ = sjson.Set(out, "model", opts.DefaultModel)

	if messages := root.Get("messages"); messages.IsArray() {
		out, _ = sjson.SetRaw(out, "messages", messages.Raw)
	}
	if temperature := root.Get("temperature"); temperature.Type == gjson.Number {
		out, _ = sjson.SetRaw(out, "temperature", temperature.Raw)
	}

	maxTokens, ok := common.ReadMaxTokens(root, "max_tokens", "maxTokens")
	if !ok {
		maxTokens = int64(opts.DefaultMaxTokens)
		if maxTokens <= 0 {
			maxTokens = DefaultMaxTokens
		}
	}
	out, _ = sjson.Set(out, "max_tokens", maxTokens)
	out, _ = sjson.Set(out, "stream", root.Get("stream").Bool())

	return []byte(out)
}

// FallbackResponse extracts the response text with ExtractContent and renders it
// as a minimal response of the target format.
func FallbackResponse(target Format, opts Options, rawJSON []byte) []byte {
	model := opts.DefaultModel
	if gjson.ValidBytes(rawJSON) {
		if m := gjson.GetBytes(rawJSON, "model"); m.Type == gjson.String && m.String() != "" {
			model = m.String()
		}
	}

	resp := canonical.Response{
		ID:         newID(opts, target),
		Model:      model,
		Content:    []canonical.Block{canonical.TextBlock{Text: ExtractContent(rawJSON)}},
		StopReason: canonical.StopEndTurn,
	}
	return renderResponse(target, opts, resp)
}

// ExtractContent pulls the response text out of a payload of unknown shape. The
// locations are tried from most to least specific:
//
//  1. the payload itself is a string
//  2. content as a string
//  3. choices[0].message.content
//  4. content[0].text
//  5. response
//
// If none match, the whole payload is returned as compact JSON.
func ExtractContent(rawJSON []byte) string {
	if !gjson.ValidBytes(rawJSON) {
		return string(rawJSON)
	}
	root := gjson.ParseBytes(rawJSON)
	if root.Type == gjson.String {
		return root.String()
	}
	if content := root.Get("content"); content.Type == gjson.String {
		return content.String()
	}
	if content := root.Get("choices.0.message.content"); content.Exists() && content.Type != gjson.Null {
		return canonical.ParseContent(content).Text()
	}
	if text := root.Get("content.0.text"); text.Exists() {
		return text.String()
	}
	if response := root.Get("response"); response.Exists() {
		return response.String()
	}
	return string(pretty.Ugly(rawJSON))
}
