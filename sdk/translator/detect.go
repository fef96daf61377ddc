package translator

import "github.com/tidwall/gjson"

// DetectRequestFormat classifies a request payload of unknown origin by its
// structure. Claude is checked first; anything ambiguous resolves to OpenAI.
func DetectRequestFormat(rawJSON []byte) Format {
	root := gjson.ParseBytes(rawJSON)
	if !root.IsObject() {
		return FormatOpenAI
	}
	if first := root.Get("messages.0.content"); first.IsArray() {
		if root.Get("messages.0.content.0.type").Exists() {
			return FormatClaude
		}
	}
	if root.Get("contents").Exists() {
		return FormatGemini
	}
	if root.Get("prompt").Exists() && !root.Get("messages").Exists() {
		return FormatOllama
	}
	return FormatOpenAI
}

// DetectResponseFormat classifies a response payload of unknown origin. Claude
// responses carry typed content blocks, Gemini responses carry candidates and
// Ollama responses carry the response text with a done flag.
func DetectResponseFormat(rawJSON []byte) Format {
	root := gjson.ParseBytes(rawJSON)
	if !root.IsObject() {
		return FormatOpenAI
	}
	if root.Get("type").String() == "message" || root.Get("content.0.type").Exists() {
		return FormatClaude
	}
	if root.Get("candidates").Exists() {
		return FormatGemini
	}
	if !root.Get("choices").Exists() && (root.Get("response").Exists() || root.Get("done").Exists()) {
		return FormatOllama
	}
	return FormatOpenAI
}
