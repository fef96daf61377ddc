package translator

import (
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func TestExtractContentPriority(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    string
	}{
		{"string payload", `"already text"`, "already text"},
		{"content string", `{"content":"direct","choices":[{"message":{"content":"later"}}]}`, "direct"},
		{"choices", `{"choices":[{"message":{"content":"from choices"}}],"content":[{"text":"blocks"}],"response":"r"}`, "from choices"},
		{"content blocks", `{"content":[{"type":"text","text":"from blocks"}],"response":"r"}`, "from blocks"},
		{"response", `{"response":"from ollama"}`, "from ollama"},
		{"whole payload", `{ "unknown" : [1, 2] }`, `{"unknown":[1,2]}`},
		{"not json", `plain`, "plain"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractContent([]byte(tc.payload)); got != tc.want {
				t.Fatalf("ExtractContent = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFallbackRequest(t *testing.T) {
	opts := Options{DefaultModel: "llama3", DefaultMaxTokens: 4096}

	out := FallbackRequest(opts, []byte(`{"model":"ignored","messages":[{"role":"user","content":"hi"}],"temperature":0.7,"maxTokens":99,"stream":true}`))
	if got := gjson.GetBytes(out, "model").String(); got != "llama3" {
		t.Fatalf("model = %q", got)
	}
	if got := gjson.GetBytes(out, "temperature").Float(); got != 0.7 {
		t.Fatalf("temperature = %v", got)
	}
	if got := gjson.GetBytes(out, "max_tokens").Int(); got != 99 {
		t.Fatalf("max_tokens = %d", got)
	}
	if !gjson.GetBytes(out, "stream").Bool() {
		t.Fatal("stream should be carried")
	}

	out = FallbackRequest(Options{DefaultModel: "gpt-4o"}, []byte(`not json`))
	if n := gjson.GetBytes(out, "messages.#").Int(); n != 0 {
		t.Fatalf("messages = %d, want empty", n)
	}
	if got := gjson.GetBytes(out, "max_tokens").Int(); got != DefaultMaxTokens {
		t.Fatalf("max_tokens = %d, want %d", got, DefaultMaxTokens)
	}
	if gjson.GetBytes(out, "temperature").Exists() {
		t.Fatal("temperature must stay absent when the source omits it")
	}
}

func TestFallbackResponseShapes(t *testing.T) {
	opts := Options{
		DefaultModel: "default-model",
		Now:          func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
		NewID:        func(prefix string) string { return prefix + "gen" },
	}
	payload := []byte(`{"model":"src-model","content":"hello"}`)

	claude := FallbackResponse(FormatClaude, opts, payload)
	if gjson.GetBytes(claude, "id").String() != "msg_gen" || gjson.GetBytes(claude, "content.0.text").String() != "hello" {
		t.Fatalf("claude fallback = %s", claude)
	}
	if gjson.GetBytes(claude, "model").String() != "src-model" {
		t.Fatalf("claude fallback should keep source model: %s", claude)
	}

	openai := FallbackResponse(FormatOpenAI, opts, payload)
	if gjson.GetBytes(openai, "id").String() != "chatcmpl-gen" || gjson.GetBytes(openai, "choices.0.message.content").String() != "hello" {
		t.Fatalf("openai fallback = %s", openai)
	}
	if gjson.GetBytes(openai, "created").Int() != opts.Now().Unix() {
		t.Fatalf("openai fallback created = %s", openai)
	}

	gemini := FallbackResponse(FormatGemini, opts, payload)
	if gjson.GetBytes(gemini, "candidates.0.content.parts.0.text").String() != "hello" {
		t.Fatalf("gemini fallback = %s", gemini)
	}

	ollama := FallbackResponse(FormatOllama, opts, payload)
	if gjson.GetBytes(ollama, "response").String() != "hello" || gjson.GetBytes(ollama, "created_at").String() != "2024-01-02T03:04:05Z" {
		t.Fatalf("ollama fallback = %s", ollama)
	}
}

func TestDefaultResponseShapes(t *testing.T) {
	opts := Options{DefaultModel: "m", NewID: func(prefix string) string { return prefix + "1" }}
	for _, format := range KnownFormats {
		out := DefaultResponse(format, opts)
		if !gjson.ValidBytes(out) {
			t.Fatalf("%s default response is not valid JSON", format)
		}
	}
	claude := DefaultResponse(FormatClaude, opts)
	if gjson.GetBytes(claude, "stop_reason").String() != "end_turn" || gjson.GetBytes(claude, "usage.output_tokens").Int() != 0 {
		t.Fatalf("claude default = %s", claude)
	}
	openai := DefaultResponse(FormatOpenAI, opts)
	if gjson.GetBytes(openai, "choices.0.finish_reason").String() != "stop" {
		t.Fatalf("openai default = %s", openai)
	}
}
