package gemini

import (
	"testing"
	"time"

	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/tidwall/gjson"
)

var testOpts = sdktranslator.Options{
	DefaultModel:     "gpt-4o",
	DefaultMaxTokens: 4096,
	Now:              func() time.Time { return time.Unix(1700000000, 0) },
	NewID:            func(prefix string) string { return prefix + "test" },
}

func TestConvertGeminiRequestToOpenAI(t *testing.T) {
	input := []byte(`{
		"systemInstruction":{"parts":[{"text":"Be "},{"text":"helpful."}]},
		"contents":[
			{"role":"user","parts":[{"text":"weather in "},{"text":"Oslo?"}]},
			{"role":"model","parts":[{"text":"thinking","thought":true},{"functionCall":{"name":"weather","args":{"city":"Oslo"}}}]},
			{"role":"user","parts":[{"functionResponse":{"name":"weather","response":{"content":"rainy"}}}]}
		],
		"generationConfig":{"temperature":0.5,"topP":0.9,"maxOutputTokens":300,"stopSequences":["STOP"]},
		"tools":[{"functionDeclarations":[{"name":"weather","description":"Get weather","parameters":{"type":"object","properties":{"city":{"type":"string"}}}}]}]
	}`)

	out, err := ConvertGeminiRequestToOpenAI(testOpts, input)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	res := gjson.ParseBytes(out)

	if got := res.Get("model").String(); got != "gpt-4o" {
		t.Fatalf("model = %q", got)
	}
	if res.Get("messages.0.role").String() != "system" || res.Get("messages.0.content").String() != "Be helpful." {
		t.Fatalf("system = %s", res.Get("messages.0").Raw)
	}
	if got := res.Get("messages.1.content").String(); got != "weather in Oslo?" {
		t.Fatalf("joined text = %q", got)
	}
	asst := res.Get("messages.2")
	if asst.Get("role").String() != "assistant" || asst.Get("function_call.name").String() != "weather" {
		t.Fatalf("assistant = %s", asst.Raw)
	}
	if asst.Get("content").Type != gjson.Null {
		t.Fatalf("thought parts must be skipped: %s", asst.Raw)
	}
	fn := res.Get("messages.3")
	if fn.Get("role").String() != "function" || fn.Get("name").String() != "weather" || fn.Get("content").String() != "rainy" {
		t.Fatalf("function result = %s", fn.Raw)
	}
	if res.Get("temperature").Float() != 0.5 || res.Get("top_p").Float() != 0.9 || res.Get("max_tokens").Int() != 300 {
		t.Fatalf("generation config = %s", out)
	}
	if got := res.Get("stop.0").String(); got != "STOP" {
		t.Fatalf("stop = %s", res.Get("stop").Raw)
	}
	if got := res.Get("functions.0.parameters.properties.city.type").String(); got != "string" {
		t.Fatalf("functions = %s", res.Get("functions").Raw)
	}
}

func TestConvertGeminiResponseToOpenAI(t *testing.T) {
	input := []byte(`{
		"candidates":[{"content":{"role":"model","parts":[{"text":"Hello, "},{"text":"world"}]},"finishReason":"MAX_TOKENS"}],
		"usageMetadata":{"promptTokenCount":4,"candidatesTokenCount":2,"totalTokenCount":6},
		"modelVersion":"gemini-1.5-pro",
		"responseId":"resp-1"
	}`)

	out, err := ConvertGeminiResponseToOpenAI(testOpts, input)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	res := gjson.ParseBytes(out)
	if got := res.Get("choices.0.message.content").String(); got != "Hello, world" {
		t.Fatalf("content = %q", got)
	}
	if got := res.Get("choices.0.finish_reason").String(); got != "length" {
		t.Fatalf("finish_reason = %q", got)
	}
	if res.Get("id").String() != "resp-1" || res.Get("model").String() != "gemini-1.5-pro" {
		t.Fatalf("id/model = %s", out)
	}
	if got := res.Get("usage.total_tokens").Int(); got != 6 {
		t.Fatalf("total_tokens = %d", got)
	}
}

func TestConvertGeminiResponseToOpenAIFunctionCall(t *testing.T) {
	input := []byte(`{"candidates":[{"content":{"parts":[{"functionCall":{"name":"weather","args":{"city":"Oslo"}}}]},"finishReason":"STOP"}]}`)

	out, err := ConvertGeminiResponseToOpenAI(testOpts, input)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	res := gjson.ParseBytes(out)
	call := res.Get("choices.0.message.tool_calls.0")
	if call.Get("id").String() != "call_test" || call.Get("function.name").String() != "weather" {
		t.Fatalf("tool call = %s", call.Raw)
	}
	if got := call.Get("function.arguments").String(); got != `{"city":"Oslo"}` {
		t.Fatalf("arguments = %q", got)
	}
	if got := res.Get("choices.0.finish_reason").String(); got != "tool_calls" {
		t.Fatalf("finish_reason = %q", got)
	}
	if res.Get("choices.0.message.content").Type != gjson.Null {
		t.Fatalf("content should be null when only tools are present: %s", res.Get("choices.0.message").Raw)
	}
	if got := res.Get("id").String(); got != "chatcmpl-test" {
		t.Fatalf("id = %q", got)
	}
	if got := res.Get("model").String(); got != "" {
		t.Fatalf("model = %q, want empty when modelVersion is absent", got)
	}
}

func TestConvertGeminiResponseToOpenAIFinishReasons(t *testing.T) {
	cases := map[string]string{
		"STOP":       "stop",
		"max_tokens": "length",
		"SAFETY":     "content_filter",
		"RECITATION": "content_filter",
		"OTHER":      "stop",
	}
	for reason, want := range cases {
		input := []byte(`{"candidates":[{"content":{"parts":[{"text":"x"}]},"finishReason":"` + reason + `"}]}`)
		out, err := ConvertGeminiResponseToOpenAI(testOpts, input)
		if err != nil {
			t.Fatalf("convert: %v", err)
		}
		if got := gjson.GetBytes(out, "choices.0.finish_reason").String(); got != want {
			t.Errorf("finishReason %q -> %q, want %q", reason, got, want)
		}
	}

	out, err := ConvertGeminiResponseToOpenAI(testOpts, []byte(`{}`))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if n := gjson.GetBytes(out, "choices.#").Int(); n != 1 {
		t.Fatalf("missing candidates must still yield one choice: %s", out)
	}
}
