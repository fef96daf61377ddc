package ollama

import (
	"testing"
	"time"

	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/tidwall/gjson"
)

var testOpts = sdktranslator.Options{
	DefaultModel: "gpt-4o",
	Now:          func() time.Time { return time.Unix(1700000000, 0) },
	NewID:        func(prefix string) string { return prefix + "test" },
}

func TestConvertOllamaGenerateRequestToOpenAI(t *testing.T) {
	input := []byte(`{
		"model":"llama3","system":"Be brief.","prompt":"Why is the sky blue?",
		"options":{"temperature":0.5,"top_p":0.9,"num_predict":128,"stop":"END"},
		"format":"json"
	}`)

	out, err := ConvertOllamaRequestToOpenAI(testOpts, input)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	res := gjson.ParseBytes(out)

	if got := res.Get("model").String(); got != "llama3" {
		t.Fatalf("model = %q", got)
	}
	if res.Get("messages.0.role").String() != "system" || res.Get("messages.0.content").String() != "Be brief." {
		t.Fatalf("system message = %s", res.Get("messages.0").Raw)
	}
	if res.Get("messages.1.role").String() != "user" || res.Get("messages.1.content").String() != "Why is the sky blue?" {
		t.Fatalf("user message = %s", res.Get("messages.1").Raw)
	}
	if res.Get("temperature").Float() != 0.5 || res.Get("top_p").Float() != 0.9 || res.Get("max_tokens").Int() != 128 {
		t.Fatalf("sampling = %s", out)
	}
	if got := res.Get("stop.0").String(); got != "END" {
		t.Fatalf("stop = %s", res.Get("stop").Raw)
	}
	if got := res.Get("response_format.type").String(); got != "json_object" {
		t.Fatalf("response_format = %s", res.Get("response_format").Raw)
	}
	if !res.Get("stream").Exists() || res.Get("stream").Bool() {
		t.Fatalf("stream = %s, want false", res.Get("stream").Raw)
	}
}

func TestConvertOllamaChatRequestToOpenAI(t *testing.T) {
	input := []byte(`{
		"messages":[
			{"role":"user","content":"weather?"},
			{"role":"assistant","content":"","tool_calls":[{"function":{"name":"weather","arguments":{"city":"Oslo"}}}]},
			{"role":"tool","tool_name":"weather","content":"rainy"}
		],
		"tools":[{"type":"function","function":{"name":"weather","description":"Get weather","parameters":{"type":"object"}}}],
		"format":{"type":"object","properties":{"answer":{"type":"string"}}},
		"stream":true
	}`)

	out, err := ConvertOllamaRequestToOpenAI(testOpts, input)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	res := gjson.ParseBytes(out)

	if got := res.Get("model").String(); got != "gpt-4o" {
		t.Fatalf("model = %q, want default", got)
	}
	asst := res.Get("messages.1")
	if asst.Get("function_call.name").String() != "weather" || gjson.Get(asst.Get("function_call.arguments").String(), "city").String() != "Oslo" {
		t.Fatalf("assistant = %s", asst.Raw)
	}
	if asst.Get("content").Type != gjson.Null {
		t.Fatalf("assistant content = %s, want null", asst.Get("content").Raw)
	}
	fn := res.Get("messages.2")
	if fn.Get("role").String() != "function" || fn.Get("name").String() != "weather" || fn.Get("content").String() != "rainy" {
		t.Fatalf("function message = %s", fn.Raw)
	}
	if got := res.Get("functions.0.name").String(); got != "weather" {
		t.Fatalf("functions = %s", res.Get("functions").Raw)
	}
	if res.Get("response_format.type").String() != "json_schema" || res.Get("response_format.json_schema.schema.properties.answer.type").String() != "string" {
		t.Fatalf("response_format = %s", res.Get("response_format").Raw)
	}
	if !res.Get("stream").Bool() {
		t.Fatalf("stream not carried over")
	}
}

func TestConvertOllamaResponseToOpenAI(t *testing.T) {
	input := []byte(`{"model":"llama3","created_at":"2024-01-02T03:04:05Z","response":"Rayleigh scattering.","done":true,"done_reason":"length","prompt_eval_count":7,"eval_count":11}`)

	out, err := ConvertOllamaResponseToOpenAI(testOpts, input)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	res := gjson.ParseBytes(out)

	if res.Get("id").String() != "chatcmpl-test" || res.Get("object").String() != "chat.completion" {
		t.Fatalf("envelope = %s", out)
	}
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Unix()
	if got := res.Get("created").Int(); got != want {
		t.Fatalf("created = %d, want %d", got, want)
	}
	if got := res.Get("choices.0.message.content").String(); got != "Rayleigh scattering." {
		t.Fatalf("content = %q", got)
	}
	if got := res.Get("choices.0.finish_reason").String(); got != "length" {
		t.Fatalf("finish_reason = %q", got)
	}
	if res.Get("usage.prompt_tokens").Int() != 7 || res.Get("usage.completion_tokens").Int() != 11 || res.Get("usage.total_tokens").Int() != 18 {
		t.Fatalf("usage = %s", res.Get("usage").Raw)
	}
}

func TestConvertOllamaChatResponseToOpenAIToolCalls(t *testing.T) {
	input := []byte(`{"model":"llama3","message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"weather","arguments":{"city":"Oslo"}}}]},"done":true}`)

	out, err := ConvertOllamaResponseToOpenAI(testOpts, input)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	res := gjson.ParseBytes(out)

	if got := res.Get("created").Int(); got != 1700000000 {
		t.Fatalf("created = %d, want clock fallback", got)
	}
	call := res.Get("choices.0.message.tool_calls.0")
	if call.Get("id").String() != "call_test" || call.Get("function.name").String() != "weather" {
		t.Fatalf("tool call = %s", call.Raw)
	}
	if got := res.Get("choices.0.finish_reason").String(); got != "tool_calls" {
		t.Fatalf("finish_reason = %q", got)
	}
}

func TestConvertOllamaRequestToOpenAIRejectsNonObject(t *testing.T) {
	if _, err := ConvertOllamaRequestToOpenAI(testOpts, []byte(`[1,2]`)); err == nil {
		t.Fatal("expected error for array payload")
	}
}
