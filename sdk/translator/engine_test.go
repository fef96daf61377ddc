package translator_test

import (
	"errors"
	"testing"
	"time"

	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/chatbridge/chatbridge/sdk/translator/builtin"
	"github.com/tidwall/gjson"
)

func newTestEngine() *sdktranslator.Engine {
	return builtin.Engine(
		sdktranslator.WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
		sdktranslator.WithIDGenerator(func(prefix string) string { return prefix + "test" }),
	)
}

func TestIdentityPairsPassThrough(t *testing.T) {
	engine := newTestEngine()
	payload := []byte(`{"model":"x","messages":[{"role":"user","content":"hi"}],"extra":{"keep":true}}`)
	for _, format := range sdktranslator.KnownFormats {
		if got := engine.ConvertRequest(format, format, payload); string(got) != string(payload) {
			t.Fatalf("request identity for %s changed payload: %s", format, got)
		}
		if got := engine.ConvertResponse(format, format, payload); string(got) != string(payload) {
			t.Fatalf("response identity for %s changed payload: %s", format, got)
		}
	}
	out, outcome := engine.TranslateRequest(sdktranslator.FormatGemini, sdktranslator.FormatGemini, payload)
	if outcome != sdktranslator.OutcomeIdentity {
		t.Fatalf("outcome = %s", outcome)
	}
	out[0] = 'X'
	if payload[0] != '{' {
		t.Fatal("identity must return a copy, not the input")
	}
}

func TestOpenAIToClaudeNoChoicesDefault(t *testing.T) {
	out := newTestEngine().ConvertResponse(sdktranslator.FormatOpenAI, sdktranslator.FormatClaude, []byte(`{"choices":[]}`))

	if n := gjson.GetBytes(out, "content.#").Int(); n != 1 {
		t.Fatalf("content length = %d, want 1", n)
	}
	if got := gjson.GetBytes(out, "content.0.type").String(); got != "text" {
		t.Fatalf("content type = %q", got)
	}
	if text := gjson.GetBytes(out, "content.0.text"); !text.Exists() || text.String() != "" {
		t.Fatalf("content text = %v", text)
	}
	if got := gjson.GetBytes(out, "usage.input_tokens"); !got.Exists() || got.Int() != 0 {
		t.Fatalf("input_tokens = %v", got)
	}
	if got := gjson.GetBytes(out, "usage.output_tokens"); !got.Exists() || got.Int() != 0 {
		t.Fatalf("output_tokens = %v", got)
	}
	if got := gjson.GetBytes(out, "stop_reason").String(); got != "end_turn" {
		t.Fatalf("stop_reason = %q", got)
	}
}

func TestOpenAIToClaudeMalformedToolArguments(t *testing.T) {
	payload := `{"id":"chatcmpl-1","model":"gpt-4o","choices":[{"message":{"role":"assistant","content":null,"tool_calls":[{"id":"call_1","type":"function","function":{"name":"lookup","arguments":"{not valid json"}}]},"finish_reason":"tool_calls"}]}`
	out := newTestEngine().ConvertResponse(sdktranslator.FormatOpenAI, sdktranslator.FormatClaude, []byte(payload))

	block := gjson.GetBytes(out, `content.#(type=="tool_use")`)
	if !block.Exists() {
		t.Fatalf("missing tool_use block: %s", out)
	}
	if got := block.Get("input.raw_arguments").String(); got != "{not valid json" {
		t.Fatalf("raw_arguments = %q", got)
	}
	if n := len(block.Get("input").Map()); n != 1 {
		t.Fatalf("input has %d keys, want only raw_arguments", n)
	}
	if got := gjson.GetBytes(out, "stop_reason").String(); got != "tool_use" {
		t.Fatalf("stop_reason = %q", got)
	}
}

func TestOpenAIToClaudeFinishReasonTable(t *testing.T) {
	engine := newTestEngine()
	cases := map[string]string{
		"stop":          "end_turn",
		"length":        "max_tokens",
		"tool_calls":    "tool_use",
		"function_call": "tool_use",
		"weird":         "end_turn",
	}
	for finish, want := range cases {
		payload := `{"choices":[{"message":{"role":"assistant","content":"x"},"finish_reason":"` + finish + `"}]}`
		out := engine.ConvertResponse(sdktranslator.FormatOpenAI, sdktranslator.FormatClaude, []byte(payload))
		if got := gjson.GetBytes(out, "stop_reason").String(); got != want {
			t.Errorf("finish_reason %q -> %q, want %q", finish, got, want)
		}
	}
}

func TestResponseContentNeverEmpty(t *testing.T) {
	engine := newTestEngine()
	payloads := map[sdktranslator.Format]string{
		sdktranslator.FormatOpenAI: `{"choices":[{"message":{"role":"assistant","content":""},"finish_reason":"stop"}]}`,
		sdktranslator.FormatClaude: `{"type":"message","content":[]}`,
		sdktranslator.FormatGemini: `{"candidates":[{"content":{"parts":[]}}]}`,
		sdktranslator.FormatOllama: `{"model":"llama3","response":"","done":true}`,
	}
	for from, payload := range payloads {
		for _, to := range sdktranslator.KnownFormats {
			if from == to {
				continue
			}
			out := engine.ConvertResponse(from, to, []byte(payload))
			if !gjson.ValidBytes(out) {
				t.Fatalf("%s->%s produced invalid JSON: %s", from, to, out)
			}
			var n int64
			switch to {
			case sdktranslator.FormatClaude:
				n = gjson.GetBytes(out, "content.#").Int()
			case sdktranslator.FormatOpenAI:
				n = gjson.GetBytes(out, "choices.#").Int()
			case sdktranslator.FormatGemini:
				n = gjson.GetBytes(out, "candidates.0.content.parts.#").Int()
			case sdktranslator.FormatOllama:
				if gjson.GetBytes(out, "response").Exists() {
					n = 1
				}
			}
			if n < 1 {
				t.Fatalf("%s->%s produced empty content: %s", from, to, out)
			}
		}
	}
}

func TestUnregisteredPairUsesFallback(t *testing.T) {
	engine := newTestEngine()
	payload := []byte(`{"model":"claude-3","messages":[{"role":"user","content":"hi"}],"temperature":0.2}`)

	out, outcome := engine.TranslateRequest(sdktranslator.FormatClaude, sdktranslator.FormatGemini, payload)
	if outcome != sdktranslator.OutcomeFallback {
		t.Fatalf("outcome = %s, want fallback", outcome)
	}
	if got := gjson.GetBytes(out, "model").String(); got != sdktranslator.DefaultModels[sdktranslator.FormatGemini] {
		t.Fatalf("model = %q", got)
	}
	if got := gjson.GetBytes(out, "max_tokens").Int(); got != 4096 {
		t.Fatalf("max_tokens = %d", got)
	}
	if got := gjson.GetBytes(out, "stream").Bool(); got {
		t.Fatal("stream should default to false")
	}
	if got := gjson.GetBytes(out, "messages.0.content").String(); got != "hi" {
		t.Fatalf("messages not carried: %s", out)
	}
}

func TestInvalidJSONOnExplicitPairIsRecovered(t *testing.T) {
	engine := newTestEngine()

	out, outcome := engine.TranslateRequest(sdktranslator.FormatOpenAI, sdktranslator.FormatClaude, []byte(`{broken`))
	if outcome != sdktranslator.OutcomeRecovered || !gjson.ValidBytes(out) {
		t.Fatalf("request outcome = %s, out = %s", outcome, out)
	}

	out, outcome = engine.TranslateResponse(sdktranslator.FormatOpenAI, sdktranslator.FormatClaude, []byte(`"just text"`))
	if outcome != sdktranslator.OutcomeRecovered {
		t.Fatalf("response outcome = %s, want recovered", outcome)
	}
	if got := gjson.GetBytes(out, "type").String(); got != "message" {
		t.Fatalf("expected claude-shaped default response, got %s", out)
	}
}

func TestPanickingConverterIsRecovered(t *testing.T) {
	registry := sdktranslator.NewRegistry()
	panicky := func(sdktranslator.Options, []byte) ([]byte, error) { panic("boom") }
	failing := func(sdktranslator.Options, []byte) ([]byte, error) { return nil, errors.New("nope") }
	registry.Register(sdktranslator.FormatOpenAI, sdktranslator.FormatClaude, panicky, panicky)
	registry.Register(sdktranslator.FormatOpenAI, sdktranslator.FormatGemini, failing, failing)
	engine := sdktranslator.NewEngine(registry, sdktranslator.WithIDGenerator(func(prefix string) string { return prefix + "x" }))

	req := []byte(`{"messages":[{"role":"user","content":"hi"}]}`)
	out, outcome := engine.TranslateRequest(sdktranslator.FormatOpenAI, sdktranslator.FormatClaude, req)
	if outcome != sdktranslator.OutcomeRecovered {
		t.Fatalf("outcome = %s", outcome)
	}
	if got := gjson.GetBytes(out, "messages.0.content").String(); got != "hi" {
		t.Fatalf("fallback request did not keep messages: %s", out)
	}

	resp := engine.ConvertResponse(sdktranslator.FormatOpenAI, sdktranslator.FormatClaude, []byte(`{"choices":[]}`))
	if got := gjson.GetBytes(resp, "id").String(); got != "msg_x" {
		t.Fatalf("default response id = %q", got)
	}
	if got := gjson.GetBytes(resp, "content.0.text"); !got.Exists() {
		t.Fatalf("default response missing text block: %s", resp)
	}

	resp = engine.ConvertResponse(sdktranslator.FormatOpenAI, sdktranslator.FormatGemini, []byte(`{"choices":[]}`))
	if got := gjson.GetBytes(resp, "candidates.0.finishReason").String(); got != "STOP" {
		t.Fatalf("gemini default finishReason = %q", got)
	}
}

func TestEngineOptionsApplyDefaults(t *testing.T) {
	engine := builtin.Engine(
		sdktranslator.WithDefaultModels(map[sdktranslator.Format]string{sdktranslator.FormatClaude: "claude-custom"}),
		sdktranslator.WithDefaultMaxTokens(512),
	)
	opts := engine.Options(sdktranslator.FormatClaude)
	if opts.DefaultModel != "claude-custom" || opts.DefaultMaxTokens != 512 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if engine.Options(sdktranslator.FormatOpenAI).DefaultModel != sdktranslator.DefaultModels[sdktranslator.FormatOpenAI] {
		t.Fatal("unset formats should keep built-in defaults")
	}

	out := engine.ConvertRequest(sdktranslator.FormatOpenAI, sdktranslator.FormatClaude, []byte(`{"messages":[{"role":"user","content":"hi"}]}`))
	if got := gjson.GetBytes(out, "max_tokens").Int(); got != 512 {
		t.Fatalf("max_tokens = %d, want 512", got)
	}
}

func TestRegistrySealedByEngine(t *testing.T) {
	engine := newTestEngine()
	registry := engine.Registry()
	if !registry.Sealed() {
		t.Fatal("engine must seal its registry")
	}
	before := len(registry.Pairs())
	registry.Register(sdktranslator.FormatClaude, sdktranslator.FormatGemini, nil, nil)
	if len(registry.Pairs()) != before || registry.Has(sdktranslator.FormatClaude, sdktranslator.FormatGemini) {
		t.Fatal("registration after seal must be ignored")
	}
}

func TestBuiltinPairs(t *testing.T) {
	got := builtin.Registry().Pairs()
	want := []string{"claude->openai", "gemini->openai", "ollama->openai", "openai->claude", "openai->gemini"}
	if len(got) != len(want) {
		t.Fatalf("pairs = %v", got)
	}
	for i, pair := range got {
		if pair.String() != want[i] {
			t.Fatalf("pair %d = %s, want %s", i, pair, want[i])
		}
	}
	registry := builtin.Registry()
	if registry.Has(sdktranslator.FormatClaude, sdktranslator.FormatGemini) || registry.Has(sdktranslator.FormatGemini, sdktranslator.FormatClaude) {
		t.Fatal("claude<->gemini must not be registered")
	}
}
