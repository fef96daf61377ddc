// Package common holds response renderers and payload readers shared by the
// pair translators and by the generic fallback.
package common

import (
	"strings"
	"time"

	"github.com/chatbridge/chatbridge/internal/canonical"
	"github.com/tidwall/sjson"
)

// RenderClaudeResponse renders a canonical response as a Claude Messages response.
func RenderClaudeResponse(resp canonical.Response) string {
	resp.EnsureContent()

	out := `{"id":"","type":"message","role":"assistant","model":"","content":[],"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":0,"output_tokens":0}}`
	out, _ = sjson.Set(out, "id", resp.ID)
	out, _ = sjson.Set(out, "model", resp.Model)

	for _, block := range resp.Content {
		switch b := block.(type) {
		case canonical.TextBlock:
			item := `{"type":"text","text":""}`
			item, _ = sjson.Set(item, "text", b.Text)
			out, _ = sjson.SetRaw(out, "content.-1", item)
		case canonical.ToolUseBlock:
			item := `{"type":"tool_use","id":"","name":"","input":{}}`
			item, _ = sjson.Set(item, "id", b.ID)
			item, _ = sjson.Set(item, "name", b.Name)
			if len(b.Input) > 0 {
				item, _ = sjson.Set(item, "input", b.Input)
			}
			out, _ = sjson.SetRaw(out, "content.-1", item)
		}
	}

	out, _ = sjson.Set(out, "stop_reason", string(canonical.StopReasonFromClaude(string(resp.StopReason))))
	out, _ = sjson.Set(out, "usage.input_tokens", resp.Usage.InputTokens)
	out, _ = sjson.Set(out, "usage.output_tokens", resp.Usage.OutputTokens)
	return out
}

// OpenAIRenderOptions tunes RenderOpenAIResponse.
type OpenAIRenderOptions struct {
	// Created is the unix timestamp of the completion.
	Created int64
	// FinishReason overrides the finish_reason derived from the stop reason.
	FinishReason string
	// LegacyFunctionCall emits at most one message.function_call instead of tool_calls.
	LegacyFunctionCall bool
}

// RenderOpenAIResponse renders a canonical response as an OpenAI chat.completion.
func RenderOpenAIResponse(resp canonical.Response, opts OpenAIRenderOptions) string {
	out := `{"id":"","object":"chat.completion","created":0,"model":"","choices":[{"index":0,"message":{"role":"assistant","content":""},"finish_reason":"stop"}],"usage":{"prompt_tokens":0,"completion_tokens":0,"total_tokens":0}}`
	out, _ = sjson.Set(out, "id", resp.ID)
	out, _ = sjson.Set(out, "created", opts.Created)
	out, _ = sjson.Set(out, "model", resp.Model)

	var texts []string
	var toolUses []canonical.ToolUseBlock
	for _, block := range resp.Content {
		switch b := block.(type) {
		case canonical.TextBlock:
			texts = append(texts, b.Text)
		case canonical.ToolUseBlock:
			toolUses = append(toolUses, b)
		}
	}
	text := strings.Join(texts, "\n")
	if text == "" && len(toolUses) > 0 {
		out, _ = sjson.SetRaw(out, "choices.0.message.content", "null")
	} else {
		out, _ = sjson.Set(out, "choices.0.message.content", text)
	}

	if len(toolUses) > 0 {
		if opts.LegacyFunctionCall {
			// The legacy shape holds a single call; the first one wins.
			out, _ = sjson.Set(out, "choices.0.message.function_call.name", toolUses[0].Name)
			out, _ = sjson.Set(out, "choices.0.message.function_call.arguments", canonical.MarshalArguments(toolUses[0].Input))
		} else {
			for _, tu := range toolUses {
				call := `{"id":"","type":"function","function":{"name":"","arguments":""}}`
				call, _ = sjson.Set(call, "id", tu.ID)
				call, _ = sjson.Set(call, "function.name", tu.Name)
				call, _ = sjson.Set(call, "function.arguments", canonical.MarshalArguments(tu.Input))
				out, _ = sjson.SetRaw(out, "choices.0.message.tool_calls.-1", call)
			}
		}
	}

	finish := opts.FinishReason
	if finish == "" {
		finish = canonical.OpenAIFinishReason(resp.StopReason, opts.LegacyFunctionCall)
	}
	out, _ = sjson.Set(out, "choices.0.finish_reason", finish)

	out, _ = sjson.Set(out, "usage.prompt_tokens", resp.Usage.InputTokens)
	out, _ = sjson.Set(out, "usage.completion_tokens", resp.Usage.OutputTokens)
	out, _ = sjson.Set(out, "usage.total_tokens", resp.Usage.Total())
	return out
}

// GeminiFinishReason renders a stop reason as an upper-case Gemini finishReason.
func GeminiFinishReason(reason canonical.StopReason) string {
	if reason == canonical.StopMaxTokens {
		return "MAX_TOKENS"
	}
	return "STOP"
}

// RenderGeminiResponse renders a canonical response as a Gemini generateContent
// response with a single candidate. An empty finishReason is derived from the
// stop reason.
func RenderGeminiResponse(resp canonical.Response, finishReason string) string {
	resp.EnsureContent()

	out := `{"candidates":[{"content":{"role":"model","parts":[]},"finishReason":"STOP","index":0}],"usageMetadata":{"promptTokenCount":0,"candidatesTokenCount":0,"totalTokenCount":0}}`
	for _, block := range resp.Content {
		switch b := block.(type) {
		case canonical.TextBlock:
			part := `{"text":""}`
			part, _ = sjson.Set(part, "text", b.Text)
			out, _ = sjson.SetRaw(out, "candidates.0.content.parts.-1", part)
		case canonical.ToolUseBlock:
			part := `{"functionCall":{"name":"","args":{}}}`
			part, _ = sjson.Set(part, "functionCall.name", b.Name)
			if len(b.Input) > 0 {
				part, _ = sjson.Set(part, "functionCall.args", b.Input)
			}
			out, _ = sjson.SetRaw(out, "candidates.0.content.parts.-1", part)
		}
	}

	if finishReason == "" {
		finishReason = GeminiFinishReason(resp.StopReason)
	}
	out, _ = sjson.Set(out, "candidates.0.finishReason", finishReason)
	out, _ = sjson.Set(out, "usageMetadata.promptTokenCount", resp.Usage.InputTokens)
	out, _ = sjson.Set(out, "usageMetadata.candidatesTokenCount", resp.Usage.OutputTokens)
	out, _ = sjson.Set(out, "usageMetadata.totalTokenCount", resp.Usage.Total())
	if resp.Model != "" {
		out, _ = sjson.Set(out, "modelVersion", resp.Model)
	}
	if resp.ID != "" {
		out, _ = sjson.Set(out, "responseId", resp.ID)
	}
	return out
}

// RenderOllamaResponse renders a canonical response as a completed Ollama
// generate response.
func RenderOllamaResponse(resp canonical.Response, createdAt time.Time) string {
	out := `{"model":"","created_at":"","response":"","done":true,"done_reason":"stop","prompt_eval_count":0,"eval_count":0}`
	out, _ = sjson.Set(out, "model", resp.Model)
	out, _ = sjson.Set(out, "created_at", createdAt.UTC().Format(time.RFC3339Nano))

	var texts []string
	for _, block := range resp.Content {
		if tb, ok := block.(canonical.TextBlock); ok {
			texts = append(texts, tb.Text)
		}
	}
	out, _ = sjson.Set(out, "response", strings.Join(texts, "\n"))
	if resp.StopReason == canonical.StopMaxTokens {
		out, _ = sjson.Set(out, "done_reason", "length")
	}
	out, _ = sjson.Set(out, "prompt_eval_count", resp.Usage.InputTokens)
	out, _ = sjson.Set(out, "eval_count", resp.Usage.OutputTokens)
	return out
}
