// Package translator wires the built-in pair converters into a registry.
// Converter packages live under <target>/<source>.
package translator

import (
	claudeopenai "github.com/chatbridge/chatbridge/internal/translator/claude/openai"
	geminiopenai "github.com/chatbridge/chatbridge/internal/translator/gemini/openai"
	openaiclaude "github.com/chatbridge/chatbridge/internal/translator/openai/claude"
	openaigemini "github.com/chatbridge/chatbridge/internal/translator/openai/gemini"
	openaiollama "github.com/chatbridge/chatbridge/internal/translator/openai/ollama"
	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
)

// RegisterBuiltins registers the five supported ordered pairs. Pairs not listed
// here, Claude<->Gemini included, are served by the generic fallback.
func RegisterBuiltins(registry *sdktranslator.Registry) {
	openaiclaude.Register(registry)
	claudeopenai.Register(registry)
	openaigemini.Register(registry)
	geminiopenai.Register(registry)
	openaiollama.Register(registry)
}
