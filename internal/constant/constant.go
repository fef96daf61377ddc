// Package constant defines the wire format identifiers used throughout chatbridge.
// These constants name the chat API schemas the translator converts between,
// ensuring consistent naming across the application.
package constant

const (
	// Claude represents the Anthropic Messages format identifier.
	Claude = "claude"

	// OpenAI represents the OpenAI Chat Completions format identifier.
	OpenAI = "openai"

	// Gemini represents the Google generateContent format identifier.
	Gemini = "gemini"

	// Ollama represents the Ollama generate/chat format identifier.
	Ollama = "ollama"
)
