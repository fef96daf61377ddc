package translator

import "github.com/chatbridge/chatbridge/internal/constant"

// Common format identifiers exposed for SDK users.
const (
	FormatClaude Format = constant.Claude
	FormatOpenAI Format = constant.OpenAI
	FormatGemini Format = constant.Gemini
	FormatOllama Format = constant.Ollama
)

// KnownFormats lists the wire formats the engine understands.
var KnownFormats = []Format{FormatClaude, FormatOpenAI, FormatGemini, FormatOllama}
