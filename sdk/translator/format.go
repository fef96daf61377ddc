package translator

import "strings"

// Format identifies a request/response schema handled by the engine.
type Format string

var formatAliases = map[string]Format{
	"anthropic":   FormatClaude,
	"google":      FormatGemini,
	"chat":        FormatOpenAI,
	"openai-chat": FormatOpenAI,
}

// FromString converts an arbitrary identifier to a translator format. Names are
// trimmed and case-folded and well-known aliases are resolved.
func FromString(v string) Format {
	name := strings.ToLower(strings.TrimSpace(v))
	if alias, ok := formatAliases[name]; ok {
		return alias
	}
	return Format(name)
}

// String returns the raw schema identifier.
func (f Format) String() string {
	return string(f)
}

// Known reports whether the format is one of the built-in wire formats.
func (f Format) Known() bool {
	for _, known := range KnownFormats {
		if f == known {
			return true
		}
	}
	return false
}
