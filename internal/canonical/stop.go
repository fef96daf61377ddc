package canonical

import "strings"

var openAIFinishReasons = map[string]StopReason{
	"stop":          StopEndTurn,
	"length":        StopMaxTokens,
	"tool_calls":    StopToolUse,
	"function_call": StopToolUse,
}

// StopReasonFromOpenAI maps an OpenAI finish_reason. Unrecognized values map to
// end_turn.
func StopReasonFromOpenAI(reason string) StopReason {
	if mapped, ok := openAIFinishReasons[reason]; ok {
		return mapped
	}
	return StopEndTurn
}

// StopReasonFromClaude validates a Claude stop_reason against the closed set.
// stop_sequence and unknown values become end_turn.
func StopReasonFromClaude(reason string) StopReason {
	switch StopReason(reason) {
	case StopMaxTokens, StopToolUse:
		return StopReason(reason)
	default:
		return StopEndTurn
	}
}

// StopReasonFromGemini case-folds a Gemini finishReason before mapping it.
func StopReasonFromGemini(reason string) StopReason {
	switch strings.ToLower(strings.TrimSpace(reason)) {
	case "max_tokens":
		return StopMaxTokens
	default:
		return StopEndTurn
	}
}

// StopReasonFromOllama maps an Ollama done_reason.
func StopReasonFromOllama(reason string) StopReason {
	if reason == "length" {
		return StopMaxTokens
	}
	return StopEndTurn
}

// OpenAIFinishReason renders a stop reason as an OpenAI finish_reason. Tool use
// maps to the legacy function_call value when legacy is set.
func OpenAIFinishReason(reason StopReason, legacy bool) string {
	switch reason {
	case StopMaxTokens:
		return "length"
	case StopToolUse:
		if legacy {
			return "function_call"
		}
		return "tool_calls"
	default:
		return "stop"
	}
}
