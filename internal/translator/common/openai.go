package common

import (
	"github.com/chatbridge/chatbridge/internal/canonical"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Conversation is the canonical view of an OpenAI-style message list.
type Conversation struct {
	System    string
	HasSystem bool
	// DroppedSystem counts system messages after the first, which are not kept.
	DroppedSystem int
	Messages      []canonical.Message
}

// ReadOpenAIMessages reads an OpenAI-style messages array. Only the first
// system (or developer) message is hoisted into System; later ones are dropped.
// Tool and function role messages become user turns carrying tool results.
func ReadOpenAIMessages(messages gjson.Result) Conversation {
	var conv Conversation
	if !messages.IsArray() {
		return conv
	}
	messages.ForEach(func(_, msg gjson.Result) bool {
		content := canonical.ParseContent(msg.Get("content"))
		switch role := msg.Get("role").String(); role {
		case "system", "developer":
			if conv.HasSystem {
				conv.DroppedSystem++
				return true
			}
			conv.System = content.Text()
			conv.HasSystem = true
		case "assistant":
			toolUses := readToolCalls(msg)
			if len(toolUses) == 0 {
				conv.Messages = append(conv.Messages, canonical.Message{Role: canonical.RoleAssistant, Content: content})
				return true
			}
			var blocks []canonical.Block
			if text := content.Text(); text != "" {
				blocks = append(blocks, canonical.TextBlock{Text: text})
			}
			for _, tu := range toolUses {
				blocks = append(blocks, tu)
			}
			conv.Messages = append(conv.Messages, canonical.Message{Role: canonical.RoleAssistant, Content: canonical.BlockContent(blocks...)})
		case "tool", "function":
			result := canonical.ToolResultBlock{
				ToolUseID: msg.Get("tool_call_id").String(),
				Name:      msg.Get("name").String(),
				Content:   content.Text(),
			}
			conv.Messages = append(conv.Messages, canonical.Message{Role: canonical.RoleUser, Content: canonical.BlockContent(result)})
		default:
			conv.Messages = append(conv.Messages, canonical.Message{Role: canonical.RoleUser, Content: content})
		}
		return true
	})
	if conv.DroppedSystem > 0 {
		log.Debugf("translator: dropped %d extra system message(s), only the first is kept", conv.DroppedSystem)
	}
	return conv
}

// readToolCalls collects tool invocations from an assistant message, covering
// both the tool_calls array and the legacy single function_call.
func readToolCalls(msg gjson.Result) []canonical.ToolUseBlock {
	var out []canonical.ToolUseBlock
	msg.Get("tool_calls").ForEach(func(_, call gjson.Result) bool {
		if t := call.Get("type").String(); t != "" && t != "function" {
			return true
		}
		fn := call.Get("function")
		out = append(out, canonical.ToolUseBlock{
			ID:    call.Get("id").String(),
			Name:  fn.Get("name").String(),
			Input: toolArguments(fn.Get("arguments")),
		})
		return true
	})
	if fc := msg.Get("function_call"); fc.IsObject() && len(out) == 0 {
		out = append(out, canonical.ToolUseBlock{
			Name:  fc.Get("name").String(),
			Input: toolArguments(fc.Get("arguments")),
		})
	}
	return out
}

func toolArguments(args gjson.Result) map[string]any {
	input := canonical.ToolInput(args)
	if _, wrapped := input[canonical.RawArgumentsKey]; wrapped {
		log.Debug("translator: tool arguments are not a JSON object, keeping raw string")
	}
	return input
}

// ReadOpenAIResponse reads a non-streaming chat.completion into the canonical
// response. With no choices it yields the minimal empty response. Only
// function-typed tool calls are kept, and arguments that fail to parse are
// preserved under raw_arguments. newID fills tool call ids that upstream omitted.
func ReadOpenAIResponse(root gjson.Result, newID func(prefix string) string) canonical.Response {
	id := root.Get("id").String()
	model := root.Get("model").String()

	choices := root.Get("choices").Array()
	if len(choices) == 0 {
		return canonical.EmptyResponse(id, model)
	}

	choice := choices[0]
	msg := choice.Get("message")

	var blocks []canonical.Block
	if text := canonical.ParseContent(msg.Get("content")).Text(); text != "" {
		blocks = append(blocks, canonical.TextBlock{Text: text})
	}

	msg.Get("tool_calls").ForEach(func(_, call gjson.Result) bool {
		if call.Get("type").String() != "function" {
			return true
		}
		fn := call.Get("function")
		blocks = append(blocks, canonical.ToolUseBlock{
			ID:    IDOr(call.Get("id").String(), newID, "toolu_"),
			Name:  fn.Get("name").String(),
			Input: toolArguments(fn.Get("arguments")),
		})
		return true
	})
	if fc := msg.Get("function_call"); fc.IsObject() {
		blocks = append(blocks, canonical.ToolUseBlock{
			ID:    IDOr("", newID, "toolu_"),
			Name:  fc.Get("name").String(),
			Input: toolArguments(fc.Get("arguments")),
		})
	}

	resp := canonical.Response{
		ID:         id,
		Model:      model,
		Content:    blocks,
		StopReason: canonical.StopReasonFromOpenAI(choice.Get("finish_reason").String()),
		Usage: canonical.Usage{
			InputTokens:  root.Get("usage.prompt_tokens").Int(),
			OutputTokens: root.Get("usage.completion_tokens").Int(),
		},
	}
	resp.EnsureContent()
	return resp
}

// ReadMaxTokens returns the first present token limit among the given paths.
func ReadMaxTokens(root gjson.Result, paths ...string) (int64, bool) {
	for _, path := range paths {
		if v := root.Get(path); v.Exists() && v.Type == gjson.Number {
			return v.Int(), true
		}
	}
	return 0, false
}

// ReadStopSequences accepts a single string or an array of strings.
func ReadStopSequences(stop gjson.Result) []string {
	switch {
	case stop.Type == gjson.String && stop.String() != "":
		return []string{stop.String()}
	case stop.IsArray():
		var out []string
		stop.ForEach(func(_, v gjson.Result) bool {
			if s := v.String(); s != "" {
				out = append(out, s)
			}
			return true
		})
		return out
	}
	return nil
}

// IDOr returns id, or a synthesized one when it is empty.
func IDOr(id string, newID func(prefix string) string, prefix string) string {
	if id != "" || newID == nil {
		return id
	}
	return newID(prefix)
}

// ToolNamesByID maps tool call ids to function names across a conversation, for
// formats that correlate tool results by name.
func ToolNamesByID(messages []canonical.Message) map[string]string {
	names := make(map[string]string)
	for _, msg := range messages {
		for _, tu := range msg.Content.ToolUses() {
			if tu.ID != "" {
				names[tu.ID] = tu.Name
			}
		}
	}
	return names
}
