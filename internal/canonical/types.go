// Package canonical defines the format-neutral chat model that every translator
// reads from or writes into. The types carry no behavior beyond normalization:
// wire-format specifics (role names, field names) are handled by the translators.
package canonical

// Role identifies the author of a message in the canonical model.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversational turn.
type Message struct {
	Role    Role
	Content Content
}

// ToolSpec describes a callable tool. Schema holds the JSON schema of the
// tool input, whatever the wire format names that field.
type ToolSpec struct {
	Name        string
	Description string
	Schema      map[string]any
}

// StopReason is the closed set of reasons a model stopped generating.
type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopMaxTokens StopReason = "max_tokens"
	StopToolUse   StopReason = "tool_use"
)

// Usage carries token accounting. Missing counts are zero.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Total returns the sum of input and output tokens.
func (u Usage) Total() int64 {
	return u.InputTokens + u.OutputTokens
}

// Response is the canonical, fully assembled assistant response.
type Response struct {
	ID         string
	Model      string
	Content    []Block
	StopReason StopReason
	Usage      Usage
}

// EnsureContent guarantees the response carries at least one block by appending
// an empty text block when every upstream content source was absent.
func (r *Response) EnsureContent() {
	if len(r.Content) == 0 {
		r.Content = []Block{TextBlock{Text: ""}}
	}
}

// EmptyResponse returns the minimal well-formed response: one empty text block,
// zeroed usage and end_turn.
func EmptyResponse(id, model string) Response {
	return Response{
		ID:         id,
		Model:      model,
		Content:    []Block{TextBlock{Text: ""}},
		StopReason: StopEndTurn,
	}
}
