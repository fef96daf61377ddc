package canonical

import (
	"strings"

	"github.com/tidwall/gjson"
)

// BlockType tags a content block variant.
type BlockType string

const (
	BlockText       BlockType = "text"
	BlockToolUse    BlockType = "tool_use"
	BlockToolResult BlockType = "tool_result"
)

// Block is one discrete unit of message content. The set of implementations
// is closed: TextBlock, ToolUseBlock and ToolResultBlock.
type Block interface {
	Type() BlockType
}

// TextBlock is plain text content.
type TextBlock struct {
	Text string
}

// ToolUseBlock is a tool invocation requested by the assistant. Input is always
// a JSON object; see ParseToolArguments.
type ToolUseBlock struct {
	ID    string
	Name  string
	Input map[string]any
}

// ToolResultBlock carries the output of a previously requested tool call.
// Formats that correlate results by function name rather than call id set Name.
type ToolResultBlock struct {
	ToolUseID string
	Name      string
	Content   string
}

func (TextBlock) Type() BlockType       { return BlockText }
func (ToolUseBlock) Type() BlockType    { return BlockToolUse }
func (ToolResultBlock) Type() BlockType { return BlockToolResult }

// ContentKind identifies which shape a message content arrived in.
type ContentKind int

const (
	ContentNone ContentKind = iota
	ContentString
	ContentBlocks
	ContentObject
)

// Content is the tagged union of the accepted message content shapes: a plain
// string, an ordered list of blocks, or a loosely shaped object carrying text.
type Content struct {
	kind   ContentKind
	text   string
	blocks []Block
}

// StringContent wraps a plain string.
func StringContent(s string) Content {
	return Content{kind: ContentString, text: s}
}

// BlockContent wraps an ordered list of blocks.
func BlockContent(blocks ...Block) Content {
	return Content{kind: ContentBlocks, blocks: blocks}
}

// Kind reports the shape the content arrived in.
func (c Content) Kind() ContentKind { return c.kind }

// IsEmpty reports whether the content carries neither text nor blocks.
func (c Content) IsEmpty() bool {
	switch c.kind {
	case ContentBlocks:
		return len(c.blocks) == 0
	case ContentString, ContentObject:
		return c.text == ""
	default:
		return true
	}
}

// Text flattens the content to plain text. Text blocks are joined with a newline;
// tool blocks do not contribute.
func (c Content) Text() string {
	switch c.kind {
	case ContentString, ContentObject:
		return c.text
	case ContentBlocks:
		var parts []string
		for _, b := range c.blocks {
			if tb, ok := b.(TextBlock); ok {
				parts = append(parts, tb.Text)
			}
		}
		return strings.Join(parts, "\n")
	default:
		return ""
	}
}

// Blocks returns the content as a block list. String and object content become
// a single text block; empty content yields nil.
func (c Content) Blocks() []Block {
	switch c.kind {
	case ContentBlocks:
		out := make([]Block, len(c.blocks))
		copy(out, c.blocks)
		return out
	case ContentString, ContentObject:
		return []Block{TextBlock{Text: c.text}}
	default:
		return nil
	}
}

// ToolUses returns the tool invocation blocks in order.
func (c Content) ToolUses() []ToolUseBlock {
	var out []ToolUseBlock
	for _, b := range c.blocks {
		if tu, ok := b.(ToolUseBlock); ok {
			out = append(out, tu)
		}
	}
	return out
}

// ToolResults returns the tool result blocks in order.
func (c Content) ToolResults() []ToolResultBlock {
	var out []ToolResultBlock
	for _, b := range c.blocks {
		if tr, ok := b.(ToolResultBlock); ok {
			out = append(out, tr)
		}
	}
	return out
}

// ParseContent normalizes any accepted wire shape of message content into the
// canonical Content union. It is the only place that sniffs content shapes.
func ParseContent(raw gjson.Result) Content {
	switch {
	case !raw.Exists() || raw.Type == gjson.Null:
		return Content{}
	case raw.Type == gjson.String:
		return StringContent(raw.String())
	case raw.IsArray():
		var blocks []Block
		raw.ForEach(func(_, item gjson.Result) bool {
			if b, ok := parseBlock(item); ok {
				blocks = append(blocks, b)
			}
			return true
		})
		return BlockContent(blocks...)
	case raw.IsObject():
		if text := raw.Get("text"); text.Exists() {
			return Content{kind: ContentObject, text: text.String()}
		}
		return Content{}
	default:
		return StringContent(raw.String())
	}
}

func parseBlock(item gjson.Result) (Block, bool) {
	if item.Type == gjson.String {
		return TextBlock{Text: item.String()}, true
	}
	if !item.IsObject() {
		return nil, false
	}
	switch item.Get("type").String() {
	case "text", "input_text", "output_text":
		return TextBlock{Text: item.Get("text").String()}, true
	case "tool_use":
		return ToolUseBlock{
			ID:    item.Get("id").String(),
			Name:  item.Get("name").String(),
			Input: ToolInput(item.Get("input")),
		}, true
	case "tool_result":
		return ToolResultBlock{
			ToolUseID: item.Get("tool_use_id").String(),
			Content:   ParseContent(item.Get("content")).Text(),
		}, true
	case "":
		if text := item.Get("text"); text.Exists() {
			return TextBlock{Text: text.String()}, true
		}
	}
	return nil, false
}
