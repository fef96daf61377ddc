package canonical

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// RawArgumentsKey holds the original argument string when it could not be
// parsed as a JSON object.
const RawArgumentsKey = "raw_arguments"

// ParseToolArguments converts a tool-call argument string into a JSON object.
// An empty string yields an empty object. Anything that is not a JSON object is
// preserved verbatim under RawArgumentsKey instead of failing.
func ParseToolArguments(args string) map[string]any {
	if strings.TrimSpace(args) == "" {
		return map[string]any{}
	}
	if gjson.Valid(args) {
		if obj, ok := gjson.Parse(args).Value().(map[string]any); ok {
			return obj
		}
	}
	return map[string]any{RawArgumentsKey: args}
}

// ToolInput reads a tool input that may be an object or a JSON-encoded string.
func ToolInput(raw gjson.Result) map[string]any {
	switch {
	case raw.IsObject():
		if obj, ok := raw.Value().(map[string]any); ok {
			return obj
		}
	case raw.Type == gjson.String:
		return ParseToolArguments(raw.String())
	}
	return map[string]any{}
}

// MarshalArguments renders a tool input back to the JSON string form used by
// OpenAI-style function calls.
func MarshalArguments(input map[string]any) string {
	if input == nil {
		return "{}"
	}
	data, err := json.Marshal(input)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ParseToolSpecs reads a tool list, taking the schema from whichever of the
// given field names is present first. Entries without a name are skipped.
func ParseToolSpecs(list gjson.Result, schemaFields ...string) []ToolSpec {
	if !list.IsArray() {
		return nil
	}
	var specs []ToolSpec
	list.ForEach(func(_, tool gjson.Result) bool {
		fn := tool
		if inner := tool.Get("function"); inner.IsObject() {
			fn = inner
		}
		name := fn.Get("name").String()
		if name == "" {
			return true
		}
		spec := ToolSpec{Name: name, Description: fn.Get("description").String()}
		for _, field := range schemaFields {
			if schema := fn.Get(field); schema.IsObject() {
				spec.Schema, _ = schema.Value().(map[string]any)
				break
			}
		}
		specs = append(specs, spec)
		return true
	})
	return specs
}
