package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

var jsonNull = []byte("null")

// ContentPart is one element of an array-form message content. Only "text"
// parts carry data the backend can use; other part types are kept so callers
// can see they were present.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// MessageContent is a message's content, sent either as a plain string or as
// an array of content parts. Null and absent content decode to no parts.
type MessageContent struct {
	Parts []ContentPart
}

// TextContent returns content holding a single text part.
func TextContent(s string) MessageContent {
	return MessageContent{Parts: []ContentPart{{Type: "text", Text: s}}}
}

// Text concatenates the text parts.
func (c MessageContent) Text() string {
	var b strings.Builder
	for _, p := range c.Parts {
		if p.Type == "text" {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		c.Parts = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = TextContent(s)
		return nil
	}

	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("content must be a string or an array of parts: %w", err)
	}
	c.Parts = parts
	return nil
}

// MarshalJSON writes a single text part as a plain string.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	switch {
	case len(c.Parts) == 0:
		return jsonNull, nil
	case len(c.Parts) == 1 && c.Parts[0].Type == "text":
		return json.Marshal(c.Parts[0].Text)
	default:
		return json.Marshal(c.Parts)
	}
}

// StopSequences is the stop parameter: a single string or a list of strings.
type StopSequences []string

func (s *StopSequences) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = StopSequences{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("stop must be a string or an array of strings: %w", err)
	}
	*s = many
	return nil
}

// Tool choice modes.
const (
	ToolChoiceNone     = "none"
	ToolChoiceAuto     = "auto"
	ToolChoiceRequired = "required"
	ToolChoiceFunction = "function"
)

// ChatCompletionToolChoice is tool_choice: one of the strings "none", "auto"
// or "required", or {"type":"function","function":{"name":...}}. Any other
// object form decodes with its Type and no function name.
type ChatCompletionToolChoice struct {
	Type     string
	Function *NamedFunction
}

// NamedFunction names the function a named tool choice forces.
type NamedFunction struct {
	Name string `json:"name"`
}

func (t *ChatCompletionToolChoice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.Type)
	}

	var obj struct {
		Type     string         `json:"type"`
		Function *NamedFunction `json:"function"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("tool_choice must be a string or an object: %w", err)
	}
	t.Type = obj.Type
	t.Function = obj.Function
	return nil
}

func (t ChatCompletionToolChoice) MarshalJSON() ([]byte, error) {
	if t.Function == nil {
		return json.Marshal(t.Type)
	}
	return json.Marshal(struct {
		Type     string         `json:"type"`
		Function *NamedFunction `json:"function"`
	}{t.Type, t.Function})
}
