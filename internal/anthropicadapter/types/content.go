package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/jsonvalue"
)

var jsonNull = []byte("null")

// ContentBlockParam is one request content block. The set of variants is
// closed: TextBlock, ToolUseBlock, ToolResultBlock and OtherBlock.
type ContentBlockParam interface {
	isContentBlockParam()
}

// TextBlock is a text content block.
type TextBlock struct {
	Text string
}

// ToolUseBlock is a tool invocation replayed from an earlier assistant turn.
type ToolUseBlock struct {
	ID    string
	Name  string
	Input jsonvalue.Value
}

// ToolResultBlock returns the outcome of a tool invocation.
type ToolResultBlock struct {
	ToolUseID string
	Content   ToolResultContent
	IsError   bool
}

// OtherBlock is any block type the bridge does not forward.
type OtherBlock struct {
	Type string
}

func (TextBlock) isContentBlockParam()       {}
func (ToolUseBlock) isContentBlockParam()    {}
func (ToolResultBlock) isContentBlockParam() {}
func (OtherBlock) isContentBlockParam()      {}

// rawBlock holds the union of fields of all known block types.
type rawBlock struct {
	Type      string            `json:"type"`
	Text      string            `json:"text"`
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Input     jsonvalue.Value   `json:"input"`
	ToolUseID string            `json:"tool_use_id"`
	Content   ToolResultContent `json:"content"`
	IsError   bool              `json:"is_error"`
}

func (r rawBlock) param() ContentBlockParam {
	switch r.Type {
	case "text":
		return TextBlock{Text: r.Text}
	case "tool_use":
		return ToolUseBlock{ID: r.ID, Name: r.Name, Input: r.Input}
	case "tool_result":
		return ToolResultBlock{ToolUseID: r.ToolUseID, Content: r.Content, IsError: r.IsError}
	default:
		return OtherBlock{Type: r.Type}
	}
}

// MessageContent is message content sent as a plain string or as an array of
// content blocks. A plain string decodes to a single TextBlock.
type MessageContent struct {
	Blocks []ContentBlockParam
}

// TextContent returns content holding one text block.
func TextContent(s string) MessageContent {
	return MessageContent{Blocks: []ContentBlockParam{TextBlock{Text: s}}}
}

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		c.Blocks = nil
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

	var raw []rawBlock
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("content must be a string or an array of content blocks: %w", err)
	}
	c.Blocks = make([]ContentBlockParam, 0, len(raw))
	for _, r := range raw {
		c.Blocks = append(c.Blocks, r.param())
	}
	return nil
}

// ToolResultContent is tool_result content: a plain string or an array of
// blocks of which only text is kept.
type ToolResultContent struct {
	Parts []string
}

// Text concatenates the text parts.
func (c ToolResultContent) Text() string {
	return strings.Join(c.Parts, "")
}

func (c *ToolResultContent) UnmarshalJSON(data []byte) error {
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
		c.Parts = []string{s}
		return nil
	}

	var blocks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &blocks); err != nil {
		return fmt.Errorf("tool_result content must be a string or an array of blocks: %w", err)
	}
	c.Parts = nil
	for _, b := range blocks {
		if b.Type == "text" {
			c.Parts = append(c.Parts, b.Text)
		}
	}
	return nil
}

// SystemPrompt is the system field: a plain string or an array of text blocks.
type SystemPrompt struct {
	Blocks []string
}

// Text joins the blocks with newlines.
func (s SystemPrompt) Text() string {
	return strings.Join(s.Blocks, "\n")
}

func (s *SystemPrompt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		s.Blocks = []string{text}
		return nil
	}

	var blocks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &blocks); err != nil {
		return fmt.Errorf("system must be a string or an array of text blocks: %w", err)
	}
	s.Blocks = make([]string, 0, len(blocks))
	for _, b := range blocks {
		s.Blocks = append(s.Blocks, b.Text)
	}
	return nil
}
