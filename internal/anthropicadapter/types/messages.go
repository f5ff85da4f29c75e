package types

import (
	"github.com/anthropics/anthropic-sdk-go"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/jsonvalue"
)

// Roles accepted in MessageParam.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MessagesRequest is the body of POST /v1/messages.
type MessagesRequest struct {
	Model         string         `json:"model" validate:"required,max=128"`
	Messages      []MessageParam `json:"messages" validate:"required,min=1,max=100,dive"`
	MaxTokens     int            `json:"max_tokens" validate:"required,min=1"`
	System        *SystemPrompt  `json:"system,omitempty"`
	Temperature   *float64       `json:"temperature,omitempty"`
	TopP          *float64       `json:"top_p,omitempty"`
	StopSequences []string       `json:"stop_sequences,omitempty"`
	Stream        bool           `json:"stream,omitempty"`
	Tools         []Tool         `json:"tools,omitempty" validate:"max=50,dive"`
	ToolChoice    *ToolChoice    `json:"tool_choice,omitempty"`
}

// CountTokensRequest is the body of POST /v1/messages/count_tokens.
type CountTokensRequest struct {
	Model    string         `json:"model" validate:"max=128"`
	Messages []MessageParam `json:"messages" validate:"max=100,dive"`
	System   *SystemPrompt  `json:"system,omitempty"`
	Tools    []Tool         `json:"tools,omitempty" validate:"max=50,dive"`
}

// CountTokensResponse reports the estimated prompt size.
type CountTokensResponse struct {
	InputTokens int `json:"input_tokens"`
}

// MessageParam is one conversation turn in a request.
type MessageParam struct {
	Role    string         `json:"role" validate:"required"`
	Content MessageContent `json:"content"`
}

// Tool describes a client-defined tool.
type Tool struct {
	Name        string          `json:"name" validate:"required,max=64"`
	Description string          `json:"description,omitempty"`
	InputSchema jsonvalue.Value `json:"input_schema"`
}

// Tool choice types.
const (
	ToolChoiceAuto = "auto"
	ToolChoiceAny  = "any"
	ToolChoiceTool = "tool"
	ToolChoiceNone = "none"
)

// ToolChoice selects how the model may use tools. Name is only meaningful for
// type "tool".
type ToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// Message is the non-streaming response body.
type Message struct {
	ID           string                `json:"id"`
	Type         string                `json:"type"`
	Role         string                `json:"role"`
	Content      []ContentBlock        `json:"content"`
	Model        string                `json:"model"`
	StopReason   *anthropic.StopReason `json:"stop_reason"`
	StopSequence *string               `json:"stop_sequence"`
	Usage        Usage                 `json:"usage"`
}

// Usage reports token counts.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ContentBlock is an output content block: text or tool_use.
type ContentBlock struct {
	Type  string           `json:"type"`
	Text  *string          `json:"text,omitempty"`
	ID    string           `json:"id,omitempty"`
	Name  string           `json:"name,omitempty"`
	Input *jsonvalue.Value `json:"input,omitempty"`
}

// NewTextBlock returns a text output block.
func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: &text}
}

// NewToolUseBlock returns a tool_use output block. A null input is sent as {}.
func NewToolUseBlock(id, name string, input jsonvalue.Value) ContentBlock {
	if input.IsNull() {
		input = jsonvalue.EmptyObject()
	}
	return ContentBlock{Type: "tool_use", ID: id, Name: name, Input: &input}
}
