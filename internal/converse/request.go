// Package converse defines the dialect-neutral invocation model shared by the
// client adapters and the backend gateway.
//
// Request translators turn a client request (OpenAI Chat Completions or
// Anthropic Messages) into a Request. A Gateway executes it, either returning a
// Response in one piece or an EventStream of StreamEvent values, and response
// translators turn those back into the client's dialect.
package converse

import "github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/jsonvalue"

// Role is the author of a message. Messages sent to the backend strictly
// alternate between RoleUser and RoleAssistant.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContentBlock is one unit of message content. The set of variants is closed:
// TextBlock, ToolUseBlock and ToolResultBlock.
type ContentBlock interface {
	isContentBlock()
}

// TextBlock is plain text content.
type TextBlock struct {
	Text string
}

// ToolUseBlock is a tool invocation produced by the assistant.
type ToolUseBlock struct {
	ID    string
	Name  string
	Input jsonvalue.Value
}

// ToolResultBlock carries the outcome of a tool invocation back to the model.
type ToolResultBlock struct {
	ToolUseID string
	Text      string
	IsError   bool
}

func (TextBlock) isContentBlock()       {}
func (ToolUseBlock) isContentBlock()    {}
func (ToolResultBlock) isContentBlock() {}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content []ContentBlock
}

// InferenceConfig holds sampling parameters. Nil pointers are not sent.
type InferenceConfig struct {
	MaxTokens     int
	Temperature   *float64
	TopP          *float64
	StopSequences []string
}

// ToolSpec describes a tool the model may call.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema jsonvalue.Value
}

// ToolChoiceMode selects how the model may use tools.
type ToolChoiceMode int

const (
	// ToolChoiceAuto lets the model decide.
	ToolChoiceAuto ToolChoiceMode = iota
	// ToolChoiceAny forces the model to call some tool.
	ToolChoiceAny
	// ToolChoiceTool forces the model to call the named tool.
	ToolChoiceTool
	// ToolChoiceNone disables tools. It has no backend representation; the
	// tool configuration is dropped instead.
	ToolChoiceNone
)

// ToolChoice is a ToolChoiceMode plus the tool name for ToolChoiceTool.
type ToolChoice struct {
	Mode ToolChoiceMode
	Name string
}

// ToolConfig is the set of tools offered to the model.
type ToolConfig struct {
	Tools  []ToolSpec
	Choice ToolChoice
}

// NewToolConfig returns nil when there is nothing to send: no tools, or a
// choice of none.
func NewToolConfig(tools []ToolSpec, choice ToolChoice) *ToolConfig {
	if len(tools) == 0 || choice.Mode == ToolChoiceNone {
		return nil
	}
	if choice.Mode == ToolChoiceTool && choice.Name == "" {
		choice = ToolChoice{Mode: ToolChoiceAuto}
	}
	return &ToolConfig{Tools: tools, Choice: choice}
}

// Request is a complete backend invocation.
type Request struct {
	ModelID   string
	System    []string
	Messages  []Message
	Inference InferenceConfig
	Tools     *ToolConfig
}

// Response is the result of a non-streaming invocation.
type Response struct {
	Content    []ContentBlock
	StopReason StopReason
	Usage      Usage
}

// Usage reports token counts as returned by the backend.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
