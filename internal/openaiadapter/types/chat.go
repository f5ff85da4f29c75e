package types

import "github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/jsonvalue"

// Message roles.
const (
	RoleSystem    = "system"
	RoleDeveloper = "developer"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// CreateChatCompletionRequest is the body of POST /v1/chat/completions.
type CreateChatCompletionRequest struct {
	Model               string                       `json:"model"`
	Messages            []ChatCompletionMessage      `json:"messages"`
	MaxTokens           *int                         `json:"max_tokens,omitempty"`
	MaxCompletionTokens *int                         `json:"max_completion_tokens,omitempty"`
	Temperature         *float64                     `json:"temperature,omitempty"`
	TopP                *float64                     `json:"top_p,omitempty"`
	Stop                StopSequences                `json:"stop,omitempty"`
	Stream              bool                         `json:"stream,omitempty"`
	StreamOptions       *ChatCompletionStreamOptions `json:"stream_options,omitempty"`
	Tools               []ChatCompletionTool         `json:"tools,omitempty"`
	ToolChoice          *ChatCompletionToolChoice    `json:"tool_choice,omitempty"`
	User                string                       `json:"user,omitempty"`
}

// ChatCompletionStreamOptions is accepted for compatibility. Usage is always
// reported in the final chunk.
type ChatCompletionStreamOptions struct {
	IncludeUsage bool `json:"include_usage,omitempty"`
}

// ChatCompletionMessage is one entry of the request's messages array.
type ChatCompletionMessage struct {
	Role       string                   `json:"role"`
	Content    MessageContent           `json:"content"`
	Name       string                   `json:"name,omitempty"`
	ToolCalls  []ChatCompletionToolCall `json:"tool_calls,omitempty"`
	ToolCallID string                   `json:"tool_call_id,omitempty"`
}

// ChatCompletionToolCall is a function call made by the assistant.
type ChatCompletionToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the function and carries its JSON-encoded arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatCompletionTool declares a function the model may call.
type ChatCompletionTool struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes a function tool. Parameters is a JSON Schema.
type FunctionDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  jsonvalue.Value `json:"parameters"`
	Strict      *bool           `json:"strict,omitempty"`
}

// CreateChatCompletionResponse is a non-streaming completion.
type CreateChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   *CompletionUsage       `json:"usage,omitempty"`
}

// ChatCompletionChoice is a single completion choice. Only index 0 is produced.
type ChatCompletionChoice struct {
	Index        int                           `json:"index"`
	Message      ChatCompletionResponseMessage `json:"message"`
	FinishReason string                        `json:"finish_reason"`
}

// ChatCompletionResponseMessage is the assistant message of a choice. Content
// is null when the model only produced tool calls.
type ChatCompletionResponseMessage struct {
	Role      string                   `json:"role"`
	Content   *string                  `json:"content"`
	ToolCalls []ChatCompletionToolCall `json:"tool_calls,omitempty"`
}

// CompletionUsage reports token counts.
type CompletionUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CreateChatCompletionStreamResponse is one streamed chunk.
type CreateChatCompletionStreamResponse struct {
	ID      string                       `json:"id"`
	Object  string                       `json:"object"`
	Created int64                        `json:"created"`
	Model   string                       `json:"model"`
	Choices []ChatCompletionStreamChoice `json:"choices"`
	Usage   *CompletionUsage             `json:"usage,omitempty"`
}

// ChatCompletionStreamChoice carries a delta. FinishReason is null except in
// the final chunk.
type ChatCompletionStreamChoice struct {
	Index        int                       `json:"index"`
	Delta        ChatCompletionStreamDelta `json:"delta"`
	FinishReason *string                   `json:"finish_reason"`
}

// ChatCompletionStreamDelta is the incremental part of a chunk.
type ChatCompletionStreamDelta struct {
	Role      string                               `json:"role,omitempty"`
	Content   *string                              `json:"content,omitempty"`
	ToolCalls []ChatCompletionMessageToolCallChunk `json:"tool_calls,omitempty"`
}

// ChatCompletionMessageToolCallChunk is a tool call fragment. The first
// fragment of a call carries ID, Type and Function.Name; later ones only
// argument text. Index counts tool calls only, starting at 0.
type ChatCompletionMessageToolCallChunk struct {
	Index    int               `json:"index"`
	ID       string            `json:"id,omitempty"`
	Type     string            `json:"type,omitempty"`
	Function FunctionCallChunk `json:"function"`
}

// FunctionCallChunk is a partial FunctionCall.
type FunctionCallChunk struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments"`
}

// ListModelsResponse is the body of GET /v1/models.
type ListModelsResponse struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// Model is one entry of ListModelsResponse.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}
