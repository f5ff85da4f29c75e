package bedrockconverse

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/jsonvalue"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter/types"
)

// fromChatCompletionTools transforms the OpenAI tools array to canonical tool specs.
// Converse only supports function tools; custom tools are skipped.
func fromChatCompletionTools(tools []types.ChatCompletionTool) []converse.ToolSpec {
	if len(tools) == 0 {
		return nil
	}

	specs := make([]converse.ToolSpec, 0, len(tools))
	for _, tool := range tools {
		if tool.Type != "" && tool.Type != "function" {
			continue
		}
		if tool.Function.Name == "" {
			continue
		}
		specs = append(specs, converse.ToolSpec{
			Name:        tool.Function.Name,
			Description: tool.Function.Description,
			InputSchema: tool.Function.Parameters,
		})
	}
	return specs
}

// fromToolChoice converts OpenAI tool_choice. OpenAI defaults to auto when tools are
// provided but no choice is specified; unrecognized choices fall back to auto as well.
func fromToolChoice(choice *types.ChatCompletionToolChoice) converse.ToolChoice {
	if choice == nil {
		return converse.ToolChoice{Mode: converse.ToolChoiceAuto}
	}

	switch choice.Type {
	case types.ToolChoiceNone:
		return converse.ToolChoice{Mode: converse.ToolChoiceNone}
	case types.ToolChoiceRequired:
		return converse.ToolChoice{Mode: converse.ToolChoiceAny}
	case types.ToolChoiceFunction:
		if choice.Function != nil && choice.Function.Name != "" {
			return converse.ToolChoice{Mode: converse.ToolChoiceTool, Name: choice.Function.Name}
		}
	}
	return converse.ToolChoice{Mode: converse.ToolChoiceAuto}
}

// fromToolCalls converts assistant tool calls to tool-use blocks. Empty
// arguments mean an empty object; calls whose arguments are not valid JSON
// are dropped.
func fromToolCalls(calls []types.ChatCompletionToolCall) []converse.ContentBlock {
	var blocks []converse.ContentBlock
	for _, call := range calls {
		if call.ID == "" || call.Function.Name == "" {
			continue
		}

		input := jsonvalue.EmptyObject()
		if call.Function.Arguments != "" {
			v, err := jsonvalue.Decode([]byte(call.Function.Arguments))
			if err != nil {
				slog.Debug("dropping tool call with malformed arguments", "tool_call_id", call.ID, "tool", call.Function.Name, "error", err)
				continue
			}
			input = v
		}

		blocks = append(blocks, converse.ToolUseBlock{
			ID:    call.ID,
			Name:  call.Function.Name,
			Input: input,
		})
	}
	return blocks
}

// toChatCompletionToolCalls converts tool-use blocks to OpenAI tool calls (non-streaming).
// Returns nil when there are none so the field is omitted.
func toChatCompletionToolCalls(content []converse.ContentBlock) []types.ChatCompletionToolCall {
	var calls []types.ChatCompletionToolCall
	for _, block := range content {
		tu, ok := block.(converse.ToolUseBlock)
		if !ok {
			continue
		}

		// OpenAI clients require tool_call_id; generate a fallback if missing.
		id := tu.ID
		if id == "" {
			id = newToolCallID()
		}

		calls = append(calls, types.ChatCompletionToolCall{
			ID:   id,
			Type: "function",
			Function: types.FunctionCall{
				Name:      tu.Name,
				Arguments: encodeArguments(tu.Input),
			},
		})
	}
	return calls
}

// encodeArguments renders tool input as the JSON string OpenAI expects.
func encodeArguments(input jsonvalue.Value) string {
	if input.IsNull() {
		return "{}"
	}
	b, err := jsonvalue.Encode(input)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// newToolCallID generates an OpenAI-style tool call ID (format: call_<8-char-uuid>).
func newToolCallID() string {
	return fmt.Sprintf("call_%s", uuid.New().String()[:8])
}
