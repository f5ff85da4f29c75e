package bedrockconverse

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter/types"
)

// toChatCompletionResponse converts a Converse result. model is the name the
// client asked for, not the resolved Bedrock id.
func toChatCompletionResponse(resp *converse.Response, model, id string, created int64) *openaiadapter.CreateChatCompletionResponse {
	var text strings.Builder
	for _, block := range resp.Content {
		if tb, ok := block.(converse.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}

	message := types.ChatCompletionResponseMessage{
		Role:      types.RoleAssistant,
		ToolCalls: toChatCompletionToolCalls(resp.Content),
	}
	// Content is null only for pure tool-call turns.
	if text.Len() > 0 || len(message.ToolCalls) == 0 {
		s := text.String()
		message.Content = &s
	}

	return &openaiadapter.CreateChatCompletionResponse{
		ID:      id,
		Object:  "chat.completion",
		Created: created,
		Model:   model,
		Choices: []types.ChatCompletionChoice{{
			Index:        0,
			Message:      message,
			FinishReason: resp.StopReason.ToOpenAI(),
		}},
		Usage: toCompletionUsage(resp.Usage),
	}
}

// toCompletionUsage copies backend token counts verbatim.
func toCompletionUsage(usage converse.Usage) *types.CompletionUsage {
	return &types.CompletionUsage{
		PromptTokens:     usage.InputTokens,
		CompletionTokens: usage.OutputTokens,
		TotalTokens:      usage.TotalTokens,
	}
}

// newResponseID generates an OpenAI-compatible response ID (chatcmpl-<uuid>).
func newResponseID() string {
	return "chatcmpl-" + uuid.NewString()
}
