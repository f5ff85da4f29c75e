package bedrockconverse

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter/types"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
)

// toMessage converts a Converse result. model is the client's model label.
func toMessage(resp *converse.Response, model, id string) *anthropicadapter.Message {
	content := make([]types.ContentBlock, 0, len(resp.Content))
	for _, block := range resp.Content {
		switch b := block.(type) {
		case converse.TextBlock:
			content = append(content, types.NewTextBlock(b.Text))
		case converse.ToolUseBlock:
			content = append(content, types.NewToolUseBlock(b.ID, b.Name, b.Input))
		}
	}

	stopReason := resp.StopReason.ToAnthropic()
	return &anthropicadapter.Message{
		ID:         id,
		Type:       "message",
		Role:       types.RoleAssistant,
		Content:    content,
		Model:      model,
		StopReason: &stopReason,
		Usage: types.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}
}

// newMessageID generates an Anthropic-style message ID (msg_<32 hex chars>).
func newMessageID() string {
	return "msg_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// newToolUseID generates an Anthropic-style tool use ID for blocks the
// backend did not name.
func newToolUseID() string {
	return "toolu_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}
