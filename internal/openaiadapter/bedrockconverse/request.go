package bedrockconverse

import (
	"strings"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter/types"
)

// defaultMaxTokens applies when the client sets neither max_completion_tokens
// nor max_tokens. Converse requires an explicit limit for most models.
const defaultMaxTokens = 4096

// toConverseRequest translates a chat completion request for modelID.
func toConverseRequest(clientReq openaiadapter.CreateChatCompletionRequest, modelID string) *converse.Request {
	var system []string
	var messages []converse.Message

	for _, msg := range clientReq.Messages {
		var role converse.Role
		var blocks []converse.ContentBlock

		switch msg.Role {
		case types.RoleSystem, types.RoleDeveloper:
			if text := msg.Content.Text(); text != "" {
				system = append(system, text)
			}
			continue
		case types.RoleUser:
			role = converse.RoleUser
			blocks = textBlocks(msg.Content)
		case types.RoleAssistant:
			role = converse.RoleAssistant
			blocks = append(textBlocks(msg.Content), fromToolCalls(msg.ToolCalls)...)
		case types.RoleTool:
			// Tool results travel in a user turn.
			role = converse.RoleUser
			if msg.ToolCallID != "" {
				blocks = []converse.ContentBlock{converse.ToolResultBlock{
					ToolUseID: msg.ToolCallID,
					Text:      msg.Content.Text(),
				}}
			}
		default:
			continue
		}

		if len(blocks) == 0 {
			continue
		}
		messages = appendMerged(messages, converse.Message{Role: role, Content: blocks})
	}

	req := &converse.Request{
		ModelID:  modelID,
		Messages: messages,
		Inference: converse.InferenceConfig{
			MaxTokens:     maxTokens(clientReq),
			Temperature:   clientReq.Temperature,
			TopP:          clientReq.TopP,
			StopSequences: clientReq.Stop,
		},
		Tools: converse.NewToolConfig(fromChatCompletionTools(clientReq.Tools), fromToolChoice(clientReq.ToolChoice)),
	}
	if len(system) > 0 {
		req.System = []string{strings.Join(system, "\n")}
	}
	return req
}

// textBlocks returns the message text as a single block, or nothing when the
// text is empty. Converse rejects empty text blocks.
func textBlocks(content types.MessageContent) []converse.ContentBlock {
	text := content.Text()
	if text == "" {
		return nil
	}
	return []converse.ContentBlock{converse.TextBlock{Text: text}}
}

// appendMerged appends msg, folding it into the previous message when both
// have the same role. Adjacent text blocks are joined with a newline.
func appendMerged(messages []converse.Message, msg converse.Message) []converse.Message {
	if len(messages) == 0 || messages[len(messages)-1].Role != msg.Role {
		return append(messages, msg)
	}

	last := &messages[len(messages)-1]
	for i, block := range msg.Content {
		if i == 0 {
			prev, prevIsText := last.Content[len(last.Content)-1].(converse.TextBlock)
			next, nextIsText := block.(converse.TextBlock)
			if prevIsText && nextIsText {
				last.Content[len(last.Content)-1] = converse.TextBlock{Text: prev.Text + "\n" + next.Text}
				continue
			}
		}
		last.Content = append(last.Content, block)
	}
	return messages
}

func maxTokens(req openaiadapter.CreateChatCompletionRequest) int {
	if req.MaxCompletionTokens != nil && *req.MaxCompletionTokens > 0 {
		return *req.MaxCompletionTokens
	}
	if req.MaxTokens != nil && *req.MaxTokens > 0 {
		return *req.MaxTokens
	}
	return defaultMaxTokens
}
