package bedrockconverse

import (
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter/types"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
)

// toConverseRequest translates a Messages request for modelID.
func toConverseRequest(clientReq anthropicadapter.MessagesRequest, modelID string) *converse.Request {
	return &converse.Request{
		ModelID:  modelID,
		System:   toSystem(clientReq.System),
		Messages: toMessages(clientReq.Messages),
		Inference: converse.InferenceConfig{
			MaxTokens:     clientReq.MaxTokens,
			Temperature:   clientReq.Temperature,
			TopP:          clientReq.TopP,
			StopSequences: clientReq.StopSequences,
		},
		Tools: converse.NewToolConfig(toToolSpecs(clientReq.Tools), toToolChoice(clientReq.ToolChoice)),
	}
}

// toSystem joins the system blocks into one. An absent or empty prompt yields
// no block at all.
func toSystem(system *types.SystemPrompt) []string {
	if system == nil {
		return nil
	}
	text := system.Text()
	if text == "" {
		return nil
	}
	return []string{text}
}

func toMessages(params []types.MessageParam) []converse.Message {
	messages := make([]converse.Message, 0, len(params))
	for _, p := range params {
		var role converse.Role
		switch p.Role {
		case types.RoleUser:
			role = converse.RoleUser
		case types.RoleAssistant:
			role = converse.RoleAssistant
		default:
			continue
		}

		var blocks []converse.ContentBlock
		for _, b := range p.Content.Blocks {
			if block, ok := toContentBlock(b); ok {
				blocks = append(blocks, block)
			}
		}
		if len(blocks) == 0 {
			continue
		}
		messages = append(messages, converse.Message{Role: role, Content: blocks})
	}
	return messages
}

// toContentBlock reports false for blocks that cannot be forwarded.
func toContentBlock(b types.ContentBlockParam) (converse.ContentBlock, bool) {
	switch b := b.(type) {
	case types.TextBlock:
		if b.Text == "" {
			return nil, false
		}
		return converse.TextBlock{Text: b.Text}, true
	case types.ToolUseBlock:
		if b.ID == "" || b.Name == "" {
			return nil, false
		}
		return converse.ToolUseBlock{ID: b.ID, Name: b.Name, Input: b.Input}, true
	case types.ToolResultBlock:
		if b.ToolUseID == "" {
			return nil, false
		}
		return converse.ToolResultBlock{ToolUseID: b.ToolUseID, Text: b.Content.Text(), IsError: b.IsError}, true
	default:
		return nil, false
	}
}

func toToolSpecs(tools []types.Tool) []converse.ToolSpec {
	if len(tools) == 0 {
		return nil
	}
	specs := make([]converse.ToolSpec, 0, len(tools))
	for _, t := range tools {
		specs = append(specs, converse.ToolSpec{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return specs
}

// toToolChoice maps tool_choice. Absent, unknown, and "tool" without a name
// all mean auto.
func toToolChoice(choice *types.ToolChoice) converse.ToolChoice {
	if choice == nil {
		return converse.ToolChoice{Mode: converse.ToolChoiceAuto}
	}
	switch choice.Type {
	case types.ToolChoiceAny:
		return converse.ToolChoice{Mode: converse.ToolChoiceAny}
	case types.ToolChoiceNone:
		return converse.ToolChoice{Mode: converse.ToolChoiceNone}
	case types.ToolChoiceTool:
		if choice.Name != "" {
			return converse.ToolChoice{Mode: converse.ToolChoiceTool, Name: choice.Name}
		}
	}
	return converse.ToolChoice{Mode: converse.ToolChoiceAuto}
}
