package bedrock

import (
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/jsonvalue"
)

// converseParams holds the parts shared by ConverseInput and ConverseStreamInput.
type converseParams struct {
	modelID   *string
	system    []types.SystemContentBlock
	messages  []types.Message
	inference *types.InferenceConfiguration
	tools     *types.ToolConfiguration
}

func toConverseParams(req *converse.Request) converseParams {
	return converseParams{
		modelID:   aws.String(req.ModelID),
		system:    toSystem(req.System),
		messages:  toMessages(req.Messages),
		inference: toInferenceConfig(req.Inference),
		tools:     toToolConfig(req.Tools),
	}
}

func (p converseParams) input() *bedrockruntime.ConverseInput {
	return &bedrockruntime.ConverseInput{
		ModelId:         p.modelID,
		System:          p.system,
		Messages:        p.messages,
		InferenceConfig: p.inference,
		ToolConfig:      p.tools,
	}
}

func (p converseParams) streamInput() *bedrockruntime.ConverseStreamInput {
	return &bedrockruntime.ConverseStreamInput{
		ModelId:         p.modelID,
		System:          p.system,
		Messages:        p.messages,
		InferenceConfig: p.inference,
		ToolConfig:      p.tools,
	}
}

func toSystem(system []string) []types.SystemContentBlock {
	if len(system) == 0 {
		return nil
	}
	blocks := make([]types.SystemContentBlock, 0, len(system))
	for _, s := range system {
		blocks = append(blocks, &types.SystemContentBlockMemberText{Value: s})
	}
	return blocks
}

func toMessages(messages []converse.Message) []types.Message {
	out := make([]types.Message, 0, len(messages))
	for _, m := range messages {
		role := types.ConversationRoleUser
		if m.Role == converse.RoleAssistant {
			role = types.ConversationRoleAssistant
		}

		content := make([]types.ContentBlock, 0, len(m.Content))
		for _, block := range m.Content {
			if b := toContentBlock(block); b != nil {
				content = append(content, b)
			}
		}
		if len(content) == 0 {
			continue
		}
		out = append(out, types.Message{Role: role, Content: content})
	}
	return out
}

func toContentBlock(block converse.ContentBlock) types.ContentBlock {
	switch b := block.(type) {
	case converse.TextBlock:
		return &types.ContentBlockMemberText{Value: b.Text}
	case converse.ToolUseBlock:
		input := b.Input
		if input.IsNull() {
			input = jsonvalue.EmptyObject()
		}
		return &types.ContentBlockMemberToolUse{Value: types.ToolUseBlock{
			ToolUseId: aws.String(b.ID),
			Name:      aws.String(b.Name),
			Input:     jsonvalue.ToDocument(input),
		}}
	case converse.ToolResultBlock:
		result := types.ToolResultBlock{
			ToolUseId: aws.String(b.ToolUseID),
			Content: []types.ToolResultContentBlock{
				&types.ToolResultContentBlockMemberText{Value: b.Text},
			},
		}
		if b.IsError {
			result.Status = types.ToolResultStatusError
		}
		return &types.ContentBlockMemberToolResult{Value: result}
	default:
		return nil
	}
}

func toInferenceConfig(cfg converse.InferenceConfig) *types.InferenceConfiguration {
	out := &types.InferenceConfiguration{}
	if cfg.MaxTokens > 0 {
		out.MaxTokens = aws.Int32(int32(min(cfg.MaxTokens, math.MaxInt32)))
	}
	if cfg.Temperature != nil {
		out.Temperature = aws.Float32(float32(*cfg.Temperature))
	}
	if cfg.TopP != nil {
		out.TopP = aws.Float32(float32(*cfg.TopP))
	}
	if len(cfg.StopSequences) > 0 {
		out.StopSequences = cfg.StopSequences
	}
	return out
}

func toToolConfig(cfg *converse.ToolConfig) *types.ToolConfiguration {
	if cfg == nil || len(cfg.Tools) == 0 || cfg.Choice.Mode == converse.ToolChoiceNone {
		return nil
	}

	tools := make([]types.Tool, 0, len(cfg.Tools))
	for _, t := range cfg.Tools {
		schema := t.InputSchema
		if schema.IsNull() {
			schema = jsonvalue.ObjectValue(map[string]jsonvalue.Value{"type": jsonvalue.StringValue("object")})
		}
		spec := types.ToolSpecification{
			Name:        aws.String(t.Name),
			InputSchema: &types.ToolInputSchemaMemberJson{Value: jsonvalue.ToDocument(schema)},
		}
		if t.Description != "" {
			spec.Description = aws.String(t.Description)
		}
		tools = append(tools, &types.ToolMemberToolSpec{Value: spec})
	}

	out := &types.ToolConfiguration{Tools: tools}
	switch cfg.Choice.Mode {
	case converse.ToolChoiceAny:
		out.ToolChoice = &types.ToolChoiceMemberAny{Value: types.AnyToolChoice{}}
	case converse.ToolChoiceTool:
		out.ToolChoice = &types.ToolChoiceMemberTool{Value: types.SpecificToolChoice{Name: aws.String(cfg.Choice.Name)}}
	default:
		out.ToolChoice = &types.ToolChoiceMemberAuto{Value: types.AutoToolChoice{}}
	}
	return out
}

// fromConverseOutput converts a non-streaming result. Content kinds other than
// text and tool use (reasoning, images) are skipped.
func fromConverseOutput(out *bedrockruntime.ConverseOutput) (*converse.Response, error) {
	resp := &converse.Response{
		StopReason: converse.StopReason(out.StopReason),
		Usage:      fromUsage(out.Usage),
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return resp, nil
	}

	for _, block := range msg.Value.Content {
		switch b := block.(type) {
		case *types.ContentBlockMemberText:
			resp.Content = append(resp.Content, converse.TextBlock{Text: b.Value})
		case *types.ContentBlockMemberToolUse:
			input, err := jsonvalue.FromDocument(b.Value.Input)
			if err != nil {
				return nil, fmt.Errorf("decode tool input for %s: %w", aws.ToString(b.Value.Name), err)
			}
			resp.Content = append(resp.Content, converse.ToolUseBlock{
				ID:    aws.ToString(b.Value.ToolUseId),
				Name:  aws.ToString(b.Value.Name),
				Input: input,
			})
		}
	}
	return resp, nil
}

func fromUsage(u *types.TokenUsage) converse.Usage {
	if u == nil {
		return converse.Usage{}
	}
	return converse.Usage{
		InputTokens:  int(aws.ToInt32(u.InputTokens)),
		OutputTokens: int(aws.ToInt32(u.OutputTokens)),
		TotalTokens:  int(aws.ToInt32(u.TotalTokens)),
	}
}

// fromStreamEvent converts one ConverseStream event.
func fromStreamEvent(ev types.ConverseStreamOutput) converse.StreamEvent {
	switch e := ev.(type) {
	case *types.ConverseStreamOutputMemberMessageStart:
		return converse.MessageStartEvent{Role: converse.Role(e.Value.Role)}

	case *types.ConverseStreamOutputMemberContentBlockStart:
		start := converse.ContentBlockStartEvent{Index: int(aws.ToInt32(e.Value.ContentBlockIndex))}
		if tu, ok := e.Value.Start.(*types.ContentBlockStartMemberToolUse); ok {
			start.ToolUse = &converse.ToolUseStart{
				ID:   aws.ToString(tu.Value.ToolUseId),
				Name: aws.ToString(tu.Value.Name),
			}
		}
		return start

	case *types.ConverseStreamOutputMemberContentBlockDelta:
		index := int(aws.ToInt32(e.Value.ContentBlockIndex))
		switch d := e.Value.Delta.(type) {
		case *types.ContentBlockDeltaMemberText:
			return converse.ContentBlockDeltaEvent{Index: index, Kind: converse.DeltaText, Text: d.Value}
		case *types.ContentBlockDeltaMemberToolUse:
			return converse.ContentBlockDeltaEvent{Index: index, Kind: converse.DeltaToolInput, ToolInput: aws.ToString(d.Value.Input)}
		default:
			return converse.UnknownEvent{Kind: fmt.Sprintf("contentBlockDelta/%T", d)}
		}

	case *types.ConverseStreamOutputMemberContentBlockStop:
		return converse.ContentBlockStopEvent{Index: int(aws.ToInt32(e.Value.ContentBlockIndex))}

	case *types.ConverseStreamOutputMemberMessageStop:
		return converse.MessageStopEvent{StopReason: converse.StopReason(e.Value.StopReason)}

	case *types.ConverseStreamOutputMemberMetadata:
		return converse.MetadataEvent{Usage: fromUsage(e.Value.Usage)}

	default:
		return converse.UnknownEvent{Kind: fmt.Sprintf("%T", ev)}
	}
}
