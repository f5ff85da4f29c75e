package bedrock

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/jsonvalue"
)

func TestToConverseParams(t *testing.T) {
	temp := 0.5
	req := &converse.Request{
		ModelID: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		System:  []string{"Be brief."},
		Messages: []converse.Message{
			{Role: converse.RoleUser, Content: []converse.ContentBlock{converse.TextBlock{Text: "hi"}}},
			{Role: converse.RoleAssistant, Content: []converse.ContentBlock{
				converse.ToolUseBlock{ID: "t1", Name: "ls"},
			}},
			{Role: converse.RoleUser, Content: []converse.ContentBlock{
				converse.ToolResultBlock{ToolUseID: "t1", Text: "a.go", IsError: true},
			}},
			{Role: converse.RoleAssistant},
		},
		Inference: converse.InferenceConfig{MaxTokens: 1024, Temperature: &temp, StopSequences: []string{"END"}},
		Tools: converse.NewToolConfig(
			[]converse.ToolSpec{{Name: "ls", Description: "list files"}},
			converse.ToolChoice{Mode: converse.ToolChoiceTool, Name: "ls"},
		),
	}

	in := toConverseParams(req).input()

	if len(in.System) != 1 {
		t.Fatalf("len(System) = %d, want 1", len(in.System))
	}
	if sys, ok := in.System[0].(*types.SystemContentBlockMemberText); !ok || sys.Value != "Be brief." {
		t.Errorf("System[0] = %#v", in.System[0])
	}

	if len(in.Messages) != 3 {
		t.Fatalf("len(Messages) = %d, want 3 (empty message dropped)", len(in.Messages))
	}
	if in.Messages[1].Role != types.ConversationRoleAssistant {
		t.Errorf("Messages[1].Role = %q", in.Messages[1].Role)
	}
	tu, ok := in.Messages[1].Content[0].(*types.ContentBlockMemberToolUse)
	if !ok {
		t.Fatalf("Messages[1].Content[0] = %T", in.Messages[1].Content[0])
	}
	input, err := jsonvalue.FromDocument(tu.Value.Input)
	if err != nil || !input.Equal(jsonvalue.EmptyObject()) {
		t.Errorf("null tool input should become {}, got %v (%v)", input, err)
	}
	tr, ok := in.Messages[2].Content[0].(*types.ContentBlockMemberToolResult)
	if !ok {
		t.Fatalf("Messages[2].Content[0] = %T", in.Messages[2].Content[0])
	}
	if aws.ToString(tr.Value.ToolUseId) != "t1" || tr.Value.Status != types.ToolResultStatusError {
		t.Errorf("tool result = %+v", tr.Value)
	}

	if aws.ToInt32(in.InferenceConfig.MaxTokens) != 1024 {
		t.Errorf("MaxTokens = %d", aws.ToInt32(in.InferenceConfig.MaxTokens))
	}
	if aws.ToFloat32(in.InferenceConfig.Temperature) != 0.5 {
		t.Errorf("Temperature = %v", aws.ToFloat32(in.InferenceConfig.Temperature))
	}
	if in.InferenceConfig.TopP != nil {
		t.Error("TopP should be unset")
	}

	if in.ToolConfig == nil || len(in.ToolConfig.Tools) != 1 {
		t.Fatalf("ToolConfig = %#v", in.ToolConfig)
	}
	choice, ok := in.ToolConfig.ToolChoice.(*types.ToolChoiceMemberTool)
	if !ok || aws.ToString(choice.Value.Name) != "ls" {
		t.Errorf("ToolChoice = %#v", in.ToolConfig.ToolChoice)
	}
}

func TestToToolConfigChoices(t *testing.T) {
	tools := []converse.ToolSpec{{Name: "x"}}

	if cfg := toToolConfig(nil); cfg != nil {
		t.Errorf("nil config = %#v", cfg)
	}
	if cfg := toToolConfig(&converse.ToolConfig{Tools: tools, Choice: converse.ToolChoice{Mode: converse.ToolChoiceNone}}); cfg != nil {
		t.Errorf("choice none = %#v, want nil", cfg)
	}

	cfg := toToolConfig(&converse.ToolConfig{Tools: tools, Choice: converse.ToolChoice{Mode: converse.ToolChoiceAny}})
	if _, ok := cfg.ToolChoice.(*types.ToolChoiceMemberAny); !ok {
		t.Errorf("any = %T", cfg.ToolChoice)
	}
	cfg = toToolConfig(&converse.ToolConfig{Tools: tools})
	if _, ok := cfg.ToolChoice.(*types.ToolChoiceMemberAuto); !ok {
		t.Errorf("auto = %T", cfg.ToolChoice)
	}
}
