package types

import (
	"encoding/json"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/jsonvalue"
)

func TestMessageContent_UnmarshalJSON(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		var c MessageContent
		if err := json.Unmarshal([]byte(`"hello"`), &c); err != nil {
			t.Fatal(err)
		}
		if len(c.Blocks) != 1 || c.Blocks[0] != (TextBlock{Text: "hello"}) {
			t.Errorf("Blocks = %+v", c.Blocks)
		}
	})

	t.Run("blocks", func(t *testing.T) {
		data := `[
			{"type":"text","text":"look"},
			{"type":"image","source":{"type":"base64","data":"AAAA"}},
			{"type":"tool_use","id":"toolu_1","name":"read_file","input":{"path":"a.swift","lines":3}},
			{"type":"tool_result","tool_use_id":"toolu_1","content":[{"type":"text","text":"line1"},{"type":"image"},{"type":"text","text":"line2"}],"is_error":true}
		]`
		var c MessageContent
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			t.Fatal(err)
		}
		if len(c.Blocks) != 4 {
			t.Fatalf("len(Blocks) = %d", len(c.Blocks))
		}
		if c.Blocks[0] != (TextBlock{Text: "look"}) {
			t.Errorf("block 0 = %+v", c.Blocks[0])
		}
		if c.Blocks[1] != (OtherBlock{Type: "image"}) {
			t.Errorf("block 1 = %+v", c.Blocks[1])
		}
		tu, ok := c.Blocks[2].(ToolUseBlock)
		if !ok || tu.ID != "toolu_1" || tu.Name != "read_file" {
			t.Fatalf("block 2 = %+v", c.Blocks[2])
		}
		if lines, _ := tu.Input.Field("lines"); lines.Float() != 3 {
			t.Errorf("input = %v", tu.Input)
		}
		tr, ok := c.Blocks[3].(ToolResultBlock)
		if !ok || tr.ToolUseID != "toolu_1" || !tr.IsError || tr.Content.Text() != "line1line2" {
			t.Errorf("block 3 = %+v", c.Blocks[3])
		}
	})

	t.Run("invalid", func(t *testing.T) {
		var c MessageContent
		if err := json.Unmarshal([]byte(`42`), &c); err == nil {
			t.Error("expected error for numeric content")
		}
	})
}

func TestToolResultContent_String(t *testing.T) {
	var c ToolResultContent
	if err := json.Unmarshal([]byte(`"done"`), &c); err != nil {
		t.Fatal(err)
	}
	if c.Text() != "done" {
		t.Errorf("Text() = %q", c.Text())
	}
}

func TestSystemPrompt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"string", `"You are Xcode's assistant."`, "You are Xcode's assistant."},
		{"blocks", `[{"type":"text","text":"one"},{"type":"text","text":"two","cache_control":{"type":"ephemeral"}}]`, "one\ntwo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MessagesRequest
			if err := json.Unmarshal([]byte(`{"system":`+tt.data+`}`), &req); err != nil {
				t.Fatal(err)
			}
			if req.System == nil || req.System.Text() != tt.want {
				t.Errorf("System = %+v, want %q", req.System, tt.want)
			}
		})
	}

	var req MessagesRequest
	if err := json.Unmarshal([]byte(`{"system":null}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.System != nil {
		t.Errorf("null system = %+v, want nil", req.System)
	}
}

func TestMessage_MarshalJSON(t *testing.T) {
	msg := Message{
		ID:   "msg_1",
		Type: "message",
		Role: RoleAssistant,
		Content: []ContentBlock{
			NewTextBlock(""),
			NewToolUseBlock("toolu_1", "build", jsonvalue.NullValue()),
		},
		Model: "claude-sonnet-4-5",
	}
	b, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}

	r := gjson.ParseBytes(b)
	if got := r.Get("content.0.text"); !got.Exists() || got.String() != "" {
		t.Errorf("empty text block must keep text field: %s", b)
	}
	if got := r.Get("content.1.input").Raw; got != "{}" {
		t.Errorf("tool input = %s, want {}", got)
	}
	if got := r.Get("stop_reason"); got.Type != gjson.Null {
		t.Errorf("stop_reason = %s, want null", got.Raw)
	}
	if got := r.Get("stop_sequence"); !got.Exists() || got.Type != gjson.Null {
		t.Errorf("stop_sequence = %s, want null", got.Raw)
	}
}
