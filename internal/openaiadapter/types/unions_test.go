package types

import (
	"encoding/json"
	"testing"
)

func TestMessageContentUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantText  string
		wantParts int
	}{
		{name: "string", in: `"hello"`, wantText: "hello", wantParts: 1},
		{name: "parts", in: `[{"type":"text","text":"a"},{"type":"text","text":"b"}]`, wantText: "ab", wantParts: 2},
		{name: "non-text part ignored", in: `[{"type":"image_url","image_url":{"url":"x"}},{"type":"text","text":"c"}]`, wantText: "c", wantParts: 2},
		{name: "null", in: `null`, wantText: "", wantParts: 0},
		{name: "empty string", in: `""`, wantText: "", wantParts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c MessageContent
			if err := json.Unmarshal([]byte(tt.in), &c); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got := c.Text(); got != tt.wantText {
				t.Errorf("Text() = %q, want %q", got, tt.wantText)
			}
			if len(c.Parts) != tt.wantParts {
				t.Errorf("len(Parts) = %d, want %d", len(c.Parts), tt.wantParts)
			}
		})
	}
}

func TestMessageContentRejectsNumbers(t *testing.T) {
	var c MessageContent
	if err := json.Unmarshal([]byte(`42`), &c); err == nil {
		t.Error("expected error for numeric content")
	}
}

func TestMessageContentAbsent(t *testing.T) {
	var m ChatCompletionMessage
	if err := json.Unmarshal([]byte(`{"role":"assistant","tool_calls":[]}`), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m.Content.Text() != "" || len(m.Content.Parts) != 0 {
		t.Errorf("absent content = %+v", m.Content)
	}
}

func TestStopSequences(t *testing.T) {
	var req CreateChatCompletionRequest
	if err := json.Unmarshal([]byte(`{"model":"m","messages":[],"stop":"END"}`), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(req.Stop) != 1 || req.Stop[0] != "END" {
		t.Errorf("Stop = %v", req.Stop)
	}

	req = CreateChatCompletionRequest{}
	if err := json.Unmarshal([]byte(`{"model":"m","messages":[],"stop":["a","b"]}`), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(req.Stop) != 2 {
		t.Errorf("Stop = %v", req.Stop)
	}
}

func TestToolChoice(t *testing.T) {
	tests := []struct {
		in       string
		wantType string
		wantName string
	}{
		{`"auto"`, ToolChoiceAuto, ""},
		{`"required"`, ToolChoiceRequired, ""},
		{`"none"`, ToolChoiceNone, ""},
		{`{"type":"function","function":{"name":"get_weather"}}`, ToolChoiceFunction, "get_weather"},
		{`{"type":"allowed_tools","allowed_tools":{}}`, "allowed_tools", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var tc ChatCompletionToolChoice
			if err := json.Unmarshal([]byte(tt.in), &tc); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if tc.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", tc.Type, tt.wantType)
			}
			name := ""
			if tc.Function != nil {
				name = tc.Function.Name
			}
			if name != tt.wantName {
				t.Errorf("Function.Name = %q, want %q", name, tt.wantName)
			}
		})
	}
}

func TestStreamChunkFinishReasonIsNull(t *testing.T) {
	chunk := CreateChatCompletionStreamResponse{
		ID:      "chatcmpl-1",
		Object:  "chat.completion.chunk",
		Choices: []ChatCompletionStreamChoice{{Delta: ChatCompletionStreamDelta{Role: RoleAssistant}}},
	}
	b, err := json.Marshal(chunk)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"id":"chatcmpl-1","object":"chat.completion.chunk","created":0,"model":"","choices":[{"index":0,"delta":{"role":"assistant"},"finish_reason":null}]}`
	if string(b) != want {
		t.Errorf("Marshal() = %s\nwant %s", b, want)
	}
}
