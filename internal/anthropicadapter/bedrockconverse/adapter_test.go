package bedrockconverse

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/tidwall/gjson"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter/types"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/bedrock/bedrocktest"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse/conversetest"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/jsonvalue"
)

type staticResolver map[string]string

func (r staticResolver) Resolve(name string) string {
	if id, ok := r[name]; ok {
		return id
	}
	return "default-model"
}

func newTestAdapter() *MessagesAdapter {
	return NewMessagesAdapter(staticResolver{"claude-sonnet-4-5": "us.anthropic.claude-sonnet-4-5-20250929-v1:0"})
}

func decodeRequest(t *testing.T, body string) anthropicadapter.MessagesRequest {
	t.Helper()
	var req anthropicadapter.MessagesRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	return req
}

func TestToConverseRequest(t *testing.T) {
	req := decodeRequest(t, `{
		"model": "claude-sonnet-4-5",
		"max_tokens": 2048,
		"system": [{"type":"text","text":"You are Xcode."},{"type":"text","text":"Be brief."}],
		"temperature": 0.5,
		"top_p": 0.9,
		"stop_sequences": ["</done>"],
		"messages": [
			{"role":"user","content":"Fix the build"},
			{"role":"assistant","content":[
				{"type":"thinking","thinking":"..."},
				{"type":"text","text":"Reading the file."},
				{"type":"tool_use","id":"toolu_1","name":"read_file","input":{"path":"App.swift"}},
				{"type":"tool_use","name":"missing_id","input":{}}
			]},
			{"role":"user","content":[
				{"type":"tool_result","tool_use_id":"toolu_1","content":"import SwiftUI","is_error":false},
				{"type":"tool_result","content":"orphan"}
			]},
			{"role":"assistant","content":[{"type":"image","source":{}}]},
			{"role":"system","content":"ignored"}
		]
	}`)

	got := toConverseRequest(req, "resolved")

	if got.ModelID != "resolved" {
		t.Errorf("ModelID = %q", got.ModelID)
	}
	if len(got.System) != 1 || got.System[0] != "You are Xcode.\nBe brief." {
		t.Errorf("System = %q", got.System)
	}
	inf := got.Inference
	if inf.MaxTokens != 2048 || *inf.Temperature != 0.5 || *inf.TopP != 0.9 || len(inf.StopSequences) != 1 {
		t.Errorf("Inference = %+v", inf)
	}
	if got.Tools != nil {
		t.Errorf("Tools = %+v, want nil", got.Tools)
	}

	if len(got.Messages) != 3 {
		t.Fatalf("len(Messages) = %d, want 3", len(got.Messages))
	}
	if got.Messages[0].Content[0] != (converse.TextBlock{Text: "Fix the build"}) {
		t.Errorf("message 0 = %+v", got.Messages[0])
	}

	assistant := got.Messages[1].Content
	if len(assistant) != 2 {
		t.Fatalf("assistant blocks = %+v", assistant)
	}
	if assistant[0] != (converse.TextBlock{Text: "Reading the file."}) {
		t.Errorf("assistant block 0 = %+v", assistant[0])
	}
	if tu := assistant[1].(converse.ToolUseBlock); tu.ID != "toolu_1" || tu.Name != "read_file" {
		t.Errorf("assistant block 1 = %+v", tu)
	}

	results := got.Messages[2].Content
	if len(results) != 1 {
		t.Fatalf("tool results = %+v", results)
	}
	if tr := results[0].(converse.ToolResultBlock); tr.ToolUseID != "toolu_1" || tr.Text != "import SwiftUI" || tr.IsError {
		t.Errorf("tool result = %+v", tr)
	}
}

func TestToConverseRequest_NoSystem(t *testing.T) {
	req := decodeRequest(t, `{"model":"m","max_tokens":1,"messages":[{"role":"user","content":"hi"}]}`)
	if got := toConverseRequest(req, "m"); got.System != nil {
		t.Errorf("System = %q, want none", got.System)
	}

	req = decodeRequest(t, `{"model":"m","max_tokens":1,"system":"","messages":[{"role":"user","content":"hi"}]}`)
	if got := toConverseRequest(req, "m"); len(got.System) != 0 {
		t.Errorf("empty system = %q, want none", got.System)
	}
}

func TestToConverseRequest_ToolChoice(t *testing.T) {
	tests := []struct {
		name   string
		choice string
		want   *converse.ToolChoice
	}{
		{"absent", ``, &converse.ToolChoice{Mode: converse.ToolChoiceAuto}},
		{"auto", `,"tool_choice":{"type":"auto"}`, &converse.ToolChoice{Mode: converse.ToolChoiceAuto}},
		{"any", `,"tool_choice":{"type":"any"}`, &converse.ToolChoice{Mode: converse.ToolChoiceAny}},
		{"tool", `,"tool_choice":{"type":"tool","name":"build"}`, &converse.ToolChoice{Mode: converse.ToolChoiceTool, Name: "build"}},
		{"tool without name", `,"tool_choice":{"type":"tool"}`, &converse.ToolChoice{Mode: converse.ToolChoiceAuto}},
		{"unknown", `,"tool_choice":{"type":"sometimes"}`, &converse.ToolChoice{Mode: converse.ToolChoiceAuto}},
		{"none", `,"tool_choice":{"type":"none"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := decodeRequest(t, `{"model":"m","max_tokens":1,"messages":[{"role":"user","content":"hi"}],
				"tools":[{"name":"build","description":"Build the project","input_schema":{"type":"object"}}]`+tt.choice+`}`)

			got := toConverseRequest(req, "m").Tools
			if tt.want == nil {
				if got != nil {
					t.Errorf("Tools = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Tools = nil")
			}
			if got.Choice != *tt.want {
				t.Errorf("Choice = %+v, want %+v", got.Choice, *tt.want)
			}
			if len(got.Tools) != 1 || got.Tools[0].Name != "build" || got.Tools[0].Description != "Build the project" {
				t.Errorf("Tools = %+v", got.Tools)
			}
		})
	}
}

func TestCountTokens(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"minimum is one", `{"model":"m","messages":[{"role":"user","content":"hi"}]}`, 1},
		{"twelve chars", `{"model":"m","messages":[{"role":"user","content":"Hello world!"}]}`, 3},
		{
			"system tools and tool input",
			// 8 (system) + 4 (text) + 13 ({"a":"bcdef"}) + 4 (name) + 4 (desc) + 17 ({"type":"object"}) = 50
			`{"model":"m","system":"12345678",
			  "messages":[{"role":"user","content":"abcd"},{"role":"assistant","content":[{"type":"tool_use","id":"t","name":"n","input":{"a":"bcdef"}}]}],
			  "tools":[{"name":"tool","description":"desc","input_schema":{"type":"object"}}]}`,
			12,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req anthropicadapter.CountTokensRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatal(err)
			}
			if got := CountTokens(req).InputTokens; got != tt.want {
				t.Errorf("InputTokens = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProcessRequest(t *testing.T) {
	gw := &conversetest.Gateway{Response: &converse.Response{
		Content: []converse.ContentBlock{
			converse.TextBlock{Text: "Let me check."},
			converse.ToolUseBlock{ID: "tooluse_x", Name: "read_file", Input: jsonvalue.ObjectValue(map[string]jsonvalue.Value{
				"path":  jsonvalue.StringValue("App.swift"),
				"limit": jsonvalue.NumberValue(10),
			})},
		},
		StopReason: converse.StopReasonToolUse,
		Usage:      converse.Usage{InputTokens: 20, OutputTokens: 8, TotalTokens: 28},
	}}

	req := decodeRequest(t, `{"model":"claude-sonnet-4-5","max_tokens":100,"messages":[{"role":"user","content":"hi"}]}`)
	msg, err := newTestAdapter().ProcessRequest(context.Background(), req, gw)
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}
	if got := gw.LastRequest().ModelID; got != "us.anthropic.claude-sonnet-4-5-20250929-v1:0" {
		t.Errorf("backend model = %q", got)
	}

	b, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	r := gjson.ParseBytes(b)

	if id := r.Get("id").String(); !strings.HasPrefix(id, "msg_") || len(id) != 36 || strings.Contains(id, "-") {
		t.Errorf("id = %q", id)
	}
	checks := map[string]string{
		"type":                "message",
		"role":                "assistant",
		"model":               "claude-sonnet-4-5",
		"stop_reason":         "tool_use",
		"content.0.type":      "text",
		"content.0.text":      "Let me check.",
		"content.1.type":      "tool_use",
		"content.1.id":        "tooluse_x",
		"content.1.name":      "read_file",
		"usage.input_tokens":  "20",
		"usage.output_tokens": "8",
	}
	for path, want := range checks {
		if got := r.Get(path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
	if got := r.Get("content.1.input.limit").Raw; got != "10" {
		t.Errorf("integral tool input number = %s, want 10", got)
	}
}

func TestProcessRequest_Error(t *testing.T) {
	gw := &conversetest.Gateway{InvokeErr: &converse.Failure{Category: converse.FailureNotFound, Message: "The provided model identifier is invalid."}}

	_, err := newTestAdapter().ProcessRequest(context.Background(), decodeRequest(t, `{"model":"x","max_tokens":1,"messages":[]}`), gw)

	var errResp *anthropicadapter.ErrorResponse
	if !errors.As(err, &errResp) {
		t.Fatalf("error = %v", err)
	}
	if errResp.Status != http.StatusNotFound || errResp.Err.Type != anthropicadapter.ErrorTypeNotFound {
		t.Errorf("error = %+v", errResp)
	}
	if gw.LastRequest().ModelID != "default-model" {
		t.Errorf("unknown model resolved to %q", gw.LastRequest().ModelID)
	}
}

func streamEvents(t *testing.T, gw *conversetest.Gateway) ([]anthropicadapter.StreamEvent, error) {
	t.Helper()
	req := decodeRequest(t, `{"model":"claude-sonnet-4-5","max_tokens":100,"stream":true,"messages":[{"role":"user","content":"hi"}]}`)
	seq, err := newTestAdapter().ProcessStreamingRequest(context.Background(), req, gw)
	if err != nil {
		t.Fatalf("ProcessStreamingRequest() error = %v", err)
	}
	var events []anthropicadapter.StreamEvent
	for ev, err := range seq {
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func eventTypes(events []anthropicadapter.StreamEvent) []string {
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.EventType()
	}
	return names
}

func TestProcessStreamingRequest_Text(t *testing.T) {
	gw := &conversetest.Gateway{Events: []converse.StreamEvent{
		converse.MessageStartEvent{Role: converse.RoleAssistant},
		converse.ContentBlockDeltaEvent{Index: 0, Kind: converse.DeltaText, Text: "Hello"},
		converse.ContentBlockStopEvent{Index: 0},
		converse.MessageStopEvent{StopReason: converse.StopReasonEndTurn},
		converse.MetadataEvent{Usage: converse.Usage{InputTokens: 3, OutputTokens: 5, TotalTokens: 8}},
	}}

	events, err := streamEvents(t, gw)
	if err != nil {
		t.Fatalf("stream error = %v", err)
	}

	want := []string{"message_start", "ping", "content_block_start", "content_block_delta", "content_block_stop", "message_delta", "message_stop"}
	if got := eventTypes(events); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("events = %v, want %v", got, want)
	}

	start := events[0].(types.MessageStartEvent)
	if start.Message.Model != "claude-sonnet-4-5" || start.Message.Content == nil || start.Message.StopReason != nil {
		t.Errorf("message_start = %+v", start)
	}

	blockStart := events[2].(types.ContentBlockStartEvent)
	if blockStart.Index != 0 || blockStart.ContentBlock.Type != "text" {
		t.Errorf("content_block_start = %+v", blockStart)
	}

	delta := events[3].(types.ContentBlockDeltaEvent)
	if delta.Delta.Type != types.DeltaTypeText || *delta.Delta.Text != "Hello" {
		t.Errorf("content_block_delta = %+v", delta)
	}

	msgDelta := events[5].(types.MessageDeltaEvent)
	if msgDelta.Delta.StopReason != anthropic.StopReasonEndTurn || msgDelta.Usage.OutputTokens != 5 {
		t.Errorf("message_delta = %+v", msgDelta)
	}

	b, err := json.Marshal(msgDelta)
	if err != nil {
		t.Fatal(err)
	}
	if got := gjson.GetBytes(b, "delta.stop_sequence"); !got.Exists() || got.Type != gjson.Null {
		t.Errorf("message_delta payload = %s", b)
	}
}

func TestProcessStreamingRequest_ToolUse(t *testing.T) {
	gw := &conversetest.Gateway{Events: []converse.StreamEvent{
		converse.MessageStartEvent{Role: converse.RoleAssistant},
		converse.ContentBlockStartEvent{Index: 0, ToolUse: &converse.ToolUseStart{ID: "tooluse_1", Name: "read_file"}},
		converse.ContentBlockDeltaEvent{Index: 0, Kind: converse.DeltaToolInput, ToolInput: `{"pa`},
		converse.ContentBlockDeltaEvent{Index: 0, Kind: converse.DeltaToolInput, ToolInput: `th":"a"}`},
		converse.ContentBlockStopEvent{Index: 0},
		converse.MessageStopEvent{StopReason: converse.StopReasonToolUse},
		converse.MetadataEvent{Usage: converse.Usage{OutputTokens: 12}},
	}}

	events, err := streamEvents(t, gw)
	if err != nil {
		t.Fatalf("stream error = %v", err)
	}
	want := []string{"message_start", "ping", "content_block_start", "content_block_delta", "content_block_delta", "content_block_stop", "message_delta", "message_stop"}
	if got := eventTypes(events); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("events = %v, want %v", got, want)
	}

	b, err := json.Marshal(events[2])
	if err != nil {
		t.Fatal(err)
	}
	r := gjson.ParseBytes(b)
	if r.Get("content_block.type").String() != "tool_use" || r.Get("content_block.id").String() != "tooluse_1" ||
		r.Get("content_block.name").String() != "read_file" || r.Get("content_block.input").Raw != "{}" {
		t.Errorf("content_block_start = %s", b)
	}

	first := events[3].(types.ContentBlockDeltaEvent)
	second := events[4].(types.ContentBlockDeltaEvent)
	if first.Delta.Type != types.DeltaTypeInputJSON || *first.Delta.PartialJSON != `{"pa` || *second.Delta.PartialJSON != `th":"a"}` {
		t.Errorf("deltas must carry only the new fragment: %+v, %+v", first.Delta, second.Delta)
	}

	if reason := events[6].(types.MessageDeltaEvent).Delta.StopReason; reason != anthropic.StopReasonToolUse {
		t.Errorf("stop_reason = %q", reason)
	}
}

func TestProcessStreamingRequest_HandshakeError(t *testing.T) {
	gw := &conversetest.Gateway{HandshakeErr: &converse.Failure{Category: converse.FailureRateLimited}}

	req := decodeRequest(t, `{"model":"claude-sonnet-4-5","max_tokens":100,"stream":true,"messages":[{"role":"user","content":"hi"}]}`)
	seq, err := newTestAdapter().ProcessStreamingRequest(context.Background(), req, gw)
	if seq != nil {
		t.Error("iterator returned despite handshake failure")
	}
	var errResp *anthropicadapter.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Status != http.StatusTooManyRequests {
		t.Fatalf("error = %v", err)
	}
}

func TestProcessStreamingRequest_MidStreamError(t *testing.T) {
	gw := &conversetest.Gateway{
		Events: []converse.StreamEvent{
			converse.ContentBlockDeltaEvent{Index: 0, Kind: converse.DeltaText, Text: "partial"},
		},
		StreamErr: &converse.Failure{Category: converse.FailureUnavailable, Message: `Model "x" is busy`},
	}

	events, err := streamEvents(t, gw)

	want := []string{"message_start", "ping", "content_block_start", "content_block_delta"}
	if got := eventTypes(events); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", got, want)
	}
	var errResp *anthropicadapter.ErrorResponse
	if !errors.As(err, &errResp) {
		t.Fatalf("error = %v", err)
	}
	b, _ := json.Marshal(errResp)
	if gjson.GetBytes(b, "error.message").String() != `Model "x" is busy` || gjson.GetBytes(b, "type").String() != "error" {
		t.Errorf("error frame = %s", b)
	}
	if !gw.Streams()[0].Closed() {
		t.Error("backend stream not closed")
	}
}

func TestStreamSession_StopWithoutStart(t *testing.T) {
	s := newStreamSession("msg_1", "m")
	if out := s.handle(converse.ContentBlockStopEvent{Index: 3}); out != nil {
		t.Errorf("stop for unopened block emitted %v", eventTypes(out))
	}
	if out := s.handle(converse.UnknownEvent{Kind: "reasoning"}); out != nil {
		t.Errorf("unknown event emitted %v", eventTypes(out))
	}
}

func TestStreamSession_MismatchedDelta(t *testing.T) {
	s := newStreamSession("msg_1", "m")
	s.handle(converse.ContentBlockStartEvent{Index: 0, ToolUse: &converse.ToolUseStart{ID: "toolu_1", Name: "ls"}})
	s.handle(converse.ContentBlockDeltaEvent{Index: 1, Kind: converse.DeltaText, Text: "hi"})

	if out := s.handle(converse.ContentBlockDeltaEvent{Index: 0, Kind: converse.DeltaText, Text: "stray"}); out != nil {
		t.Errorf("text delta on tool_use block emitted %v", eventTypes(out))
	}
	if out := s.handle(converse.ContentBlockDeltaEvent{Index: 1, Kind: converse.DeltaToolInput, ToolInput: `{}`}); out != nil {
		t.Errorf("tool input delta on text block emitted %v", eventTypes(out))
	}

	out := s.handle(converse.ContentBlockDeltaEvent{Index: 0, Kind: converse.DeltaToolInput, ToolInput: `{"a":1}`})
	if len(out) != 1 {
		t.Fatalf("tool input delta emitted %v, want one frame", eventTypes(out))
	}
	delta := out[0].(types.ContentBlockDeltaEvent)
	if delta.Delta.Type != types.DeltaTypeInputJSON || delta.Delta.PartialJSON == nil || *delta.Delta.PartialJSON != `{"a":1}` {
		t.Errorf("delta = %+v", delta.Delta)
	}
}

func TestProcessRequest_OverBedrock(t *testing.T) {
	rt := &bedrocktest.Transport{Body: bedrocktest.ToolUseResponse}
	client := bedrocktest.NewClient(t, rt)

	req := decodeRequest(t, `{
		"model": "claude-sonnet-4-5",
		"max_tokens": 256,
		"messages": [{"role":"user","content":"Weather in Paris?"}],
		"tools": [{"name":"get_weather","input_schema":{"type":"object","properties":{"city":{"type":"string"}}}}]
	}`)
	msg, err := newTestAdapter().ProcessRequest(t.Context(), req, client)
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}

	reqs := rt.Requests()
	if len(reqs) != 1 || !strings.Contains(reqs[0].Path, "claude-sonnet-4-5-20250929") {
		t.Fatalf("backend requests = %+v", reqs)
	}
	if got := gjson.GetBytes(reqs[0].Body, "toolConfig.tools.0.toolSpec.name").String(); got != "get_weather" {
		t.Errorf("sent tool name = %q", got)
	}

	b, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	r := gjson.ParseBytes(b)
	checks := map[string]string{
		"stop_reason":         "tool_use",
		"content.0.text":      "Checking the weather.",
		"content.1.type":      "tool_use",
		"content.1.id":        "tooluse_1",
		"content.1.name":      "get_weather",
		"content.1.input":     `{"city":"Paris","days":2}`,
		"usage.input_tokens":  "12",
		"usage.output_tokens": "7",
	}
	for path, want := range checks {
		if got := r.Get(path).String(); got != want {
			t.Errorf("%s = %s, want %s", path, got, want)
		}
	}
}
