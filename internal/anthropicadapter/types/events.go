package types

import "github.com/anthropics/anthropic-sdk-go"

// StreamEvent is one server-sent event of a streaming response. EventType is
// both the SSE event name and the payload's "type" field.
type StreamEvent interface {
	EventType() string
}

// MessageStartEvent opens the stream with an empty message.
type MessageStartEvent struct {
	Type    string  `json:"type"`
	Message Message `json:"message"`
}

// PingEvent is a keep-alive.
type PingEvent struct {
	Type string `json:"type"`
}

// ContentBlockStartEvent opens the block at Index.
type ContentBlockStartEvent struct {
	Type         string       `json:"type"`
	Index        int          `json:"index"`
	ContentBlock ContentBlock `json:"content_block"`
}

// Delta types.
const (
	DeltaTypeText      = "text_delta"
	DeltaTypeInputJSON = "input_json_delta"
)

// Delta is the incremental payload of a content_block_delta.
type Delta struct {
	Type        string  `json:"type"`
	Text        *string `json:"text,omitempty"`
	PartialJSON *string `json:"partial_json,omitempty"`
}

// ContentBlockDeltaEvent carries a text or partial tool input fragment.
type ContentBlockDeltaEvent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Delta Delta  `json:"delta"`
}

// ContentBlockStopEvent closes the block at Index.
type ContentBlockStopEvent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// MessageDelta reports the final stop reason.
type MessageDelta struct {
	StopReason   anthropic.StopReason `json:"stop_reason"`
	StopSequence *string              `json:"stop_sequence"`
}

// DeltaUsage is the cumulative usage reported by message_delta.
type DeltaUsage struct {
	OutputTokens int `json:"output_tokens"`
}

// MessageDeltaEvent carries the stop reason and output token count.
type MessageDeltaEvent struct {
	Type  string       `json:"type"`
	Delta MessageDelta `json:"delta"`
	Usage DeltaUsage   `json:"usage"`
}

// MessageStopEvent ends the stream.
type MessageStopEvent struct {
	Type string `json:"type"`
}

func (MessageStartEvent) EventType() string      { return "message_start" }
func (PingEvent) EventType() string              { return "ping" }
func (ContentBlockStartEvent) EventType() string { return "content_block_start" }
func (ContentBlockDeltaEvent) EventType() string { return "content_block_delta" }
func (ContentBlockStopEvent) EventType() string  { return "content_block_stop" }
func (MessageDeltaEvent) EventType() string      { return "message_delta" }
func (MessageStopEvent) EventType() string       { return "message_stop" }
