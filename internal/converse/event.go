package converse

// StreamEvent is one event of a streaming invocation. The set of variants is
// closed; backend events the gateway does not interpret arrive as UnknownEvent.
type StreamEvent interface {
	isStreamEvent()
}

// MessageStartEvent opens the assistant message.
type MessageStartEvent struct {
	Role Role
}

// ToolUseStart identifies the tool call announced by a ContentBlockStartEvent.
type ToolUseStart struct {
	ID   string
	Name string
}

// ContentBlockStartEvent opens the block at Index. The backend only announces
// tool-use blocks; text blocks start implicitly with their first delta.
type ContentBlockStartEvent struct {
	Index   int
	ToolUse *ToolUseStart
}

// DeltaKind distinguishes the payload of a ContentBlockDeltaEvent.
type DeltaKind int

const (
	DeltaText DeltaKind = iota
	DeltaToolInput
)

// ContentBlockDeltaEvent carries an incremental piece of the block at Index:
// text, or a fragment of the tool input JSON.
type ContentBlockDeltaEvent struct {
	Index int
	Kind  DeltaKind
	Text  string
	// ToolInput is a raw partial JSON fragment. Fragments are only valid when
	// concatenated in arrival order.
	ToolInput string
}

// ContentBlockStopEvent closes the block at Index.
type ContentBlockStopEvent struct {
	Index int
}

// MessageStopEvent reports why generation ended.
type MessageStopEvent struct {
	StopReason StopReason
}

// MetadataEvent reports token usage. It normally follows MessageStopEvent.
type MetadataEvent struct {
	Usage Usage
}

// UnknownEvent is a backend event kind that carries nothing translators use.
type UnknownEvent struct {
	Kind string
}

func (MessageStartEvent) isStreamEvent()      {}
func (ContentBlockStartEvent) isStreamEvent() {}
func (ContentBlockDeltaEvent) isStreamEvent() {}
func (ContentBlockStopEvent) isStreamEvent()  {}
func (MessageStopEvent) isStreamEvent()       {}
func (MetadataEvent) isStreamEvent()          {}
func (UnknownEvent) isStreamEvent()           {}

// EventStream is an open streaming invocation.
//
// Events is closed when the stream ends, successfully or not; Err reports the
// failure, if any, once Events is drained. Close releases the underlying
// connection and may be called more than once.
type EventStream interface {
	Events() <-chan StreamEvent
	Err() error
	Close() error
}
