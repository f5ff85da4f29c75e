package bedrockconverse

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter/types"
)

// toolCallState tracks one streamed tool call.
type toolCallState struct {
	index int // OpenAI tool_calls index
	id    string
	input strings.Builder
}

// streamSession turns Converse stream events into chat completion chunks.
// It is driven by a single goroutine in event arrival order.
type streamSession struct {
	id      string
	model   string
	created int64

	toolCalls    map[int]*toolCallState // keyed by Converse block index
	nextToolCall int

	finishReason string
	usage        converse.Usage
}

func newStreamSession(id, model string, created int64) *streamSession {
	return &streamSession{
		id:           id,
		model:        model,
		created:      created,
		toolCalls:    make(map[int]*toolCallState),
		finishReason: converse.FinishReasonStop,
	}
}

func (s *streamSession) chunk(delta types.ChatCompletionStreamDelta) *openaiadapter.CreateChatCompletionChunk {
	return &openaiadapter.CreateChatCompletionChunk{
		ID:      s.id,
		Object:  "chat.completion.chunk",
		Created: s.created,
		Model:   s.model,
		Choices: []types.ChatCompletionStreamChoice{{Index: 0, Delta: delta}},
	}
}

// roleChunk is the preamble sent before any content.
func (s *streamSession) roleChunk() *openaiadapter.CreateChatCompletionChunk {
	return s.chunk(types.ChatCompletionStreamDelta{Role: types.RoleAssistant})
}

// handle advances the session by one event. It returns nil when the event
// produces no client frame.
func (s *streamSession) handle(ev converse.StreamEvent) *openaiadapter.CreateChatCompletionChunk {
	switch e := ev.(type) {
	case converse.ContentBlockStartEvent:
		if e.ToolUse == nil {
			return nil
		}
		tc := s.openToolCall(e.Index, e.ToolUse.ID)
		return s.chunk(types.ChatCompletionStreamDelta{ToolCalls: []types.ChatCompletionMessageToolCallChunk{{
			Index:    tc.index,
			ID:       tc.id,
			Type:     "function",
			Function: types.FunctionCallChunk{Name: e.ToolUse.Name},
		}}})

	case converse.ContentBlockDeltaEvent:
		switch e.Kind {
		case converse.DeltaText:
			text := e.Text
			return s.chunk(types.ChatCompletionStreamDelta{Content: &text})
		case converse.DeltaToolInput:
			tc, ok := s.toolCalls[e.Index]
			if !ok {
				// Unannounced tool block: send the header with the first fragment.
				tc = s.openToolCall(e.Index, "")
				tc.input.WriteString(e.ToolInput)
				return s.chunk(types.ChatCompletionStreamDelta{ToolCalls: []types.ChatCompletionMessageToolCallChunk{{
					Index:    tc.index,
					ID:       tc.id,
					Type:     "function",
					Function: types.FunctionCallChunk{Arguments: e.ToolInput},
				}}})
			}
			tc.input.WriteString(e.ToolInput)
			return s.chunk(types.ChatCompletionStreamDelta{ToolCalls: []types.ChatCompletionMessageToolCallChunk{{
				Index:    tc.index,
				Function: types.FunctionCallChunk{Arguments: e.ToolInput},
			}}})
		}
		return nil

	case converse.ContentBlockStopEvent:
		if tc, ok := s.toolCalls[e.Index]; ok {
			if tc.input.Len() > 0 && !json.Valid([]byte(tc.input.String())) {
				slog.Debug("streamed tool input is not valid JSON", "tool_call_id", tc.id, "bytes", tc.input.Len())
			}
			tc.input.Reset()
		}
		return nil

	case converse.MessageStopEvent:
		s.finishReason = e.StopReason.ToOpenAI()
		return nil

	case converse.MetadataEvent:
		s.usage = e.Usage
		return nil

	default:
		return nil
	}
}

func (s *streamSession) openToolCall(blockIndex int, id string) *toolCallState {
	if id == "" {
		id = newToolCallID()
	}
	tc := &toolCallState{index: s.nextToolCall, id: id}
	s.nextToolCall++
	s.toolCalls[blockIndex] = tc
	return tc
}

// finalChunk carries finish_reason and usage once the stream is exhausted.
func (s *streamSession) finalChunk() *openaiadapter.CreateChatCompletionChunk {
	c := s.chunk(types.ChatCompletionStreamDelta{})
	reason := s.finishReason
	c.Choices[0].FinishReason = &reason
	c.Usage = toCompletionUsage(s.usage)
	return c
}
