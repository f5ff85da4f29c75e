package bedrockconverse

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter/types"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/jsonvalue"
)

type blockKind int

const (
	blockText blockKind = iota
	blockToolUse
)

// blockState is the accumulation state of one open content block.
type blockState struct {
	kind  blockKind
	id    string
	input strings.Builder // partial tool input, tool_use only
}

// streamSession turns Converse stream events into Messages stream events.
// It is driven by a single goroutine in event arrival order.
type streamSession struct {
	id    string
	model string

	blocks map[int]*blockState // open blocks by index

	stopReason   anthropic.StopReason
	outputTokens int
}

func newStreamSession(id, model string) *streamSession {
	return &streamSession{
		id:         id,
		model:      model,
		blocks:     make(map[int]*blockState),
		stopReason: anthropic.StopReasonEndTurn,
	}
}

// preamble returns message_start and ping. Usage is zero until message_delta.
func (s *streamSession) preamble() []anthropicadapter.StreamEvent {
	return []anthropicadapter.StreamEvent{
		types.MessageStartEvent{
			Type: "message_start",
			Message: types.Message{
				ID:      s.id,
				Type:    "message",
				Role:    types.RoleAssistant,
				Content: []types.ContentBlock{},
				Model:   s.model,
			},
		},
		types.PingEvent{Type: "ping"},
	}
}

// handle advances the session by one event and returns the frames to send,
// in order.
func (s *streamSession) handle(ev converse.StreamEvent) []anthropicadapter.StreamEvent {
	switch e := ev.(type) {
	case converse.ContentBlockStartEvent:
		if _, open := s.blocks[e.Index]; open {
			return nil
		}
		if e.ToolUse != nil {
			return []anthropicadapter.StreamEvent{s.openToolUse(e.Index, e.ToolUse.ID, e.ToolUse.Name)}
		}
		return []anthropicadapter.StreamEvent{s.openText(e.Index)}

	case converse.ContentBlockDeltaEvent:
		var out []anthropicadapter.StreamEvent
		block, open := s.blocks[e.Index]

		switch e.Kind {
		case converse.DeltaText:
			if open && block.kind != blockText {
				slog.Debug("dropping text delta for tool_use block", "index", e.Index, "tool_use_id", block.id)
				return nil
			}
			if !open {
				out = append(out, s.openText(e.Index))
			}
			text := e.Text
			return append(out, types.ContentBlockDeltaEvent{
				Type:  "content_block_delta",
				Index: e.Index,
				Delta: types.Delta{Type: types.DeltaTypeText, Text: &text},
			})

		case converse.DeltaToolInput:
			if open && block.kind != blockToolUse {
				slog.Debug("dropping tool input delta for text block", "index", e.Index)
				return nil
			}
			if !open {
				out = append(out, s.openToolUse(e.Index, "", ""))
				block = s.blocks[e.Index]
			}
			block.input.WriteString(e.ToolInput)
			fragment := e.ToolInput
			return append(out, types.ContentBlockDeltaEvent{
				Type:  "content_block_delta",
				Index: e.Index,
				Delta: types.Delta{Type: types.DeltaTypeInputJSON, PartialJSON: &fragment},
			})
		}
		return nil

	case converse.ContentBlockStopEvent:
		block, open := s.blocks[e.Index]
		if !open {
			return nil
		}
		if block.kind == blockToolUse && block.input.Len() > 0 && !json.Valid([]byte(block.input.String())) {
			slog.Debug("streamed tool input is not valid JSON", "tool_use_id", block.id, "bytes", block.input.Len())
		}
		delete(s.blocks, e.Index)
		return []anthropicadapter.StreamEvent{types.ContentBlockStopEvent{Type: "content_block_stop", Index: e.Index}}

	case converse.MessageStopEvent:
		s.stopReason = e.StopReason.ToAnthropic()
		return nil

	case converse.MetadataEvent:
		s.outputTokens = e.Usage.OutputTokens
		return nil

	default:
		return nil
	}
}

func (s *streamSession) openText(index int) anthropicadapter.StreamEvent {
	s.blocks[index] = &blockState{kind: blockText}
	return types.ContentBlockStartEvent{
		Type:         "content_block_start",
		Index:        index,
		ContentBlock: types.NewTextBlock(""),
	}
}

func (s *streamSession) openToolUse(index int, id, name string) anthropicadapter.StreamEvent {
	if id == "" {
		id = newToolUseID()
	}
	s.blocks[index] = &blockState{kind: blockToolUse, id: id}
	return types.ContentBlockStartEvent{
		Type:         "content_block_start",
		Index:        index,
		ContentBlock: types.NewToolUseBlock(id, name, jsonvalue.EmptyObject()),
	}
}

// final returns message_delta and message_stop once the stream is exhausted.
func (s *streamSession) final() []anthropicadapter.StreamEvent {
	return []anthropicadapter.StreamEvent{
		types.MessageDeltaEvent{
			Type:  "message_delta",
			Delta: types.MessageDelta{StopReason: s.stopReason},
			Usage: types.DeltaUsage{OutputTokens: s.outputTokens},
		},
		types.MessageStopEvent{Type: "message_stop"},
	}
}
