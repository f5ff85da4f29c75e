package converse

import "github.com/anthropics/anthropic-sdk-go"

// StopReason is the backend's reason for ending generation. Values the
// backend adds later pass through unchanged and map to each dialect's default.
type StopReason string

const (
	StopReasonEndTurn             StopReason = "end_turn"
	StopReasonToolUse             StopReason = "tool_use"
	StopReasonMaxTokens           StopReason = "max_tokens"
	StopReasonStopSequence        StopReason = "stop_sequence"
	StopReasonGuardrailIntervened StopReason = "guardrail_intervened"
	StopReasonContentFiltered     StopReason = "content_filtered"
)

// OpenAI finish reasons.
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonToolCalls     = "tool_calls"
	FinishReasonContentFilter = "content_filter"
)

// ToAnthropic maps a backend stop reason to the Messages API vocabulary.
// Guardrail and content filter stops surface as refusals; anything else
// unrecognized is end_turn.
func (r StopReason) ToAnthropic() anthropic.StopReason {
	switch r {
	case StopReasonEndTurn:
		return anthropic.StopReasonEndTurn
	case StopReasonToolUse:
		return anthropic.StopReasonToolUse
	case StopReasonMaxTokens:
		return anthropic.StopReasonMaxTokens
	case StopReasonStopSequence:
		return anthropic.StopReasonStopSequence
	case StopReasonGuardrailIntervened, StopReasonContentFiltered:
		return anthropic.StopReasonRefusal
	default:
		return anthropic.StopReasonEndTurn
	}
}

// ToOpenAI maps a backend stop reason to a Chat Completions finish_reason.
func (r StopReason) ToOpenAI() string {
	switch r {
	case StopReasonEndTurn, StopReasonStopSequence:
		return FinishReasonStop
	case StopReasonToolUse:
		return FinishReasonToolCalls
	case StopReasonMaxTokens:
		return FinishReasonLength
	case StopReasonGuardrailIntervened, StopReasonContentFiltered:
		return FinishReasonContentFilter
	default:
		return FinishReasonStop
	}
}
