// Package anthropicadapter exposes the Anthropic Messages dialect: wire types,
// the adapter contract, request guardrails and the error envelope.
package anthropicadapter

import (
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/adapter"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter/types"
)

// Type aliases for Anthropic-compatible message operations.
type (
	MessagesRequest     = types.MessagesRequest
	Message             = types.Message
	StreamEvent         = types.StreamEvent
	CountTokensRequest  = types.CountTokensRequest
	CountTokensResponse = types.CountTokensResponse

	MessagesAdapter = adapter.Adapter[MessagesRequest, Message, StreamEvent]
)

// Type aliases for Anthropic-compatible error responses.
type (
	Error         = types.Error
	ErrorResponse = types.ErrorResponse
)
