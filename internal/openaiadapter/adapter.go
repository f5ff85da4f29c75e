// Package openaiadapter exposes the OpenAI Chat Completions dialect: wire
// types, the adapter contract and the error envelope.
package openaiadapter

import (
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/adapter"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter/types"
)

// Type aliases for OpenAI-compatible chat completion operations.
// Request/response types are defined in the types package.
// CreateChatCompletionAdapter is the concrete adapter interface for this operation.
type (
	CreateChatCompletionRequest  = types.CreateChatCompletionRequest
	CreateChatCompletionResponse = types.CreateChatCompletionResponse
	CreateChatCompletionChunk    = types.CreateChatCompletionStreamResponse

	CreateChatCompletionAdapter = adapter.Adapter[
		CreateChatCompletionRequest,
		CreateChatCompletionResponse,
		*CreateChatCompletionChunk,
	]
)

// Type aliases for OpenAI-compatible error responses.
type (
	Error         = types.Error
	ErrorResponse = types.ErrorResponse
)
