// Package adapter defines the contract shared by the client dialect adapters.
package adapter

import (
	"context"
	"iter"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
)

// Adapter defines the contract for transforming client requests to backend calls.
//
// Type parameters allow the interface to express transformation contracts for different
// request/response shapes while maintaining compile-time type safety.
//
// Type parameters:
//   - TRequest:  Client-specific request structure
//   - TResponse: Client-specific response structure
//   - TChunk:    Client-specific streaming unit (chunk or event)
type Adapter[TRequest, TResponse, TChunk any] interface {
	// ProcessRequest transforms the client request, calls the backend, and returns
	// the transformed response. Implementations should remain stateless.
	ProcessRequest(ctx context.Context, clientReq TRequest, gw converse.Gateway) (*TResponse, error)

	// ProcessStreamingRequest transforms the client request and opens the backend
	// stream. Handshake failures are returned as the error, before any chunk exists.
	// The iterator yields chunks in backend arrival order; a failure after the
	// stream is open is yielded once as a non-nil error and ends the sequence.
	// The backend stream is released when iteration stops.
	ProcessStreamingRequest(ctx context.Context, clientReq TRequest, gw converse.Gateway) (iter.Seq2[TChunk, error], error)
}
