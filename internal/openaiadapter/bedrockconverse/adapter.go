package bedrockconverse

import (
	"context"
	"iter"
	"time"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter"
)

// ModelResolver maps client model names to Bedrock model ids.
type ModelResolver interface {
	Resolve(name string) string
}

// CreateChatCompletionAdapter translates chat completions to Converse calls.
type CreateChatCompletionAdapter struct {
	models ModelResolver
	now    func() time.Time
}

// Compile-time check that the adapter satisfies the dialect contract.
var _ openaiadapter.CreateChatCompletionAdapter = (*CreateChatCompletionAdapter)(nil)

// NewCreateChatCompletionAdapter creates an adapter resolving model names with models.
func NewCreateChatCompletionAdapter(models ModelResolver) *CreateChatCompletionAdapter {
	return &CreateChatCompletionAdapter{models: models, now: time.Now}
}

// ProcessRequest implements openaiadapter.CreateChatCompletionAdapter.
func (a *CreateChatCompletionAdapter) ProcessRequest(
	ctx context.Context,
	clientReq openaiadapter.CreateChatCompletionRequest,
	gw converse.Gateway,
) (*openaiadapter.CreateChatCompletionResponse, error) {
	req := toConverseRequest(clientReq, a.models.Resolve(clientReq.Model))

	resp, err := gw.Invoke(ctx, req)
	if err != nil {
		return nil, openaiadapter.ToErrorResponse(err)
	}

	return toChatCompletionResponse(resp, clientReq.Model, newResponseID(), a.now().Unix()), nil
}

// ProcessStreamingRequest implements openaiadapter.CreateChatCompletionAdapter.
func (a *CreateChatCompletionAdapter) ProcessStreamingRequest(
	ctx context.Context,
	clientReq openaiadapter.CreateChatCompletionRequest,
	gw converse.Gateway,
) (iter.Seq2[*openaiadapter.CreateChatCompletionChunk, error], error) {
	req := toConverseRequest(clientReq, a.models.Resolve(clientReq.Model))

	stream, err := gw.InvokeStreaming(ctx, req)
	if err != nil {
		return nil, openaiadapter.ToErrorResponse(err)
	}

	session := newStreamSession(newResponseID(), clientReq.Model, a.now().Unix())

	return func(yield func(*openaiadapter.CreateChatCompletionChunk, error) bool) {
		defer func() { _ = stream.Close() }()

		if !yield(session.roleChunk(), nil) {
			return
		}

		for ev := range stream.Events() {
			chunk := session.handle(ev)
			if chunk == nil {
				continue
			}
			if !yield(chunk, nil) {
				return
			}
		}

		if err := stream.Err(); err != nil {
			yield(nil, openaiadapter.ToErrorResponse(err))
			return
		}

		yield(session.finalChunk(), nil)
	}, nil
}
