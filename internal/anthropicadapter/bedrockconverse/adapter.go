package bedrockconverse

import (
	"context"
	"iter"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
)

// ModelResolver maps client model names to Bedrock model ids.
type ModelResolver interface {
	Resolve(name string) string
}

// MessagesAdapter translates Messages requests to Converse calls.
type MessagesAdapter struct {
	models ModelResolver
}

var _ anthropicadapter.MessagesAdapter = (*MessagesAdapter)(nil)

// NewMessagesAdapter creates an adapter resolving model names with models.
func NewMessagesAdapter(models ModelResolver) *MessagesAdapter {
	return &MessagesAdapter{models: models}
}

// ProcessRequest implements anthropicadapter.MessagesAdapter.
func (a *MessagesAdapter) ProcessRequest(
	ctx context.Context,
	clientReq anthropicadapter.MessagesRequest,
	gw converse.Gateway,
) (*anthropicadapter.Message, error) {
	req := toConverseRequest(clientReq, a.models.Resolve(clientReq.Model))

	resp, err := gw.Invoke(ctx, req)
	if err != nil {
		return nil, anthropicadapter.ToErrorResponse(err)
	}

	return toMessage(resp, clientReq.Model, newMessageID()), nil
}

// ProcessStreamingRequest implements anthropicadapter.MessagesAdapter.
//
// The handshake happens before the iterator is returned, so a failure there
// is reported as a plain error and no event has been produced. Failures after
// that are yielded once as an *anthropicadapter.ErrorResponse, which is itself
// a stream event.
func (a *MessagesAdapter) ProcessStreamingRequest(
	ctx context.Context,
	clientReq anthropicadapter.MessagesRequest,
	gw converse.Gateway,
) (iter.Seq2[anthropicadapter.StreamEvent, error], error) {
	req := toConverseRequest(clientReq, a.models.Resolve(clientReq.Model))

	stream, err := gw.InvokeStreaming(ctx, req)
	if err != nil {
		return nil, anthropicadapter.ToErrorResponse(err)
	}

	session := newStreamSession(newMessageID(), clientReq.Model)

	return func(yield func(anthropicadapter.StreamEvent, error) bool) {
		defer func() { _ = stream.Close() }()

		for _, frame := range session.preamble() {
			if !yield(frame, nil) {
				return
			}
		}

		for ev := range stream.Events() {
			for _, frame := range session.handle(ev) {
				if !yield(frame, nil) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			yield(nil, anthropicadapter.ToErrorResponse(err))
			return
		}

		for _, frame := range session.final() {
			if !yield(frame, nil) {
				return
			}
		}
	}, nil
}
