package proxy

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
)

// TokenCounter estimates the prompt size of a count_tokens request.
type TokenCounter interface {
	CountTokens(req anthropicadapter.CountTokensRequest) anthropicadapter.CountTokensResponse
}

// MessagesHandler handles Anthropic-compatible message requests.
type MessagesHandler struct {
	Adapter anthropicadapter.MessagesAdapter
	Gateway converse.Gateway
}

var _ http.Handler = (*MessagesHandler)(nil)

// ServeHTTP implements http.Handler for streaming and non-streaming requests.
func (h *MessagesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req anthropicadapter.MessagesRequest
	if !decodeAnthropicRequest(w, r, "messages", &req) {
		return
	}
	if err := anthropicadapter.ValidateMessages(&req); err != nil {
		slog.WarnContext(ctx, "request rejected by input limits", "error", err)
		writeJSONAnthropicError(ctx, w, asAnthropicError(err))
		return
	}

	if req.Stream {
		h.streamResponse(ctx, w, req)
	} else {
		h.writeResponse(ctx, w, req)
	}
}

func (h *MessagesHandler) writeResponse(ctx context.Context, w http.ResponseWriter, req anthropicadapter.MessagesRequest) {
	if ctx.Err() != nil {
		return
	}
	response, err := h.Adapter.ProcessRequest(ctx, req, h.Gateway)
	if err != nil {
		slog.ErrorContext(ctx, "request failed", "error", err)
		writeJSONAnthropicError(ctx, w, asAnthropicError(err))
		return
	}

	writeJSON(ctx, w, response, http.StatusOK)
}

// streamResponse writes each event as a named SSE frame. A failure after the
// stream has started is sent as a single error frame.
func (h *MessagesHandler) streamResponse(ctx context.Context, w http.ResponseWriter, req anthropicadapter.MessagesRequest) {
	if ctx.Err() != nil {
		return
	}
	stream, err := h.Adapter.ProcessStreamingRequest(ctx, req, h.Gateway)
	if err != nil {
		slog.ErrorContext(ctx, "streaming request failed", "error", err)
		writeJSONAnthropicError(ctx, w, asAnthropicError(err))
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		slog.ErrorContext(ctx, "SSE not supported", "error", err)
		writeJSONAnthropicError(ctx, w, anthropicadapter.NewErrorResponse(
			http.StatusInternalServerError, anthropicadapter.ErrorTypeAPI, http.StatusText(http.StatusInternalServerError)))
		return
	}

	for event, err := range stream {
		if ctx.Err() != nil {
			slog.DebugContext(ctx, "client disconnected during stream")
			return
		}

		if err != nil {
			slog.ErrorContext(ctx, "stream error", "error", err)
			errEvent := asAnthropicError(err)
			if writeErr := sse.WriteNamed(errEvent.EventType(), errEvent); writeErr != nil {
				slog.ErrorContext(ctx, "failed to write error", "error", writeErr)
			}
			return
		}

		if err := sse.WriteNamed(event.EventType(), event); err != nil {
			slog.ErrorContext(ctx, "failed to write event", "event", event.EventType(), "error", err)
			return
		}
	}
}

// CountTokensHandler estimates input tokens for Anthropic count_tokens requests.
type CountTokensHandler struct {
	Counter TokenCounter
}

var _ http.Handler = (*CountTokensHandler)(nil)

func (h *CountTokensHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req anthropicadapter.CountTokensRequest
	if !decodeAnthropicRequest(w, r, "count_tokens", &req) {
		return
	}
	if err := anthropicadapter.ValidateCountTokens(&req); err != nil {
		writeJSONAnthropicError(ctx, w, asAnthropicError(err))
		return
	}

	writeJSON(ctx, w, h.Counter.CountTokens(req), http.StatusOK)
}

// decodeAnthropicRequest reads and decodes the body into v, writing an error
// response and returning false on failure.
func decodeAnthropicRequest(w http.ResponseWriter, r *http.Request, endpoint string, v any) bool {
	ctx := r.Context()

	body, err := readBody(r)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			writeJSONAnthropicError(ctx, w, anthropicadapter.NewErrorResponse(
				http.StatusRequestEntityTooLarge,
				anthropicadapter.ErrorTypeRequestTooBig,
				http.StatusText(http.StatusRequestEntityTooLarge),
			))
			return false
		}
		slog.ErrorContext(ctx, "failed to read request", "error", err)
		writeJSONAnthropicError(ctx, w, anthropicadapter.NewErrorResponse(
			http.StatusBadRequest, anthropicadapter.ErrorTypeInvalidRequest, http.StatusText(http.StatusBadRequest)))
		return false
	}
	logRequestSummary(ctx, endpoint, body)

	if err := decodeJSON(body, v); err != nil {
		slog.WarnContext(ctx, "failed to decode request", "error", err)
		writeJSONAnthropicError(ctx, w, anthropicadapter.NewErrorResponse(
			http.StatusBadRequest, anthropicadapter.ErrorTypeInvalidRequest, "Invalid request body: "+err.Error()))
		return false
	}
	return true
}

func asAnthropicError(err error) *anthropicadapter.ErrorResponse {
	var errResp *anthropicadapter.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp
	}
	return anthropicadapter.ToErrorResponse(err)
}
