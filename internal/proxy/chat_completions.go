package proxy

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter"
)

// CreateChatCompletionsHandler serves POST /v1/chat/completions.
type CreateChatCompletionsHandler struct {
	Adapter openaiadapter.CreateChatCompletionAdapter
	Gateway converse.Gateway
}

var _ http.Handler = (*CreateChatCompletionsHandler)(nil)

func (h *CreateChatCompletionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req openaiadapter.CreateChatCompletionRequest
	if !decodeOpenAIRequest(w, r, &req) {
		return
	}

	if req.Stream {
		h.stream(r.Context(), w, req)
		return
	}
	h.complete(r.Context(), w, req)
}

func (h *CreateChatCompletionsHandler) complete(ctx context.Context, w http.ResponseWriter, req openaiadapter.CreateChatCompletionRequest) {
	if ctx.Err() != nil {
		return
	}

	resp, err := h.Adapter.ProcessRequest(ctx, req, h.Gateway)
	if err != nil {
		slog.ErrorContext(ctx, "chat completion failed", "error", err)
		writeJSONOpenAIError(ctx, w, asOpenAIError(err))
		return
	}
	writeJSON(ctx, w, resp, http.StatusOK)
}

// stream writes unnamed data frames terminated by [DONE]. A failure after
// the first frame is reported as one "error" frame and no [DONE] follows.
func (h *CreateChatCompletionsHandler) stream(ctx context.Context, w http.ResponseWriter, req openaiadapter.CreateChatCompletionRequest) {
	if ctx.Err() != nil {
		return
	}

	// The backend handshake happens here, so its failure still gets a real status.
	chunks, err := h.Adapter.ProcessStreamingRequest(ctx, req, h.Gateway)
	if err != nil {
		slog.ErrorContext(ctx, "chat completion stream failed", "error", err)
		writeJSONOpenAIError(ctx, w, asOpenAIError(err))
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		slog.ErrorContext(ctx, "SSE not supported", "error", err)
		writeJSONOpenAIError(ctx, w, openaiadapter.NewErrorResponse(
			http.StatusInternalServerError, openaiadapter.ErrorTypeAPI, http.StatusText(http.StatusInternalServerError)))
		return
	}

	for chunk, err := range chunks {
		if ctx.Err() != nil {
			slog.DebugContext(ctx, "client disconnected during stream")
			return
		}

		if err != nil {
			slog.ErrorContext(ctx, "stream interrupted", "error", err)
			// openai-go stops on any frame whose data has an "error" member.
			if werr := sse.WriteNamed("error", asOpenAIError(err)); werr != nil {
				slog.ErrorContext(ctx, "failed to write error frame", "error", werr)
			}
			return
		}

		if err := sse.WriteData(chunk); err != nil {
			slog.ErrorContext(ctx, "failed to write chunk", "error", err)
			return
		}
	}

	if err := sse.WriteRaw("[DONE]"); err != nil {
		slog.ErrorContext(ctx, "failed to write [DONE]", "error", err)
	}
}

// decodeOpenAIRequest reads and decodes the body into v, writing an error
// response and returning false on failure.
func decodeOpenAIRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	ctx := r.Context()

	body, err := readBody(r)
	switch {
	case errors.Is(err, errBodyTooLarge):
		writeJSONOpenAIError(ctx, w, openaiadapter.NewErrorResponse(
			http.StatusRequestEntityTooLarge,
			openaiadapter.ErrorTypeInvalidRequest,
			http.StatusText(http.StatusRequestEntityTooLarge),
		))
		return false
	case err != nil:
		slog.ErrorContext(ctx, "failed to read request", "error", err)
		writeJSONOpenAIError(ctx, w, openaiadapter.NewErrorResponse(
			http.StatusBadRequest, openaiadapter.ErrorTypeInvalidRequest, http.StatusText(http.StatusBadRequest)))
		return false
	}
	logRequestSummary(ctx, "chat_completions", body)

	if err := decodeJSON(body, v); err != nil {
		slog.WarnContext(ctx, "failed to decode request", "error", err)
		writeJSONOpenAIError(ctx, w, openaiadapter.NewErrorResponse(
			http.StatusBadRequest, openaiadapter.ErrorTypeInvalidRequest, "Invalid request body: "+err.Error()))
		return false
	}
	return true
}

func asOpenAIError(err error) *openaiadapter.ErrorResponse {
	var errResp *openaiadapter.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp
	}
	return openaiadapter.ToErrorResponse(err)
}
