package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter"
)

// writeJSON writes a JSON response with the given status code.
// Logs encoding failures internally using the provided context.
func writeJSON(ctx context.Context, w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	// Headers and status are written before encoding to avoid buffering.
	// If encoding fails, the client may receive a partial response.
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		slog.ErrorContext(ctx, "failed to encode JSON response", "error", err)
	}
}

// writeJSONOpenAIError writes an OpenAI-compatible error response.
func writeJSONOpenAIError(ctx context.Context, w http.ResponseWriter, errResp *openaiadapter.ErrorResponse) {
	writeJSON(ctx, w, errResp, openaiadapter.StatusOf(errResp))
}

// writeJSONAnthropicError writes an Anthropic-compatible error response.
func writeJSONAnthropicError(ctx context.Context, w http.ResponseWriter, errResp *anthropicadapter.ErrorResponse) {
	writeJSON(ctx, w, errResp, anthropicadapter.StatusOf(errResp))
}

// errBodyTooLarge is returned by readBody when the size limit is exceeded.
var errBodyTooLarge = errors.New("request body too large")

// readBody reads the whole request body. Exceeding the RequestSizeLimit
// middleware's limit yields errBodyTooLarge.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			slog.WarnContext(r.Context(), "request exceeds size limit", "limit_bytes", maxBytesErr.Limit)
			return nil, errBodyTooLarge
		}
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return body, nil
}

// decodeJSON decodes body into v. Empty bodies are rejected.
func decodeJSON(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("request body is empty")
	}
	return json.Unmarshal(body, v)
}
