package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// Request ID headers. OpenAI clients read X-Request-ID, Anthropic SDKs read request-id.
const (
	HeaderRequestID          = "X-Request-ID"
	HeaderAnthropicRequestID = "Request-Id"
)

// RequestIDContextKey is the context key for the request ID.
type RequestIDContextKey struct{}

// RequestIDFromContext returns the request ID stored by RequestIDGeneration.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey{}).(string)
	return id
}

func requestID(r *http.Request) string {
	for _, h := range []string{HeaderRequestID, HeaderAnthropicRequestID} {
		if id := r.Header.Get(h); id != "" {
			return id
		}
	}
	if id := RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

// RequestIDGeneration stores the client's request ID in the context, or a new one.
func RequestIDGeneration(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), RequestIDContextKey{}, requestID(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDPropagation echoes the request ID in both response headers and the
// access log. Must run inside Logging.
func RequestIDPropagation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := RequestIDFromContext(r.Context()); id != "" {
			// Set before the handler runs so recovered panics still carry it.
			w.Header().Set(HeaderRequestID, id)
			w.Header().Set(HeaderAnthropicRequestID, id)
			SetLogAttrs(r.Context(), slog.String("request_id", id))
		}
		next.ServeHTTP(w, r)
	})
}
