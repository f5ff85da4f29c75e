package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/httplog/v3"
)

// Logging writes one access log line per request. Successful health probes
// are skipped; request and response bodies are never logged since they carry
// prompts and completions.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		Schema: httplog.SchemaECS.Concise(true),

		LogRequestHeaders:  []string{"Content-Type", "User-Agent"},
		LogResponseHeaders: []string{},

		Skip: func(r *http.Request, status int) bool {
			return strings.HasPrefix(r.URL.Path, "/health/") && status < http.StatusBadRequest
		},

		// Recovery is a separate middleware.
		RecoverPanics: false,
	})
}

// SetLogAttrs adds attributes to the access log line of the current request.
func SetLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	httplog.SetAttrs(ctx, attrs...)
}
