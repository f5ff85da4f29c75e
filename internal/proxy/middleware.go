package proxy

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter"
)

// Recovery turns handler panics into a 500 response. The body uses the
// Anthropic envelope, which OpenAI clients also parse since it carries an
// "error" object. http.ErrAbortHandler is re-raised so net/http can drop the
// connection. The panic itself is logged by the Logging middleware.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			writeJSONAnthropicError(r.Context(), w, anthropicadapter.NewErrorResponse(
				http.StatusInternalServerError, anthropicadapter.ErrorTypeAPI, http.StatusText(http.StatusInternalServerError)))
		}()

		next.ServeHTTP(w, r)
	})
}

// RequestSizeLimit caps request bodies at maxBytes; readBody reports
// errBodyTooLarge beyond that.
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// APIKeyAuth rejects requests that do not present key in the x-api-key header
// or as an Authorization bearer token. reject writes the dialect's 401 body.
func APIKeyAuth(key string, reject http.HandlerFunc) func(http.Handler) http.Handler {
	want := []byte(key)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if matchesKey(r.Header.Get("x-api-key"), want) || matchesKey(bearerToken(r), want) {
				next.ServeHTTP(w, r)
				return
			}
			reject(w, r)
		})
	}
}

func matchesKey(got string, want []byte) bool {
	if got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), want) == 1
}

// bearerToken returns the credentials of a Bearer Authorization header. The
// scheme is case-insensitive.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// applyMiddlewares wraps h so that middlewares[0] runs first.
func applyMiddlewares(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
