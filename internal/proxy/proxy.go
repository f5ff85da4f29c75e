// Package proxy serves the OpenAI and Anthropic dialects over HTTP and routes
// both to a single converse.Gateway.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter"
	anthropicconverse "github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter/bedrockconverse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/observability/middleware"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter"
	openaiconverse "github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter/bedrockconverse"
)

// DefaultMaxRequestBytes bounds request bodies. Xcode sends whole files and
// long histories, so the limit is generous.
const DefaultMaxRequestBytes = 32 << 20

// Proxy is the HTTP front end of the bridge.
type Proxy struct {
	handler http.Handler
	server  *http.Server
}

type options struct {
	apiKey          string
	protectMessages bool
	maxRequestBytes int64
	logger          *slog.Logger
	now             func() time.Time
}

// Option configures a Proxy.
type Option func(*options)

// WithAPIKey requires clients to present key. An empty key disables the check.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithProtectedMessages extends API key checks to the Anthropic endpoints.
// They are open by default because Xcode's agent sends its own credentials.
func WithProtectedMessages(protect bool) Option {
	return func(o *options) { o.protectMessages = protect }
}

// WithMaxRequestBytes overrides DefaultMaxRequestBytes.
func WithMaxRequestBytes(n int64) Option {
	return func(o *options) { o.maxRequestBytes = n }
}

// WithLogger sets the logger used for request logs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a proxy translating client requests for gw.
func New(gw converse.Gateway, catalog ModelCatalog, health ReadinessChecker, opts ...Option) (*Proxy, error) {
	if gw == nil {
		return nil, errors.New("proxy: gateway is required")
	}
	if catalog == nil {
		return nil, errors.New("proxy: model catalog is required")
	}
	if health == nil {
		return nil, errors.New("proxy: readiness checker is required")
	}

	o := options{
		maxRequestBytes: DefaultMaxRequestBytes,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	messages := anthropicconverse.NewMessagesAdapter(catalog)

	chatHandler := &CreateChatCompletionsHandler{
		Adapter: openaiconverse.NewCreateChatCompletionAdapter(catalog),
		Gateway: gw,
	}
	messagesHandler := &MessagesHandler{Adapter: messages, Gateway: gw}
	countTokensHandler := &CountTokensHandler{Counter: messages}

	openaiAuth := func(h http.Handler) http.Handler { return h }
	anthropicAuth := openaiAuth
	if o.apiKey != "" {
		openaiAuth = APIKeyAuth(o.apiKey, rejectOpenAI)
		if o.protectMessages {
			anthropicAuth = APIKeyAuth(o.apiKey, rejectAnthropic)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health/liveness", livenessHandler())
	mux.Handle("GET /health/readiness", readinessHandler(health))
	mux.Handle("GET /v1/models", openaiAuth(modelsHandler(catalog, o.now)))
	mux.Handle("POST /v1/chat/completions", openaiAuth(chatHandler))
	mux.Handle("POST /v1/messages", anthropicAuth(messagesHandler))
	mux.Handle("POST /v1/messages/count_tokens", anthropicAuth(countTokensHandler))

	handler := applyMiddlewares(mux,
		middleware.RequestIDGeneration,
		middleware.Logging(o.logger),
		middleware.RequestIDPropagation,
		middleware.TraceContextExtraction,
		Recovery,
		RequestSizeLimit(o.maxRequestBytes),
	)

	return &Proxy{
		handler: handler,
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
			// No write timeout: streamed responses last as long as generation does.
		},
	}, nil
}

// ServeHTTP implements http.Handler.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.handler.ServeHTTP(w, r)
}

// Start binds addr and serves in the background. Bind errors are returned
// directly; errors while serving are delivered on the returned channel.
func (p *Proxy) Start(ctx context.Context, addr string) (<-chan error, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	p.server.BaseContext = func(net.Listener) context.Context { return context.WithoutCancel(ctx) }

	slog.InfoContext(ctx, "proxy listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := p.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh, nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (p *Proxy) Shutdown(ctx context.Context) error {
	if err := p.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("proxy shutdown: %w", err)
	}
	return nil
}

func rejectOpenAI(w http.ResponseWriter, r *http.Request) {
	writeJSONOpenAIError(r.Context(), w, openaiadapter.NewErrorResponse(
		http.StatusUnauthorized, openaiadapter.ErrorTypeAuthentication, "Invalid or missing API key"))
}

func rejectAnthropic(w http.ResponseWriter, r *http.Request) {
	writeJSONAnthropicError(r.Context(), w, anthropicadapter.NewErrorResponse(
		http.StatusUnauthorized, anthropicadapter.ErrorTypeAuthentication, "Invalid or missing API key"))
}
