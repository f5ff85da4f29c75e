// Package bedrocktest runs a real bedrock.Client against canned Bedrock
// Runtime HTTP responses.
package bedrocktest

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/oauth2"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/bedrock"
)

// APIKey is the bearer token sent by clients built with NewClient.
const APIKey = "bedrock-test-key"

// Transport answers every request with Status and Body.
type Transport struct {
	Status int
	Body   string
	// ErrorType is sent as X-Amzn-ErrorType, which the SDK uses to pick the
	// exception type of a non-2xx response.
	ErrorType string

	mu       sync.Mutex
	requests []Request
}

// Request is a recorded call.
type Request struct {
	Path          string
	Authorization string
	Body          []byte
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		_ = req.Body.Close()
		body = b
	}

	t.mu.Lock()
	t.requests = append(t.requests, Request{
		Path:          req.URL.Path,
		Authorization: req.Header.Get("Authorization"),
		Body:          body,
	})
	t.mu.Unlock()

	status := t.Status
	if status == 0 {
		status = http.StatusOK
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("X-Amzn-Requestid", "bedrocktest-request")
	if t.ErrorType != "" {
		header.Set("X-Amzn-ErrorType", t.ErrorType)
	}

	return &http.Response{
		StatusCode:    status,
		Status:        http.StatusText(status),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader([]byte(t.Body))),
		ContentLength: int64(len(t.Body)),
		Request:       req,
	}, nil
}

// Requests returns the recorded calls in order.
func (t *Transport) Requests() []Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Request(nil), t.requests...)
}

// NewClient builds a bedrock.Client in API key mode that sends every call to
// rt. Shared AWS config files are isolated from the host. opts are applied
// after the defaults.
func NewClient(tb testing.TB, rt *Transport, opts ...bedrock.Option) *bedrock.Client {
	tb.Helper()

	dir := tb.TempDir()
	tb.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	tb.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	tb.Setenv("AWS_PROFILE", "")
	tb.Setenv("AWS_ENDPOINT_URL", "")
	tb.Setenv("AWS_ENDPOINT_URL_BEDROCK_RUNTIME", "")

	opts = append([]bedrock.Option{
		bedrock.WithTransport(rt),
		bedrock.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: APIKey})),
	}, opts...)
	client, err := bedrock.New(tb.Context(), "us-east-1", opts...)
	if err != nil {
		tb.Fatalf("bedrock.New() error = %v", err)
	}
	return client
}

// ToolUseResponse is a Converse response body with a text block followed by a
// get_weather tool call.
const ToolUseResponse = `{
	"output": {
		"message": {
			"role": "assistant",
			"content": [
				{"text": "Checking the weather."},
				{"toolUse": {"toolUseId": "tooluse_1", "name": "get_weather", "input": {"city": "Paris", "days": 2}}}
			]
		}
	},
	"stopReason": "tool_use",
	"usage": {"inputTokens": 12, "outputTokens": 7, "totalTokens": 19},
	"metrics": {"latencyMs": 120}
}`
