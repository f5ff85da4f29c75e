// Package bedrock implements converse.Gateway on top of the Bedrock Runtime
// Converse and ConverseStream APIs.
//
// Two authentication modes are supported: the default AWS credential chain
// (environment, shared config profile, SSO, instance role), and a Bedrock API
// key sent as a bearer token. In API key mode request signing is disabled and
// the key is attached by an oauth2.Transport, so keys rotated in the backing
// store are picked up without a restart.
//
// The SDK retryer is disabled: every client request maps to exactly one
// backend attempt.
package bedrock

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"golang.org/x/oauth2"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
)

// runtimeAPI is the subset of *bedrockruntime.Client the gateway uses.
type runtimeAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
	ConverseStream(ctx context.Context, params *bedrockruntime.ConverseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseStreamOutput, error)
}

// eventSource is the reader side of a ConverseStream response.
// *bedrockruntime.ConverseStreamEventStream satisfies it.
type eventSource interface {
	Events() <-chan types.ConverseStreamOutput
	Err() error
	Close() error
}

// Client is a converse.Gateway backed by Bedrock Runtime.
type Client struct {
	api        runtimeAPI
	openStream func(ctx context.Context, in *bedrockruntime.ConverseStreamInput) (eventSource, error)
}

// Compile-time check that Client implements converse.Gateway.
var _ converse.Gateway = (*Client)(nil)

type options struct {
	profile     string
	tokenSource oauth2.TokenSource
	transport   http.RoundTripper
}

// Option configures New.
type Option func(*options)

// WithProfile selects a named profile from the shared AWS config files.
func WithProfile(profile string) Option {
	return func(o *options) {
		o.profile = profile
	}
}

// WithTokenSource switches to API key authentication. Each request carries
// the current token of ts as a bearer token instead of a SigV4 signature.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(o *options) {
		o.tokenSource = ts
	}
}

// WithTransport sets the base HTTP transport. Defaults to http.DefaultTransport.
func WithTransport(t http.RoundTripper) Option {
	return func(o *options) {
		o.transport = t
	}
}

// New loads the AWS configuration for region and creates a Client.
func New(ctx context.Context, region string, opts ...Option) (*Client, error) {
	o := &options{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(o)
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	}
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}

	// Client.Timeout stays 0: streams are bounded by the request context.
	httpClient := &http.Client{Transport: o.transport}
	if o.tokenSource != nil {
		httpClient.Transport = &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, o.tokenSource),
			Base:   o.transport,
		}
		loadOpts = append(loadOpts, config.WithCredentialsProvider(aws.AnonymousCredentials{}))
	}
	loadOpts = append(loadOpts, config.WithHTTPClient(httpClient))

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newClient(bedrockruntime.NewFromConfig(cfg)), nil
}

func newClient(api runtimeAPI) *Client {
	c := &Client{api: api}
	c.openStream = func(ctx context.Context, in *bedrockruntime.ConverseStreamInput) (eventSource, error) {
		out, err := api.ConverseStream(ctx, in)
		if err != nil {
			return nil, err
		}
		return out.GetStream(), nil
	}
	return c
}

// Invoke calls Converse.
func (c *Client) Invoke(ctx context.Context, req *converse.Request) (*converse.Response, error) {
	start := time.Now()
	out, err := c.api.Converse(ctx, toConverseParams(req).input())
	if err != nil {
		failure := toFailure(err)
		slog.DebugContext(ctx, "converse failed", "model", req.ModelID, "duration", time.Since(start), "error", failure)
		return nil, failure
	}

	resp, err := fromConverseOutput(out)
	if err != nil {
		return nil, &converse.Failure{Category: converse.FailureUnknown, Err: err}
	}

	slog.DebugContext(ctx, "converse completed",
		"model", req.ModelID,
		"duration", time.Since(start),
		"stop_reason", resp.StopReason,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return resp, nil
}

// InvokeStreaming calls ConverseStream. The returned stream must be closed by
// the caller; closing it, or cancelling ctx, aborts the backend call.
func (c *Client) InvokeStreaming(ctx context.Context, req *converse.Request) (converse.EventStream, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	src, err := c.openStream(streamCtx, toConverseParams(req).streamInput())
	if err != nil {
		cancel()
		failure := toFailure(err)
		slog.DebugContext(ctx, "converse stream handshake failed", "model", req.ModelID, "error", failure)
		return nil, failure
	}

	s := newEventStream(src, cancel)
	go s.pump(streamCtx)
	return s, nil
}
