// Package app wires configuration, the Bedrock gateway and the HTTP proxy
// together and runs them until the context is cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/bedrock"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/modelmap"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/proxy"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/tokensource"
)

// shutdownTimeout bounds graceful shutdown. In-flight streams that outlive it
// are cut off.
const shutdownTimeout = 10 * time.Second

// Auth modes reported at startup.
const (
	AuthModeIAM    = "iam"
	AuthModeAPIKey = "api-key"
)

// App orchestrates the lifecycle of the proxy server and related services.
type App struct {
	cfg      Config
	authMode string
	proxy    *proxy.Proxy
	health   *Health
}

// New creates the Bedrock gateway and proxy described by cfg.
func New(ctx context.Context, cfg Config) (*App, error) {
	gw, authMode, err := newGateway(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, gw, authMode)
}

// newApp builds an App around an existing gateway.
func newApp(cfg Config, gw converse.Gateway, authMode string) (*App, error) {
	resolver := modelmap.NewResolver(cfg.Backend.DefaultModel, modelmap.WithAliases(cfg.Models))
	health := NewHealth()

	proxyServer, err := proxy.New(gw, resolver, health,
		proxy.WithAPIKey(cfg.Auth.ProxyAPIKey),
		proxy.WithProtectedMessages(cfg.Auth.ProtectMessages),
		proxy.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy: %w", err)
	}

	return &App{
		cfg:      cfg,
		authMode: authMode,
		proxy:    proxyServer,
		health:   health,
	}, nil
}

// newGateway selects API key auth when the credential store holds a key and
// the AWS credential chain otherwise.
func newGateway(ctx context.Context, cfg Config) (*bedrock.Client, string, error) {
	store, err := cfg.Auth.NewCredentialStore()
	if err != nil {
		return nil, "", fmt.Errorf("failed to create credential store: %w", err)
	}

	var opts []bedrock.Option
	if cfg.Backend.Profile != "" {
		opts = append(opts, bedrock.WithProfile(cfg.Backend.Profile))
	}

	authMode := AuthModeIAM
	_, err = store.Read(ctx)
	switch {
	case err == nil:
		authMode = AuthModeAPIKey
		opts = append(opts, bedrock.WithTokenSource(tokensource.NewTokenSource(store)))
	case errors.Is(err, tokensource.ErrNoToken):
		slog.DebugContext(ctx, "no bedrock api key stored, using aws credential chain",
			"storage", cfg.Auth.CredentialStorage)
	default:
		return nil, "", fmt.Errorf("failed to read bedrock api key: %w", err)
	}

	client, err := bedrock.New(ctx, cfg.Backend.Region, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create bedrock client: %w", err)
	}
	return client, authMode, nil
}

// Start starts all services and blocks until ctx is cancelled or a service fails.
func (a *App) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	var shutdownFuncs []func(context.Context) error

	a.logStartup(gCtx)

	addr := a.cfg.Server.Addr()
	proxyErrCh, err := a.proxy.Start(gCtx, addr)
	if err != nil {
		return fmt.Errorf("proxy startup failed: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, a.proxy.Shutdown)

	a.health.SetReady(true)

	g.Go(func() error {
		select {
		case err := <-proxyErrCh:
			if err != nil {
				slog.ErrorContext(gCtx, "proxy runtime error", "error", err)
				return fmt.Errorf("proxy: %w", err)
			}
			return nil
		case <-gCtx.Done():
			return nil
		}
	})

	runtimeErr := g.Wait()

	// Fail readiness first so load balancers stop routing new requests.
	a.health.SetReady(false)
	slog.InfoContext(ctx, "shutting down services")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var errs []error
	if runtimeErr != nil {
		errs = append(errs, fmt.Errorf("runtime: %w", runtimeErr))
	}

	for i := len(shutdownFuncs) - 1; i >= 0; i-- {
		if err := shutdownFuncs[i](shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "service shutdown failed", "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.InfoContext(ctx, "application stopped")
	return nil
}

func (a *App) logStartup(ctx context.Context) {
	slog.InfoContext(ctx, "starting bridge",
		"region", a.cfg.Backend.Region,
		"auth_mode", a.authMode,
		"default_model", a.cfg.Backend.DefaultModel,
		"port", a.cfg.Server.Port,
	)

	switch key := a.cfg.Auth.ProxyAPIKey; {
	case key == "":
		slog.WarnContext(ctx, "PROXY_API_KEY is not set; client requests are not authenticated")
	case len(key) < MinProxyAPIKeyLength:
		slog.WarnContext(ctx, "PROXY_API_KEY is shorter than recommended", "min_length", MinProxyAPIKeyLength)
	}
}
