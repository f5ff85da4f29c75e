package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InstrumentationName identifies this service's records in exported logs.
const InstrumentationName = "github.com/Andrea-Scuderi/xcode-bedrock-bridge"

// Log export targets.
const (
	ExportNone     = "none"
	ExportStdout   = "stdout"
	ExportOTLPHTTP = "otlp-http"
	ExportOTLPGRPC = "otlp-grpc"
)

// Config controls the default logger.
type Config struct {
	Level  slog.Level
	Format string // text or json
	// File, when set, receives local logs instead of stdout and is rotated.
	File string
	// Export additionally ships records through OpenTelemetry. OTLP endpoints
	// are taken from the standard OTEL_EXPORTER_OTLP_* environment variables.
	Export string
}

// ShutdownFunc flushes and releases logging resources.
type ShutdownFunc func(context.Context) error

// Instrument installs the default slog logger described by cfg.
func Instrument(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	var closers []func(context.Context) error

	out := io.Writer(os.Stdout)
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = rotator
		closers = append(closers, func(context.Context) error { return rotator.Close() })
	}

	local, err := newLocalHandler(out, cfg.Level, cfg.Format)
	if err != nil {
		return nil, err
	}

	handler := slog.Handler(newTraceContextHandler(local))

	exporter, err := newExportHandler(ctx, cfg.Export, cfg.Level)
	if err != nil {
		return nil, err
	}
	if exporter != nil {
		handler = newFanoutHandler(handler, exporter.handler)
		closers = append(closers, exporter.shutdown)
	}

	slog.SetDefault(slog.New(handler))

	return func(ctx context.Context) error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i](ctx))
		}
		return errors.Join(errs...)
	}, nil
}

// newLocalHandler creates a handler for human-readable logs.
func newLocalHandler(w io.Writer, level slog.Level, logFormat string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(logFormat) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unsupported log format %q (expected: json, text)", logFormat)
	}

	return handler, nil
}

type exportHandler struct {
	handler  slog.Handler
	shutdown func(context.Context) error
}

// newExportHandler returns nil when export is disabled.
func newExportHandler(ctx context.Context, target string, level slog.Level) (*exportHandler, error) {
	var exporter sdklog.Exporter
	var err error

	switch strings.ToLower(target) {
	case "", ExportNone:
		return nil, nil
	case ExportStdout:
		exporter, err = stdoutlog.New()
	case ExportOTLPHTTP:
		exporter, err = otlploghttp.New(ctx)
	case ExportOTLPGRPC:
		exporter, err = otlploggrpc.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported log export %q (expected: %s, %s, %s, %s)",
			target, ExportNone, ExportStdout, ExportOTLPHTTP, ExportOTLPGRPC)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s log exporter: %w", target, err)
	}

	processor := minsev.NewLogProcessor(sdklog.NewBatchProcessor(exporter), severityOf(level))
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(processor))

	return &exportHandler{
		handler:  otelslog.NewHandler(InstrumentationName, otelslog.WithLoggerProvider(provider)),
		shutdown: provider.Shutdown,
	}, nil
}

func severityOf(level slog.Level) minsev.Severity {
	switch {
	case level <= slog.LevelDebug:
		return minsev.SeverityDebug
	case level <= slog.LevelInfo:
		return minsev.SeverityInfo
	case level <= slog.LevelWarn:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}
