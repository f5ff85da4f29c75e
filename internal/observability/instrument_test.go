package observability

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/trace"
)

func TestNewLocalHandler(t *testing.T) {
	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{format: "text", want: "msg=hello"},
		{format: "", want: "msg=hello"},
		{format: "JSON", want: `"msg":"hello"`},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			h, err := newLocalHandler(&buf, slog.LevelInfo, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			slog.New(h).Info("hello")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q missing %q", buf.String(), tt.want)
			}
		})
	}
}

func TestTraceContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newTraceContextHandler(slog.NewTextHandler(&buf, nil)))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "with trace")
	logger.Info("without trace")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "trace_id=4bf92f3577b34da6a3ce929d0e0e4736") || !strings.Contains(lines[0], "span_id=00f067aa0ba902b7") {
		t.Errorf("missing trace attrs: %s", lines[0])
	}
	if strings.Contains(lines[1], "trace_id") {
		t.Errorf("unexpected trace attrs: %s", lines[1])
	}
}

func TestFanoutHandler(t *testing.T) {
	var debug, warn bytes.Buffer
	h := newFanoutHandler(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(h).With("component", "test")

	logger.Debug("detail")
	logger.Warn("problem")

	if got := strings.Count(debug.String(), "\n"); got != 2 {
		t.Errorf("debug handler got %d records, want 2", got)
	}
	if strings.Contains(warn.String(), "detail") || !strings.Contains(warn.String(), "component=test") {
		t.Errorf("warn handler output = %q", warn.String())
	}
	if h.Enabled(context.Background(), slog.LevelDebug-1) {
		t.Error("fanout enabled below every handler's level")
	}
}

func TestInstrumentWritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "bridge.log")
	shutdown, err := Instrument(t.Context(), Config{Level: slog.LevelInfo, Format: "json", File: path})
	if err != nil {
		t.Fatal(err)
	}

	slog.Debug("dropped")
	slog.Info("kept", "k", "v")

	if err := shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "dropped") || !strings.Contains(string(data), `"msg":"kept"`) {
		t.Errorf("log file = %s", data)
	}
}

func TestInstrumentExport(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	shutdown, err := Instrument(t.Context(), Config{Level: slog.LevelWarn, Export: ExportStdout})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := slog.Default().Handler().(*fanoutHandler); !ok {
		t.Errorf("default handler = %T, want *fanoutHandler", slog.Default().Handler())
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := Instrument(t.Context(), Config{Export: "kafka"}); err == nil {
		t.Error("expected error for unknown export")
	}
}

func TestSeverityOf(t *testing.T) {
	tests := map[slog.Level]minsev.Severity{
		slog.LevelDebug - 4: minsev.SeverityDebug,
		slog.LevelDebug:     minsev.SeverityDebug,
		slog.LevelInfo:      minsev.SeverityInfo,
		slog.LevelWarn:      minsev.SeverityWarn,
		slog.LevelError:     minsev.SeverityError,
	}
	for level, want := range tests {
		if got := severityOf(level); got != want {
			t.Errorf("severityOf(%v) = %v, want %v", level, got, want)
		}
	}
}
