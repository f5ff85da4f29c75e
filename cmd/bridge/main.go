package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/cmd/bridge/commands"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// Signal cancellation propagates to every command through ctx.
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := commands.Execute(ctx, os.Args, version, commit); err != nil {
		slog.ErrorContext(ctx, "Application failed", "error", err)
		os.Exit(1)
	}
}
