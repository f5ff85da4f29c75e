// Package commands implements the bridge command line.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/app"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string, version, commit string) error {
	cmd := &cli.Command{
		Name:    "xcode-bedrock-bridge",
		Usage:   "Serve Amazon Bedrock models to Xcode through OpenAI and Anthropic compatible APIs",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags:   rootFlags(),
		Commands: []*cli.Command{
			startCommand(),
			authCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

// rootFlags apply to every subcommand.
func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  flagConfig,
			Usage: "path to a .toml or .json config file",
		},
		&cli.StringFlag{
			Name:  flagEnvFile,
			Usage: "dotenv file read before the process environment",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:  flagLogLevel,
			Usage: "log level (debug|info|warn|error)",
		},
	}
}

func startFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagHost, Usage: "listen host"},
		&cli.IntFlag{Name: flagPort, Usage: "listen port"},
		&cli.StringFlag{Name: flagRegion, Usage: "AWS region of the Bedrock endpoint"},
		&cli.StringFlag{Name: flagProfile, Usage: "shared AWS config profile"},
		&cli.StringFlag{Name: flagDefaultModel, Usage: "Bedrock model used for unknown model names"},
		&cli.StringFlag{Name: flagLogFormat, Usage: "log format (text|json)"},
		&cli.StringFlag{Name: flagLogFile, Usage: "write logs to a rotated file instead of stdout"},
		&cli.StringFlag{Name: flagLogExport, Usage: "export logs via OpenTelemetry (none|stdout|otlp-http|otlp-grpc)"},
		&cli.BoolFlag{Name: flagProtectMessages, Usage: "require the proxy API key on /v1/messages"},
	}
}

func startCommand() *cli.Command {
	return &cli.Command{
		Name:   "start",
		Usage:  "Starts the bridge",
		Flags:  startFlags(),
		Action: startAction,
	}
}

func startAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	obsCfg, err := cfg.Log.Observability()
	if err != nil {
		return err
	}

	// Set up observability before creating app
	shutdownLogs, err := observability.Instrument(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to set up observability layer: %w", err)
	}
	defer func() {
		if err := shutdownLogs(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintf(os.Stderr, "flush logs: %v\n", err)
		}
	}()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("app failed: %w", err)
	}

	slog.InfoContext(ctx, "stopped gracefully")
	return nil
}
