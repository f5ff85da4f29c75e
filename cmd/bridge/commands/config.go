package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/app"
)

const (
	flagConfig          = "config"
	flagEnvFile         = "env-file"
	flagLogLevel        = "log-level"
	flagHost            = "host"
	flagPort            = "port"
	flagRegion          = "region"
	flagProfile         = "profile"
	flagDefaultModel    = "default-model"
	flagLogFormat       = "log-format"
	flagLogFile         = "log-file"
	flagLogExport       = "log-export"
	flagProtectMessages = "protect-messages"
)

// envKeys maps environment variables to config keys. Unlisted variables are ignored.
var envKeys = map[string]string{
	"HOST":                  "server.host",
	"PORT":                  "server.port",
	"AWS_REGION":            "backend.region",
	"PROFILE":               "backend.profile",
	"DEFAULT_BEDROCK_MODEL": "backend.default_model",
	"PROXY_API_KEY":         "auth.proxy_api_key",
	"PROTECT_MESSAGES":      "auth.protect_messages",
	"BEDROCK_API_KEY":       "auth.bedrock_api_key",
	"CREDENTIAL_STORAGE":    "auth.credential_storage",
	"CREDENTIAL_FILE":       "auth.credential_file",
	"KEYRING_USER":          "auth.keyring_user",
	"LOG_LEVEL":             "log.level",
	"LOG_FORMAT":            "log.format",
	"LOG_FILE":              "log.file",
	"LOG_EXPORT":            "log.export",
}

// flagKeys maps CLI flags to config keys.
var flagKeys = map[string]string{
	flagHost:            "server.host",
	flagPort:            "server.port",
	flagRegion:          "backend.region",
	flagProfile:         "backend.profile",
	flagDefaultModel:    "backend.default_model",
	flagLogLevel:        "log.level",
	flagLogFormat:       "log.format",
	flagLogFile:         "log.file",
	flagLogExport:       "log.export",
	flagProtectMessages: "auth.protect_messages",
}

// loadConfig merges, lowest precedence first: built-in defaults, the config
// file, the dotenv file, the process environment and explicitly set flags.
func loadConfig(cmd *cli.Command, environ func() []string) (app.Config, error) {
	// Providers below use "." paths. The store itself uses a delimiter that
	// cannot clash with model aliases such as "gpt-4.1".
	k := koanf.New("::")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return app.Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := cmd.String(flagConfig); path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return app.Config{}, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return app.Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	dotenv, err := readDotenv(cmd.String(flagEnvFile))
	if err != nil {
		return app.Config{}, err
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return envKeys[key], value
		},
		EnvironFunc: func() []string {
			// Process environment last so it wins over the dotenv file.
			return append(dotenv, environ()...)
		},
	}), nil); err != nil {
		return app.Config{}, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Load(confmap.Provider(setFlags(cmd), "."), nil); err != nil {
		return app.Config{}, fmt.Errorf("load flags: %w", err)
	}

	var cfg app.Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return app.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

func defaults() map[string]any {
	d := app.DefaultConfig()
	return map[string]any{
		"server.host":             d.Server.Host,
		"server.port":             d.Server.Port,
		"backend.region":          d.Backend.Region,
		"backend.default_model":   d.Backend.DefaultModel,
		"auth.credential_storage": string(d.Auth.CredentialStorage),
		"auth.keyring_user":       d.Auth.KeyringUser,
		"log.level":               d.Log.Level,
		"log.format":              d.Log.Format,
		"log.export":              d.Log.Export,
	}
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config file %s (expected .toml or .json)", path)
	}
}

// readDotenv returns the dotenv file as KEY=VALUE pairs. A missing file is not an error.
func readDotenv(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	pairs := make([]string, 0, len(vars))
	for key, value := range vars {
		pairs = append(pairs, key+"="+value)
	}
	return pairs, nil
}

func setFlags(cmd *cli.Command) map[string]any {
	out := make(map[string]any)
	for name, key := range flagKeys {
		if !cmd.IsSet(name) {
			continue
		}
		switch name {
		case flagPort:
			out[key] = cmd.Int(name)
		case flagProtectMessages:
			out[key] = cmd.Bool(name)
		default:
			out[key] = cmd.String(name)
		}
	}
	return out
}
