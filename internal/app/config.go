package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/observability"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/tokensource"
)

// CredentialStorageType selects where the Bedrock API key is kept.
type CredentialStorageType string

const (
	// CredentialStorageEnv reads BEDROCK_API_KEY and cannot be written.
	CredentialStorageEnv CredentialStorageType = "env"
	// CredentialStorageFile keeps the key in a file.
	CredentialStorageFile CredentialStorageType = "file"
	// CredentialStorageKeyring keeps the key in the system keychain.
	CredentialStorageKeyring CredentialStorageType = "keyring"
)

// MinProxyAPIKeyLength is the length below which a warning is logged at startup.
const MinProxyAPIKeyLength = 16

// Config is the complete runtime configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Backend BackendConfig `koanf:"backend"`
	Auth    AuthConfig    `koanf:"auth"`
	Log     LogConfig     `koanf:"log"`
	// Models maps extra client model names to Bedrock ids.
	Models map[string]string `koanf:"models" validate:"dive,keys,required,endkeys,required"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `koanf:"host" validate:"required"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`
}

// Addr returns host:port.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BackendConfig selects the Bedrock region and model defaults.
type BackendConfig struct {
	Region       string `koanf:"region"        validate:"required"`
	Profile      string `koanf:"profile"`
	DefaultModel string `koanf:"default_model" validate:"required"`
}

// AuthConfig covers both inbound client auth and outbound Bedrock auth.
type AuthConfig struct {
	// ProxyAPIKey protects client-facing routes. Empty disables the check.
	ProxyAPIKey     string `koanf:"proxy_api_key"`
	ProtectMessages bool   `koanf:"protect_messages"`

	// BedrockAPIKey is the key served by the env credential storage.
	BedrockAPIKey     string                `koanf:"bedrock_api_key"`
	CredentialStorage CredentialStorageType `koanf:"credential_storage" validate:"oneof=env file keyring"`
	CredentialFile    string                `koanf:"credential_file"    validate:"required_if=CredentialStorage file"`
	KeyringUser       string                `koanf:"keyring_user"       validate:"required_if=CredentialStorage keyring"`
}

// LogConfig controls the default logger.
type LogConfig struct {
	Level  string `koanf:"level"  validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
	File   string `koanf:"file"`
	Export string `koanf:"export" validate:"oneof=none stdout otlp-http otlp-grpc"`
}

// Observability converts the log settings for observability.Instrument.
func (c LogConfig) Observability() (observability.Config, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return observability.Config{}, fmt.Errorf("log level: %w", err)
	}
	return observability.Config{
		Level:  level,
		Format: c.Format,
		File:   c.File,
		Export: c.Export,
	}, nil
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Backend: BackendConfig{
			Region:       "us-east-1",
			DefaultModel: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		},
		Auth: AuthConfig{
			CredentialStorage: CredentialStorageEnv,
			KeyringUser:       "default",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Export: observability.ExportNone,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate normalizes and checks c.
func (c *Config) Validate() error {
	c.Auth.ProxyAPIKey = strings.TrimSpace(c.Auth.ProxyAPIKey)
	c.Auth.BedrockAPIKey = strings.TrimSpace(c.Auth.BedrockAPIKey)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// NewCredentialStore creates the store selected by CredentialStorage.
func (c AuthConfig) NewCredentialStore() (tokensource.Store, error) {
	switch c.CredentialStorage {
	case CredentialStorageEnv, "":
		return tokensource.NewEnvStore(c.BedrockAPIKey), nil
	case CredentialStorageFile:
		return tokensource.NewFileStore(c.CredentialFile), nil
	case CredentialStorageKeyring:
		return tokensource.NewKeyringStore(c.KeyringUser), nil
	default:
		return nil, fmt.Errorf("unknown credential storage %q", c.CredentialStorage)
	}
}
