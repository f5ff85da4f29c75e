package tokensource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

var (
	// ErrNoToken is returned by Store.Read when no key is stored.
	ErrNoToken = errors.New("no api key stored")
	// ErrReadOnly is returned by Store.Write on stores that cannot be written.
	ErrReadOnly = errors.New("token store is read-only")
)

// Store persists a single API key.
type Store interface {
	Read(ctx context.Context) (string, error)
	// Write stores token. An empty token removes the stored key.
	Write(ctx context.Context, token string) error
}

// EnvStore serves a key taken from the environment at startup.
type EnvStore struct {
	value string
}

// NewEnvStore creates a read-only store for value.
func NewEnvStore(value string) *EnvStore {
	return &EnvStore{value: strings.TrimSpace(value)}
}

func (s *EnvStore) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.value == "" {
		return "", ErrNoToken
	}
	return s.value, nil
}

func (s *EnvStore) Write(context.Context, string) error {
	return ErrReadOnly
}

// FileStore keeps the key in a file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path. The file and its parent
// directory are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func (s *FileStore) Write(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if token == "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove token file: %w", err)
		}
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	// Write-then-rename so readers never see a partial key.
	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod token file: %w", err)
	}
	if _, err := tmp.WriteString(token + "\n"); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

// KeyringService is the service name under which keys are stored in the
// system keychain.
const KeyringService = "xcode-bedrock-bridge"

// KeyringStore keeps the key in the system keychain.
type KeyringStore struct {
	service string
	user    string
}

// NewKeyringStore creates a keychain store for the given account name.
func NewKeyringStore(user string) *KeyringStore {
	return &KeyringStore{service: KeyringService, user: user}
}

func (s *KeyringStore) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token, err := keyring.Get(s.service, s.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read keyring: %w", err)
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func (s *KeyringStore) Write(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if token == "" {
		if err := keyring.Delete(s.service, s.user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("delete keyring entry: %w", err)
		}
		return nil
	}

	if err := keyring.Set(s.service, s.user, token); err != nil {
		return fmt.Errorf("write keyring: %w", err)
	}
	return nil
}
