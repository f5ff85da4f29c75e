package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/app"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/tokensource"
)

// authCommand returns the 'auth' subcommand for managing the Bedrock API key.
func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the stored Bedrock API key",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Store a Bedrock API key in the configured credential storage",
				Action: authLoginAction,
			},
			{
				Name:   "logout",
				Usage:  "Remove the stored Bedrock API key",
				Action: authLogoutAction,
			},
			{
				Name:   "status",
				Usage:  "Report whether a Bedrock API key is stored",
				Action: authStatusAction,
			},
		},
	}
}

// writableStore loads the config and returns its credential store, refusing
// the read-only env storage.
func writableStore(cmd *cli.Command) (tokensource.Store, error) {
	cfg, err := loadConfig(cmd, os.Environ)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Auth.CredentialStorage == app.CredentialStorageEnv {
		return nil, errors.New("env credential storage is read-only; set CREDENTIAL_STORAGE to file or keyring")
	}
	store, err := cfg.Auth.NewCredentialStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create credential store: %w", err)
	}
	return store, nil
}

func authLoginAction(ctx context.Context, cmd *cli.Command) error {
	store, err := writableStore(cmd)
	if err != nil {
		return err
	}

	key, err := readSecret(ctx, os.Stdin, "Bedrock API key: ")
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("api key cannot be empty")
	}

	if err := store.Write(ctx, key); err != nil {
		return fmt.Errorf("failed to store api key: %w", err)
	}

	fmt.Println("Bedrock API key saved to configured storage")
	return nil
}

func authLogoutAction(ctx context.Context, cmd *cli.Command) error {
	store, err := writableStore(cmd)
	if err != nil {
		return err
	}

	// An empty write clears the key on every store.
	if err := store.Write(ctx, ""); err != nil {
		return fmt.Errorf("failed to clear api key: %w", err)
	}

	fmt.Println("Bedrock API key removed; the AWS credential chain will be used")
	return nil
}

func authStatusAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store, err := cfg.Auth.NewCredentialStore()
	if err != nil {
		return fmt.Errorf("failed to create credential store: %w", err)
	}

	_, err = store.Read(ctx)
	switch {
	case err == nil:
		fmt.Printf("API key stored (%s storage)\n", cfg.Auth.CredentialStorage)
	case errors.Is(err, tokensource.ErrNoToken):
		fmt.Printf("No API key stored (%s storage); using the AWS credential chain\n", cfg.Auth.CredentialStorage)
	default:
		return fmt.Errorf("failed to read api key: %w", err)
	}
	return nil
}

// readSecret reads one line from in without echo when in is a terminal.
// term.ReadPassword has no context support, hence the goroutine.
func readSecret(ctx context.Context, in *os.File, prompt string) (string, error) {
	type result struct {
		value string
		err   error
	}
	resultCh := make(chan result, 1)

	fd := int(in.Fd())
	interactive := term.IsTerminal(fd)
	if interactive {
		fmt.Print(prompt)
		defer fmt.Println()
	}

	go func() {
		if interactive {
			b, err := term.ReadPassword(fd)
			resultCh <- result{value: string(b), err: err}
			return
		}
		value, err := readLine(in)
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("failed to read input: %w", res.err)
		}
		return res.value, nil
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
