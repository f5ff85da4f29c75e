package tokensource

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

func TestEnvStore(t *testing.T) {
	ctx := t.Context()

	s := NewEnvStore("  abc123  ")
	got, err := s.Read(ctx)
	if err != nil || got != "abc123" {
		t.Errorf("Read() = %q, %v; want abc123", got, err)
	}
	if err := s.Write(ctx, "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Write() error = %v, want ErrReadOnly", err)
	}

	if _, err := NewEnvStore("").Read(ctx); !errors.Is(err, ErrNoToken) {
		t.Errorf("empty Read() error = %v, want ErrNoToken", err)
	}
}

func TestFileStore(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "nested", "api-key")
	s := NewFileStore(path)

	if _, err := s.Read(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("Read() on missing file error = %v, want ErrNoToken", err)
	}

	if err := s.Write(ctx, "bedrock-key"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	got, err := s.Read(ctx)
	if err != nil || got != "bedrock-key" {
		t.Errorf("Read() = %q, %v", got, err)
	}

	if err := s.Write(ctx, ""); err != nil {
		t.Fatalf("Write(\"\") error = %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("token file still exists after clearing: %v", err)
	}
	if err := s.Write(ctx, ""); err != nil {
		t.Errorf("clearing twice error = %v", err)
	}
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	ctx := t.Context()
	s := NewKeyringStore("default")

	if _, err := s.Read(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("Read() error = %v, want ErrNoToken", err)
	}
	if err := s.Write(ctx, "from-keychain"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := s.Read(ctx)
	if err != nil || got != "from-keychain" {
		t.Errorf("Read() = %q, %v", got, err)
	}
	if err := s.Write(ctx, ""); err != nil {
		t.Fatalf("Write(\"\") error = %v", err)
	}
	if _, err := s.Read(ctx); !errors.Is(err, ErrNoToken) {
		t.Errorf("Read() after clear error = %v, want ErrNoToken", err)
	}
	if err := s.Write(ctx, ""); err != nil {
		t.Errorf("clearing missing entry error = %v", err)
	}
}

func TestTokenSource(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ts := NewTokenSource(NewEnvStore("k"), WithTTL(time.Minute))
	ts.now = func() time.Time { return now }

	tok, err := ts.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok.AccessToken != "k" || tok.Type() != "Bearer" {
		t.Errorf("token = %+v", tok)
	}
	if !tok.Expiry.Equal(now.Add(time.Minute)) {
		t.Errorf("Expiry = %v", tok.Expiry)
	}

	if _, err := NewTokenSource(NewEnvStore("")).Token(); !errors.Is(err, ErrNoToken) {
		t.Errorf("Token() error = %v, want ErrNoToken", err)
	}
}

func TestTokenSourceSetsBearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := &http.Client{Transport: &oauth2.Transport{
		Source: oauth2.ReuseTokenSource(nil, NewTokenSource(NewEnvStore("secret-key"))),
	}}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	_ = resp.Body.Close()

	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}
