package tokensource

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// DefaultTTL is how long a key read from the store is reused.
const DefaultTTL = 5 * time.Minute

// readTimeout bounds a single store read. oauth2.TokenSource has no context.
const readTimeout = 10 * time.Second

// TokenSource serves the stored API key as an oauth2 bearer token.
type TokenSource struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// Compile-time check that TokenSource implements oauth2.TokenSource.
var _ oauth2.TokenSource = (*TokenSource)(nil)

// Option configures a TokenSource.
type Option func(*TokenSource)

// WithTTL sets how long each token is considered valid. Wrap the source in
// oauth2.ReuseTokenSource to cache it for that long.
func WithTTL(ttl time.Duration) Option {
	return func(ts *TokenSource) {
		ts.ttl = ttl
	}
}

// NewTokenSource creates a TokenSource reading from store.
func NewTokenSource(store Store, opts ...Option) *TokenSource {
	ts := &TokenSource{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// Token implements oauth2.TokenSource.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	key, err := ts.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read api key: %w", err)
	}

	return &oauth2.Token{
		AccessToken: key,
		TokenType:   "Bearer",
		Expiry:      ts.now().Add(ts.ttl),
	}, nil
}
