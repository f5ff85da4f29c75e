// Package tokensource supplies the Bedrock API key used for bearer
// authentication and persists it between runs.
//
// # Stores
//
// A Store reads and writes the key. Three implementations exist:
//   - EnvStore: the value given at startup (BEDROCK_API_KEY); read-only
//   - FileStore: a single file with 0600 permissions
//   - KeyringStore: the operating system keychain via go-keyring
//
// Writing an empty key clears the stored credential.
//
// # Token Sources
//
// TokenSource adapts a Store to oauth2.TokenSource so the key can be attached
// with oauth2.Transport:
//
//	ts := tokensource.NewTokenSource(store)
//	client := &http.Client{Transport: &oauth2.Transport{
//	  Source: oauth2.ReuseTokenSource(nil, ts),
//	}}
//
// Tokens expire after a short TTL (see WithTTL) so that a key replaced with
// `auth login` is picked up by a running proxy.
package tokensource
