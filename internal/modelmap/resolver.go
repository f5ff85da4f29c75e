// Package modelmap resolves client model names to Bedrock model ids.
//
// Resolution order, first match wins:
//
//  1. Cross-region inference profile ids (us., eu., ap.) pass through.
//  2. Native provider ids (anthropic., amazon., ...) pass through.
//  3. Short aliases (claude-sonnet-4-5, gpt-4o, nova-pro, ...).
//  4. Display names ("Claude Sonnet 4.5").
//  5. The configured default.
//
// Prefixes only match at the start of the name, so "evil.anthropic.fake" is
// not treated as native. Resolve never fails: unknown names get the default.
package modelmap

import (
	"maps"
	"strings"
)

// Resolver maps model names to Bedrock model ids. It is safe for concurrent use.
type Resolver struct {
	defaultModel string
	aliases      map[string]string
	displayNames map[string]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAliases adds aliases on top of the built-in table. Entries with an empty
// key or target are ignored; configured entries win over built-in ones.
func WithAliases(extra map[string]string) Option {
	return func(r *Resolver) {
		for k, v := range extra {
			k, v = strings.TrimSpace(k), strings.TrimSpace(v)
			if k == "" || v == "" {
				continue
			}
			r.aliases[k] = v
		}
	}
}

// NewResolver creates a Resolver that falls back to defaultModel.
func NewResolver(defaultModel string, opts ...Option) *Resolver {
	r := &Resolver{
		defaultModel: defaultModel,
		aliases:      maps.Clone(aliases),
		displayNames: displayNames,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the Bedrock model id for name.
func (r *Resolver) Resolve(name string) string {
	if IsNative(name) {
		return name
	}
	if id, ok := r.aliases[name]; ok {
		return id
	}
	if id, ok := r.displayNames[name]; ok {
		return id
	}
	return r.defaultModel
}

// Default returns the fallback model id.
func (r *Resolver) Default() string {
	return r.defaultModel
}

// IsNative reports whether name is already a Bedrock model or inference profile id.
func IsNative(name string) bool {
	for _, p := range regionPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	for _, p := range providerPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Listed returns the model ids advertised to clients.
func Listed() []string {
	return append([]string(nil), listed...)
}

// OwnedBy returns the provider segment of a model id with any region prefix
// stripped: "us.anthropic.claude-..." is owned by "anthropic".
func OwnedBy(id string) string {
	for _, p := range regionPrefixes {
		if rest, ok := strings.CutPrefix(id, p); ok {
			id = rest
			break
		}
	}
	provider, _, found := strings.Cut(id, ".")
	if !found || provider == "" {
		return "unknown"
	}
	return provider
}

// Listed returns the advertised model ids.
func (r *Resolver) Listed() []string { return Listed() }

// OwnedBy returns the provider of id.
func (r *Resolver) OwnedBy(id string) string { return OwnedBy(id) }
