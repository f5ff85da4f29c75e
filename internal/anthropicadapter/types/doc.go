// Package types provides Anthropic Messages API wire types for the server side
// of /v1/messages and /v1/messages/count_tokens.
//
// The anthropic-sdk-go param types are built for encoding outbound requests and
// its response types carry decoding metadata, so neither round-trips cleanly
// when the roles are reversed. Only stop reasons are shared with the SDK.
//
// Content blocks decode into a closed set of variants. Block types the bridge
// cannot forward (images, documents, thinking) decode as OtherBlock and are
// dropped by the translators.
package types
