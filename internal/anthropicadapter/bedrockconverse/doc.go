// Package bedrockconverse adapts Anthropic Messages requests to Bedrock
// Converse so that Xcode and Anthropic SDK clients can use Bedrock models.
//
// Messages and Converse share a content-block model, so translation is mostly
// one-to-one. Streaming is where the two differ: Converse never announces text
// blocks, while Messages clients require a content_block_start before the
// first delta of every block. The stream session synthesizes the missing
// starts and defers message_delta until the backend stream is exhausted, since
// Converse reports usage after the stop reason.
//
// # Adapters
//
// MessagesAdapter: Anthropic Messages → Bedrock Converse
package bedrockconverse
