// Package bedrockconverse adapts OpenAI Chat Completions requests to Bedrock
// Converse, enabling OpenAI SDK clients to work with Bedrock models without
// code changes.
//
// The adapter handles:
//
//   - Message transformation: System/developer messages are hoisted into a single
//     system prompt. Consecutive messages with the same role are merged (text
//     joined with a newline) because Converse requires strict user/assistant
//     alternation. Tool messages become tool results in a user turn.
//
//   - Tool calling: Assistant tool_calls become tool-use blocks whose arguments
//     are decoded into canonical JSON values; calls with malformed arguments
//     are dropped. Tool call IDs are preserved in both directions.
//
//   - Streaming: Translates Converse stream events into chunks. Converse numbers
//     all content blocks (text=0, tool=1, ...) while OpenAI numbers tool calls
//     only (tool=0, tool=1), so the session keeps an index translation table.
//     Usage is reported in the final chunk together with finish_reason.
//
// # Adapters
//
// CreateChatCompletionAdapter: OpenAI CreateChatCompletion → Bedrock Converse
package bedrockconverse
