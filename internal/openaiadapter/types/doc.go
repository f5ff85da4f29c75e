// Package types provides OpenAI Chat Completions wire types for server-side
// request/response handling.
//
// The types are hand-written rather than taken from the openai-go SDK:
//
//  1. SERVER-SIDE vs CLIENT-SIDE: openai-go is built for outbound calls. Here
//     requests are decoded from clients, and only the subset of fields that can
//     be translated to Bedrock Converse is modeled.
//
//  2. UNIONS: Fields that OpenAI defines as unions (message content as string
//     or parts, tool_choice as string or object, stop as string or list) decode
//     into plain Go structs via custom UnmarshalJSON so translators can work on
//     them without type switches over any.
//
//  3. STANDARD JSON: Everything works with encoding/json directly. Optional
//     numbers are pointers; finish_reason in stream chunks serializes as null
//     until the final chunk, as clients expect.
package types
