package bedrockconverse

import (
	"unicode/utf8"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter/types"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/jsonvalue"
)

// CountTokens estimates the prompt size of req. Bedrock offers no token
// counting for Converse, so the estimate is character based.
func CountTokens(req anthropicadapter.CountTokensRequest) anthropicadapter.CountTokensResponse {
	chars := 0
	if req.System != nil {
		chars += utf8.RuneCountInString(req.System.Text())
	}
	for _, msg := range req.Messages {
		for _, block := range msg.Content.Blocks {
			switch b := block.(type) {
			case types.TextBlock:
				chars += utf8.RuneCountInString(b.Text)
			case types.ToolUseBlock:
				chars += encodedLen(b.Input)
			}
		}
	}
	for _, tool := range req.Tools {
		chars += utf8.RuneCountInString(tool.Name) + utf8.RuneCountInString(tool.Description) + encodedLen(tool.InputSchema)
	}
	return anthropicadapter.CountTokensResponse{InputTokens: converse.EstimateTokens(chars)}
}

func encodedLen(v jsonvalue.Value) int {
	if v.IsNull() {
		return 0
	}
	b, err := jsonvalue.Encode(v)
	if err != nil {
		return 0
	}
	return utf8.RuneCount(b)
}

// CountTokens implements the count_tokens endpoint for the adapter's clients.
func (a *MessagesAdapter) CountTokens(req anthropicadapter.CountTokensRequest) anthropicadapter.CountTokensResponse {
	return CountTokens(req)
}
