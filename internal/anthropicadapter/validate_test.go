package anthropicadapter

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter/types"
	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
)

func validRequest() MessagesRequest {
	return MessagesRequest{
		Model:     "claude-sonnet-4-5",
		MaxTokens: 1024,
		Messages:  []types.MessageParam{{Role: types.RoleUser, Content: types.TextContent("hi")}},
	}
}

func TestValidateMessages(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MessagesRequest)
		wantMsg string
	}{
		{"valid", func(*MessagesRequest) {}, ""},
		{
			"model too long",
			func(r *MessagesRequest) { r.Model = strings.Repeat("m", 129) },
			"Model name too long (max 128 chars).",
		},
		{
			"too many messages",
			func(r *MessagesRequest) {
				for range 100 {
					r.Messages = append(r.Messages, types.MessageParam{Role: types.RoleUser, Content: types.TextContent("x")})
				}
			},
			"Too many messages (max 100).",
		},
		{
			"no messages",
			func(r *MessagesRequest) { r.Messages = nil },
			"messages: at least one message is required",
		},
		{
			"missing max_tokens",
			func(r *MessagesRequest) { r.MaxTokens = 0 },
			"max_tokens: must be a positive integer",
		},
		{
			"too many tools",
			func(r *MessagesRequest) { r.Tools = make([]types.Tool, 51) },
			"Too many tools (max 50).",
		},
		{
			"tool name too long",
			func(r *MessagesRequest) { r.Tools = []types.Tool{{Name: strings.Repeat("t", 65)}} },
			"Tool name too long (max 64 chars).",
		},
		{
			"system too long",
			func(r *MessagesRequest) {
				r.System = &types.SystemPrompt{Blocks: []string{strings.Repeat("s", 20_000), strings.Repeat("s", 20_000)}}
			},
			"System prompt exceeds maximum allowed length of 32768 chars.",
		},
		{
			"text block too long",
			func(r *MessagesRequest) {
				r.Messages[0].Content = types.TextContent(strings.Repeat("é", MaxTextBlockChars+1))
			},
			"Message content exceeds maximum allowed length of 65536 chars.",
		},
		{
			"multibyte text at limit",
			func(r *MessagesRequest) {
				r.Messages[0].Content = types.TextContent(strings.Repeat("é", MaxTextBlockChars))
			},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := ValidateMessages(&req)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("ValidateMessages() error = %v", err)
				}
				return
			}

			var errResp *ErrorResponse
			if !errors.As(err, &errResp) {
				t.Fatalf("error = %v, want *ErrorResponse", err)
			}
			if errResp.Status != http.StatusBadRequest || errResp.Err.Type != ErrorTypeInvalidRequest {
				t.Errorf("error = %+v", errResp)
			}
			if errResp.Err.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", errResp.Err.Message, tt.wantMsg)
			}
		})
	}
}

func TestToErrorResponse(t *testing.T) {
	tests := []struct {
		category   converse.FailureCategory
		wantStatus int
		wantType   string
	}{
		{converse.FailureRateLimited, http.StatusTooManyRequests, ErrorTypeRateLimit},
		{converse.FailureInvalidRequest, http.StatusBadRequest, ErrorTypeInvalidRequest},
		{converse.FailureAccessDenied, http.StatusUnauthorized, ErrorTypeAuthentication},
		{converse.FailureNotFound, http.StatusNotFound, ErrorTypeNotFound},
		{converse.FailureUnavailable, http.StatusServiceUnavailable, ErrorTypeOverloaded},
		{converse.FailureUnknown, http.StatusInternalServerError, ErrorTypeAPI},
	}
	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			resp := ToErrorResponse(&converse.Failure{Category: tt.category, Err: errors.New("secret internals")})
			if resp.Status != tt.wantStatus || resp.Err.Type != tt.wantType || resp.Type != "error" {
				t.Errorf("ToErrorResponse() = %+v", resp)
			}
			if strings.Contains(resp.Err.Message, "secret") {
				t.Errorf("message leaks wrapped cause: %q", resp.Err.Message)
			}
			if StatusOf(&ErrorResponse{Err: resp.Err}) != tt.wantStatus {
				t.Errorf("StatusOf(%q) = %d, want %d", tt.wantType, StatusOf(&ErrorResponse{Err: resp.Err}), tt.wantStatus)
			}
		})
	}
}
