package anthropicadapter

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/anthropicadapter/types"
)

// Input limits enforced before a request reaches the backend.
const (
	MaxSystemChars    = 32_768
	MaxTextBlockChars = 65_536
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateMessages checks req against the input guardrails. Violations are
// returned as a 400 invalid_request_error.
func ValidateMessages(req *MessagesRequest) error {
	if err := validate.Struct(req); err != nil {
		return invalidRequest(err)
	}
	return checkLengths(req.System, req.Messages)
}

// ValidateCountTokens applies the same guardrails to a count_tokens request.
func ValidateCountTokens(req *CountTokensRequest) error {
	if err := validate.Struct(req); err != nil {
		return invalidRequest(err)
	}
	return checkLengths(req.System, req.Messages)
}

func checkLengths(system *types.SystemPrompt, messages []types.MessageParam) error {
	if system != nil && utf8.RuneCountInString(system.Text()) > MaxSystemChars {
		return NewErrorResponse(http.StatusBadRequest, ErrorTypeInvalidRequest,
			fmt.Sprintf("System prompt exceeds maximum allowed length of %d chars.", MaxSystemChars))
	}
	for _, msg := range messages {
		for _, block := range msg.Content.Blocks {
			tb, ok := block.(types.TextBlock)
			if !ok {
				continue
			}
			if utf8.RuneCountInString(tb.Text) > MaxTextBlockChars {
				return NewErrorResponse(http.StatusBadRequest, ErrorTypeInvalidRequest,
					fmt.Sprintf("Message content exceeds maximum allowed length of %d chars.", MaxTextBlockChars))
			}
		}
	}
	return nil
}

// invalidRequest describes the first validation failure in client terms.
func invalidRequest(err error) *ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewErrorResponse(http.StatusBadRequest, ErrorTypeInvalidRequest, err.Error())
	}

	fe := verrs[0]
	var msg string
	switch fe.StructNamespace() {
	case "MessagesRequest.Model", "CountTokensRequest.Model":
		msg = describe(fe, "Model name too long (max %s chars).", "model: field required")
	case "MessagesRequest.Messages", "CountTokensRequest.Messages":
		msg = describe(fe, "Too many messages (max %s).", "messages: at least one message is required")
	case "MessagesRequest.Tools", "CountTokensRequest.Tools":
		msg = describe(fe, "Too many tools (max %s).", "tools: invalid")
	case "MessagesRequest.MaxTokens":
		msg = "max_tokens: must be a positive integer"
	default:
		msg = fieldMessage(fe)
	}
	return NewErrorResponse(http.StatusBadRequest, ErrorTypeInvalidRequest, msg)
}

// describe formats tooLong for "max" violations and returns missing otherwise.
func describe(fe validator.FieldError, tooLong, missing string) string {
	if fe.Tag() == "max" {
		return fmt.Sprintf(tooLong, fe.Param())
	}
	return missing
}

func fieldMessage(fe validator.FieldError) string {
	switch {
	case fe.Field() == "Name" && fe.Tag() == "max":
		return fmt.Sprintf("Tool name too long (max %s chars).", fe.Param())
	case fe.Field() == "Name":
		return "tools: name is required"
	case fe.Field() == "Role":
		return "messages: role is required"
	default:
		return fmt.Sprintf("%s: failed %s validation", fe.Namespace(), fe.Tag())
	}
}
