package openaiadapter

import (
	"net/http"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
)

// OpenAI error types.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeAuthentication = "authentication_error"
	ErrorTypeRateLimit      = "rate_limit_error"
	ErrorTypeServer         = "server_error"
	ErrorTypeAPI            = "api_error"
)

// NewErrorResponse builds an error envelope with the given status.
func NewErrorResponse(status int, errType, message string) *ErrorResponse {
	return &ErrorResponse{
		Err:    Error{Message: message, Type: errType},
		Status: status,
	}
}

// ToErrorResponse converts a backend failure into OpenAI error format. Status
// and message come from converse.Classify, so wrapped causes never reach the
// client.
func ToErrorResponse(err error) *ErrorResponse {
	status, message := converse.Classify(err)

	var errType string
	var code *string
	switch converse.CategoryOf(err) {
	case converse.FailureRateLimited:
		errType = ErrorTypeRateLimit
	case converse.FailureInvalidRequest:
		errType = ErrorTypeInvalidRequest
	case converse.FailureAccessDenied:
		errType = ErrorTypeAuthentication
	case converse.FailureNotFound:
		errType = ErrorTypeInvalidRequest
		c := "model_not_found"
		code = &c
	case converse.FailureUnavailable:
		errType = ErrorTypeServer
	default:
		errType = ErrorTypeAPI
	}

	return &ErrorResponse{
		Err:    Error{Message: message, Type: errType, Code: code},
		Status: status,
	}
}

// StatusOf returns the HTTP status for errResp. When no explicit status is
// set it is derived from the error type according to OpenAI API conventions.
func StatusOf(errResp *ErrorResponse) int {
	if errResp.Status != 0 {
		return errResp.Status
	}
	switch errResp.Err.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case "permission_denied":
		return http.StatusForbidden
	case ErrorTypeRateLimit, "insufficient_quota":
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
