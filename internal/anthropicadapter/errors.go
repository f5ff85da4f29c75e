package anthropicadapter

import (
	"net/http"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
)

// Anthropic error types.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeAuthentication = "authentication_error"
	ErrorTypePermission     = "permission_error"
	ErrorTypeNotFound       = "not_found_error"
	ErrorTypeRequestTooBig  = "request_too_large"
	ErrorTypeRateLimit      = "rate_limit_error"
	ErrorTypeAPI            = "api_error"
	ErrorTypeOverloaded     = "overloaded_error"
)

// NewErrorResponse builds an error envelope with the given status.
func NewErrorResponse(status int, errType, message string) *ErrorResponse {
	return &ErrorResponse{
		Type:   "error",
		Err:    Error{Type: errType, Message: message},
		Status: status,
	}
}

// ToErrorResponse converts a backend failure into Anthropic error format.
// Status and message come from converse.Classify.
func ToErrorResponse(err error) *ErrorResponse {
	status, message := converse.Classify(err)

	var errType string
	switch converse.CategoryOf(err) {
	case converse.FailureRateLimited:
		errType = ErrorTypeRateLimit
	case converse.FailureInvalidRequest:
		errType = ErrorTypeInvalidRequest
	case converse.FailureAccessDenied:
		errType = ErrorTypeAuthentication
	case converse.FailureNotFound:
		errType = ErrorTypeNotFound
	case converse.FailureUnavailable:
		errType = ErrorTypeOverloaded
	default:
		errType = ErrorTypeAPI
	}

	return NewErrorResponse(status, errType, message)
}

// StatusOf returns the HTTP status for errResp, derived from the error type
// when no explicit status is set.
func StatusOf(errResp *ErrorResponse) int {
	if errResp.Status != 0 {
		return errResp.Status
	}
	switch errResp.Err.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypePermission:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeRequestTooBig:
		return http.StatusRequestEntityTooLarge
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeOverloaded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
