package converse

import (
	"context"
	"errors"
	"net/http"
)

// FailureCategory is the closed set of backend failure classes.
type FailureCategory int

const (
	FailureUnknown FailureCategory = iota
	FailureRateLimited
	FailureInvalidRequest
	FailureAccessDenied
	FailureNotFound
	FailureUnavailable
)

func (c FailureCategory) String() string {
	switch c {
	case FailureRateLimited:
		return "rate_limited"
	case FailureInvalidRequest:
		return "invalid_request"
	case FailureAccessDenied:
		return "access_denied"
	case FailureNotFound:
		return "not_found"
	case FailureUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// HTTPStatus returns the transport status for the category.
func (c FailureCategory) HTTPStatus() int {
	switch c {
	case FailureRateLimited:
		return http.StatusTooManyRequests
	case FailureInvalidRequest:
		return http.StatusBadRequest
	case FailureAccessDenied:
		return http.StatusUnauthorized
	case FailureNotFound:
		return http.StatusNotFound
	case FailureUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (c FailureCategory) defaultMessage() string {
	switch c {
	case FailureRateLimited:
		return "Request was throttled by the backend"
	case FailureInvalidRequest:
		return "Request was rejected by the backend"
	case FailureAccessDenied:
		return "Access to the backend was denied"
	case FailureNotFound:
		return "Requested model or resource was not found"
	case FailureUnavailable:
		return "Backend is temporarily unavailable"
	default:
		return "Internal error while calling the backend"
	}
}

// Failure is a classified backend error.
//
// Message is the backend's own public error text and is safe to show clients.
// Err keeps the underlying cause for logging only.
type Failure struct {
	Category FailureCategory
	Message  string
	Err      error
}

func (f *Failure) Error() string {
	msg := f.Message
	if msg == "" {
		msg = f.Category.defaultMessage()
	}
	if f.Err != nil {
		return f.Category.String() + ": " + msg + ": " + f.Err.Error()
	}
	return f.Category.String() + ": " + msg
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Classify maps err to an HTTP status and a message that is safe to return to
// clients. Wrapped causes never contribute to the message.
func Classify(err error) (status int, message string) {
	var f *Failure
	if errors.As(err, &f) {
		message = f.Message
		if message == "" {
			message = f.Category.defaultMessage()
		}
		return f.Category.HTTPStatus(), message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable, FailureUnavailable.defaultMessage()
	}
	return http.StatusInternalServerError, FailureUnknown.defaultMessage()
}

// CategoryOf returns the failure category of err, or FailureUnknown.
func CategoryOf(err error) FailureCategory {
	var f *Failure
	if errors.As(err, &f) {
		return f.Category
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureUnavailable
	}
	return FailureUnknown
}
