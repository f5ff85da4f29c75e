package bedrock

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/converse"
)

// toFailure classifies an SDK error by its modeled exception type. The
// client-safe message is the service's own error message; transport details
// stay in the wrapped cause. Context cancellation is returned unchanged.
func toFailure(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var (
		throttling    *types.ThrottlingException
		quota         *types.ServiceQuotaExceededException
		validation    *types.ValidationException
		accessDenied  *types.AccessDeniedException
		notFound      *types.ResourceNotFoundException
		unavailable   *types.ServiceUnavailableException
		modelNotReady *types.ModelNotReadyException
		modelTimeout  *types.ModelTimeoutException
		category      converse.FailureCategory
	)

	switch {
	case errors.As(err, &throttling), errors.As(err, &quota):
		category = converse.FailureRateLimited
	case errors.As(err, &validation):
		category = converse.FailureInvalidRequest
	case errors.As(err, &accessDenied):
		category = converse.FailureAccessDenied
	case errors.As(err, &notFound):
		category = converse.FailureNotFound
	case errors.As(err, &unavailable), errors.As(err, &modelNotReady), errors.As(err, &modelTimeout):
		category = converse.FailureUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		category = converse.FailureUnavailable
	default:
		category = converse.FailureUnknown
	}

	var message string
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		message = apiErr.ErrorMessage()
	}

	return &converse.Failure{Category: category, Message: message, Err: err}
}
