package providerutils

import (
	"context"
	"errors"
	"net/http"

	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
)

var ErrOfferExpired = exception.ApplicationError{
	StatusCode: http.StatusGone,
	Code:       "offer_expired",
	Message:    "offer has expired, please search again",
}

var ErrPriceChanged = exception.ApplicationError{
	StatusCode: http.StatusConflict,
	Code:       "price_changed",
	Message:    "offer price has changed",
}

var ErrNotFound = exception.ApplicationError{
	StatusCode: http.StatusNotFound,
	Code:       "not_found",
	Message:    "resource not found at provider",
}

var ErrProviderRateLimitExceeded = exception.ApplicationError{
	StatusCode: http.StatusTooManyRequests,
	Code:       "provider_rate_limited",
	Message:    "provider rate limit exceeded",
}

var ErrProviderValidation = exception.ApplicationError{
	StatusCode: http.StatusBadRequest,
	Code:       "provider_validation_error",
	Message:    "provider rejected the request",
}

var ErrProviderInternalError = exception.ApplicationError{
	StatusCode: http.StatusBadGateway,
	Code:       "provider_error",
	Message:    "provider returned an error",
}

var ErrProviderUnavailable = exception.ApplicationError{
	StatusCode: http.StatusServiceUnavailable,
	Code:       "provider_unavailable",
	Message:    "provider is unreachable or timed out",
}

// MapStatus classifies a provider HTTP status when no finer vendor code is known.
func MapStatus(status int) exception.ApplicationError {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusGone:
		return ErrOfferExpired
	case status == http.StatusConflict:
		return ErrPriceChanged
	case status == http.StatusTooManyRequests:
		return ErrProviderRateLimitExceeded
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrProviderValidation
	case status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		return ErrProviderUnavailable
	default:
		return ErrProviderInternalError
	}
}

// MapTransportError classifies a failure that happened before any response was read.
func MapTransportError(err error) error {
	var appErr exception.ApplicationError
	if errors.As(err, &appErr) {
		return err
	}

	// the caller went away, nothing to classify
	if errors.Is(err, context.Canceled) {
		return err
	}

	return ErrProviderUnavailable.WithCause(err)
}
