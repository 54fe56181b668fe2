package duffel

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider/providerutils"
)

type apiError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type errorResponse struct {
	Errors []apiError `json:"errors"`
}

// codeTable maps vendor error codes to the service taxonomy. Codes not listed
// fall back to the type table and then to the HTTP status.
var codeTable = map[string]exception.ApplicationError{
	"offer_no_longer_available": providerutils.ErrOfferExpired,
	"offer_expired":             providerutils.ErrOfferExpired,
	"price_changed":             providerutils.ErrPriceChanged,
	"not_found":                 providerutils.ErrNotFound,
	"rate_limit_exceeded":       providerutils.ErrProviderRateLimitExceeded,
}

var typeTable = map[string]exception.ApplicationError{
	"validation_error":     providerutils.ErrProviderValidation,
	"rate_limit_error":     providerutils.ErrProviderRateLimitExceeded,
	"airline_error":        providerutils.ErrProviderInternalError,
	"api_error":            providerutils.ErrProviderInternalError,
	"authentication_error": providerutils.ErrProviderInternalError,
}

func mapError(status int, body []byte) exception.ApplicationError {
	var parsed errorResponse
	_ = json.Unmarshal(body, &parsed)

	mapped := providerutils.MapStatus(status)
	detail := strings.TrimSpace(string(body))

	if len(parsed.Errors) > 0 {
		first := parsed.Errors[0]

		if appErr, ok := codeTable[first.Code]; ok {
			mapped = appErr
		} else if appErr, ok := typeTable[first.Type]; ok {
			mapped = appErr
		}

		detail = first.Message
		if detail == "" {
			detail = first.Title
		}
	}

	if detail == "" {
		return mapped
	}

	// vendor validation messages are passed through to the client
	if mapped.Code == providerutils.ErrProviderValidation.Code {
		mapped = mapped.WithMessage(detail)
	}

	return mapped.WithCause(errors.New(detail))
}
