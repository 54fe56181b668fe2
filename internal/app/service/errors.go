package service

import (
	"net/http"

	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
)

var ErrUserIDRequired = exception.ApplicationError{
	Message:    "user_id is required",
	StatusCode: http.StatusBadRequest,
	Code:       "user_id_required",
}

var ErrEmptyDocument = exception.ApplicationError{
	Message:    "uploaded file is empty",
	StatusCode: http.StatusBadRequest,
	Code:       "empty_document",
}

var ErrDocumentTooLarge = exception.ApplicationError{
	Message:    "uploaded file is too large",
	StatusCode: http.StatusRequestEntityTooLarge,
	Code:       "document_too_large",
}

var ErrUnsupportedDocument = exception.ApplicationError{
	Message:    "unsupported document type",
	StatusCode: http.StatusUnsupportedMediaType,
	Code:       "unsupported_document",
}

var ErrInvalidSignature = exception.ApplicationError{
	Message:    "invalid webhook signature",
	StatusCode: http.StatusBadRequest,
	Code:       "invalid_signature",
}

var ErrBillingNotConfigured = exception.ApplicationError{
	Message:    "billing webhooks are not configured",
	StatusCode: http.StatusServiceUnavailable,
	Code:       "billing_not_configured",
}

var ErrExpensesNotConfigured = exception.ApplicationError{
	Message:    "expense storage is not configured",
	StatusCode: http.StatusServiceUnavailable,
	Code:       "expenses_not_configured",
}
