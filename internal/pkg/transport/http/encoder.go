package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
)

const (
	internalErrorCode    = "internal_error"
	internalErrorMessage = "internal server error"
)

// ResponseWithBody is the common method to encode all response types to the client.
func ResponseWithBody(_ context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("encode response body: %w", err)
	}

	return nil
}

// ErrorResponse is the production error encoder.
func ErrorResponse(ctx context.Context, err error, respWriter http.ResponseWriter) {
	writeError(ctx, err, respWriter, false, nil)
}

// NewErrorEncoder returns an encoder that exposes unexpected error messages when development is set.
func NewErrorEncoder(development bool) kithttp.ErrorEncoder {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		writeError(ctx, err, w, development, nil)
	}
}

// NewListErrorEncoder behaves like NewErrorEncoder and adds an empty "data" list to the body.
func NewListErrorEncoder(development bool) kithttp.ErrorEncoder {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		writeError(ctx, err, w, development, []any{})
	}
}

// writeError checks if err is a sentinel application error or an unknown one.
// Unknown errors are logged and never leak their message outside development.
func writeError(ctx context.Context, err error, respWriter http.ResponseWriter, development bool, data any) {
	var (
		appErr exception.ApplicationError
		body   = dto.ErrorResponse{Success: false, Data: data}
		status int
	)

	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		body.Error = appErr.Message
		body.Code = appErr.Code
		body.Details = appErr.Violations

		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, appErr.Message, slog.Any("error", err))
		}
	} else {
		status = http.StatusInternalServerError
		body.Code = internalErrorCode
		body.Error = internalErrorMessage

		if development {
			body.Error = err.Error()
		}

		slog.ErrorContext(ctx, err.Error(), slog.Any("error", err))
	}

	if status == 0 {
		status = http.StatusInternalServerError
	}

	respWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
	respWriter.WriteHeader(status)

	//nolint:errcheck,errchkjson
	json.NewEncoder(respWriter).Encode(body)
}
