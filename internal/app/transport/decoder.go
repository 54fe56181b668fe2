package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
)

const (
	maxWebhookBytes = 1 << 16
	uploadFormField = "file"
)

var ErrMissingFile = exception.ApplicationError{
	StatusCode: http.StatusBadRequest,
	Code:       "missing_file",
	Message:    "multipart field \"file\" is required",
}

var ErrUploadTooLarge = exception.ApplicationError{
	StatusCode: http.StatusRequestEntityTooLarge,
	Code:       "document_too_large",
	Message:    "uploaded file is too large",
}

var ErrUnreadableBody = exception.ApplicationError{
	StatusCode: http.StatusBadRequest,
	Code:       "invalid_body",
	Message:    "request body could not be read",
}

func decodeOfferRequest(_ context.Context, r *http.Request) (interface{}, error) {
	req := &dto.OfferRequest{OfferID: chi.URLParam(r, "offerId")}

	if err := req.Bind(r); err != nil {
		return nil, err
	}

	return req, nil
}

func decodePlaceQuery(_ context.Context, r *http.Request) (interface{}, error) {
	query := dto.ParsePlaceQuery(r)

	return &query, nil
}

// decodeWebhook keeps the raw body untouched, the signature is computed over it.
func decodeWebhook(_ context.Context, r *http.Request) (interface{}, error) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		return nil, ErrUnreadableBody.WithCause(err)
	}

	return &dto.WebhookEvent{
		Payload:   payload,
		Signature: r.Header.Get("Stripe-Signature"),
	}, nil
}

func makeDecodeUpload(maxBytes int64) func(context.Context, *http.Request) (interface{}, error) {
	return func(_ context.Context, r *http.Request) (interface{}, error) {
		if maxBytes > 0 {
			// room for the multipart envelope around the file
			r.Body = http.MaxBytesReader(nil, r.Body, maxBytes+(1<<20))
		}

		file, header, err := r.FormFile(uploadFormField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, ErrUploadTooLarge
			}

			return nil, ErrMissingFile.WithCause(err)
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			return nil, ErrUnreadableBody.WithCause(fmt.Errorf("read upload: %w", err))
		}

		return &dto.DocumentUpload{FileName: header.Filename, Content: content}, nil
	}
}
