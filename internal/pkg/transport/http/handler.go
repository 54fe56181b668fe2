package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
)

var ErrInvalidJSON = exception.ApplicationError{
	StatusCode: http.StatusBadRequest,
	Code:       "invalid_json",
	Message:    "request body must be valid JSON",
}

var ErrEmptyBody = exception.ApplicationError{
	StatusCode: http.StatusBadRequest,
	Code:       "invalid_json",
	Message:    "request body is required",
}

// MakeHandlerFunc wraps a go-kit server around the endpoint. Options passed by the
// caller run after the defaults and may replace the error encoder.
func MakeHandlerFunc(
	e endpoint.Endpoint,
	dec kithttp.DecodeRequestFunc,
	enc kithttp.EncodeResponseFunc,
	opts ...kithttp.ServerOption,
) http.HandlerFunc {
	options := append([]kithttp.ServerOption{
		kithttp.ServerErrorEncoder(ErrorResponse),
	}, opts...)

	return kithttp.NewServer(e, dec, enc, options...).ServeHTTP
}

// DecodeRequest decodes the JSON body into a new T and runs its Bind hook.
// *T must implement render.Binder; the endpoint receives *T.
func DecodeRequest[T any](_ context.Context, r *http.Request) (interface{}, error) {
	var req T

	binder, ok := any(&req).(render.Binder)
	if !ok {
		return nil, fmt.Errorf("decode request: %T does not implement render.Binder", &req)
	}

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyBody
		}

		return nil, ErrInvalidJSON.WithCause(err)
	}

	if err := binder.Bind(r); err != nil {
		return nil, err
	}

	return &req, nil
}
