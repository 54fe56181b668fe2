//go:build unit

package providerutils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
	"github.com/stretchr/testify/assert"
)

func TestMapStatus(t *testing.T) {
	mapStatus := func(status int, want exception.ApplicationError) func(t *testing.T) {
		return func(t *testing.T) {
			got := MapStatus(status)
			assert.Equal(t, want.Code, got.Code)
			assert.Equal(t, want.StatusCode, got.StatusCode)
		}
	}

	t.Run("not_found", mapStatus(http.StatusNotFound, ErrNotFound))
	t.Run("gone", mapStatus(http.StatusGone, ErrOfferExpired))
	t.Run("conflict", mapStatus(http.StatusConflict, ErrPriceChanged))
	t.Run("rate_limited", mapStatus(http.StatusTooManyRequests, ErrProviderRateLimitExceeded))
	t.Run("unprocessable", mapStatus(http.StatusUnprocessableEntity, ErrProviderValidation))
	t.Run("gateway_timeout", mapStatus(http.StatusGatewayTimeout, ErrProviderUnavailable))
	t.Run("unauthorized", mapStatus(http.StatusUnauthorized, ErrProviderInternalError))
	t.Run("server_error", mapStatus(http.StatusInternalServerError, ErrProviderInternalError))
}

func TestMapTransportError(t *testing.T) {
	err := MapTransportError(fmt.Errorf("post offer request: %w", context.DeadlineExceeded))
	assert.True(t, exception.HasCode(err, ErrProviderUnavailable.Code))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, ErrPriceChanged, MapTransportError(ErrPriceChanged))
	assert.True(t, exception.HasCode(MapTransportError(errors.New("dial tcp: refused")), ErrProviderUnavailable.Code))
	assert.ErrorIs(t, MapTransportError(context.Canceled), context.Canceled)
}
