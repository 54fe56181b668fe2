//go:build unit

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flight"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider/providerutils"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var searchNow = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func offerExpiringIn(id string, amount float64, d time.Duration) dto.Offer {
	return dto.Offer{
		ID:        id,
		Price:     dto.Price{Amount: amount, Currency: "EUR"},
		ExpiresAt: searchNow.Add(d),
	}
}

func offerIDs(offers []dto.Offer) []string {
	ids := make([]string, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID)
	}

	return ids
}

func TestOfferService_SearchOffers(t *testing.T) {
	type mockField struct {
		cache    *MockOfferCacher
		provider *MockOfferProvider
	}

	params := dto.SearchParams{
		Origin:        "MAD",
		Destination:   "JFK",
		DepartureDate: "2025-06-01",
		Passengers:    dto.Passengers{Adults: 1},
		CabinClass:    dto.CabinEconomy,
	}

	fresh := []dto.Offer{
		offerExpiringIn("off_1", 300, 2*time.Hour),
		offerExpiringIn("off_2", 200, 3*time.Hour),
	}

	searchOffersRequest := func(
		params dto.SearchParams,
		maxOffers int,
		setupMock func(m mockField),
		wantIDs []string,
		wantMetadata dto.SearchMetadata,
		wantErr error,
	) func(t *testing.T) {
		return func(t *testing.T) {
			m := mockField{
				cache:    NewMockOfferCacher(t),
				provider: NewMockOfferProvider(t),
			}
			setupMock(m)

			s := NewOfferService(m.provider, m.cache, passthroughEnricher{}, 10*time.Minute, 5*time.Second, maxOffers)
			s.now = func() time.Time { return searchNow }

			got, err := s.SearchOffers(context.Background(), params)

			if wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, wantErr)

				return
			}

			require.NoError(t, err)

			if wantIDs != nil {
				assert.ElementsMatch(t, wantIDs, offerIDs(got.Offers))
			}

			if diff := cmp.Diff(wantMetadata, got.Metadata); diff != "" {
				t.Fatalf("SearchOffers() metadata mismatch (-want +got):\n%s", diff)
			}
		}
	}

	t.Run("cache_hit", searchOffersRequest(
		params, 20,
		func(m mockField) {
			m.cache.On("GetCacheKey", params).Return("cache-key")
			m.cache.On("GetLockKey", params).Return("lock-key")
			m.cache.On("GetOffers", mock.Anything, "cache-key").Return(flight.CachedSearch{
				OfferRequestID: "orq_1",
				Offers:         fresh,
			}, nil)
		},
		[]string{"off_1", "off_2"},
		dto.SearchMetadata{TotalResults: 2, OfferRequestID: "orq_1", CacheHit: true},
		nil,
	))

	t.Run("cache_miss_stores_search", searchOffersRequest(
		params, 20,
		func(m mockField) {
			m.cache.On("GetCacheKey", params).Return("cache-key")
			m.cache.On("GetLockKey", params).Return("lock-key")
			m.cache.On("GetOffers", mock.Anything, "cache-key").Return(flight.CachedSearch{}, redis.Nil)
			m.provider.On("SearchOffers", mock.Anything, params).Return(flightprovider.OfferSearchResult{
				OfferRequestID: "orq_2",
				Offers:         fresh,
			}, nil)
			m.cache.On("AcquireLock", mock.Anything, "lock-key", 5*time.Second).Return(true, nil)
			m.cache.On("SetOffers", mock.Anything, "cache-key", flight.CachedSearch{
				OfferRequestID: "orq_2",
				Offers:         fresh,
				CachedAt:       searchNow,
			}, 10*time.Minute).Return(nil)
			m.cache.On("ReleaseLock", mock.Anything, "lock-key").Return(nil)
		},
		[]string{"off_1", "off_2"},
		dto.SearchMetadata{TotalResults: 2, OfferRequestID: "orq_2"},
		nil,
	))

	t.Run("lock_held_elsewhere_skips_write", searchOffersRequest(
		params, 20,
		func(m mockField) {
			m.cache.On("GetCacheKey", params).Return("cache-key")
			m.cache.On("GetLockKey", params).Return("lock-key")
			m.cache.On("GetOffers", mock.Anything, "cache-key").Return(flight.CachedSearch{}, redis.Nil)
			m.provider.On("SearchOffers", mock.Anything, params).Return(flightprovider.OfferSearchResult{
				OfferRequestID: "orq_3",
				Offers:         fresh,
			}, nil)
			m.cache.On("AcquireLock", mock.Anything, "lock-key", 5*time.Second).Return(false, nil)
		},
		[]string{"off_1", "off_2"},
		dto.SearchMetadata{TotalResults: 2, OfferRequestID: "orq_3"},
		nil,
	))

	t.Run("cache_error_falls_back_to_provider", searchOffersRequest(
		params, 20,
		func(m mockField) {
			m.cache.On("GetCacheKey", params).Return("cache-key")
			m.cache.On("GetLockKey", params).Return("lock-key")
			m.cache.On("GetOffers", mock.Anything, "cache-key").Return(flight.CachedSearch{}, errors.New("connection refused"))
			m.provider.On("SearchOffers", mock.Anything, params).Return(flightprovider.OfferSearchResult{
				OfferRequestID: "orq_4",
				Offers:         fresh,
			}, nil)
			m.cache.On("AcquireLock", mock.Anything, "lock-key", 5*time.Second).Return(false, errors.New("connection refused"))
		},
		[]string{"off_1", "off_2"},
		dto.SearchMetadata{TotalResults: 2, OfferRequestID: "orq_4"},
		nil,
	))

	t.Run("expired_offers_dropped_and_not_cached", searchOffersRequest(
		params, 20,
		func(m mockField) {
			m.cache.On("GetCacheKey", params).Return("cache-key")
			m.cache.On("GetLockKey", params).Return("lock-key")
			m.cache.On("GetOffers", mock.Anything, "cache-key").Return(flight.CachedSearch{}, redis.Nil)
			m.provider.On("SearchOffers", mock.Anything, params).Return(flightprovider.OfferSearchResult{
				OfferRequestID: "orq_5",
				Offers: []dto.Offer{
					offerExpiringIn("off_1", 300, 2*time.Hour),
					offerExpiringIn("off_old", 100, -time.Minute),
					{ID: "off_no_expiry"},
				},
			}, nil)
		},
		[]string{"off_1"},
		dto.SearchMetadata{TotalResults: 1, ExpiredDropped: 2, OfferRequestID: "orq_5"},
		nil,
	))

	t.Run("empty_result_is_not_an_error", searchOffersRequest(
		params, 20,
		func(m mockField) {
			m.cache.On("GetCacheKey", params).Return("cache-key")
			m.cache.On("GetLockKey", params).Return("lock-key")
			m.cache.On("GetOffers", mock.Anything, "cache-key").Return(flight.CachedSearch{}, redis.Nil)
			m.provider.On("SearchOffers", mock.Anything, params).Return(flightprovider.OfferSearchResult{
				OfferRequestID: "orq_6",
			}, nil)
			m.cache.On("AcquireLock", mock.Anything, "lock-key", 5*time.Second).Return(true, nil)
			m.cache.On("SetOffers", mock.Anything, "cache-key", mock.Anything, 10*time.Minute).Return(nil)
			m.cache.On("ReleaseLock", mock.Anything, "lock-key").Return(nil)
		},
		[]string{},
		dto.SearchMetadata{OfferRequestID: "orq_6"},
		nil,
	))

	t.Run("capped_at_max_offers", searchOffersRequest(
		params, 1,
		func(m mockField) {
			m.cache.On("GetCacheKey", params).Return("cache-key")
			m.cache.On("GetLockKey", params).Return("lock-key")
			m.cache.On("GetOffers", mock.Anything, "cache-key").Return(flight.CachedSearch{
				OfferRequestID: "orq_7",
				Offers:         fresh,
			}, nil)
		},
		nil,
		dto.SearchMetadata{TotalResults: 1, OfferRequestID: "orq_7", CacheHit: true},
		nil,
	))

	t.Run("provider_error", searchOffersRequest(
		params, 20,
		func(m mockField) {
			m.cache.On("GetCacheKey", params).Return("cache-key")
			m.cache.On("GetLockKey", params).Return("lock-key")
			m.cache.On("GetOffers", mock.Anything, "cache-key").Return(flight.CachedSearch{}, redis.Nil)
			m.provider.On("SearchOffers", mock.Anything, params).
				Return(flightprovider.OfferSearchResult{}, providerutils.ErrProviderRateLimitExceeded)
		},
		nil, dto.SearchMetadata{},
		providerutils.ErrProviderRateLimitExceeded,
	))
}

func TestOfferService_SearchOffers_MaxResults(t *testing.T) {
	params := dto.SearchParams{Origin: "MAD", Destination: "JFK", DepartureDate: "2025-06-01", MaxResults: 1}

	cache := NewMockOfferCacher(t)
	cache.On("GetCacheKey", params).Return("cache-key")
	cache.On("GetLockKey", params).Return("lock-key")
	cache.On("GetOffers", mock.Anything, "cache-key").Return(flight.CachedSearch{
		Offers: []dto.Offer{
			offerExpiringIn("off_1", 300, time.Hour),
			offerExpiringIn("off_2", 200, time.Hour),
			offerExpiringIn("off_3", 100, time.Hour),
		},
	}, nil)

	s := NewOfferService(NewMockOfferProvider(t), cache, passthroughEnricher{}, time.Minute, time.Second, 20)
	s.now = func() time.Time { return searchNow }

	got, err := s.SearchOffers(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, got.Offers, 1)
	assert.Equal(t, 1, got.Metadata.TotalResults)
}

func TestOfferService_GetOffer(t *testing.T) {
	getOfferRequest := func(offer dto.Offer, providerErr error, wantCode string) func(t *testing.T) {
		return func(t *testing.T) {
			provider := NewMockOfferProvider(t)
			provider.On("GetOffer", mock.Anything, "off_1").Return(offer, providerErr)

			s := NewOfferService(provider, NewMockOfferCacher(t), passthroughEnricher{}, time.Minute, time.Second, 20)
			s.now = func() time.Time { return searchNow }

			got, err := s.GetOffer(context.Background(), "off_1")

			if wantCode != "" {
				require.Error(t, err)
				assert.True(t, exception.HasCode(err, wantCode), "unexpected error %v", err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, offer.ID, got.ID)
		}
	}

	t.Run("live_offer", getOfferRequest(offerExpiringIn("off_1", 100, time.Hour), nil, ""))
	t.Run("expired_offer_is_gone", getOfferRequest(offerExpiringIn("off_1", 100, -time.Second), nil,
		providerutils.ErrOfferExpired.Code))
	t.Run("expires_exactly_now", getOfferRequest(offerExpiringIn("off_1", 100, 0), nil,
		providerutils.ErrOfferExpired.Code))
	t.Run("vendor_not_found", getOfferRequest(dto.Offer{}, providerutils.ErrNotFound,
		providerutils.ErrNotFound.Code))
}
