package service

import (
	"context"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flight"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider"
	"github.com/stretchr/testify/mock"
)

// MockOfferCacher is a mock type for the OfferCacher type
type MockOfferCacher struct {
	mock.Mock
}

func (_m *MockOfferCacher) GetLockKey(req dto.SearchParams) string {
	ret := _m.Called(req)

	return ret.String(0)
}

func (_m *MockOfferCacher) GetCacheKey(req dto.SearchParams) string {
	ret := _m.Called(req)

	return ret.String(0)
}

func (_m *MockOfferCacher) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	ret := _m.Called(ctx, key, timeout)

	return ret.Bool(0), ret.Error(1)
}

func (_m *MockOfferCacher) ReleaseLock(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)

	return ret.Error(0)
}

func (_m *MockOfferCacher) GetOffers(ctx context.Context, key string) (flight.CachedSearch, error) {
	ret := _m.Called(ctx, key)

	return ret.Get(0).(flight.CachedSearch), ret.Error(1)
}

func (_m *MockOfferCacher) SetOffers(ctx context.Context, key string, entry flight.CachedSearch, expiration time.Duration) error {
	ret := _m.Called(ctx, key, entry, expiration)

	return ret.Error(0)
}

// NewMockOfferCacher creates a new instance of MockOfferCacher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockOfferCacher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOfferCacher {
	m := &MockOfferCacher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockOfferProvider is a mock type for the OfferProvider type
type MockOfferProvider struct {
	mock.Mock
}

func (_m *MockOfferProvider) SearchOffers(ctx context.Context, params dto.SearchParams) (flightprovider.OfferSearchResult, error) {
	ret := _m.Called(ctx, params)

	return ret.Get(0).(flightprovider.OfferSearchResult), ret.Error(1)
}

func (_m *MockOfferProvider) GetOffer(ctx context.Context, offerID string) (dto.Offer, error) {
	ret := _m.Called(ctx, offerID)

	return ret.Get(0).(dto.Offer), ret.Error(1)
}

// NewMockOfferProvider creates a new instance of MockOfferProvider. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockOfferProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOfferProvider {
	m := &MockOfferProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockOfferSearcher is a mock type for the OfferSearcher type
type MockOfferSearcher struct {
	mock.Mock
}

func (_m *MockOfferSearcher) SearchOffers(ctx context.Context, params dto.SearchParams) (dto.SearchOffersResponse, error) {
	ret := _m.Called(ctx, params)

	return ret.Get(0).(dto.SearchOffersResponse), ret.Error(1)
}

// NewMockOfferSearcher creates a new instance of MockOfferSearcher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockOfferSearcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOfferSearcher {
	m := &MockOfferSearcher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// passthroughEnricher returns offers unchanged.
type passthroughEnricher struct{}

func (passthroughEnricher) Enrich(_ context.Context, offers []dto.Offer) []dto.Offer {
	return offers
}
