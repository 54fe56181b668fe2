package enrichment

import (
	"context"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/stretchr/testify/mock"
)

// MockAirlineFetcher is a mock type for the AirlineFetcher type
type MockAirlineFetcher struct {
	mock.Mock
}

func (_m *MockAirlineFetcher) FetchAirline(ctx context.Context, iataCode string) (dto.Airline, error) {
	ret := _m.Called(ctx, iataCode)

	return ret.Get(0).(dto.Airline), ret.Error(1)
}

// NewMockAirlineFetcher creates a new instance of MockAirlineFetcher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockAirlineFetcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAirlineFetcher {
	m := &MockAirlineFetcher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
