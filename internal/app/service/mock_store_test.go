package service

import (
	"context"
	"time"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/stretchr/testify/mock"
)

// MockSubscriptionStore is a mock type for the SubscriptionStore and SubscriptionFinder types
type MockSubscriptionStore struct {
	mock.Mock
}

func (_m *MockSubscriptionStore) Upsert(ctx context.Context, sub dto.Subscription) error {
	ret := _m.Called(ctx, sub)

	return ret.Error(0)
}

func (_m *MockSubscriptionStore) FindByUserID(ctx context.Context, userID string) (dto.Subscription, error) {
	ret := _m.Called(ctx, userID)

	return ret.Get(0).(dto.Subscription), ret.Error(1)
}

func (_m *MockSubscriptionStore) FindByCustomerID(ctx context.Context, customerID string) (dto.Subscription, error) {
	ret := _m.Called(ctx, customerID)

	return ret.Get(0).(dto.Subscription), ret.Error(1)
}

// NewMockSubscriptionStore creates a new instance of MockSubscriptionStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockSubscriptionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSubscriptionStore {
	m := &MockSubscriptionStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockExpenseReader is a mock type for the ExpenseReader type
type MockExpenseReader struct {
	mock.Mock
}

func (_m *MockExpenseReader) TotalsByCategory(ctx context.Context, userID string, since time.Time) ([]dto.ExpenseCategoryTotal, error) {
	ret := _m.Called(ctx, userID, since)

	totals, _ := ret.Get(0).([]dto.ExpenseCategoryTotal)

	return totals, ret.Error(1)
}

// NewMockExpenseReader creates a new instance of MockExpenseReader. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockExpenseReader(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockExpenseReader {
	m := &MockExpenseReader{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockTextExtractor is a mock type for the TextExtractor type
type MockTextExtractor struct {
	mock.Mock
}

func (_m *MockTextExtractor) ParseFile(ctx context.Context, fileName string, content []byte) (string, error) {
	ret := _m.Called(ctx, fileName, content)

	return ret.String(0), ret.Error(1)
}

// NewMockTextExtractor creates a new instance of MockTextExtractor. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTextExtractor(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTextExtractor {
	m := &MockTextExtractor{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
