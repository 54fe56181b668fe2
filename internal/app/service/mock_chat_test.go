package service

import (
	"context"

	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/anthropic"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/mem0"
	"github.com/stretchr/testify/mock"
)

// MockLanguageModel is a mock type for the LanguageModel type
type MockLanguageModel struct {
	mock.Mock
}

func (_m *MockLanguageModel) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (anthropic.MessageResponse, error) {
	ret := _m.Called(ctx, req)

	return ret.Get(0).(anthropic.MessageResponse), ret.Error(1)
}

func (_m *MockLanguageModel) Model() string {
	ret := _m.Called()

	return ret.String(0)
}

// NewMockLanguageModel creates a new instance of MockLanguageModel. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockLanguageModel(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLanguageModel {
	m := &MockLanguageModel{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockInvoker is a mock type for the Invoker type
type MockInvoker struct {
	mock.Mock
}

func (_m *MockInvoker) Invoke(ctx context.Context, tool string, req dto.ToolRequest) (dto.ToolResult, error) {
	ret := _m.Called(ctx, tool, req)

	return ret.Get(0).(dto.ToolResult), ret.Error(1)
}

// NewMockInvoker creates a new instance of MockInvoker. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockInvoker(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockInvoker {
	m := &MockInvoker{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockMemoryStore is a mock type for the MemoryStore type
type MockMemoryStore struct {
	mock.Mock
}

func (_m *MockMemoryStore) Enabled() bool {
	ret := _m.Called()

	return ret.Bool(0)
}

func (_m *MockMemoryStore) Search(ctx context.Context, userID, query string, limit int) ([]mem0.Memory, error) {
	ret := _m.Called(ctx, userID, query, limit)

	memories, _ := ret.Get(0).([]mem0.Memory)

	return memories, ret.Error(1)
}

func (_m *MockMemoryStore) Add(ctx context.Context, userID string, messages []mem0.Message) error {
	ret := _m.Called(ctx, userID, messages)

	return ret.Error(0)
}

// NewMockMemoryStore creates a new instance of MockMemoryStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockMemoryStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMemoryStore {
	m := &MockMemoryStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockChatLogger is a mock type for the ChatLogger type
type MockChatLogger struct {
	mock.Mock
}

func (_m *MockChatLogger) SaveTurns(ctx context.Context, turns []dto.ConversationTurn) error {
	ret := _m.Called(ctx, turns)

	return ret.Error(0)
}

// NewMockChatLogger creates a new instance of MockChatLogger. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockChatLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockChatLogger {
	m := &MockChatLogger{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockHistoryReader is a mock type for the HistoryReader type
type MockHistoryReader struct {
	mock.Mock
}

func (_m *MockHistoryReader) RecentTurns(ctx context.Context, userID string, limit int) ([]dto.ConversationTurn, error) {
	ret := _m.Called(ctx, userID, limit)

	var r0 []dto.ConversationTurn
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]dto.ConversationTurn)
	}

	return r0, ret.Error(1)
}

// NewMockHistoryReader creates a new instance of MockHistoryReader. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockHistoryReader(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHistoryReader {
	m := &MockHistoryReader{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
