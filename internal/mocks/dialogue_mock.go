package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/attendly/attendbot/internal/dialogue"
)

// MockDirectory is a mock implementation of the employee directory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) LookupByPhone(ctx context.Context, phoneKey string) (*dialogue.Employee, error) {
	args := m.Called(ctx, phoneKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dialogue.Employee), args.Error(1)
}

// MockEventSink is a mock implementation of the finalized-event sink
type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) Store(ctx context.Context, event dialogue.FinalizedEvent) (int64, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotifier is a mock implementation of the late-notice notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyLateNotice(ctx context.Context, event dialogue.FinalizedEvent) {
	m.Called(ctx, event)
}
