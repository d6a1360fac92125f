package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/attendly/attendbot/internal/conversation"
)

// MockStore is a mock implementation of the conversation store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(phoneKey string, now time.Time) (*conversation.Session, error) {
	args := m.Called(phoneKey, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversation.Session), args.Error(1)
}

func (m *MockStore) Upsert(phoneKey string, patch conversation.Patch, now time.Time) (*conversation.Session, error) {
	args := m.Called(phoneKey, patch, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversation.Session), args.Error(1)
}

func (m *MockStore) Clear(phoneKey string) error {
	args := m.Called(phoneKey)
	return args.Error(0)
}

func (m *MockStore) Sweep(now time.Time) error {
	args := m.Called(now)
	return args.Error(0)
}
