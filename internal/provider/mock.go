package provider

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockGateway) CreateSession(ctx context.Context, opts SessionOptions) (Session, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(Session), args.Error(1)
}
func (m *MockGateway) CreateConnection(ctx context.Context, sessionId string, opts ConnectionOptions) (Connection, error) {
	args := m.Called(ctx, sessionId, opts)
	return args.Get(0).(Connection), args.Error(1)
}
func (m *MockGateway) ActiveSession(sessionId string) (Session, bool) {
	args := m.Called(sessionId)
	return args.Get(0).(Session), args.Bool(1)
}
func (m *MockGateway) ActiveSessionIds() []string {
	args := m.Called()
	return args.Get(0).([]string)
}
func (m *MockGateway) ActiveConnectionCount(sessionId string) int {
	args := m.Called(sessionId)
	return args.Int(0)
}
