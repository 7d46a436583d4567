package rooms

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/acornlabs/storyroom/internal/database"
	"github.com/acornlabs/storyroom/internal/provider"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateRoom(ctx context.Context, params CreateRoomParams) (CreateRoomResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(CreateRoomResult), args.Error(1)
}
func (m *MockService) GetRoom(ctx context.Context, roomId string) (*database.Room, error) {
	args := m.Called(ctx, roomId)
	if room, ok := args.Get(0).(*database.Room); ok {
		return room, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockService) ListRooms(ctx context.Context) ([]database.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]database.Room), args.Error(1)
}
func (m *MockService) JoinRoom(ctx context.Context, roomId string, memberId int) error {
	args := m.Called(ctx, roomId, memberId)
	return args.Error(0)
}
func (m *MockService) Connect(ctx context.Context, roomId string, opts provider.ConnectionOptions) (string, error) {
	args := m.Called(ctx, roomId, opts)
	return args.String(0), args.Error(1)
}
func (m *MockService) LeaveRoom(ctx context.Context, roomId string, memberId int) (int, error) {
	args := m.Called(ctx, roomId, memberId)
	return args.Int(0), args.Error(1)
}
func (m *MockService) MarkRecording(ctx context.Context, roomId string) error {
	args := m.Called(ctx, roomId)
	return args.Error(0)
}
func (m *MockService) Reconcile(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
