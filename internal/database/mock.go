package database

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStoryRoomRepository struct {
	mock.Mock
}

func (m *MockStoryRoomRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockStoryRoomRepository) CreateMember(ctx context.Context, params CreateMemberParams) (Member, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Member), args.Error(1)
}
func (m *MockStoryRoomRepository) GetMemberById(ctx context.Context, memberId int) (Member, error) {
	args := m.Called(ctx, memberId)
	return args.Get(0).(Member), args.Error(1)
}
func (m *MockStoryRoomRepository) GetMemberByEmail(ctx context.Context, email string) (Member, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(Member), args.Error(1)
}
func (m *MockStoryRoomRepository) GetBook(ctx context.Context, bookId int) (Book, error) {
	args := m.Called(ctx, bookId)
	return args.Get(0).(Book), args.Error(1)
}
func (m *MockStoryRoomRepository) CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockStoryRoomRepository) GetRoomByExternalId(ctx context.Context, externalId string) (Room, error) {
	args := m.Called(ctx, externalId)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockStoryRoomRepository) GetRoomWithMembers(ctx context.Context, roomId int) (*Room, error) {
	args := m.Called(ctx, roomId)
	if room, ok := args.Get(0).(*Room); ok {
		return room, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockStoryRoomRepository) ListRooms(ctx context.Context) ([]Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockStoryRoomRepository) DeleteRoom(ctx context.Context, roomId int) error {
	args := m.Called(ctx, roomId)
	return args.Error(0)
}
func (m *MockStoryRoomRepository) AddRoomMember(ctx context.Context, roomId, memberId int) (RoomMember, error) {
	args := m.Called(ctx, roomId, memberId)
	return args.Get(0).(RoomMember), args.Error(1)
}
func (m *MockStoryRoomRepository) RemoveRoomMember(ctx context.Context, roomId, memberId int) (bool, error) {
	args := m.Called(ctx, roomId, memberId)
	return args.Bool(0), args.Error(1)
}
func (m *MockStoryRoomRepository) SetRecording(ctx context.Context, roomId int, recording bool) error {
	args := m.Called(ctx, roomId, recording)
	return args.Error(0)
}
func (m *MockStoryRoomRepository) DeleteRoomsWithoutSession(ctx context.Context, activeSessionIds []string) (int64, error) {
	args := m.Called(ctx, activeSessionIds)
	return args.Get(0).(int64), args.Error(1)
}
