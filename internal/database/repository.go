package database

import (
	"context"
	"errors"
)

var (
	// ErrRoomFull is returned by AddRoomMember when the room's join count
	// has reached its limit.
	ErrRoomFull = errors.New("room at capacity")
	// ErrDuplicateMember is returned by AddRoomMember when the member
	// already holds a membership in the room.
	ErrDuplicateMember = errors.New("member already in room")
	// ErrJoinCountOutOfSync is returned by RemoveRoomMember when a
	// membership row exists but the room's join count is already zero.
	// It signals corrupted state, not a caller mistake.
	ErrJoinCountOutOfSync = errors.New("join count out of sync with memberships")
)

type StoryRoomRepository interface {
	Ping() error
	CreateMember(ctx context.Context, params CreateMemberParams) (Member, error)
	GetMemberById(ctx context.Context, memberId int) (Member, error)
	GetMemberByEmail(ctx context.Context, email string) (Member, error)
	GetBook(ctx context.Context, bookId int) (Book, error)
	CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error)
	GetRoomByExternalId(ctx context.Context, externalId string) (Room, error)
	GetRoomWithMembers(ctx context.Context, roomId int) (*Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, roomId int) error
	AddRoomMember(ctx context.Context, roomId, memberId int) (RoomMember, error)
	RemoveRoomMember(ctx context.Context, roomId, memberId int) (roomDeleted bool, err error)
	SetRecording(ctx context.Context, roomId int, recording bool) error
	DeleteRoomsWithoutSession(ctx context.Context, activeSessionIds []string) (int64, error)
}
