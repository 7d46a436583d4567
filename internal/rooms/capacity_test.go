package rooms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/acornlabs/storyroom/internal/database"
	"github.com/acornlabs/storyroom/internal/provider"
)

// fakeRepository mirrors the store's atomicity contract in memory: the
// conditional increment and the decrement-then-delete both run under one
// lock, exactly as the SQL versions run in one transaction.
type fakeRepository struct {
	database.MockStoryRoomRepository

	mu      sync.Mutex
	room    *database.Room
	members map[int]struct{}
}

func newFakeRepository(room database.Room) *fakeRepository {
	return &fakeRepository{
		room:    &room,
		members: make(map[int]struct{}),
	}
}

func (f *fakeRepository) GetRoomByExternalId(_ context.Context, externalId string) (database.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.room == nil || f.room.ExternalId != externalId {
		return database.Room{}, sql.ErrNoRows
	}
	return *f.room, nil
}

func (f *fakeRepository) GetMemberById(_ context.Context, memberId int) (database.Member, error) {
	return database.Member{Id: memberId, Username: fmt.Sprintf("member-%d", memberId)}, nil
}

func (f *fakeRepository) AddRoomMember(_ context.Context, roomId, memberId int) (database.RoomMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.room == nil || f.room.Id != roomId {
		return database.RoomMember{}, sql.ErrNoRows
	}
	if f.room.JoinCount >= f.room.LimitCount {
		return database.RoomMember{}, database.ErrRoomFull
	}
	if _, ok := f.members[memberId]; ok {
		return database.RoomMember{}, database.ErrDuplicateMember
	}

	f.room.JoinCount++
	f.members[memberId] = struct{}{}
	return database.RoomMember{RoomId: roomId, MemberId: memberId}, nil
}

func (f *fakeRepository) RemoveRoomMember(_ context.Context, roomId, memberId int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.room == nil || f.room.Id != roomId {
		return false, sql.ErrNoRows
	}
	if _, ok := f.members[memberId]; !ok {
		return false, sql.ErrNoRows
	}

	delete(f.members, memberId)
	f.room.JoinCount--
	if f.room.JoinCount == 0 {
		f.room = nil
		return true, nil
	}
	return false, nil
}

func (f *fakeRepository) joinCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.room == nil {
		return 0
	}
	return f.room.JoinCount
}

func idleGateway() *provider.MockGateway {
	gw := &provider.MockGateway{}
	gw.On("Refresh", mock.Anything).Return(nil)
	gw.On("ActiveSession", mock.Anything).Return(provider.Session{}, true)
	gw.On("ActiveConnectionCount", mock.Anything).Return(0)
	return gw
}

func TestConcurrentJoinsNeverExceedLimit(t *testing.T) {
	const (
		limit   = 4
		joiners = 32
	)

	room := database.Room{Id: 1, ExternalId: "EoGKUXPHgz", SessionId: "ses_A1b2C3d4", LimitCount: limit}
	repo := newFakeRepository(room)

	c := newTestCoordinator(t, repo, idleGateway())

	var wg sync.WaitGroup
	results := make(chan error, joiners)
	for i := 1; i <= joiners; i++ {
		wg.Add(1)
		go func(memberId int) {
			defer wg.Done()
			results <- c.JoinRoom(context.Background(), room.ExternalId, memberId)
		}(i)
	}
	wg.Wait()
	close(results)

	var admitted, rejected int
	for err := range results {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, ErrRoomNotAvailable):
			rejected++
		default:
			t.Fatalf("unexpected join error: %v", err)
		}
	}

	assert.Equal(t, limit, admitted, "expected exactly limit joins to be admitted")
	assert.Equal(t, joiners-limit, rejected, "expected the rest to be rejected")
	assert.Equal(t, limit, repo.joinCount(), "join count must equal the limit")
}

func TestConcurrentJoinsAndLeavesHoldInvariant(t *testing.T) {
	const limit = 3

	room := database.Room{Id: 1, ExternalId: "EoGKUXPHgz", SessionId: "ses_A1b2C3d4", LimitCount: limit}
	repo := newFakeRepository(room)

	c := newTestCoordinator(t, repo, idleGateway())

	var wg sync.WaitGroup
	for i := 1; i <= 24; i++ {
		wg.Add(1)
		go func(memberId int) {
			defer wg.Done()
			if err := c.JoinRoom(context.Background(), room.ExternalId, memberId); err == nil {
				_, err := c.LeaveRoom(context.Background(), room.ExternalId, memberId)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	count := repo.joinCount()
	assert.GreaterOrEqual(t, count, 0, "join count must never go negative")
	assert.LessOrEqual(t, count, limit, "join count must never exceed the limit")
	assert.Zero(t, count, "every admitted member left, so the count must be zero")
}

func TestLastLeaveDeletesRoom(t *testing.T) {
	room := database.Room{Id: 1, ExternalId: "EoGKUXPHgz", SessionId: "ses_A1b2C3d4", LimitCount: 1}
	repo := newFakeRepository(room)

	c := newTestCoordinator(t, repo, idleGateway())

	assert.NoError(t, c.JoinRoom(context.Background(), room.ExternalId, 9))

	memberId, err := c.LeaveRoom(context.Background(), room.ExternalId, 9)
	assert.NoError(t, err)
	assert.Equal(t, 9, memberId)

	_, err = c.GetRoom(context.Background(), room.ExternalId)
	assert.ErrorIs(t, err, ErrRoomNotFound, "empty room must be gone")
}
