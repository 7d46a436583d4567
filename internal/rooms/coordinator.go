// Package rooms implements the room lifecycle coordinator: creation against
// the session provider, capacity-gated joins, leave-with-teardown and the
// periodic sweep that removes rooms whose provider session has ended.
package rooms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/teris-io/shortid"

	"github.com/acornlabs/storyroom/internal/database"
	"github.com/acornlabs/storyroom/internal/provider"
	"github.com/acornlabs/storyroom/internal/stats"
)

const (
	MetricRoomsCreated    = "RoomsCreated"
	MetricRoomsDeleted    = "RoomsDeleted"
	MetricMembersJoined   = "MembersJoined"
	MetricMembersLeft     = "MembersLeft"
	MetricRoomsReconciled = "RoomsReconciled"
)

type CreateRoomParams struct {
	Title             string
	BookId            int
	LimitCount        int
	SessionOptions    provider.SessionOptions
	ConnectionOptions provider.ConnectionOptions
}

type CreateRoomResult struct {
	Room  database.Room
	Token string
}

// Service is the coordinator's operation surface as consumed by the HTTP
// layer and the expiry reconciler.
type Service interface {
	CreateRoom(ctx context.Context, params CreateRoomParams) (CreateRoomResult, error)
	GetRoom(ctx context.Context, roomId string) (*database.Room, error)
	ListRooms(ctx context.Context) ([]database.Room, error)
	JoinRoom(ctx context.Context, roomId string, memberId int) error
	Connect(ctx context.Context, roomId string, opts provider.ConnectionOptions) (string, error)
	LeaveRoom(ctx context.Context, roomId string, memberId int) (int, error)
	MarkRecording(ctx context.Context, roomId string) error
	Reconcile(ctx context.Context) error
}

// Coordinator sequences operations across the room store and the session
// provider. It owns no state of its own: the room row is the serialization
// point for a room's join count, and the provider owns session state.
type Coordinator struct {
	log      *log.Logger
	db       database.StoryRoomRepository
	provider provider.Gateway
	stats    stats.StatsProvider

	generateShortId func() (string, error)
}

func NewCoordinator(logger *log.Logger, db database.StoryRoomRepository, gw provider.Gateway, st stats.StatsProvider) *Coordinator {
	for _, m := range []string{
		MetricRoomsCreated,
		MetricRoomsDeleted,
		MetricMembersJoined,
		MetricMembersLeft,
		MetricRoomsReconciled,
	} {
		st.RegisterMetric(m)
	}

	return &Coordinator{
		log:             logger,
		db:              db,
		provider:        gw,
		stats:           st,
		generateShortId: shortid.Generate,
	}
}

// CreateRoom provisions a provider session and a creator connection, then
// persists the room with a zero join count. The creator holds a connection
// token but is not a counted member until an explicit join. If connection
// creation fails after the session was created, the session is left behind
// provider-side; the reconciler is the backstop for such garbage.
func (c *Coordinator) CreateRoom(ctx context.Context, params CreateRoomParams) (CreateRoomResult, error) {
	book, err := c.db.GetBook(ctx, params.BookId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CreateRoomResult{}, ErrBookNotFound
		}
		return CreateRoomResult{}, fmt.Errorf("get book: %w", err)
	}

	if err := c.provider.Refresh(ctx); err != nil {
		return CreateRoomResult{}, err
	}

	sess, err := c.provider.CreateSession(ctx, params.SessionOptions)
	if err != nil {
		return CreateRoomResult{}, fmt.Errorf("%w: %v", ErrSessionNotCreated, err)
	}

	conn, err := c.provider.CreateConnection(ctx, sess.Id, params.ConnectionOptions)
	if err != nil {
		c.log.Printf("connection creation failed, session %q left to reconciliation: %v", sess.Id, err)
		return CreateRoomResult{}, fmt.Errorf("%w: %v", ErrConnectionNotCreated, err)
	}

	externalId, err := c.generateShortId()
	if err != nil {
		return CreateRoomResult{}, fmt.Errorf("generate room id: %w", err)
	}

	room, err := c.db.CreateRoom(ctx, database.CreateRoomParams{
		ExternalId: externalId,
		Title:      params.Title,
		BookId:     book.Id,
		SessionId:  sess.Id,
		LimitCount: params.LimitCount,
	})
	if err != nil {
		return CreateRoomResult{}, fmt.Errorf("persist room: %w", err)
	}

	c.stats.Incr(MetricRoomsCreated)

	return CreateRoomResult{Room: room, Token: conn.Token}, nil
}

func (c *Coordinator) GetRoom(ctx context.Context, roomId string) (*database.Room, error) {
	room, err := c.db.GetRoomByExternalId(ctx, roomId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}

	full, err := c.db.GetRoomWithMembers(ctx, room.Id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room members: %w", err)
	}

	return full, nil
}

func (c *Coordinator) ListRooms(ctx context.Context) ([]database.Room, error) {
	rooms, err := c.db.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// JoinRoom admits a member into a room. Capacity is a compound guard: the
// provider's live connection count for the room's session is checked after a
// refresh, and the persisted join count is checked atomically by the store's
// conditional increment. Rejecting on either signal keeps the room under its
// limit even when the two counters diverge. A room whose session is absent
// from the snapshot is already dead and cannot be joined.
func (c *Coordinator) JoinRoom(ctx context.Context, roomId string, memberId int) error {
	room, err := c.db.GetRoomByExternalId(ctx, roomId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("get room: %w", err)
	}

	if err := c.provider.Refresh(ctx); err != nil {
		return err
	}

	if _, ok := c.provider.ActiveSession(room.SessionId); !ok {
		// room outlived its session; reconciliation will collect it
		return ErrRoomNotFound
	}

	if c.provider.ActiveConnectionCount(room.SessionId) >= room.LimitCount {
		return ErrRoomNotAvailable
	}

	member, err := c.db.GetMemberById(ctx, memberId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("get member: %w", err)
	}

	if _, err := c.db.AddRoomMember(ctx, room.Id, member.Id); err != nil {
		switch {
		case errors.Is(err, database.ErrRoomFull):
			return ErrRoomNotAvailable
		case errors.Is(err, database.ErrDuplicateMember):
			return ErrMemberAlreadyJoined
		case errors.Is(err, sql.ErrNoRows):
			// room deleted between the load and the increment
			return ErrRoomNotFound
		default:
			return fmt.Errorf("add room member: %w", err)
		}
	}

	c.stats.Incr(MetricMembersJoined)

	return nil
}

// Connect issues a fresh single-use connection token into the room's live
// session. Members call this after joining to enter the media transport.
func (c *Coordinator) Connect(ctx context.Context, roomId string, opts provider.ConnectionOptions) (string, error) {
	room, err := c.db.GetRoomByExternalId(ctx, roomId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrRoomNotFound
		}
		return "", fmt.Errorf("get room: %w", err)
	}

	if err := c.provider.Refresh(ctx); err != nil {
		return "", err
	}

	if _, ok := c.provider.ActiveSession(room.SessionId); !ok {
		// persisted room whose session already ended; reconciliation
		// will collect it
		return "", ErrRoomNotFound
	}

	conn, err := c.provider.CreateConnection(ctx, room.SessionId, opts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnectionNotCreated, err)
	}

	return conn.Token, nil
}

// LeaveRoom removes the member's membership and decrements the join count;
// the store deletes the room when the count reaches zero. The departed
// member id is returned for caller acknowledgment.
func (c *Coordinator) LeaveRoom(ctx context.Context, roomId string, memberId int) (int, error) {
	if err := c.provider.Refresh(ctx); err != nil {
		return 0, err
	}

	room, err := c.db.GetRoomByExternalId(ctx, roomId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrRoomNotFound
		}
		return 0, fmt.Errorf("get room: %w", err)
	}

	roomDeleted, err := c.db.RemoveRoomMember(ctx, room.Id, memberId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrRoomMemberNotFound
		}
		return 0, fmt.Errorf("remove room member: %w", err)
	}

	c.stats.Incr(MetricMembersLeft)

	if roomDeleted {
		c.log.Printf("room %q empty, deleted", room.ExternalId)
		c.stats.Incr(MetricRoomsDeleted)
	}

	return memberId, nil
}

func (c *Coordinator) MarkRecording(ctx context.Context, roomId string) error {
	room, err := c.db.GetRoomByExternalId(ctx, roomId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("get room: %w", err)
	}

	if err := c.db.SetRecording(ctx, room.Id, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("set recording: %w", err)
	}

	return nil
}

// Reconcile deletes every persisted room whose provider session is no longer
// active. It is idempotent and safe to run concurrently with joins and
// leaves: a join racing a deletion here fails with ErrRoomNotFound.
func (c *Coordinator) Reconcile(ctx context.Context) error {
	if err := c.provider.Refresh(ctx); err != nil {
		return err
	}

	active := c.provider.ActiveSessionIds()

	n, err := c.db.DeleteRoomsWithoutSession(ctx, active)
	if err != nil {
		return fmt.Errorf("delete expired rooms: %w", err)
	}

	if n > 0 {
		c.log.Printf("reconcile removed %d expired room(s)", n)
		c.stats.Add(MetricRoomsReconciled, int(n))
	}

	return nil
}
