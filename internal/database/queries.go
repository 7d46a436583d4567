package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func (db *PgStoryRoomRepository) CreateMember(ctx context.Context, params CreateMemberParams) (Member, error) {
	res := db.conn.QueryRowContext(ctx,
		"INSERT INTO members (username, email, password_hash, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $4) RETURNING id, username, email, created_at, updated_at",
		params.Username,
		params.EmailAddress,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var m Member
	err := res.Scan(
		&m.Id,
		&m.Username,
		&m.EmailAddress,
		&m.CreatedAt,
		&m.UpdatedAt,
	)

	return m, err
}

func (db *PgStoryRoomRepository) GetMemberById(ctx context.Context, memberId int) (Member, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, username, email, created_at, updated_at FROM members "+
			"WHERE id = $1 LIMIT 1",
		memberId,
	)

	var m Member
	err := row.Scan(
		&m.Id,
		&m.Username,
		&m.EmailAddress,
		&m.CreatedAt,
		&m.UpdatedAt,
	)

	return m, err
}

func (db *PgStoryRoomRepository) GetMemberByEmail(ctx context.Context, email string) (Member, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at, updated_at FROM members "+
			"WHERE email = $1 LIMIT 1",
		email,
	)

	var m Member
	err := row.Scan(
		&m.Id,
		&m.Username,
		&m.EmailAddress,
		&m.PasswordHash,
		&m.CreatedAt,
		&m.UpdatedAt,
	)

	return m, err
}

func (db *PgStoryRoomRepository) GetBook(ctx context.Context, bookId int) (Book, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, title, author, cover_url, created_at FROM books "+
			"WHERE id = $1 LIMIT 1",
		bookId,
	)

	var b Book
	err := row.Scan(
		&b.Id,
		&b.Title,
		&b.Author,
		&b.CoverUrl,
		&b.CreatedAt,
	)

	return b, err
}

func (db *PgStoryRoomRepository) CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error) {
	res := db.conn.QueryRowContext(ctx,
		"INSERT INTO rooms (external_id, title, book_id, session_id, limit_count, join_count, is_recording, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, 0, false, $6, $6) "+
			"RETURNING id, external_id, title, book_id, session_id, limit_count, join_count, is_recording, created_at, updated_at",
		params.ExternalId,
		params.Title,
		params.BookId,
		params.SessionId,
		params.LimitCount,
		time.Now().UTC(),
	)

	var room Room
	err := res.Scan(
		&room.Id,
		&room.ExternalId,
		&room.Title,
		&room.BookId,
		&room.SessionId,
		&room.LimitCount,
		&room.JoinCount,
		&room.IsRecording,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	return room, err
}

func (db *PgStoryRoomRepository) GetRoomByExternalId(ctx context.Context, externalId string) (Room, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, external_id, title, book_id, session_id, limit_count, join_count, is_recording, created_at, updated_at "+
			"FROM rooms WHERE external_id = $1 LIMIT 1",
		externalId,
	)

	var room Room
	err := row.Scan(
		&room.Id,
		&room.ExternalId,
		&room.Title,
		&room.BookId,
		&room.SessionId,
		&room.LimitCount,
		&room.JoinCount,
		&room.IsRecording,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	return room, err
}

func (db *PgStoryRoomRepository) GetRoomWithMembers(ctx context.Context, roomId int) (*Room, error) {
	query := `
		SELECT
				r.id AS room_id,
				r.external_id,
				r.title,
				r.book_id,
				r.session_id,
				r.limit_count,
				r.join_count,
				r.is_recording,
				r.created_at AS room_created_at,
				r.updated_at AS room_updated_at,
				rm.id,
				rm.member_id,
				m.username,
				rm.created_at AS membership_created_at
		FROM rooms r
		LEFT JOIN room_members rm ON r.id = rm.room_id
		LEFT JOIN members m ON rm.member_id = m.id
		WHERE r.id = $1;
`

	rows, err := db.conn.QueryContext(ctx, query, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room with members: %w", err)
	}
	defer rows.Close()

	var room *Room
	for rows.Next() {
		var (
			id                  int
			externalId          string
			title               string
			bookId              int
			sessionId           string
			limitCount          int
			joinCount           int
			isRecording         bool
			roomCreatedAt       time.Time
			roomUpdatedAt       time.Time
			membershipId        sql.NullInt64
			memberId            sql.NullInt64
			username            sql.NullString
			membershipCreatedAt sql.NullTime
		)

		err := rows.Scan(
			&id,
			&externalId,
			&title,
			&bookId,
			&sessionId,
			&limitCount,
			&joinCount,
			&isRecording,
			&roomCreatedAt,
			&roomUpdatedAt,
			&membershipId,
			&memberId,
			&username,
			&membershipCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		if room == nil {
			room = &Room{
				Id:          id,
				ExternalId:  externalId,
				Title:       title,
				BookId:      bookId,
				SessionId:   sessionId,
				LimitCount:  limitCount,
				JoinCount:   joinCount,
				IsRecording: isRecording,
				CreatedAt:   roomCreatedAt,
				UpdatedAt:   roomUpdatedAt,
				Members:     make([]RoomMember, 0),
			}
		}

		if memberId.Valid && username.Valid {
			room.Members = append(room.Members, RoomMember{
				Id:        int(membershipId.Int64),
				RoomId:    id,
				MemberId:  int(memberId.Int64),
				Username:  username.String,
				CreatedAt: membershipCreatedAt.Time,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if room == nil {
		return nil, sql.ErrNoRows
	}

	return room, nil
}

// sortRoomListing orders rooms for listing: non-recording rooms before
// recording ones, newest-created first within each group.
func sortRoomListing(rooms []Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		if rooms[i].IsRecording != rooms[j].IsRecording {
			return !rooms[i].IsRecording
		}
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})
}

func (db *PgStoryRoomRepository) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, external_id, title, book_id, session_id, limit_count, join_count, is_recording, created_at, updated_at "+
			"FROM rooms",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var room Room
		err = rows.Scan(
			&room.Id,
			&room.ExternalId,
			&room.Title,
			&room.BookId,
			&room.SessionId,
			&room.LimitCount,
			&room.JoinCount,
			&room.IsRecording,
			&room.CreatedAt,
			&room.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortRoomListing(rooms)
	return rooms, nil
}

func (db *PgStoryRoomRepository) DeleteRoom(ctx context.Context, roomId int) error {
	// room_members rows go with the room via ON DELETE CASCADE
	_, err := db.conn.ExecContext(ctx, "DELETE FROM rooms WHERE id = $1", roomId)
	return err
}

// AddRoomMember admits a member into a room. The join count increment is
// conditional on join_count < limit_count and runs in the same transaction
// as the membership insert, so concurrent joins cannot exceed the limit.
func (db *PgStoryRoomRepository) AddRoomMember(ctx context.Context, roomId, memberId int) (RoomMember, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return RoomMember{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"UPDATE rooms SET join_count = join_count + 1, updated_at = $2 "+
			"WHERE id = $1 AND join_count < limit_count",
		roomId,
		time.Now().UTC(),
	)
	if err != nil {
		return RoomMember{}, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return RoomMember{}, err
	}
	if n == 0 {
		// either the room is gone or it is full
		row := tx.QueryRowContext(ctx, "SELECT id FROM rooms WHERE id = $1 LIMIT 1", roomId)
		var id int
		if scanErr := row.Scan(&id); scanErr != nil {
			err = scanErr
			return RoomMember{}, err
		}
		err = ErrRoomFull
		return RoomMember{}, err
	}

	var rm RoomMember
	err = tx.QueryRowContext(ctx,
		"INSERT INTO room_members (room_id, member_id, created_at) "+
			"VALUES ($1, $2, $3) RETURNING id, room_id, member_id, created_at",
		roomId,
		memberId,
		time.Now().UTC(),
	).Scan(&rm.Id, &rm.RoomId, &rm.MemberId, &rm.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			err = ErrDuplicateMember
		}
		return RoomMember{}, err
	}

	if err = tx.Commit(); err != nil {
		return RoomMember{}, err
	}

	return rm, nil
}

// RemoveRoomMember removes a member's membership and decrements the room's
// join count. When the count reaches zero the room itself is deleted and
// roomDeleted reports true.
func (db *PgStoryRoomRepository) RemoveRoomMember(ctx context.Context, roomId, memberId int) (bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM room_members WHERE room_id = $1 AND member_id = $2",
		roomId,
		memberId,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		err = sql.ErrNoRows
		return false, err
	}

	var remaining int
	err = tx.QueryRowContext(ctx,
		"UPDATE rooms SET join_count = join_count - 1, updated_at = $2 "+
			"WHERE id = $1 AND join_count > 0 RETURNING join_count",
		roomId,
		time.Now().UTC(),
	).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// the membership row existed, so a zero join count means the
			// two counters have diverged
			err = fmt.Errorf("%w: room %d", ErrJoinCountOutOfSync, roomId)
		}
		return false, err
	}

	var deleted bool
	if remaining == 0 {
		if _, err = tx.ExecContext(ctx, "DELETE FROM rooms WHERE id = $1", roomId); err != nil {
			return false, err
		}
		deleted = true
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}

	return deleted, nil
}

func (db *PgStoryRoomRepository) SetRecording(ctx context.Context, roomId int, recording bool) error {
	res, err := db.conn.ExecContext(ctx,
		"UPDATE rooms SET is_recording = $2, updated_at = $3 WHERE id = $1",
		roomId,
		recording,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// DeleteRoomsWithoutSession deletes every room whose session id is not in
// activeSessionIds and returns the number of rooms removed.
func (db *PgStoryRoomRepository) DeleteRoomsWithoutSession(ctx context.Context, activeSessionIds []string) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		"DELETE FROM rooms WHERE session_id != ALL($1)",
		pq.Array(activeSessionIds),
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
