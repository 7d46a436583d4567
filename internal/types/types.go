package types

import (
	"time"
)

type Member struct {
	Id           int       `json:"id"`
	Username     string    `json:"username"`
	EmailAddress string    `json:"email_address,omitempty"`
	Password     string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

type Room struct {
	Id          string       `json:"id"`
	Title       string       `json:"title"`
	BookId      int          `json:"book_id"`
	LimitCount  int          `json:"limit_count"`
	JoinCount   int          `json:"join_count"`
	IsRecording bool         `json:"is_recording"`
	Members     []RoomMember `json:"members,omitempty"`
	CreatedAt   time.Time    `json:"created_at,omitempty"`
}

type RoomMember struct {
	MemberId int       `json:"member_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at,omitempty"`
}
