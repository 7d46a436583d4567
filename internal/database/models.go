package database

import "time"

type Room struct {
	Id          int
	ExternalId  string
	Title       string
	BookId      int
	SessionId   string
	LimitCount  int
	JoinCount   int
	IsRecording bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Members     []RoomMember
}

type RoomMember struct {
	Id        int
	RoomId    int
	MemberId  int
	Username  string
	CreatedAt time.Time
}

type Member struct {
	Id           int
	Username     string
	EmailAddress string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Book struct {
	Id        int
	Title     string
	Author    string
	CoverUrl  string
	CreatedAt time.Time
}

type CreateMemberParams struct {
	Username     string
	EmailAddress string
	PasswordHash string
}

type CreateRoomParams struct {
	ExternalId string
	Title      string
	BookId     int
	SessionId  string
	LimitCount int
}
