package rooms

import "errors"

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrRoomNotAvailable     = errors.New("room not available")
	ErrRoomMemberNotFound   = errors.New("room member not found")
	ErrMemberAlreadyJoined  = errors.New("member already joined room")
	ErrMemberNotFound       = errors.New("member not found")
	ErrBookNotFound         = errors.New("book not found")
	ErrSessionNotCreated    = errors.New("provider session not created")
	ErrConnectionNotCreated = errors.New("provider connection not created")
)
