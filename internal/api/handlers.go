package api

import (
	"encoding/json"
	"net/http"

	"github.com/acornlabs/storyroom/internal/database"
	"github.com/acornlabs/storyroom/internal/provider"
	"github.com/acornlabs/storyroom/internal/rooms"
	"github.com/acornlabs/storyroom/internal/types"
)

type CreateRoomRequest struct {
	Title                string                     `json:"title"`
	BookId               int                        `json:"book_id"`
	LimitCount           int                        `json:"limit_count"`
	SessionProperties    provider.SessionOptions    `json:"session_properties"`
	ConnectionProperties provider.ConnectionOptions `json:"connection_properties"`
}

type CreateRoomResponse struct {
	Room  types.Room `json:"room"`
	Token string     `json:"token"`
}

type ConnectRoomRequest struct {
	ConnectionProperties provider.ConnectionOptions `json:"connection_properties"`
}

type ConnectRoomResponse struct {
	Token string `json:"token"`
}

type LeaveRoomResponse struct {
	MemberId int `json:"member_id"`
}

func (s *StoryRoomApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func roomResponse(room database.Room) types.Room {
	return types.Room{
		Id:          room.ExternalId,
		Title:       room.Title,
		BookId:      room.BookId,
		LimitCount:  room.LimitCount,
		JoinCount:   room.JoinCount,
		IsRecording: room.IsRecording,
		CreatedAt:   room.CreatedAt,
	}
}

func roomWithMembersResponse(room *database.Room) types.Room {
	resp := roomResponse(*room)
	resp.Members = make([]types.RoomMember, 0, len(room.Members))
	for _, rm := range room.Members {
		resp.Members = append(resp.Members, types.RoomMember{
			MemberId: rm.MemberId,
			Username: rm.Username,
			JoinedAt: rm.CreatedAt,
		})
	}
	return resp
}

func (s *StoryRoomApp) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		s.log.Println("health check:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *StoryRoomApp) createRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Title == "" || req.BookId <= 0 || req.LimitCount <= 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	result, err := s.svc.CreateRoom(r.Context(), rooms.CreateRoomParams{
		Title:             req.Title,
		BookId:            req.BookId,
		LimitCount:        req.LimitCount,
		SessionOptions:    req.SessionProperties,
		ConnectionOptions: req.ConnectionProperties,
	})
	if err != nil {
		s.log.Println("create room:", err)
		errResp := newRoomError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, CreateRoomResponse{
		Room:  roomResponse(result.Room),
		Token: result.Token,
	})
}

func (s *StoryRoomApp) listRooms(w http.ResponseWriter, r *http.Request) {
	dbRooms, err := s.svc.ListRooms(r.Context())
	if err != nil {
		s.log.Println("list rooms:", err)
		errResp := newRoomError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	resp := make([]types.Room, 0, len(dbRooms))
	for _, room := range dbRooms {
		resp = append(resp, roomResponse(room))
	}

	s.writeJson(w, http.StatusOK, resp)
}

func (s *StoryRoomApp) getRoom(w http.ResponseWriter, r *http.Request) {
	roomId := r.PathValue("id")
	if roomId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	room, err := s.svc.GetRoom(r.Context(), roomId)
	if err != nil {
		errResp := newRoomError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, roomWithMembersResponse(room))
}

func (s *StoryRoomApp) joinRoom(w http.ResponseWriter, r *http.Request) {
	memberId, ok := MemberId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	roomId := r.PathValue("id")
	if roomId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.svc.JoinRoom(r.Context(), roomId, memberId); err != nil {
		s.log.Println("join room:", err)
		errResp := newRoomError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *StoryRoomApp) connectRoom(w http.ResponseWriter, r *http.Request) {
	if _, ok := MemberId(r.Context()); !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	roomId := r.PathValue("id")
	if roomId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req ConnectRoomRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errResp := NewBadRequestError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
	}

	token, err := s.svc.Connect(r.Context(), roomId, req.ConnectionProperties)
	if err != nil {
		s.log.Println("connect room:", err)
		errResp := newRoomError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, ConnectRoomResponse{Token: token})
}

func (s *StoryRoomApp) leaveRoom(w http.ResponseWriter, r *http.Request) {
	memberId, ok := MemberId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	roomId := r.PathValue("id")
	if roomId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	departed, err := s.svc.LeaveRoom(r.Context(), roomId, memberId)
	if err != nil {
		s.log.Println("leave room:", err)
		errResp := newRoomError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, LeaveRoomResponse{MemberId: departed})
}

func (s *StoryRoomApp) markRecording(w http.ResponseWriter, r *http.Request) {
	if _, ok := MemberId(r.Context()); !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	roomId := r.PathValue("id")
	if roomId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.svc.MarkRecording(r.Context(), roomId); err != nil {
		s.log.Println("mark recording:", err)
		errResp := newRoomError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *StoryRoomApp) reconcile(w http.ResponseWriter, r *http.Request) {
	if _, ok := MemberId(r.Context()); !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.svc.Reconcile(r.Context()); err != nil {
		s.log.Println("reconcile:", err)
		errResp := newRoomError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
