package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"

	"github.com/acornlabs/storyroom/internal/config"
	"github.com/acornlabs/storyroom/internal/database"
	"github.com/acornlabs/storyroom/internal/rooms"
)

type StoryRoomApp struct {
	log            *log.Logger
	db             database.StoryRoomRepository
	svc            rooms.Service
	mux            *http.Server
	signingKey     []byte
	allowedOrigins []string
}

func NewStoryRoomApp(mux *http.ServeMux, logger *log.Logger, svc rooms.Service, db database.StoryRoomRepository, cfg *config.Config) *StoryRoomApp {
	s := &StoryRoomApp{
		log:            logger,
		db:             db,
		svc:            svc,
		signingKey:     cfg.SigningKey,
		allowedOrigins: cfg.AllowedOrigins,
	}

	mux.HandleFunc("POST /api/auth/register", s.createAccount)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("GET /api/auth/session", s.authMiddleware(s.session))
	mux.HandleFunc("GET /api/auth/logout", s.authMiddleware(s.logout))
	mux.HandleFunc("POST /api/rooms", s.authMiddleware(s.createRoom))
	mux.HandleFunc("GET /api/rooms", s.listRooms)
	mux.HandleFunc("GET /api/rooms/{id}", s.getRoom)
	mux.HandleFunc("POST /api/rooms/{id}/join", s.authMiddleware(s.joinRoom))
	mux.HandleFunc("POST /api/rooms/{id}/connection", s.authMiddleware(s.connectRoom))
	mux.HandleFunc("POST /api/rooms/{id}/leave", s.authMiddleware(s.leaveRoom))
	mux.HandleFunc("POST /api/rooms/{id}/recording", s.authMiddleware(s.markRecording))
	mux.HandleFunc("POST /api/reconcile", s.authMiddleware(s.reconcile))
	mux.HandleFunc("GET /healthz", s.healthCheck)

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *StoryRoomApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *StoryRoomApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
