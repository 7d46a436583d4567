// Package provider wraps the external media session provider. Rooms delegate
// their real-time transport to provider sessions; a connection is a
// single-use ticket into one session, exchanged for a token.
package provider

import (
	"context"
	"errors"
)

// ErrUnavailable is returned whenever a provider round-trip fails, whatever
// the underlying transport error. Timeouts are treated identically.
var ErrUnavailable = errors.New("session provider unavailable")

type Session struct {
	Id              string
	CreatedAt       int64
	ConnectionCount int
}

type Connection struct {
	Id    string
	Token string
}

type SessionOptions struct {
	MediaMode       string `json:"mediaMode,omitempty"`
	RecordingMode   string `json:"recordingMode,omitempty"`
	CustomSessionId string `json:"customSessionId,omitempty"`
}

type ConnectionOptions struct {
	Type string `json:"type,omitempty"`
	Role string `json:"role,omitempty"`
	Data string `json:"data,omitempty"`
}

// Gateway is the coordinator's view of the provider. Refresh snapshots the
// provider's active sessions; the Active* accessors read from that snapshot
// rather than the live provider, so callers refresh before any decision that
// depends on live counts.
type Gateway interface {
	Refresh(ctx context.Context) error
	CreateSession(ctx context.Context, opts SessionOptions) (Session, error)
	CreateConnection(ctx context.Context, sessionId string, opts ConnectionOptions) (Connection, error)
	ActiveSession(sessionId string) (Session, bool)
	ActiveSessionIds() []string
	ActiveConnectionCount(sessionId string) int
}
