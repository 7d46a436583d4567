package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	sessionsPath   = "/openvidu/api/sessions"
	basicAuthUser  = "OPENVIDUAPP"
	defaultTimeout = 10 * time.Second
)

// OpenViduClient talks to an OpenVidu-compatible deployment over its REST
// API and caches the active session list between calls to Refresh.
type OpenViduClient struct {
	baseUrl string
	secret  string
	http    *http.Client

	mu       sync.RWMutex
	sessions map[string]Session
}

func NewOpenViduClient(baseUrl, secret string) *OpenViduClient {
	return &OpenViduClient{
		baseUrl:  baseUrl,
		secret:   secret,
		http:     &http.Client{Timeout: defaultTimeout},
		sessions: make(map[string]Session),
	}
}

type sessionResponse struct {
	Id          string `json:"id"`
	CreatedAt   int64  `json:"createdAt"`
	Connections struct {
		NumberOfElements int `json:"numberOfElements"`
	} `json:"connections"`
}

type sessionListResponse struct {
	NumberOfElements int               `json:"numberOfElements"`
	Content          []sessionResponse `json:"content"`
}

type connectionResponse struct {
	Id    string `json:"id"`
	Token string `json:"token"`
}

func (c *OpenViduClient) do(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, rdr)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(basicAuthUser, c.secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	return data, resp.StatusCode, nil
}

// Refresh replaces the cached session snapshot with the provider's current
// active session list.
func (c *OpenViduClient) Refresh(ctx context.Context) error {
	data, status, err := c.do(ctx, http.MethodGet, sessionsPath, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: list sessions returned %d", ErrUnavailable, status)
	}

	var list sessionListResponse
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("%w: decode session list: %v", ErrUnavailable, err)
	}

	sessions := make(map[string]Session, len(list.Content))
	for _, s := range list.Content {
		sessions[s.Id] = Session{
			Id:              s.Id,
			CreatedAt:       s.CreatedAt,
			ConnectionCount: s.Connections.NumberOfElements,
		}
	}

	c.mu.Lock()
	c.sessions = sessions
	c.mu.Unlock()

	return nil
}

func (c *OpenViduClient) CreateSession(ctx context.Context, opts SessionOptions) (Session, error) {
	data, status, err := c.do(ctx, http.MethodPost, sessionsPath, opts)
	if err != nil {
		return Session{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return Session{}, fmt.Errorf("%w: create session returned %d", ErrUnavailable, status)
	}

	var resp sessionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return Session{}, fmt.Errorf("%w: decode session: %v", ErrUnavailable, err)
	}

	sess := Session{Id: resp.Id, CreatedAt: resp.CreatedAt}

	c.mu.Lock()
	c.sessions[sess.Id] = sess
	c.mu.Unlock()

	return sess, nil
}

func (c *OpenViduClient) CreateConnection(ctx context.Context, sessionId string, opts ConnectionOptions) (Connection, error) {
	if opts.Type == "" {
		opts.Type = "WEBRTC"
	}

	path := fmt.Sprintf("%s/%s/connection", sessionsPath, sessionId)
	data, status, err := c.do(ctx, http.MethodPost, path, opts)
	if err != nil {
		return Connection{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return Connection{}, fmt.Errorf("%w: create connection returned %d", ErrUnavailable, status)
	}

	var resp connectionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return Connection{}, fmt.Errorf("%w: decode connection: %v", ErrUnavailable, err)
	}

	return Connection{Id: resp.Id, Token: resp.Token}, nil
}

func (c *OpenViduClient) ActiveSession(sessionId string) (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sess, ok := c.sessions[sessionId]
	return sess, ok
}

func (c *OpenViduClient) ActiveSessionIds() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.sessions))
	for id := range c.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (c *OpenViduClient) ActiveConnectionCount(sessionId string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.sessions[sessionId].ConnectionCount
}
