// Package client speaks the duel server's two surfaces: the websocket event
// stream and the HTTP read API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one server frame.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// Session is a live websocket connection to the duel server.
type Session struct {
	conn   *websocket.Conn
	events chan Event

	writeMu sync.Mutex
}

// Dial connects to the websocket endpoint. The caller owns the returned
// session and must run ReadLoop to receive events.
func Dial(ctx context.Context, serverURL string) (*Session, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, serverURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s failed: %w (HTTP %d)", serverURL, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s failed: %w", serverURL, err)
	}
	return &Session{
		conn:   conn,
		events: make(chan Event, 32),
	}, nil
}

// Events returns the server frame stream. The channel closes when ReadLoop
// exits.
func (s *Session) Events() <-chan Event {
	return s.events
}

// ReadLoop pumps server frames into Events until the connection drops or ctx
// is done. It always closes the events channel on return.
func (s *Session) ReadLoop(ctx context.Context) error {
	defer close(s.events)
	for {
		var ev Event
		if err := s.conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		}
		select {
		case s.events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Send writes one client frame. Safe for concurrent use.
func (s *Session) Send(event string, data any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := s.conn.WriteJSON(map[string]any{"event": event, "data": data}); err != nil {
		return fmt.Errorf("send %s failed: %w", event, err)
	}
	return nil
}

// Close sends a close frame and tears the connection down.
func (s *Session) Close() error {
	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	s.writeMu.Unlock()
	return s.conn.Close()
}

// ResponseInfo carries read API response details.
type ResponseInfo struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// API queries the server's HTTP read surface.
type API struct {
	baseURL string
	timeout time.Duration
}

func NewAPI(baseURL string, timeout time.Duration) *API {
	return &API{baseURL: baseURL, timeout: timeout}
}

func (a *API) SetBaseURL(baseURL string) {
	a.baseURL = baseURL
}

func (a *API) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		a.timeout = timeout
	}
}

// Get fetches a read API path and returns the raw envelope body.
func (a *API) Get(ctx context.Context, path string) (ResponseInfo, error) {
	var info ResponseInfo
	client := &http.Client{Timeout: a.timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return info, fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	info.Duration = time.Since(start)
	if err != nil {
		return info, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	info.StatusCode = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return info, fmt.Errorf("read response body failed: %w", err)
	}
	info.Body = body
	return info, nil
}
