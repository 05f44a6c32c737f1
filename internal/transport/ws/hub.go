// Package ws is the websocket gateway. Each connection gets a session id,
// a read pump dispatching {"event","data"} envelopes into the coordinator,
// and a write pump draining a buffered send queue. The hub's session
// registry backs the coordinator's Emitter.
package ws

import (
	"context"
	"net/http"
	"time"

	"codeduel/internal/duel"
	"codeduel/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

const (
	defaultSendBuffer      = 64
	defaultMaxMessageBytes = 128 * 1024
	defaultWriteWait       = 10 * time.Second
	defaultPongWait        = 60 * time.Second
	defaultPingPeriod      = 25 * time.Second
)

// Handler consumes inbound events. *duel.Coordinator satisfies it.
type Handler interface {
	Hello(sessionID string)
	Register(ctx context.Context, sessionID string, req duel.RegisterRequest) error
	JoinQueue(ctx context.Context, sessionID string, req duel.JoinQueueRequest) error
	LeaveQueue(ctx context.Context, sessionID string, req duel.LeaveQueueRequest) error
	SubmitCode(ctx context.Context, sessionID string, req duel.SubmitCodeRequest) error
	SyncCode(ctx context.Context, sessionID string, req duel.SyncCodeRequest) error
	Disconnect(ctx context.Context, sessionID string)
}

// Config tunes the gateway.
type Config struct {
	// SendBuffer is the per-client outbound queue length. Events beyond
	// it are dropped, never blocked on.
	SendBuffer int
	// MaxMessageBytes caps one inbound frame.
	MaxMessageBytes int64
	// AllowedOrigins restricts upgrades; empty allows every origin.
	AllowedOrigins []string

	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration
}

func (c *Config) applyDefaults() {
	if c.SendBuffer <= 0 {
		c.SendBuffer = defaultSendBuffer
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = defaultMaxMessageBytes
	}
	if c.WriteWait <= 0 {
		c.WriteWait = defaultWriteWait
	}
	if c.PongWait <= 0 {
		c.PongWait = defaultPongWait
	}
	if c.PingPeriod <= 0 {
		c.PingPeriod = defaultPingPeriod
	}
}

// Hub owns every live websocket session.
type Hub struct {
	cfg      Config
	sessions *xsync.MapOf[string, *Client]
	upgrader websocket.Upgrader
}

// NewHub creates a hub with the given config.
func NewHub(cfg Config) *Hub {
	cfg.applyDefaults()
	h := &Hub{
		cfg:      cfg,
		sessions: xsync.NewMapOf[string, *Client](),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Endpoint returns the gin handler upgrading connections and pumping them
// against the given event handler.
func (h *Hub) Endpoint(handler Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn(c.Request.Context(), "websocket upgrade failed",
				zap.String("remote", c.ClientIP()), zap.Error(err))
			return
		}

		sessionID := uuid.NewString()
		client := newClient(h, conn, sessionID)
		h.sessions.Store(sessionID, client)
		logger.Info(c.Request.Context(), "client connected",
			zap.String("session_id", sessionID),
			zap.String("remote", c.ClientIP()),
		)

		go client.writePump()
		handler.Hello(sessionID)
		client.readPump(c.Request.Context(), handler)
	}
}

// Emit queues one event for one session. Unknown sessions and full send
// queues drop the event; Emit never blocks, so the coordinator may call it
// with its state lock held.
func (h *Hub) Emit(sessionID, event string, payload any) {
	client, ok := h.sessions.Load(sessionID)
	if !ok {
		return
	}
	select {
	case <-client.done:
	case client.send <- outbound{Event: event, Data: payload}:
	default:
		logger.Warn(context.Background(), "send queue full, event dropped",
			zap.String("session_id", sessionID),
			zap.String("event", event),
		)
	}
}

// Len reports the number of live sessions.
func (h *Hub) Len() int {
	return h.sessions.Size()
}

func (h *Hub) drop(client *Client) {
	h.sessions.Delete(client.sessionID)
}
