package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"codeduel/internal/duel"
	"codeduel/pkg/utils/contextkey"
	"codeduel/pkg/utils/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// envelope frames every inbound message.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// outbound frames every outgoing message.
type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client is one live websocket session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string

	send chan outbound
	done chan struct{}
	once sync.Once
}

func newClient(h *Hub, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		hub:       h,
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan outbound, h.cfg.SendBuffer),
		done:      make(chan struct{}),
	}
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// readPump drains the connection and dispatches envelopes until the peer
// goes away, then tears the session down.
func (c *Client) readPump(ctx context.Context, handler Handler) {
	ctx = context.WithValue(ctx, contextkey.SessionID, c.sessionID)
	defer func() {
		c.hub.drop(c)
		c.close()
		_ = c.conn.Close()
		handler.Disconnect(context.WithoutCancel(ctx), c.sessionID)
		logger.Info(ctx, "client disconnected", zap.String("session_id", c.sessionID))
	}()

	c.conn.SetReadLimit(c.hub.cfg.MaxMessageBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn(ctx, "websocket read failed",
					zap.String("session_id", c.sessionID), zap.Error(err))
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
			c.hub.Emit(c.sessionID, duel.EventError,
				duel.ErrorPayload{Message: "Invalid message format"})
			continue
		}
		c.dispatch(ctx, handler, env)
	}
}

// dispatch routes one envelope. submit_code runs in its own goroutine so a
// grading run never stalls the read pump; everything else is quick and
// stays in order on this connection.
func (c *Client) dispatch(ctx context.Context, handler Handler, env envelope) {
	switch env.Event {
	case duel.EventRegisterUser:
		var req duel.RegisterRequest
		if !c.decode(env.Data, &req) {
			return
		}
		_ = handler.Register(ctx, c.sessionID, req)

	case duel.EventJoinQueue:
		var req duel.JoinQueueRequest
		if !c.decode(env.Data, &req) {
			return
		}
		_ = handler.JoinQueue(ctx, c.sessionID, req)

	case duel.EventLeaveQueue:
		var req duel.LeaveQueueRequest
		if !c.decode(env.Data, &req) {
			return
		}
		_ = handler.LeaveQueue(ctx, c.sessionID, req)

	case duel.EventSubmitCode:
		var req duel.SubmitCodeRequest
		if !c.decode(env.Data, &req) {
			return
		}
		// The result must land even if this connection dies mid-run.
		runCtx := context.WithoutCancel(ctx)
		go func() { _ = handler.SubmitCode(runCtx, c.sessionID, req) }()

	case duel.EventSyncCode:
		var req duel.SyncCodeRequest
		if !c.decode(env.Data, &req) {
			return
		}
		_ = handler.SyncCode(ctx, c.sessionID, req)

	default:
		c.hub.Emit(c.sessionID, duel.EventError,
			duel.ErrorPayload{Message: "Unknown event: " + env.Event})
	}
}

func (c *Client) decode(raw json.RawMessage, out any) bool {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.hub.Emit(c.sessionID, duel.EventError,
			duel.ErrorPayload{Message: "Invalid message format"})
		return false
	}
	return true
}

// writePump flushes queued events and keeps the connection alive with
// pings until the session closes.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
