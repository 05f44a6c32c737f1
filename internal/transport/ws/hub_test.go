package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"codeduel/internal/duel"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type fakeHandler struct {
	hub *Hub

	mu          sync.Mutex
	hellos      []string
	registers   []duel.RegisterRequest
	joins       []duel.JoinQueueRequest
	leaves      []duel.LeaveQueueRequest
	syncs       []duel.SyncCodeRequest
	disconnects []string

	submitEntered chan string
	submitRelease chan struct{}
}

func (f *fakeHandler) Hello(sessionID string) {
	f.mu.Lock()
	f.hellos = append(f.hellos, sessionID)
	f.mu.Unlock()
	f.hub.Emit(sessionID, duel.EventConnectionResponse,
		duel.HelloPayload{Data: "Connected to server"})
}

func (f *fakeHandler) Register(_ context.Context, sessionID string, req duel.RegisterRequest) error {
	f.mu.Lock()
	f.registers = append(f.registers, req)
	f.mu.Unlock()
	f.hub.Emit(sessionID, duel.EventUserRegistered, duel.RegisteredPayload{
		UserID:   req.UserID,
		Username: req.Username,
		Message:  "User registered successfully",
	})
	return nil
}

func (f *fakeHandler) JoinQueue(_ context.Context, _ string, req duel.JoinQueueRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joins = append(f.joins, req)
	return nil
}

func (f *fakeHandler) LeaveQueue(_ context.Context, _ string, req duel.LeaveQueueRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaves = append(f.leaves, req)
	return nil
}

func (f *fakeHandler) SubmitCode(_ context.Context, sessionID string, _ duel.SubmitCodeRequest) error {
	if f.submitEntered != nil {
		f.submitEntered <- sessionID
		<-f.submitRelease
	}
	return nil
}

func (f *fakeHandler) SyncCode(_ context.Context, _ string, req duel.SyncCodeRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncs = append(f.syncs, req)
	return nil
}

func (f *fakeHandler) Disconnect(_ context.Context, sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects = append(f.disconnects, sessionID)
}

func (f *fakeHandler) syncCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.syncs)
}

func (f *fakeHandler) disconnectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.disconnects)
}

func newTestConn(t *testing.T, prepare func(*fakeHandler)) (*Hub, *fakeHandler, *websocket.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(Config{})
	handler := &fakeHandler{hub: hub}
	if prepare != nil {
		prepare(handler)
	}
	router := gin.New()
	router.GET("/ws", hub.Endpoint(handler))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return hub, handler, conn
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"event": event, "data": data}); err != nil {
		t.Fatalf("write %s: %v", event, err)
	}
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestConnectGreetsAndTracksSession(t *testing.T) {
	hub, handler, conn := newTestConn(t, nil)

	hello := readFrame(t, conn)
	if hello.Event != duel.EventConnectionResponse {
		t.Fatalf("expected hello first, got %q", hello.Event)
	}
	var payload duel.HelloPayload
	if err := json.Unmarshal(hello.Data, &payload); err != nil || payload.Data != "Connected to server" {
		t.Fatalf("bad hello payload: %s", hello.Data)
	}
	if hub.Len() != 1 {
		t.Fatalf("expected one session, got %d", hub.Len())
	}

	handler.mu.Lock()
	hellos := len(handler.hellos)
	handler.mu.Unlock()
	if hellos != 1 {
		t.Fatalf("expected one hello call, got %d", hellos)
	}
}

func TestDispatchRoutesEventsInOrder(t *testing.T) {
	_, handler, conn := newTestConn(t, nil)
	readFrame(t, conn) // hello

	sendEvent(t, conn, duel.EventRegisterUser,
		duel.RegisterRequest{UserID: "u1", Username: "alice", EloRating: 1200})
	ack := readFrame(t, conn)
	if ack.Event != duel.EventUserRegistered {
		t.Fatalf("expected registration ack, got %q", ack.Event)
	}

	sendEvent(t, conn, duel.EventJoinQueue,
		duel.JoinQueueRequest{UserID: "u1", ChallengeID: "palindrome"})
	sendEvent(t, conn, duel.EventLeaveQueue, duel.LeaveQueueRequest{UserID: "u1"})
	sendEvent(t, conn, duel.EventSyncCode,
		duel.SyncCodeRequest{UserID: "u1", RoomID: "room_x", Code: "pass"})

	waitFor(t, func() bool { return handler.syncCount() == 1 }, "sync dispatch")
	handler.mu.Lock()
	defer handler.mu.Unlock()
	if len(handler.registers) != 1 || handler.registers[0].UserID != "u1" {
		t.Fatalf("register not dispatched: %+v", handler.registers)
	}
	if len(handler.joins) != 1 || handler.joins[0].ChallengeID != "palindrome" {
		t.Fatalf("join not dispatched: %+v", handler.joins)
	}
	if len(handler.leaves) != 1 || len(handler.syncs) != 1 {
		t.Fatalf("leave/sync not dispatched: %+v %+v", handler.leaves, handler.syncs)
	}
}

func TestMalformedAndUnknownFramesReportErrors(t *testing.T) {
	_, _, conn := newTestConn(t, nil)
	readFrame(t, conn) // hello

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	errFrame := readFrame(t, conn)
	if errFrame.Event != duel.EventError {
		t.Fatalf("expected error event, got %q", errFrame.Event)
	}
	var payload duel.ErrorPayload
	_ = json.Unmarshal(errFrame.Data, &payload)
	if payload.Message != "Invalid message format" {
		t.Fatalf("bad error message: %q", payload.Message)
	}

	sendEvent(t, conn, "moonwalk", nil)
	errFrame = readFrame(t, conn)
	_ = json.Unmarshal(errFrame.Data, &payload)
	if payload.Message != "Unknown event: moonwalk" {
		t.Fatalf("bad unknown-event message: %q", payload.Message)
	}
}

func TestSubmitDoesNotStallTheReadPump(t *testing.T) {
	_, handler, conn := newTestConn(t, func(f *fakeHandler) {
		f.submitEntered = make(chan string, 1)
		f.submitRelease = make(chan struct{})
	})
	readFrame(t, conn) // hello

	sendEvent(t, conn, duel.EventSubmitCode,
		duel.SubmitCodeRequest{UserID: "u1", RoomID: "room_x", Code: "slow"})
	select {
	case <-handler.submitEntered:
	case <-time.After(2 * time.Second):
		t.Fatal("submit never dispatched")
	}

	// The grading run is still blocked; the connection must keep serving.
	sendEvent(t, conn, duel.EventSyncCode,
		duel.SyncCodeRequest{UserID: "u1", RoomID: "room_x", Code: "draft"})
	waitFor(t, func() bool { return handler.syncCount() == 1 }, "sync during submit")
	close(handler.submitRelease)
}

func TestEmitToUnknownSessionIsNoop(t *testing.T) {
	hub := NewHub(Config{})
	hub.Emit("ghost", duel.EventError, duel.ErrorPayload{Message: "x"})
	if hub.Len() != 0 {
		t.Fatal("no session should exist")
	}
}

func TestCloseTearsDownSession(t *testing.T) {
	hub, handler, conn := newTestConn(t, nil)
	readFrame(t, conn) // hello

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	waitFor(t, func() bool { return handler.disconnectCount() == 1 }, "disconnect callback")
	waitFor(t, func() bool { return hub.Len() == 0 }, "session removal")
}
