package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeduel/internal/catalog"
	"codeduel/internal/duel"
	"codeduel/internal/sandbox"

	"github.com/gin-gonic/gin"
)

type nullEmitter struct{}

func (nullEmitter) Emit(string, string, any) {}

type nullRunner struct{}

func (nullRunner) Run(context.Context, sandbox.Request) sandbox.ExecutionResult {
	return sandbox.ExecutionResult{}
}

type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	TraceID string          `json:"trace_id"`
}

func newTestServer(t *testing.T) (*Server, *duel.Coordinator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	library := catalog.BuiltIn()
	coord := duel.New(library, nullRunner{}, nullEmitter{})
	return New(Config{}, coord, library, nil), coord
}

func get(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("GET %s: bad envelope: %v (%s)", path, err, w.Body.String())
	}
	return w, env
}

func TestRootBanner(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	w, env := get(t, router, "/")
	if w.Code != http.StatusOK || env.Code != 10000 {
		t.Fatalf("unexpected status %d / code %d", w.Code, env.Code)
	}
	var banner bannerPayload
	if err := json.Unmarshal(env.Data, &banner); err != nil {
		t.Fatalf("bad banner: %v", err)
	}
	if banner.Status != "running" || banner.Service == "" || banner.Version == "" {
		t.Fatalf("bad banner payload: %+v", banner)
	}
	if w.Header().Get("X-Trace-Id") == "" {
		t.Fatal("trace header missing")
	}
}

func TestChallengeListHidesTestData(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	w, env := get(t, router, "/api/challenges")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var data struct {
		Challenges []challengeSummary `json:"challenges"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("bad list: %v", err)
	}
	if len(data.Challenges) != 7 {
		t.Fatalf("expected 7 challenges, got %d", len(data.Challenges))
	}
	first := data.Challenges[0]
	if first.ID != "palindrome" || first.TestCount != 5 {
		t.Fatalf("bad first entry: %+v", first)
	}
	if strings.Contains(w.Body.String(), "expected") ||
		strings.Contains(w.Body.String(), "test_cases") {
		t.Fatal("list must not leak test cases")
	}
}

func TestChallengeDetail(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	w, env := get(t, router, "/api/challenges/palindrome")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var detail challengeDetail
	if err := json.Unmarshal(env.Data, &detail); err != nil {
		t.Fatalf("bad detail: %v", err)
	}
	if detail.FunctionSignature != "def is_palindrome(s: str) -> bool:" ||
		detail.ExampleCode == "" {
		t.Fatalf("bad detail payload: %+v", detail)
	}
	if strings.Contains(w.Body.String(), "radar") {
		t.Fatal("detail must not leak test cases")
	}

	w, env = get(t, router, "/api/challenges/no_such_puzzle")
	if w.Code != http.StatusNotFound || env.Code != 12000 {
		t.Fatalf("expected 404/12000, got %d/%d", w.Code, env.Code)
	}
}

func TestQueueInfoAndHealth(t *testing.T) {
	srv, coord := newTestServer(t)
	router := srv.Router()

	ctx := context.Background()
	if err := coord.Register(ctx, "s1", duel.RegisterRequest{
		UserID: "u1", Username: "alice", EloRating: 1500,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := coord.JoinQueue(ctx, "s1", duel.JoinQueueRequest{UserID: "u1"}); err != nil {
		t.Fatalf("join: %v", err)
	}

	_, env := get(t, router, "/api/queue-info")
	var qi duel.QueueInfo
	if err := json.Unmarshal(env.Data, &qi); err != nil {
		t.Fatalf("bad queue info: %v", err)
	}
	if qi.QueueSize != 1 || qi.AverageElo != 1500 || qi.ActiveBattles != 0 {
		t.Fatalf("bad queue info: %+v", qi)
	}

	_, env = get(t, router, "/api/health")
	var health duel.HealthInfo
	if err := json.Unmarshal(env.Data, &health); err != nil {
		t.Fatalf("bad health: %v", err)
	}
	if health.Status != "healthy" || health.ConnectedUsers != 1 {
		t.Fatalf("bad health: %+v", health)
	}
}

func TestCORSHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	library := catalog.BuiltIn()
	coord := duel.New(library, nullRunner{}, nullEmitter{})

	// Empty allow list: any origin may read.
	router := New(Config{}, coord, library, nil).Router()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("open CORS: got %q", got)
	}

	// Restricted list: unknown origin gets no CORS headers, preflight 403.
	router = New(Config{AllowedOrigins: []string{"https://duel.example"}}, coord, library, nil).Router()
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected CORS header %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("preflight from unknown origin: status %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "https://duel.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight from allowed origin: status %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://duel.example" {
		t.Fatalf("allowed origin echo: got %q", got)
	}
}

func TestUserInfo(t *testing.T) {
	srv, coord := newTestServer(t)
	router := srv.Router()

	if err := coord.Register(context.Background(), "sock-7",
		duel.RegisterRequest{UserID: "u1", Username: "alice", EloRating: 1200}); err != nil {
		t.Fatalf("register: %v", err)
	}

	w, env := get(t, router, "/api/users/u1")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var info duel.UserInfo
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatalf("bad user info: %v", err)
	}
	if info.SocketID != "sock-7" || info.Username != "alice" || info.EloRating != 1200 {
		t.Fatalf("bad user info: %+v", info)
	}

	w, env = get(t, router, "/api/users/nobody")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if env.Message != "User not found or not connected" {
		t.Fatalf("bad message: %q", env.Message)
	}
}
