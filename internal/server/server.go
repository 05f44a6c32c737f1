// Package server exposes the read-only HTTP API and the websocket upgrade
// endpoint over a gin router.
package server

import (
	"time"

	"codeduel/internal/catalog"
	"codeduel/internal/duel"
	pkgerrors "codeduel/pkg/errors"
	"codeduel/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// Config names the service for the banner endpoint. AllowedOrigins feeds
// the CORS middleware; empty allows any origin.
type Config struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
}

func (c *Config) applyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "CodeDuel Backend"
	}
	if c.Version == "" {
		c.Version = "1.0.0"
	}
}

// Server serves the HTTP read API over coordinator snapshots.
type Server struct {
	cfg     Config
	coord   *duel.Coordinator
	library *catalog.Library
	wsFunc  gin.HandlerFunc
}

// New creates the HTTP server. wsFunc handles GET /ws upgrades; pass the
// hub's endpoint there.
func New(cfg Config, coord *duel.Coordinator, library *catalog.Library, wsFunc gin.HandlerFunc) *Server {
	cfg.applyDefaults()
	return &Server{cfg: cfg, coord: coord, library: library, wsFunc: wsFunc}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware(s.cfg.AllowedOrigins))
	router.Use(TraceMiddleware())
	router.Use(RequestLogger())

	router.GET("/", s.handleRoot)
	api := router.Group("/api")
	{
		api.GET("/challenges", s.handleChallengeList)
		api.GET("/challenges/:id", s.handleChallengeDetail)
		api.GET("/queue-info", s.handleQueueInfo)
		api.GET("/users/:id", s.handleUserInfo)
		api.GET("/health", s.handleHealth)
	}
	if s.wsFunc != nil {
		router.GET("/ws", s.wsFunc)
	}
	return router
}

type bannerPayload struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// challengeSummary is the list view of a challenge. Test inputs and
// expected outputs never leave the server.
type challengeSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	TimeLimit   int    `json:"time_limit"`
	TestCount   int    `json:"test_count"`
}

type challengeDetail struct {
	challengeSummary
	FunctionSignature string `json:"function_signature"`
	ExampleCode       string `json:"example_code"`
}

func summarize(ch catalog.Challenge) challengeSummary {
	return challengeSummary{
		ID:          ch.ID,
		Name:        ch.Name,
		Description: ch.Description,
		Difficulty:  ch.Difficulty,
		TimeLimit:   ch.TimeLimit,
		TestCount:   len(ch.TestCases),
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	response.Success(c, bannerPayload{
		Status:    "running",
		Service:   s.cfg.ServiceName,
		Version:   s.cfg.Version,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleChallengeList(c *gin.Context) {
	list := s.library.List()
	summaries := make([]challengeSummary, 0, len(list))
	for _, ch := range list {
		summaries = append(summaries, summarize(ch))
	}
	response.Success(c, gin.H{"challenges": summaries})
}

func (s *Server) handleChallengeDetail(c *gin.Context) {
	ch, ok := s.library.Get(c.Param("id"))
	if !ok {
		response.Error(c, pkgerrors.New(pkgerrors.ChallengeNotFound))
		return
	}
	response.Success(c, challengeDetail{
		challengeSummary:  summarize(ch),
		FunctionSignature: ch.FunctionSignature,
		ExampleCode:       ch.ExampleCode,
	})
}

func (s *Server) handleQueueInfo(c *gin.Context) {
	response.Success(c, s.coord.QueueInfo())
}

func (s *Server) handleUserInfo(c *gin.Context) {
	info, ok := s.coord.UserInfo(c.Param("id"))
	if !ok {
		response.Error(c,
			pkgerrors.Newf(pkgerrors.UserNotFound, "User not found or not connected"))
		return
	}
	response.Success(c, info)
}

func (s *Server) handleHealth(c *gin.Context) {
	response.Success(c, s.coord.Health())
}
