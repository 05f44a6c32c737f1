// Package duel coordinates the matchmaking queue, battle rooms, and the
// execution sandbox behind the event contract the transport layer speaks.
//
// One mutex serializes every queue, room, and roster mutation. Sandbox
// execution is the only work performed outside the lock; its result is
// re-applied under the lock afterwards. Events are emitted while the lock
// is held so their order always matches the mutation order, which is why
// Emitter implementations must never block.
package duel

import (
	"context"
	"sync"
	"time"

	"codeduel/internal/catalog"
	"codeduel/internal/match"
	"codeduel/internal/sandbox"
	pkgerrors "codeduel/pkg/errors"
	"codeduel/pkg/utils/logger"

	"go.uber.org/zap"
)

// DefaultChallengeID is used when a queue join names no challenge.
const DefaultChallengeID = "palindrome"

// Runner grades one submission inside an isolation boundary. Failures are
// encoded in the returned ExecutionResult, never raised.
type Runner interface {
	Run(ctx context.Context, req sandbox.Request) sandbox.ExecutionResult
}

// Emitter delivers one event to one transport session. Delivery to an
// unknown or closed session must be a silent no-op, and Emit must not
// block: the coordinator calls it with its state lock held.
type Emitter interface {
	Emit(sessionID, event string, payload any)
}

// User is a registered participant's roster entry.
type User struct {
	ID          string
	Username    string
	Rating      int
	SessionID   string
	ConnectedAt time.Time
}

// Coordinator owns the roster, the matchmaking queue, and the battle room
// registry, and drives the sandbox for submissions.
type Coordinator struct {
	mu       sync.Mutex
	users    map[string]*User
	sessions map[string]string
	inFlight map[string]struct{}

	match   *match.Matchmaker
	library *catalog.Library
	runner  Runner
	emitter Emitter
}

// New creates a coordinator over the given catalog, sandbox runner, and
// transport emitter.
func New(library *catalog.Library, runner Runner, emitter Emitter) *Coordinator {
	return &Coordinator{
		users:    make(map[string]*User),
		sessions: make(map[string]string),
		inFlight: make(map[string]struct{}),
		match:    match.NewMatchmaker(),
		library:  library,
		runner:   runner,
		emitter:  emitter,
	}
}

// Hello greets a freshly connected session.
func (c *Coordinator) Hello(sessionID string) {
	c.emitter.Emit(sessionID, EventConnectionResponse,
		HelloPayload{Data: "Connected to server"})
}

// Register records or refreshes a participant identity. Registration has
// no queue effect; re-registering from a new session moves the identity
// there.
func (c *Coordinator) Register(ctx context.Context, sessionID string, req RegisterRequest) error {
	if req.UserID == "" || req.Username == "" {
		return c.reject(ctx, sessionID,
			pkgerrors.Newf(pkgerrors.RequiredFieldEmpty, "Missing user_id or username"))
	}
	rating := req.EloRating
	if rating == 0 {
		rating = match.DefaultRating
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.users[req.UserID] = &User{
		ID:          req.UserID,
		Username:    req.Username,
		Rating:      rating,
		SessionID:   sessionID,
		ConnectedAt: time.Now().UTC(),
	}
	c.sessions[sessionID] = req.UserID

	c.emitter.Emit(sessionID, EventUserRegistered, RegisteredPayload{
		UserID:   req.UserID,
		Username: req.Username,
		Message:  "User registered successfully",
	})
	logger.Info(ctx, "user registered",
		zap.String("user_id", req.UserID),
		zap.String("username", req.Username),
		zap.Int("elo_rating", rating),
	)
	return nil
}

// JoinQueue enqueues a registered participant and then drains the queue,
// starting a battle for every pair it can form. The join is acknowledged
// before any match notice goes out.
func (c *Coordinator) JoinQueue(ctx context.Context, sessionID string, req JoinQueueRequest) error {
	challengeID := req.ChallengeID
	if challengeID == "" {
		challengeID = DefaultChallengeID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.users[req.UserID]
	if !ok {
		return c.reject(ctx, sessionID,
			pkgerrors.Newf(pkgerrors.UserNotRegistered, "User not registered"))
	}
	challenge, ok := c.library.Get(challengeID)
	if !ok {
		return c.reject(ctx, sessionID, pkgerrors.New(pkgerrors.ChallengeNotFound))
	}

	c.match.Queue.Join(user.ID, user.Username, user.Rating, sessionID)
	c.emitter.Emit(sessionID, EventQueueJoined, QueueJoinedPayload{
		UserID:        user.ID,
		QueuePosition: c.match.Queue.Position(user.ID),
		QueueSize:     c.match.Queue.Len(),
		Message:       "Joined matchmaking queue",
	})
	logger.Info(ctx, "user joined queue",
		zap.String("user_id", user.ID),
		zap.String("challenge_id", challengeID),
		zap.Int("queue_size", c.match.Queue.Len()),
	)

	c.drainMatches(ctx, challenge)
	return nil
}

// drainMatches pairs players until no further match forms. Every room is
// started immediately and both players are notified individually. Callers
// hold c.mu.
func (c *Coordinator) drainMatches(ctx context.Context, challenge catalog.Challenge) {
	brief := ChallengeBrief{
		ID:                challenge.ID,
		Name:              challenge.Name,
		Description:       challenge.Description,
		Difficulty:        challenge.Difficulty,
		TimeLimit:         challenge.TimeLimit,
		FunctionSignature: challenge.FunctionSignature,
		TestCount:         len(challenge.TestCases),
	}

	for {
		room := c.match.AttemptMatch(challenge.ID)
		if room == nil {
			return
		}
		if err := c.match.Rooms.Start(room.ID); err != nil {
			logger.Error(ctx, "failed to start battle",
				zap.String("room_id", room.ID), zap.Error(err))
			continue
		}

		c.notifyMatch(room.Player1, room.Player2, room.ID, brief)
		c.notifyMatch(room.Player2, room.Player1, room.ID, brief)
		logger.Info(ctx, "match created",
			zap.String("room_id", room.ID),
			zap.String("player1", room.Player1.Username),
			zap.String("player2", room.Player2.Username),
			zap.String("challenge_id", challenge.ID),
		)
	}
}

func (c *Coordinator) notifyMatch(to, opponent *match.Participant, roomID string, brief ChallengeBrief) {
	c.emitter.Emit(c.sessionFor(to), EventMatchFound, MatchFoundPayload{
		RoomID: roomID,
		Opponent: OpponentSummary{
			Username:  opponent.Username,
			EloRating: opponent.Rating,
		},
		Challenge: brief,
		Message:   "Match found! Battle starting in 3 seconds...",
	})
}

// LeaveQueue dequeues a participant. Leaving while absent is still
// acknowledged; rooms are untouched.
func (c *Coordinator) LeaveQueue(ctx context.Context, sessionID string, req LeaveQueueRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.match.Queue.Leave(req.UserID)
	c.emitter.Emit(sessionID, EventQueueLeft, QueueLeftPayload{
		UserID:  req.UserID,
		Message: "Left matchmaking queue",
	})
	logger.Info(ctx, "user left queue", zap.String("user_id", req.UserID))
	return nil
}

// Disconnect tears down a session: the owning participant leaves the queue
// and the roster. A newer registration from another session survives, and
// rooms are left to the abandon policy.
func (c *Coordinator) Disconnect(ctx context.Context, sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	userID, ok := c.sessions[sessionID]
	if !ok {
		return
	}
	delete(c.sessions, sessionID)

	user, ok := c.users[userID]
	if !ok || user.SessionID != sessionID {
		return
	}
	c.match.Queue.Leave(userID)
	delete(c.users, userID)
	logger.Info(ctx, "user disconnected", zap.String("user_id", userID))
}

// AbandonRoom marks a non-terminal room ABANDONED. The policy deciding
// when to abandon (disconnect grace, duel timeout) lives with the caller.
func (c *Coordinator) AbandonRoom(ctx context.Context, roomID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.match.Rooms.Abandon(roomID); err != nil {
		return err
	}
	logger.Info(ctx, "battle abandoned", zap.String("room_id", roomID))
	return nil
}

// sessionFor resolves a participant's current transport session. The
// roster wins over the session captured at queue time, so a reconnected
// player keeps receiving battle events. Callers hold c.mu.
func (c *Coordinator) sessionFor(p *match.Participant) string {
	if user, ok := c.users[p.ID]; ok {
		return user.SessionID
	}
	return p.SessionID
}

// reject reports a failed request to the offending session and returns
// the error for the transport layer.
func (c *Coordinator) reject(ctx context.Context, sessionID string, err error) error {
	c.emitter.Emit(sessionID, EventError,
		ErrorPayload{Message: pkgerrors.GetError(err).Message})
	logger.Warn(ctx, "request rejected",
		zap.String("session_id", sessionID), zap.Error(err))
	return err
}
