package duel

import (
	"context"
	"fmt"

	"codeduel/internal/match"
	"codeduel/internal/sandbox"
	pkgerrors "codeduel/pkg/errors"
	"codeduel/pkg/utils/logger"

	"go.uber.org/zap"
)

// SubmitCode grades a submission against the room's challenge. The room,
// membership, and challenge are validated and the code recorded up front;
// the sandbox then runs outside the lock, and the score is applied when it
// returns. Both occupants receive the result, and the first full pass also
// completes the battle. One submission per player runs at a time.
func (c *Coordinator) SubmitCode(ctx context.Context, sessionID string, req SubmitCodeRequest) error {
	if req.RoomID == "" {
		return c.reject(ctx, sessionID,
			pkgerrors.Newf(pkgerrors.InvalidParams, "Invalid room_id"))
	}

	c.mu.Lock()
	room, ok := c.match.Rooms.Room(req.RoomID)
	if !ok {
		c.mu.Unlock()
		return c.reject(ctx, sessionID, pkgerrors.New(pkgerrors.RoomNotFound))
	}
	if !room.Member(req.UserID) {
		c.mu.Unlock()
		return c.reject(ctx, sessionID, pkgerrors.New(pkgerrors.PlayerNotInRoom))
	}
	if _, busy := c.inFlight[req.UserID]; busy {
		c.mu.Unlock()
		return c.reject(ctx, sessionID, pkgerrors.New(pkgerrors.SubmissionInFlight))
	}
	challenge, ok := c.library.Get(room.ChallengeID)
	if !ok {
		c.mu.Unlock()
		return c.reject(ctx, sessionID, pkgerrors.New(pkgerrors.ChallengeNotFound))
	}
	if err := c.match.Rooms.UpdateCode(req.RoomID, req.UserID, req.Code); err != nil {
		c.mu.Unlock()
		return c.reject(ctx, sessionID, err)
	}
	c.inFlight[req.UserID] = struct{}{}
	c.mu.Unlock()

	result := c.runner.Run(ctx, sandbox.Request{
		Source:       req.Code,
		FunctionName: challenge.FunctionName,
		TestCases:    challenge.TestCases,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, req.UserID)

	won, err := c.match.Rooms.UpdateTestResults(req.RoomID, req.UserID,
		result.PassedTests, result.TotalTests)
	if err != nil {
		return c.reject(ctx, sessionID, err)
	}

	c.emitRoom(room, EventCodeSubmission, SubmissionPayload{
		UserID:      req.UserID,
		RoomID:      req.RoomID,
		PassedTests: result.PassedTests,
		TotalTests:  result.TotalTests,
		Success:     result.Success,
		TestResults: result.TestResults,
		Error:       result.Error,
	})
	logger.Info(ctx, "code submission graded",
		zap.String("user_id", req.UserID),
		zap.String("room_id", req.RoomID),
		zap.Int("passed", result.PassedTests),
		zap.Int("total", result.TotalTests),
		zap.Bool("success", result.Success),
	)

	if won {
		winner := roomParticipant(room, req.UserID)
		loser := room.Opponent(req.UserID)
		c.emitRoom(room, EventBattleComplete, BattleCompletePayload{
			WinnerUsername: winner.Username,
			LoserUsername:  loser.Username,
			WinnerID:       winner.ID,
			Message:        fmt.Sprintf("%s has won the battle!", winner.Username),
		})
		logger.Info(ctx, "battle complete",
			zap.String("room_id", req.RoomID),
			zap.String("winner_id", req.UserID),
		)
	}
	return nil
}

// SyncCode records a player's live code and mirrors it to the opponent.
// Unknown rooms and non-members are dropped silently: sync fires on every
// keystroke and races room teardown by design of the feature, not an error
// worth surfacing.
func (c *Coordinator) SyncCode(ctx context.Context, sessionID string, req SyncCodeRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.match.Rooms.Room(req.RoomID)
	if !ok {
		return nil
	}
	if err := c.match.Rooms.UpdateCode(req.RoomID, req.UserID, req.Code); err != nil {
		logger.Debug(ctx, "sync dropped",
			zap.String("room_id", req.RoomID),
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return nil
	}

	opponent := room.Opponent(req.UserID)
	c.emitter.Emit(c.sessionFor(opponent), EventOpponentCodeUpdate, CodeUpdatePayload{
		Code:   req.Code,
		UserID: req.UserID,
	})
	return nil
}

// emitRoom delivers one event to both occupants. Callers hold c.mu.
func (c *Coordinator) emitRoom(room *match.Room, event string, payload any) {
	c.emitter.Emit(c.sessionFor(room.Player1), event, payload)
	c.emitter.Emit(c.sessionFor(room.Player2), event, payload)
}

func roomParticipant(room *match.Room, userID string) *match.Participant {
	switch userID {
	case room.Player1.ID:
		return room.Player1
	case room.Player2.ID:
		return room.Player2
	}
	return nil
}
