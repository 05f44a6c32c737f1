package duel

import "codeduel/internal/sandbox"

// Outbound event names. The transport layer frames these as
// {"event": name, "data": payload} envelopes.
const (
	EventConnectionResponse = "connection_response"
	EventUserRegistered     = "user_registered"
	EventQueueJoined        = "queue_joined"
	EventQueueLeft          = "queue_left"
	EventMatchFound         = "match_found"
	EventCodeSubmission     = "code_submission"
	EventBattleComplete     = "battle_complete"
	EventOpponentCodeUpdate = "opponent_code_update"
	EventError              = "error"
)

// Inbound event names dispatched by the transport layer.
const (
	EventRegisterUser = "register_user"
	EventJoinQueue    = "join_queue"
	EventLeaveQueue   = "leave_queue"
	EventSubmitCode   = "submit_code"
	EventSyncCode     = "sync_code"
)

// RegisterRequest identifies a participant to the server.
type RegisterRequest struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	EloRating int    `json:"elo_rating"`
}

// JoinQueueRequest enters the matchmaking queue.
type JoinQueueRequest struct {
	UserID      string `json:"user_id"`
	ChallengeID string `json:"challenge_id"`
}

// LeaveQueueRequest exits the matchmaking queue.
type LeaveQueueRequest struct {
	UserID string `json:"user_id"`
}

// SubmitCodeRequest submits source for grading.
type SubmitCodeRequest struct {
	UserID string `json:"user_id"`
	RoomID string `json:"room_id"`
	Code   string `json:"code"`
}

// SyncCodeRequest mirrors live code to the opponent without grading.
type SyncCodeRequest struct {
	UserID string `json:"user_id"`
	RoomID string `json:"room_id"`
	Code   string `json:"code"`
}

// HelloPayload greets a freshly connected session.
type HelloPayload struct {
	Data string `json:"data"`
}

// RegisteredPayload acknowledges a registration.
type RegisteredPayload struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// QueueJoinedPayload acknowledges a queue join.
type QueueJoinedPayload struct {
	UserID        string `json:"user_id"`
	QueuePosition int    `json:"queue_position"`
	QueueSize     int    `json:"queue_size"`
	Message       string `json:"message"`
}

// QueueLeftPayload acknowledges a queue leave.
type QueueLeftPayload struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// OpponentSummary is what each player learns about the other on pairing.
type OpponentSummary struct {
	Username  string `json:"username"`
	EloRating int    `json:"elo_rating"`
}

// ChallengeBrief is the challenge metadata shipped with a match notice.
// Test inputs and expected outputs are deliberately absent.
type ChallengeBrief struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	Difficulty        string `json:"difficulty"`
	TimeLimit         int    `json:"time_limit"`
	FunctionSignature string `json:"function_signature"`
	TestCount         int    `json:"test_count"`
}

// MatchFoundPayload tells one player a battle is starting. The opponent
// view differs per recipient.
type MatchFoundPayload struct {
	RoomID    string          `json:"room_id"`
	Opponent  OpponentSummary `json:"opponent"`
	Challenge ChallengeBrief  `json:"challenge"`
	Message   string          `json:"message"`
}

// SubmissionPayload broadcasts one graded submission to both occupants.
type SubmissionPayload struct {
	UserID      string                `json:"user_id"`
	RoomID      string                `json:"room_id"`
	PassedTests int                   `json:"passed_tests"`
	TotalTests  int                   `json:"total_tests"`
	Success     bool                  `json:"success"`
	TestResults []sandbox.TestOutcome `json:"test_results"`
	Error       string                `json:"error"`
}

// BattleCompletePayload announces the winner to both occupants.
type BattleCompletePayload struct {
	WinnerUsername string `json:"winner_username"`
	LoserUsername  string `json:"loser_username"`
	WinnerID       string `json:"winner_id"`
	Message        string `json:"message"`
}

// CodeUpdatePayload mirrors one player's live code to the opponent.
type CodeUpdatePayload struct {
	Code   string `json:"code"`
	UserID string `json:"user_id"`
}

// ErrorPayload carries a human-readable rejection to the offending session.
type ErrorPayload struct {
	Message string `json:"message"`
}
