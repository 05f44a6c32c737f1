package match

import "time"

// Status is the battle room lifecycle state.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// Room is one battle between two players.
//
// TotalTests is shared by both players and reflects whichever submission was
// graded last. With both players dueling the same challenge the value agrees
// between them; it is kept room-wide to match the established wire contract.
type Room struct {
	ID          string
	Player1     *Participant
	Player2     *Participant
	ChallengeID string
	Status      Status
	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time

	Player1Code   string
	Player2Code   string
	Player1Passed int
	Player2Passed int
	TotalTests    int

	WinnerID string
}

// Member reports whether the given user plays in this room.
func (r *Room) Member(userID string) bool {
	return userID == r.Player1.ID || userID == r.Player2.ID
}

// Opponent returns the other player, nil when userID is not a member.
func (r *Room) Opponent(userID string) *Participant {
	switch userID {
	case r.Player1.ID:
		return r.Player2
	case r.Player2.ID:
		return r.Player1
	}
	return nil
}

// PlayerSummary is the exported per-player view of a room.
type PlayerSummary struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	EloRating   int    `json:"elo_rating"`
	Code        string `json:"code"`
	TestsPassed int    `json:"tests_passed"`
}

// RoomSummary is the exported room snapshot.
type RoomSummary struct {
	RoomID      string        `json:"room_id"`
	Player1     PlayerSummary `json:"player1"`
	Player2     PlayerSummary `json:"player2"`
	ChallengeID string        `json:"challenge_id"`
	Status      Status        `json:"status"`
	TotalTests  int           `json:"total_tests"`
	WinnerID    string        `json:"winner_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Summary snapshots the room for transport.
func (r *Room) Summary() RoomSummary {
	return RoomSummary{
		RoomID: r.ID,
		Player1: PlayerSummary{
			UserID:      r.Player1.ID,
			Username:    r.Player1.Username,
			EloRating:   r.Player1.Rating,
			Code:        r.Player1Code,
			TestsPassed: r.Player1Passed,
		},
		Player2: PlayerSummary{
			UserID:      r.Player2.ID,
			Username:    r.Player2.Username,
			EloRating:   r.Player2.Rating,
			Code:        r.Player2Code,
			TestsPassed: r.Player2Passed,
		},
		ChallengeID: r.ChallengeID,
		Status:      r.Status,
		TotalTests:  r.TotalTests,
		WinnerID:    r.WinnerID,
		CreatedAt:   r.CreatedAt,
	}
}
