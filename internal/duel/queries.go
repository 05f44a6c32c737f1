package duel

import (
	"time"

	"codeduel/internal/match"
)

// QueueInfo is the public queue statistics snapshot.
type QueueInfo struct {
	QueueSize     int     `json:"queue_size"`
	ActiveBattles int     `json:"active_battles"`
	AverageElo    float64 `json:"average_elo"`
}

// UserInfo is the public roster view of one connected participant.
type UserInfo struct {
	SocketID    string    `json:"socket_id"`
	Username    string    `json:"username"`
	EloRating   int       `json:"elo_rating"`
	ConnectedAt time.Time `json:"connected_at"`
}

// HealthInfo is the liveness summary served by the health endpoint.
type HealthInfo struct {
	Status         string    `json:"status"`
	ConnectedUsers int       `json:"connected_users"`
	QueueSize      int       `json:"queue_size"`
	ActiveBattles  int       `json:"active_battles"`
	Timestamp      time.Time `json:"timestamp"`
}

// QueueInfo snapshots the queue statistics. Battles are counted while
// waiting or in progress; finished rooms do not linger in the figure.
func (c *Coordinator) QueueInfo() QueueInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return QueueInfo{
		QueueSize:     c.match.Queue.Len(),
		ActiveBattles: c.match.Rooms.ActiveCount(),
		AverageElo:    c.match.Queue.MeanRating(),
	}
}

// UserInfo returns the roster entry for a connected participant.
func (c *Coordinator) UserInfo(userID string) (UserInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	user, ok := c.users[userID]
	if !ok {
		return UserInfo{}, false
	}
	return UserInfo{
		SocketID:    user.SessionID,
		Username:    user.Username,
		EloRating:   user.Rating,
		ConnectedAt: user.ConnectedAt,
	}, true
}

// RoomSummary snapshots one battle room.
func (c *Coordinator) RoomSummary(roomID string) (match.RoomSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	room, ok := c.match.Rooms.Room(roomID)
	if !ok {
		return match.RoomSummary{}, false
	}
	return room.Summary(), true
}

// Health snapshots the liveness summary.
func (c *Coordinator) Health() HealthInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return HealthInfo{
		Status:         "healthy",
		ConnectedUsers: len(c.users),
		QueueSize:      c.match.Queue.Len(),
		ActiveBattles:  c.match.Rooms.ActiveCount(),
		Timestamp:      time.Now().UTC(),
	}
}
