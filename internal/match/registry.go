package match

import (
	"strings"
	"time"

	pkgerrors "codeduel/pkg/errors"

	"github.com/google/uuid"
)

// Rooms is the battle room registry. Finished rooms stay queryable until
// explicitly removed; only ActiveCount distinguishes live battles.
type Rooms struct {
	rooms      map[string]*Room
	playerRoom map[string]string
}

// NewRooms creates an empty registry.
func NewRooms() *Rooms {
	return &Rooms{
		rooms:      make(map[string]*Room),
		playerRoom: make(map[string]string),
	}
}

func newRoomID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "room_" + hex[:12]
}

// Create registers a WAITING room for the two players and indexes both ids.
// A player's previous finished room stays in the registry; the player index
// always points at the newest room.
func (r *Rooms) Create(p1, p2 *Participant, challengeID string) *Room {
	room := &Room{
		ID:          newRoomID(),
		Player1:     p1,
		Player2:     p2,
		ChallengeID: challengeID,
		Status:      StatusWaiting,
		CreatedAt:   time.Now().UTC(),
	}
	r.rooms[room.ID] = room
	r.playerRoom[p1.ID] = room.ID
	r.playerRoom[p2.ID] = room.ID
	return room
}

// Room returns the room with the given id.
func (r *Rooms) Room(roomID string) (*Room, bool) {
	room, ok := r.rooms[roomID]
	return room, ok
}

// ForPlayer returns the newest room the player was matched into.
func (r *Rooms) ForPlayer(userID string) (*Room, bool) {
	roomID, ok := r.playerRoom[userID]
	if !ok {
		return nil, false
	}
	return r.Room(roomID)
}

// Start moves a WAITING room to IN_PROGRESS.
func (r *Rooms) Start(roomID string) error {
	room, ok := r.rooms[roomID]
	if !ok {
		return pkgerrors.New(pkgerrors.RoomNotFound)
	}
	if room.Status != StatusWaiting {
		return pkgerrors.Newf(pkgerrors.RoomNotStartable,
			"room %s is %s", roomID, room.Status)
	}
	room.Status = StatusInProgress
	room.StartedAt = time.Now().UTC()
	return nil
}

// UpdateCode records a player's current code. Unknown rooms or non-member
// players are rejected without touching any state.
func (r *Rooms) UpdateCode(roomID, playerID, code string) error {
	room, ok := r.rooms[roomID]
	if !ok {
		return pkgerrors.New(pkgerrors.RoomNotFound)
	}
	switch playerID {
	case room.Player1.ID:
		room.Player1Code = code
	case room.Player2.ID:
		room.Player2Code = code
	default:
		return pkgerrors.New(pkgerrors.PlayerNotInRoom)
	}
	return nil
}

// UpdateTestResults records a graded submission. The room-wide TotalTests
// takes this submission's total (last writer wins). The player wins exactly
// when passed equals total; a room already in a terminal state never
// transitions again, keeps its winner, and reports won=false. Membership is
// validated before any mutation.
func (r *Rooms) UpdateTestResults(roomID, playerID string, passed, total int) (bool, error) {
	room, ok := r.rooms[roomID]
	if !ok {
		return false, pkgerrors.New(pkgerrors.RoomNotFound)
	}
	if !room.Member(playerID) {
		return false, pkgerrors.New(pkgerrors.PlayerNotInRoom)
	}

	room.TotalTests = total
	if playerID == room.Player1.ID {
		room.Player1Passed = passed
	} else {
		room.Player2Passed = passed
	}

	if passed == total && !room.Status.Terminal() {
		room.Status = StatusCompleted
		room.WinnerID = playerID
		room.CompletedAt = time.Now().UTC()
		return true, nil
	}
	return false, nil
}

// Abandon marks a non-terminal room ABANDONED.
func (r *Rooms) Abandon(roomID string) error {
	room, ok := r.rooms[roomID]
	if !ok {
		return pkgerrors.New(pkgerrors.RoomNotFound)
	}
	if room.Status.Terminal() {
		return pkgerrors.Newf(pkgerrors.RoomAlreadyFinished,
			"room %s is %s", roomID, room.Status)
	}
	room.Status = StatusAbandoned
	room.CompletedAt = time.Now().UTC()
	return nil
}

// Remove deletes a room and any player index entries still pointing at it.
func (r *Rooms) Remove(roomID string) {
	room, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(r.rooms, roomID)
	for _, id := range []string{room.Player1.ID, room.Player2.ID} {
		if r.playerRoom[id] == roomID {
			delete(r.playerRoom, id)
		}
	}
}

// Len counts every registered room, finished ones included.
func (r *Rooms) Len() int {
	return len(r.rooms)
}

// ActiveCount counts rooms still waiting or in progress.
func (r *Rooms) ActiveCount() int {
	n := 0
	for _, room := range r.rooms {
		if !room.Status.Terminal() {
			n++
		}
	}
	return n
}

// Summaries snapshots every room, newest-first ordering not guaranteed.
func (r *Rooms) Summaries() []RoomSummary {
	out := make([]RoomSummary, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room.Summary())
	}
	return out
}
