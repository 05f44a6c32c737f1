package match

import (
	"strings"
	"testing"

	pkgerrors "codeduel/pkg/errors"
)

func twoPlayers() (*Participant, *Participant) {
	return &Participant{ID: "u1", Username: "alice", Rating: 1200, SessionID: "s1"},
		&Participant{ID: "u2", Username: "bob", Rating: 1100, SessionID: "s2"}
}

func TestCreateIndexesBothPlayers(t *testing.T) {
	r := NewRooms()
	p1, p2 := twoPlayers()
	room := r.Create(p1, p2, "two_sum")

	if !strings.HasPrefix(room.ID, "room_") || len(room.ID) != len("room_")+12 {
		t.Fatalf("unexpected room id %q", room.ID)
	}
	if room.Status != StatusWaiting {
		t.Fatalf("new room should be waiting, got %s", room.Status)
	}
	for _, id := range []string{"u1", "u2"} {
		got, ok := r.ForPlayer(id)
		if !ok || got != room {
			t.Fatalf("player %s not indexed to the room", id)
		}
	}
}

func TestStartOnlyFromWaiting(t *testing.T) {
	r := NewRooms()
	p1, p2 := twoPlayers()
	room := r.Create(p1, p2, "two_sum")

	if err := r.Start(room.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if room.Status != StatusInProgress || room.StartedAt.IsZero() {
		t.Fatalf("start did not transition: %s", room.Status)
	}

	err := r.Start(room.ID)
	if !pkgerrors.Is(err, pkgerrors.RoomNotStartable) {
		t.Fatalf("second start should be rejected, got %v", err)
	}
	if err := r.Start("room_missing00"); !pkgerrors.Is(err, pkgerrors.RoomNotFound) {
		t.Fatalf("unknown room should be RoomNotFound, got %v", err)
	}
}

func TestUpdateCodeRejectsOutsiders(t *testing.T) {
	r := NewRooms()
	p1, p2 := twoPlayers()
	room := r.Create(p1, p2, "two_sum")

	if err := r.UpdateCode(room.ID, "u1", "def solve(): pass"); err != nil {
		t.Fatalf("update code: %v", err)
	}
	if room.Player1Code != "def solve(): pass" {
		t.Fatal("player1 code not recorded")
	}

	err := r.UpdateCode(room.ID, "stranger", "x = 1")
	if !pkgerrors.Is(err, pkgerrors.PlayerNotInRoom) {
		t.Fatalf("outsider should be rejected, got %v", err)
	}
	if err := r.UpdateCode("room_missing00", "u1", "x"); !pkgerrors.Is(err, pkgerrors.RoomNotFound) {
		t.Fatalf("unknown room should be RoomNotFound, got %v", err)
	}
}

func TestUpdateTestResultsTotalIsLastWriterWins(t *testing.T) {
	r := NewRooms()
	p1, p2 := twoPlayers()
	room := r.Create(p1, p2, "two_sum")
	r.Start(room.ID)

	if _, err := r.UpdateTestResults(room.ID, "u1", 2, 5); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := r.UpdateTestResults(room.ID, "u2", 1, 3); err != nil {
		t.Fatalf("update: %v", err)
	}
	if room.TotalTests != 3 {
		t.Fatalf("total must reflect the last graded submission, got %d", room.TotalTests)
	}
	if room.Player1Passed != 2 || room.Player2Passed != 1 {
		t.Fatalf("per-player counts wrong: %d %d", room.Player1Passed, room.Player2Passed)
	}
}

func TestWinExactlyOnFullPass(t *testing.T) {
	r := NewRooms()
	p1, p2 := twoPlayers()
	room := r.Create(p1, p2, "two_sum")
	r.Start(room.ID)

	won, err := r.UpdateTestResults(room.ID, "u1", 4, 5)
	if err != nil || won {
		t.Fatalf("partial pass must not win: won=%v err=%v", won, err)
	}
	if room.Status != StatusInProgress {
		t.Fatalf("room should stay in progress, got %s", room.Status)
	}

	won, err = r.UpdateTestResults(room.ID, "u2", 5, 5)
	if err != nil || !won {
		t.Fatalf("full pass must win: won=%v err=%v", won, err)
	}
	if room.Status != StatusCompleted || room.WinnerID != "u2" || room.CompletedAt.IsZero() {
		t.Fatalf("completion state wrong: %s winner=%q", room.Status, room.WinnerID)
	}
}

func TestCompletedRoomNeverTransitionsAgain(t *testing.T) {
	r := NewRooms()
	p1, p2 := twoPlayers()
	room := r.Create(p1, p2, "two_sum")
	r.Start(room.ID)
	r.UpdateTestResults(room.ID, "u1", 5, 5)

	won, err := r.UpdateTestResults(room.ID, "u2", 5, 5)
	if err != nil {
		t.Fatalf("late submission should still grade: %v", err)
	}
	if won {
		t.Fatal("late full pass must not report a win")
	}
	if room.WinnerID != "u1" || room.Status != StatusCompleted {
		t.Fatalf("winner must not change: %q %s", room.WinnerID, room.Status)
	}
	if room.Player2Passed != 5 {
		t.Fatal("late submission score should still be recorded")
	}
}

func TestUpdateTestResultsRejectedCallLeavesStateUntouched(t *testing.T) {
	r := NewRooms()
	p1, p2 := twoPlayers()
	room := r.Create(p1, p2, "two_sum")
	r.Start(room.ID)
	r.UpdateTestResults(room.ID, "u1", 2, 5)

	_, err := r.UpdateTestResults(room.ID, "stranger", 9, 9)
	if !pkgerrors.Is(err, pkgerrors.PlayerNotInRoom) {
		t.Fatalf("outsider should be rejected, got %v", err)
	}
	if room.TotalTests != 5 || room.Player1Passed != 2 || room.Player2Passed != 0 {
		t.Fatal("rejected call must not mutate the room")
	}
}

func TestZeroTestChallengeCompletesImmediately(t *testing.T) {
	r := NewRooms()
	p1, p2 := twoPlayers()
	room := r.Create(p1, p2, "empty")
	r.Start(room.ID)

	won, err := r.UpdateTestResults(room.ID, "u1", 0, 0)
	if err != nil || !won {
		t.Fatalf("0/0 counts as a full pass: won=%v err=%v", won, err)
	}
	if room.WinnerID != "u1" {
		t.Fatalf("winner not set, got %q", room.WinnerID)
	}
}

func TestAbandon(t *testing.T) {
	r := NewRooms()
	p1, p2 := twoPlayers()
	room := r.Create(p1, p2, "two_sum")
	r.Start(room.ID)

	if err := r.Abandon(room.ID); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if room.Status != StatusAbandoned || room.CompletedAt.IsZero() {
		t.Fatalf("abandon did not transition: %s", room.Status)
	}

	err := r.Abandon(room.ID)
	if !pkgerrors.Is(err, pkgerrors.RoomAlreadyFinished) {
		t.Fatalf("double abandon should be rejected, got %v", err)
	}
}

func TestRemoveCleansPlayerIndex(t *testing.T) {
	r := NewRooms()
	p1, p2 := twoPlayers()
	room := r.Create(p1, p2, "two_sum")
	r.Remove(room.ID)

	if r.Len() != 0 {
		t.Fatal("room not removed")
	}
	if _, ok := r.ForPlayer("u1"); ok {
		t.Fatal("player index should be cleaned up")
	}

	// Removal must not clobber the index when the player has moved on.
	roomA := r.Create(p1, p2, "two_sum")
	r.Abandon(roomA.ID)
	roomB := r.Create(p1, p2, "reverse_string")
	r.Remove(roomA.ID)
	if got, ok := r.ForPlayer("u1"); !ok || got != roomB {
		t.Fatal("removing an old room must keep the newest index entry")
	}
}

func TestActiveCountExcludesFinishedRooms(t *testing.T) {
	r := NewRooms()
	p1, p2 := twoPlayers()
	a := r.Create(p1, p2, "two_sum")
	b := r.Create(&Participant{ID: "u3", Username: "carol", Rating: 1000},
		&Participant{ID: "u4", Username: "dave", Rating: 1000}, "two_sum")
	r.Start(b.ID)

	if r.ActiveCount() != 2 {
		t.Fatalf("expected 2 active, got %d", r.ActiveCount())
	}
	r.Abandon(a.ID)
	r.UpdateTestResults(b.ID, "u3", 0, 0)
	if r.ActiveCount() != 0 {
		t.Fatalf("finished rooms must not count, got %d", r.ActiveCount())
	}
	if r.Len() != 2 {
		t.Fatalf("finished rooms stay queryable, got %d", r.Len())
	}
}
