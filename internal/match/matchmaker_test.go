package match

import "testing"

func TestAttemptMatchPairsHeadWithClosest(t *testing.T) {
	m := NewMatchmaker()
	m.Queue.Join("a", "alice", 1000, "")
	m.Queue.Join("b", "bob", 1500, "")
	m.Queue.Join("c", "carol", 1050, "")

	room := m.AttemptMatch("two_sum")
	if room == nil {
		t.Fatal("expected a match")
	}
	if room.Player1.ID != "a" || room.Player2.ID != "c" {
		t.Fatalf("expected head paired with closest, got %s vs %s",
			room.Player1.ID, room.Player2.ID)
	}
	if room.ChallengeID != "two_sum" {
		t.Fatalf("challenge not carried, got %q", room.ChallengeID)
	}
	if m.Queue.Len() != 1 || m.Queue.Position("b") != 1 {
		t.Fatal("matched players must leave the queue together")
	}
}

func TestAttemptMatchNeedsTwoPlayers(t *testing.T) {
	m := NewMatchmaker()
	if room := m.AttemptMatch("two_sum"); room != nil {
		t.Fatalf("empty queue matched: %+v", room)
	}
	m.Queue.Join("a", "alice", 1000, "")
	if room := m.AttemptMatch("two_sum"); room != nil {
		t.Fatalf("lone player matched: %+v", room)
	}
	if m.Queue.Len() != 1 {
		t.Fatal("failed attempt must leave the queue untouched")
	}
}

func TestAttemptMatchDrainsQueueInPairs(t *testing.T) {
	m := NewMatchmaker()
	m.Queue.Join("a", "a", 1000, "")
	m.Queue.Join("b", "b", 1010, "")
	m.Queue.Join("c", "c", 2000, "")
	m.Queue.Join("d", "d", 2020, "")

	var rooms []*Room
	for {
		room := m.AttemptMatch("two_sum")
		if room == nil {
			break
		}
		rooms = append(rooms, room)
	}
	if len(rooms) != 2 || m.Queue.Len() != 0 {
		t.Fatalf("expected 2 rooms and empty queue, got %d rooms, %d queued",
			len(rooms), m.Queue.Len())
	}
	if m.Rooms.ActiveCount() != 2 {
		t.Fatalf("both rooms should be registered, got %d", m.Rooms.ActiveCount())
	}
}
