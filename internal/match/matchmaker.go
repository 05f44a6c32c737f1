package match

// DefaultTolerance is the rating window preferred when pairing.
const DefaultTolerance = 200

// Matchmaker pairs queued players into battle rooms.
type Matchmaker struct {
	Queue     *Queue
	Rooms     *Rooms
	Tolerance int
}

// NewMatchmaker creates a matchmaker with a fresh queue and registry.
func NewMatchmaker() *Matchmaker {
	return &Matchmaker{
		Queue:     NewQueue(),
		Rooms:     NewRooms(),
		Tolerance: DefaultTolerance,
	}
}

// AttemptMatch pairs the queue head with its best opponent. Room creation
// and both queue removals happen together, so no caller can observe a
// matched player still queued. Returns nil when no pair can form, with no
// side effects.
func (m *Matchmaker) AttemptMatch(challengeID string) *Room {
	if m.Queue.Len() < 2 {
		return nil
	}
	seeker := m.Queue.Head()
	opponent := m.Queue.PairFor(seeker, m.Tolerance)
	if opponent == nil {
		return nil
	}

	room := m.Rooms.Create(seeker, opponent, challengeID)
	m.Queue.Leave(seeker.ID)
	m.Queue.Leave(opponent.ID)
	return room
}
