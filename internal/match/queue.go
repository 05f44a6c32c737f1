package match

import "time"

// Queue is the FIFO matchmaking queue with by-id membership.
type Queue struct {
	order   []*Participant
	members map[string]*Participant
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{members: make(map[string]*Participant)}
}

// Join adds a player to the tail of the queue. Joining while already queued
// is idempotent: the existing entry keeps its position and queue timestamp,
// and only the transport handle is refreshed.
func (q *Queue) Join(id, username string, rating int, sessionID string) *Participant {
	if p, ok := q.members[id]; ok {
		p.SessionID = sessionID
		return p
	}

	p := &Participant{
		ID:        id,
		Username:  username,
		Rating:    rating,
		SessionID: sessionID,
		QueuedAt:  time.Now().UTC(),
	}
	q.order = append(q.order, p)
	q.members[id] = p
	return p
}

// Leave removes a player from the queue. Unknown ids report false with no
// side effects.
func (q *Queue) Leave(id string) (*Participant, bool) {
	p, ok := q.members[id]
	if !ok {
		return nil, false
	}
	delete(q.members, id)
	for i, queued := range q.order {
		if queued.ID == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	return p, true
}

// Len returns the number of queued players.
func (q *Queue) Len() int {
	return len(q.order)
}

// Head returns the longest-waiting player, nil when empty.
func (q *Queue) Head() *Participant {
	if len(q.order) == 0 {
		return nil
	}
	return q.order[0]
}

// Position returns the 1-based queue position, 0 when absent.
func (q *Queue) Position(id string) int {
	for i, p := range q.order {
		if p.ID == id {
			return i + 1
		}
	}
	return 0
}

// MeanRating returns the average rating of queued players, 0 when empty.
func (q *Queue) MeanRating() float64 {
	if len(q.order) == 0 {
		return 0
	}
	sum := 0
	for _, p := range q.order {
		sum += p.Rating
	}
	return float64(sum) / float64(len(q.order))
}

// PairFor selects the opponent for seeker: the candidate minimizing rating
// distance, preferring candidates within tolerance and falling back to the
// globally closest when none qualifies. Ties resolve to the earliest-queued
// candidate. The seeker itself is never selected.
func (q *Queue) PairFor(seeker *Participant, tolerance int) *Participant {
	if len(q.order) < 2 {
		return nil
	}

	var best *Participant
	closest := int(^uint(0) >> 1)
	for _, candidate := range q.order {
		if candidate.ID == seeker.ID {
			continue
		}
		diff := ratingDiff(seeker.Rating, candidate.Rating)
		if diff < closest && diff <= tolerance {
			closest = diff
			best = candidate
		}
	}
	if best != nil {
		return best
	}

	for _, candidate := range q.order {
		if candidate.ID == seeker.ID {
			continue
		}
		diff := ratingDiff(seeker.Rating, candidate.Rating)
		if best == nil || diff < closest {
			closest = diff
			best = candidate
		}
	}
	return best
}

func ratingDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
