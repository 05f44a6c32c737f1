// Package match implements the matchmaking queue and the battle room
// registry. None of its types lock internally: the duel coordinator owns
// them and serializes every mutation, so intra-package synchronization
// would only hide misuse.
package match

import "time"

// DefaultRating is the rating assigned to players who never played.
const DefaultRating = 1000

// Participant is a queued player. Identity is the ID; SessionID is the
// opaque transport handle and is refreshed on re-join without touching
// queue position.
type Participant struct {
	ID        string
	Username  string
	Rating    int
	SessionID string
	QueuedAt  time.Time
}
