package model

import "time"

// SlotLock is an advisory lock document. Its _id is derived from the
// slot and booking date, so a unique-key insert doubles as a
// compare-and-swap guarding concurrent booking creation. A TTL index on
// expires_at reaps locks left behind by crashed requests.
type SlotLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}
