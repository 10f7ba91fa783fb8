package model

import "time"

// TimeSlot is an ephemeral half-open time range [StartTime, EndTime)
// computed by the availability resolver. Slots are never persisted.
type TimeSlot struct {
	StartTime time.Time `json:"start_time" bson:"-"`
	EndTime   time.Time `json:"end_time" bson:"-"`
}

// IsValid reports whether the slot has positive length.
func (s TimeSlot) IsValid() bool {
	return s.StartTime.Before(s.EndTime)
}

// RoomLock is an advisory storage-level guard: at most one writer may hold
// the lock for a room at a time. The _id uniqueness of the lock collection
// is what makes the conflict check race-safe; ExpiresAt backs a TTL index
// so crashed writers cannot wedge a room.
type RoomLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}
