package model

import "time"

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a reservation of one room over a half-open interval
// [StartTime, EndTime). Cancelled rows are retained but excluded from all
// overlap and availability computation.
type Booking struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID    string        `json:"room_id" bson:"room_id" validate:"required"`
	UserID    string        `json:"user_id" bson:"user_id" validate:"required"`
	StartTime time.Time     `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   time.Time     `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status    BookingStatus `json:"status" bson:"status" validate:"required,oneof=active cancelled"`
	SeriesID  string        `json:"series_id,omitempty" bson:"series_id,omitempty"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// Interval returns the booked time range as a slot value.
func (b *Booking) Interval() TimeSlot {
	return TimeSlot{StartTime: b.StartTime, EndTime: b.EndTime}
}

// BookingUpdate is a partial patch; nil pointers leave the field untouched.
// Only the time window may be mutated, and only before the booking starts
// unless the actor is privileged.
type BookingUpdate struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}
