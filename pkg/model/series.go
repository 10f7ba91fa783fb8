package model

import "time"

type Recurrence string

const (
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// BookingSeries groups the bookings produced by one recurrence request.
// StartTime/EndTime hold the canonical first occurrence; every member
// shares the room and time-of-day window and differs only by date, bounded
// by SeriesEndDate.
type BookingSeries struct {
	ID            string     `json:"id,omitempty" bson:"_id,omitempty"`
	RoomID        string     `json:"room_id" bson:"room_id" validate:"required"`
	UserID        string     `json:"user_id" bson:"user_id" validate:"required"`
	StartTime     time.Time  `json:"start_time" bson:"start_time" validate:"required"`
	EndTime       time.Time  `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Recurrence    Recurrence `json:"recurrence" bson:"recurrence" validate:"required,oneof=daily weekly monthly"`
	SeriesEndDate time.Time  `json:"series_end_date" bson:"series_end_date" validate:"required"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
}

// SeriesCancelResult reports the outcome of a series-wide cancellation.
// Occurrences that already started stay active for non-privileged actors
// and are listed in Skipped rather than silently dropped.
type SeriesCancelResult struct {
	Cancelled []string `json:"cancelled"`
	Skipped   []string `json:"skipped"`
}
