// Package events publishes booking lifecycle events to the shared stream.
// Publishing is best-effort and happens only after the storage write has
// committed: a broker outage must never fail a booking call.
package events

import (
	"context"
	"time"

	"roomsched/pkg/kafka"
	"roomsched/pkg/logger"
	"roomsched/pkg/model"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"
	EventSeriesCreated    = "series.created"
	EventSeriesCancelled  = "series.cancelled"

	source = "roomsched"
)

type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingUpdated(ctx context.Context, booking *model.Booking)
	BookingCancelled(ctx context.Context, booking *model.Booking)
	SeriesCreated(ctx context.Context, series *model.BookingSeries, occurrences int)
	SeriesCancelled(ctx context.Context, roomID, seriesID string, result *model.SeriesCancelResult)
}

type bookingEvent struct {
	BookingID string    `json:"booking_id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	SeriesID  string    `json:"series_id,omitempty"`
}

type seriesEvent struct {
	SeriesID    string   `json:"series_id"`
	RoomID      string   `json:"room_id"`
	Occurrences int      `json:"occurrences,omitempty"`
	Cancelled   []string `json:"cancelled,omitempty"`
	Skipped     []string `json:"skipped,omitempty"`
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{producer: producer, log: log}
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType, key string, payload any) {
	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(source).
		Build()
	if err != nil {
		p.log.Error("Failed to build booking event", "event_type", eventType, "error", err)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"key", key,
			"error", err,
		)
	}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, b *model.Booking) {
	p.publish(ctx, EventBookingCreated, b.RoomID, fromBooking(b))
}

func (p *kafkaPublisher) BookingUpdated(ctx context.Context, b *model.Booking) {
	p.publish(ctx, EventBookingUpdated, b.RoomID, fromBooking(b))
}

func (p *kafkaPublisher) BookingCancelled(ctx context.Context, b *model.Booking) {
	p.publish(ctx, EventBookingCancelled, b.RoomID, fromBooking(b))
}

func (p *kafkaPublisher) SeriesCreated(ctx context.Context, s *model.BookingSeries, occurrences int) {
	p.publish(ctx, EventSeriesCreated, s.RoomID, seriesEvent{
		SeriesID:    s.ID,
		RoomID:      s.RoomID,
		Occurrences: occurrences,
	})
}

func (p *kafkaPublisher) SeriesCancelled(ctx context.Context, roomID, seriesID string, result *model.SeriesCancelResult) {
	p.publish(ctx, EventSeriesCancelled, roomID, seriesEvent{
		SeriesID:  seriesID,
		RoomID:    roomID,
		Cancelled: result.Cancelled,
		Skipped:   result.Skipped,
	})
}

func fromBooking(b *model.Booking) bookingEvent {
	return bookingEvent{
		BookingID: b.ID,
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		SeriesID:  b.SeriesID,
	}
}

// NoopPublisher drops all events; used when event publishing is disabled
// and in tests.
type NoopPublisher struct{}

func (NoopPublisher) BookingCreated(context.Context, *model.Booking)           {}
func (NoopPublisher) BookingUpdated(context.Context, *model.Booking)           {}
func (NoopPublisher) BookingCancelled(context.Context, *model.Booking)         {}
func (NoopPublisher) SeriesCreated(context.Context, *model.BookingSeries, int) {}
func (NoopPublisher) SeriesCancelled(context.Context, string, string, *model.SeriesCancelResult) {
}
