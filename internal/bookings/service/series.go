package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "roomsched/internal/bookings/errors"
	roomsrepo "roomsched/internal/rooms/repository"
	apperrors "roomsched/pkg/errors"
	"roomsched/pkg/model"
)

// CreateSeries expands a recurrence request into individual bookings.
// Expansion is all-or-nothing: the series record and every occurrence are
// written inside one transaction under one room lock, so a conflict on any
// occurrence rolls the whole series back.
func (s *bookingService) CreateSeries(ctx context.Context, series *model.BookingSeries, role model.Role) ([]*model.Booking, error) {
	series.RoomID = roomsrepo.NormalizeRoomID(series.RoomID)
	if series.RoomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	if err := s.validator.ValidateSeries(series); err != nil {
		s.cfg.Log.Warn("Series validation failed", "error", err)
		return nil, apperrors.Validation("Series validation failed", map[string]any{"error": err.Error()})
	}

	first := &model.Booking{
		RoomID:    series.RoomID,
		UserID:    series.UserID,
		StartTime: series.StartTime,
		EndTime:   series.EndTime,
		Status:    model.BookingStatusActive,
	}
	if err := s.validator.ValidatePolicy(first, role, s.now()); err != nil {
		return nil, err
	}
	if err := s.ensureRoomExists(ctx, series.RoomID); err != nil {
		return nil, err
	}

	starts, err := s.occurrenceStarts(series)
	if err != nil {
		return nil, err
	}
	duration := series.EndTime.Sub(series.StartTime)

	unlock, err := s.lockRoom(ctx, series.RoomID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var bookings []*model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// The driver retries the callback on transient transaction errors,
		// so any state from a prior attempt must be discarded here.
		bookings = nil
		if err := s.seriesRepo.Create(sessCtx, series); err != nil {
			return apperrors.Internal("Failed to create booking series", err)
		}

		for _, start := range starts {
			booking := &model.Booking{
				RoomID:    series.RoomID,
				UserID:    series.UserID,
				StartTime: start,
				EndTime:   start.Add(duration),
				Status:    model.BookingStatusActive,
				SeriesID:  series.ID,
			}
			if err := s.assertNoConflict(sessCtx, booking.RoomID, booking.Interval(), ""); err != nil {
				return err
			}
			if err := s.repo.Create(sessCtx, booking); err != nil {
				return apperrors.Internal("Failed to create series occurrence", err)
			}
			bookings = append(bookings, booking)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking series",
			"room_id", series.RoomID,
			"recurrence", series.Recurrence,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Booking series created",
		"id", series.ID,
		"room_id", series.RoomID,
		"recurrence", series.Recurrence,
		"occurrences", len(bookings),
	)
	s.publisher.SeriesCreated(ctx, series, len(bookings))
	return bookings, nil
}

// CancelSeries transitions every active member to cancelled. Only the
// series owner or a privileged actor may cancel. Members whose start has
// passed stay active for non-privileged actors and are reported in
// Skipped; already-cancelled members are idempotent no-ops.
func (s *bookingService) CancelSeries(ctx context.Context, seriesID string, actorID string, role model.Role) (*model.SeriesCancelResult, error) {
	if seriesID == "" {
		return nil, apperrors.InvalidInput("Series ID cannot be empty")
	}

	series, err := s.seriesRepo.FindByID(ctx, seriesID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrSeriesNotFound) {
			return nil, apperrors.SeriesNotFound(seriesID)
		}
		return nil, apperrors.Internal("Failed to retrieve booking series", err)
	}
	if err := s.validator.ValidateOwner(series.UserID, actorID, role, "cancel"); err != nil {
		return nil, err
	}

	members, err := s.repo.FindBySeries(ctx, seriesID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve series members", err)
	}

	now := s.now()
	result := &model.SeriesCancelResult{
		Cancelled: []string{},
		Skipped:   []string{},
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		for _, member := range members {
			if member.Status == model.BookingStatusCancelled {
				continue
			}
			if err := s.validator.ValidateMutable(member, role, now); err != nil {
				result.Skipped = append(result.Skipped, member.ID)
				continue
			}
			if err := s.repo.UpdateStatus(sessCtx, member.ID, model.BookingStatusCancelled); err != nil {
				return apperrors.Internal("Failed to cancel series member", err)
			}
			result.Cancelled = append(result.Cancelled, member.ID)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel booking series", "series_id", seriesID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking series cancelled",
		"series_id", seriesID,
		"cancelled", len(result.Cancelled),
		"skipped", len(result.Skipped),
	)
	s.publisher.SeriesCancelled(ctx, series.RoomID, seriesID, result)
	return result, nil
}

// occurrenceStarts steps from the first occurrence by cadence while the
// occurrence date is on or before the series end date. Monthly stepping
// clamps the anchor day for short months (Jan 31 -> Feb 28/29).
func (s *bookingService) occurrenceStarts(series *model.BookingSeries) ([]time.Time, error) {
	var starts []time.Time
	endDate := dateOf(series.SeriesEndDate)

	switch series.Recurrence {
	case model.RecurrenceDaily, model.RecurrenceWeekly:
		step := 1
		if series.Recurrence == model.RecurrenceWeekly {
			step = 7
		}
		for occ := series.StartTime; !dateOf(occ).After(endDate); occ = occ.AddDate(0, 0, step) {
			starts = append(starts, occ)
			if len(starts) > s.cfg.MaxSeriesOccurrences {
				return nil, s.tooManyOccurrences()
			}
		}

	case model.RecurrenceMonthly:
		anchorDay := series.StartTime.Day()
		for i := 0; ; i++ {
			occ := addMonthsClamped(series.StartTime, i, anchorDay)
			if dateOf(occ).After(endDate) {
				break
			}
			starts = append(starts, occ)
			if len(starts) > s.cfg.MaxSeriesOccurrences {
				return nil, s.tooManyOccurrences()
			}
		}

	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid recurrence type: %s", series.Recurrence))
	}

	return starts, nil
}

func (s *bookingService) tooManyOccurrences() error {
	return apperrors.Validation(
		fmt.Sprintf("Series expands to more than %d occurrences", s.cfg.MaxSeriesOccurrences),
		map[string]any{"max_occurrences": s.cfg.MaxSeriesOccurrences},
	)
}

// addMonthsClamped advances t by months whole months, pinning the day of
// month to anchorDay clamped to the target month's length. time.AddDate
// would overflow Jan 31 + 1 month into March.
func addMonthsClamped(t time.Time, months, anchorDay int) time.Time {
	year, month, _ := t.Date()
	hour, minute, sec := t.Clock()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	daysInTarget := firstOfTarget.AddDate(0, 1, -1).Day()

	day := anchorDay
	if day > daysInTarget {
		day = daysInTarget
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		hour, minute, sec, t.Nanosecond(), t.Location())
}

func dateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
