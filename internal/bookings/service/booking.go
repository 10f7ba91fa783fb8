package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "roomsched/internal/bookings/errors"
	"roomsched/internal/bookings/events"
	"roomsched/internal/bookings/repository"
	"roomsched/internal/bookings/validator"
	roomserrors "roomsched/internal/rooms/errors"
	roomsrepo "roomsched/internal/rooms/repository"
	"roomsched/pkg/config"
	apperrors "roomsched/pkg/errors"
	"roomsched/pkg/model"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking, role model.Role) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	// ListForRoom returns the room's active bookings intersecting the
	// window, sorted by start time.
	ListForRoom(ctx context.Context, roomID string, window model.TimeSlot) ([]*model.Booking, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate, actorID string, role model.Role) (*model.Booking, error)
	Cancel(ctx context.Context, id string, actorID string, role model.Role) error
	CreateSeries(ctx context.Context, series *model.BookingSeries, role model.Role) ([]*model.Booking, error)
	CancelSeries(ctx context.Context, seriesID string, actorID string, role model.Role) (*model.SeriesCancelResult, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	lockRepo   repository.RoomLockRepository
	seriesRepo repository.SeriesRepository
	roomRepo   roomsrepo.RoomRepository
	validator  *validator.BookingValidator
	publisher  events.Publisher
	cfg        *config.Config
	now        func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	seriesRepo repository.SeriesRepository,
	roomRepo roomsrepo.RoomRepository,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		lockRepo:   lockRepo,
		seriesRepo: seriesRepo,
		roomRepo:   roomRepo,
		validator:  bookingValidator,
		publisher:  publisher,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Create runs the full write unit: validation, room lookup, advisory room
// lock, then one transaction holding the overlap check and the insert.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking, role model.Role) error {
	booking.RoomID = roomsrepo.NormalizeRoomID(booking.RoomID)
	if booking.RoomID == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}
	booking.Status = model.BookingStatusActive
	booking.SeriesID = ""

	if err := s.validateCandidate(booking, role); err != nil {
		return err
	}
	if err := s.ensureRoomExists(ctx, booking.RoomID); err != nil {
		return err
	}

	unlock, err := s.lockRoom(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	defer unlock()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.assertNoConflict(sessCtx, booking.RoomID, booking.Interval(), ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "room_id", booking.RoomID, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"user_id", booking.UserID,
		"start_time", booking.StartTime,
	)
	s.publisher.BookingCreated(ctx, booking)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return booking, nil
}

func (s *bookingService) ListForRoom(ctx context.Context, roomID string, window model.TimeSlot) ([]*model.Booking, error) {
	roomID = roomsrepo.NormalizeRoomID(roomID)
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}
	if !window.IsValid() {
		return nil, apperrors.InvalidInput("start_time must be before end_time")
	}
	if err := s.ensureRoomExists(ctx, roomID); err != nil {
		return nil, err
	}

	bookings, err := s.repo.FindActiveInWindow(ctx, roomID, window)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

// Update mutates the time window of a booking. Only the owner (or a
// privileged actor) may touch it, only before it starts; the merged window
// re-runs the full candidate validation and conflict check (excluding the
// booking itself).
func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate, actorID string, role model.Role) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	if err := s.validator.ValidateOwner(existing.UserID, actorID, role, "update"); err != nil {
		return nil, err
	}
	if existing.Status == model.BookingStatusCancelled {
		return nil, apperrors.InvalidInput("Cannot update a cancelled booking")
	}

	if err := s.validator.ValidateMutable(existing, role, s.now()); err != nil {
		return nil, err
	}

	merged := *existing
	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}

	if err := s.validateCandidate(&merged, role); err != nil {
		return nil, err
	}

	unlock, err := s.lockRoom(ctx, merged.RoomID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.assertNoConflict(sessCtx, merged.RoomID, merged.Interval(), id); err != nil {
			return err
		}
		if err := s.repo.UpdateTimes(sessCtx, id, merged.StartTime, merged.EndTime); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking updated", "id", id, "room_id", merged.RoomID)
	s.publisher.BookingUpdated(ctx, &merged)
	return &merged, nil
}

// Cancel sets the booking to cancelled, keeping the row. Only the owner or
// a privileged actor may cancel; cancelling an already-cancelled booking
// is a no-op, not an error.
func (s *bookingService) Cancel(ctx context.Context, id string, actorID string, role model.Role) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapLookupError(err, id)
	}
	if err := s.validator.ValidateOwner(existing.UserID, actorID, role, "cancel"); err != nil {
		return err
	}
	if existing.Status == model.BookingStatusCancelled {
		return nil
	}

	if err := s.validator.ValidateMutable(existing, role, s.now()); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, id, model.BookingStatusCancelled); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "room_id", existing.RoomID)
	existing.Status = model.BookingStatusCancelled
	s.publisher.BookingCancelled(ctx, existing)
	return nil
}

// --- Helpers ---

func (s *bookingService) validateCandidate(booking *model.Booking, role model.Role) error {
	if err := s.validator.ValidateStruct(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return s.validator.ValidatePolicy(booking, role, s.now())
}

func (s *bookingService) ensureRoomExists(ctx context.Context, roomID string) error {
	if _, err := s.roomRepo.FindByID(ctx, roomID); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.RoomNotFound(roomID)
		}
		return apperrors.Internal("Failed to look up room", err)
	}
	return nil
}

// lockRoom acquires the advisory per-room lock, the storage-level half of
// the conflict guard. Contention surfaces as RoomAlreadyBooked; the raw
// storage failure is never leaked.
func (s *bookingService) lockRoom(ctx context.Context, roomID string) (func(), error) {
	if err := s.lockRepo.Acquire(ctx, roomID, s.cfg.RoomLockTTL); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.RoomAlreadyBooked()
		}
		return nil, apperrors.Internal("Failed to acquire room lock", err)
	}

	return func() {
		if err := s.lockRepo.Release(ctx, roomID); err != nil {
			s.cfg.Log.Warn("Failed to release room lock", "room_id", roomID, "error", err)
		}
	}, nil
}

// assertNoConflict is the application-level half of the conflict guard:
// any active booking of the room strictly overlapping the interval rejects
// the write. Runs inside the write transaction.
func (s *bookingService) assertNoConflict(ctx context.Context, roomID string, slot model.TimeSlot, excludeID string) error {
	conflicts, err := s.repo.FindActiveOverlapping(ctx, roomID, slot, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}
	if len(conflicts) > 0 {
		return apperrors.RoomAlreadyBooked()
	}
	return nil
}

func (s *bookingService) mapLookupError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal("Failed to retrieve booking", err)
}
