package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	mongotx "roomsched/pkg/db/mongo"
	apperrors "roomsched/pkg/errors"
	"roomsched/pkg/model"
)

func weeklySeries(start time.Time, endDate time.Time) *model.BookingSeries {
	return &model.BookingSeries{
		RoomID:        "ECS-308",
		UserID:        "user-1",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Recurrence:    model.RecurrenceWeekly,
		SeriesEndDate: endDate,
	}
}

func TestCreateSeries_WeeklyExpansion(t *testing.T) {
	deps := newDeps()
	svc := newTestService(deps)

	// First occurrence on day D; end date D+20 covers D, D+7 and D+14 but
	// not D+21.
	start := testNow.Add(24 * time.Hour)
	series := weeklySeries(start, start.AddDate(0, 0, 20))

	bookings, err := svc.CreateSeries(context.Background(), series, model.RoleStaff)
	if err != nil {
		t.Fatalf("CreateSeries() error = %v, want nil", err)
	}
	if len(bookings) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(bookings))
	}
	for i, b := range bookings {
		wantStart := start.AddDate(0, 0, 7*i)
		if !b.StartTime.Equal(wantStart) {
			t.Errorf("occurrence %d start = %v, want %v", i, b.StartTime, wantStart)
		}
		if b.EndTime.Sub(b.StartTime) != time.Hour {
			t.Errorf("occurrence %d duration = %v, want 1h", i, b.EndTime.Sub(b.StartTime))
		}
		if b.SeriesID != series.ID {
			t.Errorf("occurrence %d series id = %q, want %q", i, b.SeriesID, series.ID)
		}
	}
}

func TestCreateSeries_TransactionRetryDoesNotDuplicateOccurrences(t *testing.T) {
	deps := newDeps()
	// Run the transaction callback twice, the way the driver does after a
	// transient transaction error. Only the last attempt's occurrences may
	// be returned.
	deps.repo.executeTransactionFunc = func(ctx context.Context, fn mongotx.TransactionFunc) error {
		sessCtx := mongo.NewSessionContext(ctx, nil)
		if err := fn(sessCtx); err != nil {
			return err
		}
		return fn(sessCtx)
	}
	svc := newTestService(deps)

	start := testNow.Add(24 * time.Hour)
	series := weeklySeries(start, start.AddDate(0, 0, 20))

	bookings, err := svc.CreateSeries(context.Background(), series, model.RoleStaff)
	if err != nil {
		t.Fatalf("CreateSeries() error = %v, want nil", err)
	}
	if len(bookings) != 3 {
		t.Fatalf("got %d occurrences after retried transaction, want 3", len(bookings))
	}
}

func TestCreateSeries_DailyExpansion(t *testing.T) {
	deps := newDeps()
	svc := newTestService(deps)

	start := testNow.Add(24 * time.Hour)
	series := weeklySeries(start, start.AddDate(0, 0, 4))
	series.Recurrence = model.RecurrenceDaily

	bookings, err := svc.CreateSeries(context.Background(), series, model.RoleStaff)
	if err != nil {
		t.Fatalf("CreateSeries() error = %v, want nil", err)
	}
	if len(bookings) != 5 {
		t.Errorf("got %d occurrences, want 5", len(bookings))
	}
}

func TestCreateSeries_MonthlyClampsShortMonths(t *testing.T) {
	deps := newDeps()
	svc := newTestService(deps)

	// Anchored on the 31st: April and June clamp to the 30th, May returns
	// to the 31st.
	start := time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC)
	series := weeklySeries(start, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC))
	series.Recurrence = model.RecurrenceMonthly

	bookings, err := svc.CreateSeries(context.Background(), series, model.RoleStaff)
	if err != nil {
		t.Fatalf("CreateSeries() error = %v, want nil", err)
	}

	want := []time.Time{
		time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 31, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 30, 10, 0, 0, 0, time.UTC),
	}
	if len(bookings) != len(want) {
		t.Fatalf("got %d occurrences, want %d", len(bookings), len(want))
	}
	for i, b := range bookings {
		if !b.StartTime.Equal(want[i]) {
			t.Errorf("occurrence %d start = %v, want %v", i, b.StartTime, want[i])
		}
	}
}

func TestCreateSeries_ConflictRejectsWholeSeries(t *testing.T) {
	start := testNow.Add(24 * time.Hour)

	deps := newDeps()
	// An existing booking collides with the second weekly occurrence.
	deps.repo.existing = []*model.Booking{
		activeBooking("65f000000000000000000099", "ECS-308",
			start.AddDate(0, 0, 7), start.AddDate(0, 0, 7).Add(time.Hour)),
	}
	svc := newTestService(deps)

	series := weeklySeries(start, start.AddDate(0, 0, 20))
	_, err := svc.CreateSeries(context.Background(), series, model.RoleStaff)
	if !apperrors.IsCode(err, apperrors.CodeRoomAlreadyBooked) {
		t.Errorf("CreateSeries() error = %v, want code %s", err, apperrors.CodeRoomAlreadyBooked)
	}
}

func TestCreateSeries_FirstOccurrenceBoundByPolicy(t *testing.T) {
	deps := newDeps()
	svc := newTestService(deps)

	start := testNow.Add(-24 * time.Hour)
	series := weeklySeries(start, start.AddDate(0, 0, 20))

	_, err := svc.CreateSeries(context.Background(), series, model.RoleStaff)
	if !apperrors.IsCode(err, apperrors.CodeStartInPast) {
		t.Errorf("CreateSeries() error = %v, want code %s", err, apperrors.CodeStartInPast)
	}
}

func TestCreateSeries_OccurrenceCapEnforced(t *testing.T) {
	deps := newDeps()
	svc := newTestService(deps)
	svc.cfg.MaxSeriesOccurrences = 10

	start := testNow.Add(24 * time.Hour)
	series := weeklySeries(start, start.AddDate(2, 0, 0))
	series.Recurrence = model.RecurrenceDaily

	_, err := svc.CreateSeries(context.Background(), series, model.RoleStaff)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Errorf("CreateSeries() error = %v, want code %s", err, apperrors.CodeValidation)
	}
}

func TestCancelSeries(t *testing.T) {
	start := testNow.Add(24 * time.Hour)
	future := activeBooking("65f000000000000000000001", "ECS-308", start, start.Add(time.Hour))
	started := activeBooking("65f000000000000000000002", "ECS-308",
		testNow.Add(-time.Hour), testNow.Add(time.Hour))
	done := activeBooking("65f000000000000000000003", "ECS-308",
		testNow.Add(-48*time.Hour), testNow.Add(-47*time.Hour))
	done.Status = model.BookingStatusCancelled

	deps := newDeps()
	deps.series.findByIDFunc = func(ctx context.Context, id string) (*model.BookingSeries, error) {
		return &model.BookingSeries{ID: id, RoomID: "ECS-308", UserID: "user-1"}, nil
	}
	deps.repo.findBySeriesFunc = func(ctx context.Context, seriesID string) ([]*model.Booking, error) {
		return []*model.Booking{future, started, done}, nil
	}
	svc := newTestService(deps)

	t.Run("staff skips started members", func(t *testing.T) {
		result, err := svc.CancelSeries(context.Background(), "series-1", "user-1", model.RoleStaff)
		if err != nil {
			t.Fatalf("CancelSeries() error = %v, want nil", err)
		}
		if len(result.Cancelled) != 1 || result.Cancelled[0] != future.ID {
			t.Errorf("Cancelled = %v, want [%s]", result.Cancelled, future.ID)
		}
		if len(result.Skipped) != 1 || result.Skipped[0] != started.ID {
			t.Errorf("Skipped = %v, want [%s]", result.Skipped, started.ID)
		}
	})

	t.Run("registrar cancels started members too", func(t *testing.T) {
		result, err := svc.CancelSeries(context.Background(), "series-1", "registrar-user", model.RoleRegistrar)
		if err != nil {
			t.Fatalf("CancelSeries() error = %v, want nil", err)
		}
		if len(result.Cancelled) != 2 {
			t.Errorf("Cancelled = %v, want both active members", result.Cancelled)
		}
		if len(result.Skipped) != 0 {
			t.Errorf("Skipped = %v, want empty", result.Skipped)
		}
	})
}

func TestCancelSeries_NotFound(t *testing.T) {
	deps := newDeps()
	svc := newTestService(deps)

	_, err := svc.CancelSeries(context.Background(), "missing", "user-1", model.RoleStaff)
	if !apperrors.IsCode(err, apperrors.CodeSeriesNotFound) {
		t.Errorf("CancelSeries() error = %v, want code %s", err, apperrors.CodeSeriesNotFound)
	}
}

func TestCancelSeries_ForeignSeriesForbiddenForStaff(t *testing.T) {
	deps := newDeps()
	deps.series.findByIDFunc = func(ctx context.Context, id string) (*model.BookingSeries, error) {
		return &model.BookingSeries{ID: id, RoomID: "ECS-308", UserID: "owner-user"}, nil
	}
	deps.repo.findBySeriesFunc = func(ctx context.Context, seriesID string) ([]*model.Booking, error) {
		t.Error("FindBySeries called for a series the actor does not own")
		return nil, nil
	}
	svc := newTestService(deps)

	_, err := svc.CancelSeries(context.Background(), "series-1", "other-user", model.RoleStaff)
	if !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Errorf("CancelSeries() error = %v, want code %s", err, apperrors.CodeForbidden)
	}
}
