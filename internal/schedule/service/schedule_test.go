package service

import (
	"context"
	"testing"
	"time"

	bookingserrors "roomsched/internal/bookings/errors"
	roomserrors "roomsched/internal/rooms/errors"
	"roomsched/pkg/config"
	mongotx "roomsched/pkg/db/mongo"
	apperrors "roomsched/pkg/errors"
	"roomsched/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type mockRoomRepository struct {
	rooms     []*model.Room
	buildings map[string]*model.Building
}

func (m *mockRoomRepository) FindByID(ctx context.Context, roomID string) (*model.Room, error) {
	for _, r := range m.rooms {
		if r.RoomID == roomID {
			return r, nil
		}
	}
	return nil, roomserrors.ErrNotFound
}

func (m *mockRoomRepository) FindByBuilding(ctx context.Context, shortName string) ([]*model.Room, error) {
	var rooms []*model.Room
	for _, r := range m.rooms {
		if r.BuildingShortName == shortName {
			rooms = append(rooms, r)
		}
	}
	return rooms, nil
}

func (m *mockRoomRepository) FindAll(ctx context.Context) ([]*model.Room, error) {
	return m.rooms, nil
}

func (m *mockRoomRepository) FindBuildings(ctx context.Context, shortNames []string) (map[string]*model.Building, error) {
	return m.buildings, nil
}

func (m *mockRoomRepository) ResolveBuilding(ctx context.Context, nameOrShortName string) (*model.Building, error) {
	if b, ok := m.buildings[nameOrShortName]; ok {
		return b, nil
	}
	return nil, roomserrors.ErrBuildingNotFound
}

// Mock booking repository; only the availability read path is exercised.
type mockBookingRepository struct {
	byRoom map[string][]*model.Booking
}

func (m *mockBookingRepository) FindActiveInWindow(ctx context.Context, roomID string, window model.TimeSlot) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range m.byRoom[roomID] {
		if b.Status != model.BookingStatusActive {
			continue
		}
		if b.StartTime.Before(window.EndTime) && window.StartTime.Before(b.EndTime) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindActiveOverlapping(ctx context.Context, roomID string, slot model.TimeSlot, excludeID string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) UpdateTimes(ctx context.Context, id string, start, end time.Time) error {
	return nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	return nil
}

func (m *mockBookingRepository) FindBySeries(ctx context.Context, seriesID string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

func room(id, building, number string) *model.Room {
	return &model.Room{
		RoomID:            id,
		BuildingShortName: building,
		RoomNumber:        number,
		Capacity:          30,
		RoomType:          model.RoomTypeClassroom,
	}
}

func activeBooking(roomID string, start, end time.Time) *model.Booking {
	return &model.Booking{
		ID:        "65f000000000000000000001",
		RoomID:    roomID,
		UserID:    "user-1",
		StartTime: start,
		EndTime:   end,
		Status:    model.BookingStatusActive,
	}
}

func newTestService(rooms *mockRoomRepository, bookings *mockBookingRepository) *scheduleService {
	return &scheduleService{
		roomRepo:    rooms,
		bookingRepo: bookings,
		cfg:         &config.Config{},
		now:         func() time.Time { return testNow },
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestGetSchedule_EmptyRoomSpansWholeWindow(t *testing.T) {
	rooms := &mockRoomRepository{
		rooms:     []*model.Room{room("ECS-308", "ECS", "308")},
		buildings: map[string]*model.Building{"ECS": {ShortName: "ECS", Name: "Engineering Computer Science"}},
	}
	svc := newTestService(rooms, &mockBookingRepository{})

	schedule, err := svc.GetSchedule(context.Background(), Query{
		Date:      "2026-03-02",
		StartTime: "08-00-00",
		EndTime:   "12-00-00",
	})
	if err != nil {
		t.Fatalf("GetSchedule() error = %v, want nil", err)
	}
	if len(schedule.Buildings) != 1 {
		t.Fatalf("got %d buildings, want 1", len(schedule.Buildings))
	}
	b := schedule.Buildings[0]
	if b.BuildingName != "Engineering Computer Science" {
		t.Errorf("building name = %q", b.BuildingName)
	}
	if len(b.Rooms) != 1 || len(b.Rooms[0].Slots) != 1 {
		t.Fatalf("got rooms %+v, want one room with one slot", b.Rooms)
	}
	slot := b.Rooms[0].Slots[0]
	if !slot.StartTime.Equal(at(8, 0)) || !slot.EndTime.Equal(at(12, 0)) {
		t.Errorf("slot = %v-%v, want 08:00-12:00", slot.StartTime, slot.EndTime)
	}
}

func TestGetSchedule_GapsAroundBookings(t *testing.T) {
	rooms := &mockRoomRepository{
		rooms:     []*model.Room{room("ECS-308", "ECS", "308")},
		buildings: map[string]*model.Building{"ECS": {ShortName: "ECS", Name: "Engineering"}},
	}
	bookings := &mockBookingRepository{byRoom: map[string][]*model.Booking{
		"ECS-308": {
			activeBooking("ECS-308", at(9, 0), at(10, 0)),
			activeBooking("ECS-308", at(10, 30), at(11, 0)),
		},
	}}
	svc := newTestService(rooms, bookings)

	schedule, err := svc.GetSchedule(context.Background(), Query{
		Date:      "2026-03-02",
		StartTime: "08-00-00",
		EndTime:   "12-00-00",
	})
	if err != nil {
		t.Fatalf("GetSchedule() error = %v, want nil", err)
	}

	slots := schedule.Buildings[0].Rooms[0].Slots
	want := []model.TimeSlot{
		{StartTime: at(8, 0), EndTime: at(9, 0)},
		{StartTime: at(10, 0), EndTime: at(10, 30)},
		{StartTime: at(11, 0), EndTime: at(12, 0)},
	}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots, want %d: %+v", len(slots), len(want), slots)
	}
	for i := range want {
		if !slots[i].StartTime.Equal(want[i].StartTime) || !slots[i].EndTime.Equal(want[i].EndTime) {
			t.Errorf("slot %d = %v-%v, want %v-%v",
				i, slots[i].StartTime, slots[i].EndTime, want[i].StartTime, want[i].EndTime)
		}
	}
}

func TestGetSchedule_FullyBookedRoomOmitted(t *testing.T) {
	rooms := &mockRoomRepository{
		rooms: []*model.Room{
			room("ECS-308", "ECS", "308"),
			room("ECS-309", "ECS", "309"),
		},
		buildings: map[string]*model.Building{"ECS": {ShortName: "ECS", Name: "Engineering"}},
	}
	bookings := &mockBookingRepository{byRoom: map[string][]*model.Booking{
		"ECS-308": {activeBooking("ECS-308", at(8, 0), at(12, 0))},
	}}
	svc := newTestService(rooms, bookings)

	schedule, err := svc.GetSchedule(context.Background(), Query{
		Date:      "2026-03-02",
		StartTime: "08-00-00",
		EndTime:   "12-00-00",
	})
	if err != nil {
		t.Fatalf("GetSchedule() error = %v, want nil", err)
	}

	roomsOut := schedule.Buildings[0].Rooms
	if len(roomsOut) != 1 || roomsOut[0].RoomID != "ECS-309" {
		t.Errorf("rooms = %+v, want only the free room ECS-309", roomsOut)
	}
}

func TestGetSchedule_BookedModeClipsToWindow(t *testing.T) {
	rooms := &mockRoomRepository{
		rooms:     []*model.Room{room("ECS-308", "ECS", "308")},
		buildings: map[string]*model.Building{"ECS": {ShortName: "ECS", Name: "Engineering"}},
	}
	bookings := &mockBookingRepository{byRoom: map[string][]*model.Booking{
		"ECS-308": {
			activeBooking("ECS-308", at(7, 0), at(9, 0)),
			activeBooking("ECS-308", at(10, 0), at(11, 0)),
		},
	}}
	svc := newTestService(rooms, bookings)

	schedule, err := svc.GetSchedule(context.Background(), Query{
		RoomID:    "ECS-308",
		Date:      "2026-03-02",
		StartTime: "08-00-00",
		EndTime:   "12-00-00",
		SlotType:  SlotTypeBooked,
	})
	if err != nil {
		t.Fatalf("GetSchedule() error = %v, want nil", err)
	}

	slots := schedule.Buildings[0].Rooms[0].Slots
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	if !slots[0].StartTime.Equal(at(8, 0)) || !slots[0].EndTime.Equal(at(9, 0)) {
		t.Errorf("slot 0 = %v-%v, want clipped to 08:00-09:00", slots[0].StartTime, slots[0].EndTime)
	}
}

func TestGetSchedule_UnknownRoom(t *testing.T) {
	svc := newTestService(&mockRoomRepository{}, &mockBookingRepository{})

	_, err := svc.GetSchedule(context.Background(), Query{RoomID: "ECS-999", Date: "2026-03-02"})
	if !apperrors.IsCode(err, apperrors.CodeRoomNotFound) {
		t.Errorf("GetSchedule() error = %v, want code %s", err, apperrors.CodeRoomNotFound)
	}
}

func TestGetSchedule_UnknownBuildingYieldsEmptySchedule(t *testing.T) {
	svc := newTestService(&mockRoomRepository{}, &mockBookingRepository{})

	schedule, err := svc.GetSchedule(context.Background(), Query{Building: "XYZ", Date: "2026-03-02"})
	if err != nil {
		t.Fatalf("GetSchedule() error = %v, want nil", err)
	}
	if len(schedule.Buildings) != 0 {
		t.Errorf("buildings = %+v, want empty", schedule.Buildings)
	}
}

func TestGetSchedule_InvalidInputs(t *testing.T) {
	svc := newTestService(&mockRoomRepository{}, &mockBookingRepository{})

	tests := []struct {
		name     string
		query    Query
		wantCode string
	}{
		{"colon-delimited time", Query{StartTime: "09:00:00"}, apperrors.CodeInvalidTimeFormat},
		{"single-digit hour", Query{StartTime: "9-00-00"}, apperrors.CodeInvalidTimeFormat},
		{"hour out of range", Query{StartTime: "25-00-00"}, apperrors.CodeInvalidTimeFormat},
		{"malformed date", Query{Date: "03/02/2026"}, apperrors.CodeInvalidTimeFormat},
		{"inverted window", Query{StartTime: "14-00-00", EndTime: "10-00-00"}, apperrors.CodeInvalidInput},
		{"unknown slot type", Query{SlotType: "busy"}, apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetSchedule(context.Background(), tt.query)
			if !apperrors.IsCode(err, tt.wantCode) {
				t.Errorf("GetSchedule() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestGetSchedule_DefaultsToTodayWholeDay(t *testing.T) {
	rooms := &mockRoomRepository{
		rooms:     []*model.Room{room("ECS-308", "ECS", "308")},
		buildings: map[string]*model.Building{"ECS": {ShortName: "ECS", Name: "Engineering"}},
	}
	svc := newTestService(rooms, &mockBookingRepository{})

	schedule, err := svc.GetSchedule(context.Background(), Query{})
	if err != nil {
		t.Fatalf("GetSchedule() error = %v, want nil", err)
	}

	slot := schedule.Buildings[0].Rooms[0].Slots[0]
	wantStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC)
	if !slot.StartTime.Equal(wantStart) || !slot.EndTime.Equal(wantEnd) {
		t.Errorf("slot = %v-%v, want %v-%v", slot.StartTime, slot.EndTime, wantStart, wantEnd)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"00-00-00", 0, false},
		{"09-30-00", 9*time.Hour + 30*time.Minute, false},
		{"23-59-59", 23*time.Hour + 59*time.Minute + 59*time.Second, false},
		{"24-00-00", 0, true},
		{"12-60-00", 0, true},
		{"12-00-60", 0, true},
		{"12-00", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseClock(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
