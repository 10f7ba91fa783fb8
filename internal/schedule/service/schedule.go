package service

import (
	"context"
	"errors"
	"sort"
	"time"

	bookingsrepo "roomsched/internal/bookings/repository"
	"roomsched/internal/interval"
	roomserrors "roomsched/internal/rooms/errors"
	roomsrepo "roomsched/internal/rooms/repository"
	"roomsched/pkg/config"
	apperrors "roomsched/pkg/errors"
	"roomsched/pkg/model"
)

type SlotType string

const (
	SlotTypeAvailable SlotType = "available"
	SlotTypeBooked    SlotType = "booked"
)

// Query selects rooms and a time window for one day. Zero-valued fields
// fall back to defaults: all rooms, today, the whole day, available slots.
type Query struct {
	RoomID    string
	Building  string
	Date      string // YYYY-MM-DD
	StartTime string // HH-MM-SS
	EndTime   string // HH-MM-SS
	SlotType  SlotType
}

type RoomSchedule struct {
	RoomID     string           `json:"room_id"`
	RoomNumber string           `json:"room_number"`
	Capacity   int              `json:"capacity"`
	RoomType   model.RoomType   `json:"room_type"`
	Slots      []model.TimeSlot `json:"slots"`
}

type BuildingSchedule struct {
	BuildingShortName string         `json:"building_short_name"`
	BuildingName      string         `json:"building_name"`
	Rooms             []RoomSchedule `json:"rooms"`
}

type Schedule struct {
	Buildings []BuildingSchedule `json:"buildings"`
}

type ScheduleService interface {
	GetSchedule(ctx context.Context, query Query) (*Schedule, error)
}

type scheduleService struct {
	roomRepo    roomsrepo.RoomRepository
	bookingRepo bookingsrepo.BookingRepository
	cfg         *config.Config
	now         func() time.Time
}

func NewScheduleService(
	roomRepo roomsrepo.RoomRepository,
	bookingRepo bookingsrepo.BookingRepository,
	cfg *config.Config,
) ScheduleService {
	return &scheduleService{
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// GetSchedule computes free or occupied slots for the selected rooms,
// grouped by building. In available mode a fully booked room is omitted
// from the result rather than returned with an empty slot list; consumers
// depend on that shape.
func (s *scheduleService) GetSchedule(ctx context.Context, query Query) (*Schedule, error) {
	window, err := s.resolveWindow(query)
	if err != nil {
		return nil, err
	}

	slotType := query.SlotType
	if slotType == "" {
		slotType = SlotTypeAvailable
	}
	if slotType != SlotTypeAvailable && slotType != SlotTypeBooked {
		return nil, apperrors.InvalidInput("slot_type must be 'available' or 'booked'")
	}

	rooms, err := s.selectRooms(ctx, query)
	if err != nil {
		return nil, err
	}

	byBuilding := make(map[string][]RoomSchedule)
	for _, room := range rooms {
		slots, err := s.computeSlots(ctx, room.RoomID, window, slotType)
		if err != nil {
			return nil, err
		}
		if slotType == SlotTypeAvailable && len(slots) == 0 {
			continue
		}
		byBuilding[room.BuildingShortName] = append(byBuilding[room.BuildingShortName], RoomSchedule{
			RoomID:     room.RoomID,
			RoomNumber: room.RoomNumber,
			Capacity:   room.Capacity,
			RoomType:   room.RoomType,
			Slots:      slots,
		})
	}

	return s.assemble(ctx, byBuilding)
}

func (s *scheduleService) computeSlots(ctx context.Context, roomID string, window model.TimeSlot, slotType SlotType) ([]model.TimeSlot, error) {
	bookings, err := s.bookingRepo.FindActiveInWindow(ctx, roomID, window)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	busy := make([]model.TimeSlot, 0, len(bookings))
	for _, b := range bookings {
		if clipped, ok := interval.Clip(b.Interval(), window); ok {
			busy = append(busy, clipped)
		}
	}
	sort.Slice(busy, func(i, j int) bool {
		return busy[i].StartTime.Before(busy[j].StartTime)
	})

	if slotType == SlotTypeBooked {
		return busy, nil
	}
	return interval.Subtract(window, busy), nil
}

func (s *scheduleService) selectRooms(ctx context.Context, query Query) ([]*model.Room, error) {
	if query.RoomID != "" {
		room, err := s.roomRepo.FindByID(ctx, query.RoomID)
		if err != nil {
			if errors.Is(err, roomserrors.ErrNotFound) {
				return nil, apperrors.RoomNotFound(query.RoomID)
			}
			return nil, apperrors.Internal("Failed to look up room", err)
		}
		return []*model.Room{room}, nil
	}

	if query.Building != "" {
		building, err := s.roomRepo.ResolveBuilding(ctx, query.Building)
		if err != nil {
			if errors.Is(err, roomserrors.ErrBuildingNotFound) {
				// An unknown building filter yields an empty schedule, the
				// same shape as a building with no free rooms.
				return nil, nil
			}
			return nil, apperrors.Internal("Failed to look up building", err)
		}
		rooms, err := s.roomRepo.FindByBuilding(ctx, building.ShortName)
		if err != nil {
			return nil, apperrors.Internal("Failed to retrieve rooms", err)
		}
		return rooms, nil
	}

	rooms, err := s.roomRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}
	return rooms, nil
}

func (s *scheduleService) assemble(ctx context.Context, byBuilding map[string][]RoomSchedule) (*Schedule, error) {
	shortNames := make([]string, 0, len(byBuilding))
	for shortName := range byBuilding {
		shortNames = append(shortNames, shortName)
	}
	sort.Strings(shortNames)

	buildings, err := s.roomRepo.FindBuildings(ctx, shortNames)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve buildings", err)
	}

	schedule := &Schedule{Buildings: []BuildingSchedule{}}
	for _, shortName := range shortNames {
		rooms := byBuilding[shortName]
		sort.Slice(rooms, func(i, j int) bool {
			return rooms[i].RoomNumber < rooms[j].RoomNumber
		})

		name := shortName
		if b, ok := buildings[shortName]; ok {
			name = b.Name
		}
		schedule.Buildings = append(schedule.Buildings, BuildingSchedule{
			BuildingShortName: shortName,
			BuildingName:      name,
			Rooms:             rooms,
		})
	}
	return schedule, nil
}

func (s *scheduleService) resolveWindow(query Query) (model.TimeSlot, error) {
	date := query.Date
	if date == "" {
		date = s.now().UTC().Format(dateLayout)
	}
	day, err := ParseDate(date)
	if err != nil {
		return model.TimeSlot{}, err
	}

	startStr := query.StartTime
	if startStr == "" {
		startStr = config.DefaultScheduleDayStart
	}
	endStr := query.EndTime
	if endStr == "" {
		endStr = config.DefaultScheduleDayEnd
	}

	start, err := ParseClock(startStr)
	if err != nil {
		return model.TimeSlot{}, err
	}
	end, err := ParseClock(endStr)
	if err != nil {
		return model.TimeSlot{}, err
	}

	window := model.TimeSlot{
		StartTime: day.Add(start),
		EndTime:   day.Add(end),
	}
	if !window.IsValid() {
		return model.TimeSlot{}, apperrors.InvalidInput("start_time must be before end_time")
	}
	return window, nil
}
