package handler

import (
	"net/http"

	"roomsched/internal/schedule/service"
	httputil "roomsched/pkg/http"
	"roomsched/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type ScheduleHandler struct {
	service service.ScheduleService
	log     *logger.Logger
}

func NewScheduleHandler(service service.ScheduleService, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		log:     log,
	}
}

func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	// building_short_name is the documented parameter; building is kept
	// as a shorthand alias.
	building := query.Get("building_short_name")
	if building == "" {
		building = query.Get("building")
	}

	schedule, err := h.service.GetSchedule(r.Context(), service.Query{
		RoomID:    query.Get("room_id"),
		Building:  building,
		Date:      query.Get("date"),
		StartTime: query.Get("start_time"),
		EndTime:   query.Get("end_time"),
		SlotType:  service.SlotType(query.Get("slot_type")),
	})
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSchedule", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSchedule", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/schedule", h.GetSchedule)
}
