package handler

import (
	"encoding/json"
	"net/http"

	"roomsched/internal/bookings/service"
	httputil "roomsched/pkg/http"
	"roomsched/pkg/logger"
	"roomsched/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SeriesHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewSeriesHandler(service service.BookingService, log *logger.Logger) *SeriesHandler {
	return &SeriesHandler{
		service: service,
		log:     log,
	}
}

type SeriesCreateResponse struct {
	Series   *model.BookingSeries `json:"series"`
	Bookings []*model.Booking     `json:"bookings"`
}

func (h *SeriesHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, role, err := actor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateSeries", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var series model.BookingSeries
	if err := json.NewDecoder(r.Body).Decode(&series); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateSeries", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	series.UserID = userID

	bookings, err := h.service.CreateSeries(r.Context(), &series, role)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateSeries", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, SeriesCreateResponse{
		Series:   &series,
		Bookings: bookings,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateSeries", "operation", "WriteCreated", "error", err)
	}
}

func (h *SeriesHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	userID, role, err := actor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelSeries", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.service.CancelSeries(r.Context(), id, userID, role)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelSeries", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "CancelSeries", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SeriesHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings/series", h.Create)
	router.DELETE("/api/v1/bookings/series/:id", h.Cancel)
}
