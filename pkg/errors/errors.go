package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeInvalidInput = "INVALID_INPUT"
	CodeForbidden    = "FORBIDDEN"

	// Booking engine error kinds. Callers pattern-match on these codes and
	// on the limit values embedded in the messages, so both are part of the
	// API contract.
	CodeInvalidTimeFormat = "INVALID_TIME_FORMAT"
	CodeRoomNotFound      = "ROOM_NOT_FOUND"
	CodeDurationTooShort  = "DURATION_TOO_SHORT"
	CodeDurationTooLong   = "DURATION_TOO_LONG"
	CodeStartInPast       = "START_IN_PAST"
	CodeTooFarInAdvance   = "TOO_FAR_IN_ADVANCE"
	CodeAlreadyStarted    = "ALREADY_STARTED"
	CodeRoomAlreadyBooked = "ROOM_ALREADY_BOOKED"
	CodeSeriesNotFound    = "SERIES_NOT_FOUND"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
	return data
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// InvalidTimeFormat reports a query time string that does not match the
// HH-MM-SS wire form.
func InvalidTimeFormat(value string) *AppError {
	return &AppError{
		Code:       CodeInvalidTimeFormat,
		Message:    fmt.Sprintf("time must be in HH-MM-SS format, got: %s", value),
		HTTPStatus: http.StatusBadRequest,
	}
}

func RoomNotFound(roomID string) *AppError {
	return &AppError{
		Code:       CodeRoomNotFound,
		Message:    "Room not found",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"room_id": roomID},
	}
}

func DurationTooShort(minMinutes int) *AppError {
	return &AppError{
		Code:       CodeDurationTooShort,
		Message:    fmt.Sprintf("Booking must be at least %d minutes", minMinutes),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func DurationTooLong(maxHours int) *AppError {
	return &AppError{
		Code:       CodeDurationTooLong,
		Message:    fmt.Sprintf("Booking cannot exceed %d hours", maxHours),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func StartInPast() *AppError {
	return &AppError{
		Code:       CodeStartInPast,
		Message:    "Cannot create bookings in the past",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func TooFarInAdvance(months int) *AppError {
	return &AppError{
		Code:       CodeTooFarInAdvance,
		Message:    fmt.Sprintf("Cannot book more than %d months in advance", months),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func AlreadyStarted() *AppError {
	return &AppError{
		Code:       CodeAlreadyStarted,
		Message:    "Cannot modify bookings that have already started",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func RoomAlreadyBooked() *AppError {
	return &AppError{
		Code:       CodeRoomAlreadyBooked,
		Message:    "Room is already booked for this time slot",
		HTTPStatus: http.StatusConflict,
	}
}

func SeriesNotFound(seriesID string) *AppError {
	return &AppError{
		Code:       CodeSeriesNotFound,
		Message:    "Booking series not found",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"series_id": seriesID},
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
