package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"roomsched/pkg/config"
	apperrors "roomsched/pkg/errors"
	"roomsched/pkg/logger"
	"roomsched/pkg/model"
)

// Policy carries the institutional booking rules. It is injected rather
// than read from package-level state so tests can exercise limits in
// isolation and deployments can tune them.
type Policy struct {
	MinDuration         time.Duration
	MaxDuration         time.Duration
	AdvanceWindowMonths int
	PrivilegedRoles     map[model.Role]bool
}

func NewPolicy(cfg *config.Config) Policy {
	privileged := make(map[model.Role]bool, len(cfg.PrivilegedRoles))
	for _, role := range cfg.PrivilegedRoles {
		privileged[role] = true
	}
	return Policy{
		MinDuration:         cfg.MinBookingDuration,
		MaxDuration:         cfg.MaxBookingDuration,
		AdvanceWindowMonths: cfg.AdvanceWindowMonths,
		PrivilegedRoles:     privileged,
	}
}

// IsPrivileged reports whether the role is exempt from temporal policy.
func (p Policy) IsPrivileged(role model.Role) bool {
	return p.PrivilegedRoles[role]
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	policy   Policy
	log      *logger.Logger
}

func NewBookingValidator(policy Policy, log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		policy:   policy,
		log:      log,
	}
}

func (v *BookingValidator) Policy() Policy {
	return v.policy
}

// ValidateStruct checks shape only: required fields, id formats, end after
// start. Temporal policy lives in ValidatePolicy.
func (v *BookingValidator) ValidateStruct(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !booking.EndTime.After(booking.StartTime) {
		return ValidationErrors{
			ValidationError{Field: "EndTime", Message: "end_time must be after start_time"},
		}
	}
	return nil
}

// ValidatePolicy applies the temporal rules to a candidate booking. Each
// rule is independent and names the crossed limit in its message.
func (v *BookingValidator) ValidatePolicy(booking *model.Booking, role model.Role, now time.Time) error {
	duration := booking.EndTime.Sub(booking.StartTime)
	if duration < v.policy.MinDuration {
		return apperrors.DurationTooShort(int(v.policy.MinDuration.Minutes()))
	}
	if duration > v.policy.MaxDuration {
		return apperrors.DurationTooLong(int(v.policy.MaxDuration.Hours()))
	}

	if v.policy.IsPrivileged(role) {
		return nil
	}

	if booking.StartTime.Before(now) {
		return apperrors.StartInPast()
	}
	if booking.StartTime.After(now.AddDate(0, v.policy.AdvanceWindowMonths, 0)) {
		return apperrors.TooFarInAdvance(v.policy.AdvanceWindowMonths)
	}
	return nil
}

// ValidateMutable enforces post-start immutability on update and cancel: a
// booking whose start has passed is frozen for non-privileged actors.
func (v *BookingValidator) ValidateMutable(existing *model.Booking, role model.Role, now time.Time) error {
	if v.policy.IsPrivileged(role) {
		return nil
	}
	if !existing.StartTime.After(now) {
		return apperrors.AlreadyStarted()
	}
	return nil
}

// ValidateOwner enforces per-owner mutation rights: a non-privileged actor
// may only touch bookings they created. action names the attempted verb
// for the error message ("update", "cancel").
func (v *BookingValidator) ValidateOwner(ownerID, actorID string, role model.Role, action string) error {
	if v.policy.IsPrivileged(role) {
		return nil
	}
	if ownerID != actorID {
		return apperrors.Forbidden(fmt.Sprintf("You can only %s your own bookings", action))
	}
	return nil
}

// ValidateSeries checks the series request shape; the first occurrence is
// additionally run through ValidatePolicy by the service.
func (v *BookingValidator) ValidateSeries(series *model.BookingSeries) error {
	if err := v.validate.Struct(series); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !series.EndTime.After(series.StartTime) {
		return ValidationErrors{
			ValidationError{Field: "EndTime", Message: "end_time must be after start_time"},
		}
	}
	if series.SeriesEndDate.Before(series.StartTime) {
		return ValidationErrors{
			ValidationError{Field: "SeriesEndDate", Message: "series_end_date must not be before the first occurrence"},
		}
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
