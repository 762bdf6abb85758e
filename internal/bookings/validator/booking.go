package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"roombook/internal/slots"
	"roombook/pkg/config"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/go-playground/validator/v10"
)

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

// Details maps each field to its message for error responses.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
	ledger   config.Ledger
	grid     *slots.Grid
	rooms    map[string]struct{}
}

func NewBookingValidator(log *logger.Logger, ledger config.Ledger, grid *slots.Grid) *BookingValidator {
	v := validator.New()

	bv := &BookingValidator{
		validate: v,
		logger:   log,
		ledger:   ledger,
		grid:     grid,
		rooms:    make(map[string]struct{}, len(ledger.Rooms)),
	}
	for _, room := range ledger.Rooms {
		bv.rooms[room] = struct{}{}
	}

	custom := map[string]validator.Func{
		"room":    bv.validateRoom,
		"slot":    bv.validateSlot,
		"isodate": validateISODate,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register booking validator", "tag", tag, "error", err)
		}
	}

	log.Info("Booking validator initialized successfully")
	return bv
}

func (v *BookingValidator) validateRoom(fl validator.FieldLevel) bool {
	_, ok := v.rooms[fl.Field().String()]
	return ok
}

func (v *BookingValidator) validateSlot(fl validator.FieldLevel) bool {
	return v.grid.Contains(fl.Field().String())
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(model.DateLayout, fl.Field().String())
	return err == nil
}

// Validate checks a booking as it is about to be admitted.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	var result ValidationErrors

	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return err
		}
		result = v.translateValidationErrors(validationErrs)
	}

	if v.ledger.RequireTitle && booking.Title == "" {
		result = append(result, ValidationError{Field: "Title", Message: "Title is required"})
	}
	if v.ledger.RequireContact && booking.Contact == "" {
		result = append(result, ValidationError{Field: "Contact", Message: "Contact is required"})
	}

	if len(result) == 0 {
		start, _ := slots.ParseMinute(booking.Start)
		end, _ := slots.ParseMinute(booking.End)
		if end <= start {
			result = append(result, ValidationError{
				Field:   "End",
				Message: "end must be after start",
			})
		}
	}

	if len(result) > 0 {
		return result
	}
	return nil
}

// ValidateBlockedDate checks a date an administrator is about to close.
func (v *BookingValidator) ValidateBlockedDate(blocked *model.BlockedDate) error {
	if err := v.validate.Struct(blocked); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return err
		}
		return v.translateValidationErrors(validationErrs)
	}
	return nil
}

// ValidateSecret checks the secret offered at creation time.
func (v *BookingValidator) ValidateSecret(secret string) error {
	if !v.ledger.RequireSecret {
		return nil
	}
	if strings.TrimSpace(secret) == "" {
		return ValidationErrors{{Field: "Secret", Message: "Secret is required"}}
	}
	if len(secret) > 72 {
		return ValidationErrors{{Field: "Secret", Message: "Secret must be at most 72 bytes"}}
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
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "room":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(v.ledger.Rooms, ", "))
		case "slot":
			message = fmt.Sprintf("%s must be a %d-minute boundary between %s and %s",
				err.Field(), v.grid.Step, slots.FormatMinute(v.grid.Start), slots.FormatMinute(v.grid.End))
		case "isodate":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
