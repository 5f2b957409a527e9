package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"ayurclinic/pkg/logger"
	"ayurclinic/pkg/model"
)

var (
	clockTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
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

type AvailabilityValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAvailabilityValidator(log *logger.Logger) *AvailabilityValidator {
	v := validator.New()

	if err := v.RegisterValidation("valid_clock_time", validateClockTime); err != nil {
		log.Fatal("Failed to register 'valid_clock_time' validator", "error", err)
	}
	if err := v.RegisterValidation("valid_date", validateDate); err != nil {
		log.Fatal("Failed to register 'valid_date' validator", "error", err)
	}

	log.Info("Availability validator initialized successfully")

	return &AvailabilityValidator{
		validate: v,
		logger:   log,
	}
}

func validateClockTime(fl validator.FieldLevel) bool {
	return clockTimeRegex.MatchString(fl.Field().String())
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func (v *AvailabilityValidator) Validate(cfg *model.AvailabilityConfig) error {
	if err := v.validate.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	var errs ValidationErrors

	// Slot cadence must advance the cursor or tiling would loop forever.
	if cfg.BufferBeforeMin+cfg.SlotLengthMin+cfg.BufferAfterMin <= 0 {
		errs = append(errs, ValidationError{
			Field:   "SlotLengthMin",
			Message: "slot length plus buffers must be positive",
		})
	}

	for day, hours := range cfg.WeeklyHours {
		if day < "0" || day > "6" || len(day) != 1 {
			errs = append(errs, ValidationError{
				Field:   "WeeklyHours",
				Message: fmt.Sprintf("weekday key must be \"0\" through \"6\", got %q", day),
			})
			continue
		}
		if !hours.Enabled {
			continue
		}
		if !clockTimeRegex.MatchString(hours.Start) || !clockTimeRegex.MatchString(hours.End) {
			errs = append(errs, ValidationError{
				Field:   "WeeklyHours",
				Message: fmt.Sprintf("weekday %s: enabled hours need start and end in HH:MM", day),
			})
			continue
		}
		if hours.Start >= hours.End {
			errs = append(errs, ValidationError{
				Field:   "WeeklyHours",
				Message: fmt.Sprintf("weekday %s: start %s must be before end %s", day, hours.Start, hours.End),
			})
		}
	}

	for date, exc := range cfg.Exceptions {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			errs = append(errs, ValidationError{
				Field:   "Exceptions",
				Message: fmt.Sprintf("exception key must be YYYY-MM-DD, got %q", date),
			})
			continue
		}
		if exc.Type != model.ExceptionPartial {
			continue
		}
		if !clockTimeRegex.MatchString(exc.Start) || !clockTimeRegex.MatchString(exc.End) {
			errs = append(errs, ValidationError{
				Field:   "Exceptions",
				Message: fmt.Sprintf("%s: partial exception needs start and end in HH:MM", date),
			})
			continue
		}
		if exc.Start >= exc.End {
			errs = append(errs, ValidationError{
				Field:   "Exceptions",
				Message: fmt.Sprintf("%s: start %s must be before end %s", date, exc.Start, exc.End),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *AvailabilityValidator) ValidateUpdate(update *model.AvailabilityConfigUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *AvailabilityValidator) ValidateUnavailableDate(date *model.UnavailableDate) error {
	if err := v.validate.Struct(date); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *AvailabilityValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA timezone", err.Field())
		case "valid_clock_time":
			message = fmt.Sprintf("%s must be in HH:MM format", err.Field())
		case "valid_date":
			message = fmt.Sprintf("%s must be in YYYY-MM-DD format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
