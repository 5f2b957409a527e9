package model

import "time"

const (
	ExceptionBlock   = "block"
	ExceptionPartial = "partial"
)

// WorkingHours is one weekday's window in the practitioner's local time.
// A disabled entry means the practitioner does not work that weekday.
type WorkingHours struct {
	Enabled bool   `json:"enabled" bson:"enabled"`
	Start   string `json:"start,omitempty" bson:"start,omitempty" validate:"omitempty,valid_clock_time"`
	End     string `json:"end,omitempty" bson:"end,omitempty" validate:"omitempty,valid_clock_time"`
}

// DateException overrides the weekly pattern for a single calendar date:
// either a full block or a partial-hours window.
type DateException struct {
	Type  string `json:"type" bson:"type" validate:"required,oneof=block partial"`
	Start string `json:"start,omitempty" bson:"start,omitempty" validate:"omitempty,valid_clock_time"`
	End   string `json:"end,omitempty" bson:"end,omitempty" validate:"omitempty,valid_clock_time"`
}

// AvailabilityConfig holds one practitioner's bookable-time settings.
// WeeklyHours is keyed by weekday number as a string, "0" (Sunday) through
// "6" (Saturday); Exceptions by calendar date in YYYY-MM-DD.
type AvailabilityConfig struct {
	ID              string                   `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PractitionerID  string                   `json:"practitioner_id" bson:"practitioner_id" validate:"required,mongodb"`
	SlotLengthMin   int                      `json:"slot_length_min" bson:"slot_length_min" validate:"required,min=5,max=480"`
	BufferBeforeMin int                      `json:"buffer_before_min" bson:"buffer_before_min" validate:"min=0,max=120"`
	BufferAfterMin  int                      `json:"buffer_after_min" bson:"buffer_after_min" validate:"min=0,max=120"`
	TimeZone        string                   `json:"time_zone" bson:"time_zone" validate:"required,timezone"`
	WeeklyHours     map[string]WorkingHours  `json:"weekly_hours" bson:"weekly_hours" validate:"required,dive"`
	Exceptions      map[string]DateException `json:"exceptions,omitempty" bson:"exceptions,omitempty" validate:"omitempty,dive"`
	CreatedAt       time.Time                `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt       time.Time                `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type AvailabilityConfigUpdate struct {
	SlotLengthMin   *int                      `json:"slot_length_min,omitempty" validate:"omitempty,min=5,max=480"`
	BufferBeforeMin *int                      `json:"buffer_before_min,omitempty" validate:"omitempty,min=0,max=120"`
	BufferAfterMin  *int                      `json:"buffer_after_min,omitempty" validate:"omitempty,min=0,max=120"`
	TimeZone        string                    `json:"time_zone,omitempty" validate:"omitempty,timezone"`
	WeeklyHours     *map[string]WorkingHours  `json:"weekly_hours,omitempty" validate:"omitempty,dive"`
	Exceptions      *map[string]DateException `json:"exceptions,omitempty" validate:"omitempty,dive"`
}

// UnavailableDate is a full-day blackout, independent of the weekly
// pattern and exceptions. It takes precedence over both.
type UnavailableDate struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PractitionerID string    `json:"practitioner_id" bson:"practitioner_id" validate:"required,mongodb"`
	Date           string    `json:"date" bson:"date" validate:"required,valid_date"`
	Reason         string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
