package model

import "time"

// Slot is a computed bookable window. Slots are ephemeral: they are
// derived from the availability config and active appointments on every
// request and never persisted.
type Slot struct {
	Date        string    `json:"date,omitempty" bson:"-"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	DurationMin int       `json:"duration_min"`
	Available   bool      `json:"available"`
	Reason      string    `json:"reason,omitempty"`
}

// DaySchedule is the slot generator's result for one practitioner-date.
// An empty Slots with a Message is a normal outcome (blocked date,
// non-working weekday), not an error.
type DaySchedule struct {
	Date     string `json:"date"`
	TimeZone string `json:"time_zone"`
	Slots    []Slot `json:"slots"`
	Message  string `json:"message,omitempty"`
}

// SlotValidation reports whether a requested time range exactly matches a
// generated, available slot.
type SlotValidation struct {
	IsValid bool   `json:"is_valid"`
	Reason  string `json:"reason,omitempty"`
}
