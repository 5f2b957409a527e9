package model

import "time"

const (
	StatusRequested   = "requested"
	StatusConfirmed   = "confirmed"
	StatusRescheduled = "rescheduled"
	StatusCancelled   = "cancelled"
	StatusCompleted   = "completed"
)

// ActiveStatuses are the lifecycle states that still reserve the time
// range. Cancelled and completed appointments free the slot.
var ActiveStatuses = []string{StatusRequested, StatusConfirmed, StatusRescheduled}

func IsActiveStatus(status string) bool {
	for _, s := range ActiveStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PractitionerID string    `json:"practitioner_id" bson:"practitioner_id" validate:"required,mongodb"`
	PatientID      string    `json:"patient_id" bson:"patient_id" validate:"required,mongodb"`
	Date           string    `json:"date" bson:"date" validate:"required,valid_date"`
	StartTime      time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime        time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	DurationMin    int       `json:"duration_min" bson:"duration_min" validate:"required,min=5,max=480"`
	Status         string    `json:"status" bson:"status" validate:"required,oneof=requested confirmed rescheduled cancelled completed"`
	Notes          string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// AppointmentReschedule moves an appointment to a new slot. The move is
// re-validated against the practitioner's generated slots before commit.
type AppointmentReschedule struct {
	Date      string    `json:"date" validate:"required,valid_date"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

type AppointmentStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled completed"`
}
