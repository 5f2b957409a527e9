package validator

import (
	"testing"
	"time"

	"ayurclinic/pkg/logger"
	"ayurclinic/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func validAppointment() *model.Appointment {
	start := time.Date(2026, 1, 5, 9, 10, 0, 0, time.UTC)
	return &model.Appointment{
		PractitionerID: "64f1b2a3c4d5e6f7a8b9c0d1",
		PatientID:      "64f1b2a3c4d5e6f7a8b9c0d2",
		Date:           "2026-01-05",
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		DurationMin:    30,
		Status:         model.StatusRequested,
	}
}

func TestValidateAppointment(t *testing.T) {
	validator := NewAppointmentValidator(testLogger())

	tests := []struct {
		name      string
		mutate    func(a *model.Appointment)
		wantError bool
	}{
		{
			name:      "valid appointment",
			mutate:    func(a *model.Appointment) {},
			wantError: false,
		},
		{
			name:      "missing practitioner ID",
			mutate:    func(a *model.Appointment) { a.PractitionerID = "" },
			wantError: true,
		},
		{
			name:      "practitioner ID not an ObjectID",
			mutate:    func(a *model.Appointment) { a.PractitionerID = "dr-sharma" },
			wantError: true,
		},
		{
			name:      "date in wrong format",
			mutate:    func(a *model.Appointment) { a.Date = "05-01-2026" },
			wantError: true,
		},
		{
			name:      "end before start",
			mutate:    func(a *model.Appointment) { a.EndTime = a.StartTime.Add(-30 * time.Minute) },
			wantError: true,
		},
		{
			name:      "duration does not match range",
			mutate:    func(a *model.Appointment) { a.DurationMin = 45 },
			wantError: true,
		},
		{
			name:      "date names a different day than start time",
			mutate:    func(a *model.Appointment) { a.Date = "2026-01-06" },
			wantError: true,
		},
		{
			name:      "unknown status",
			mutate:    func(a *model.Appointment) { a.Status = "tentative" },
			wantError: true,
		},
		{
			name:      "duration below minimum",
			mutate: func(a *model.Appointment) {
				a.DurationMin = 2
				a.EndTime = a.StartTime.Add(2 * time.Minute)
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appointment := validAppointment()
			tt.mutate(appointment)

			err := validator.Validate(appointment)
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateStatusUpdate(t *testing.T) {
	validator := NewAppointmentValidator(testLogger())

	tests := []struct {
		name      string
		status    string
		wantError bool
	}{
		{"confirmed", model.StatusConfirmed, false},
		{"cancelled", model.StatusCancelled, false},
		{"completed", model.StatusCompleted, false},
		{"requested not settable directly", model.StatusRequested, true},
		{"rescheduled not settable directly", model.StatusRescheduled, true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStatusUpdate(&model.AppointmentStatusUpdate{Status: tt.status})
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateStatusUpdate(%q) error = %v, wantError %v", tt.status, err, tt.wantError)
			}
		})
	}
}

func TestValidateReschedule(t *testing.T) {
	validator := NewAppointmentValidator(testLogger())
	start := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		reschedule *model.AppointmentReschedule
		wantError  bool
	}{
		{
			name: "valid reschedule",
			reschedule: &model.AppointmentReschedule{
				Date:      "2026-01-05",
				StartTime: start,
				EndTime:   start.Add(30 * time.Minute),
			},
			wantError: false,
		},
		{
			name: "missing date",
			reschedule: &model.AppointmentReschedule{
				StartTime: start,
				EndTime:   start.Add(30 * time.Minute),
			},
			wantError: true,
		},
		{
			name: "end before start",
			reschedule: &model.AppointmentReschedule{
				Date:      "2026-01-05",
				StartTime: start,
				EndTime:   start.Add(-30 * time.Minute),
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateReschedule(tt.reschedule)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateReschedule() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}
