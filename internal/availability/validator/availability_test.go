package validator

import (
	"testing"

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

func validConfig() *model.AvailabilityConfig {
	return &model.AvailabilityConfig{
		PractitionerID:  "64f1b2a3c4d5e6f7a8b9c0d1",
		SlotLengthMin:   30,
		BufferBeforeMin: 10,
		BufferAfterMin:  10,
		TimeZone:        "Asia/Kolkata",
		WeeklyHours: map[string]model.WorkingHours{
			"0": {Enabled: false},
			"1": {Enabled: true, Start: "09:00", End: "17:00"},
			"6": {Enabled: true, Start: "09:00", End: "13:00"},
		},
	}
}

func TestValidateConfig(t *testing.T) {
	validator := NewAvailabilityValidator(testLogger())

	tests := []struct {
		name      string
		mutate    func(cfg *model.AvailabilityConfig)
		wantError bool
	}{
		{
			name:      "valid config",
			mutate:    func(cfg *model.AvailabilityConfig) {},
			wantError: false,
		},
		{
			name:      "invalid timezone",
			mutate:    func(cfg *model.AvailabilityConfig) { cfg.TimeZone = "Mars/Olympus" },
			wantError: true,
		},
		{
			name: "weekday key out of range",
			mutate: func(cfg *model.AvailabilityConfig) {
				cfg.WeeklyHours["7"] = model.WorkingHours{Enabled: true, Start: "09:00", End: "17:00"}
			},
			wantError: true,
		},
		{
			name: "inverted working hours",
			mutate: func(cfg *model.AvailabilityConfig) {
				cfg.WeeklyHours["1"] = model.WorkingHours{Enabled: true, Start: "17:00", End: "09:00"}
			},
			wantError: true,
		},
		{
			name: "enabled day without hours",
			mutate: func(cfg *model.AvailabilityConfig) {
				cfg.WeeklyHours["1"] = model.WorkingHours{Enabled: true}
			},
			wantError: true,
		},
		{
			name: "disabled day without hours is fine",
			mutate: func(cfg *model.AvailabilityConfig) {
				cfg.WeeklyHours["1"] = model.WorkingHours{Enabled: false}
			},
			wantError: false,
		},
		{
			name:      "slot length out of range",
			mutate:    func(cfg *model.AvailabilityConfig) { cfg.SlotLengthMin = 999 },
			wantError: true,
		},
		{
			name: "valid block exception",
			mutate: func(cfg *model.AvailabilityConfig) {
				cfg.Exceptions = map[string]model.DateException{
					"2026-01-26": {Type: model.ExceptionBlock},
				}
			},
			wantError: false,
		},
		{
			name: "valid partial exception",
			mutate: func(cfg *model.AvailabilityConfig) {
				cfg.Exceptions = map[string]model.DateException{
					"2026-01-26": {Type: model.ExceptionPartial, Start: "14:00", End: "16:00"},
				}
			},
			wantError: false,
		},
		{
			name: "inverted partial exception",
			mutate: func(cfg *model.AvailabilityConfig) {
				cfg.Exceptions = map[string]model.DateException{
					"2026-01-26": {Type: model.ExceptionPartial, Start: "16:00", End: "14:00"},
				}
			},
			wantError: true,
		},
		{
			name: "exception key not a date",
			mutate: func(cfg *model.AvailabilityConfig) {
				cfg.Exceptions = map[string]model.DateException{
					"next monday": {Type: model.ExceptionBlock},
				}
			},
			wantError: true,
		},
		{
			name: "unknown exception type",
			mutate: func(cfg *model.AvailabilityConfig) {
				cfg.Exceptions = map[string]model.DateException{
					"2026-01-26": {Type: "holiday"},
				}
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validator.Validate(cfg)
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateUnavailableDate(t *testing.T) {
	validator := NewAvailabilityValidator(testLogger())

	tests := []struct {
		name      string
		date      *model.UnavailableDate
		wantError bool
	}{
		{
			name: "valid date",
			date: &model.UnavailableDate{
				PractitionerID: "64f1b2a3c4d5e6f7a8b9c0d1",
				Date:           "2026-01-26",
				Reason:         "public holiday",
			},
			wantError: false,
		},
		{
			name: "wrong date format",
			date: &model.UnavailableDate{
				PractitionerID: "64f1b2a3c4d5e6f7a8b9c0d1",
				Date:           "26/01/2026",
			},
			wantError: true,
		},
		{
			name: "missing practitioner",
			date: &model.UnavailableDate{
				Date: "2026-01-26",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateUnavailableDate(tt.date)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateUnavailableDate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}
