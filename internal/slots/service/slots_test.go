package service

import (
	"context"
	"testing"
	"time"

	"ayurclinic/pkg/config"
	"ayurclinic/pkg/model"
)

type mockConfigSource struct {
	getOrCreateFn func(ctx context.Context, practitionerID string) (*model.AvailabilityConfig, error)
}

func (m *mockConfigSource) GetOrCreate(ctx context.Context, practitionerID string) (*model.AvailabilityConfig, error) {
	return m.getOrCreateFn(ctx, practitionerID)
}

type mockBlackoutSource struct {
	isBlockedFn func(ctx context.Context, practitionerID string, date string) (bool, error)
}

func (m *mockBlackoutSource) IsBlocked(ctx context.Context, practitionerID string, date string) (bool, error) {
	return m.isBlockedFn(ctx, practitionerID, date)
}

type mockAppointmentSource struct {
	findActiveFn func(ctx context.Context, practitionerID string, date string) ([]*model.Appointment, error)
}

func (m *mockAppointmentSource) FindActive(ctx context.Context, practitionerID string, date string) ([]*model.Appointment, error) {
	return m.findActiveFn(ctx, practitionerID, date)
}

const (
	testPractitionerID = "64f1b2a3c4d5e6f7a8b9c0d1"
	mondayDate         = "2026-01-05"
	saturdayDate       = "2026-01-10"
	sundayDate         = "2026-01-04"
)

func standardConfig() *model.AvailabilityConfig {
	return &model.AvailabilityConfig{
		PractitionerID:  testPractitionerID,
		SlotLengthMin:   30,
		BufferBeforeMin: 10,
		BufferAfterMin:  10,
		TimeZone:        "UTC",
		WeeklyHours: map[string]model.WorkingHours{
			"0": {Enabled: false},
			"1": {Enabled: true, Start: "09:00", End: "17:00"},
			"2": {Enabled: true, Start: "09:00", End: "17:00"},
			"3": {Enabled: true, Start: "09:00", End: "17:00"},
			"4": {Enabled: true, Start: "09:00", End: "17:00"},
			"5": {Enabled: true, Start: "09:00", End: "17:00"},
			"6": {Enabled: true, Start: "09:00", End: "13:00"},
		},
	}
}

func newTestService(availCfg *model.AvailabilityConfig, blocked bool, active []*model.Appointment) SlotService {
	return NewSlotService(
		&mockConfigSource{
			getOrCreateFn: func(ctx context.Context, practitionerID string) (*model.AvailabilityConfig, error) {
				return availCfg, nil
			},
		},
		&mockBlackoutSource{
			isBlockedFn: func(ctx context.Context, practitionerID string, date string) (bool, error) {
				return blocked, nil
			},
		},
		&mockAppointmentSource{
			findActiveFn: func(ctx context.Context, practitionerID string, date string) ([]*model.Appointment, error) {
				return active, nil
			},
		},
		&config.Config{MaxLookaheadDays: 30},
	)
}

func utcTime(date string, hh, mm int) time.Time {
	day, _ := time.Parse("2006-01-02", date)
	return time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, time.UTC)
}

func TestGenerateSlotInvariants(t *testing.T) {
	svc := newTestService(standardConfig(), false, nil)

	schedule, err := svc.Generate(context.Background(), testPractitionerID, mondayDate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(schedule.Slots) == 0 {
		t.Fatal("expected slots for a working weekday")
	}

	cadence := time.Duration(10+10) * time.Minute
	for i, slot := range schedule.Slots {
		if got := slot.EndTime.Sub(slot.StartTime); got != 30*time.Minute {
			t.Errorf("slot %d: duration = %v, want 30m", i, got)
		}
		if slot.DurationMin != 30 {
			t.Errorf("slot %d: DurationMin = %d, want 30", i, slot.DurationMin)
		}
		if i > 0 {
			gap := slot.StartTime.Sub(schedule.Slots[i-1].EndTime)
			if gap < cadence {
				t.Errorf("slot %d: gap to previous = %v, want >= %v", i, gap, cadence)
			}
		}
	}

	first := schedule.Slots[0]
	if want := utcTime(mondayDate, 9, 10); !first.StartTime.Equal(want) {
		t.Errorf("first slot starts at %v, want %v (window start plus leading buffer)", first.StartTime, want)
	}

	last := schedule.Slots[len(schedule.Slots)-1]
	windowEnd := utcTime(mondayDate, 17, 0)
	if last.EndTime.Add(10 * time.Minute).After(windowEnd) {
		t.Errorf("last slot %v does not fit with trailing buffer before %v", last.EndTime, windowEnd)
	}
}

func TestGenerateBlockedDate(t *testing.T) {
	svc := newTestService(standardConfig(), true, nil)

	schedule, err := svc.Generate(context.Background(), testPractitionerID, mondayDate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(schedule.Slots) != 0 {
		t.Errorf("expected no slots for blocked date, got %d", len(schedule.Slots))
	}
	if schedule.Message != MsgNotAvailable {
		t.Errorf("message = %q, want %q", schedule.Message, MsgNotAvailable)
	}
}

func TestGenerateNonWorkingDay(t *testing.T) {
	svc := newTestService(standardConfig(), false, nil)

	schedule, err := svc.Generate(context.Background(), testPractitionerID, sundayDate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(schedule.Slots) != 0 {
		t.Errorf("expected no slots on Sunday, got %d", len(schedule.Slots))
	}
	if schedule.Message != MsgNotWorking {
		t.Errorf("message = %q, want %q", schedule.Message, MsgNotWorking)
	}
}

func TestGenerateInvalidDate(t *testing.T) {
	svc := newTestService(standardConfig(), false, nil)

	schedule, err := svc.Generate(context.Background(), testPractitionerID, "not-a-date")
	if err != nil {
		t.Fatalf("Generate returned error for invalid date: %v", err)
	}
	if len(schedule.Slots) != 0 {
		t.Errorf("expected no slots for invalid date, got %d", len(schedule.Slots))
	}
	if schedule.Message != MsgInvalidDate {
		t.Errorf("message = %q, want %q", schedule.Message, MsgInvalidDate)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	svc := newTestService(standardConfig(), false, nil)

	first, err := svc.Generate(context.Background(), testPractitionerID, mondayDate)
	if err != nil {
		t.Fatalf("first Generate returned error: %v", err)
	}
	second, err := svc.Generate(context.Background(), testPractitionerID, mondayDate)
	if err != nil {
		t.Fatalf("second Generate returned error: %v", err)
	}

	if len(first.Slots) != len(second.Slots) {
		t.Fatalf("slot counts differ: %d vs %d", len(first.Slots), len(second.Slots))
	}
	for i := range first.Slots {
		a, b := first.Slots[i], second.Slots[i]
		if !a.StartTime.Equal(b.StartTime) || !a.EndTime.Equal(b.EndTime) || a.Available != b.Available {
			t.Errorf("slot %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestGenerateSaturdayShorterHours(t *testing.T) {
	svc := newTestService(standardConfig(), false, nil)

	weekday, err := svc.Generate(context.Background(), testPractitionerID, mondayDate)
	if err != nil {
		t.Fatalf("Generate(monday) returned error: %v", err)
	}
	saturday, err := svc.Generate(context.Background(), testPractitionerID, saturdayDate)
	if err != nil {
		t.Fatalf("Generate(saturday) returned error: %v", err)
	}

	if len(saturday.Slots) == 0 {
		t.Fatal("expected some Saturday slots")
	}
	if len(saturday.Slots) >= len(weekday.Slots) {
		t.Errorf("Saturday slots (%d) should be fewer than weekday slots (%d)", len(saturday.Slots), len(weekday.Slots))
	}
}

func TestGenerateMarksBookedSlots(t *testing.T) {
	// Appointment off the tiling grid still knocks out every slot whose
	// buffer-expanded range overlaps its own.
	active := []*model.Appointment{{
		PractitionerID: testPractitionerID,
		Date:           mondayDate,
		StartTime:      utcTime(mondayDate, 10, 0),
		EndTime:        utcTime(mondayDate, 10, 30),
		Status:         model.StatusConfirmed,
	}}
	svc := newTestService(standardConfig(), false, active)

	schedule, err := svc.Generate(context.Background(), testPractitionerID, mondayDate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	// Expanded appointment range is 09:50-10:40. Slots 09:50-10:20 (expanded
	// 09:40-10:30) and 10:30-11:00 (expanded 10:20-11:10) both overlap it.
	wantUnavailable := map[string]bool{"09:50": true, "10:30": true}
	for _, slot := range schedule.Slots {
		key := slot.StartTime.Format("15:04")
		if wantUnavailable[key] {
			if slot.Available {
				t.Errorf("slot %s should be unavailable", key)
			}
			if slot.Reason != ReasonBooked {
				t.Errorf("slot %s reason = %q, want %q", key, slot.Reason, ReasonBooked)
			}
		} else if !slot.Available {
			t.Errorf("slot %s should be available, got reason %q", key, slot.Reason)
		}
	}
}

func TestGenerateAdjacencyAllowed(t *testing.T) {
	// With zero buffers, a slot starting exactly where the appointment ends
	// must stay available: equal boundaries are not overlap.
	availCfg := standardConfig()
	availCfg.BufferBeforeMin = 0
	availCfg.BufferAfterMin = 0

	active := []*model.Appointment{{
		PractitionerID: testPractitionerID,
		Date:           mondayDate,
		StartTime:      utcTime(mondayDate, 9, 0),
		EndTime:        utcTime(mondayDate, 9, 30),
		Status:         model.StatusRequested,
	}}
	svc := newTestService(availCfg, false, active)

	schedule, err := svc.Generate(context.Background(), testPractitionerID, mondayDate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	for _, slot := range schedule.Slots {
		key := slot.StartTime.Format("15:04")
		switch key {
		case "09:00":
			if slot.Available {
				t.Error("slot 09:00 overlaps the appointment and should be unavailable")
			}
		case "09:30":
			if !slot.Available {
				t.Errorf("slot 09:30 is adjacent, should be available, got reason %q", slot.Reason)
			}
		}
	}
}

func TestGenerateBlockException(t *testing.T) {
	availCfg := standardConfig()
	availCfg.Exceptions = map[string]model.DateException{
		mondayDate: {Type: model.ExceptionBlock},
	}
	svc := newTestService(availCfg, false, nil)

	schedule, err := svc.Generate(context.Background(), testPractitionerID, mondayDate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(schedule.Slots) != 0 || schedule.Message != MsgNotAvailable {
		t.Errorf("block exception: got %d slots, message %q", len(schedule.Slots), schedule.Message)
	}
}

func TestGeneratePartialException(t *testing.T) {
	availCfg := standardConfig()
	availCfg.Exceptions = map[string]model.DateException{
		mondayDate: {Type: model.ExceptionPartial, Start: "14:00", End: "16:00"},
	}
	svc := newTestService(availCfg, false, nil)

	schedule, err := svc.Generate(context.Background(), testPractitionerID, mondayDate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(schedule.Slots) == 0 {
		t.Fatal("expected slots inside partial exception window")
	}

	windowStart := utcTime(mondayDate, 14, 0)
	windowEnd := utcTime(mondayDate, 16, 0)
	for _, slot := range schedule.Slots {
		if slot.StartTime.Before(windowStart) || slot.EndTime.After(windowEnd) {
			t.Errorf("slot %v-%v escapes partial window", slot.StartTime, slot.EndTime)
		}
	}
}

func TestGenerateMalformedExceptionFallsBack(t *testing.T) {
	availCfg := standardConfig()
	availCfg.Exceptions = map[string]model.DateException{
		mondayDate: {Type: model.ExceptionPartial, Start: "16:00", End: "14:00"},
	}
	svc := newTestService(availCfg, false, nil)

	schedule, err := svc.Generate(context.Background(), testPractitionerID, mondayDate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(schedule.Slots) == 0 {
		t.Fatal("malformed exception should fall back to weekly hours")
	}
	if want := utcTime(mondayDate, 9, 10); !schedule.Slots[0].StartTime.Equal(want) {
		t.Errorf("first slot starts at %v, want weekly-hours start %v", schedule.Slots[0].StartTime, want)
	}
}

func TestValidateRoundTrip(t *testing.T) {
	svc := newTestService(standardConfig(), false, nil)

	schedule, err := svc.Generate(context.Background(), testPractitionerID, mondayDate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	for _, slot := range schedule.Slots {
		if !slot.Available {
			continue
		}
		result, err := svc.Validate(context.Background(), testPractitionerID, mondayDate, slot.StartTime, slot.EndTime)
		if err != nil {
			t.Fatalf("Validate returned error: %v", err)
		}
		if !result.IsValid {
			t.Errorf("generated available slot %v-%v reported invalid: %q", slot.StartTime, slot.EndTime, result.Reason)
		}
	}
}

func TestValidateNoExactMatch(t *testing.T) {
	svc := newTestService(standardConfig(), false, nil)

	// 09:45-10:15 does not land on the tiling grid.
	result, err := svc.Validate(context.Background(), testPractitionerID, mondayDate,
		utcTime(mondayDate, 9, 45), utcTime(mondayDate, 10, 15))
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if result.IsValid {
		t.Error("off-grid slot should be invalid")
	}
	if result.Reason != ReasonOutsideHours {
		t.Errorf("reason = %q, want %q", result.Reason, ReasonOutsideHours)
	}
}

func TestValidateBookedSlot(t *testing.T) {
	active := []*model.Appointment{{
		PractitionerID: testPractitionerID,
		Date:           mondayDate,
		StartTime:      utcTime(mondayDate, 9, 50),
		EndTime:        utcTime(mondayDate, 10, 20),
		Status:         model.StatusRequested,
	}}
	svc := newTestService(standardConfig(), false, active)

	result, err := svc.Validate(context.Background(), testPractitionerID, mondayDate,
		utcTime(mondayDate, 9, 50), utcTime(mondayDate, 10, 20))
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if result.IsValid {
		t.Error("booked slot should be invalid")
	}
	if result.Reason != ReasonBooked {
		t.Errorf("reason = %q, want %q", result.Reason, ReasonBooked)
	}
}

func TestValidateNonWorkingDay(t *testing.T) {
	svc := newTestService(standardConfig(), false, nil)

	result, err := svc.Validate(context.Background(), testPractitionerID, sundayDate,
		utcTime(sundayDate, 9, 10), utcTime(sundayDate, 9, 40))
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if result.IsValid {
		t.Error("slot on a non-working day should be invalid")
	}
	if result.Reason != MsgNotWorking {
		t.Errorf("reason = %q, want %q", result.Reason, MsgNotWorking)
	}
}

func TestNextAvailableBoundedAndOrdered(t *testing.T) {
	svc := newTestService(standardConfig(), false, nil)

	slots, err := svc.NextAvailable(context.Background(), testPractitionerID, mondayDate, 5)
	if err != nil {
		t.Fatalf("NextAvailable returned error: %v", err)
	}
	if len(slots) != 5 {
		t.Fatalf("got %d slots, want 5", len(slots))
	}

	for i, slot := range slots {
		if !slot.Available {
			t.Errorf("slot %d not available", i)
		}
		if slot.Date == "" {
			t.Errorf("slot %d missing date", i)
		}
		if i > 0 && slots[i].StartTime.Before(slots[i-1].StartTime) {
			t.Errorf("slot %d out of order: %v before %v", i, slots[i].StartTime, slots[i-1].StartTime)
		}
	}
}

func TestNextAvailableRespectsLookaheadCeiling(t *testing.T) {
	// Practitioner never works: the search must exhaust the ceiling and
	// return a short (empty) result, not an error.
	availCfg := standardConfig()
	for day := range availCfg.WeeklyHours {
		availCfg.WeeklyHours[day] = model.WorkingHours{Enabled: false}
	}

	generateCalls := 0
	svc := NewSlotService(
		&mockConfigSource{
			getOrCreateFn: func(ctx context.Context, practitionerID string) (*model.AvailabilityConfig, error) {
				return availCfg, nil
			},
		},
		&mockBlackoutSource{
			isBlockedFn: func(ctx context.Context, practitionerID string, date string) (bool, error) {
				generateCalls++
				return false, nil
			},
		},
		&mockAppointmentSource{
			findActiveFn: func(ctx context.Context, practitionerID string, date string) ([]*model.Appointment, error) {
				return nil, nil
			},
		},
		&config.Config{MaxLookaheadDays: 7},
	)

	slots, err := svc.NextAvailable(context.Background(), testPractitionerID, mondayDate, 5)
	if err != nil {
		t.Fatalf("NextAvailable returned error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("got %d slots, want 0", len(slots))
	}
	if generateCalls != 7 {
		t.Errorf("searched %d days, want exactly the 7-day ceiling", generateCalls)
	}
}

func TestNextAvailableSkipsBookedSlots(t *testing.T) {
	booked := map[string]bool{"09:10": true, "10:00": true}
	svc := newTestService(standardConfig(), false, nil)

	full, err := svc.Generate(context.Background(), testPractitionerID, mondayDate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	var active []*model.Appointment
	for _, slot := range full.Slots {
		if booked[slot.StartTime.Format("15:04")] {
			active = append(active, &model.Appointment{
				PractitionerID: testPractitionerID,
				Date:           mondayDate,
				StartTime:      slot.StartTime,
				EndTime:        slot.EndTime,
				Status:         model.StatusConfirmed,
			})
		}
	}

	svc = newTestService(standardConfig(), false, active)
	slots, err := svc.NextAvailable(context.Background(), testPractitionerID, mondayDate, 3)
	if err != nil {
		t.Fatalf("NextAvailable returned error: %v", err)
	}
	for _, slot := range slots {
		if booked[slot.StartTime.Format("15:04")] {
			t.Errorf("booked slot %v returned as available", slot.StartTime)
		}
	}
}

func TestNextAvailableInvalidInput(t *testing.T) {
	svc := newTestService(standardConfig(), false, nil)

	if _, err := svc.NextAvailable(context.Background(), testPractitionerID, "bad-date", 5); err == nil {
		t.Error("expected error for malformed from date")
	}
	if _, err := svc.NextAvailable(context.Background(), testPractitionerID, mondayDate, 0); err == nil {
		t.Error("expected error for non-positive count")
	}
}

func TestGenerateTimezoneWindow(t *testing.T) {
	// The working window is pinned in the practitioner's timezone; the
	// returned instants must reflect the zone offset.
	availCfg := standardConfig()
	availCfg.TimeZone = "Asia/Kolkata"
	svc := newTestService(availCfg, false, nil)

	schedule, err := svc.Generate(context.Background(), testPractitionerID, mondayDate)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(schedule.Slots) == 0 {
		t.Fatal("expected slots")
	}

	loc, _ := time.LoadLocation("Asia/Kolkata")
	want := time.Date(2026, 1, 5, 9, 10, 0, 0, loc)
	if !schedule.Slots[0].StartTime.Equal(want) {
		t.Errorf("first slot starts at %v, want %v", schedule.Slots[0].StartTime, want)
	}
	if schedule.TimeZone != "Asia/Kolkata" {
		t.Errorf("schedule timezone = %q", schedule.TimeZone)
	}
}
