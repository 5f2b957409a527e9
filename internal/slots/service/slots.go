package service

import (
	"context"
	"strconv"
	"time"

	"ayurclinic/pkg/config"
	apperrors "ayurclinic/pkg/errors"
	"ayurclinic/pkg/model"
)

const (
	MsgNotAvailable = "not available on this date"
	MsgNotWorking   = "does not work on this day"
	MsgInvalidDate  = "invalid date"

	ReasonBooked       = "already booked"
	ReasonOutsideHours = "outside working hours"
)

const dateLayout = "2006-01-02"

// ConfigSource supplies a practitioner's availability config, materializing
// defaults for unknown practitioners rather than failing.
type ConfigSource interface {
	GetOrCreate(ctx context.Context, practitionerID string) (*model.AvailabilityConfig, error)
}

// BlackoutSource reports full-day blackouts.
type BlackoutSource interface {
	IsBlocked(ctx context.Context, practitionerID string, date string) (bool, error)
}

// AppointmentSource supplies the active holds for one practitioner-date.
type AppointmentSource interface {
	FindActive(ctx context.Context, practitionerID string, date string) ([]*model.Appointment, error)
}

type SlotService interface {
	Generate(ctx context.Context, practitionerID string, date string) (*model.DaySchedule, error)
	Validate(ctx context.Context, practitionerID string, date string, start, end time.Time) (*model.SlotValidation, error)
	NextAvailable(ctx context.Context, practitionerID string, fromDate string, count int) ([]model.Slot, error)
}

type slotService struct {
	configs      ConfigSource
	blackouts    BlackoutSource
	appointments AppointmentSource
	cfg          *config.Config
}

func NewSlotService(
	configs ConfigSource,
	blackouts BlackoutSource,
	appointments AppointmentSource,
	cfg *config.Config,
) SlotService {
	return &slotService{
		configs:      configs,
		blackouts:    blackouts,
		appointments: appointments,
		cfg:          cfg,
	}
}

// Generate computes the full slot list for one practitioner-date. Empty
// results (blocked date, non-working weekday, malformed date) are normal
// outcomes carried in Message; errors are reserved for storage faults.
func (s *slotService) Generate(ctx context.Context, practitionerID string, date string) (*model.DaySchedule, error) {
	if practitionerID == "" {
		return nil, apperrors.InvalidInput("Practitioner ID cannot be empty")
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return &model.DaySchedule{Date: date, Slots: []model.Slot{}, Message: MsgInvalidDate}, nil
	}

	availCfg, err := s.configs.GetOrCreate(ctx, practitionerID)
	if err != nil {
		return nil, err
	}

	schedule := &model.DaySchedule{
		Date:     date,
		TimeZone: availCfg.TimeZone,
		Slots:    []model.Slot{},
	}

	blocked, err := s.blackouts.IsBlocked(ctx, practitionerID, date)
	if err != nil {
		return nil, err
	}
	if blocked {
		schedule.Message = MsgNotAvailable
		return schedule, nil
	}

	// Weekday is anchored on UTC midnight of the date string, deliberately
	// independent of the practitioner's timezone.
	weekday := strconv.Itoa(int(day.UTC().Weekday()))

	loc, err := time.LoadLocation(availCfg.TimeZone)
	if err != nil {
		return nil, apperrors.Internal("Invalid timezone in availability config", err)
	}

	window, ok := s.resolveWindow(availCfg, date, weekday)
	if !ok {
		schedule.Message = MsgNotWorking
		return schedule, nil
	}
	if window.blocked {
		schedule.Message = MsgNotAvailable
		return schedule, nil
	}

	windowStart := clockOnDate(day, window.start, loc)
	windowEnd := clockOnDate(day, window.end, loc)
	if !windowStart.Before(windowEnd) {
		schedule.Message = MsgNotWorking
		return schedule, nil
	}

	slots := tile(windowStart, windowEnd, availCfg.SlotLengthMin, availCfg.BufferBeforeMin, availCfg.BufferAfterMin)

	active, err := s.appointments.FindActive(ctx, practitionerID, date)
	if err != nil {
		return nil, err
	}

	markConflicts(slots, active, availCfg.BufferBeforeMin, availCfg.BufferAfterMin)

	schedule.Slots = slots
	return schedule, nil
}

// Validate re-derives the slot list and requires an exact boundary match.
// Regeneration from source data is the defense against stale clients; the
// commit-time race is closed separately at the storage layer.
func (s *slotService) Validate(ctx context.Context, practitionerID string, date string, start, end time.Time) (*model.SlotValidation, error) {
	schedule, err := s.Generate(ctx, practitionerID, date)
	if err != nil {
		return nil, err
	}

	if len(schedule.Slots) == 0 {
		reason := schedule.Message
		if reason == "" {
			reason = ReasonOutsideHours
		}
		return &model.SlotValidation{IsValid: false, Reason: reason}, nil
	}

	for _, slot := range schedule.Slots {
		if slot.StartTime.Equal(start) && slot.EndTime.Equal(end) {
			if !slot.Available {
				return &model.SlotValidation{IsValid: false, Reason: slot.Reason}, nil
			}
			return &model.SlotValidation{IsValid: true}, nil
		}
	}

	return &model.SlotValidation{IsValid: false, Reason: ReasonOutsideHours}, nil
}

// NextAvailable walks forward day by day collecting open slots. The
// lookahead ceiling is a hard cap; a short result is not an error.
func (s *slotService) NextAvailable(ctx context.Context, practitionerID string, fromDate string, count int) ([]model.Slot, error) {
	if count <= 0 {
		return nil, apperrors.InvalidInput("Count must be positive")
	}

	from, err := time.Parse(dateLayout, fromDate)
	if err != nil {
		return nil, apperrors.InvalidInput("From date must be in YYYY-MM-DD format")
	}

	found := make([]model.Slot, 0, count)
	for i := 0; i < s.cfg.MaxLookaheadDays && len(found) < count; i++ {
		date := from.AddDate(0, 0, i).Format(dateLayout)

		schedule, err := s.Generate(ctx, practitionerID, date)
		if err != nil {
			return nil, err
		}

		for _, slot := range schedule.Slots {
			if !slot.Available {
				continue
			}
			slot.Date = date
			found = append(found, slot)
			if len(found) == count {
				break
			}
		}
	}

	return found, nil
}

type window struct {
	start   string
	end     string
	blocked bool
}

// resolveWindow applies precedence: a date exception supersedes the weekly
// pattern, but a malformed exception falls back to it.
func (s *slotService) resolveWindow(availCfg *model.AvailabilityConfig, date string, weekday string) (window, bool) {
	if exc, ok := availCfg.Exceptions[date]; ok {
		switch exc.Type {
		case model.ExceptionBlock:
			return window{blocked: true}, true
		case model.ExceptionPartial:
			if validClock(exc.Start) && validClock(exc.End) && exc.Start < exc.End {
				return window{start: exc.Start, end: exc.End}, true
			}
		}
	}

	hours, ok := availCfg.WeeklyHours[weekday]
	if !ok || !hours.Enabled {
		return window{}, false
	}
	if !validClock(hours.Start) || !validClock(hours.End) {
		return window{}, false
	}

	return window{start: hours.Start, end: hours.End}, true
}

// tile greedily fills the window: the cursor starts after the leading
// buffer and each slot must fit with its trailing buffer inside the window.
// No slot is ever partially inside.
func tile(windowStart, windowEnd time.Time, slotLengthMin, bufferBeforeMin, bufferAfterMin int) []model.Slot {
	slotLen := time.Duration(slotLengthMin) * time.Minute
	bufBefore := time.Duration(bufferBeforeMin) * time.Minute
	bufAfter := time.Duration(bufferAfterMin) * time.Minute

	slots := []model.Slot{}
	cursor := windowStart.Add(bufBefore)
	for !cursor.Add(slotLen).Add(bufAfter).After(windowEnd) {
		slots = append(slots, model.Slot{
			StartTime:   cursor,
			EndTime:     cursor.Add(slotLen),
			DurationMin: slotLengthMin,
			Available:   true,
		})
		cursor = cursor.Add(slotLen).Add(bufAfter).Add(bufBefore)
	}

	return slots
}

// markConflicts flags slots whose buffer-expanded range strictly overlaps
// any active appointment's buffer-expanded range. Equal boundaries do not
// overlap: adjacency is allowed.
func markConflicts(slots []model.Slot, active []*model.Appointment, bufferBeforeMin, bufferAfterMin int) {
	if len(active) == 0 {
		return
	}

	bufBefore := time.Duration(bufferBeforeMin) * time.Minute
	bufAfter := time.Duration(bufferAfterMin) * time.Minute

	for i := range slots {
		slotStart := slots[i].StartTime.Add(-bufBefore)
		slotEnd := slots[i].EndTime.Add(bufAfter)

		for _, appt := range active {
			apptStart := appt.StartTime.Add(-bufBefore)
			apptEnd := appt.EndTime.Add(bufAfter)

			if slotStart.Before(apptEnd) && slotEnd.After(apptStart) {
				slots[i].Available = false
				slots[i].Reason = ReasonBooked
				break
			}
		}
	}
}

// clockOnDate pins an HH:MM clock time onto the calendar date in the given
// location.
func clockOnDate(day time.Time, clock string, loc *time.Location) time.Time {
	hh, _ := strconv.Atoi(clock[:2])
	mm, _ := strconv.Atoi(clock[3:])
	return time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, loc)
}

func validClock(clock string) bool {
	if len(clock) != 5 || clock[2] != ':' {
		return false
	}
	hh, err := strconv.Atoi(clock[:2])
	if err != nil || hh < 0 || hh > 23 {
		return false
	}
	mm, err := strconv.Atoi(clock[3:])
	if err != nil || mm < 0 || mm > 59 {
		return false
	}
	return true
}
