package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	appointmentserrors "ayurclinic/internal/appointments/errors"
	"ayurclinic/internal/appointments/events"
	"ayurclinic/internal/appointments/repository"
	"ayurclinic/internal/appointments/validator"
	"ayurclinic/pkg/config"
	apperrors "ayurclinic/pkg/errors"
	"ayurclinic/pkg/kafka"
	"ayurclinic/pkg/model"
)

// SlotChecker re-derives the slot list and verifies an exact boundary
// match. Implemented by the slot engine.
type SlotChecker interface {
	Validate(ctx context.Context, practitionerID string, date string, start, end time.Time) (*model.SlotValidation, error)
}

type AppointmentService interface {
	Book(ctx context.Context, appointment *model.Appointment) error
	GetByID(ctx context.Context, id string) (*model.Appointment, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Appointment, int64, error)
	UpdateStatus(ctx context.Context, id string, update *model.AppointmentStatusUpdate) error
	Reschedule(ctx context.Context, id string, reschedule *model.AppointmentReschedule) (*model.Appointment, error)
	Search(ctx context.Context, practitionerID string, date string, limit int, offset int64) ([]*model.Appointment, int64, error)
}

type appointmentService struct {
	repo      repository.AppointmentRepository
	lockRepo  repository.BookingLockRepository
	slots     SlotChecker
	validator *validator.AppointmentValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	lockRepo repository.BookingLockRepository,
	slots SlotChecker,
	validator *validator.AppointmentValidator,
	publisher events.Publisher,
	cfg *config.Config,
) AppointmentService {
	return &appointmentService{
		repo:      repo,
		lockRepo:  lockRepo,
		slots:     slots,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Book commits a booking with at-most-one-winner semantics. Validation and
// insert are separate operations, so the gap is closed three ways: an
// advisory lock serializes same-slot attempts on this path, the slot list
// is re-derived inside the transaction, and the unique partial index over
// active statuses is the final arbiter. Exactly one of two concurrent
// identical requests succeeds; the loser gets a conflict, not a
// validation failure.
func (s *appointmentService) Book(ctx context.Context, appointment *model.Appointment) error {
	s.applyDefaults(appointment)
	if err := s.validate(appointment); err != nil {
		return err
	}

	result, err := s.slots.Validate(ctx, appointment.PractitionerID, appointment.Date, appointment.StartTime, appointment.EndTime)
	if err != nil {
		return err
	}
	if !result.IsValid {
		return apperrors.Validation("Requested slot is not bookable", map[string]any{"reason": result.Reason})
	}

	lockID, err := s.acquireSlotLock(ctx, appointment.PractitionerID, appointment.StartTime)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		recheck, err := s.slots.Validate(sessCtx, appointment.PractitionerID, appointment.Date, appointment.StartTime, appointment.EndTime)
		if err != nil {
			return err
		}
		if !recheck.IsValid {
			return apperrors.Conflict("Slot is no longer available")
		}

		if err := s.repo.Create(sessCtx, appointment); err != nil {
			if errors.Is(err, appointmentserrors.ErrDuplicateSlot) {
				return apperrors.Conflict("Slot is no longer available")
			}
			return apperrors.Internal("Failed to create appointment", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to book appointment",
			"practitioner_id", appointment.PractitionerID,
			"start_time", appointment.StartTime,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Appointment booked",
		"id", appointment.ID,
		"practitioner_id", appointment.PractitionerID,
		"patient_id", appointment.PatientID,
		"start_time", appointment.StartTime,
	)
	s.publisher.Publish(ctx, kafka.EventAppointmentBooked, appointment)
	return nil
}

func (s *appointmentService) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Appointment", id)
		}
		if errors.Is(err, appointmentserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid appointment ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve appointment", err)
	}

	return appointment, nil
}

func (s *appointmentService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Appointment, int64, error) {
	var count int64
	var appointments []*model.Appointment
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count appointments", "error", errCount)
			errCount = apperrors.Internal("Failed to count appointments", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		appointments, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list appointments", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve appointments", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return appointments, count, nil
}

// Allowed lifecycle transitions. Cancelled and completed are terminal.
var statusTransitions = map[string][]string{
	model.StatusRequested:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed:   {model.StatusCancelled, model.StatusCompleted},
	model.StatusRescheduled: {model.StatusConfirmed, model.StatusCancelled, model.StatusCompleted},
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *appointmentService) UpdateStatus(ctx context.Context, id string, update *model.AppointmentStatusUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Appointment ID cannot be empty")
	}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		return apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}

	appointment, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !transitionAllowed(appointment.Status, update.Status) {
		return apperrors.Validation(
			fmt.Sprintf("Cannot transition appointment from %s to %s", appointment.Status, update.Status),
			map[string]any{"current_status": appointment.Status, "requested_status": update.Status},
		)
	}

	if err := s.repo.UpdateStatus(ctx, id, update.Status); err != nil {
		if errors.Is(err, appointmentserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Appointment", id)
		}
		s.cfg.Log.Error("Failed to update appointment status", "id", id, "error", err)
		return apperrors.Internal("Failed to update appointment status", err)
	}

	appointment.Status = update.Status
	s.cfg.Log.Info("Appointment status updated", "id", id, "status", update.Status)
	s.publisher.Publish(ctx, lifecycleEventType(update.Status), appointment)
	return nil
}

// Reschedule moves an active appointment to a new validated slot. The
// same lock-transaction-index chain as Book guards the move.
func (s *appointmentService) Reschedule(ctx context.Context, id string, reschedule *model.AppointmentReschedule) (*model.Appointment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}
	if err := s.validator.ValidateReschedule(reschedule); err != nil {
		return nil, apperrors.Validation("Invalid reschedule request", map[string]any{"error": err.Error()})
	}

	appointment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.IsActiveStatus(appointment.Status) {
		return nil, apperrors.Validation(
			fmt.Sprintf("Cannot reschedule a %s appointment", appointment.Status),
			map[string]any{"current_status": appointment.Status},
		)
	}

	result, err := s.slots.Validate(ctx, appointment.PractitionerID, reschedule.Date, reschedule.StartTime, reschedule.EndTime)
	if err != nil {
		return nil, err
	}
	if !result.IsValid {
		return nil, apperrors.Validation("Requested slot is not bookable", map[string]any{"reason": result.Reason})
	}

	lockID, err := s.acquireSlotLock(ctx, appointment.PractitionerID, reschedule.StartTime)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		recheck, err := s.slots.Validate(sessCtx, appointment.PractitionerID, reschedule.Date, reschedule.StartTime, reschedule.EndTime)
		if err != nil {
			return err
		}
		if !recheck.IsValid {
			return apperrors.Conflict("Slot is no longer available")
		}

		if err := s.repo.UpdateSchedule(sessCtx, id, reschedule.Date, reschedule.StartTime, reschedule.EndTime, model.StatusRescheduled); err != nil {
			if errors.Is(err, appointmentserrors.ErrDuplicateSlot) {
				return apperrors.Conflict("Slot is no longer available")
			}
			if errors.Is(err, appointmentserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Appointment", id)
			}
			return apperrors.Internal("Failed to reschedule appointment", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reschedule appointment", "id", id, "error", err)
		return nil, err
	}

	appointment.Date = reschedule.Date
	appointment.StartTime = reschedule.StartTime
	appointment.EndTime = reschedule.EndTime
	appointment.DurationMin = int(reschedule.EndTime.Sub(reschedule.StartTime).Minutes())
	appointment.Status = model.StatusRescheduled

	s.cfg.Log.Info("Appointment rescheduled",
		"id", id,
		"date", reschedule.Date,
		"start_time", reschedule.StartTime,
	)
	s.publisher.Publish(ctx, kafka.EventAppointmentRescheduled, appointment)
	return appointment, nil
}

func (s *appointmentService) Search(ctx context.Context, practitionerID string, date string, limit int, offset int64) ([]*model.Appointment, int64, error) {
	if practitionerID == "" {
		return nil, 0, apperrors.InvalidInput("practitioner_id is required")
	}

	var count int64
	var appointments []*model.Appointment
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByPractitionerAndDate(ctx, practitionerID, date)
		if err != nil {
			s.cfg.Log.Error("Failed to count appointments by search",
				"practitioner_id", practitionerID,
				"date", date,
				"error", err,
			)
			errCount = apperrors.Internal("Failed to count appointments", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		appointments, err = s.repo.FindByPractitionerAndDate(ctx, practitionerID, date, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search appointments",
				"practitioner_id", practitionerID,
				"date", date,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search appointments", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return appointments, count, nil
}

// --- Helpers ---

func (s *appointmentService) applyDefaults(a *model.Appointment) {
	if a.Status == "" {
		a.Status = model.StatusRequested
	}
	if a.DurationMin == 0 && a.EndTime.After(a.StartTime) {
		a.DurationMin = int(a.EndTime.Sub(a.StartTime).Minutes())
	}
}

func (s *appointmentService) validate(appointment *model.Appointment) error {
	if err := s.validator.Validate(appointment); err != nil {
		s.cfg.Log.Warn("Appointment validation failed", "error", err)
		return apperrors.Validation("Appointment validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// acquireSlotLock serializes concurrent booking attempts for one
// practitioner-slot. The TTL keeps a crashed request from wedging the slot.
func (s *appointmentService) acquireSlotLock(ctx context.Context, practitionerID string, startTime time.Time) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%d", practitionerID, startTime.Unix())

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *appointmentService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func lifecycleEventType(status string) string {
	switch status {
	case model.StatusConfirmed:
		return kafka.EventAppointmentConfirmed
	case model.StatusCancelled:
		return kafka.EventAppointmentCancelled
	case model.StatusCompleted:
		return kafka.EventAppointmentCompleted
	case model.StatusRescheduled:
		return kafka.EventAppointmentRescheduled
	default:
		return kafka.EventAppointmentBooked
	}
}
