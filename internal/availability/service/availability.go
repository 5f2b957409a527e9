package service

import (
	"context"
	"errors"
	"strconv"

	availabilityerrors "ayurclinic/internal/availability/errors"
	"ayurclinic/internal/availability/repository"
	"ayurclinic/internal/availability/validator"
	"ayurclinic/pkg/config"
	apperrors "ayurclinic/pkg/errors"
	"ayurclinic/pkg/model"
)

type AvailabilityService interface {
	GetOrCreate(ctx context.Context, practitionerID string) (*model.AvailabilityConfig, error)
	Update(ctx context.Context, practitionerID string, updates *model.AvailabilityConfigUpdate) (*model.AvailabilityConfig, error)
	AddUnavailableDate(ctx context.Context, date *model.UnavailableDate) error
	RemoveUnavailableDate(ctx context.Context, practitionerID string, date string) error
	ListUnavailableDates(ctx context.Context, practitionerID string) ([]*model.UnavailableDate, error)
	IsBlocked(ctx context.Context, practitionerID string, date string) (bool, error)
}

type availabilityService struct {
	repo      repository.AvailabilityRepository
	dateRepo  repository.UnavailableDateRepository
	validator *validator.AvailabilityValidator
	cfg       *config.Config
}

func NewAvailabilityService(
	repo repository.AvailabilityRepository,
	dateRepo repository.UnavailableDateRepository,
	validator *validator.AvailabilityValidator,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		dateRepo:  dateRepo,
		validator: validator,
		cfg:       cfg,
	}
}

// GetOrCreate never fails for an unknown practitioner: the clinic defaults
// are materialized on first access so the slot engine always has a config
// to work from.
func (s *availabilityService) GetOrCreate(ctx context.Context, practitionerID string) (*model.AvailabilityConfig, error) {
	if practitionerID == "" {
		return nil, apperrors.InvalidInput("Practitioner ID cannot be empty")
	}

	availCfg, err := s.repo.GetOrCreate(ctx, s.defaultConfig(practitionerID))
	if err != nil {
		s.cfg.Log.Error("Failed to get or create availability config",
			"practitioner_id", practitionerID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve availability config", err)
	}

	return availCfg, nil
}

func (s *availabilityService) Update(ctx context.Context, practitionerID string, updates *model.AvailabilityConfigUpdate) (*model.AvailabilityConfig, error) {
	if practitionerID == "" {
		return nil, apperrors.InvalidInput("Practitioner ID cannot be empty")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Availability update validation failed",
			"practitioner_id", practitionerID,
			"error", err,
		)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.GetOrCreate(ctx, practitionerID)
	if err != nil {
		return nil, err
	}

	merged := s.mergeUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Availability config validation failed",
			"practitioner_id", practitionerID,
			"error", err,
		)
		return nil, apperrors.Validation("Availability config validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, practitionerID, merged); err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Availability config", practitionerID)
		}
		s.cfg.Log.Error("Failed to update availability config",
			"practitioner_id", practitionerID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to update availability config", err)
	}

	s.cfg.Log.Info("Availability config updated", "practitioner_id", practitionerID)
	return merged, nil
}

func (s *availabilityService) AddUnavailableDate(ctx context.Context, date *model.UnavailableDate) error {
	if err := s.validator.ValidateUnavailableDate(date); err != nil {
		s.cfg.Log.Warn("Unavailable date validation failed", "error", err)
		return apperrors.Validation("Invalid unavailable date", map[string]any{"error": err.Error()})
	}

	if err := s.dateRepo.Add(ctx, date); err != nil {
		if errors.Is(err, availabilityerrors.ErrDuplicateDate) {
			return apperrors.Conflict("Date is already marked unavailable")
		}
		s.cfg.Log.Error("Failed to add unavailable date",
			"practitioner_id", date.PractitionerID,
			"date", date.Date,
			"error", err,
		)
		return apperrors.Internal("Failed to add unavailable date", err)
	}

	s.cfg.Log.Info("Unavailable date added",
		"practitioner_id", date.PractitionerID,
		"date", date.Date,
	)
	return nil
}

func (s *availabilityService) RemoveUnavailableDate(ctx context.Context, practitionerID string, date string) error {
	if practitionerID == "" || date == "" {
		return apperrors.InvalidInput("Practitioner ID and date are required")
	}

	if err := s.dateRepo.Remove(ctx, practitionerID, date); err != nil {
		if errors.Is(err, availabilityerrors.ErrDateNotFound) {
			return apperrors.NotFoundWithID("Unavailable date", date)
		}
		s.cfg.Log.Error("Failed to remove unavailable date",
			"practitioner_id", practitionerID,
			"date", date,
			"error", err,
		)
		return apperrors.Internal("Failed to remove unavailable date", err)
	}

	s.cfg.Log.Info("Unavailable date removed",
		"practitioner_id", practitionerID,
		"date", date,
	)
	return nil
}

func (s *availabilityService) ListUnavailableDates(ctx context.Context, practitionerID string) ([]*model.UnavailableDate, error) {
	if practitionerID == "" {
		return nil, apperrors.InvalidInput("Practitioner ID cannot be empty")
	}

	dates, err := s.dateRepo.List(ctx, practitionerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list unavailable dates",
			"practitioner_id", practitionerID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to list unavailable dates", err)
	}

	return dates, nil
}

func (s *availabilityService) IsBlocked(ctx context.Context, practitionerID string, date string) (bool, error) {
	blocked, err := s.dateRepo.IsBlocked(ctx, practitionerID, date)
	if err != nil {
		return false, apperrors.Internal("Failed to check unavailable date", err)
	}
	return blocked, nil
}

// defaultConfig builds the clinic's standard pattern: full weekdays, a
// short Saturday, Sunday off.
func (s *availabilityService) defaultConfig(practitionerID string) *model.AvailabilityConfig {
	weekly := map[string]model.WorkingHours{
		strconv.Itoa(0): {Enabled: false},
	}
	for day := 1; day <= 5; day++ {
		weekly[strconv.Itoa(day)] = model.WorkingHours{
			Enabled: true,
			Start:   s.cfg.DefaultWeekdayStart,
			End:     s.cfg.DefaultWeekdayEnd,
		}
	}
	weekly[strconv.Itoa(6)] = model.WorkingHours{
		Enabled: true,
		Start:   s.cfg.DefaultSaturdayStart,
		End:     s.cfg.DefaultSaturdayEnd,
	}

	return &model.AvailabilityConfig{
		PractitionerID:  practitionerID,
		SlotLengthMin:   s.cfg.DefaultSlotLengthMin,
		BufferBeforeMin: s.cfg.DefaultBufferBeforeMin,
		BufferAfterMin:  s.cfg.DefaultBufferAfterMin,
		TimeZone:        s.cfg.DefaultTimeZone,
		WeeklyHours:     weekly,
	}
}

func (s *availabilityService) mergeUpdates(existing *model.AvailabilityConfig, updates *model.AvailabilityConfigUpdate) *model.AvailabilityConfig {
	merged := *existing

	if updates.SlotLengthMin != nil {
		merged.SlotLengthMin = *updates.SlotLengthMin
	}
	if updates.BufferBeforeMin != nil {
		merged.BufferBeforeMin = *updates.BufferBeforeMin
	}
	if updates.BufferAfterMin != nil {
		merged.BufferAfterMin = *updates.BufferAfterMin
	}
	if updates.TimeZone != "" {
		merged.TimeZone = updates.TimeZone
	}
	if updates.WeeklyHours != nil {
		merged.WeeklyHours = *updates.WeeklyHours
	}
	if updates.Exceptions != nil {
		merged.Exceptions = *updates.Exceptions
	}

	return &merged
}
