package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	availabilityerrors "ayurclinic/internal/availability/errors"
	"ayurclinic/pkg/config"
	"ayurclinic/pkg/model"
)

const (
	CollectionName = "Availability_configs"
)

type AvailabilityRepository interface {
	GetOrCreate(ctx context.Context, defaults *model.AvailabilityConfig) (*model.AvailabilityConfig, error)
	FindByPractitioner(ctx context.Context, practitionerID string) (*model.AvailabilityConfig, error)
	Update(ctx context.Context, practitionerID string, cfg *model.AvailabilityConfig) error
}

type mongoAvailabilityRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAvailabilityRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// GetOrCreate returns the practitioner's config, inserting the supplied
// defaults if none exists yet. The upsert makes concurrent first reads
// converge on a single document.
func (r *mongoAvailabilityRepository) GetOrCreate(ctx context.Context, defaults *model.AvailabilityConfig) (*model.AvailabilityConfig, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"practitioner_id": defaults.PractitionerID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"practitioner_id":   defaults.PractitionerID,
			"slot_length_min":   defaults.SlotLengthMin,
			"buffer_before_min": defaults.BufferBeforeMin,
			"buffer_after_min":  defaults.BufferAfterMin,
			"time_zone":         defaults.TimeZone,
			"weekly_hours":      defaults.WeeklyHours,
			"created_at":        now,
			"updated_at":        now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result model.AvailabilityConfig
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to get or create availability config: %w", err)
	}

	return &result, nil
}

func (r *mongoAvailabilityRepository) FindByPractitioner(ctx context.Context, practitionerID string) (*model.AvailabilityConfig, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"practitioner_id": practitionerID}

	var availCfg model.AvailabilityConfig
	err := r.collection.FindOne(ctx, filter).Decode(&availCfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, availabilityerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find availability config: %w", err)
	}

	return &availCfg, nil
}

func (r *mongoAvailabilityRepository) Update(ctx context.Context, practitionerID string, availCfg *model.AvailabilityConfig) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"practitioner_id": practitionerID}
	update := bson.M{
		"$set": bson.M{
			"slot_length_min":   availCfg.SlotLengthMin,
			"buffer_before_min": availCfg.BufferBeforeMin,
			"buffer_after_min":  availCfg.BufferAfterMin,
			"time_zone":         availCfg.TimeZone,
			"weekly_hours":      availCfg.WeeklyHours,
			"exceptions":        availCfg.Exceptions,
			"updated_at":        time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update availability config: %w", err)
	}

	if result.MatchedCount == 0 {
		return availabilityerrors.ErrNotFound
	}

	return nil
}
