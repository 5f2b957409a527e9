package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	availabilityerrors "ayurclinic/internal/availability/errors"
	"ayurclinic/pkg/config"
	"ayurclinic/pkg/model"
)

const (
	UnavailableDatesCollectionName = "Unavailable_dates"
)

type UnavailableDateRepository interface {
	Add(ctx context.Context, date *model.UnavailableDate) error
	Remove(ctx context.Context, practitionerID string, date string) error
	List(ctx context.Context, practitionerID string) ([]*model.UnavailableDate, error)
	IsBlocked(ctx context.Context, practitionerID string, date string) (bool, error)
}

type mongoUnavailableDateRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUnavailableDateRepository(cfg *config.Config) UnavailableDateRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUnavailableDateRepository{
		cfg:        cfg,
		collection: db.Collection(UnavailableDatesCollectionName),
	}
}

func (r *mongoUnavailableDateRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

// Add relies on the unique (practitioner_id, date) index to reject
// duplicate blackouts.
func (r *mongoUnavailableDateRepository) Add(ctx context.Context, date *model.UnavailableDate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	date.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, date)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return availabilityerrors.ErrDuplicateDate
		}
		return fmt.Errorf("failed to add unavailable date: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		date.ID = oid.Hex()
	}
	return nil
}

func (r *mongoUnavailableDateRepository) Remove(ctx context.Context, practitionerID string, date string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"practitioner_id": practitionerID, "date": date}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove unavailable date: %w", err)
	}

	if result.DeletedCount == 0 {
		return availabilityerrors.ErrDateNotFound
	}

	return nil
}

func (r *mongoUnavailableDateRepository) List(ctx context.Context, practitionerID string) ([]*model.UnavailableDate, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"practitioner_id": practitionerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list unavailable dates: %w", err)
	}
	defer cursor.Close(ctx)

	var dates []*model.UnavailableDate
	if err = cursor.All(ctx, &dates); err != nil {
		return nil, fmt.Errorf("failed to decode unavailable dates: %w", err)
	}

	return dates, nil
}

func (r *mongoUnavailableDateRepository) IsBlocked(ctx context.Context, practitionerID string, date string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"practitioner_id": practitionerID, "date": date}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check unavailable date: %w", err)
	}

	return count > 0, nil
}
