package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingerrors "bookingflow/internal/booking/errors"
	"bookingflow/pkg/config"
	"bookingflow/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Confirmations"
)

type ConfirmationRepository interface {
	Save(ctx context.Context, record *model.BookingRecord) error
	FindByID(ctx context.Context, bookingID string) (*model.BookingRecord, error)
}

type mongoConfirmationRepository struct {
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoConfirmationRepository(cfg *config.Config) ConfirmationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return newConfirmationRepository(db.Collection(CollectionName), cfg.ReadTimeout, cfg.WriteTimeout)
}

func newConfirmationRepository(collection *mongo.Collection, readTimeout, writeTimeout time.Duration) *mongoConfirmationRepository {
	return &mongoConfirmationRepository{
		collection:   collection,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// withTimeout bounds ctx by timeout without extending an earlier deadline.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

// Save upserts by booking id, so a retried save of the same booking is a no-op.
func (r *mongoConfirmationRepository) Save(ctx context.Context, record *model.BookingRecord) error {
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("cannot archive confirmation without booking id")
	}

	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	if record.ConfirmedAt.IsZero() {
		record.ConfirmedAt = time.Now().UTC()
	}
	record.ConfirmedAt = record.ConfirmedAt.Truncate(time.Millisecond)

	filter := bson.M{"_id": record.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, record, opts); err != nil {
		return fmt.Errorf("failed to save confirmation: %w", err)
	}
	return nil
}

func (r *mongoConfirmationRepository) FindByID(ctx context.Context, bookingID string) (*model.BookingRecord, error) {
	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()

	var record model.BookingRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingerrors.ErrConfirmationNotFound
		}
		return nil, fmt.Errorf("failed to find confirmation: %w", err)
	}

	return &record, nil
}
