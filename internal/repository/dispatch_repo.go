package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
)

// DispatchRepository persists dispatch records. Records are written once and
// retained indefinitely for audit purposes.
type DispatchRepository interface {
	Insert(ctx context.Context, record *models.Dispatch) error
	List(ctx context.Context, page, pageSize int) ([]models.Dispatch, int64, error)
}

type dispatchRepository struct {
	collection *mongo.Collection
}

// NewDispatchRepository constructs the dispatch record repository.
func NewDispatchRepository(db *mongo.Database) DispatchRepository {
	return &dispatchRepository{collection: db.Collection("dispatches")}
}

func (r *dispatchRepository) Insert(ctx context.Context, record *models.Dispatch) error {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to insert dispatch record: %w", err)
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = id
	}

	return nil
}

func (r *dispatchRepository) List(ctx context.Context, page, pageSize int) ([]models.Dispatch, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count dispatch records: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if pageSize > 0 {
		if page <= 0 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * pageSize))
		opts.SetLimit(int64(pageSize))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query dispatch records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.Dispatch
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to decode dispatch records: %w", err)
	}

	return records, total, nil
}
