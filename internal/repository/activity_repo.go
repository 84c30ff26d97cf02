package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
)

// ActivityFilter narrows audit trail queries.
type ActivityFilter struct {
	Page       int
	PageSize   int
	Operation  models.Operation
	ActionUser string
}

// ActivityRepository persists audit trail entries. The interface deliberately
// offers no update or delete: the trail is append-only.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *models.Activity) error
	List(ctx context.Context, filter ActivityFilter) ([]models.Activity, int64, error)
}

type activityRepository struct {
	collection *mongo.Collection
}

// NewActivityRepository constructs the audit trail repository over the
// activities collection.
func NewActivityRepository(db *mongo.Database) ActivityRepository {
	return &activityRepository{collection: db.Collection("activities")}
}

func (r *activityRepository) Insert(ctx context.Context, entry *models.Activity) error {
	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = id
	}

	return nil
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]models.Activity, int64, error) {
	query := bson.M{}
	if filter.Operation != "" {
		query["operation"] = filter.Operation
	}
	if filter.ActionUser != "" {
		query["actionUser"] = filter.ActionUser
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * filter.PageSize))
		opts.SetLimit(int64(filter.PageSize))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activities: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.Activity
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, fmt.Errorf("failed to decode activities: %w", err)
	}

	return entries, total, nil
}
