package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
)

// ErrNoDocument is returned when a lookup matches nothing.
var ErrNoDocument = errors.New("document not found")

// ItemFilter narrows item listings.
type ItemFilter struct {
	Page        int
	PageSize    int
	Status      models.ItemStatus
	AllotmentNo string
}

// ItemRepository persists inventory items.
type ItemRepository interface {
	Insert(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error)
	FindByCode(ctx context.Context, code string) (*models.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]models.Item, int64, error)
	ListByAllotment(ctx context.Context, allotmentNo string) ([]models.Item, error)
	MarkDispatched(ctx context.Context, allotmentNo string) (int64, error)
}

type itemRepository struct {
	collection *mongo.Collection
}

// NewItemRepository constructs the inventory item repository.
func NewItemRepository(db *mongo.Database) ItemRepository {
	return &itemRepository{collection: db.Collection("items")}
}

func (r *itemRepository) Insert(ctx context.Context, item *models.Item) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		item.ID = id
	}

	return nil
}

func (r *itemRepository) Update(ctx context.Context, item *models.Item) error {
	item.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNoDocument
	}

	return nil
}

func (r *itemRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *itemRepository) FindByCode(ctx context.Context, code string) (*models.Item, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *itemRepository) findOne(ctx context.Context, query bson.M) (*models.Item, error) {
	var item models.Item
	err := r.collection.FindOne(ctx, query).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, filter ItemFilter) ([]models.Item, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.AllotmentNo != "" {
		query["allotment_no"] = filter.AllotmentNo
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
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
		return nil, 0, fmt.Errorf("failed to query items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode items: %w", err)
	}

	return items, total, nil
}

func (r *itemRepository) ListByAllotment(ctx context.Context, allotmentNo string) ([]models.Item, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"allotment_no": allotmentNo,
		"status":       models.ItemStatusInStock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query allotment items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode allotment items: %w", err)
	}

	return items, nil
}

func (r *itemRepository) MarkDispatched(ctx context.Context, allotmentNo string) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"allotment_no": allotmentNo, "status": models.ItemStatusInStock},
		bson.M{"$set": bson.M{
			"status":    models.ItemStatusDispatched,
			"updatedAt": time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark allotment dispatched: %w", err)
	}

	return result.ModifiedCount, nil
}
