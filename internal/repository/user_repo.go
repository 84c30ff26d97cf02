package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
)

// UserRepository persists operator accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteAll(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, users []models.User) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository constructs the user account repository.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{collection: db.Collection("users")}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to clear users: %w", err)
	}

	return result.DeletedCount, nil
}

func (r *userRepository) InsertMany(ctx context.Context, users []models.User) error {
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(users))
	for i := range users {
		users[i].CreatedAt = now
		users[i].UpdatedAt = now
		docs = append(docs, users[i])
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert users: %w", err)
	}

	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return total, nil
}
