package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storagemarket/web/internal/db"
	"storagemarket/web/internal/models"
	"storagemarket/web/internal/utils"
)

// mongoListingStore implements IListingStore on a MongoDB collection.
type mongoListingStore struct {
	db *mongo.Database
}

// NewMongoListingStore creates a listing store backed by the "listings" collection.
func NewMongoListingStore(database *mongo.Database) IListingStore {
	return &mongoListingStore{db: database}
}

// EnsureMongoIndexes creates the index serving the browse query.
func EnsureMongoIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(ListingsTable).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "is_available", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("available_newest_first"),
	})
	if err != nil {
		return fmt.Errorf("failed to create listings index: %w", err)
	}
	return nil
}

func (s *mongoListingStore) ListAvailable(ctx context.Context) ([]models.Listing, error) {
	collection := s.db.Collection(ListingsTable)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := collection.Find(ctx, bson.M{"is_available": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query available listings: %w", err)
	}
	defer cursor.Close(ctx)

	results := []models.Listing{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode available listings: %w", err)
	}
	return results, nil
}

func (s *mongoListingStore) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Collection(ListingsTable).FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("error finding listing by ID %s: %w", id, err)
	}
	return &listing, nil
}

func (s *mongoListingStore) Insert(ctx context.Context, draft models.ListingDraft) (*models.Listing, error) {
	collection := s.db.Collection(ListingsTable)
	now := time.Now().UTC().Truncate(time.Millisecond) // BSON dates carry millisecond precision

	var newListing models.Listing
	operation := func() error {
		newListing = draft.ToListing(utils.NewID(), now)
		_, insertErr := collection.InsertOne(ctx, newListing)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert listing (last attempted ID: %s): %w", newListing.ID, err)
	}
	return &newListing, nil
}
