package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"storagemarket/web/internal/models"
	"storagemarket/web/internal/utils"
)

func TestMongoListingStore(t *testing.T) {
	database := utils.SetupTestDB(t, "storage_marketplace_test", ListingsTable)
	ctx := context.Background()
	require.NoError(t, EnsureMongoIndexes(ctx, database))
	s := NewMongoListingStore(database)

	t.Run("EmptyStoreListsNothing", func(t *testing.T) {
		list, err := s.ListAvailable(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	img := "https://cdn.example.com/unit-images/x.png"
	first, err := s.Insert(ctx, models.NewListingDraft("Older Garage", "d", "Austin", "78701", 100, "Garage", 200, nil, "a@b.com"))
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := s.Insert(ctx, models.NewListingDraft("Newer Warehouse", "d", "Dallas", "75201", 500, "Warehouse", 2000, &img, "c@d.com"))
	require.NoError(t, err)

	// Unavailable listings never appear in the browse query.
	_, err = database.Collection(ListingsTable).InsertOne(ctx, bson.M{
		"_id": "hidden", "title": "Rented", "is_available": false, "created_at": time.Now().UTC(),
	})
	require.NoError(t, err)

	t.Run("InsertAssignsIdentity", func(t *testing.T) {
		assert.NotEmpty(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)
		assert.True(t, first.IsAvailable)
		assert.False(t, first.CreatedAt.IsZero())
	})

	t.Run("ListAvailableNewestFirst", func(t *testing.T) {
		list, err := s.ListAvailable(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)
	})

	t.Run("FindByID", func(t *testing.T) {
		got, err := s.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "Newer Warehouse", got.Title)
		require.NotNil(t, got.ImageURL)
		assert.Equal(t, img, *got.ImageURL)
		assert.True(t, got.CreatedAt.Equal(second.CreatedAt))

		got, err = s.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ImageURL)
	})

	t.Run("FindByIDMissing", func(t *testing.T) {
		_, err := s.FindByID(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrListingNotFound)
	})
}
