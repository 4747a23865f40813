package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storagemarket/web/internal/images"
	"storagemarket/web/internal/models"
	"storagemarket/web/internal/store"
)

func TestDetailService_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		listings := new(MockListingStore)
		listing := &models.Listing{ID: "abc", Title: "Garage", UnitType: "Garage", IsAvailable: true}
		listings.On("FindByID", mock.Anything, "abc").Return(listing, nil)

		view := NewDetailService(listings).Open(ctx, " abc ")
		require.True(t, view.Found)
		assert.Equal(t, "/", view.BackTo)
		assert.Equal(t, "Garage", view.Listing.Title)
		assert.Equal(t, images.DefaultImage("Garage"), view.Listing.DisplayImageURL)
		assert.Equal(t, images.DefaultImage("Garage"), view.Listing.FallbackImageURL)
	})

	t.Run("NotFound", func(t *testing.T) {
		listings := new(MockListingStore)
		listings.On("FindByID", mock.Anything, "missing").Return(nil, store.ErrListingNotFound)

		view := NewDetailService(listings).Open(ctx, "missing")
		assert.False(t, view.Found)
		assert.Equal(t, "/", view.BackTo)
		assert.Nil(t, view.Listing)
	})

	t.Run("FetchErrorRendersNotFound", func(t *testing.T) {
		listings := new(MockListingStore)
		listings.On("FindByID", mock.Anything, "abc").Return(nil, errors.New("timeout"))

		view := NewDetailService(listings).Open(ctx, "abc")
		assert.False(t, view.Found)
		assert.Equal(t, "/", view.BackTo)
	})

	t.Run("BlankIDSkipsStore", func(t *testing.T) {
		listings := new(MockListingStore)

		view := NewDetailService(listings).Open(ctx, "   ")
		assert.False(t, view.Found)
		listings.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}
