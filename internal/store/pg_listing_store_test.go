package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storagemarket/web/internal/models"
	"storagemarket/web/internal/utils"
)

func TestPostgresListingStore(t *testing.T) {
	pg := utils.SetupTestPostgres(t, ListingsTable)
	ctx := context.Background()
	require.NoError(t, EnsurePostgresSchema(ctx, pg))
	// Schema creation is idempotent.
	require.NoError(t, EnsurePostgresSchema(ctx, pg))
	s := NewPostgresListingStore(pg)

	list, err := s.ListAvailable(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	img := "https://cdn.example.com/unit-images/y.jpg"
	first, err := s.Insert(ctx, models.NewListingDraft("Boat Slip", "d", "Miami", "33101", 75.5, "Boat Storage", 300, &img, "a@b.com"))
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := s.Insert(ctx, models.NewListingDraft("RV Pad", "d", "Phoenix", "85001", 0, "RV Storage", 0, nil, "c@d.com"))
	require.NoError(t, err)

	_, err = pg.ExecContext(ctx, `INSERT INTO listings
		(id, title, description, location_city, location_zip, price_per_month, unit_type, size_sq_ft, is_available, contact_email)
		VALUES ('hidden', 'Rented', '', 'X', '0', 1, 'Other', 1, FALSE, 'x@y.com')`)
	require.NoError(t, err)

	list, err = s.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Nil(t, list[0].ImageURL)
	require.NotNil(t, list[1].ImageURL)
	assert.Equal(t, img, *list[1].ImageURL)

	got, err := s.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.5, got.PricePerMonth)
	assert.Equal(t, "Boat Storage", got.UnitType)
	assert.True(t, got.CreatedAt.Equal(first.CreatedAt))

	_, err = s.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrListingNotFound)
}
