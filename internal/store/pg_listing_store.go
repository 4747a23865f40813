package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"storagemarket/web/internal/db"
	"storagemarket/web/internal/models"
	"storagemarket/web/internal/utils"
)

const listingsSchema = `
CREATE TABLE IF NOT EXISTS listings (
    id              TEXT PRIMARY KEY,
    title           TEXT NOT NULL,
    description     TEXT NOT NULL,
    location_city   TEXT NOT NULL,
    location_zip    TEXT NOT NULL,
    price_per_month DOUBLE PRECISION NOT NULL CHECK (price_per_month >= 0),
    unit_type       TEXT NOT NULL,
    size_sq_ft      INTEGER NOT NULL CHECK (size_sq_ft >= 0),
    image_url       TEXT,
    is_available    BOOLEAN NOT NULL DEFAULT TRUE,
    contact_email   TEXT NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS listings_available_created_at_idx ON listings (is_available, created_at DESC);
`

const listingColumns = `id, title, description, location_city, location_zip, price_per_month,
unit_type, size_sq_ft, image_url, is_available, contact_email, created_at`

// pgListingStore implements IListingStore on a Postgres table.
type pgListingStore struct {
	db *sqlx.DB
}

// NewPostgresListingStore creates a listing store backed by the "listings" table.
func NewPostgresListingStore(pg *sqlx.DB) IListingStore {
	return &pgListingStore{db: pg}
}

// EnsurePostgresSchema creates the listings table and its browse index when missing.
func EnsurePostgresSchema(ctx context.Context, pg *sqlx.DB) error {
	if _, err := pg.ExecContext(ctx, listingsSchema); err != nil {
		return fmt.Errorf("failed to create listings schema: %w", err)
	}
	return nil
}

func (s *pgListingStore) ListAvailable(ctx context.Context) ([]models.Listing, error) {
	list := []models.Listing{}
	err := s.db.SelectContext(ctx, &list, `
		SELECT `+listingColumns+` FROM listings
		WHERE is_available = TRUE
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query available listings: %w", err)
	}
	for i := range list {
		list[i].CreatedAt = list[i].CreatedAt.UTC()
	}
	return list, nil
}

func (s *pgListingStore) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	var l models.Listing
	err := s.db.GetContext(ctx, &l, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("error finding listing by ID %s: %w", id, err)
	}
	l.CreatedAt = l.CreatedAt.UTC()
	return &l, nil
}

func (s *pgListingStore) Insert(ctx context.Context, draft models.ListingDraft) (*models.Listing, error) {
	now := time.Now().UTC().Truncate(time.Microsecond) // timestamptz precision

	var newListing models.Listing
	operation := func() error {
		newListing = draft.ToListing(utils.NewID(), now)
		_, err := s.db.NamedExecContext(ctx, `
			INSERT INTO listings
				(`+listingColumns+`)
			VALUES
				(:id, :title, :description, :location_city, :location_zip, :price_per_month,
				 :unit_type, :size_sq_ft, :image_url, :is_available, :contact_email, :created_at)
		`, newListing)
		return err
	}

	if err := db.TryPostgres(operation); err != nil {
		return nil, fmt.Errorf("failed to insert listing (last attempted ID: %s): %w", newListing.ID, err)
	}
	return &newListing, nil
}
