package store

import (
	"context"
	"errors"

	"storagemarket/web/internal/models"
)

// ListingsTable is the collection/table holding listing records.
const ListingsTable = "listings"

// ErrListingNotFound is returned by FindByID when no listing has the identifier.
var ErrListingNotFound = errors.New("listing not found")

// IListingStore is the hosted data store holding listing records.
type IListingStore interface {
	// ListAvailable returns every listing with is_available = true, newest first.
	ListAvailable(ctx context.Context) ([]models.Listing, error)
	// FindByID returns the listing with the given identifier or ErrListingNotFound.
	FindByID(ctx context.Context, id string) (*models.Listing, error)
	// Insert stores a new listing, assigning its identifier and creation time.
	Insert(ctx context.Context, draft models.ListingDraft) (*models.Listing, error)
}
