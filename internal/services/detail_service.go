package services

import (
	"context"
	"errors"

	"storagemarket/web/internal/logging"
	"storagemarket/web/internal/store"
	"storagemarket/web/internal/utils"
)

// BrowsePath is the route of the browse page.
const BrowsePath = "/"

// DetailView is the result of opening one listing.
type DetailView struct {
	Found   bool
	BackTo  string
	Listing *ListingView
}

// IDetailService opens detail views.
type IDetailService interface {
	Open(ctx context.Context, id string) DetailView
}

// detailService implements IDetailService.
type detailService struct {
	listings store.IListingStore
}

// NewDetailService creates a new DetailService.
func NewDetailService(listings store.IListingStore) IDetailService {
	return &detailService{listings: listings}
}

// Open fetches the listing with the given identifier. Any failure renders as not found.
func (s *detailService) Open(ctx context.Context, id string) DetailView {
	id, ok := utils.NormalizeID(id)
	if !ok {
		return DetailView{BackTo: BrowsePath}
	}

	listing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrListingNotFound) {
			logging.Logger.WithError(err).WithField("listing_id", id).Error("Failed to fetch listing")
		}
		return DetailView{BackTo: BrowsePath}
	}

	view := NewListingView(*listing)
	return DetailView{Found: true, BackTo: BrowsePath, Listing: &view}
}
