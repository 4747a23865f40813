package services

import (
	"storagemarket/web/internal/images"
	"storagemarket/web/internal/models"
)

// ListingView is a listing as rendered to a client, with its resolved images.
// FallbackImageURL is what a client swaps in when DisplayImageURL fails to load.
type ListingView struct {
	models.Listing
	DisplayImageURL  string `json:"display_image_url"`
	FallbackImageURL string `json:"fallback_image_url"`
}

// NewListingView resolves the image URLs for l.
func NewListingView(l models.Listing) ListingView {
	return ListingView{
		Listing:          l,
		DisplayImageURL:  images.DisplayImage(l.ImageURL, l.UnitType),
		FallbackImageURL: images.DefaultImage(l.UnitType),
	}
}

// NewListingViews maps NewListingView over listings. The result is never nil.
func NewListingViews(listings []models.Listing) []ListingView {
	views := make([]ListingView, 0, len(listings))
	for _, l := range listings {
		views = append(views, NewListingView(l))
	}
	return views
}
