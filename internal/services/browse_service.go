package services

import (
	"context"
	"strings"

	"storagemarket/web/internal/logging"
	"storagemarket/web/internal/models"
	"storagemarket/web/internal/store"
)

const (
	// MessageNoListings is shown when the snapshot holds no listings at all.
	MessageNoListings = "No storage units available at the moment."
	// MessageNoMatches is shown when the filters remove every listing.
	MessageNoMatches = "No units match your search criteria."
)

// FilterListings returns the listings of snapshot matching searchTerm and selectedType, in snapshot order.
// A listing matches the search term when its city contains the trimmed term ignoring case,
// or its zip contains the trimmed term as-is. An empty term or type places no constraint.
func FilterListings(snapshot []models.Listing, searchTerm, selectedType string) []models.Listing {
	term := strings.TrimSpace(searchTerm)
	lowerTerm := strings.ToLower(term)

	result := make([]models.Listing, 0, len(snapshot))
	for _, l := range snapshot {
		if term != "" &&
			!strings.Contains(strings.ToLower(l.LocationCity), lowerTerm) &&
			!strings.Contains(l.LocationZip, term) {
			continue
		}
		if selectedType != "" && l.UnitType != selectedType {
			continue
		}
		result = append(result, l)
	}
	return result
}

// DistinctUnitTypes returns the unit types present in snapshot in first-seen order.
func DistinctUnitTypes(snapshot []models.Listing) []string {
	seen := make(map[string]struct{}, len(snapshot))
	types := []string{}
	for _, l := range snapshot {
		if _, ok := seen[l.UnitType]; ok {
			continue
		}
		seen[l.UnitType] = struct{}{}
		types = append(types, l.UnitType)
	}
	return types
}

// BrowseView holds the state of one browse page: the fetched snapshot and the two filter inputs.
type BrowseView struct {
	allListings  []models.Listing
	searchTerm   string
	selectedType string
	loading      bool
	visible      []models.Listing
}

// NewBrowseView returns an idle view over an empty snapshot.
func NewBrowseView() *BrowseView {
	v := &BrowseView{allListings: []models.Listing{}}
	v.recompute()
	return v
}

// BeginLoad marks the snapshot fetch as in flight.
func (v *BrowseView) BeginLoad() {
	v.loading = true
}

// FinishLoad stores the fetched snapshot. A fetch error is logged and leaves an empty snapshot.
func (v *BrowseView) FinishLoad(listings []models.Listing, err error) {
	v.loading = false
	if err != nil {
		logging.Logger.WithError(err).Error("Failed to fetch available listings")
		listings = nil
	}
	v.allListings = make([]models.Listing, len(listings))
	copy(v.allListings, listings)
	v.recompute()
}

func (v *BrowseView) SetSearchTerm(term string) {
	v.searchTerm = term
	v.recompute()
}

func (v *BrowseView) SetSelectedType(unitType string) {
	v.selectedType = unitType
	v.recompute()
}

func (v *BrowseView) recompute() {
	v.visible = FilterListings(v.allListings, v.searchTerm, v.selectedType)
}

func (v *BrowseView) Loading() bool {
	return v.loading
}

func (v *BrowseView) SearchTerm() string {
	return v.searchTerm
}

func (v *BrowseView) SelectedType() string {
	return v.selectedType
}

// Visible returns the filtered listings.
func (v *BrowseView) Visible() []models.Listing {
	return v.visible
}

// VisibleViews returns the filtered listings with their resolved images.
func (v *BrowseView) VisibleViews() []ListingView {
	return NewListingViews(v.visible)
}

// UnitTypes returns the filter options: the unit types present in the snapshot.
func (v *BrowseView) UnitTypes() []string {
	return DistinctUnitTypes(v.allListings)
}

// EmptyMessage explains an empty result, or returns "" when listings are visible or still loading.
func (v *BrowseView) EmptyMessage() string {
	switch {
	case v.loading || len(v.visible) > 0:
		return ""
	case len(v.allListings) == 0:
		return MessageNoListings
	default:
		return MessageNoMatches
	}
}

// IBrowseService opens browse views.
type IBrowseService interface {
	Open(ctx context.Context) *BrowseView
}

// browseService implements IBrowseService.
type browseService struct {
	listings store.IListingStore
}

// NewBrowseService creates a new BrowseService.
func NewBrowseService(listings store.IListingStore) IBrowseService {
	return &browseService{listings: listings}
}

// Open reads the available-listings snapshot once. It never fails; a fetch error yields an empty view.
func (s *browseService) Open(ctx context.Context) *BrowseView {
	v := NewBrowseView()
	v.BeginLoad()
	listings, err := s.listings.ListAvailable(ctx)
	v.FinishLoad(listings, err)
	return v
}
