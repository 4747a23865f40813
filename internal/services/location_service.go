package services

import (
	"storagemarket/web/internal/images"
	"storagemarket/web/internal/locations"
	"storagemarket/web/internal/models"
)

// ILocationService serves the reference data behind the submission form.
type ILocationService interface {
	SuggestLocations(query string) []string
	UnitTypes() []string
	DefaultImage(unitType string) string
}

// locationService implements ILocationService over the built-in reference lists.
type locationService struct{}

// NewLocationService creates a new LocationService.
func NewLocationService() ILocationService {
	return &locationService{}
}

// SuggestLocations returns up to locations.MaxSuggestions cities then states starting with query.
func (s *locationService) SuggestLocations(query string) []string {
	return locations.Suggestions(query)
}

// UnitTypes returns the fixed enumeration offered by the submission form.
func (s *locationService) UnitTypes() []string {
	types := make([]string, 0, len(models.UnitTypes))
	for _, t := range models.UnitTypes {
		types = append(types, string(t))
	}
	return types
}

func (s *locationService) DefaultImage(unitType string) string {
	return images.DefaultImage(unitType)
}
