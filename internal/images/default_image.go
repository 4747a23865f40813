package images

import (
	"strings"
)

// Category keys of CategoryImages.
const (
	CategoryGarage      = "garage"
	CategoryWarehouse   = "warehouse"
	CategoryBoatStorage = "boat storage"
	CategoryRVStorage   = "rv storage"
	CategoryDriveway    = "driveway"
	CategoryOther       = "other"
)

// CategoryImages maps a lower-cased category to its placeholder image.
var CategoryImages = map[string]string{
	CategoryGarage:      "https://images.unsplash.com/photo-1580587771525-78b9dba3b914?w=800&h=600&fit=crop",
	CategoryWarehouse:   "https://images.unsplash.com/photo-1586528116311-ad8dd3c8310d?w=800&h=600&fit=crop",
	CategoryBoatStorage: "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=800&h=600&fit=crop",
	CategoryRVStorage:   "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=800&h=600&fit=crop",
	CategoryDriveway:    "https://images.unsplash.com/photo-1549317661-bd32c8ce0db2?w=800&h=600&fit=crop",
	CategoryOther:       "https://images.unsplash.com/photo-1586528116311-ad8dd3c8310d?w=800&h=600&fit=crop",
}

// keyword rules, first match wins
var categoryRules = []struct {
	category string
	keywords []string
}{
	{CategoryBoatStorage, []string{"boat", "marine"}},
	{CategoryRVStorage, []string{"rv", "recreational"}},
	{CategoryWarehouse, []string{"warehouse", "storage"}},
	{CategoryGarage, []string{"garage"}},
	{CategoryDriveway, []string{"driveway", "parking"}},
}

// DefaultImage returns the placeholder image URL for a unit type label.
// Labels are classified by keyword containment before falling back to an
// exact lookup in CategoryImages, and finally to the "other" image.
func DefaultImage(unitType string) string {
	t := strings.ToLower(unitType)

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return CategoryImages[rule.category]
			}
		}
	}

	if url, ok := CategoryImages[t]; ok {
		return url
	}
	return CategoryImages[CategoryOther]
}

// DisplayImage returns imageURL when it is set, otherwise the default for unitType.
func DisplayImage(imageURL *string, unitType string) string {
	if imageURL != nil && *imageURL != "" {
		return *imageURL
	}
	return DefaultImage(unitType)
}
