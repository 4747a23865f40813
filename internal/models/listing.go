package models

import (
	"time"
)

// UnitType is the category of a storage unit.
type UnitType string

const (
	UnitTypeGarage      UnitType = "Garage"
	UnitTypeWarehouse   UnitType = "Warehouse"
	UnitTypeDriveway    UnitType = "Driveway"
	UnitTypeBoatStorage UnitType = "Boat Storage"
	UnitTypeRVStorage   UnitType = "RV Storage"
	UnitTypeOther       UnitType = "Other"
)

// UnitTypes lists every unit type in the order offered by the submission form.
var UnitTypes = []UnitType{
	UnitTypeGarage,
	UnitTypeWarehouse,
	UnitTypeDriveway,
	UnitTypeBoatStorage,
	UnitTypeRVStorage,
	UnitTypeOther,
}

// IsValidUnitType reports whether s is one of UnitTypes (exact match).
func IsValidUnitType(s string) bool {
	for _, t := range UnitTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Listing represents a storage-unit rental record.
type Listing struct {
	ID            string    `bson:"_id" db:"id" json:"id"`
	Title         string    `bson:"title" db:"title" json:"title"`
	Description   string    `bson:"description" db:"description" json:"description"`
	LocationCity  string    `bson:"location_city" db:"location_city" json:"location_city"`
	LocationZip   string    `bson:"location_zip" db:"location_zip" json:"location_zip"`
	PricePerMonth float64   `bson:"price_per_month" db:"price_per_month" json:"price_per_month"`
	UnitType      string    `bson:"unit_type" db:"unit_type" json:"unit_type"`
	SizeSqFt      int       `bson:"size_sq_ft" db:"size_sq_ft" json:"size_sq_ft"`
	ImageURL      *string   `bson:"image_url" db:"image_url" json:"image_url"` // nil means use the category default
	IsAvailable   bool      `bson:"is_available" db:"is_available" json:"is_available"`
	ContactEmail  string    `bson:"contact_email" db:"contact_email" json:"contact_email"`
	CreatedAt     time.Time `bson:"created_at" db:"created_at" json:"created_at"`
}

// ListingDraft is a Listing before the store assigns ID and CreatedAt.
type ListingDraft struct {
	Title         string
	Description   string
	LocationCity  string
	LocationZip   string
	PricePerMonth float64
	UnitType      string
	SizeSqFt      int
	ImageURL      *string
	IsAvailable   bool
	ContactEmail  string
}

// NewListingDraft builds a draft for a new listing. New listings are always available.
func NewListingDraft(title, description, city, zip string, price float64, unitType string, sizeSqFt int, imageURL *string, contactEmail string) ListingDraft {
	return ListingDraft{
		Title:         title,
		Description:   description,
		LocationCity:  city,
		LocationZip:   zip,
		PricePerMonth: price,
		UnitType:      unitType,
		SizeSqFt:      sizeSqFt,
		ImageURL:      imageURL,
		IsAvailable:   true,
		ContactEmail:  contactEmail,
	}
}

// ToListing materialises the draft with the identity assigned by a store.
func (d ListingDraft) ToListing(id string, createdAt time.Time) Listing {
	return Listing{
		ID:            id,
		Title:         d.Title,
		Description:   d.Description,
		LocationCity:  d.LocationCity,
		LocationZip:   d.LocationZip,
		PricePerMonth: d.PricePerMonth,
		UnitType:      d.UnitType,
		SizeSqFt:      d.SizeSqFt,
		ImageURL:      d.ImageURL,
		IsAvailable:   d.IsAvailable,
		ContactEmail:  d.ContactEmail,
		CreatedAt:     createdAt,
	}
}
