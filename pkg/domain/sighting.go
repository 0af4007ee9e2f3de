package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/vaskito85/buscador-precios/pkg/geo"
)

// SightingID uniquely identifies a price sighting.
// It wraps uuid.UUID to provide type safety at the domain layer.
type SightingID uuid.UUID

// Sighting is a single user-submitted observation of a product's price at a
// store. A sighting starts unvalidated; the ingestion pipeline flips Validated
// to true exactly once when enough independent prior reports corroborate it.
// Sightings are never mutated after that and never deleted by this service.
type Sighting struct {
	// ID is the unique identifier of the sighting.
	ID SightingID `json:"id"`
	// UserID is the identifier of the user who reported the price.
	UserID UserID `json:"userId"`

	// ProductID references the product the price was observed for.
	ProductID ProductID `json:"productId"`
	// StoreID references the store the price was observed at.
	StoreID StoreID `json:"storeId"`

	// Price is the observed price, always positive.
	Price float64 `json:"price"`
	// Location is the geographic point the observation was made from.
	Location geo.Point `json:"location"`

	// Validated reports whether the quorum rule accepted this sighting.
	// The transition false -> true is monotone and never reverted.
	Validated bool `json:"validated"`

	// CreatedAt is the submission time, assigned by the database on insert.
	CreatedAt time.Time `json:"createdAt"`
}

// Confidence grades how trustworthy a reported price is based on how many
// independent sightings back it.
type Confidence string

const (
	// ConfidenceLow marks a price reported by a single person.
	ConfidenceLow Confidence = "LOW"
	// ConfidenceMedium marks a price confirmed by two or three people.
	ConfidenceMedium Confidence = "MEDIUM"
	// ConfidenceHigh marks a price confirmed by four or more people.
	ConfidenceHigh Confidence = "HIGH"
)

// ConfidenceForCount maps a report count to a confidence grade.
func ConfidenceForCount(count int) Confidence {
	switch {
	case count <= 1:
		return ConfidenceLow
	case count <= 3:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}
