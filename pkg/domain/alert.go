package domain

import (
	"time"

	"github.com/google/uuid"
)

// AlertID uniquely identifies a price alert.
// It wraps uuid.UUID to provide type safety at the domain layer.
type AlertID uuid.UUID

// Alert is a user's standing interest in validated prices for a product.
// Alerts are created and deactivated through the user-management surface; the
// ingestion pipeline only ever reads them.
type Alert struct {
	// ID is the unique identifier of the alert.
	ID AlertID `json:"id"`
	// UserID is the identifier of the user who owns the alert.
	UserID UserID `json:"userId"`

	// ProductID references the product the alert watches.
	ProductID ProductID `json:"productId"`
	// TargetPrice, when set, is the inclusive price ceiling: a sighting
	// satisfies the alert only if its price is at or below this value.
	// Nil means any price qualifies.
	TargetPrice *float64 `json:"targetPrice,omitempty"`
	// RadiusKm is the geofence radius in kilometers around the store a
	// validated sighting was reported at. Always positive.
	RadiusKm float64 `json:"radiusKm"`

	// Active reports whether the alert participates in matching.
	Active bool `json:"active"`

	// CreatedAt is the time the alert was created.
	CreatedAt time.Time `json:"createdAt"`
}
