package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/vaskito85/buscador-precios/pkg/geo"
)

// StoreID uniquely identifies a physical store.
// It wraps uuid.UUID to provide type safety at the domain layer.
type StoreID uuid.UUID

// Store is a physical location prices are reported at. Its coordinates are
// fixed at creation; only metadata such as the address may be edited, and that
// happens outside this service.
type Store struct {
	// ID is the unique identifier of the store.
	ID StoreID `json:"id"`

	// Name is the display name of the store.
	Name string `json:"name"`
	// Address is a free-form street address, possibly empty.
	Address string `json:"address,omitempty"`
	// Location is the geographic point of the store.
	Location geo.Point `json:"location"`

	// CreatedAt is the time the store was registered.
	CreatedAt time.Time `json:"createdAt"`
}

// StoreDistance pairs a store with its distance from a reference point, as
// returned by the nearby-stores query.
type StoreDistance struct {
	Store Store `json:"store"`
	// Meters is the great-circle distance from the query point to the store.
	Meters float64 `json:"meters"`
}
