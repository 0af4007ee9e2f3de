package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProductID uniquely identifies a product.
// It wraps uuid.UUID to provide type safety at the domain layer.
type ProductID uuid.UUID

// Product is a catalog entry users report prices for. The pair
// (Name, Currency) is unique: the same normalized name may exist once per
// currency, so "leche 1 l" in ARS and in USD are distinct products.
type Product struct {
	// ID is the unique identifier of the product.
	ID ProductID `json:"id"`

	// Name is the canonical (normalized) product name used for storage and lookup.
	Name string `json:"name"`
	// Currency is the ISO currency code prices for this product are quoted in.
	Currency string `json:"currency"`

	// CreatedAt is the time the product was first registered.
	CreatedAt time.Time `json:"createdAt"`
}
