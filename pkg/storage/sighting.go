package storage

import (
	"context"
	"time"

	"github.com/vaskito85/buscador-precios/pkg/domain"
)

// SightingWindow selects the prior sightings considered when deciding whether
// a new submission is corroborated: same product, same store, created within
// [From, To], excluding the submission itself.
type SightingWindow struct {
	ProductID domain.ProductID
	StoreID   domain.StoreID
	// From and To bound created_at inclusively on both ends.
	From time.Time
	To   time.Time
	// Exclude removes a single sighting (the one being decided) from the result.
	Exclude domain.SightingID
}

// StorePriceCount aggregates the reports for one (product, store) pair:
// the most recent sighting and how many sightings back that price point.
type StorePriceCount struct {
	Latest domain.Sighting
	Count  int
}

// SightingStorage defines persistence operations for price sightings.
// Sightings are append-only except for the one-shot validation flag.
type SightingStorage interface {
	// AcquirePairLock serializes concurrent submissions for the same
	// (product, store) pair for the duration of the current transaction.
	// It must be called inside a transaction; implementations may block until
	// the competing transaction finishes.
	AcquirePairLock(ctx context.Context, productID domain.ProductID, storeID domain.StoreID) error

	// StoreSighting inserts a new, unvalidated sighting and returns the stored
	// row as it exists in the database (including generated ID and created_at).
	StoreSighting(ctx context.Context, sighting domain.Sighting) (*domain.Sighting, error)

	// SightingsInWindow returns the sightings selected by the window, ordered
	// by created_at ascending. The price tolerance rule is applied by the
	// caller; this query only narrows by pair and time.
	SightingsInWindow(ctx context.Context, window SightingWindow) ([]domain.Sighting, error)

	// MarkSightingValidated flips the validation flag of the given sighting
	// from false to true. The transition is monotone; marking an already
	// validated sighting is a no-op.
	MarkSightingValidated(ctx context.Context, id domain.SightingID) error

	// SightingByID fetches a sighting by its ID. Returns nil when not found.
	SightingByID(ctx context.Context, id domain.SightingID) (*domain.Sighting, error)

	// PriceCountsByStores returns, for every (product, store) pair with at
	// least one sighting in any of the given stores, the latest sighting and
	// the total report count. Used by the nearby price list.
	PriceCountsByStores(ctx context.Context, storeIDs []domain.StoreID) ([]StorePriceCount, error)
}
