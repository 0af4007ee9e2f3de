package storage

import (
	"context"

	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/geo"
)

// StoreBox is the bounding-box prefilter for the nearby-stores query. The box
// must fully contain the search circle; the exact distance cut happens in the
// service layer with geo.Distance.
type StoreBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// CatalogStorage defines persistence operations for the product and store
// catalog. The ingestion pipeline only resolves references; creation comes
// from the catalog service.
type CatalogStorage interface {
	// ProductByID fetches a product by ID. Returns nil when not found.
	ProductByID(ctx context.Context, id domain.ProductID) (*domain.Product, error)

	// ProductByNameCurrency fetches a product by its canonical name and
	// currency, honoring the (name, currency) uniqueness invariant.
	// Returns nil when not found.
	ProductByNameCurrency(ctx context.Context, name, currency string) (*domain.Product, error)

	// StoreProduct inserts a new product and returns the stored row. The
	// (name, currency) unique constraint surfaces as serrors.ErrConflict.
	StoreProduct(ctx context.Context, product domain.Product) (*domain.Product, error)

	// StoreByID fetches a store by ID. Returns nil when not found.
	StoreByID(ctx context.Context, id domain.StoreID) (*domain.Store, error)

	// StoreStore inserts a new store and returns the stored row.
	StoreStore(ctx context.Context, store domain.Store) (*domain.Store, error)

	// StoresInBox returns all stores whose coordinates fall inside the box.
	StoresInBox(ctx context.Context, box StoreBox) ([]domain.Store, error)
}

// NewStoreBox builds the query box containing the circle of radiusKm around p.
func NewStoreBox(p geo.Point, radiusKm float64) StoreBox {
	minLat, maxLat, minLon, maxLon := geo.BoundingBox(p, radiusKm)

	return StoreBox{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}
}
