// Package catalog implements the product and store catalog: creation with
// canonical product naming, geographic store lookup, the nearby price list and
// the alert management surface.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/geo"
	"github.com/vaskito85/buscador-precios/pkg/serrors"
	"github.com/vaskito85/buscador-precios/pkg/storage"
)

// catalog is the concrete implementation of the Catalog interface.
type catalog struct {
	storage storage.Storage
}

// New creates a new Catalog instance backed by the provided storage.
func New(storage storage.Storage) Catalog {
	return &catalog{storage: storage}
}

// FindOrCreateProduct resolves a product by its canonical name and currency,
// creating it when missing. A concurrent create of the same product is
// absorbed by re-fetching after a uniqueness conflict, so the call is safe to
// race.
func (c *catalog) FindOrCreateProduct(ctx context.Context, name, currency string) (*domain.Product, error) {
	canonical := NormalizeProductName(name)
	if canonical == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "product name must not be empty")
	}
	if currency == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "currency must not be empty")
	}

	existing, err := c.storage.ProductByNameCurrency(ctx, canonical, currency)
	if err != nil {
		return nil, fmt.Errorf("could not look up product: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	created, err := c.storage.StoreProduct(ctx, domain.Product{
		Name:     canonical,
		Currency: currency,
	})
	if err != nil {
		if errors.Is(err, serrors.ErrConflict) {
			// someone else created it between the lookup and the insert
			existing, err = c.storage.ProductByNameCurrency(ctx, canonical, currency)
			if err != nil {
				return nil, fmt.Errorf("could not look up product after conflict: %w", err)
			}
			if existing != nil {
				return existing, nil
			}
		}

		return nil, fmt.Errorf("could not create product: %w", err)
	}

	return created, nil
}

// CreateStore registers a new store at the given location.
func (c *catalog) CreateStore(ctx context.Context, name, address string, location geo.Point) (*domain.Store, error) {
	if name == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "store name must not be empty")
	}
	if !location.Valid() {
		return nil, serrors.With(serrors.ErrBadRequest, "invalid coordinates")
	}

	store, err := c.storage.StoreStore(ctx, domain.Store{
		Name:     name,
		Address:  address,
		Location: location,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create store: %w", err)
	}

	return store, nil
}

// NearbyStores returns the stores within radiusKm of the origin, closest
// first. The storage query prefilters by bounding box; the exact cut uses the
// haversine distance and is inclusive at the boundary.
func (c *catalog) NearbyStores(ctx context.Context,
	origin geo.Point,
	radiusKm float64) ([]domain.StoreDistance, error) {
	if !origin.Valid() {
		return nil, serrors.With(serrors.ErrBadRequest, "invalid coordinates")
	}
	if radiusKm <= 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "radius must be positive")
	}

	candidates, err := c.storage.StoresInBox(ctx, storage.NewStoreBox(origin, radiusKm))
	if err != nil {
		return nil, fmt.Errorf("could not fetch candidate stores: %w", err)
	}

	var nearby []domain.StoreDistance
	for _, store := range candidates {
		d := geo.Distance(origin, store.Location)
		if d <= radiusKm*1000 {
			nearby = append(nearby, domain.StoreDistance{Store: store, Meters: d})
		}
	}
	sort.Slice(nearby, func(i, j int) bool { return nearby[i].Meters < nearby[j].Meters })

	return nearby, nil
}

// NearbyPrices returns the latest reported price per (product, store) pair
// for every store within radiusKm of the origin, cheapest first. Each entry
// carries the report count and its confidence grade. A non-empty nameFilter
// keeps only products whose canonical name contains the filter's canonical
// form.
func (c *catalog) NearbyPrices(ctx context.Context,
	origin geo.Point,
	radiusKm float64,
	nameFilter string) ([]StorePrice, error) {
	filter := NormalizeProductName(nameFilter)
	stores, err := c.NearbyStores(ctx, origin, radiusKm)
	if err != nil {
		return nil, err
	}
	if len(stores) == 0 {
		return nil, nil
	}

	byID := make(map[domain.StoreID]domain.StoreDistance, len(stores))
	storeIDs := make([]domain.StoreID, 0, len(stores))
	for _, s := range stores {
		byID[s.Store.ID] = s
		storeIDs = append(storeIDs, s.Store.ID)
	}

	counts, err := c.storage.PriceCountsByStores(ctx, storeIDs)
	if err != nil {
		return nil, fmt.Errorf("could not fetch price counts: %w", err)
	}

	products := make(map[domain.ProductID]*domain.Product)
	var prices []StorePrice
	for _, pc := range counts {
		product, ok := products[pc.Latest.ProductID]
		if !ok {
			product, err = c.storage.ProductByID(ctx, pc.Latest.ProductID)
			if err != nil {
				return nil, fmt.Errorf("could not fetch product: %w", err)
			}
			products[pc.Latest.ProductID] = product
		}
		if product == nil {
			continue
		}
		if filter != "" && !strings.Contains(product.Name, filter) {
			continue
		}

		sd, ok := byID[pc.Latest.StoreID]
		if !ok {
			continue
		}

		prices = append(prices, StorePrice{
			Product:    *product,
			Store:      sd.Store,
			Price:      pc.Latest.Price,
			Validated:  pc.Latest.Validated,
			Reports:    pc.Count,
			Confidence: domain.ConfidenceForCount(pc.Count),
			Meters:     sd.Meters,
		})
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].Price < prices[j].Price })

	return prices, nil
}

// CreateAlert registers a standing price alert for the user.
func (c *catalog) CreateAlert(ctx context.Context,
	userID domain.UserID,
	productID domain.ProductID,
	targetPrice *float64,
	radiusKm float64) (*domain.Alert, error) {
	if radiusKm <= 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "radius must be positive")
	}
	if targetPrice != nil && *targetPrice <= 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "target price must be positive")
	}

	product, err := c.storage.ProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch product: %w", err)
	}
	if product == nil {
		return nil, serrors.With(serrors.ErrNotFound, "product not found")
	}

	alert, err := c.storage.StoreAlert(ctx, domain.Alert{
		UserID:      userID,
		ProductID:   productID,
		TargetPrice: targetPrice,
		RadiusKm:    radiusKm,
		Active:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create alert: %w", err)
	}

	return alert, nil
}

// DeactivateAlert turns off an alert owned by the user. Deactivating an alert
// that does not exist, or that belongs to someone else, is a not-found error.
func (c *catalog) DeactivateAlert(ctx context.Context,
	userID domain.UserID,
	id domain.AlertID) (*domain.Alert, error) {
	alert, err := c.storage.DeactivateAlert(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("could not deactivate alert: %w", err)
	}
	if alert == nil {
		return nil, serrors.With(serrors.ErrNotFound, "alert not found")
	}

	return alert, nil
}

// UserAlerts returns all alerts owned by the user, newest first.
func (c *catalog) UserAlerts(ctx context.Context, userID domain.UserID) ([]domain.Alert, error) {
	alerts, err := c.storage.UserAlerts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not get user alerts: %w", err)
	}

	return alerts, nil
}
