package catalog

import (
	"context"

	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/geo"
)

// StorePrice is one entry of the nearby price list: the best known price of a
// product at a store, graded by how many reports back it.
type StorePrice struct {
	Product    domain.Product    `json:"product"`
	Store      domain.Store      `json:"store"`
	Price      float64           `json:"price"`
	Validated  bool              `json:"validated"`
	Reports    int               `json:"reports"`
	Confidence domain.Confidence `json:"confidence"`
	Meters     float64           `json:"meters"`
}

//go:generate mockgen -package mockcatalog -source=interface.go -destination=mock/mockcatalog.go *
type Catalog interface {
	FindOrCreateProduct(ctx context.Context, name, currency string) (*domain.Product, error)
	CreateStore(ctx context.Context, name, address string, location geo.Point) (*domain.Store, error)
	NearbyStores(ctx context.Context, origin geo.Point, radiusKm float64) ([]domain.StoreDistance, error)
	NearbyPrices(ctx context.Context, origin geo.Point, radiusKm float64, nameFilter string) ([]StorePrice, error)
	CreateAlert(ctx context.Context,
		userID domain.UserID,
		productID domain.ProductID,
		targetPrice *float64,
		radiusKm float64) (*domain.Alert, error)
	DeactivateAlert(ctx context.Context, userID domain.UserID, id domain.AlertID) (*domain.Alert, error)
	UserAlerts(ctx context.Context, userID domain.UserID) ([]domain.Alert, error)
}
