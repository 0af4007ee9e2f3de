package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/geo"
	"github.com/vaskito85/buscador-precios/pkg/serrors"
	"github.com/vaskito85/buscador-precios/pkg/storage"
)

func TestPgSQL_StoreProduct_DuplicateNameCurrencyConflicts(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	product := seedProduct(t, pg, "leche 1 l")
	require.NotEqual(t, domain.ProductID{}, product.ID)

	// Same (name, currency) violates the unique constraint.
	_, err := pg.StoreProduct(ctx, domain.Product{Name: "leche 1 l", Currency: "ARS"})
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrConflict)

	// Same name in another currency is a distinct product.
	other, err := pg.StoreProduct(ctx, domain.Product{Name: "leche 1 l", Currency: "USD"})
	require.NoError(t, err)
	require.NotEqual(t, product.ID, other.ID)

	// Lookup honors the pair.
	got, err := pg.ProductByNameCurrency(ctx, "leche 1 l", "ARS")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, product.ID, got.ID)

	missing, err := pg.ProductByNameCurrency(ctx, "leche 1 l", "EUR")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestPgSQL_ProductByID(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	product := seedProduct(t, pg, "yerba 500 g")

	got, err := pg.ProductByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "yerba 500 g", got.Name)

	missing, err := pg.ProductByID(ctx, domain.ProductID(uuid.New()))
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestPgSQL_StoreStore_And_StoresInBox(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	center := geo.Point{Lat: -38.7183, Lon: -62.2663}

	inside := seedStore(t, pg, "Almacen Centro", center)
	seedStore(t, pg, "Almacen Lejano", geo.Point{Lat: -38.90, Lon: -62.50})

	got, err := pg.StoreByID(ctx, inside.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, center, got.Location)

	missing, err := pg.StoreByID(ctx, domain.StoreID(uuid.New()))
	require.NoError(t, err)
	require.Nil(t, missing)

	// Box around the center with a 1 km circle only contains the close store.
	stores, err := pg.StoresInBox(ctx, storage.NewStoreBox(center, 1))
	require.NoError(t, err)
	require.Len(t, stores, 1)
	require.Equal(t, inside.ID, stores[0].ID)

	// A wide box contains both.
	stores, err = pg.StoresInBox(ctx, storage.NewStoreBox(center, 50))
	require.NoError(t, err)
	require.Len(t, stores, 2)
}
