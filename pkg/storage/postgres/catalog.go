package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/serrors"
	"github.com/vaskito85/buscador-precios/pkg/storage"
)

const (
	productsTable = "products"
	storesTable   = "stores"

	uniqueViolationCode = "23505"
)

// ProductByID returns a product by its ID, or nil when not found.
func (p *PgSQL) ProductByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	var row PgProduct
	found, err := p.Builder.From(productsTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch product by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// ProductByNameCurrency returns the product with the given canonical name and
// currency, or nil when not found.
func (p *PgSQL) ProductByNameCurrency(ctx context.Context, name, currency string) (*domain.Product, error) {
	var row PgProduct
	found, err := p.Builder.From(productsTable).
		Where(
			goqu.I("name").Eq(name),
			goqu.I("currency").Eq(currency),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch product by name and currency: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// StoreProduct inserts a new product. A violation of the (name, currency)
// unique constraint surfaces as serrors.ErrConflict so callers can fall back
// to the existing row.
func (p *PgSQL) StoreProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	var row PgProduct
	row.FromDomain(product)

	var result PgProduct
	found, err := p.Builder.Insert(productsTable).
		Rows(row).
		Returning(&PgProduct{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, serrors.Wrap(serrors.ErrConflict, err, "product already exists")
		}

		return nil, fmt.Errorf("could not store product into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store product into pg: no row returned")
	}

	return result.ToDomain(), nil
}

// StoreByID returns a store by its ID, or nil when not found.
func (p *PgSQL) StoreByID(ctx context.Context, id domain.StoreID) (*domain.Store, error) {
	var row PgStore
	found, err := p.Builder.From(storesTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch store by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// StoreStore inserts a new store and returns the stored row.
func (p *PgSQL) StoreStore(ctx context.Context, store domain.Store) (*domain.Store, error) {
	var row PgStore
	row.FromDomain(store)

	var result PgStore
	found, err := p.Builder.Insert(storesTable).
		Rows(row).
		Returning(&PgStore{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("could not store store into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store store into pg: no row returned")
	}

	return result.ToDomain(), nil
}

// StoresInBox returns all stores inside the bounding box, unordered. The
// caller applies the exact distance cut and sorting.
func (p *PgSQL) StoresInBox(ctx context.Context, box storage.StoreBox) ([]domain.Store, error) {
	var rows []PgStore
	if err := p.Builder.From(storesTable).
		Where(
			goqu.I("lat").Gte(box.MinLat),
			goqu.I("lat").Lte(box.MaxLat),
			goqu.I("lon").Gte(box.MinLon),
			goqu.I("lon").Lte(box.MaxLon),
		).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch stores in box from pg: %w", err)
	}

	return pgStoresToDomain(rows), nil
}
